package tracker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tinygo.org/x/drivers"

	"flighttrack-go/bus"
	"flighttrack-go/services/tracker/internal/platform"
	"flighttrack-go/types"
)

// fixture wires a full service against host stand-ins with short timings.
type fixture struct {
	s     *service
	b     *bus.Bus
	deps  Deps
	radio *platform.HostUART
	gps   *platform.HostUART
	baro  *platform.HostBarometer
	store *platform.HostStorage

	baroOpen  *platform.HostBaroOpener
	storeOpen *platform.HostStorageOpener
}

func newFixture() *fixture {
	f := &fixture{
		radio: &platform.HostUART{},
		gps:   &platform.HostUART{},
		baro:  &platform.HostBarometer{Pressure: 1013.25, Altitude: 123.45},
		store: &platform.HostStorage{},
	}
	f.baroOpen = &platform.HostBaroOpener{Dev: f.baro}
	f.storeOpen = &platform.HostStorageOpener{Store: f.store}

	f.deps = Deps{
		UARTs: &platform.HostUARTFactory{Ports: map[string]*platform.HostUART{
			"uart0": f.radio,
			"uart1": f.gps,
		}},
		I2Cs:    &platform.HostI2CFactory{Buses: map[string]drivers.I2C{"i2c0": &platform.HostI2C{}}},
		Baros:   f.baroOpen,
		Storage: f.storeOpen,
		Parser:  platform.GGAParser{},
	}

	f.b = bus.NewBus(64)
	f.s = newService(f.b.NewConnection("tracker"), f.deps, fastConfig())
	return f
}

func fastConfig() types.TrackerConfig {
	return types.TrackerConfig{
		Radio: types.RadioConfig{CmdTimeoutMs: 10, SendTimeoutMs: 10, SettleMs: 10},
		GPS:   types.GPSConfig{Iterations: 1, SliceMs: 10},
	}
}

// lastSend returns the most recent AT+SEND line on the radio port.
func (f *fixture) lastSend() string {
	lines := f.radio.SentLines()
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "AT+SEND=") {
			return lines[i]
		}
	}
	return ""
}

func TestCycleFullRecord(t *testing.T) {
	f := newFixture()
	f.s.bringUp()

	var rec types.TelemetryRecord
	for i := 0; i < 7; i++ {
		f.gps.Feed([]byte(ggaFix))
		rec = f.s.cycle()
	}

	if rec.Sequence != 7 {
		t.Fatalf("sequence = %d, want 7", rec.Sequence)
	}
	if rec.Baro == nil || rec.Position == nil {
		t.Fatalf("record incomplete: %+v", rec)
	}

	payload := "7#1013.25#123.45#12.345678#-98.765432#123519"
	if got := f.lastSend(); got != "AT+SEND=2,44,"+payload {
		t.Errorf("sent = %q, want %q", got, "AT+SEND=2,44,"+payload)
	}

	log := string(f.store.Contents("flight_data.txt"))
	if !strings.Contains(log, payload+"|") {
		t.Errorf("log missing record: %q", log)
	}
}

func TestCycleAllPeripheralsAbsent(t *testing.T) {
	f := newFixture()
	// Break everything before bring-up.
	deps := Deps{
		UARTs:   &platform.HostUARTFactory{Ports: map[string]*platform.HostUART{}},
		I2Cs:    &platform.HostI2CFactory{Buses: map[string]drivers.I2C{}},
		Baros:   &platform.HostBaroOpener{OpenErr: errors.New("no sensor")},
		Storage: &platform.HostStorageOpener{OpenErr: errors.New("no card")},
		Parser:  platform.GGAParser{},
	}
	f.s = newService(f.b.NewConnection("tracker2"), deps, fastConfig())
	f.s.bringUp()

	for i := 1; i <= 3; i++ {
		rec := f.s.cycle()
		if rec.Sequence != uint32(i) {
			t.Fatalf("cycle %d: sequence = %d", i, rec.Sequence)
		}
		if rec.Baro != nil || rec.Position != nil {
			t.Fatalf("cycle %d: record must be empty: %+v", i, rec)
		}
	}
}

func TestCycleDegradedStorageLine(t *testing.T) {
	f := newFixture()
	f.baroOpen.OpenErr = errors.New("no sensor")
	f.s.bringUp()

	for i := 0; i < 3; i++ {
		f.s.cycle()
	}

	log := string(f.store.Contents("flight_data.txt"))
	if !strings.Contains(log, "3#None#None#None|") {
		t.Errorf("log = %q, want degraded line for cycle 3", log)
	}
}

func TestLoggerFailureDoesNotBlockTransmit(t *testing.T) {
	f := newFixture()
	f.s.bringUp()
	f.store.WriteErr = errors.New("card pulled")
	f.radio.ClearSent()

	f.s.cycle()

	if f.lastSend() == "" {
		t.Fatal("transmit skipped after storage failure")
	}
}

func TestTransmitWriteErrorFailsHandle(t *testing.T) {
	f := newFixture()
	f.s.bringUp()
	f.radio.WriteErr = errors.New("uart gone")

	f.s.cycle()
	if f.s.radio.Ready() {
		t.Fatal("radio handle must fail on write error")
	}

	// Next cycle reopens and reconfigures the module.
	f.radio.WriteErr = nil
	f.radio.ClearSent()
	f.s.cycle()
	if !f.s.radio.Ready() {
		t.Fatal("radio handle must recover")
	}
	lines := f.radio.SentLines()
	if len(lines) == 0 || lines[0] != "AT" {
		t.Errorf("recovery must rerun setup, sent %v", lines)
	}
}

func TestNoStaleReadings(t *testing.T) {
	f := newFixture()
	f.s.bringUp()

	f.gps.Feed([]byte(ggaFix))
	rec := f.s.cycle()
	if rec.Position == nil {
		t.Fatal("expected a fix on the first cycle")
	}

	// GPS silent this cycle: position must be absent, not repeated.
	rec = f.s.cycle()
	if rec.Position != nil {
		t.Fatalf("stale position leaked: %+v", rec.Position)
	}

	f.baro.ReadErr = errors.New("nack")
	rec = f.s.cycle()
	if rec.Baro != nil {
		t.Fatalf("stale baro sample leaked: %+v", rec.Baro)
	}
}

func TestLinkStatesRetained(t *testing.T) {
	f := newFixture()
	f.s.bringUp()
	f.gps.Feed([]byte(ggaFix))
	f.s.cycle()

	conn := f.b.NewConnection("observer")
	sub := conn.Subscribe(bus.T("tracker", "link", "+"))

	seen := map[types.Link]bool{}
	for i := 0; i < 4; i++ {
		select {
		case m := <-sub.Channel():
			st, ok := m.Payload.(types.LinkState)
			if !ok {
				t.Fatalf("payload type %T", m.Payload)
			}
			seen[st.Link] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("retained link states: got %d, want 4", len(seen))
		}
	}
	if !seen[types.LinkUp] {
		t.Error("expected at least one up link")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture()
	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = Run(ctx, f.b.NewConnection("runner"), f.deps, fastConfig())
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
