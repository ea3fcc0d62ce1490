// Package tracker implements the flight telemetry loop: one sequential cycle
// per interval that samples the barometer, polls the GPS, appends to the
// flight log and transmits over the LoRa link. Every peripheral is owned by
// a Handle and any of them may be absent or broken at any point; the loop
// degrades instead of stopping.
package tracker

import (
	"context"
	"time"

	"flighttrack-go/bus"
	"flighttrack-go/services/tracker/internal/trackcore"
	"flighttrack-go/types"
	"flighttrack-go/x/timex"
)

// Deps re-exports the platform dependency bundle so callers outside the
// service tree can construct one.
type Deps = trackcore.Deps

type service struct {
	conn *bus.Connection
	cfg  types.TrackerConfig

	radio *Handle[*RadioLink]
	gps   *Handle[*PositionSource]
	baro  *Handle[*AltitudeSource]
	log   *Handle[*DataLogger]

	seq uint32
}

func newService(conn *bus.Connection, deps Deps, cfg types.TrackerConfig) *service {
	cfg.Normalise()
	s := &service{conn: conn, cfg: cfg}
	s.radio = NewHandle(func() (*RadioLink, error) {
		return OpenRadioLink(deps.UARTs, cfg.Radio)
	})
	s.gps = NewHandle(func() (*PositionSource, error) {
		return OpenPositionSource(deps.UARTs, deps.Parser, cfg.GPS)
	})
	s.baro = NewHandle(func() (*AltitudeSource, error) {
		return OpenAltitudeSource(deps.I2Cs, deps.Baros, cfg.Baro)
	})
	s.log = NewHandle(func() (*DataLogger, error) {
		return OpenDataLogger(deps.Storage, cfg.Storage)
	})
	return s
}

// Run drives the tracker until ctx is cancelled.
func Run(ctx context.Context, conn *bus.Connection, deps Deps, cfg types.TrackerConfig) error {
	s := newService(conn, deps, cfg)
	s.bringUp()
	s.loop(ctx)
	s.publishState("stopped")
	return nil
}

// bringUp makes one open attempt per peripheral. Failures are reported, not
// fatal; the cycle retries them.
func (s *service) bringUp() {
	s.publishState("starting")
	s.reopen("baro", s.baro.Open)
	s.reopen("gps", s.gps.Open)
	s.reopen("sd", s.log.Open)
	s.reopen("radio", s.radio.Open)
	s.publishState("running")
}

func (s *service) reopen(name string, open func() error) {
	if err := open(); err != nil {
		println("Warn: tracker:", name, "open:", err.Error())
	} else {
		println("Info: tracker:", name, "ready")
	}
}

func (s *service) loop(ctx context.Context) {
	interval := time.Duration(s.cfg.IntervalMs) * time.Millisecond
	for {
		s.cycle()
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// cycle runs one full acquisition pass. The sequence number advances no
// matter what fails so gaps on the receiver side reveal dropped records.
func (s *service) cycle() types.TelemetryRecord {
	s.seq++
	rec := types.TelemetryRecord{Sequence: s.seq}

	if !s.baro.Ready() {
		s.reopen("baro", s.baro.Open)
	}
	if !s.gps.Ready() {
		s.reopen("gps", s.gps.Open)
	}
	if !s.log.Ready() {
		s.reopen("sd", s.log.Open)
	}
	if !s.radio.Ready() {
		s.reopen("radio", s.radio.Open)
	}

	if s.baro.Ready() {
		if sample, ok := s.baro.Device().Read(); ok {
			rec.Baro = &sample
			s.publishLink("baro", types.LinkUp, nil, 0)
		} else {
			s.publishLink("baro", types.LinkDegraded, nil, 0)
		}
	} else {
		s.publishLink("baro", types.LinkDown, s.baro.Err(), 0)
	}

	if s.gps.Ready() {
		src := s.gps.Device()
		if fix, ok := src.Read(); ok {
			rec.Position = &fix
			s.publishLink("gps", types.LinkUp, nil, fix.Satellites)
		} else {
			s.publishLink("gps", types.LinkDegraded, nil, src.Satellites())
		}
	} else {
		s.publishLink("gps", types.LinkDown, s.gps.Err(), 0)
	}

	s.logRecord(rec)
	s.transmitRecord(rec)

	s.conn.Publish(s.conn.NewMessage(bus.T("tracker", "record"), rec, false))
	return rec
}

// logRecord appends the storage encoding of rec. Logging failure never
// blocks the transmit path.
func (s *service) logRecord(rec types.TelemetryRecord) {
	if !s.log.Ready() {
		s.publishLink("sd", types.LinkDown, s.log.Err(), 0)
		return
	}
	if s.log.Device().Append(StorageLine(rec)) {
		s.publishLink("sd", types.LinkUp, nil, 0)
	} else {
		s.publishLink("sd", types.LinkDegraded, nil, 0)
	}
}

// transmitRecord sends the radio encoding of rec. A write error drops the
// handle so the next cycle reopens and reconfigures the module; a missing
// ack only degrades the link.
func (s *service) transmitRecord(rec types.TelemetryRecord) {
	if !s.radio.Ready() {
		s.publishLink("radio", types.LinkDown, s.radio.Err(), 0)
		return
	}
	res, err := s.radio.Device().Transmit(RadioPayload(rec))
	switch {
	case err != nil:
		println("Warn: tracker: transmit:", err.Error())
		s.radio.Fail(err)
		s.publishLink("radio", types.LinkDown, err, 0)
	case !res.Acked:
		println("Info: tracker: transmit not acked:", res.Raw)
		s.publishLink("radio", types.LinkDegraded, nil, 0)
	default:
		println("Info: tracker: transmit acked:", res.Raw)
		s.publishLink("radio", types.LinkUp, nil, 0)
	}
}

func (s *service) publishLink(name string, link types.Link, err error, sats int) {
	st := types.LinkState{Link: link, TS: timex.NowMs(), Satellites: sats}
	if err != nil {
		st.Error = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(bus.T("tracker", "link", name), st, true))
}

func (s *service) publishState(status string) {
	st := types.TrackerState{Level: "info", Status: status, TS: timex.NowMs()}
	s.conn.Publish(s.conn.NewMessage(bus.T("tracker", "state"), st, true))
}
