package tracker

import (
	"math"
	"testing"

	"flighttrack-go/errcode"
	"flighttrack-go/services/tracker/internal/platform"
	"flighttrack-go/types"
)

const (
	ggaFix   = "$GPGGA,123519,1220.74068,N,09845.92592,W,1,08,0.9,545.4,M,46.9,M,,*47\r\n"
	ggaNoFix = "$GPGGA,123520,,,,,0,03,,,M,,M,,*4F\r\n"
)

func openTestGPS(t *testing.T, port *platform.HostUART) *PositionSource {
	t.Helper()
	uarts := &platform.HostUARTFactory{Ports: map[string]*platform.HostUART{"uart1": port}}
	cfg := types.GPSConfig{Bus: "uart1", Iterations: 2, SliceMs: 10}
	src, err := OpenPositionSource(uarts, platform.GGAParser{}, cfg)
	if err != nil {
		t.Fatalf("open gps: %v", err)
	}
	return src
}

func TestGPSUnknownBus(t *testing.T) {
	uarts := &platform.HostUARTFactory{Ports: map[string]*platform.HostUART{}}
	_, err := OpenPositionSource(uarts, platform.GGAParser{}, types.GPSConfig{Bus: "uart9", Iterations: 1, SliceMs: 10})
	if errcode.Of(err) != errcode.UnknownBus {
		t.Fatalf("err = %v, want unknown bus", err)
	}
}

func TestGPSSilentPort(t *testing.T) {
	src := openTestGPS(t, &platform.HostUART{})
	if _, ok := src.Read(); ok {
		t.Fatal("silent port must not yield a fix")
	}
}

func TestGPSFix(t *testing.T) {
	port := &platform.HostUART{}
	src := openTestGPS(t, port)
	port.Feed([]byte(ggaFix))

	fix, ok := src.Read()
	if !ok {
		t.Fatal("expected a fix")
	}
	if math.Abs(fix.Latitude-12.345678) > 1e-9 || math.Abs(fix.Longitude+98.765432) > 1e-9 {
		t.Errorf("position = %v,%v", fix.Latitude, fix.Longitude)
	}
	if fix.Time != "123519" {
		t.Errorf("time = %q, want 123519", fix.Time)
	}
	if fix.Satellites != 8 {
		t.Errorf("satellites = %d, want 8", fix.Satellites)
	}
}

func TestGPSNoFixRecordsSatellites(t *testing.T) {
	port := &platform.HostUART{}
	src := openTestGPS(t, port)
	port.Feed([]byte(ggaNoFix))

	if _, ok := src.Read(); ok {
		t.Fatal("quality 0 must not yield a fix")
	}
	if src.Satellites() != 3 {
		t.Errorf("satellites = %d, want 3", src.Satellites())
	}
}

func TestGPSGarbage(t *testing.T) {
	port := &platform.HostUART{}
	src := openTestGPS(t, port)
	port.Feed([]byte("\x00\xffnot nmea at all\r\n"))

	if _, ok := src.Read(); ok {
		t.Fatal("garbage must not yield a fix")
	}
}

func TestGPSAccumulatesAcrossSlices(t *testing.T) {
	port := &platform.HostUART{}
	src := openTestGPS(t, port)
	// Split the sentence across the two polling slices.
	half := len(ggaFix) / 2
	port.Feed([]byte(ggaFix[:half]))
	go func() {
		port.Feed([]byte(ggaFix[half:]))
	}()

	fix, ok := src.Read()
	if !ok {
		t.Fatal("expected a fix from accumulated fragments")
	}
	if fix.Time != "123519" {
		t.Errorf("time = %q, want 123519", fix.Time)
	}
}
