package tracker

import (
	"time"

	"flighttrack-go/errcode"
	"flighttrack-go/services/tracker/internal/trackcore"
	"flighttrack-go/types"
	"flighttrack-go/x/strx"
)

// PositionSource acquires the freshest GPS fix within a bounded window.
type PositionSource struct {
	port   trackcore.UARTPort
	parser trackcore.SentenceParser

	iterations int
	slice      time.Duration

	lastSats int
}

func OpenPositionSource(uarts trackcore.UARTFactory, parser trackcore.SentenceParser, cfg types.GPSConfig) (*PositionSource, error) {
	port, ok := uarts.ByID(cfg.Bus)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownBus, Op: "gps.open", Msg: cfg.Bus}
	}
	return &PositionSource{
		port:       port,
		parser:     parser,
		iterations: cfg.Iterations,
		slice:      time.Duration(cfg.SliceMs) * time.Millisecond,
	}, nil
}

// Read polls the port for at most iterations*slice, accumulating whatever
// bytes arrive, then hands the text to the sentence parser. A fix is
// returned only when the parser reports one; no data, partial data and
// parsed-but-no-fix all come back as (zero, false) and are told apart only
// in the diagnostics.
func (p *PositionSource) Read() (types.Fix, bool) {
	var raw []byte
	var chunk [128]byte
	for i := 0; i < p.iterations; i++ {
		if p.port.Buffered() > 0 {
			if n, err := p.port.Read(chunk[:]); err == nil && n > 0 {
				raw = append(raw, chunk[:n]...)
			}
		}
		time.Sleep(p.slice)
	}
	if len(raw) == 0 {
		println("Info: gps: no data received")
		return types.Fix{}, false
	}
	rd, err := p.parser.Parse(strx.DecodeLossy(raw))
	if err != nil {
		println("Warn: gps: parse:", err.Error())
		return types.Fix{}, false
	}
	p.lastSats = rd.Satellites
	if !rd.HasFix {
		println("Info: gps: no fix yet, satellites:", rd.Satellites)
		return types.Fix{}, false
	}
	return types.Fix{
		Latitude:   rd.Latitude,
		Longitude:  rd.Longitude,
		Time:       rd.Time,
		Satellites: rd.Satellites,
	}, true
}

// Satellites reports the count seen on the last parsed reading, fix or not.
func (p *PositionSource) Satellites() int { return p.lastSats }
