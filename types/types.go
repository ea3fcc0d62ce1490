package types

// ------------------------
// Peripheral state
// ------------------------

// PeripheralState tracks one owned peripheral handle across cycles.
// Transitions: Uninitialized/Failed -> Ready on a successful (re)open,
// Ready -> Failed on an operation-time transport error.
type PeripheralState uint8

const (
	StateUninitialized PeripheralState = iota
	StateReady
	StateFailed
)

func (s PeripheralState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

func (s PeripheralState) MarshalJSON() ([]byte, error) { return []byte(`"` + s.String() + `"`), nil }

// ------------------------
// Telemetry record
// ------------------------

// TelemetryRecord is one cycle's output. Optional fields are nil when their
// source was not Ready or produced nothing this cycle; values never carry
// over from a previous cycle.
type TelemetryRecord struct {
	Sequence uint32      `json:"seq"`
	Baro     *BaroSample `json:"baro,omitempty"`
	Position *Fix        `json:"position,omitempty"`
}

// BaroSample holds one barometric reading, rounded to 2 decimal places.
type BaroSample struct {
	PressureHPa float64 `json:"pressure_hpa"`
	AltitudeM   float64 `json:"altitude_m"`
}

// Fix is a GPS position reading validated by the sentence parser.
// Time is the raw GPS time token (e.g. "123519"), not a parsed timestamp.
// Satellites rides along for diagnostics only and never enters the payload.
type Fix struct {
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
	Time       string  `json:"time"`
	Satellites int     `json:"satellites,omitempty"`
}

// ------------------------
// Radio
// ------------------------

// RadioCommandResult is the decoded outcome of one AT command exchange.
// Raw is empty when no (decodable) response arrived within the timeout.
type RadioCommandResult struct {
	Raw   string `json:"raw,omitempty"`
	Acked bool   `json:"acked"`
}

// ------------------------
// Link/state documents (retained)
// ------------------------

// Link is the link state reported for a peripheral.
type Link string

const (
	LinkUp       Link = "up"
	LinkDown     Link = "down"
	LinkDegraded Link = "degraded"
)

// LinkState is published retained at tracker/link/<peripheral>.
type LinkState struct {
	Link       Link   `json:"link"`
	TS         int64  `json:"ts_ms"`
	Error      string `json:"error,omitempty"`
	Satellites int    `json:"satellites,omitempty"` // GPS only
}

// TrackerState is published retained at tracker/state.
type TrackerState struct {
	Level  string `json:"level"`  // severity, normally "info"
	Status string `json:"status"` // "starting", "running", "stopped"
	TS     int64  `json:"ts_ms"`
}
