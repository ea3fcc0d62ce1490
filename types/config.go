package types

import (
	"flighttrack-go/x/mathx"
	"flighttrack-go/x/strconvx"
)

// TrackerConfig is supplied once at bring-up; pins and bus parameters are not
// reconfigurable at runtime.
type TrackerConfig struct {
	Radio   RadioConfig   `json:"radio"`
	GPS     GPSConfig     `json:"gps"`
	Baro    BaroConfig    `json:"baro"`
	Storage StorageConfig `json:"storage"`

	// Fixed inter-cycle delay.
	IntervalMs uint32 `json:"interval_ms"`
}

type RadioConfig struct {
	Bus       string   `json:"bus"`        // e.g. "uart0"
	Address   uint16   `json:"address"`    // this module's address
	NetworkID uint8    `json:"network_id"` // must match the receiver
	BandHz    uint32   `json:"band_hz"`    // center frequency
	Params    RFParams `json:"params"`
	Dest      uint16   `json:"dest"` // AT+SEND destination address

	// Response waits: configuration commands vs data sends, plus the fixed
	// settle delay used when no response is awaited.
	CmdTimeoutMs  uint32 `json:"cmd_timeout_ms"`
	SendTimeoutMs uint32 `json:"send_timeout_ms"`
	SettleMs      uint32 `json:"settle_ms"`
}

// RFParams is the AT+PARAMETER tuple.
type RFParams struct {
	SpreadingFactor uint8 `json:"sf"` // 7-12
	Bandwidth       uint8 `json:"bw"` // 0-9 (7 = 125 kHz)
	CodingRate      uint8 `json:"cr"` // 1-4
	Preamble        uint8 `json:"preamble"`
}

// Token renders the tuple as the AT+PARAMETER argument, e.g. "10,8,1,12".
func (p RFParams) Token() string {
	return strconvx.Itoa(int(p.SpreadingFactor)) + "," +
		strconvx.Itoa(int(p.Bandwidth)) + "," +
		strconvx.Itoa(int(p.CodingRate)) + "," +
		strconvx.Itoa(int(p.Preamble))
}

type GPSConfig struct {
	Bus string `json:"bus"` // e.g. "uart1"

	// Bounded acquisition window: Iterations polls, one SliceMs sleep each.
	// This is the latency/responsiveness tradeoff knob; worst case is
	// Iterations * SliceMs per cycle.
	Iterations int    `json:"iterations"`
	SliceMs    uint32 `json:"slice_ms"`
}

type BaroConfig struct {
	Bus  string `json:"bus"`  // e.g. "i2c0"
	Addr uint16 `json:"addr"` // I2C address

	// Reference sea-level pressure the altitude is computed against.
	SeaLevelHPa float64 `json:"sea_level_hpa"`
}

type StorageConfig struct {
	File string `json:"file"` // flight log file name on the mounted card
}

// Normalise fills zero fields with the deployment defaults and clamps the
// tunables into safe ranges. Out-of-range values are clamped, not rejected.
func (c *TrackerConfig) Normalise() {
	if c.Radio.Bus == "" {
		c.Radio.Bus = "uart0"
	}
	if c.Radio.Address == 0 {
		c.Radio.Address = 1
	}
	if c.Radio.NetworkID == 0 {
		c.Radio.NetworkID = 18
	}
	if c.Radio.BandHz == 0 {
		c.Radio.BandHz = 915000000 // US band
	}
	if c.Radio.Params == (RFParams{}) {
		c.Radio.Params = RFParams{SpreadingFactor: 10, Bandwidth: 8, CodingRate: 1, Preamble: 12}
	}
	if c.Radio.Dest == 0 {
		c.Radio.Dest = 2
	}
	if c.Radio.CmdTimeoutMs == 0 {
		c.Radio.CmdTimeoutMs = 500
	}
	if c.Radio.SendTimeoutMs == 0 {
		c.Radio.SendTimeoutMs = 300
	}
	if c.Radio.SettleMs == 0 {
		c.Radio.SettleMs = 100
	}
	c.Radio.CmdTimeoutMs = mathx.Clamp(c.Radio.CmdTimeoutMs, 10, 5000)
	c.Radio.SendTimeoutMs = mathx.Clamp(c.Radio.SendTimeoutMs, 10, 5000)
	c.Radio.SettleMs = mathx.Clamp(c.Radio.SettleMs, 10, 1000)

	if c.GPS.Bus == "" {
		c.GPS.Bus = "uart1"
	}
	if c.GPS.Iterations == 0 {
		c.GPS.Iterations = 6
	}
	if c.GPS.SliceMs == 0 {
		c.GPS.SliceMs = 50
	}
	c.GPS.Iterations = mathx.Clamp(c.GPS.Iterations, 1, 32)
	c.GPS.SliceMs = mathx.Clamp(c.GPS.SliceMs, 10, 500)

	if c.Baro.Bus == "" {
		c.Baro.Bus = "i2c0"
	}
	if c.Baro.Addr == 0 {
		c.Baro.Addr = 0x77
	}
	if c.Baro.SeaLevelHPa == 0 {
		c.Baro.SeaLevelHPa = 1025.90
	}

	if c.Storage.File == "" {
		c.Storage.File = "flight_data.txt"
	}

	if c.IntervalMs == 0 {
		c.IntervalMs = 1000
	}
	c.IntervalMs = mathx.Clamp(c.IntervalMs, 100, 3_600_000)
}
