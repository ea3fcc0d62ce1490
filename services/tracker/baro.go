package tracker

import (
	"flighttrack-go/errcode"
	"flighttrack-go/services/tracker/internal/trackcore"
	"flighttrack-go/types"
	"flighttrack-go/x/mathx"
)

// AltitudeSource reads pressure and altitude from the barometric sensor.
type AltitudeSource struct {
	dev trackcore.Barometer
}

// OpenAltitudeSource constructs the sensor and applies the sea-level
// reference. The reference is part of the open path on purpose: a recreated
// handle can never run uncalibrated.
func OpenAltitudeSource(i2cs trackcore.I2CBusFactory, opener trackcore.BarometerOpener, cfg types.BaroConfig) (*AltitudeSource, error) {
	bus, ok := i2cs.ByID(cfg.Bus)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownBus, Op: "baro.open", Msg: cfg.Bus}
	}
	dev, err := opener.Open(bus, cfg.Addr)
	if err != nil {
		return nil, &errcode.E{C: errcode.OpenFailed, Op: "baro.open", Err: err}
	}
	dev.SetSeaLevelPressure(cfg.SeaLevelHPa)
	return &AltitudeSource{dev: dev}, nil
}

// Read returns both values rounded to 2 decimal places, or (zero, false) on
// any sensor error. A failed read never carries a previous cycle's values.
func (a *AltitudeSource) Read() (types.BaroSample, bool) {
	pressure, err := a.dev.ReadPressure()
	if err != nil {
		println("Warn: baro: pressure:", err.Error())
		return types.BaroSample{}, false
	}
	altitude, err := a.dev.ReadAltitude()
	if err != nil {
		println("Warn: baro: altitude:", err.Error())
		return types.BaroSample{}, false
	}
	return types.BaroSample{
		PressureHPa: mathx.RoundTo(pressure, 2),
		AltitudeM:   mathx.RoundTo(altitude, 2),
	}, true
}
