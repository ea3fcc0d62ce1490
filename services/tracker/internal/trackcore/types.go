// Package trackcore holds the abstract request/response contracts the
// tracker consumes. The low-level transports (UART/I2C/SPI), the sensor
// register drivers, the NMEA parser and the filesystem mount all live behind
// these interfaces; platform bindings supply them per build target.
package trackcore

import (
	"io"

	"tinygo.org/x/drivers"
)

// ---------------- UART ----------------

// UARTPort is the stream subset the tracker needs: non-blocking reads only,
// so a peripheral that never produces data can never stall a cycle.
type UARTPort interface {
	Write(p []byte) (int, error)
	// Buffered reports how many received bytes are waiting.
	Buffered() int
	// Read drains up to len(p) already-buffered bytes; it must not block.
	Read(p []byte) (int, error)
}

// UARTFactory supplies configured UART ports by id.
type UARTFactory interface {
	ByID(id string) (UARTPort, bool)
}

// ---------------- I2C / barometer ----------------

// I2CBusFactory injects configured I2C instances by id. Uses the TinyGo
// drivers.I2C interface so MCU and host builds share the contract.
type I2CBusFactory interface {
	ByID(id string) (drivers.I2C, bool)
}

// Barometer is the request/response contract of the pressure sensor driver.
// Altitude is relative to the configured sea-level reference, not standard
// atmosphere.
type Barometer interface {
	SetSeaLevelPressure(hPa float64)
	ReadPressure() (float64, error) // hPa
	ReadAltitude() (float64, error) // metres
}

// BarometerOpener constructs a barometer on an already-configured bus.
// Open must probe the device: an absent or unresponsive sensor is an error.
type BarometerOpener interface {
	Open(bus drivers.I2C, addr uint16) (Barometer, error)
}

// ---------------- Storage ----------------

// Storage is the mounted-filesystem contract for the flight log.
type Storage interface {
	Mount() error
	// OpenAppend opens name for appending, creating it if needed.
	OpenAppend(name string) (io.WriteCloser, error)
}

// StorageOpener constructs the storage device (e.g. SPI SD card + FAT).
type StorageOpener interface {
	Open() (Storage, error)
}

// ---------------- GPS sentence parsing ----------------

// Reading is what the external sentence parser yields for a chunk of raw
// NMEA text. HasFix false covers both "no usable sentence" and
// "parsed but no fix"; callers treat them identically.
type Reading struct {
	HasFix     bool
	Latitude   float64
	Longitude  float64
	Satellites int
	Time       string // raw GPS time token, e.g. "123519"
}

// SentenceParser turns accumulated raw bytes into a position reading.
type SentenceParser interface {
	Parse(raw string) (Reading, error)
}

// ---------------- Dependency bundle ----------------

// Deps bundles the platform-supplied factories handed to the tracker.
type Deps struct {
	UARTs   UARTFactory
	I2Cs    I2CBusFactory
	Baros   BarometerOpener
	Storage StorageOpener
	Parser  SentenceParser
}
