//go:build rp2040 || rp2350

package platform

import (
	"io"
	"math"
	"os"
	"strings"
	"time"

	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/bmp388"
	"tinygo.org/x/drivers/gps"
	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs/fatfs"

	"flighttrack-go/errcode"
	"flighttrack-go/services/tracker/internal/trackcore"
)

// Board wiring for the RP2 flight unit:
//   uart0 GP0/GP1  115200  LoRa module
//   uart1 GP4/GP5  9600    GPS
//   i2c0  GP12/GP13        BMP390
//   spi1  sck GP10, sdo GP11, sdi GP8, cs GP9   SD card

// ----------------------------- UART ------------------------------------------

type rp2UART struct{ u *uartx.UART }

func (r *rp2UART) Write(p []byte) (int, error) { return r.u.Write(p) }
func (r *rp2UART) Buffered() int               { return r.u.Buffered() }

func (r *rp2UART) Read(p []byte) (int, error) {
	if r.u.Buffered() == 0 {
		return 0, nil
	}
	return r.u.Read(p)
}

type rp2UARTFactory struct {
	ports map[string]*rp2UART
}

func (f *rp2UARTFactory) ByID(id string) (trackcore.UARTPort, bool) {
	p, ok := f.ports[id]
	return p, ok
}

// ----------------------------- I²C -------------------------------------------

type rp2I2CFactory struct {
	buses map[string]drivers.I2C
}

func (f *rp2I2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	return b, ok
}

// ----------------------------- Barometer --------------------------------------

// rp2Barometer wraps the BMP388/BMP390 register driver. Altitude is derived
// from the configured sea-level reference with the barometric formula rather
// than the driver's standard-atmosphere estimate.
type rp2Barometer struct {
	dev      bmp388.Device
	seaLevel float64 // hPa
}

func (b *rp2Barometer) SetSeaLevelPressure(hPa float64) { b.seaLevel = hPa }

func (b *rp2Barometer) ReadPressure() (float64, error) {
	mPa, err := b.dev.ReadPressure()
	if err != nil {
		return 0, err
	}
	return float64(mPa) / 100000.0, nil
}

func (b *rp2Barometer) ReadAltitude() (float64, error) {
	hPa, err := b.ReadPressure()
	if err != nil {
		return 0, err
	}
	return 44330.0 * (1.0 - math.Pow(hPa/b.seaLevel, 0.1903)), nil
}

type rp2BaroOpener struct{}

func (rp2BaroOpener) Open(bus drivers.I2C, addr uint16) (trackcore.Barometer, error) {
	dev := bmp388.New(bus)
	dev.Address = uint8(addr)
	if err := dev.Configure(bmp388.Config{}); err != nil {
		return nil, err
	}
	if !dev.Connected() {
		return nil, &errcode.E{C: errcode.OpenFailed, Op: "bmp390", Msg: "sensor not responding"}
	}
	return &rp2Barometer{dev: dev}, nil
}

// ----------------------------- Storage ----------------------------------------

type rp2Storage struct {
	fs *fatfs.FATFS
}

func (s *rp2Storage) Mount() error { return s.fs.Mount() }

func (s *rp2Storage) OpenAppend(name string) (io.WriteCloser, error) {
	return s.fs.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY)
}

type rp2StorageOpener struct{}

func (rp2StorageOpener) Open() (trackcore.Storage, error) {
	sd := sdcard.New(machine.SPI1,
		machine.Pin(10), // SCK
		machine.Pin(11), // SDO
		machine.Pin(8),  // SDI
		machine.Pin(9),  // CS
	)
	if err := sd.Configure(); err != nil {
		return nil, err
	}
	fs := fatfs.New(&sd)
	fs.Configure(&fatfs.Config{SectorSize: 512})
	return &rp2Storage{fs: fs}, nil
}

// ----------------------------- GPS parser -------------------------------------

// driverParser adapts the tinygo NMEA parser: it walks every sentence in the
// accumulated text and keeps the last one that parsed, so a stale leading
// fragment cannot mask a fresh fix.
type driverParser struct {
	p gps.Parser
}

func newDriverParser() *driverParser {
	return &driverParser{p: gps.NewParser()}
}

func (d *driverParser) Parse(raw string) (trackcore.Reading, error) {
	var rd trackcore.Reading
	parsed := false
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "$") {
			continue
		}
		fix, err := d.p.Parse(line)
		if err != nil {
			continue
		}
		parsed = true
		rd.Satellites = int(fix.Satellites)
		rd.Time = fix.Time.Format("150405")
		if fix.Valid {
			rd.HasFix = true
			rd.Latitude = float64(fix.Latitude)
			rd.Longitude = float64(fix.Longitude)
		}
	}
	if !parsed {
		return trackcore.Reading{}, &errcode.E{C: errcode.NoData, Op: "nmea.parse", Msg: "no parseable sentence"}
	}
	return rd, nil
}

// ----------------------------- Bundle ------------------------------------------

// Default configures the board buses and returns the live dependency bundle.
func Default() trackcore.Deps {
	u0 := uartx.UART0
	_ = u0.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.Pin(0),
		RX:       machine.Pin(1),
	})
	u1 := uartx.UART1
	_ = u1.Configure(uartx.UARTConfig{
		BaudRate: 9600,
		TX:       machine.Pin(4),
		RX:       machine.Pin(5),
	})

	i2c := machine.I2C0
	_ = i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.Pin(12),
		SCL:       machine.Pin(13),
	})

	// Give the buses a moment to settle before the first open attempts.
	time.Sleep(10 * time.Millisecond)

	return trackcore.Deps{
		UARTs: &rp2UARTFactory{ports: map[string]*rp2UART{
			"uart0": {u: u0},
			"uart1": {u: u1},
		}},
		I2Cs: &rp2I2CFactory{buses: map[string]drivers.I2C{
			"i2c0": i2c,
		}},
		Baros:   rp2BaroOpener{},
		Storage: rp2StorageOpener{},
		Parser:  newDriverParser(),
	}
}
