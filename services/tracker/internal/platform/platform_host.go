//go:build !rp2040 && !rp2350

package platform

import (
	"bytes"
	"io"
	"sync"

	"tinygo.org/x/drivers"

	"flighttrack-go/services/tracker/internal/trackcore"
)

// Host bindings: in-memory stand-ins for every peripheral so the tracker
// runs unchanged under `go test` and on a development machine.

// ----------------------------- UART (host) -----------------------------------

// HostUART is a scripted serial port. Tests feed the receive side and
// inspect everything the tracker wrote.
type HostUART struct {
	mu       sync.Mutex
	rx       []byte
	tx       []byte
	WriteErr error
}

func (u *HostUART) Write(p []byte) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.WriteErr != nil {
		return 0, u.WriteErr
	}
	u.tx = append(u.tx, p...)
	return len(p), nil
}

func (u *HostUART) Buffered() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.rx)
}

func (u *HostUART) Read(p []byte) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := copy(p, u.rx)
	u.rx = u.rx[n:]
	return n, nil
}

// Feed queues bytes on the receive side.
func (u *HostUART) Feed(p []byte) {
	u.mu.Lock()
	u.rx = append(u.rx, p...)
	u.mu.Unlock()
}

// Sent returns a copy of everything written so far.
func (u *HostUART) Sent() []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]byte(nil), u.tx...)
}

// SentLines splits the transmit log on CRLF.
func (u *HostUART) SentLines() []string {
	var lines []string
	for _, l := range bytes.Split(u.Sent(), []byte("\r\n")) {
		if len(l) > 0 {
			lines = append(lines, string(l))
		}
	}
	return lines
}

// ClearSent resets the transmit log.
func (u *HostUART) ClearSent() {
	u.mu.Lock()
	u.tx = nil
	u.mu.Unlock()
}

// HostUARTFactory maps ids to scripted ports.
type HostUARTFactory struct {
	Ports map[string]*HostUART
}

func (f *HostUARTFactory) ByID(id string) (trackcore.UARTPort, bool) {
	p, ok := f.Ports[id]
	return p, ok
}

// ----------------------------- I²C (host) ------------------------------------

// HostI2C implements tinygo drivers.I2C; it records the last transaction and
// performs no emulation.
type HostI2C struct {
	mu     sync.Mutex
	LastTx struct {
		Addr uint16
		W    []byte
		Rn   int
	}
}

func (h *HostI2C) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastTx.Addr = addr
	h.LastTx.W = append([]byte(nil), w...)
	h.LastTx.Rn = len(r)
	return nil
}

type HostI2CFactory struct {
	Buses map[string]drivers.I2C
}

func (f *HostI2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f.Buses[id]
	return b, ok
}

// ----------------------------- Barometer (host) -------------------------------

// HostBarometer serves scripted pressure/altitude values.
type HostBarometer struct {
	Pressure float64
	Altitude float64
	SeaLevel float64
	ReadErr  error
}

func (b *HostBarometer) SetSeaLevelPressure(hPa float64) { b.SeaLevel = hPa }

func (b *HostBarometer) ReadPressure() (float64, error) {
	if b.ReadErr != nil {
		return 0, b.ReadErr
	}
	return b.Pressure, nil
}

func (b *HostBarometer) ReadAltitude() (float64, error) {
	if b.ReadErr != nil {
		return 0, b.ReadErr
	}
	return b.Altitude, nil
}

// HostBaroOpener hands out a fixed device, or fails when scripted to.
type HostBaroOpener struct {
	Dev     *HostBarometer
	OpenErr error
}

func (o *HostBaroOpener) Open(_ drivers.I2C, _ uint16) (trackcore.Barometer, error) {
	if o.OpenErr != nil {
		return nil, o.OpenErr
	}
	if o.Dev == nil {
		o.Dev = &HostBarometer{}
	}
	return o.Dev, nil
}

// ----------------------------- Storage (host) ---------------------------------

// HostStorage is an in-memory append-only file store.
type HostStorage struct {
	mu       sync.Mutex
	files    map[string][]byte
	MountErr error
	WriteErr error
}

func (s *HostStorage) Mount() error { return s.MountErr }

func (s *HostStorage) OpenAppend(name string) (io.WriteCloser, error) {
	return &hostFile{store: s, name: name}, nil
}

// Contents returns the accumulated bytes of name.
func (s *HostStorage) Contents(name string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.files[name]...)
}

type hostFile struct {
	store *HostStorage
	name  string
}

func (f *hostFile) Write(p []byte) (int, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if f.store.WriteErr != nil {
		return 0, f.store.WriteErr
	}
	if f.store.files == nil {
		f.store.files = make(map[string][]byte)
	}
	f.store.files[f.name] = append(f.store.files[f.name], p...)
	return len(p), nil
}

func (f *hostFile) Close() error { return nil }

// HostStorageOpener wraps one HostStorage behind the opener contract.
type HostStorageOpener struct {
	Store   *HostStorage
	OpenErr error
}

func (o *HostStorageOpener) Open() (trackcore.Storage, error) {
	if o.OpenErr != nil {
		return nil, o.OpenErr
	}
	if o.Store == nil {
		o.Store = &HostStorage{}
	}
	return o.Store, nil
}

// ----------------------------- Bundle ----------------------------------------

// Default wires the host stand-ins under the same bus ids the board uses.
func Default() trackcore.Deps {
	return trackcore.Deps{
		UARTs: &HostUARTFactory{Ports: map[string]*HostUART{
			"uart0": {},
			"uart1": {},
		}},
		I2Cs: &HostI2CFactory{Buses: map[string]drivers.I2C{
			"i2c0": &HostI2C{},
		}},
		Baros:   &HostBaroOpener{Dev: &HostBarometer{}},
		Storage: &HostStorageOpener{Store: &HostStorage{}},
		Parser:  GGAParser{},
	}
}
