package tracker

import (
	"strings"
	"time"

	"flighttrack-go/errcode"
	"flighttrack-go/services/tracker/internal/rylr"
	"flighttrack-go/services/tracker/internal/trackcore"
	"flighttrack-go/types"
	"flighttrack-go/x/strconvx"
	"flighttrack-go/x/strx"
)

// RadioLink drives a RYLR-class AT-command LoRa module over one UART.
// It performs no retry or backoff of its own; recovery is the loop's job.
type RadioLink struct {
	port trackcore.UARTPort
	cfg  types.RadioConfig
	buf  [256]byte
}

// OpenRadioLink claims the configured UART and runs the setup sequence.
// A missing bus is an open error; setup command failures are not.
func OpenRadioLink(uarts trackcore.UARTFactory, cfg types.RadioConfig) (*RadioLink, error) {
	port, ok := uarts.ByID(cfg.Bus)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownBus, Op: "radio.open", Msg: cfg.Bus}
	}
	l := &RadioLink{port: port, cfg: cfg}
	l.Setup()
	return l, nil
}

// Setup sends the fixed configuration sequence: identity probe, reset,
// address, network id, band, RF parameters. Each step only marks intent, so
// an individual failure is logged and skipped; a later step may still
// succeed.
func (l *RadioLink) Setup() {
	cmds := []string{
		"AT",
		"AT+RESET",
		"AT+ADDRESS=" + strconvx.Itoa(int(l.cfg.Address)),
		"AT+NETWORKID=" + strconvx.Itoa(int(l.cfg.NetworkID)),
		"AT+BAND=" + strconvx.FormatUint(uint64(l.cfg.BandHz), 10),
		"AT+PARAMETER=" + l.cfg.Params.Token(),
	}
	for _, cmd := range cmds {
		res, err := l.SendCommand(cmd, true, l.cmdTimeout())
		switch {
		case err != nil:
			println("Warn: radio:", cmd, "->", err.Error())
		case res.Raw != "":
			println("Info: radio:", cmd, "->", describe(res.Raw))
		}
	}
}

// SendCommand writes cmd terminated by CRLF. With waitResponse it sleeps for
// timeout, then makes a single non-blocking read attempt; whatever bytes are
// buffered at that point are the response. Without waitResponse it sleeps
// the fixed settle delay and returns an empty result. Undecodable bytes
// yield an empty response, never an error; only the write can fail.
func (l *RadioLink) SendCommand(cmd string, waitResponse bool, timeout time.Duration) (types.RadioCommandResult, error) {
	if _, err := l.port.Write([]byte(cmd + "\r\n")); err != nil {
		return types.RadioCommandResult{}, &errcode.E{C: errcode.IOError, Op: "radio.write", Err: err}
	}
	if !waitResponse {
		time.Sleep(l.settleDelay())
		return types.RadioCommandResult{}, nil
	}
	time.Sleep(timeout)
	if l.port.Buffered() == 0 {
		return types.RadioCommandResult{}, nil
	}
	n, err := l.port.Read(l.buf[:])
	if err != nil || n <= 0 {
		return types.RadioCommandResult{}, nil
	}
	raw := strings.TrimSpace(strx.DecodeLossy(l.buf[:n]))
	return types.RadioCommandResult{Raw: raw, Acked: rylr.Acked(raw)}, nil
}

// Transmit sends one payload to the configured destination, using the
// shorter data-send timeout.
func (l *RadioLink) Transmit(payload string) (types.RadioCommandResult, error) {
	cmd := "AT+SEND=" + strconvx.Itoa(int(l.cfg.Dest)) + "," +
		strconvx.Itoa(len(payload)) + "," + payload
	return l.SendCommand(cmd, true, l.sendTimeout())
}

func (l *RadioLink) cmdTimeout() time.Duration {
	return time.Duration(l.cfg.CmdTimeoutMs) * time.Millisecond
}

func (l *RadioLink) sendTimeout() time.Duration {
	return time.Duration(l.cfg.SendTimeoutMs) * time.Millisecond
}

func (l *RadioLink) settleDelay() time.Duration {
	return time.Duration(l.cfg.SettleMs) * time.Millisecond
}

// describe expands "+ERR=<n>" responses for diagnostics.
func describe(raw string) string {
	if i := strings.Index(raw, "+ERR="); i >= 0 {
		if code, err := strconvx.Atoi(strings.TrimSpace(raw[i+5:])); err == nil {
			return raw + " (" + rylr.ErrText(code) + ")"
		}
	}
	return raw
}
