package errcode

// Code is a stable, diagnostics-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Peripheral construction failed; the handle is retried on a later cycle.
	OpenFailed Code = "open_failed"
	// No bytes arrived within the acquisition budget.
	NoData Code = "no_data"
	// Bytes arrived but could not be decoded or parsed.
	DecodeFailed Code = "decode_failed"
	// Storage write failed; the record is still transmitted.
	IOError Code = "io_error"

	NotMounted Code = "not_mounted"
	NotReady   Code = "not_ready"
	Timeout    Code = "timeout"
	UnknownBus Code = "unknown_bus"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
