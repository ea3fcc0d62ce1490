// Package rylr holds protocol constants for RYLR-class (REYAX RYLR896/998)
// LoRa modules driven over an AT command set.
package rylr

import "strings"

// Band center frequencies (Hz).
const (
	BandUSA     uint32 = 915000000
	BandEurope1 uint32 = 868000000
	BandEurope2 uint32 = 433000000
	BandAsia    uint32 = 470000000
	BandIndia   uint32 = 865000000
)

// AT+PARAMETER bandwidth codes. Codes below 2 are unreliable on this module.
const (
	Bandwidth31_25KHz uint8 = 4
	Bandwidth62_5KHz  uint8 = 6
	Bandwidth125KHz   uint8 = 7
	Bandwidth250KHz   uint8 = 8
	Bandwidth500KHz   uint8 = 9
)

// Module error codes carried in "+ERR=<n>" responses.
const (
	ErrNoEnter    = 1  // missing CRLF after command
	ErrNoAT       = 2  // head of command is not AT
	ErrNoEq       = 3  // missing "=" in AT command
	ErrUnknownCmd = 4  // unknown command
	ErrTxTimeout  = 10 // transmit over time
	ErrRxTimeout  = 11 // receive over time
	ErrCRC        = 12 // CRC error
	ErrTxOverrun  = 13 // transmit overrun (payload over 240 bytes)
	ErrUnknown    = 15
)

// Acked reports whether a module response acknowledges the command:
// any "+OK" (possibly with arguments, e.g. "+OK=2,5") or a bare "OK".
func Acked(resp string) bool {
	return strings.Contains(resp, "+OK") || resp == "OK"
}

// ErrText names a module error code for diagnostics.
func ErrText(code int) string {
	switch code {
	case ErrNoEnter:
		return "missing CRLF"
	case ErrNoAT:
		return "not an AT command"
	case ErrNoEq:
		return "missing '='"
	case ErrUnknownCmd:
		return "unknown command"
	case ErrTxTimeout:
		return "transmit timeout"
	case ErrRxTimeout:
		return "receive timeout"
	case ErrCRC:
		return "crc error"
	case ErrTxOverrun:
		return "payload over 240 bytes"
	default:
		return "unknown error"
	}
}
