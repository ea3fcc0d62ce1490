package tracker

import (
	"flighttrack-go/types"
	"flighttrack-go/x/strconvx"
	"flighttrack-go/x/strx"
)

// Field separator shared by the radio payload and the storage line. The two
// encodings differ only in how they render an absent sub-record.
const fieldSep = "#"

// RadioPayload renders rec for AT+SEND. Absent sub-records collapse to
// empty fields to keep the airtime short.
func RadioPayload(rec types.TelemetryRecord) string {
	return serialize(rec, "")
}

// StorageLine renders rec for the flight log, where absent sub-records are
// spelled out so the file stays human-readable.
func StorageLine(rec types.TelemetryRecord) string {
	return serialize(rec, "None")
}

// serialize joins sequence, pressure, altitude and the GPS sub-record with
// the field separator. The GPS sub-record is itself lat#lon#time, so a full
// record carries six tokens and a degraded one as few as four.
func serialize(rec types.TelemetryRecord, none string) string {
	pressure, altitude := none, none
	if rec.Baro != nil {
		pressure = strconvx.FormatFloat(rec.Baro.PressureHPa, 'f', 2, 64)
		altitude = strconvx.FormatFloat(rec.Baro.AltitudeM, 'f', 2, 64)
	}
	position := none
	if rec.Position != nil {
		position = strconvx.FormatFloat(rec.Position.Latitude, 'f', 6, 64) + fieldSep +
			strconvx.FormatFloat(rec.Position.Longitude, 'f', 6, 64) + fieldSep +
			strx.Coalesce(rec.Position.Time, none)
	}
	return strconvx.FormatUint(uint64(rec.Sequence), 10) + fieldSep +
		pressure + fieldSep +
		altitude + fieldSep +
		position
}
