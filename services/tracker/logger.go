package tracker

import (
	"flighttrack-go/errcode"
	"flighttrack-go/services/tracker/internal/trackcore"
	"flighttrack-go/types"
)

// LogHeader labels the record fields in the flight log.
const LogHeader = "Timestamp#Altitude#Latitude#Longitude#GPS_Time"

// DataLogger appends one record line per cycle to the flight log,
// independent of the radio path's success.
type DataLogger struct {
	fs   trackcore.Storage
	file string
}

// OpenDataLogger mounts storage and writes the session header. The blank
// separator lines delimit sessions within the continuously-appended file.
func OpenDataLogger(opener trackcore.StorageOpener, cfg types.StorageConfig) (*DataLogger, error) {
	fs, err := opener.Open()
	if err != nil {
		return nil, &errcode.E{C: errcode.OpenFailed, Op: "sd.open", Err: err}
	}
	if err := fs.Mount(); err != nil {
		return nil, &errcode.E{C: errcode.NotMounted, Op: "sd.mount", Err: err}
	}
	l := &DataLogger{fs: fs, file: cfg.File}
	if err := l.writeRaw("\n\n" + LogHeader + "|\n"); err != nil {
		return nil, &errcode.E{C: errcode.IOError, Op: "sd.header", Err: err}
	}
	return l, nil
}

// Append writes line followed by the field terminator. A false return is
// non-fatal; the caller logs it and proceeds to the transmit step.
func (l *DataLogger) Append(line string) bool {
	if err := l.writeRaw(line + "|"); err != nil {
		println("Warn: sd: append:", err.Error())
		return false
	}
	return true
}

// writeRaw opens in append mode, writes, closes. The open/close per record
// keeps the card consistent if power is lost mid-flight.
func (l *DataLogger) writeRaw(s string) error {
	f, err := l.fs.OpenAppend(l.file)
	if err != nil {
		return err
	}
	_, werr := f.Write([]byte(s))
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}
