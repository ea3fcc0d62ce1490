package platform

import (
	"strings"

	"flighttrack-go/errcode"
	"flighttrack-go/services/tracker/internal/trackcore"
	"flighttrack-go/x/strconvx"
)

// GGAParser extracts a position from raw NMEA text using the last complete
// GGA sentence found. It deliberately ignores every other sentence type; GGA
// alone carries fix quality, position, time and satellite count.
type GGAParser struct{}

func (GGAParser) Parse(raw string) (trackcore.Reading, error) {
	var last string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "$") && strings.Contains(line, "GGA,") {
			last = line
		}
	}
	if last == "" {
		return trackcore.Reading{}, &errcode.E{C: errcode.NoData, Op: "nmea.parse", Msg: "no GGA sentence"}
	}
	if i := strings.IndexByte(last, '*'); i >= 0 {
		last = last[:i]
	}
	f := strings.Split(last, ",")
	if len(f) < 8 {
		return trackcore.Reading{}, &errcode.E{C: errcode.DecodeFailed, Op: "nmea.parse", Msg: "short GGA sentence"}
	}

	rd := trackcore.Reading{Time: timeToken(f[1])}
	if sats, err := strconvx.Atoi(f[7]); err == nil {
		rd.Satellites = sats
	}
	quality, err := strconvx.Atoi(f[6])
	if err != nil || quality == 0 {
		return rd, nil
	}
	lat, latErr := coordinate(f[2], f[3], 2)
	lon, lonErr := coordinate(f[4], f[5], 3)
	if latErr != nil || lonErr != nil {
		return rd, nil
	}
	rd.HasFix = true
	rd.Latitude = lat
	rd.Longitude = lon
	return rd, nil
}

// timeToken keeps the integral hhmmss part of the GGA time field.
func timeToken(t string) string {
	if i := strings.IndexByte(t, '.'); i >= 0 {
		return t[:i]
	}
	return t
}

// coordinate converts NMEA ddmm.mmmm (or dddmm.mmmm) plus hemisphere into
// signed decimal degrees. degDigits is 2 for latitude, 3 for longitude.
func coordinate(value, hemi string, degDigits int) (float64, error) {
	if len(value) <= degDigits {
		return 0, &errcode.E{C: errcode.DecodeFailed, Op: "nmea.coord", Msg: value}
	}
	deg, err := strconvx.ParseFloat(value[:degDigits], 64)
	if err != nil {
		return 0, err
	}
	min, err := strconvx.ParseFloat(value[degDigits:], 64)
	if err != nil {
		return 0, err
	}
	d := deg + min/60
	if hemi == "S" || hemi == "W" {
		d = -d
	}
	return d, nil
}
