package forecast

import (
	"math"
	"strconv"
	"time"
)

// FormatTemperature rounds half up and renders "+3°", "-3°" or " 0°".
// Zero gets a leading space instead of a sign so columns stay aligned.
// Any finite v formats without overflow.
func FormatTemperature(v float64) string {
	n := math.Floor(v + 0.5)
	switch {
	case n < 0:
		return strconv.FormatFloat(n, 'f', 0, 64) + "°"
	case n == 0:
		return " 0°"
	default:
		return "+" + strconv.FormatFloat(n, 'f', 0, 64) + "°"
	}
}

// FormatWindSpeed renders two decimal places with a '.' separator.
func FormatWindSpeed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// DateLabel renders an epoch timestamp as "Mon 02.01." in loc.
func DateLabel(ts int64, loc *time.Location) string {
	return time.Unix(ts, 0).In(loc).Format("Mon 02.01.")
}

// HourLabel renders the local hour of an epoch timestamp as "00".."23".
func HourLabel(ts int64, loc *time.Location) string {
	return time.Unix(ts, 0).In(loc).Format("15")
}

// IsDaytime reports whether ts falls strictly between sunrise and sunset.
func IsDaytime(ts, sunrise, sunset int64) bool {
	return ts > sunrise && ts < sunset
}
