package forecast

import "strconv"

// WeatherCondition is a coarse category for an OpenWeatherMap condition code.
type WeatherCondition string

const (
	ConditionThunderstorm WeatherCondition = "thunderstorm"
	ConditionDrizzle      WeatherCondition = "drizzle"
	ConditionRain         WeatherCondition = "rain"
	ConditionSnow         WeatherCondition = "snow"
	ConditionAtmosphere   WeatherCondition = "atmosphere" // mist, smoke, haze, fog, dust
	ConditionClear        WeatherCondition = "clear"
	ConditionClouds       WeatherCondition = "clouds"
	ConditionUnknown      WeatherCondition = "unknown"
)

// Condition maps a weather code ("800", "501", ...) to its group.
// See https://openweathermap.org/weather-conditions.
func Condition(code string) WeatherCondition {
	n, err := strconv.Atoi(code)
	if err != nil {
		return ConditionUnknown
	}
	switch {
	case n >= 200 && n < 300:
		return ConditionThunderstorm
	case n >= 300 && n < 400:
		return ConditionDrizzle
	case n >= 500 && n < 600:
		return ConditionRain
	case n >= 600 && n < 700:
		return ConditionSnow
	case n >= 700 && n < 800:
		return ConditionAtmosphere
	case n == 800:
		return ConditionClear
	case n > 800 && n < 900:
		return ConditionClouds
	default:
		return ConditionUnknown
	}
}

// Describe returns a short label for text output, e.g. "clear (day)".
func Describe(code string, isDaytime bool) string {
	tod := "night"
	if isDaytime {
		tod = "day"
	}
	return string(Condition(code)) + " (" + tod + ")"
}
