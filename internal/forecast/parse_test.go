package forecast

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lox/weatherapp/internal/models"
)

const currentPayload = `{
	"coord": {"lon": 24.9384, "lat": 60.1699},
	"weather": [{"id": 803, "main": "Clouds", "description": "broken clouds", "icon": "04d"}],
	"main": {"temp": -2.6, "feels_like": -7.4, "temp_min": -3, "temp_max": -1, "pressure": 1012, "humidity": 86},
	"wind": {"speed": 4.12, "deg": 190},
	"dt": 1700000000,
	"sys": {"country": "FI", "sunrise": 1699941600, "sunset": 1699977600},
	"timezone": 7200,
	"name": "Helsinki",
	"cod": 200
}`

const hourlyPayload = `{
	"cod": "200",
	"cnt": 2,
	"list": [
		{"dt": 1699941600, "main": {"temp": 0.4, "feels_like": -3.2, "humidity": 90}, "weather": [{"id": 600}], "wind": {"speed": 3}, "sys": {"pod": "n"}},
		{"dt": 1699977600, "main": {"temp": 2.6, "feels_like": 0.1, "humidity": 75}, "weather": [{"id": 800}], "wind": {"speed": 1.005}, "sys": {"pod": "d"}}
	],
	"city": {"name": "Helsinki"}
}`

const dailyPayload = `{
	"city": {"name": "Helsinki"},
	"cnt": 2,
	"list": [
		{"dt": 1700000000, "temp": {"day": 1, "min": -4.5, "max": 1.2}, "weather": [{"id": 601}]},
		{"dt": 1700060400, "temp": {"day": 3, "min": -0.3, "max": 3.5}, "weather": [{"id": "500"}]}
	]
}`

func TestParseCurrent(t *testing.T) {
	p := NewParser(time.UTC)

	got, err := p.ParseCurrent(models.RawPayload(currentPayload))
	if err != nil {
		t.Fatalf("ParseCurrent: %v", err)
	}

	want := models.HourlyEntry{
		WeatherEntry: models.WeatherEntry{WeatherCode: "803", Date: "Tue 14.11."},
		Hour:         "22",
		Temperature:  "-3°",
		FeelsLike:    "-7°",
		WindSpeed:    "4.12",
		IsDaytime:    false,
		Humidity:     "86 %",
	}
	if got != want {
		t.Errorf("ParseCurrent =\n  %+v\nwant\n  %+v", got, want)
	}
}

func TestParseCurrent_DaytimeFromSunriseSunset(t *testing.T) {
	p := NewParser(time.UTC)
	tests := []struct {
		name string
		dt   string
		want bool
	}{
		{"at sunrise", "1699941600", false},
		{"one second after sunrise", "1699941601", true},
		{"at sunset", "1699977600", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := strings.Replace(currentPayload, `"dt": 1700000000`, `"dt": `+tt.dt, 1)
			got, err := p.ParseCurrent(models.RawPayload(payload))
			if err != nil {
				t.Fatalf("ParseCurrent: %v", err)
			}
			if got.IsDaytime != tt.want {
				t.Errorf("IsDaytime = %v, want %v", got.IsDaytime, tt.want)
			}
		})
	}
}

func TestParseCurrent_HugeTemperature(t *testing.T) {
	p := NewParser(time.UTC)
	payload := strings.Replace(currentPayload, `"temp": -2.6`, `"temp": 1e20`, 1)

	got, err := p.ParseCurrent(models.RawPayload(payload))
	if err != nil {
		t.Fatalf("ParseCurrent: %v", err)
	}
	if got.Temperature != "+100000000000000000000°" {
		t.Errorf("Temperature = %q", got.Temperature)
	}
}

func TestParseHourly(t *testing.T) {
	p := NewParser(time.UTC)

	got, err := p.ParseHourly(models.RawPayload(hourlyPayload))
	if err != nil {
		t.Fatalf("ParseHourly: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	first := got[0]
	if first.Hour != "06" || first.Date != "Tue 14.11." {
		t.Errorf("first hour/date = %q/%q", first.Hour, first.Date)
	}
	if first.Temperature != " 0°" || first.FeelsLike != "-3°" {
		t.Errorf("first temps = %q/%q", first.Temperature, first.FeelsLike)
	}
	if first.WindSpeed != "3.00" || first.Humidity != "90 %" || first.WeatherCode != "600" {
		t.Errorf("first = %+v", first)
	}
	if first.IsDaytime {
		t.Error("first: pod=n should be night")
	}

	second := got[1]
	if second.Temperature != "+3°" || second.Hour != "16" || second.WeatherCode != "800" {
		t.Errorf("second = %+v", second)
	}
	// 16:00 UTC is after the sunset of the current payload, but the
	// forecast's own part-of-day flag wins.
	if !second.IsDaytime {
		t.Error("second: pod=d should be daytime")
	}
}

func TestParseDaily(t *testing.T) {
	p := NewParser(time.FixedZone("EET", 2*60*60))

	got, err := p.ParseDaily(models.RawPayload(dailyPayload))
	if err != nil {
		t.Fatalf("ParseDaily: %v", err)
	}

	want := []models.DailyEntry{
		{WeatherEntry: models.WeatherEntry{WeatherCode: "601", Date: "Wed 15.11."}, TempMin: "-4°", TempMax: "+1°"},
		{WeatherEntry: models.WeatherEntry{WeatherCode: "500", Date: "Wed 15.11."}, TempMin: " 0°", TempMax: "+4°"},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	p := NewParser(time.UTC)

	tests := []struct {
		name    string
		parse   func(models.RawPayload) error
		payload string
	}{
		{"current invalid json", parseCurrentErr(p), `{"dt":`},
		{"current array", parseCurrentErr(p), `[]`},
		{"current empty weather", parseCurrentErr(p), strings.Replace(currentPayload, `[{"id": 803, "main": "Clouds", "description": "broken clouds", "icon": "04d"}]`, `[]`, 1)},
		{"current missing main", parseCurrentErr(p), `{"dt": 1, "weather": [{"id": 800}], "wind": {"speed": 1}, "sys": {"sunrise": 0, "sunset": 2}}`},
		{"current string temp", parseCurrentErr(p), strings.Replace(currentPayload, `"temp": -2.6`, `"temp": "cold"`, 1)},
		{"current missing sunrise", parseCurrentErr(p), strings.Replace(currentPayload, `"sunrise": 1699941600, `, ``, 1)},
		{"current missing humidity", parseCurrentErr(p), strings.Replace(currentPayload, `, "humidity": 86`, ``, 1)},
		{"current weather not array", parseCurrentErr(p), strings.Replace(currentPayload, `[{"id": 803, "main": "Clouds", "description": "broken clouds", "icon": "04d"}]`, `{"id": 803}`, 1)},
		{"hourly missing list", parseHourlyErr(p), `{"cod": "200"}`},
		{"hourly empty list", parseHourlyErr(p), `{"list": []}`},
		{"hourly list item not object", parseHourlyErr(p), `{"list": [1]}`},
		{"hourly missing pod", parseHourlyErr(p), strings.Replace(hourlyPayload, `"sys": {"pod": "n"}`, `"sys": {}`, 1)},
		{"hourly null wind", parseHourlyErr(p), strings.Replace(hourlyPayload, `"wind": {"speed": 3}`, `"wind": null`, 1)},
		{"daily missing max", parseDailyErr(p), strings.Replace(dailyPayload, `, "max": 1.2`, ``, 1)},
		{"daily list not array", parseDailyErr(p), `{"list": {}}`},
		{"daily missing dt", parseDailyErr(p), strings.Replace(dailyPayload, `"dt": 1700060400, `, ``, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse(models.RawPayload(tt.payload))
			if !errors.Is(err, models.ErrMalformedResponse) {
				t.Errorf("err = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func parseCurrentErr(p *Parser) func(models.RawPayload) error {
	return func(b models.RawPayload) error {
		_, err := p.ParseCurrent(b)
		return err
	}
}

func parseHourlyErr(p *Parser) func(models.RawPayload) error {
	return func(b models.RawPayload) error {
		_, err := p.ParseHourly(b)
		return err
	}
}

func parseDailyErr(p *Parser) func(models.RawPayload) error {
	return func(b models.RawPayload) error {
		_, err := p.ParseDaily(b)
		return err
	}
}
