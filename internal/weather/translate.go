package weather

import "strings"

var descriptions = map[string]string{
	"clear sky":                    "bezchmurnie",
	"few clouds":                   "lekkie zachmurzenie",
	"scattered clouds":             "częściowe zachmurzenie",
	"broken clouds":                "pochmurno",
	"overcast clouds":              "całkowite zachmurzenie",
	"shower rain":                  "przelotny deszcz",
	"light rain":                   "lekki deszcz",
	"moderate rain":                "umiarkowany deszcz",
	"heavy intensity rain":         "intensywny deszcz",
	"very heavy rain":              "bardzo intensywny deszcz",
	"extreme rain":                 "ekstremalny deszcz",
	"freezing rain":                "marznący deszcz",
	"light intensity shower rain":  "lekkie opady",
	"heavy intensity shower rain":  "intensywne opady",
	"ragged shower rain":           "nieregularne opady",
	"thunderstorm":                 "burza",
	"thunderstorm with light rain": "burza z lekkim deszczem",
	"thunderstorm with rain":       "burza z deszczem",
	"thunderstorm with heavy rain": "burza z intensywnym deszczem",
	"light thunderstorm":           "lekka burza",
	"heavy thunderstorm":           "silna burza",
	"ragged thunderstorm":          "gwałtowna burza",
	"snow":                         "śnieg",
	"light snow":                   "lekki śnieg",
	"heavy snow":                   "intensywne opady śniegu",
	"sleet":                        "deszcz ze śniegiem",
	"light shower sleet":           "lekkie opady deszczu ze śniegiem",
	"shower sleet":                 "deszcz ze śniegiem",
	"light rain and snow":          "lekki deszcz ze śniegiem",
	"rain and snow":                "deszcz ze śniegiem",
	"light shower snow":            "lekkie opady śniegu",
	"shower snow":                  "opady śniegu",
	"heavy shower snow":            "intensywne opady śniegu",
	"mist":                         "mgła",
	"smoke":                        "dym",
	"haze":                         "zamglenie",
	"sand/dust whirls":             "pył",
	"fog":                          "gęsta mgła",
	"sand":                         "burza piaskowa",
	"dust":                         "pył",
	"volcanic ash":                 "popiół wulkaniczny",
	"squalls":                      "szkwały",
	"tornado":                      "tornado",
}

// Translate returns the Polish wording of an OpenWeather condition, or desc unchanged if unknown.
func Translate(desc string) string {
	if pl, ok := descriptions[strings.ToLower(strings.TrimSpace(desc))]; ok {
		return pl
	}
	return desc
}
