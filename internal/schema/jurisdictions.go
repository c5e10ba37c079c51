package schema

import "strings"

// Jurisdictions maps Brazilian state names (lowercase, with and without
// accents) to their two-letter codes.
var Jurisdictions = map[string]string{
	"acre":                "AC",
	"alagoas":             "AL",
	"amapá":               "AP",
	"amapa":               "AP",
	"amazonas":            "AM",
	"bahia":               "BA",
	"ceará":               "CE",
	"ceara":               "CE",
	"distrito federal":    "DF",
	"espírito santo":      "ES",
	"espirito santo":      "ES",
	"goiás":               "GO",
	"goias":               "GO",
	"maranhão":            "MA",
	"maranhao":            "MA",
	"mato grosso":         "MT",
	"mato grosso do sul":  "MS",
	"minas gerais":        "MG",
	"pará":                "PA",
	"para":                "PA",
	"paraíba":             "PB",
	"paraiba":             "PB",
	"paraná":              "PR",
	"parana":              "PR",
	"pernambuco":          "PE",
	"piauí":               "PI",
	"piaui":               "PI",
	"rio de janeiro":      "RJ",
	"rio grande do norte": "RN",
	"rio grande do sul":   "RS",
	"rondônia":            "RO",
	"rondonia":            "RO",
	"roraima":             "RR",
	"santa catarina":      "SC",
	"são paulo":           "SP",
	"sao paulo":           "SP",
	"sergipe":             "SE",
	"tocantins":           "TO",
	"exterior":            "EX",
}

// NormalizeJurisdiction converts state names to their 2-letter codes.
// Codes are upper-cased; unrecognized values are returned trimmed but
// otherwise unchanged.
func NormalizeJurisdiction(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)

	if code, ok := Jurisdictions[lower]; ok {
		return code
	}

	if len(s) == 2 {
		upper := strings.ToUpper(s)
		for _, code := range Jurisdictions {
			if upper == code {
				return code
			}
		}
	}

	return s
}
