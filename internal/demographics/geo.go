package demographics

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Continent bucket names. Anything unresolvable lands in OthersBucket.
const (
	continentAfrica       = "Africa"
	continentAsia         = "Asia"
	continentEurope       = "Europe"
	continentNorthAmerica = "North America"
	continentOceania      = "Oceania"
	continentSouthAmerica = "South America"
)

// continentByCode maps ISO 3166-1 alpha-2 codes onto continent buckets.
// The table covers the codes observed in production signups; missing codes
// resolve through the name table or fall back to OthersBucket.
var continentByCode = map[string]string{
	// Africa
	"DZ": continentAfrica, "EG": continentAfrica, "ET": continentAfrica,
	"GH": continentAfrica, "KE": continentAfrica, "MA": continentAfrica,
	"NG": continentAfrica, "TN": continentAfrica, "TZ": continentAfrica,
	"UG": continentAfrica, "ZA": continentAfrica, "ZW": continentAfrica,

	// Asia
	"AE": continentAsia, "BD": continentAsia, "CN": continentAsia,
	"HK": continentAsia, "ID": continentAsia, "IL": continentAsia,
	"IN": continentAsia, "IQ": continentAsia, "IR": continentAsia,
	"JO": continentAsia, "JP": continentAsia, "KR": continentAsia,
	"KW": continentAsia, "LB": continentAsia, "LK": continentAsia,
	"MY": continentAsia, "NP": continentAsia, "PH": continentAsia,
	"PK": continentAsia, "QA": continentAsia, "SA": continentAsia,
	"SG": continentAsia, "TH": continentAsia, "TR": continentAsia,
	"TW": continentAsia, "VN": continentAsia,

	// Europe
	"AT": continentEurope, "BE": continentEurope, "BG": continentEurope,
	"CH": continentEurope, "CZ": continentEurope, "DE": continentEurope,
	"DK": continentEurope, "EE": continentEurope, "ES": continentEurope,
	"FI": continentEurope, "FR": continentEurope, "GB": continentEurope,
	"GR": continentEurope, "HR": continentEurope, "HU": continentEurope,
	"IE": continentEurope, "IS": continentEurope, "IT": continentEurope,
	"LT": continentEurope, "LU": continentEurope, "LV": continentEurope,
	"NL": continentEurope, "NO": continentEurope, "PL": continentEurope,
	"PT": continentEurope, "RO": continentEurope, "RS": continentEurope,
	"RU": continentEurope, "SE": continentEurope, "SI": continentEurope,
	"SK": continentEurope, "UA": continentEurope,

	// North America
	"CA": continentNorthAmerica, "CR": continentNorthAmerica,
	"CU": continentNorthAmerica, "DO": continentNorthAmerica,
	"GT": continentNorthAmerica, "HN": continentNorthAmerica,
	"JM": continentNorthAmerica, "MX": continentNorthAmerica,
	"NI": continentNorthAmerica, "PA": continentNorthAmerica,
	"SV": continentNorthAmerica, "US": continentNorthAmerica,

	// Oceania
	"AU": continentOceania, "FJ": continentOceania,
	"NZ": continentOceania, "PG": continentOceania,

	// South America
	"AR": continentSouthAmerica, "BO": continentSouthAmerica,
	"BR": continentSouthAmerica, "CL": continentSouthAmerica,
	"CO": continentSouthAmerica, "EC": continentSouthAmerica,
	"PE": continentSouthAmerica, "PY": continentSouthAmerica,
	"UY": continentSouthAmerica, "VE": continentSouthAmerica,
}

// continentByName maps lower-cased free-text country names onto continent
// buckets, covering the aliases the signup form produced over time.
var continentByName = map[string]string{
	"egypt": continentAfrica, "kenya": continentAfrica,
	"morocco": continentAfrica, "nigeria": continentAfrica,
	"south africa": continentAfrica,

	"china": continentAsia, "india": continentAsia,
	"indonesia": continentAsia, "israel": continentAsia,
	"japan": continentAsia, "pakistan": continentAsia,
	"philippines": continentAsia, "saudi arabia": continentAsia,
	"singapore": continentAsia, "south korea": continentAsia,
	"turkey": continentAsia, "united arab emirates": continentAsia,
	"vietnam": continentAsia,

	"england": continentEurope, "france": continentEurope,
	"germany": continentEurope, "great britain": continentEurope,
	"ireland": continentEurope, "italy": continentEurope,
	"netherlands": continentEurope, "poland": continentEurope,
	"portugal": continentEurope, "russia": continentEurope,
	"spain": continentEurope, "sweden": continentEurope,
	"switzerland": continentEurope, "uk": continentEurope,
	"ukraine": continentEurope, "united kingdom": continentEurope,

	"canada": continentNorthAmerica, "mexico": continentNorthAmerica,
	"united states": continentNorthAmerica,
	"united states of america": continentNorthAmerica,
	"usa": continentNorthAmerica, "us": continentNorthAmerica,

	"australia": continentOceania, "new zealand": continentOceania,

	"argentina": continentSouthAmerica, "brazil": continentSouthAmerica,
	"chile": continentSouthAmerica, "colombia": continentSouthAmerica,
	"peru": continentSouthAmerica, "venezuela": continentSouthAmerica,
}

// normalizeCountryCode trims and upper-cases a candidate code. Codes that
// are empty or longer than three characters are treated as absent.
func normalizeCountryCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 3 {
		return ""
	}
	return code
}

// normalizeCountryName trims a candidate free-text name. The common
// placeholder values are treated as absent.
func normalizeCountryName(name string) string {
	name = strings.TrimSpace(name)
	switch strings.ToLower(name) {
	case "", "unknown", "n/a", "na":
		return ""
	}
	return name
}

// resolveContinent picks the continent bucket for a normalized code/name
// pair, consulting the code table first.
func resolveContinent(code, name string) string {
	if code != "" {
		if continent, ok := continentByCode[code]; ok {
			return continent
		}
	}
	if name != "" {
		if continent, ok := continentByName[strings.ToLower(name)]; ok {
			return continent
		}
	}
	return OthersBucket
}

// regionDisplayName resolves an ISO code into its English region name.
func regionDisplayName(code string) (string, bool) {
	region, err := language.ParseRegion(code)
	if err != nil {
		return "", false
	}
	name := display.English.Regions().Name(region)
	if name == "" {
		return "", false
	}
	return name, true
}

// countryAccumulator retains the best-known code/name pair per group key
// while counting members.
type countryAccumulator struct {
	code  string
	name  string
	count int
}

// continentAccumulator collects the country groups under one continent.
type continentAccumulator struct {
	count     int
	countries map[string]*countryAccumulator
}

func (e *Engine) groupByContinent(records []UserRecord) []ContinentGroup {
	buckets := map[string]*continentAccumulator{}

	for _, rec := range records {
		code := normalizeCountryCode(rec.CountryCode)
		name := normalizeCountryName(rec.CountryName)
		continent := resolveContinent(code, name)

		bucket, ok := buckets[continent]
		if !ok {
			bucket = &continentAccumulator{countries: map[string]*countryAccumulator{}}
			buckets[continent] = bucket
		}
		bucket.count++

		key := code
		if key == "" {
			key = name
		}
		if key == "" {
			key = OthersBucket
		}

		country, ok := bucket.countries[key]
		if !ok {
			country = &countryAccumulator{}
			bucket.countries[key] = country
		}
		country.count++
		if country.code == "" && code != "" {
			country.code = code
		}
		// The longer observed name tends to be the more descriptive one.
		if len(name) > len(country.name) {
			country.name = name
		}
	}

	out := make([]ContinentGroup, 0, len(buckets))
	for continent, bucket := range buckets {
		group := ContinentGroup{
			Name:      continent,
			Count:     bucket.count,
			Countries: make([]CountryGroup, 0, len(bucket.countries)),
		}
		for key, country := range bucket.countries {
			group.Countries = append(group.Countries, CountryGroup{
				Name:  displayCountryName(key, country),
				Code:  country.code,
				Count: country.count,
			})
		}
		sort.Slice(group.Countries, func(i, j int) bool {
			if group.Countries[i].Count != group.Countries[j].Count {
				return group.Countries[i].Count > group.Countries[j].Count
			}
			return group.Countries[i].Name < group.Countries[j].Name
		})
		out = append(out, group)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// displayCountryName prefers the locale-aware region name for a code,
// then the stored free-text name, then the raw group key.
func displayCountryName(key string, country *countryAccumulator) string {
	if country.code != "" {
		if name, ok := regionDisplayName(country.code); ok {
			return name
		}
	}
	if country.name != "" {
		return country.name
	}
	return key
}
