package steps

import (
	"sort"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/goliatone/go-eticket/pkg/model"
)

// countryCodes lists the ISO 3166-1 alpha-2 codes offered in country
// selects. Validation accepts any country; the list only drives the widget.
var countryCodes = []string{
	"AR", "AW", "BB", "BO", "BR", "CA", "CH", "CL", "CN", "CO", "CR", "CU",
	"CW", "DE", "DO", "EC", "ES", "FR", "GB", "GT", "HN", "HT", "IN", "IT",
	"JM", "JP", "KR", "MX", "NI", "NL", "PA", "PE", "PR", "PT", "PY", "RU",
	"SE", "SV", "TT", "US", "UY", "VE",
}

var (
	countryOnce    sync.Once
	countryOptions []model.Option
)

// CountryOptions returns the country choices sorted by English name. Values
// are alpha-2 codes.
func CountryOptions() []model.Option {
	countryOnce.Do(func() {
		namer := display.English.Regions()
		for _, code := range countryCodes {
			region := language.MustParseRegion(code)
			countryOptions = append(countryOptions, model.Option{
				Value: code,
				Label: namer.Name(region),
			})
		}
		sort.Slice(countryOptions, func(i, j int) bool {
			return countryOptions[i].Label < countryOptions[j].Label
		})
	})
	out := make([]model.Option, len(countryOptions))
	copy(out, countryOptions)
	return out
}
