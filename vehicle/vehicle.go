package vehicle

import (
	"sort"

	"github.com/parts-pile/valuator/dataset"
)

// Catalog holds the selectable values for the price form. It is derived from
// the reference listings once at startup and never modified.
type Catalog struct {
	Companies       []string            `json:"companies"`
	ModelsByCompany map[string][]string `json:"modelsByCompany"`
	Years           []int               `json:"years"`
	FuelTypes       []string            `json:"fuelTypes"`
}

// BuildCatalog computes sorted, deduplicated selection sets from listings.
// The result does not depend on the order of listings.
func BuildCatalog(listings []dataset.Listing) Catalog {
	companies := make(map[string]struct{})
	models := make(map[string]map[string]struct{})
	years := make(map[int]struct{})
	fuelTypes := make(map[string]struct{})

	for _, l := range listings {
		companies[l.Company] = struct{}{}
		if models[l.Company] == nil {
			models[l.Company] = make(map[string]struct{})
		}
		models[l.Company][l.Name] = struct{}{}
		years[l.Year] = struct{}{}
		fuelTypes[l.FuelType] = struct{}{}
	}

	catalog := Catalog{
		Companies:       sortedKeys(companies),
		ModelsByCompany: make(map[string][]string, len(models)),
		Years:           make([]int, 0, len(years)),
		FuelTypes:       sortedKeys(fuelTypes),
	}
	for company, names := range models {
		catalog.ModelsByCompany[company] = sortedKeys(names)
	}
	for year := range years {
		catalog.Years = append(catalog.Years, year)
	}
	sort.Ints(catalog.Years)

	return catalog
}

// HasCompany reports whether company appears in the catalog.
func (c Catalog) HasCompany(company string) bool {
	_, ok := c.ModelsByCompany[company]
	return ok
}

// ModelsFor returns the model names listed under company, or nil.
func (c Catalog) ModelsFor(company string) []string {
	return c.ModelsByCompany[company]
}

// Empty reports whether the catalog was built from no listings.
func (c Catalog) Empty() bool {
	return len(c.Companies) == 0
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
