package vehicle

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/parts-pile/valuator/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing(company, name string, year int, fuel string) dataset.Listing {
	return dataset.Listing{Company: company, Name: name, Year: year, FuelType: fuel}
}

func TestBuildCatalog(t *testing.T) {
	listings := []dataset.Listing{
		listing("Maruti", "Swift", 2015, "Petrol"),
		listing("Maruti", "Baleno", 2018, "Petrol"),
	}

	catalog := BuildCatalog(listings)

	assert.Equal(t, []string{"Maruti"}, catalog.Companies)
	assert.Equal(t, map[string][]string{"Maruti": {"Baleno", "Swift"}}, catalog.ModelsByCompany)
	assert.Equal(t, []int{2015, 2018}, catalog.Years)
	assert.Equal(t, []string{"Petrol"}, catalog.FuelTypes)
}

func TestBuildCatalog_ModelsRestrictedToCompany(t *testing.T) {
	listings := []dataset.Listing{
		listing("Maruti", "Swift", 2015, "Petrol"),
		listing("Hyundai", "i20", 2016, "Petrol"),
		listing("Hyundai", "Creta", 2019, "Diesel"),
		listing("Maruti", "Swift", 2012, "Diesel"),
		listing("Honda", "City", 2014, "Petrol"),
	}

	catalog := BuildCatalog(listings)

	assert.Equal(t, []string{"Honda", "Hyundai", "Maruti"}, catalog.Companies)
	assert.Equal(t, []string{"City"}, catalog.ModelsFor("Honda"))
	assert.Equal(t, []string{"Creta", "i20"}, catalog.ModelsFor("Hyundai"))
	assert.Equal(t, []string{"Swift"}, catalog.ModelsFor("Maruti"))
	assert.Equal(t, []string{"Diesel", "Petrol"}, catalog.FuelTypes)

	for company, names := range catalog.ModelsByCompany {
		assert.True(t, sort.StringsAreSorted(names), "models for %s not sorted", company)
		for _, name := range names {
			found := false
			for _, l := range listings {
				if l.Company == company && l.Name == name {
					found = true
					break
				}
			}
			assert.True(t, found, "%s listed under %s without a matching row", name, company)
		}
	}
}

func TestBuildCatalog_YearsStrictlyAscending(t *testing.T) {
	listings := []dataset.Listing{
		listing("A", "x", 2020, "Petrol"),
		listing("A", "x", 2003, "Petrol"),
		listing("A", "y", 2020, "Petrol"),
		listing("B", "z", 2011, "LPG"),
		listing("B", "z", 2003, "LPG"),
	}

	catalog := BuildCatalog(listings)

	require.Equal(t, []int{2003, 2011, 2020}, catalog.Years)
	for i := 1; i < len(catalog.Years); i++ {
		assert.Less(t, catalog.Years[i-1], catalog.Years[i])
	}
}

func TestBuildCatalog_OrderIndependent(t *testing.T) {
	listings := []dataset.Listing{
		listing("Maruti", "Swift", 2015, "Petrol"),
		listing("Maruti", "Baleno", 2018, "Petrol"),
		listing("Hyundai", "i20", 2016, "Petrol"),
		listing("Hyundai", "Creta", 2019, "Diesel"),
		listing("Honda", "City", 2014, "CNG"),
	}
	want := BuildCatalog(listings)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]dataset.Listing(nil), listings...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, BuildCatalog(shuffled))
	}
}

func TestBuildCatalog_Empty(t *testing.T) {
	catalog := BuildCatalog(nil)
	assert.True(t, catalog.Empty())
	assert.Empty(t, catalog.Years)
	assert.False(t, catalog.HasCompany("Maruti"))
}

func TestCatalogHasCompany(t *testing.T) {
	catalog := BuildCatalog([]dataset.Listing{listing("Maruti", "Swift", 2015, "Petrol")})
	assert.True(t, catalog.HasCompany("Maruti"))
	assert.False(t, catalog.HasCompany("maruti"))
	assert.Nil(t, catalog.ModelsFor("Tata"))
}
