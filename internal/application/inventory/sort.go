package inventory

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// displayLanguage idioma de los nombres de producto y ubicación para el orden de presentación.
var displayLanguage = language.Spanish

// newCollator crea un collator por llamada: collate.Collator no es seguro para uso concurrente.
func newCollator() *collate.Collator {
	return collate.New(displayLanguage, collate.IgnoreCase)
}

// sortStockLevels ordena por nombre de producto, luego talla, color, ubicación y SKU.
func sortStockLevels(levels []*entity.StockLevel) {
	c := newCollator()
	sort.SliceStable(levels, func(i, j int) bool {
		a, b := levels[i], levels[j]
		if r := c.CompareString(a.Variant.Product, b.Variant.Product); r != 0 {
			return r < 0
		}
		if r := c.CompareString(a.Variant.Size, b.Variant.Size); r != 0 {
			return r < 0
		}
		if r := c.CompareString(a.Variant.Color, b.Variant.Color); r != 0 {
			return r < 0
		}
		if r := c.CompareString(a.Location.Name, b.Location.Name); r != 0 {
			return r < 0
		}
		return a.Variant.UniqueSKU < b.Variant.UniqueSKU
	})
}

func sortVariants(variants []*entity.Variant) {
	c := newCollator()
	sort.SliceStable(variants, func(i, j int) bool {
		a, b := variants[i], variants[j]
		if r := c.CompareString(a.Product, b.Product); r != 0 {
			return r < 0
		}
		if r := c.CompareString(a.Size, b.Size); r != 0 {
			return r < 0
		}
		if r := c.CompareString(a.Color, b.Color); r != 0 {
			return r < 0
		}
		return a.UniqueSKU < b.UniqueSKU
	})
}

func sortLocations(locations []*entity.Location) {
	c := newCollator()
	sort.SliceStable(locations, func(i, j int) bool {
		if r := c.CompareString(locations[i].Name, locations[j].Name); r != 0 {
			return r < 0
		}
		return locations[i].ID < locations[j].ID
	})
}
