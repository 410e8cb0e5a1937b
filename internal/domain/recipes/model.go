package recipes

import "github.com/spatrac/spatrac/internal/domain/products"

type Unit string

const (
	UnitG    Unit = "g"
	UnitUnit Unit = "unit"
)

// Ingredient points at a product by id only. The product may never have
// been received, so lookups must tolerate a miss.
type Ingredient struct {
	ProductID   string
	Description string
	Quantity    float64
	Unit        Unit
	PackDeliver string
}

type Recipe struct {
	ID          string
	Name        string
	RecipeCode  string
	Department  products.Department
	Recipe      string // free-text instructions
	Ingredients []Ingredient
}

// Clone copies the ingredient slice so snapshots never share backing arrays.
func (r Recipe) Clone() Recipe {
	if r.Ingredients != nil {
		r.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	}
	return r
}
