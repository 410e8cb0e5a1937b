package csvimport

import (
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/domain/recipes"
)

const ImportedBy = "CSV Import"

var (
	productHeaders = []string{"Product Description", "Supp. Cd.", "Supplier Name", "Product Code", "Sub-Department"}
	recipeHeaders  = []string{"Final Product Name", "Final Product Code", "Department",
		"Ingredient Prod Code", "Ingredient Description", "Weight"}
)

type productRecord struct {
	Description  string `csv:"Product Description"`
	SupplierCode string `csv:"Supp. Cd."`
	SupplierName string `csv:"Supplier Name"`
	ProductCode  string `csv:"Product Code"`
	EAN          string `csv:"EAN"`
	Department   string `csv:"Sub-Department"`
	Size         string `csv:"Size"`
}

type recipeRecord struct {
	Name        string `csv:"Final Product Name"`
	Code        string `csv:"Final Product Code"`
	Department  string `csv:"Department"`
	Recipe      string `csv:"Recipe"`
	IngCode     string `csv:"Ingredient Prod Code"`
	IngDesc     string `csv:"Ingredient Description"`
	Weight      string `csv:"Weight"`
	PackDeliver string `csv:"Pack Deliver"`
}

func (r productRecord) product(id string, at time.Time) products.Product {
	barcode := r.EAN
	if barcode == "" {
		barcode = r.ProductCode
	}
	return products.Product{
		ID:           id,
		Barcode:      barcode,
		Name:         r.Description,
		SupplierCode: r.SupplierCode,
		SupplierName: r.SupplierName,
		ProductCode:  r.ProductCode,
		EAN:          r.EAN,
		Size:         r.Size,
		Department:   products.ParseDepartment(r.Department),
		ReceivedAt:   at,
		ReceivedBy:   ImportedBy,
	}
}

// One row is one recipe with exactly one ingredient.
func (r recipeRecord) recipe(id string) recipes.Recipe {
	return recipes.Recipe{
		ID:         id,
		Name:       r.Name,
		RecipeCode: r.Code,
		Department: products.ParseDepartment(r.Department),
		Recipe:     r.Recipe,
		Ingredients: []recipes.Ingredient{{
			ProductID:   r.IngCode,
			Description: r.IngDesc,
			Quantity:    ParseWeight(r.Weight),
			Unit:        recipes.UnitG,
			PackDeliver: r.PackDeliver,
		}},
	}
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseWeight reads the leading decimal number of raw ("250g" -> 250).
// A comma ends the number, so "1,250" is 1 rather than a guess at the
// separator. Anything unparsable yields 0.
func ParseWeight(raw string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0
	}
	v, err := cast.ToFloat64E(m)
	if err != nil {
		return 0
	}
	return v
}
