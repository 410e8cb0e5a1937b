package reports

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/domain/recipes"
	"github.com/spatrac/spatrac/internal/domain/users"
	"github.com/spatrac/spatrac/internal/store"
)

const (
	FilterAll = "all"
	Warehouse = "Warehouse"
)

// DepartmentCounts holds the number of products assigned to each department.
type DepartmentCounts map[products.Department]int

func CountByDepartment(list []products.Product) DepartmentCounts {
	out := DepartmentCounts{}
	for _, d := range products.Departments {
		out[d] = 0
	}
	for _, p := range list {
		if p.Department.Valid() {
			out[p.Department]++
		}
	}
	return out
}

// ParseFilter turns "all" (or empty) into the zero department.
func ParseFilter(raw string) (products.Department, error) {
	if raw == "" || strings.EqualFold(raw, FilterAll) {
		return "", nil
	}
	d := products.ParseDepartment(raw)
	if !d.Valid() {
		return "", fmt.Errorf("unknown department %q", raw)
	}
	return d, nil
}

type Row struct {
	Name          string
	Barcode       string
	Department    string
	Temperature   float64
	Received      string
	ReceivedBy    string
	LastHandledBy string
}

// Rows lists products for the report table. dept "" keeps every product.
func Rows(s *store.Snapshot, dept products.Department) []Row {
	list := products.ByDepartment(s.Products, dept)
	out := make([]Row, 0, len(list))
	for _, p := range list {
		out = append(out, Row{
			Name:          p.Name,
			Barcode:       p.Barcode,
			Department:    departmentLabel(p.Department),
			Temperature:   p.Temperature,
			Received:      p.ReceivedAt.Format(timeLayout),
			ReceivedBy:    p.ReceivedBy,
			LastHandledBy: handlerName(s.Users, p.LastHandledBy),
		})
	}
	return out
}

func departmentLabel(d products.Department) string {
	if d == "" {
		return Warehouse
	}
	return d.Label()
}

func handlerName(staff []users.User, id string) string {
	if id == "" {
		return ""
	}
	if u, ok := users.FindByID(staff, id); ok {
		return u.Name
	}
	return id
}

type RecipeSummary struct {
	ID          string
	Name        string
	Department  string
	Ingredients int
	TotalWeight decimal.Decimal // grams only
}

func RecipeSummaries(list []recipes.Recipe) []RecipeSummary {
	out := make([]RecipeSummary, 0, len(list))
	for _, r := range list {
		total := decimal.Zero
		for _, in := range r.Ingredients {
			if in.Unit == recipes.UnitG {
				total = total.Add(decimal.NewFromFloat(in.Quantity))
			}
		}
		out = append(out, RecipeSummary{
			ID:          r.ID,
			Name:        r.Name,
			Department:  r.Department.Label(),
			Ingredients: len(r.Ingredients),
			TotalWeight: total,
		})
	}
	return out
}

// IngredientLine is "name - quantity unit"; Name stays empty for a product
// that was never received.
type IngredientLine struct {
	Name     string
	Quantity float64
	Unit     recipes.Unit
	Found    bool
}

func (l IngredientLine) String() string {
	return fmt.Sprintf("%s - %s %s", l.Name, decimal.NewFromFloat(l.Quantity).String(), l.Unit)
}

func IngredientLines(idx recipes.ProductIndex, r recipes.Recipe) []IngredientLine {
	resolved := idx.ResolveAll(r)
	out := make([]IngredientLine, 0, len(resolved))
	for _, ri := range resolved {
		out = append(out, IngredientLine{Name: ri.Name, Quantity: ri.Quantity, Unit: ri.Unit, Found: ri.Found})
	}
	return out
}
