// Package reports builds the dashboard and report view models. Everything
// here is a pure function of a store snapshot.
package reports

import (
	"github.com/shopspring/decimal"

	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/store"
)

const (
	RecentLimit = 5
	timeLayout  = "Jan 2, 15:04"
	clockLayout = "15:04"
)

type Dashboard struct {
	TotalProducts int
	ActiveRecipes int
	TeamMembers   int
	AvgTemp       float64
	Recent        []products.Product
	Temperatures  []TempPoint
}

// TempPoint is one point of the intake temperature chart.
type TempPoint struct {
	Time        string
	Temperature float64
}

func BuildDashboard(s *store.Snapshot) Dashboard {
	return Dashboard{
		TotalProducts: len(s.Products),
		ActiveRecipes: len(s.Recipes),
		TeamMembers:   len(s.Users),
		AvgTemp:       AverageTemperature(s.Products),
		Recent:        Recent(s.Products, RecentLimit),
		Temperatures:  TemperatureSeries(s.Products),
	}
}

// AverageTemperature is rounded to one decimal; an empty list gives 0.
func AverageTemperature(list []products.Product) float64 {
	if len(list) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, p := range list {
		sum = sum.Add(decimal.NewFromFloat(p.Temperature))
	}
	return sum.Div(decimal.NewFromInt(int64(len(list)))).Round(1).InexactFloat64()
}

// Recent returns the last n products in insertion order.
func Recent(list []products.Product, n int) []products.Product {
	if len(list) > n {
		list = list[len(list)-n:]
	}
	return append([]products.Product(nil), list...)
}

func TemperatureSeries(list []products.Product) []TempPoint {
	out := make([]TempPoint, 0, len(list))
	for _, p := range list {
		out = append(out, TempPoint{Time: p.ReceivedAt.Format(clockLayout), Temperature: p.Temperature})
	}
	return out
}
