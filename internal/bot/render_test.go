package bot

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/spatrac/spatrac/internal/csvimport"
	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/domain/recipes"
	"github.com/spatrac/spatrac/internal/reports"
	"github.com/spatrac/spatrac/internal/store"
)

func TestFormatNum(t *testing.T) {
	assert.Equal(t, "3", formatNum(3))
	assert.Equal(t, "10", formatNum(10))
	assert.Equal(t, "8.3", formatNum(8.3))
	assert.Equal(t, "-2.25", formatNum(-2.25))
	assert.Equal(t, "0", formatNum(0))
}

func TestRenderImportResults(t *testing.T) {
	got := renderImportResults([]csvimport.Result{
		{Kind: csvimport.KindProducts, Success: true, Message: "Successfully imported 2 products", Count: 2},
		{Kind: csvimport.KindRecipes, Message: "Error importing recipes: file is empty"},
	})
	assert.Equal(t, "✅ Successfully imported 2 products\n❌ Error importing recipes: file is empty", got)
}

func TestChangeNotice(t *testing.T) {
	snap := &store.Snapshot{
		Products: []products.Product{{ID: "1", Name: "Milk", Barcode: "123", Temperature: 4}},
		Recipes:  []recipes.Recipe{{ID: "r", Name: "Pie"}},
	}
	assert.Equal(t, "📦 Product received: Milk (123), 4°C", changeNotice(store.Change{Op: store.OpAddProduct, Count: 1, Snapshot: snap}))
	assert.Equal(t, "🍲 Recipe added: Pie", changeNotice(store.Change{Op: store.OpAddRecipe, Count: 1, Snapshot: snap}))
	assert.Equal(t, "📥 3 recipes imported", changeNotice(store.Change{Op: store.OpImportRecipes, Count: 3, Snapshot: snap}))
	assert.Equal(t, "", changeNotice(store.Change{Op: store.OpTransferProduct, ProductID: "x", Snapshot: snap}))
	assert.Equal(t, "", changeNotice(store.Change{Op: store.OpAddProduct}))
}

func TestRenderDashboard(t *testing.T) {
	d := reports.Dashboard{
		TotalProducts: 1,
		TeamMembers:   2,
		AvgTemp:       3.5,
		Recent:        []products.Product{{Name: "Milk", Barcode: "1", Temperature: 3.5, ReceivedAt: time.Date(2024, 1, 5, 7, 30, 0, 0, time.UTC)}},
		Temperatures:  []reports.TempPoint{{Time: "07:30", Temperature: 3.5}},
	}
	out := renderDashboard(d)
	assert.Contains(t, out, "Total Products: 1")
	assert.Contains(t, out, "Avg Temperature: 3.5°C")
	assert.Contains(t, out, "• Milk (1) Jan 5, 07:30, 3.5°C")
	assert.Contains(t, out, "07:30  3.5°C")
}

func TestRenderReceivingTruncates(t *testing.T) {
	var list []products.Product
	for i := 0; i < maxListed+3; i++ {
		list = append(list, products.Product{Name: "Item"})
	}
	out := renderReceiving(products.Filter{Department: products.DeptHMR}, list, nil)
	assert.Contains(t, out, "Filters: department “HMR”")
	assert.Contains(t, out, "…and 3 more")
}

func TestRenderRecipesFitsMessage(t *testing.T) {
	var list []recipes.Recipe
	var sums []reports.RecipeSummary
	for i := 0; i < 250; i++ {
		list = append(list, recipes.Recipe{
			ID:          fmt.Sprint(i),
			Name:        fmt.Sprintf("Recipe %d", i),
			Department:  products.DeptBakery,
			Ingredients: []recipes.Ingredient{{ProductID: "P1", Quantity: 250, Unit: recipes.UnitG}},
		})
		sums = append(sums, reports.RecipeSummary{
			Name: fmt.Sprintf("Recipe %d", i), Department: "Bakery", Ingredients: 1, TotalWeight: decimal.NewFromInt(250),
		})
	}
	idx := recipes.IndexProducts([]products.Product{{ID: "P1", Name: "Flour"}})

	out := renderRecipes(list, idx)
	assert.Less(t, utf8.RuneCountInString(out), 4096)
	assert.Contains(t, out, "Recipe 0 (Bakery)\n  Flour - 250 g")
	assert.Contains(t, out, fmt.Sprintf("…and %d more recipes", 250-maxListed))

	var rows []reports.Row
	for i := 0; i < 250; i++ {
		rows = append(rows, reports.Row{Name: strings.Repeat("Long product name ", 10), Barcode: "123456789012", Department: "Warehouse"})
	}
	out = renderReport("", reports.DepartmentCounts{}, rows, sums)
	assert.Less(t, utf8.RuneCountInString(out), 4096)
	assert.Contains(t, out, "more recipes")
	assert.Contains(t, out, "use export for the full list")
}

func TestRenderRecipesLargeRecipeStaysWithinBudget(t *testing.T) {
	ings := make([]recipes.Ingredient, 30)
	for i := range ings {
		ings[i] = recipes.Ingredient{ProductID: "P1", Quantity: 250, Unit: recipes.UnitG}
	}
	var list []recipes.Recipe
	for i := 0; i < 5; i++ {
		list = append(list, recipes.Recipe{Name: strings.Repeat("x", 100), Department: products.DeptBakery, Ingredients: ings})
	}
	idx := recipes.IndexProducts([]products.Product{{ID: "P1", Name: strings.Repeat("flour ", 10)}})

	out := renderRecipes(list, idx)
	assert.Less(t, utf8.RuneCountInString(out), 4096)
	assert.Contains(t, out, "…and 4 more recipes")
}

func TestRenderKeepsNonASCIIDepartmentValid(t *testing.T) {
	p := products.Product{Name: "Brie", ProductCode: "B1", SupplierName: "Fromagerie", Department: products.ParseDepartment("Épicerie")}
	var sb strings.Builder
	writeProductLines(&sb, []products.Product{p})
	assert.True(t, utf8.ValidString(sb.String()))
	assert.Contains(t, sb.String(), "| Épicerie")
}
