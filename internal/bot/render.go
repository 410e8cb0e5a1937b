package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spatrac/spatrac/internal/csvimport"
	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/domain/recipes"
	"github.com/spatrac/spatrac/internal/forms"
	"github.com/spatrac/spatrac/internal/reports"
	"github.com/spatrac/spatrac/internal/store"
)

const (
	maxListed      = 15
	maxPickButtons = 10
	maxChartPoints = 10

	// Telegram rejects messages over 4096 characters.
	messageBudget = 3800
)

// writeCapped appends entries until maxListed of them are shown or the
// message would outgrow messageBudget, then summarises the remaining of
// total with more.
func writeCapped(sb *strings.Builder, entries []string, total int, more string) {
	used := utf8.RuneCountInString(sb.String())
	shown := 0
	for _, e := range entries {
		n := utf8.RuneCountInString(e)
		if shown == maxListed || used+n > messageBudget {
			break
		}
		sb.WriteString(e)
		used += n
		shown++
	}
	if rest := total - shown; rest > 0 {
		fmt.Fprintf(sb, more, rest)
	}
}

func renderDashboard(d reports.Dashboard) string {
	var sb strings.Builder
	sb.WriteString("📊 Supply Chain Dashboard\n\n")
	fmt.Fprintf(&sb, "Total Products: %d\n", d.TotalProducts)
	fmt.Fprintf(&sb, "Active Recipes: %d\n", d.ActiveRecipes)
	fmt.Fprintf(&sb, "Team Members: %d\n", d.TeamMembers)
	fmt.Fprintf(&sb, "Avg Temperature: %s°C\n", formatNum(d.AvgTemp))

	sb.WriteString("\nRecent products:\n")
	if len(d.Recent) == 0 {
		sb.WriteString("— none yet\n")
	}
	for _, p := range d.Recent {
		fmt.Fprintf(&sb, "• %s (%s) %s, %s°C\n", p.Name, p.Barcode, p.ReceivedAt.Format("Jan 2, 15:04"), formatNum(p.Temperature))
	}

	if len(d.Temperatures) > 0 {
		sb.WriteString("\nTemperatures:\n")
		pts := d.Temperatures
		if len(pts) > maxChartPoints {
			pts = pts[len(pts)-maxChartPoints:]
		}
		for _, pt := range pts {
			fmt.Fprintf(&sb, "%s  %s°C\n", pt.Time, formatNum(pt.Temperature))
		}
	}
	return sb.String()
}

func renderReceiving(f products.Filter, list []products.Product, selected *products.Product) string {
	var sb strings.Builder
	sb.WriteString("📦 Receiving\n")
	if f.Active() {
		sb.WriteString("\nFilters: " + describeFilter(f) + "\n")
	}
	if selected != nil {
		fmt.Fprintf(&sb, "\nSelected: %s (%s)\n", selected.Name, selected.Barcode)
	}
	fmt.Fprintf(&sb, "\nProducts (%d):\n", len(list))
	if len(list) == 0 {
		sb.WriteString("— nothing found\n")
	}
	writeProductLines(&sb, list)
	return sb.String()
}

func writeProductLines(sb *strings.Builder, list []products.Product) {
	lines := make([]string, 0, min(len(list), maxListed))
	for _, p := range list[:min(len(list), maxListed)] {
		dept := p.Department.Label()
		if dept == "" {
			dept = "—"
		}
		lines = append(lines, fmt.Sprintf("• %s | %s | %s | %s\n", p.Name, p.ProductCode, p.SupplierName, dept))
	}
	writeCapped(sb, lines, len(list), "…and %d more\n")
}

func describeFilter(f products.Filter) string {
	var parts []string
	add := func(label, v string) {
		if v != "" {
			parts = append(parts, fmt.Sprintf("%s “%s”", label, v))
		}
	}
	add("description", f.Description)
	add("department", f.Department.Label())
	add("code", f.ProductCode)
	add("supplier", f.SupplierName)
	add("supplier code", f.SupplierCode)
	return strings.Join(parts, ", ")
}

func renderRecipes(list []recipes.Recipe, idx recipes.ProductIndex) string {
	var sb strings.Builder
	sb.WriteString("🍲 Recipes\n")
	if len(list) == 0 {
		sb.WriteString("\nNo recipes yet.\n")
		return sb.String()
	}
	entries := make([]string, 0, min(len(list), maxListed))
	for _, r := range list[:min(len(list), maxListed)] {
		var e strings.Builder
		fmt.Fprintf(&e, "\n%s (%s)\n", r.Name, r.Department.Label())
		for _, l := range reports.IngredientLines(idx, r) {
			e.WriteString("  " + l.String() + "\n")
		}
		entries = append(entries, e.String())
	}
	writeCapped(&sb, entries, len(list), "\n…and %d more recipes\n")
	return sb.String()
}

func renderIngredientDraft(list []forms.IngredientInput) string {
	var sb strings.Builder
	sb.WriteString("Ingredients:\n")
	for i, in := range list {
		name := in.Description
		if name == "" {
			name = in.ProductID
		}
		fmt.Fprintf(&sb, "%d. %s - %s %s\n", i+1, name, formatNum(in.Quantity), in.Unit)
	}
	return sb.String()
}

func renderReport(dept products.Department, counts reports.DepartmentCounts, rows []reports.Row, sums []reports.RecipeSummary) string {
	var sb strings.Builder
	sb.WriteString("📈 Reports\n\n")
	for _, d := range products.Departments {
		fmt.Fprintf(&sb, "%s: %d\n", d.Label(), counts[d])
	}

	filter := "All departments"
	if dept != "" {
		filter = dept.Label()
	}
	fmt.Fprintf(&sb, "\nProducts, %s (%d):\n", filter, len(rows))
	lines := make([]string, 0, min(len(rows), maxListed))
	for _, r := range rows[:min(len(rows), maxListed)] {
		line := fmt.Sprintf("• %s | %s | %s | %s°C | %s | %s", r.Name, r.Barcode, r.Department, formatNum(r.Temperature), r.Received, r.ReceivedBy)
		if r.LastHandledBy != "" {
			line += " | " + r.LastHandledBy
		}
		lines = append(lines, line+"\n")
	}
	writeCapped(&sb, lines, len(rows), "…and %d more, use export for the full list\n")

	if len(sums) > 0 {
		sb.WriteString("\nRecipe utilization:\n")
		recipeLines := make([]string, 0, min(len(sums), maxListed))
		for _, s := range sums[:min(len(sums), maxListed)] {
			recipeLines = append(recipeLines, fmt.Sprintf("• %s (%s): %d ingredients, %s g\n", s.Name, s.Department, s.Ingredients, s.TotalWeight.String()))
		}
		writeCapped(&sb, recipeLines, len(sums), "…and %d more recipes\n")
	}
	return sb.String()
}

func renderImportResults(results []csvimport.Result) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		mark := "✅"
		if !r.Success {
			mark = "❌"
		}
		lines = append(lines, mark+" "+r.Message)
	}
	return strings.Join(lines, "\n")
}

// changeNotice is the admin chat text for a store change; "" means nothing
// to report.
func changeNotice(c store.Change) string {
	if c.Snapshot == nil {
		return ""
	}
	switch c.Op {
	case store.OpAddProduct:
		if n := len(c.Snapshot.Products); n > 0 {
			p := c.Snapshot.Products[n-1]
			return fmt.Sprintf("📦 Product received: %s (%s), %s°C", p.Name, p.Barcode, formatNum(p.Temperature))
		}
	case store.OpImportProducts:
		return fmt.Sprintf("📥 %d products imported", c.Count)
	case store.OpTransferProduct:
		for _, p := range c.Snapshot.Products {
			if p.ID == c.ProductID {
				return fmt.Sprintf("🔁 %s moved to %s", p.Name, p.Department.Label())
			}
		}
	case store.OpAddRecipe:
		if n := len(c.Snapshot.Recipes); n > 0 {
			return "🍲 Recipe added: " + c.Snapshot.Recipes[n-1].Name
		}
	case store.OpImportRecipes:
		return fmt.Sprintf("📥 %d recipes imported", c.Count)
	}
	return ""
}

func productButtonLabel(p products.Product) string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Barcode)
}

func formatNum(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
