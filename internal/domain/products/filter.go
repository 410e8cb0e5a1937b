package products

import "strings"

// Filter is the receiving search. Text fields match case-insensitive
// substrings, Department matches exactly; all set fields are ANDed.
type Filter struct {
	Description  string
	Department   Department
	ProductCode  string
	SupplierName string
	SupplierCode string
}

func (f Filter) Active() bool {
	return f.Description != "" || f.Department != "" || f.ProductCode != "" ||
		f.SupplierName != "" || f.SupplierCode != ""
}

func (f Filter) Match(p Product) bool {
	if f.Department != "" && p.Department != f.Department {
		return false
	}
	return containsFold(p.Name, f.Description) &&
		containsFold(p.ProductCode, f.ProductCode) &&
		containsFold(p.SupplierName, f.SupplierName) &&
		containsFold(p.SupplierCode, f.SupplierCode)
}

// Apply returns the matching products in their original order.
func (f Filter) Apply(list []Product) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// ByDepartment backs the reports filter; an empty department keeps everything.
func ByDepartment(list []Product, d Department) []Product {
	return Filter{Department: d}.Apply(list)
}

func containsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
