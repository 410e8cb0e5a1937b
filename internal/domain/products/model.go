package products

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type Department string

const (
	DeptButchery Department = "butchery"
	DeptBakery   Department = "bakery"
	DeptHMR      Department = "hmr"
)

// Departments lists the processing units in display order.
var Departments = []Department{DeptButchery, DeptBakery, DeptHMR}

func (d Department) Valid() bool {
	switch d {
	case DeptButchery, DeptBakery, DeptHMR:
		return true
	}
	return false
}

// Label is the human form used in tables ("HMR", "Bakery").
func (d Department) Label() string {
	switch d {
	case DeptHMR:
		return "HMR"
	case "":
		return ""
	}
	s := string(d)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// ParseDepartment lowercases a raw value coming from a form or a file.
func ParseDepartment(raw string) Department {
	return Department(strings.ToLower(strings.TrimSpace(raw)))
}

// Product is one received unit or batch. Department stays empty until a
// transfer assigns it, unless it was copied from a source product at intake.
type Product struct {
	ID              string
	Barcode         string
	Name            string
	SupplierCode    string
	SupplierName    string
	ProductCode     string
	EAN             string
	Size            string
	Temperature     float64
	ReceivedAt      time.Time
	ReceivedBy      string
	Department      Department
	ParentProductID string
	LastHandledBy   string
}

func (p Product) Assigned() bool { return p.Department != "" }
