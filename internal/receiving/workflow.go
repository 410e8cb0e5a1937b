// Package receiving drives the intake form: an optional source product is
// selected from the table, then a new product is built from the form and
// appended to the store.
package receiving

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/forms"
	"github.com/spatrac/spatrac/internal/store"
)

var ErrUnknownProduct = errors.New("unknown product")

// Session is the single selection slot. The zero value means no product is
// selected.
type Session struct {
	SelectedID string
}

func (s Session) Selected() bool { return s.SelectedID != "" }

type Workflow struct {
	store      *store.Store
	now        func() time.Time
	newID      func() string
	newBarcode func() string
}

type Option func(*Workflow)

func WithClock(now func() time.Time) Option { return func(w *Workflow) { w.now = now } }
func WithIDs(newID func() string) Option { return func(w *Workflow) { w.newID = newID } }
func WithBarcodes(gen func() string) Option { return func(w *Workflow) { w.newBarcode = gen } }

func New(st *store.Store, opts ...Option) *Workflow {
	w := &Workflow{
		store:      st,
		now:        time.Now,
		newID:      uuid.NewString,
		newBarcode: products.NewBarcode,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Select moves the session into the selected state and returns the form
// pre-filled with the source product name.
func (w *Workflow) Select(s *Session, productID string) (forms.ReceiveForm, error) {
	p, ok := w.store.ProductByID(productID)
	if !ok {
		return forms.ReceiveForm{}, ErrUnknownProduct
	}
	s.SelectedID = p.ID
	return forms.ReceiveForm{Name: p.Name}, nil
}

func (w *Workflow) Clear(s *Session) { s.SelectedID = "" }

// Submit validates f and, on success, appends the new product and clears the
// selection. On validation failure the session and the store are unchanged.
func (w *Workflow) Submit(s *Session, f forms.ReceiveForm) (products.Product, forms.Errors) {
	if errs := f.Validate(); !errs.OK() {
		return products.Product{}, errs
	}
	p := products.Product{
		ID:          w.newID(),
		Barcode:     w.newBarcode(),
		Name:        f.Name,
		Temperature: *f.Temperature,
		ReceivedAt:  w.now(),
		ReceivedBy:  f.ReceivedBy,
	}
	if src, ok := w.store.ProductByID(s.SelectedID); ok && s.Selected() {
		p.SupplierCode = src.SupplierCode
		p.SupplierName = src.SupplierName
		p.ProductCode = src.ProductCode
		p.EAN = src.EAN
		p.Department = src.Department
		p.ParentProductID = src.ID
	}
	w.store.AddProduct(p)
	w.Clear(s)
	return p, nil
}
