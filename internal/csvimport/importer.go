// Package csvimport maps the products and recipes spreadsheets (CSV or XLSX)
// onto domain objects and hands them to the store. Each file is imported on
// its own: a failure leaves the store as it was before that file.
package csvimport

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/domain/recipes"
	"github.com/spatrac/spatrac/internal/store"
)

type Kind string

const (
	KindProducts Kind = "products"
	KindRecipes  Kind = "recipes"
)

// Result is reported once per file.
type Result struct {
	Kind    Kind
	Success bool
	Message string
	Count   int
}

// Observer is told about every finished import, e.g. to count records.
type Observer func(kind Kind, success bool, count int)

type Importer struct {
	store    *store.Store
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
	observer Observer
}

type Option func(*Importer)

func WithClock(now func() time.Time) Option { return func(im *Importer) { im.now = now } }
func WithIDs(newID func() string) Option { return func(im *Importer) { im.newID = newID } }
func WithObserver(o Observer) Option { return func(im *Importer) { im.observer = o } }

func New(st *store.Store, log *slog.Logger, opts ...Option) *Importer {
	im := &Importer{
		store: st,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(im)
	}
	return im
}

// ParseProducts decodes a products file without touching the store. All
// rows share one import timestamp.
func (im *Importer) ParseProducts(u Upload) ([]products.Product, error) {
	var recs []*productRecord
	if err := decode(u, productHeaders, &recs); err != nil {
		return nil, err
	}
	at := im.now()
	out := make([]products.Product, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.product(im.newID(), at))
	}
	return out, nil
}

func (im *Importer) ParseRecipes(u Upload) ([]recipes.Recipe, error) {
	var recs []*recipeRecord
	if err := decode(u, recipeHeaders, &recs); err != nil {
		return nil, err
	}
	out := make([]recipes.Recipe, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.recipe(im.newID()))
	}
	return out, nil
}

func (im *Importer) ImportProducts(u Upload) Result {
	list, err := im.ParseProducts(u)
	if err == nil {
		im.store.ImportProducts(list)
	}
	return im.finish(KindProducts, u.Name, len(list), err)
}

func (im *Importer) ImportRecipes(u Upload) Result {
	list, err := im.ParseRecipes(u)
	if err == nil {
		im.store.ImportRecipes(list)
	}
	return im.finish(KindRecipes, u.Name, len(list), err)
}

// ImportFiles runs the products import and then the recipes import; either
// may be nil. A failure in one does not affect the other.
func (im *Importer) ImportFiles(productsFile, recipesFile *Upload) []Result {
	var out []Result
	if productsFile != nil {
		out = append(out, im.ImportProducts(*productsFile))
	}
	if recipesFile != nil {
		out = append(out, im.ImportRecipes(*recipesFile))
	}
	return out
}

// ImportPath imports a file from disk, used for startup seeding.
func (im *Importer) ImportPath(kind Kind, path string) Result {
	f, err := os.Open(path)
	if err != nil {
		return im.finish(kind, path, 0, fmt.Errorf("open: %w", err))
	}
	defer func() { _ = f.Close() }()

	u := Upload{Name: path, Body: f}
	if kind == KindRecipes {
		return im.ImportRecipes(u)
	}
	return im.ImportProducts(u)
}

func (im *Importer) finish(kind Kind, name string, n int, err error) Result {
	if err != nil {
		im.log.Warn("import failed", "kind", kind, "file", name, "err", err)
		if im.observer != nil {
			im.observer(kind, false, 0)
		}
		return Result{Kind: kind, Message: fmt.Sprintf("Error importing %s: %v", kind, err)}
	}
	im.log.Info("import done", "kind", kind, "file", name, "count", n)
	if im.observer != nil {
		im.observer(kind, true, n)
	}
	return Result{
		Kind:    kind,
		Success: true,
		Message: fmt.Sprintf("Successfully imported %d %s", n, kind),
		Count:   n,
	}
}
