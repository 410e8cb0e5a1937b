// Package store is the single in-memory source of truth for products,
// recipes and staff. Every mutation publishes a new immutable Snapshot and
// then notifies subscribers synchronously.
package store

import (
	"sync"
	"sync/atomic"

	"github.com/asaskevich/EventBus"

	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/domain/recipes"
	"github.com/spatrac/spatrac/internal/domain/users"
)

const (
	TopicProducts = "store:products"
	TopicRecipes  = "store:recipes"
)

type Op string

const (
	OpAddProduct      Op = "add_product"
	OpImportProducts  Op = "import_products"
	OpTransferProduct Op = "transfer_product"
	OpAddRecipe       Op = "add_recipe"
	OpImportRecipes   Op = "import_recipes"
)

// Snapshot must be treated as read-only by every reader.
type Snapshot struct {
	Products []products.Product
	Recipes  []recipes.Recipe
	Users    []users.User
	Version  uint64
}

// Change is handed to subscribers after the snapshot has been swapped.
type Change struct {
	Op        Op
	Count     int
	ProductID string
	Snapshot  *Snapshot
}

type Option func(*Snapshot)

// WithUsers replaces the default staff seed.
func WithUsers(list []users.User) Option {
	return func(s *Snapshot) { s.Users = append([]users.User(nil), list...) }
}

type Store struct {
	mu   sync.Mutex // serialises writers; readers use snap
	snap atomic.Pointer[Snapshot]
	bus  EventBus.Bus
}

func New(opts ...Option) *Store {
	s := &Snapshot{
		Products: []products.Product{},
		Recipes:  []recipes.Recipe{},
		Users:    users.Seed(),
	}
	for _, o := range opts {
		o(s)
	}
	st := &Store{bus: EventBus.New()}
	st.snap.Store(s)
	return st
}

func (s *Store) Snapshot() *Snapshot { return s.snap.Load() }

func (s *Store) Products() []products.Product { return s.Snapshot().Products }
func (s *Store) Recipes() []recipes.Recipe    { return s.Snapshot().Recipes }
func (s *Store) Users() []users.User          { return s.Snapshot().Users }

// Subscribe registers fn for TopicProducts or TopicRecipes. Handlers run on
// the mutating goroutine and must not mutate the store themselves.
func (s *Store) Subscribe(topic string, fn func(Change)) error {
	return s.bus.Subscribe(topic, fn)
}

func (s *Store) AddProduct(p products.Product) {
	s.appendProducts(OpAddProduct, []products.Product{p})
}

// ImportProducts appends in order; it is the same as calling AddProduct for
// each element.
func (s *Store) ImportProducts(list []products.Product) {
	s.appendProducts(OpImportProducts, list)
}

func (s *Store) appendProducts(op Op, list []products.Product) {
	if len(list) == 0 {
		return
	}
	next := s.mutate(func(cur *Snapshot) *Snapshot {
		ps := make([]products.Product, 0, len(cur.Products)+len(list))
		ps = append(ps, cur.Products...)
		ps = append(ps, list...)
		return &Snapshot{Products: ps, Recipes: cur.Recipes, Users: cur.Users}
	})
	s.bus.Publish(TopicProducts, Change{Op: op, Count: len(list), Snapshot: next})
}

func (s *Store) AddRecipe(r recipes.Recipe) {
	s.appendRecipes(OpAddRecipe, []recipes.Recipe{r})
}

func (s *Store) ImportRecipes(list []recipes.Recipe) {
	s.appendRecipes(OpImportRecipes, list)
}

func (s *Store) appendRecipes(op Op, list []recipes.Recipe) {
	if len(list) == 0 {
		return
	}
	next := s.mutate(func(cur *Snapshot) *Snapshot {
		rs := make([]recipes.Recipe, 0, len(cur.Recipes)+len(list))
		rs = append(rs, cur.Recipes...)
		for _, r := range list {
			rs = append(rs, r.Clone())
		}
		return &Snapshot{Products: cur.Products, Recipes: rs, Users: cur.Users}
	})
	s.bus.Publish(TopicRecipes, Change{Op: op, Count: len(list), Snapshot: next})
}

// TransferProduct assigns a department and the handling manager to the
// product with the given id. Unknown ids leave the store untouched and
// return false.
func (s *Store) TransferProduct(productID string, dept products.Department, managerID string) bool {
	var found bool
	next := s.mutate(func(cur *Snapshot) *Snapshot {
		idx := indexOf(cur.Products, productID)
		if idx < 0 {
			return nil
		}
		found = true
		ps := make([]products.Product, len(cur.Products))
		copy(ps, cur.Products)
		ps[idx].Department = dept
		ps[idx].LastHandledBy = managerID
		return &Snapshot{Products: ps, Recipes: cur.Recipes, Users: cur.Users}
	})
	if !found {
		return false
	}
	s.bus.Publish(TopicProducts, Change{Op: OpTransferProduct, Count: 1, ProductID: productID, Snapshot: next})
	return true
}

func (s *Store) ProductByID(id string) (products.Product, bool) {
	list := s.Products()
	if i := indexOf(list, id); i >= 0 {
		return list[i], true
	}
	return products.Product{}, false
}

func (s *Store) RecipeByID(id string) (recipes.Recipe, bool) {
	for _, r := range s.Recipes() {
		if r.ID == id {
			return r, true
		}
	}
	return recipes.Recipe{}, false
}

func (s *Store) Managers() []users.User { return users.Managers(s.Users()) }

// mutate applies fn under the writer lock. A nil result means no change.
func (s *Store) mutate(fn func(cur *Snapshot) *Snapshot) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snap.Load()
	next := fn(cur)
	if next == nil {
		return cur
	}
	next.Version = cur.Version + 1
	s.snap.Store(next)
	return next
}

func indexOf(list []products.Product, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
