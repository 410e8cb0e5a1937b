package recipes

import "github.com/spatrac/spatrac/internal/domain/products"

// ProductIndex resolves ingredient references against a product list.
type ProductIndex map[string]products.Product

func IndexProducts(list []products.Product) ProductIndex {
	idx := make(ProductIndex, len(list))
	for _, p := range list {
		idx[p.ID] = p
	}
	return idx
}

// Resolve reports ok=false for dangling references.
func (idx ProductIndex) Resolve(in Ingredient) (products.Product, bool) {
	p, ok := idx[in.ProductID]
	return p, ok
}

// ResolvedIngredient pairs an ingredient with its product name; Name is
// empty when the product is unknown.
type ResolvedIngredient struct {
	Ingredient
	Name  string
	Found bool
}

func (idx ProductIndex) ResolveAll(r Recipe) []ResolvedIngredient {
	out := make([]ResolvedIngredient, 0, len(r.Ingredients))
	for _, in := range r.Ingredients {
		p, ok := idx.Resolve(in)
		out = append(out, ResolvedIngredient{Ingredient: in, Name: p.Name, Found: ok})
	}
	return out
}
