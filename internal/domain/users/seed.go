package users

import "github.com/spatrac/spatrac/internal/domain/products"

// Seed is the staff list used when the config does not provide one.
func Seed() []User {
	return []User{
		{ID: "1", Name: "John Doe", Role: RoleAdmin},
		{ID: "2", Name: "Jane Smith", Role: RoleManager, Department: products.DeptButchery},
	}
}

// Managers keeps only users allowed to sign off a transfer.
func Managers(list []User) []User {
	out := []User{}
	for _, u := range list {
		if u.Role == RoleManager {
			out = append(out, u)
		}
	}
	return out
}

func FindByID(list []User, id string) (User, bool) {
	for _, u := range list {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
