// Package forms validates the receiving, recipe and transfer forms before
// anything reaches the store.
package forms

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/domain/recipes"
	"github.com/spatrac/spatrac/internal/domain/users"
)

const (
	TempMin = -30.0
	TempMax = 40.0
)

// Errors maps a form field (e.g. "temperature", "ingredients[1].quantity") to
// the message shown next to it. A nil or empty Errors means the form is valid.
type Errors map[string]string

func (e Errors) OK() bool { return len(e) == 0 }

// First returns one message in a stable order, for views that can show a
// single line only.
func (e Errors) First(order ...string) string {
	for _, k := range order {
		if m, ok := e[k]; ok {
			return m
		}
	}
	for _, m := range e {
		return m
	}
	return ""
}

type ReceiveForm struct {
	Name        string   `form:"name" validate:"required"`
	Temperature *float64 `form:"temperature" validate:"required,gte=-30,lte=40"`
	ReceivedBy  string   `form:"receivedBy" validate:"required"`
}

type IngredientInput struct {
	ProductID   string       `form:"productId" validate:"required"`
	Description string       `form:"description"`
	Quantity    float64      `form:"quantity" validate:"gt=0"`
	Unit        recipes.Unit `form:"unit" validate:"required"`
	PackDeliver string       `form:"packDeliver"`
}

type RecipeForm struct {
	Name         string              `form:"name" validate:"required"`
	RecipeCode   string              `form:"recipeCode"`
	Department   products.Department `form:"department" validate:"required,department"`
	Instructions string              `form:"instructions" validate:"required"`
	Ingredients  []IngredientInput   `form:"ingredients" validate:"min=1,dive"`
}

type TransferForm struct {
	ProductID  string              `form:"product" validate:"required"`
	Department products.Department `form:"department" validate:"required,department"`
	ManagerID  string              `form:"manager" validate:"required"`
}

var messages = map[string]string{
	"name.required":        "Product name is required",
	"temperature.required": "Temperature is required",
	"temperature.gte":      "Temperature must be between -30 and 40",
	"temperature.lte":      "Temperature must be between -30 and 40",
	"receivedBy.required":  "Receiver name is required",

	"department.required":   "Department is required",
	"department.department": "Department must be butchery, bakery or hmr",
	"instructions.required": "Instructions are required",
	"ingredients.min":       "At least one ingredient is required",
	"productId.required":    "Ingredient product is required",
	"quantity.gt":           "Quantity must be greater than 0",
	"unit.required":         "Unit is required",

	"product.required": "Product is required",
	"manager.required": "Manager is required",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return products.Department(fl.Field().String()).Valid()
	})
	return v
}

func (f ReceiveForm) Validate() Errors { return check(f) }

func (in IngredientInput) Validate() Errors { return check(in) }

func (f RecipeForm) Validate() Errors {
	errs := check(f)
	if m, ok := errs["name"]; ok && m == messages["name.required"] {
		errs["name"] = "Recipe name is required"
	}
	return errs
}

// Validate also requires the manager to exist in staff with the manager role.
func (f TransferForm) Validate(staff []users.User) Errors {
	errs := check(f)
	if _, ok := errs["manager"]; ok {
		return errs
	}
	if u, ok := users.FindByID(staff, f.ManagerID); !ok || u.Role != users.RoleManager {
		if errs == nil {
			errs = Errors{}
		}
		errs["manager"] = "Selected user is not a manager"
	}
	return errs
}

func check(s any) Errors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"": err.Error()}
	}
	out := Errors{}
	for _, fe := range verrs {
		key := fieldKey(fe.Namespace())
		if _, seen := out[key]; seen {
			continue
		}
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out[key] = msg
	}
	return out
}

// fieldKey drops the struct name: "RecipeForm.ingredients[0].unit" -> "ingredients[0].unit".
func fieldKey(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// ParseNumber accepts "3.5" and "3,5". ok is false for anything else.
func ParseNumber(raw string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ToIngredients converts validated inputs into recipe ingredients, keeping
// authoring order.
func (f RecipeForm) ToIngredients() []recipes.Ingredient {
	out := make([]recipes.Ingredient, 0, len(f.Ingredients))
	for _, in := range f.Ingredients {
		out = append(out, recipes.Ingredient{
			ProductID:   in.ProductID,
			Description: in.Description,
			Quantity:    in.Quantity,
			Unit:        in.Unit,
			PackDeliver: in.PackDeliver,
		})
	}
	return out
}
