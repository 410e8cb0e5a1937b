package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/domain/recipes"
	"github.com/spatrac/spatrac/internal/domain/users"
)

func temp(v float64) *float64 { return &v }

func TestReceiveFormValid(t *testing.T) {
	f := ReceiveForm{Name: "Milk", Temperature: temp(4), ReceivedBy: "Sam"}
	assert.True(t, f.Validate().OK())

	f.Temperature = temp(-30)
	assert.True(t, f.Validate().OK())
	f.Temperature = temp(40)
	assert.True(t, f.Validate().OK())
}

func TestReceiveFormErrors(t *testing.T) {
	errs := ReceiveForm{}.Validate()
	require.False(t, errs.OK())
	assert.Equal(t, "Product name is required", errs["name"])
	assert.Equal(t, "Temperature is required", errs["temperature"])
	assert.Equal(t, "Receiver name is required", errs["receivedBy"])

	for _, v := range []float64{-30.5, 40.1, 100} {
		errs = ReceiveForm{Name: "Milk", Temperature: temp(v), ReceivedBy: "Sam"}.Validate()
		assert.Equal(t, Errors{"temperature": "Temperature must be between -30 and 40"}, errs, "temp %v", v)
	}
}

func TestRecipeForm(t *testing.T) {
	f := RecipeForm{
		Name:         "Beef Pie",
		Department:   products.DeptBakery,
		Instructions: "Bake",
		Ingredients: []IngredientInput{
			{ProductID: "P1", Quantity: 250, Unit: recipes.UnitG},
			{ProductID: "P2", Quantity: 1, Unit: recipes.UnitUnit},
		},
	}
	require.True(t, f.Validate().OK())

	ings := f.ToIngredients()
	require.Len(t, ings, 2)
	assert.Equal(t, "P2", ings[1].ProductID)

	f.Ingredients[1].Quantity = 0
	f.Ingredients[0].Unit = ""
	errs := f.Validate()
	assert.Equal(t, "Quantity must be greater than 0", errs["ingredients[1].quantity"])
	assert.Equal(t, "Unit is required", errs["ingredients[0].unit"])
}

func TestRecipeFormRequiredFields(t *testing.T) {
	errs := RecipeForm{Department: "deli"}.Validate()
	assert.Equal(t, "Recipe name is required", errs["name"])
	assert.Equal(t, "Department must be butchery, bakery or hmr", errs["department"])
	assert.Equal(t, "Instructions are required", errs["instructions"])
	assert.Equal(t, "At least one ingredient is required", errs["ingredients"])
}

func TestTransferForm(t *testing.T) {
	staff := users.Seed()

	ok := TransferForm{ProductID: "p1", Department: products.DeptHMR, ManagerID: "2"}
	assert.True(t, ok.Validate(staff).OK())

	notManager := TransferForm{ProductID: "p1", Department: products.DeptHMR, ManagerID: "1"}
	assert.Equal(t, Errors{"manager": "Selected user is not a manager"}, notManager.Validate(staff))

	errs := TransferForm{}.Validate(staff)
	assert.Equal(t, "Product is required", errs["product"])
	assert.Equal(t, "Department is required", errs["department"])
	assert.Equal(t, "Manager is required", errs["manager"])
}

func TestParseNumber(t *testing.T) {
	v, ok := ParseNumber(" 3,5 ")
	require.True(t, ok)
	assert.Equal(t, 3.5, v)

	v, ok = ParseNumber("-12")
	require.True(t, ok)
	assert.Equal(t, -12.0, v)

	_, ok = ParseNumber("cold")
	assert.False(t, ok)
	_, ok = ParseNumber("")
	assert.False(t, ok)
}

func TestErrorsFirst(t *testing.T) {
	errs := Errors{"b": "second", "a": "first"}
	assert.Equal(t, "first", errs.First("a", "b"))
	assert.Equal(t, "", Errors{}.First("a"))
}

func TestIngredientInputValidate(t *testing.T) {
	assert.True(t, IngredientInput{ProductID: "P1", Quantity: 1, Unit: recipes.UnitUnit}.Validate().OK())
	errs := IngredientInput{ProductID: "P1", Quantity: -2, Unit: recipes.UnitG}.Validate()
	assert.Equal(t, Errors{"quantity": "Quantity must be greater than 0"}, errs)
}
