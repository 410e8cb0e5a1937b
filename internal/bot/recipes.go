package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/spatrac/spatrac/internal/dialog"
	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/domain/recipes"
	"github.com/spatrac/spatrac/internal/forms"
)

func (b *Bot) showRecipes(chatID int64, editMID *int) {
	snap := b.store.Snapshot()
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ New recipe", "rcp:new"),
		),
	)
	b.sendOrEdit(chatID, editMID, renderRecipes(snap.Recipes, recipes.IndexProducts(snap.Products)), kb)
}

func draftIngredients(p dialog.Payload) []forms.IngredientInput {
	ings, _ := p["ings"].([]forms.IngredientInput)
	return ings
}

func (b *Bot) askIngredientProduct(chatID int64, editMID *int) {
	text := "Pick the ingredient product, or send its product id."
	b.sendOrEdit(chatID, editMID, text, productPickKeyboard(b.store.Products(), "rcp:prod:"))
}

func (b *Bot) handleRecipeCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	st, _ := b.states.Get(ctx, chatID)
	p := st.Payload

	switch {
	case action == "new":
		_ = b.states.Set(ctx, chatID, dialog.StateRecipeName, dialog.Payload{})
		b.editTextWithNav(chatID, mid, "Recipe name:")

	case strings.HasPrefix(action, "dept:"):
		if st.State != dialog.StateRecipeDept {
			break
		}
		d := products.ParseDepartment(strings.TrimPrefix(action, "dept:"))
		if !d.Valid() {
			_ = b.answerCallback(cb, "Unknown department", false)
			return
		}
		p["dept"] = string(d)
		_ = b.states.Set(ctx, chatID, dialog.StateRecipeIngProduct, p)
		b.askIngredientProduct(chatID, &mid)

	case strings.HasPrefix(action, "prod:"):
		if st.State != dialog.StateRecipeIngProduct {
			break
		}
		id := strings.TrimPrefix(action, "prod:")
		p["ing_product"] = id
		p["ing_desc"] = ""
		if prod, ok := b.store.ProductByID(id); ok {
			p["ing_desc"] = prod.Name
		}
		_ = b.states.Set(ctx, chatID, dialog.StateRecipeIngQty, p)
		b.editTextWithNav(chatID, mid, "Quantity:")

	case strings.HasPrefix(action, "unit:"):
		if st.State != dialog.StateRecipeIngUnit {
			break
		}
		b.addIngredient(ctx, chatID, &mid, p, recipes.Unit(strings.TrimPrefix(action, "unit:")))

	case action == "more":
		if st.State != dialog.StateRecipeIngMore {
			break
		}
		_ = b.states.Set(ctx, chatID, dialog.StateRecipeIngProduct, p)
		b.askIngredientProduct(chatID, &mid)

	case action == "instr":
		if st.State != dialog.StateRecipeIngMore {
			break
		}
		_ = b.states.Set(ctx, chatID, dialog.StateRecipeInstructions, p)
		b.editTextWithNav(chatID, mid, "Send the preparation instructions.")
	}
	_ = b.answerCallback(cb, "", false)
}

func (b *Bot) onRecipeName(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	if m, bad := (forms.RecipeForm{Name: text}).Validate()["name"]; bad {
		b.sendText(chatID, m)
		return
	}
	st.Payload["name"] = text
	_ = b.states.Set(ctx, chatID, dialog.StateRecipeDept, st.Payload)
	b.sendOrEdit(chatID, nil, "Department:", departmentKeyboard("rcp:dept:"))
}

// A typed id may point at a product that was never received.
func (b *Bot) onRecipeIngProductText(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	if text == "" {
		b.sendText(chatID, "Ingredient product is required")
		return
	}
	st.Payload["ing_product"] = text
	st.Payload["ing_desc"] = ""
	if prod, ok := b.store.ProductByID(text); ok {
		st.Payload["ing_desc"] = prod.Name
	}
	_ = b.states.Set(ctx, chatID, dialog.StateRecipeIngQty, st.Payload)
	b.sendOrEdit(chatID, nil, "Quantity:", navKeyboard(true, true))
}

func (b *Bot) onRecipeIngQty(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	v, ok := forms.ParseNumber(text)
	if !ok {
		b.sendText(chatID, "Quantity must be a number")
		return
	}
	if m, bad := (forms.IngredientInput{Quantity: v}).Validate()["quantity"]; bad {
		b.sendText(chatID, m)
		return
	}
	st.Payload["ing_qty"] = v
	_ = b.states.Set(ctx, chatID, dialog.StateRecipeIngUnit, st.Payload)
	b.sendOrEdit(chatID, nil, "Unit:", unitKeyboard())
}

func (b *Bot) addIngredient(ctx context.Context, chatID int64, mid *int, p dialog.Payload, unit recipes.Unit) {
	id, _ := dialog.GetString(p, "ing_product")
	desc, _ := dialog.GetString(p, "ing_desc")
	qty, _ := dialog.GetFloat(p, "ing_qty")
	in := forms.IngredientInput{ProductID: id, Description: desc, Quantity: qty, Unit: unit}
	if errs := in.Validate(); !errs.OK() {
		b.sendText(chatID, errs.First("productId", "quantity", "unit"))
		return
	}

	old := draftIngredients(p)
	ings := make([]forms.IngredientInput, 0, len(old)+1)
	ings = append(ings, old...)
	ings = append(ings, in)
	p["ings"] = ings
	delete(p, "ing_product")
	delete(p, "ing_desc")
	delete(p, "ing_qty")
	_ = b.states.Set(ctx, chatID, dialog.StateRecipeIngMore, p)

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add ingredient", "rcp:more"),
			tgbotapi.NewInlineKeyboardButtonData("➡️ Continue", "rcp:instr"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
	b.sendOrEdit(chatID, mid, renderIngredientDraft(ings), kb)
}

func (b *Bot) onRecipeInstructions(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	p := st.Payload
	name, _ := dialog.GetString(p, "name")
	dept, _ := dialog.GetString(p, "dept")
	form := forms.RecipeForm{
		Name:         name,
		Department:   products.Department(dept),
		Instructions: text,
		Ingredients:  draftIngredients(p),
	}
	if errs := form.Validate(); !errs.OK() {
		b.sendText(chatID, errs.First("name", "department", "ingredients", "instructions"))
		return
	}

	r := recipes.Recipe{
		ID:          uuid.NewString(),
		Name:        form.Name,
		RecipeCode:  form.RecipeCode,
		Department:  form.Department,
		Recipe:      form.Instructions,
		Ingredients: form.ToIngredients(),
	}
	b.store.AddRecipe(r)
	_ = b.states.Reset(ctx, chatID)
	b.sendText(chatID, "✅ Recipe saved: "+r.Name)
	b.showRecipes(chatID, nil)
}
