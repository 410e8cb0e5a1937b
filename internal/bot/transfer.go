package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/spatrac/spatrac/internal/dialog"
	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/domain/users"
	"github.com/spatrac/spatrac/internal/forms"
)

func (b *Bot) startTransfer(ctx context.Context, chatID int64, editMID *int) {
	list := b.store.Products()
	if len(list) == 0 {
		_ = b.states.Reset(ctx, chatID)
		b.sendText(chatID, "No products to transfer yet.")
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateTransferProduct, dialog.Payload{})
	b.sendOrEdit(chatID, editMID, "🔁 Department transfer\nSelect the product:", productPickKeyboard(list, "tr:prod:"))
}

func (b *Bot) handleTransferCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	st, _ := b.states.Get(ctx, chatID)
	p := st.Payload

	switch {
	case strings.HasPrefix(action, "prod:"):
		p["product"] = strings.TrimPrefix(action, "prod:")
		_ = b.states.Set(ctx, chatID, dialog.StateTransferDept, p)
		b.sendOrEdit(chatID, &mid, "Choose the target department:", departmentKeyboard("tr:dept:"))

	case strings.HasPrefix(action, "dept:"):
		p["dept"] = strings.TrimPrefix(action, "dept:")
		managers := b.store.Managers()
		if len(managers) == 0 {
			_ = b.states.Reset(ctx, chatID)
			b.editTextAndClear(chatID, mid, "No managers are configured, transfer is not possible.")
			break
		}
		_ = b.states.Set(ctx, chatID, dialog.StateTransferManager, p)
		b.sendOrEdit(chatID, &mid, "Handled by manager:", managerKeyboard(managers))

	case strings.HasPrefix(action, "mgr:"):
		productID, _ := dialog.GetString(p, "product")
		dept, _ := dialog.GetString(p, "dept")
		form := forms.TransferForm{
			ProductID:  productID,
			Department: products.Department(dept),
			ManagerID:  strings.TrimPrefix(action, "mgr:"),
		}
		staff := b.store.Users()
		if errs := form.Validate(staff); !errs.OK() {
			_ = b.answerCallback(cb, errs.First("product", "department", "manager"), true)
			return
		}

		_ = b.states.Reset(ctx, chatID)
		if !b.store.TransferProduct(form.ProductID, form.Department, form.ManagerID) {
			b.editTextAndClear(chatID, mid, "Product not found, nothing was changed.")
			break
		}
		prod, _ := b.store.ProductByID(form.ProductID)
		mgr, _ := users.FindByID(staff, form.ManagerID)
		b.editTextAndClear(chatID, mid, fmt.Sprintf("✅ %s (%s) moved to %s, handled by %s.",
			prod.Name, prod.Barcode, form.Department.Label(), mgr.Name))
	}
	_ = b.answerCallback(cb, "", false)
}
