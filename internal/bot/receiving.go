package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/spatrac/spatrac/internal/dialog"
	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/forms"
	"github.com/spatrac/spatrac/internal/receiving"
)

// Filter fields a user can type a value for.
var filterFields = map[string]string{
	"description": "product description",
	"code":        "product code",
	"supplier":    "supplier name",
	"suppcode":    "supplier code",
}

func filterFromPayload(p dialog.Payload) products.Filter {
	get := func(k string) string { s, _ := dialog.GetString(p, "f:"+k); return s }
	return products.Filter{
		Description:  get("description"),
		Department:   products.Department(get("department")),
		ProductCode:  get("code"),
		SupplierName: get("supplier"),
		SupplierCode: get("suppcode"),
	}
}

func clearFilter(p dialog.Payload) {
	for k := range p {
		if strings.HasPrefix(k, "f:") {
			delete(p, k)
		}
	}
}

func receivingKeyboard(list []products.Product, selected bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for i := 0; i < len(list) && i < maxPickButtons; i++ {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("☑️ "+productButtonLabel(list[i]), "recv:sel:"+list[i].ID),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔎 Description", "recv:filter:description"),
			tgbotapi.NewInlineKeyboardButtonData("🔎 Code", "recv:filter:code"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔎 Supplier", "recv:filter:supplier"),
			tgbotapi.NewInlineKeyboardButtonData("🔎 Supp. code", "recv:filter:suppcode"),
		),
		departmentRow("recv:dept:", true),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("♻️ Reset filters", "recv:reset"),
		),
	)
	last := tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Receive product", "recv:new"))
	if selected {
		last = append(last, tgbotapi.NewInlineKeyboardButtonData("✖️ Clear selection", "recv:clear"))
	}
	rows = append(rows, last)
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (b *Bot) showReceiving(ctx context.Context, chatID int64, editMID *int) {
	st, _ := b.states.Get(ctx, chatID)
	f := filterFromPayload(st.Payload)
	list := f.Apply(b.store.Products())

	var selected *products.Product
	if id, ok := dialog.GetString(st.Payload, "sel"); ok && id != "" {
		if p, ok := b.store.ProductByID(id); ok {
			selected = &p
		}
	}
	b.sendOrEdit(chatID, editMID, renderReceiving(f, list, selected), receivingKeyboard(list, selected != nil))
}

func (b *Bot) handleReceivingCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	st, _ := b.states.Get(ctx, chatID)
	p := st.Payload

	switch {
	case strings.HasPrefix(action, "filter:"):
		field := strings.TrimPrefix(action, "filter:")
		label, ok := filterFields[field]
		if !ok {
			_ = b.answerCallback(cb, "Unknown filter", false)
			return
		}
		p["field"] = field
		_ = b.states.Set(ctx, chatID, dialog.StateRecvFilter, p)
		b.editTextWithNav(chatID, mid, fmt.Sprintf("Send the %s to search for, or “-” to clear it.", label))

	case strings.HasPrefix(action, "dept:"):
		d := strings.TrimPrefix(action, "dept:")
		if d == "all" {
			delete(p, "f:department")
		} else {
			p["f:department"] = d
		}
		_ = b.states.Set(ctx, chatID, dialog.StateRecvMenu, p)
		b.showReceiving(ctx, chatID, &mid)

	case action == "reset":
		clearFilter(p)
		_ = b.states.Set(ctx, chatID, dialog.StateRecvMenu, p)
		b.showReceiving(ctx, chatID, &mid)

	case strings.HasPrefix(action, "sel:"):
		var s receiving.Session
		form, err := b.recv.Select(&s, strings.TrimPrefix(action, "sel:"))
		if err != nil {
			_ = b.answerCallback(cb, "Product not found", true)
			return
		}
		p["sel"] = s.SelectedID
		p["name"] = form.Name
		_ = b.states.Set(ctx, chatID, dialog.StateRecvName, p)
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✔️ Keep name", "recv:keep"),
				tgbotapi.NewInlineKeyboardButtonData("✖️ Clear selection", "recv:clear"),
			),
			navKeyboard(true, true).InlineKeyboard[0],
		)
		b.sendOrEdit(chatID, &mid, fmt.Sprintf("Product name: %s\nSend a new name or keep this one.", form.Name), kb)

	case action == "keep":
		_ = b.states.Set(ctx, chatID, dialog.StateRecvTemp, p)
		b.editTextWithNav(chatID, mid, "Temperature at intake, °C:")

	case action == "clear":
		sel, _ := dialog.GetString(p, "sel")
		s := receiving.Session{SelectedID: sel}
		b.recv.Clear(&s)
		delete(p, "sel")
		delete(p, "name")
		_ = b.states.Set(ctx, chatID, dialog.StateRecvMenu, p)
		b.showReceiving(ctx, chatID, &mid)

	case action == "new":
		delete(p, "name")
		_ = b.states.Set(ctx, chatID, dialog.StateRecvName, p)
		b.editTextWithNav(chatID, mid, "Product name:")
	}
	_ = b.answerCallback(cb, "", false)
}

func (b *Bot) onFilterInput(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	p := st.Payload
	field, _ := dialog.GetString(p, "field")
	delete(p, "field")
	if text == "-" || text == "" {
		delete(p, "f:"+field)
	} else {
		p["f:"+field] = text
	}
	_ = b.states.Set(ctx, chatID, dialog.StateRecvMenu, p)
	b.showReceiving(ctx, chatID, nil)
}

func (b *Bot) onReceiveName(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	if m, bad := (forms.ReceiveForm{Name: text}).Validate()["name"]; bad {
		b.sendText(chatID, m)
		return
	}
	st.Payload["name"] = text
	_ = b.states.Set(ctx, chatID, dialog.StateRecvTemp, st.Payload)
	m := tgbotapi.NewMessage(chatID, "Temperature at intake, °C:")
	m.ReplyMarkup = navKeyboard(true, true)
	b.send(m)
}

func (b *Bot) onReceiveTemp(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	v, ok := forms.ParseNumber(text)
	if !ok {
		b.sendText(chatID, "Temperature must be a number, e.g. 3.5")
		return
	}
	if m, bad := (forms.ReceiveForm{Temperature: &v}).Validate()["temperature"]; bad {
		b.sendText(chatID, m)
		return
	}
	st.Payload["temp"] = v
	_ = b.states.Set(ctx, chatID, dialog.StateRecvBy, st.Payload)
	m := tgbotapi.NewMessage(chatID, "Received by:")
	m.ReplyMarkup = navKeyboard(true, true)
	b.send(m)
}

func (b *Bot) onReceiveBy(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	p := st.Payload
	name, _ := dialog.GetString(p, "name")
	sel, _ := dialog.GetString(p, "sel")
	form := forms.ReceiveForm{Name: name, ReceivedBy: text}
	if v, ok := dialog.GetFloat(p, "temp"); ok {
		form.Temperature = &v
	}

	session := receiving.Session{SelectedID: sel}
	prod, errs := b.recv.Submit(&session, form)
	if !errs.OK() {
		b.sendText(chatID, errs.First("name", "temperature", "receivedBy"))
		return
	}

	delete(p, "sel")
	delete(p, "name")
	delete(p, "temp")
	_ = b.states.Set(ctx, chatID, dialog.StateRecvMenu, p)
	b.sendText(chatID, fmt.Sprintf("✅ Received %s\nBarcode: %s\nTemperature: %s°C", prod.Name, prod.Barcode, formatNum(prod.Temperature)))
	b.showReceiving(ctx, chatID, nil)
}
