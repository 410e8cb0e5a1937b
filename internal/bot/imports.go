package bot

import (
	"bytes"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/spatrac/spatrac/internal/csvimport"
	"github.com/spatrac/spatrac/internal/dialog"
)

const importHelp = "📥 Import data\n\n" +
	"Products columns: Product Description | Supp. Cd. | Supplier Name | Product Code | EAN | Sub-Department | Size\n\n" +
	"Recipes columns: Department | Final Product Code | Final Product Name | Ingredient Prod Code | Ingredient Description | Pack Deliver | Weight | Recipe\n\n" +
	"CSV or .xlsx files are accepted. Choose what to upload:"

func (b *Bot) showImportMenu(chatID int64, editMID *int) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Products file", "imp:products"),
			tgbotapi.NewInlineKeyboardButtonData("Recipes file", "imp:recipes"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
	b.sendOrEdit(chatID, editMID, importHelp, kb)
}

func (b *Bot) handleImportCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	switch action {
	case "products":
		_ = b.states.Set(ctx, chatID, dialog.StateImportProducts, dialog.Payload{})
		b.editTextWithNav(chatID, mid, "Send the products file (.csv or .xlsx).")
	case "recipes":
		_ = b.states.Set(ctx, chatID, dialog.StateImportRecipes, dialog.Payload{})
		b.editTextWithNav(chatID, mid, "Send the recipes file (.csv or .xlsx).")
	}
	_ = b.answerCallback(cb, "", false)
}

func (b *Bot) onImportFile(ctx context.Context, chatID int64, st *dialog.Item, doc *tgbotapi.Document) {
	if doc == nil {
		b.sendText(chatID, "Please send the file as a document.")
		return
	}
	data, err := b.downloadTelegramFile(doc.FileID)
	if err != nil {
		b.sendText(chatID, "Could not download the file from Telegram: "+err.Error())
		return
	}

	up := &csvimport.Upload{Name: doc.FileName, Body: bytes.NewReader(data)}
	var results []csvimport.Result
	if st.State == dialog.StateImportRecipes {
		results = b.importer.ImportFiles(nil, up)
	} else {
		results = b.importer.ImportFiles(up, nil)
	}

	_ = b.states.Set(ctx, chatID, dialog.StateImportMenu, dialog.Payload{})
	b.sendText(chatID, renderImportResults(results))
	b.showImportMenu(chatID, nil)
}
