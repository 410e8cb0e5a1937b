package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/spatrac/spatrac/internal/dialog"
)

const helpText = "Commands:\n/start — show the menu\n/cancel — abort the current step\n/help — this help"

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		_ = b.states.Reset(ctx, chatID)
		m := tgbotapi.NewMessage(chatID, "Supply chain tracking. Use the buttons below.")
		m.ReplyMarkup = mainReplyKeyboard()
		b.send(m)
	case "cancel":
		_ = b.states.Reset(ctx, chatID)
		b.sendText(chatID, "Operation cancelled.")
	case "help":
		b.sendText(chatID, helpText)
	default:
		b.sendText(chatID, "Unknown command. Type /help")
	}
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	// Bottom panel
	switch msg.Text {
	case btnDashboard:
		_ = b.states.Reset(ctx, chatID)
		b.showDashboard(chatID)
		return
	case btnReceiving:
		_ = b.states.Set(ctx, chatID, dialog.StateRecvMenu, dialog.Payload{})
		b.showReceiving(ctx, chatID, nil)
		return
	case btnRecipes:
		_ = b.states.Reset(ctx, chatID)
		b.showRecipes(chatID, nil)
		return
	case btnTransfer:
		b.startTransfer(ctx, chatID, nil)
		return
	case btnReports:
		_ = b.states.Set(ctx, chatID, dialog.StateReports, dialog.Payload{})
		b.showReports(ctx, chatID, nil)
		return
	case btnImport:
		_ = b.states.Set(ctx, chatID, dialog.StateImportMenu, dialog.Payload{})
		b.showImportMenu(chatID, nil)
		return
	}

	st, _ := b.states.Get(ctx, chatID)
	text := strings.TrimSpace(msg.Text)

	switch st.State {
	case dialog.StateRecvFilter:
		b.onFilterInput(ctx, chatID, st, text)
	case dialog.StateRecvName:
		b.onReceiveName(ctx, chatID, st, text)
	case dialog.StateRecvTemp:
		b.onReceiveTemp(ctx, chatID, st, text)
	case dialog.StateRecvBy:
		b.onReceiveBy(ctx, chatID, st, text)

	case dialog.StateRecipeName:
		b.onRecipeName(ctx, chatID, st, text)
	case dialog.StateRecipeIngProduct:
		b.onRecipeIngProductText(ctx, chatID, st, text)
	case dialog.StateRecipeIngQty:
		b.onRecipeIngQty(ctx, chatID, st, text)
	case dialog.StateRecipeInstructions:
		b.onRecipeInstructions(ctx, chatID, st, text)

	case dialog.StateImportProducts, dialog.StateImportRecipes:
		b.onImportFile(ctx, chatID, st, msg.Document)

	default:
		m := tgbotapi.NewMessage(chatID, "Choose a section on the keyboard below.")
		m.ReplyMarkup = mainReplyKeyboard()
		b.send(m)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	fromChat := cb.Message.Chat.ID
	mid := cb.Message.MessageID

	// Common navigation
	if data == "nav:cancel" {
		_ = b.states.Reset(ctx, fromChat)
		b.editTextAndClear(fromChat, mid, "Operation cancelled.")
		_ = b.answerCallback(cb, "Cancelled", false)
		return
	}
	if data == "nav:back" {
		b.navBack(ctx, fromChat, mid)
		_ = b.answerCallback(cb, "", false)
		return
	}

	switch {
	case strings.HasPrefix(data, "recv:"):
		b.handleReceivingCallback(ctx, cb, strings.TrimPrefix(data, "recv:"))
	case strings.HasPrefix(data, "rcp:"):
		b.handleRecipeCallback(ctx, cb, strings.TrimPrefix(data, "rcp:"))
	case strings.HasPrefix(data, "tr:"):
		b.handleTransferCallback(ctx, cb, strings.TrimPrefix(data, "tr:"))
	case strings.HasPrefix(data, "rep:"):
		b.handleReportsCallback(ctx, cb, strings.TrimPrefix(data, "rep:"))
	case strings.HasPrefix(data, "imp:"):
		b.handleImportCallback(ctx, cb, strings.TrimPrefix(data, "imp:"))
	default:
		_ = b.answerCallback(cb, "Unknown action", false)
	}
}

func (b *Bot) navBack(ctx context.Context, chatID int64, mid int) {
	st, _ := b.states.Get(ctx, chatID)
	switch st.State {
	case dialog.StateRecvFilter, dialog.StateRecvName, dialog.StateRecvTemp, dialog.StateRecvBy:
		_ = b.states.Set(ctx, chatID, dialog.StateRecvMenu, st.Payload)
		b.showReceiving(ctx, chatID, &mid)
	case dialog.StateRecipeName, dialog.StateRecipeDept, dialog.StateRecipeIngProduct,
		dialog.StateRecipeIngQty, dialog.StateRecipeIngUnit, dialog.StateRecipeIngMore,
		dialog.StateRecipeInstructions:
		_ = b.states.Reset(ctx, chatID)
		b.showRecipes(chatID, &mid)
	case dialog.StateTransferDept:
		b.startTransfer(ctx, chatID, &mid)
	case dialog.StateTransferManager:
		_ = b.states.Set(ctx, chatID, dialog.StateTransferDept, st.Payload)
		b.sendOrEdit(chatID, &mid, "Choose the target department:", departmentKeyboard("tr:dept:"))
	case dialog.StateImportProducts, dialog.StateImportRecipes:
		_ = b.states.Set(ctx, chatID, dialog.StateImportMenu, dialog.Payload{})
		b.showImportMenu(chatID, &mid)
	default:
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, mid, "Choose a section on the keyboard below.")
	}
}
