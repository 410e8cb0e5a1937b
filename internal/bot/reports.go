package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/spatrac/spatrac/internal/dialog"
	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/reports"
)

func (b *Bot) showDashboard(chatID int64) {
	m := tgbotapi.NewMessage(chatID, renderDashboard(reports.BuildDashboard(b.store.Snapshot())))
	m.ReplyMarkup = mainReplyKeyboard()
	b.send(m)
}

func reportsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		departmentRow("rep:dept:", true),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 Export .xlsx", "rep:export"),
		),
	)
}

func reportDepartment(p dialog.Payload) products.Department {
	s, _ := dialog.GetString(p, "dept")
	return products.Department(s)
}

func (b *Bot) showReports(ctx context.Context, chatID int64, editMID *int) {
	st, _ := b.states.Get(ctx, chatID)
	dept := reportDepartment(st.Payload)
	snap := b.store.Snapshot()
	text := renderReport(dept,
		reports.CountByDepartment(snap.Products),
		reports.Rows(snap, dept),
		reports.RecipeSummaries(snap.Recipes),
	)
	b.sendOrEdit(chatID, editMID, text, reportsKeyboard())
}

func (b *Bot) handleReportsCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	st, _ := b.states.Get(ctx, chatID)

	switch {
	case strings.HasPrefix(action, "dept:"):
		dept, err := reports.ParseFilter(strings.TrimPrefix(action, "dept:"))
		if err != nil {
			_ = b.answerCallback(cb, "Unknown department", false)
			return
		}
		_ = b.states.Set(ctx, chatID, dialog.StateReports, dialog.Payload{"dept": string(dept)})
		b.showReports(ctx, chatID, &mid)

	case action == "export":
		dept := reportDepartment(st.Payload)
		data, err := reports.ExportXLSX(reports.Rows(b.store.Snapshot(), dept))
		if err != nil {
			b.log.Error("report export failed", "err", err)
			_ = b.answerCallback(cb, "Export failed", true)
			return
		}
		name := "all"
		if dept != "" {
			name = string(dept)
		}
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  fmt.Sprintf("report_%s_%s.xlsx", name, time.Now().Format("20060102_150405")),
			Bytes: data,
		})
		doc.Caption = "Product report"
		b.send(doc)
	}
	_ = b.answerCallback(cb, "", false)
}
