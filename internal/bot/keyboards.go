package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/domain/users"
)

const (
	btnDashboard = "📊 Dashboard"
	btnReceiving = "📦 Receiving"
	btnRecipes   = "🍲 Recipes"
	btnTransfer  = "🔁 Transfer"
	btnReports   = "📈 Reports"
	btnImport    = "📥 Import CSV"
)

func navKeyboard(back bool, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// mainReplyKeyboard Bottom panel with the feature views
func mainReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton(btnDashboard)},
			{tgbotapi.NewKeyboardButton(btnReceiving), tgbotapi.NewKeyboardButton(btnRecipes)},
			{tgbotapi.NewKeyboardButton(btnTransfer), tgbotapi.NewKeyboardButton(btnReports)},
			{tgbotapi.NewKeyboardButton(btnImport)},
		},
	}
}

// departmentRow builds one button per department with callback prefix+dept;
// withAll adds an "All" button carrying prefix+"all".
func departmentRow(prefix string, withAll bool) []tgbotapi.InlineKeyboardButton {
	row := []tgbotapi.InlineKeyboardButton{}
	for _, d := range products.Departments {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(d.Label(), prefix+string(d)))
	}
	if withAll {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("All", prefix+"all"))
	}
	return row
}

func departmentKeyboard(prefix string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		departmentRow(prefix, false),
		navKeyboard(true, true).InlineKeyboard[0],
	)
}

// productPickKeyboard lists the newest products first, one per row.
func productPickKeyboard(list []products.Product, prefix string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for i := len(list) - 1; i >= 0 && len(rows) < maxPickButtons; i-- {
		p := list[i]
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(productButtonLabel(p), prefix+p.ID),
		))
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func managerKeyboard(managers []users.User) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, m := range managers {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(m.Name, "tr:mgr:"+m.ID),
		))
	}
	rows = append(rows, navKeyboard(true, true).InlineKeyboard[0])
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func unitKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("g", "rcp:unit:g"),
			tgbotapi.NewInlineKeyboardButtonData("unit", "rcp:unit:unit"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
}
