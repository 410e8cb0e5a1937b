package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/spatrac/spatrac/internal/csvimport"
	"github.com/spatrac/spatrac/internal/dialog"
	"github.com/spatrac/spatrac/internal/receiving"
	"github.com/spatrac/spatrac/internal/store"
)

const noticeBuffer = 64

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type Bot struct {
	api       API
	log       *slog.Logger
	store     *store.Store
	states    *dialog.Repo
	recv      *receiving.Workflow
	importer  *csvimport.Importer
	adminChat int64
	notices   chan string
}

func New(api API, log *slog.Logger, st *store.Store, statesRepo *dialog.Repo,
	recv *receiving.Workflow, importer *csvimport.Importer, adminChatID int64) *Bot {

	return &Bot{
		api: api, log: log, store: st, states: statesRepo,
		recv: recv, importer: importer, adminChat: adminChatID,
		notices: make(chan string, noticeBuffer),
	}
}

// Attach forwards store changes to the admin chat. Handlers only queue the
// text; Run does the sending.
func (b *Bot) Attach(st *store.Store) error {
	if b.adminChat == 0 {
		return nil
	}
	if err := st.Subscribe(store.TopicProducts, b.onStoreChange); err != nil {
		return err
	}
	return st.Subscribe(store.TopicRecipes, b.onStoreChange)
}

func (b *Bot) onStoreChange(c store.Change) {
	text := changeNotice(c)
	if text == "" {
		return
	}
	select {
	case b.notices <- text:
	default:
		b.log.Warn("notice dropped", "op", c.Op)
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case text := <-b.notices:
			b.send(tgbotapi.NewMessage(b.adminChat, text))
		case upd := <-updates:
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		b.onMessage(ctx, upd)
	} else if upd.CallbackQuery != nil {
		b.onCallback(ctx, upd)
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	b.handleCallback(ctx, upd.CallbackQuery)
}
