package bot

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatrac/spatrac/internal/csvimport"
	"github.com/spatrac/spatrac/internal/dialog"
	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/receiving"
	"github.com/spatrac/spatrac/internal/store"
)

const chat int64 = 100

type fakeAPI struct {
	mu        sync.Mutex
	sent      []tgbotapi.Chattable
	callbacks []tgbotapi.CallbackConfig
	fileURL   string
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		f.callbacks = append(f.callbacks, cb)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	return f.fileURL + "/" + fileID, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeAPI) lastText() string {
	t := f.texts()
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}

func (f *fakeAPI) anyText(sub string) bool {
	for _, t := range f.texts() {
		if strings.Contains(t, sub) {
			return true
		}
	}
	return false
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI, *store.Store) {
	t.Helper()
	st := store.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := &fakeAPI{}
	b := New(api, log, st, dialog.NewRepo(), receiving.New(st), csvimport.New(st, log), 0)
	return b, api, st
}

func text(s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chat},
		From:      &tgbotapi.User{ID: chat},
		Text:      s,
	}}
}

func command(s string) tgbotapi.Update {
	u := text(s)
	u.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(s)}}
	return u
}

func press(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		From:    &tgbotapi.User{ID: chat},
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: chat}},
	}}
}

func run(b *Bot, updates ...tgbotapi.Update) {
	for _, u := range updates {
		b.handleUpdate(context.Background(), u)
	}
}

func state(t *testing.T, b *Bot) dialog.State {
	t.Helper()
	it, err := b.states.Get(context.Background(), chat)
	require.NoError(t, err)
	return it.State
}

func TestStartShowsMenu(t *testing.T) {
	b, api, _ := newTestBot(t)
	run(b, command("/start"))
	require.Len(t, api.sent, 1)
	m, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, m.ReplyMarkup)
}

func TestReceiveWithoutSelection(t *testing.T) {
	b, api, st := newTestBot(t)
	run(b, text(btnReceiving), press("recv:new"), text("Milk"), text("3,5"), text("Sam"))

	require.Len(t, st.Products(), 1)
	p := st.Products()[0]
	assert.Equal(t, "Milk", p.Name)
	assert.Equal(t, 3.5, p.Temperature)
	assert.Equal(t, "Sam", p.ReceivedBy)
	assert.Len(t, p.Barcode, products.BarcodeLength)
	assert.True(t, api.anyText("✅ Received Milk"))
	assert.Equal(t, dialog.StateRecvMenu, state(t, b))
}

func TestReceiveRejectsTemperature(t *testing.T) {
	b, api, st := newTestBot(t)
	run(b, text(btnReceiving), press("recv:new"), text("Milk"), text("55"))

	assert.Equal(t, "Temperature must be between -30 and 40", api.lastText())
	assert.Equal(t, dialog.StateRecvTemp, state(t, b))

	run(b, text("warm"))
	assert.Equal(t, "Temperature must be a number, e.g. 3.5", api.lastText())
	assert.Empty(t, st.Products())
}

func TestReceiveFromSelectedProduct(t *testing.T) {
	b, _, st := newTestBot(t)
	st.AddProduct(products.Product{
		ID: "src", Name: "Beef", Barcode: "1", ProductCode: "P1",
		SupplierName: "Meat Co", SupplierCode: "S1", Department: products.DeptButchery,
	})
	run(b, text(btnReceiving), press("recv:sel:src"), press("recv:keep"), text("2"), text("Ann"))

	require.Len(t, st.Products(), 2)
	p := st.Products()[1]
	assert.Equal(t, "Beef", p.Name)
	assert.Equal(t, "src", p.ParentProductID)
	assert.Equal(t, products.DeptButchery, p.Department)
	assert.Equal(t, "P1", p.ProductCode)
}

func TestReceivingFilter(t *testing.T) {
	b, api, st := newTestBot(t)
	st.ImportProducts([]products.Product{
		{ID: "1", Name: "Beef Mince", SupplierName: "Meat Co"},
		{ID: "2", Name: "Bread", SupplierName: "Mills"},
	})
	run(b, text(btnReceiving), press("recv:filter:description"), text("BEEF"))
	assert.Contains(t, api.lastText(), "Products (1):")
	assert.Contains(t, api.lastText(), "Beef Mince")

	run(b, press("recv:reset"))
	assert.Contains(t, api.lastText(), "Products (2):")
}

func TestTransferFlow(t *testing.T) {
	b, api, st := newTestBot(t)
	st.AddProduct(products.Product{ID: "p1", Name: "Flour", Barcode: "9"})

	run(b, text(btnTransfer), press("tr:prod:p1"), press("tr:dept:bakery"), press("tr:mgr:2"))

	p, ok := st.ProductByID("p1")
	require.True(t, ok)
	assert.Equal(t, products.DeptBakery, p.Department)
	assert.Equal(t, "2", p.LastHandledBy)
	assert.Equal(t, "✅ Flour (9) moved to Bakery, handled by Jane Smith.", api.lastText())
	assert.Equal(t, dialog.StateIdle, state(t, b))
}

func TestTransferNeedsManager(t *testing.T) {
	b, api, st := newTestBot(t)
	st.AddProduct(products.Product{ID: "p1", Name: "Flour"})

	run(b, text(btnTransfer), press("tr:prod:p1"), press("tr:dept:hmr"), press("tr:mgr:1"))

	p, _ := st.ProductByID("p1")
	assert.False(t, p.Assigned())
	last := api.callbacks[len(api.callbacks)-1]
	assert.True(t, last.ShowAlert)
	assert.Equal(t, "Selected user is not a manager", last.Text)
}

func TestRecipeFlow(t *testing.T) {
	b, api, st := newTestBot(t)
	st.AddProduct(products.Product{ID: "p1", Name: "Beef"})

	run(b,
		text(btnRecipes), press("rcp:new"), text("Beef Pie"), press("rcp:dept:bakery"),
		press("rcp:prod:p1"), text("250"), press("rcp:unit:g"),
		press("rcp:more"), text("X99"), text("2"), press("rcp:unit:unit"),
		press("rcp:instr"), text("Bake 40 minutes"),
	)

	require.Len(t, st.Recipes(), 1)
	r := st.Recipes()[0]
	assert.Equal(t, "Beef Pie", r.Name)
	assert.Equal(t, products.DeptBakery, r.Department)
	assert.Equal(t, "Bake 40 minutes", r.Recipe)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "p1", r.Ingredients[0].ProductID)
	assert.Equal(t, "Beef", r.Ingredients[0].Description)
	assert.Equal(t, 250.0, r.Ingredients[0].Quantity)
	assert.Equal(t, "X99", r.Ingredients[1].ProductID)
	assert.True(t, api.anyText("✅ Recipe saved: Beef Pie"))
	assert.Contains(t, api.lastText(), "Beef - 250 g")
}

func TestStaleRecipeButtonsIgnored(t *testing.T) {
	b, api, _ := newTestBot(t)

	run(b, press("rcp:instr"), press("rcp:more"))
	assert.Equal(t, dialog.StateIdle, state(t, b))
	assert.Empty(t, api.texts())
	assert.Len(t, api.callbacks, 2)

	run(b, press("rcp:new"), press("rcp:instr"))
	assert.Equal(t, dialog.StateRecipeName, state(t, b))
}

func TestRecipeQuantityMustBePositive(t *testing.T) {
	b, api, _ := newTestBot(t)
	run(b, press("rcp:new"), text("Pie"), press("rcp:dept:hmr"), text("P1"), text("0"))
	assert.Equal(t, "Quantity must be greater than 0", api.lastText())
	assert.Equal(t, dialog.StateRecipeIngQty, state(t, b))
}

func TestImportDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Product Description,Supp. Cd.,Supplier Name,Product Code,EAN,Sub-Department\nMilk,S1,Dairy,P1,5000,HMR\nEggs,S1,Dairy,P2,,\n"))
	}))
	defer srv.Close()

	b, api, st := newTestBot(t)
	api.fileURL = srv.URL

	doc := text("")
	doc.Message.Document = &tgbotapi.Document{FileID: "f1", FileName: "products.csv"}
	run(b, text(btnImport), press("imp:products"), doc)

	require.Len(t, st.Products(), 2)
	assert.Equal(t, "5000", st.Products()[0].Barcode)
	assert.True(t, api.anyText("✅ Successfully imported 2 products"))
	assert.Equal(t, dialog.StateImportMenu, state(t, b))
}

func TestImportRejectsPlainText(t *testing.T) {
	b, api, _ := newTestBot(t)
	run(b, text(btnImport), press("imp:recipes"), text("hello"))
	assert.Equal(t, "Please send the file as a document.", api.lastText())
	assert.Equal(t, dialog.StateImportRecipes, state(t, b))
}

func TestReportsExport(t *testing.T) {
	b, api, st := newTestBot(t)
	st.AddProduct(products.Product{ID: "1", Name: "Milk"})
	run(b, text(btnReports), press("rep:dept:all"), press("rep:export"))

	last := api.sent[len(api.sent)-1]
	doc, ok := last.(tgbotapi.DocumentConfig)
	require.True(t, ok)
	fb, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(fb.Name, "report_all_"))
	assert.NotEmpty(t, fb.Bytes)
}

func TestCancel(t *testing.T) {
	b, api, _ := newTestBot(t)
	run(b, text(btnReceiving), press("recv:new"), press("nav:cancel"))
	assert.Equal(t, "Operation cancelled.", api.lastText())
	assert.Equal(t, dialog.StateIdle, state(t, b))
}

func TestAdminNotices(t *testing.T) {
	st := store.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := New(&fakeAPI{}, log, st, dialog.NewRepo(), receiving.New(st), csvimport.New(st, log), 99)
	require.NoError(t, b.Attach(st))

	st.ImportProducts([]products.Product{{ID: "1", Name: "Milk"}, {ID: "2", Name: "Eggs"}})
	st.TransferProduct("2", products.DeptHMR, "2")

	require.Len(t, b.notices, 2)
	assert.Equal(t, "📥 2 products imported", <-b.notices)
	assert.Equal(t, "🔁 Eggs moved to HMR", <-b.notices)
}
