package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
	"github.com/jmzabaleta/Jenweb-M/internal/infrastructure/exporter"
	"github.com/jmzabaleta/Jenweb-M/internal/usecase"
)

// chatMode chat qaysi sahifada ishlayotganini bildiradi:
// inventar (mahsulotlar jadvali) yoki sotuv (katalog + savat).
type chatMode int

const (
	modeNone chatMode = iota
	modeInventory
	modeSale
)

type formStage int

const (
	formStageNeedName formStage = iota
	formStageNeedCategory
	formStageNeedPrice
	formStageNeedStock
	formStageNeedDescription
)

// productFormSession mahsulot yaratish/tahrirlash formasi.
// Savollar bosqichma-bosqich beriladi, oxirida Create yoki Update chaqiriladi.
type productFormSession struct {
	Stage      formStage
	EditTarget string // bo'sh bo'lsa yangi mahsulot yaratiladi
	Input      entity.ProductInput
	StartedAt  time.Time
}

// saleFilter sotuv sahifasidagi katalog filtri
type saleFilter struct {
	Query    string
	Category string
}

// cartSession bitta chatning savati va uning qulfi. Qulf chatga tegishli:
// bitta chatning savati ustidagi amallar ketma-ket, boshqa chatlar
// bir-birini kutmaydi.
type cartSession struct {
	mu   sync.Mutex
	cart entity.Cart
}

// BotHandler Telegram bot handler
type BotHandler struct {
	bot             *tgbotapi.BotAPI
	defaultPageSize int
	catalogUseCase  usecase.CatalogUseCase
	saleUseCase     usecase.SaleUseCase
	adminUseCase    usecase.AdminUseCase

	modeMu sync.RWMutex
	modes  map[int64]chatMode

	viewMu     sync.RWMutex
	viewStates map[int64]*usecase.ViewState

	// cartMu faqat carts xaritasini qo'riqlaydi
	cartMu sync.Mutex
	carts  map[int64]*cartSession

	formMu       sync.RWMutex
	formSessions map[int64]*productFormSession

	filterMu    sync.RWMutex
	saleFilters map[int64]*saleFilter

	deleteMu       sync.RWMutex
	pendingDeletes map[int64]string

	// Admin login kutilayotgan userlar
	awaitingPassword map[int64]bool
	mu               sync.RWMutex
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(
	token string,
	defaultPageSize int,
	catalogUseCase usecase.CatalogUseCase,
	saleUseCase usecase.SaleUseCase,
	adminUseCase usecase.AdminUseCase,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &BotHandler{
		bot:              bot,
		defaultPageSize:  defaultPageSize,
		catalogUseCase:   catalogUseCase,
		saleUseCase:      saleUseCase,
		adminUseCase:     adminUseCase,
		modes:            make(map[int64]chatMode),
		viewStates:       make(map[int64]*usecase.ViewState),
		carts:            make(map[int64]*cartSession),
		formSessions:     make(map[int64]*productFormSession),
		saleFilters:      make(map[int64]*saleFilter),
		pendingDeletes:   make(map[int64]string),
		awaitingPassword: make(map[int64]bool),
	}, nil
}

// Start botni ishga tushirish
func (h *BotHandler) Start(ctx context.Context) error {
	log.Printf("Bot @%s ishga tushdi!", h.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			log.Println("Bot to'xtatilmoqda...")
			return ctx.Err()
		case update := <-updates:
			if update.CallbackQuery != nil {
				go h.handleCallback(ctx, update.CallbackQuery)
				continue
			}

			if update.Message == nil {
				continue
			}

			go h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	// Fayl yuborilgan bo'lsa (Excel import)
	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}

	// Parol kutilayotgan bo'lsa
	if h.isAwaitingPassword(userID) {
		h.handlePasswordInput(ctx, message)
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	if message.Text == "" {
		return
	}

	// Forma sessiyasi davom etayotgan bo'lsa
	if h.hasFormSession(userID) {
		h.handleFormFlow(ctx, userID, message.Text, message.Chat.ID)
		return
	}

	// Oddiy matn rejimga qarab qidiruv hisoblanadi
	switch h.chatModeOf(message.Chat.ID) {
	case modeInventory:
		state := h.viewState(message.Chat.ID)
		h.viewMu.Lock()
		state.SearchText = message.Text
		state.CurrentPage = 1
		h.viewMu.Unlock()
		h.renderInventory(ctx, message.Chat.ID)
	case modeSale:
		h.filterMu.Lock()
		filter := h.saleFilterOf(message.Chat.ID)
		filter.Query = message.Text
		h.filterMu.Unlock()
		h.renderSaleCatalog(ctx, message.Chat.ID)
	default:
		h.sendMessage(message.Chat.ID, "Boshlash uchun /inventar yoki /sotuv ni tanlang. /help yordam uchun.")
	}
}

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	// Yangi komanda eski forma sessiyasini bekor qiladi
	h.clearFormSession(message.From.ID)

	switch message.Command() {
	case "start":
		h.sendMessage(chatID, h.getWelcomeMessage())
	case "help":
		h.sendMessage(chatID, h.getHelpMessage())
	case "inventar":
		h.setChatMode(chatID, modeInventory)
		h.renderInventory(ctx, chatID)
	case "yangi":
		h.startProductForm(ctx, message.From.ID, chatID, "")
	case "sotuv":
		h.setChatMode(chatID, modeSale)
		h.renderSaleCatalog(ctx, chatID)
	case "savat":
		h.renderCart(ctx, chatID)
	case "tarix":
		h.handleHistoryCommand(ctx, message)
	case "export":
		h.handleExportCommand(chatID)
	case "admin":
		h.handleAdminCommand(ctx, message)
	case "logout":
		h.handleLogoutCommand(ctx, message)
	default:
		h.sendMessage(chatID, "Noma'lum komanda. /help yordam uchun.")
	}
}

// ---------- Inventar sahifasi ----------

// renderInventory mahsulotlar jadvalini ko'rsatish
func (h *BotHandler) renderInventory(ctx context.Context, chatID int64) {
	state := h.viewState(chatID)

	h.viewMu.RLock()
	snapshot := *state
	h.viewMu.RUnlock()

	page := usecase.BuildInventoryPage(h.catalogUseCase.List(ctx), snapshot)

	// Qisqargan sahifa raqamini saqlab qo'yamiz
	h.viewMu.Lock()
	state.CurrentPage = page.CurrentPage
	h.viewMu.Unlock()

	var sb strings.Builder
	sb.WriteString("📦 *Inventar*\n")
	if snapshot.SearchText != "" {
		sb.WriteString(fmt.Sprintf("🔎 Qidiruv: %s\n", snapshot.SearchText))
	}
	sb.WriteString("\n")

	if len(page.Items) == 0 {
		sb.WriteString("Mahsulotlar topilmadi.\n")
	}
	for _, p := range page.Items {
		sb.WriteString(fmt.Sprintf("%s *%s* — %s\n", stockIcon(p.Stock), p.Name, money(p.Price)))
		sb.WriteString(fmt.Sprintf("    Omborda: %d", p.Stock))
		if p.Category != "" {
			sb.WriteString(fmt.Sprintf(" | %s", p.Category))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("\nSahifa %d/%d (jami %d ta)", page.CurrentPage, page.TotalPages, page.TotalItems))

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range page.Items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ "+p.Name, "inv_edit:"+p.Name),
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+p.Name, "inv_del:"+p.Name),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page.CurrentPage > 1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", fmt.Sprintf("inv_page:%d", page.CurrentPage-1)))
	}
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", page.CurrentPage, page.TotalPages), "inv_noop"))
	if page.CurrentPage < page.TotalPages {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", fmt.Sprintf("inv_page:%d", page.CurrentPage+1)))
	}
	rows = append(rows, nav)

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("5 ta", "inv_size:5"),
		tgbotapi.NewInlineKeyboardButtonData("10 ta", "inv_size:10"),
		tgbotapi.NewInlineKeyboardButtonData("20 ta", "inv_size:20"),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Yangi mahsulot", "inv_new"),
		tgbotapi.NewInlineKeyboardButtonData("📤 Export", "inv_export"),
	))

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Inventarni yuborishda xatolik: %v", err)
	}
}

// ---------- Mahsulot formasi ----------

// startProductForm forma sessiyasini boshlash. editTarget bo'sh bo'lmasa
// mavjud mahsulot tahrirlanadi; nishon topilmasa forma ochilmaydi.
func (h *BotHandler) startProductForm(ctx context.Context, userID, chatID int64, editTarget string) {
	session := &productFormSession{
		Stage:     formStageNeedName,
		StartedAt: time.Now(),
	}

	if editTarget != "" {
		product, err := h.catalogUseCase.Get(ctx, editTarget)
		if err != nil {
			// Nishon eskirgan: formani ochmasdan jadvalni yangilaymiz
			h.renderInventory(ctx, chatID)
			return
		}
		session.EditTarget = editTarget
		session.Input = entity.ProductInput{
			Name:        product.Name,
			Category:    product.Category,
			Price:       product.Price,
			Stock:       product.Stock,
			Description: product.Description,
		}
	}

	h.formMu.Lock()
	h.formSessions[userID] = session
	h.formMu.Unlock()

	if editTarget != "" {
		h.sendMessage(chatID, fmt.Sprintf("✏️ %s tahrirlanmoqda.\nYangi nomni yozing (o'zgartirmaslik uchun \"-\"):", editTarget))
	} else {
		h.sendMessage(chatID, "➕ Yangi mahsulot.\nNomini yozing:")
	}
}

// advanceForm forma sessiyasini bitta javob bilan keyingi bosqichga surish.
// Qaytgan prompt keyingi savol (yoki xato) matni; done true bo'lsa forma to'ldi.
// Chaqiruvchi formMu ni ushlab turishi kerak: prompt sessiya holatidan
// qulf ostida quriladi.
func advanceForm(session *productFormSession, text string) (prompt string, done bool) {
	input := strings.TrimSpace(text)
	keep := session.EditTarget != "" && input == "-"

	switch session.Stage {
	case formStageNeedName:
		if !keep {
			session.Input.Name = input
		}
		session.Stage = formStageNeedCategory
		return fmt.Sprintf("Kategoriya (hozirgi: %s, o'tkazib yuborish \"-\"):", nonEmpty(session.Input.Category, "yo'q")), false
	case formStageNeedCategory:
		if input != "-" {
			session.Input.Category = input
		}
		session.Stage = formStageNeedPrice
		return fmt.Sprintf("Narx (hozirgi: %s):", money(session.Input.Price)), false
	case formStageNeedPrice:
		if !keep {
			price, err := strconv.ParseFloat(strings.ReplaceAll(input, ",", "."), 64)
			if err != nil || price < 0 {
				return "❌ Narx manfiy bo'lmagan son bo'lishi kerak. Qaytadan kiriting:", false
			}
			session.Input.Price = price
		}
		session.Stage = formStageNeedStock
		return fmt.Sprintf("Ombordagi soni (hozirgi: %d):", session.Input.Stock), false
	case formStageNeedStock:
		if !keep {
			stock, err := strconv.Atoi(input)
			if err != nil || stock < 0 {
				return "❌ Soni manfiy bo'lmagan butun son bo'lishi kerak. Qaytadan kiriting:", false
			}
			session.Input.Stock = stock
		}
		session.Stage = formStageNeedDescription
		return fmt.Sprintf("Tavsif (hozirgi: %s, o'tkazib yuborish \"-\"):", nonEmpty(session.Input.Description, "yo'q")), false
	case formStageNeedDescription:
		if input != "-" {
			session.Input.Description = input
		}
		return "", true
	}
	return "", false
}

// handleFormFlow forma savollarini bosqichma-bosqich ko'rsatish
func (h *BotHandler) handleFormFlow(ctx context.Context, userID int64, text string, chatID int64) {
	h.formMu.Lock()
	session, ok := h.formSessions[userID]
	if !ok {
		h.formMu.Unlock()
		return
	}

	prompt, done := advanceForm(session, text)
	var completed productFormSession
	if done {
		completed = *session
		delete(h.formSessions, userID)
	}
	h.formMu.Unlock()

	if done {
		h.finishProductForm(ctx, chatID, completed)
		return
	}
	if prompt != "" {
		h.sendMessage(chatID, prompt)
	}
}

// finishProductForm forma natijasini katalogga qo'llash
func (h *BotHandler) finishProductForm(ctx context.Context, chatID int64, session productFormSession) {
	var err error
	if session.EditTarget != "" {
		err = h.catalogUseCase.Update(ctx, session.EditTarget, session.Input)
	} else {
		err = h.catalogUseCase.Create(ctx, session.Input)
	}

	if err != nil {
		var vErr *entity.ValidationError
		var nfErr *entity.NotFoundError
		switch {
		case errors.As(err, &vErr):
			h.sendMessage(chatID, fmt.Sprintf("❌ %s: %s. Amal bekor qilindi, qaytadan urinib ko'ring.", vErr.Field, vErr.Reason))
		case errors.As(err, &nfErr):
			h.sendMessage(chatID, fmt.Sprintf("❌ %s topilmadi (boshqa joydan o'zgartirilgan bo'lishi mumkin).", nfErr.Name))
		default:
			log.Printf("Formani saqlashda xatolik: %v", err)
			h.sendMessage(chatID, "❌ Saqlashda xatolik yuz berdi.")
		}
		return
	}

	if session.EditTarget != "" {
		h.sendMessage(chatID, fmt.Sprintf("✅ %s yangilandi!", session.Input.Name))
	} else {
		h.sendMessage(chatID, fmt.Sprintf("✅ %s qo'shildi!", session.Input.Name))
	}
	h.renderInventory(ctx, chatID)
}

// ---------- Sotuv sahifasi ----------

// renderSaleCatalog sotuv uchun katalogni ko'rsatish
func (h *BotHandler) renderSaleCatalog(ctx context.Context, chatID int64) {
	h.filterMu.Lock()
	filter := *h.saleFilterOf(chatID)
	h.filterMu.Unlock()

	products := h.catalogUseCase.List(ctx)
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	var list []entity.Product
	for _, p := range products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		list = append(list, p)
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Sotuv*\n")
	if filter.Query != "" {
		sb.WriteString(fmt.Sprintf("🔎 %s\n", filter.Query))
	}
	if filter.Category != "" {
		sb.WriteString(fmt.Sprintf("📂 %s\n", filter.Category))
	}
	sb.WriteString("\n")

	if len(list) == 0 {
		sb.WriteString("Ko'rsatish uchun mahsulot yo'q.\n")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range list {
		sb.WriteString(fmt.Sprintf("%s %s — %s\n", stockIcon(p.Stock), p.Name, money(p.Price)))
		label := "➕ " + p.Name
		if p.Stock <= 0 {
			label = "⛔ " + p.Name
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "sale_add:"+p.Name),
		))
	}

	// Kategoriya filtri tugmalari
	categories := h.catalogUseCase.Categories(ctx)
	if len(categories) > 0 {
		catRow := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("Hammasi", "sale_cat:"),
		}
		for _, cat := range categories {
			catRow = append(catRow, tgbotapi.NewInlineKeyboardButtonData(cat, "sale_cat:"+cat))
		}
		rows = append(rows, catRow)
	}

	cs := h.cartSessionOf(chatID)
	cs.mu.Lock()
	cartCount := len(cs.cart.Lines)
	cs.mu.Unlock()
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🛒 Savat (%d)", cartCount), "sale_cart"),
	))

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Katalogni yuborishda xatolik: %v", err)
	}
}

// renderCart savatni ko'rsatish
func (h *BotHandler) renderCart(ctx context.Context, chatID int64) {
	cs := h.cartSessionOf(chatID)

	cs.mu.Lock()
	lines := make([]entity.CartLine, len(cs.cart.Lines))
	copy(lines, cs.cart.Lines)
	cs.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("🛒 *Savat*\n\n")
	if len(lines) == 0 {
		sb.WriteString("Savat bo'sh.\n")
	}
	var total float64
	for _, l := range lines {
		sb.WriteString(fmt.Sprintf("%s ×%d — %s (%s dan)\n", l.Name, l.Quantity, money(l.Subtotal()), money(l.Price)))
		total += l.Subtotal()
	}
	sb.WriteString(fmt.Sprintf("\n*Jami: %s*", money(total)))

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Rasmiylashtirish", "cart_checkout"),
			tgbotapi.NewInlineKeyboardButtonData("🧹 Tozalash", "cart_clear"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Katalogga qaytish", "cart_back"),
		),
	)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Savatni yuborishda xatolik: %v", err)
	}
}

// handleCheckout savatni sotuvga aylantirish
func (h *BotHandler) handleCheckout(ctx context.Context, chatID int64) {
	cs := h.cartSessionOf(chatID)

	cs.mu.Lock()
	sale, err := h.saleUseCase.Checkout(ctx, &cs.cart)
	cs.mu.Unlock()

	if err != nil {
		var insErr *entity.InsufficientStockError
		switch {
		case errors.Is(err, entity.ErrEmptyCart):
			h.sendMessage(chatID, "❌ Savatda mahsulot yo'q.")
		case errors.As(err, &insErr):
			h.sendMessage(chatID, fmt.Sprintf("❌ %s uchun ombor yetarli emas. Mavjud: %d ta.", insErr.Name, insErr.Available))
		default:
			log.Printf("Checkout xatosi: %v", err)
			h.sendMessage(chatID, "❌ Sotuvni ro'yxatga olishda xatolik yuz berdi.")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("✅ Sotuv #%d ro'yxatga olindi! Jami: %s", sale.ID, money(sale.Total)))
	h.renderSaleCatalog(ctx, chatID)
}

// handleHistoryCommand sotuvlar tarixini ko'rsatish
func (h *BotHandler) handleHistoryCommand(ctx context.Context, message *tgbotapi.Message) {
	sales := h.saleUseCase.History(ctx)
	if len(sales) == 0 {
		h.sendMessage(message.Chat.ID, "Hali sotuvlar ro'yxatga olinmagan.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🧾 *Sotuvlar tarixi:*\n\n")
	for _, sale := range sales {
		sb.WriteString(fmt.Sprintf("*#%d* — %s\n", sale.ID, sale.Timestamp.Local().Format("02.01.2006 15:04")))
		for _, l := range sale.Lines {
			sb.WriteString(fmt.Sprintf("  %s ×%d — %s\n", l.Name, l.Quantity, money(l.Price*float64(l.Quantity))))
		}
		sb.WriteString(fmt.Sprintf("  Jami: %s\n\n", money(sale.Total)))
	}

	h.sendMessageMarkdown(message.Chat.ID, sb.String())
}

// ---------- Export ----------

// handleExportCommand format tanlash tugmalari
func (h *BotHandler) handleExportCommand(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Qaysi formatda eksport qilamiz?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 CSV", "exp_csv"),
			tgbotapi.NewInlineKeyboardButtonData("📊 Excel", "exp_xlsx"),
		),
	)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Export tugmalarini yuborishda xatolik: %v", err)
	}
}

// sendExport katalogni fayl sifatida yuborish
func (h *BotHandler) sendExport(ctx context.Context, chatID int64, format string) {
	products := h.catalogUseCase.List(ctx)

	var (
		data     []byte
		filename string
		err      error
	)
	if format == "xlsx" {
		data, err = exporter.BuildXLSX(products)
		filename = exporter.XLSXFilename
	} else {
		data, err = exporter.BuildCSV(products)
		filename = exporter.CSVFilename
	}

	if err != nil {
		log.Printf("Eksport xatosi: %v", err)
		h.sendMessage(chatID, "❌ Eksport faylini tayyorlab bo'lmadi.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = fmt.Sprintf("📦 Katalog: %d ta mahsulot", len(products))
	if _, err := h.bot.Send(doc); err != nil {
		log.Printf("Eksport faylini yuborishda xatolik: %v", err)
	}
}

// ---------- Admin ----------

// handleAdminCommand admin login boshlash
func (h *BotHandler) handleAdminCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	isAdmin, _ := h.adminUseCase.IsAdmin(ctx, userID)
	if isAdmin {
		h.sendMessage(message.Chat.ID, "Siz allaqachon admin sifatida tizimga kirgansiz!")
		return
	}

	h.setAwaitingPassword(userID, true)
	h.sendMessage(message.Chat.ID, "🔐 Admin parolini kiriting:")
}

// handlePasswordInput parol kiritilganini qayta ishlash
func (h *BotHandler) handlePasswordInput(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	password := message.Text

	h.setAwaitingPassword(userID, false)

	// Xabarni o'chirish (xavfsizlik uchun)
	deleteMsg := tgbotapi.NewDeleteMessage(message.Chat.ID, message.MessageID)
	h.bot.Send(deleteMsg)

	success, err := h.adminUseCase.Login(ctx, userID, password)
	if err != nil {
		log.Printf("Login error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Login xatosi yuz berdi.")
		return
	}

	if !success {
		h.sendMessage(message.Chat.ID, "❌ Noto'g'ri parol!")
		return
	}

	welcomeMsg := `✅ Admin panelga xush kelibsiz!

🔧 Admin imkoniyatlari:
• Excel fayl yuklash orqali katalogni butunlay almashtirish
• Katalog statistikasi

📤 Katalogni yuklash uchun Excel faylni (maksimal 5MB) botga yuboring.
Fayl ustunlari: Nombre, Categoría, Precio, Stock, Descripción

/logout - Admin paneldan chiqish`

	btns := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Katalog statistikasi", "admin_info"),
			tgbotapi.NewInlineKeyboardButtonData("📋 Harakatlar jurnali", "admin_log"),
		),
	)

	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeMsg)
	msg.ReplyMarkup = btns
	h.bot.Send(msg)
}

// handleLogoutCommand admin logout
func (h *BotHandler) handleLogoutCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	isAdmin, _ := h.adminUseCase.IsAdmin(ctx, userID)
	if !isAdmin {
		h.sendMessage(message.Chat.ID, "Siz admin emassiz.")
		return
	}

	if err := h.adminUseCase.Logout(ctx, userID); err != nil {
		h.sendMessage(message.Chat.ID, "Logout xatosi.")
		return
	}

	h.sendMessage(message.Chat.ID, "✅ Admin paneldan chiqdingiz.")
}

// handleDocumentMessage fayl yuborilganda (Excel katalog import)
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	isAdmin, _ := h.adminUseCase.IsAdmin(ctx, userID)
	if !isAdmin {
		h.sendMessage(message.Chat.ID, "❌ Fayllarni faqat adminlar yuklashi mumkin. /admin komandasi bilan admin bo'ling.")
		return
	}

	doc := message.Document

	// Fayl hajmini tekshirish (5MB)
	if doc.FileSize > 5*1024*1024 {
		h.sendMessage(message.Chat.ID, "❌ Fayl hajmi 5MB dan oshmasligi kerak!")
		return
	}

	if !strings.HasSuffix(doc.FileName, ".xlsx") && !strings.HasSuffix(doc.FileName, ".xls") {
		h.sendMessage(message.Chat.ID, "❌ Faqat Excel fayllari (.xlsx, .xls) qabul qilinadi!")
		return
	}

	h.sendMessage(message.Chat.ID, "⏳ Fayl yuklanmoqda va qayta ishlanmoqda...")

	fileBytes, err := h.downloadFile(doc.FileID)
	if err != nil {
		log.Printf("File download error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Faylni yuklashda xatolik yuz berdi.")
		return
	}

	count, err := h.adminUseCase.UploadCatalog(ctx, userID, fileBytes, doc.FileName)
	if err != nil {
		log.Printf("Upload catalog error: %v", err)
		h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ Katalogni yangilashda xatolik: %v", err))
		return
	}

	h.sendMessage(message.Chat.ID, fmt.Sprintf(`✅ Katalog muvaffaqiyatli yangilandi!

📦 Yuklangan mahsulotlar: %d ta
📄 Fayl: %s

/inventar - Mahsulotlar jadvali`, count, doc.FileName))
}

// sendRecentActions admin harakatlari jurnalini ko'rsatish
func (h *BotHandler) sendRecentActions(ctx context.Context, chatID int64) {
	actions, err := h.adminUseCase.RecentActions(ctx, 10)
	if err != nil {
		log.Printf("Harakatlar jurnalini o'qib bo'lmadi: %v", err)
		h.sendMessage(chatID, "❌ Jurnalni o'qib bo'lmadi.")
		return
	}
	if len(actions) == 0 {
		h.sendMessage(chatID, "Jurnal bo'sh.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Oxirgi harakatlar:\n\n")
	for _, a := range actions {
		sb.WriteString(fmt.Sprintf("%s — %s (user %d)\n", a.Timestamp.Local().Format("02.01 15:04"), a.Action, a.UserID))
	}
	h.sendMessage(chatID, sb.String())
}

// downloadFile Telegram dan faylni yuklash
func (h *BotHandler) downloadFile(fileID string) ([]byte, error) {
	file, err := h.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}

	fileURL := file.Link(h.bot.Token)
	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// ---------- Callback lar ----------

// handleCallback callback query larini qayta ishlash
func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	userID := cq.From.ID
	data := cq.Data
	chatID := cq.Message.Chat.ID

	// Callback ga javob (spinnerni to'xtatish)
	callback := tgbotapi.NewCallback(cq.ID, "")
	if _, err := h.bot.Request(callback); err != nil {
		log.Printf("Callback javobida xatolik: %v", err)
	}

	// Prefiksli callbacklar
	if name, ok := strings.CutPrefix(data, "inv_edit:"); ok {
		h.startProductForm(ctx, userID, chatID, name)
		return
	}
	if name, ok := strings.CutPrefix(data, "inv_del:"); ok {
		h.askDeleteConfirm(chatID, userID, name)
		return
	}
	if name, ok := strings.CutPrefix(data, "inv_del_yes:"); ok {
		h.handleDeleteConfirm(ctx, chatID, userID, name)
		return
	}
	if raw, ok := strings.CutPrefix(data, "inv_page:"); ok {
		if page, err := strconv.Atoi(raw); err == nil {
			state := h.viewState(chatID)
			h.viewMu.Lock()
			state.CurrentPage = page
			h.viewMu.Unlock()
			h.renderInventory(ctx, chatID)
		}
		return
	}
	if raw, ok := strings.CutPrefix(data, "inv_size:"); ok {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			state := h.viewState(chatID)
			h.viewMu.Lock()
			state.PageSize = size
			state.CurrentPage = 1
			h.viewMu.Unlock()
			h.renderInventory(ctx, chatID)
		}
		return
	}
	if name, ok := strings.CutPrefix(data, "sale_add:"); ok {
		h.handleAddToCart(ctx, chatID, name)
		return
	}
	if cat, ok := strings.CutPrefix(data, "sale_cat:"); ok {
		h.filterMu.Lock()
		h.saleFilterOf(chatID).Category = cat
		h.filterMu.Unlock()
		h.renderSaleCatalog(ctx, chatID)
		return
	}

	switch data {
	case "inv_noop":
		// sahifa ko'rsatkichi, hech narsa qilmaydi
	case "inv_new":
		h.startProductForm(ctx, userID, chatID, "")
	case "inv_del_no":
		h.clearPendingDelete(userID)
		h.renderInventory(ctx, chatID)
	case "inv_export":
		h.handleExportCommand(chatID)
	case "sale_cart":
		h.renderCart(ctx, chatID)
	case "cart_checkout":
		h.handleCheckout(ctx, chatID)
	case "cart_clear":
		cs := h.cartSessionOf(chatID)
		cs.mu.Lock()
		cs.cart.Lines = nil
		cs.mu.Unlock()
		h.sendMessage(chatID, "🧹 Savat tozalandi.")
		h.renderSaleCatalog(ctx, chatID)
	case "cart_back":
		h.renderSaleCatalog(ctx, chatID)
	case "exp_csv":
		h.sendExport(ctx, chatID, "csv")
	case "exp_xlsx":
		h.sendExport(ctx, chatID, "xlsx")
	case "admin_info":
		isAdmin, _ := h.adminUseCase.IsAdmin(ctx, userID)
		if !isAdmin {
			h.sendMessage(chatID, "❌ Bu bo'lim faqat adminlar uchun.")
			return
		}
		h.sendMessage(chatID, h.adminUseCase.GetCatalogInfo(ctx))
	case "admin_log":
		isAdmin, _ := h.adminUseCase.IsAdmin(ctx, userID)
		if !isAdmin {
			h.sendMessage(chatID, "❌ Bu bo'lim faqat adminlar uchun.")
			return
		}
		h.sendRecentActions(ctx, chatID)
	}
}

// handleAddToCart mahsulotni savatga qo'shish
func (h *BotHandler) handleAddToCart(ctx context.Context, chatID int64, name string) {
	cs := h.cartSessionOf(chatID)

	cs.mu.Lock()
	err := h.saleUseCase.AddToCart(ctx, &cs.cart, name)
	total := h.saleUseCase.Total(&cs.cart)
	count := len(cs.cart.Lines)
	cs.mu.Unlock()

	if err != nil {
		var oosErr *entity.OutOfStockError
		var nfErr *entity.NotFoundError
		switch {
		case errors.As(err, &oosErr):
			h.sendMessage(chatID, fmt.Sprintf("⛔ %s omborda qolmagan.", oosErr.Name))
		case errors.As(err, &nfErr):
			h.sendMessage(chatID, fmt.Sprintf("❌ %s katalogda topilmadi.", nfErr.Name))
		default:
			log.Printf("Savatga qo'shishda xatolik: %v", err)
			h.sendMessage(chatID, "❌ Savatga qo'shib bo'lmadi.")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("🛒 %s savatga qo'shildi. Savat: %d qator, jami %s. /savat", name, count, money(total)))
}

// askDeleteConfirm o'chirishdan oldin tasdiq so'rash
func (h *BotHandler) askDeleteConfirm(chatID, userID int64, name string) {
	h.deleteMu.Lock()
	h.pendingDeletes[userID] = name
	h.deleteMu.Unlock()

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🗑 %s o'chirilsinmi?", name))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Ha ✅", "inv_del_yes:"+name),
			tgbotapi.NewInlineKeyboardButtonData("Yo'q ❌", "inv_del_no"),
		),
	)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Tasdiq so'rovini yuborishda xatolik: %v", err)
	}
}

// handleDeleteConfirm tasdiqdan keyin o'chirish.
// Mahsulot allaqachon yo'q bo'lsa ham xato emas.
func (h *BotHandler) handleDeleteConfirm(ctx context.Context, chatID, userID int64, name string) {
	h.clearPendingDelete(userID)

	if err := h.catalogUseCase.Delete(ctx, name); err != nil {
		log.Printf("O'chirishda xatolik: %v", err)
		h.sendMessage(chatID, "❌ O'chirishda xatolik yuz berdi.")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("🗑 %s o'chirildi.", name))
	h.renderInventory(ctx, chatID)
}

// ---------- Session helperlar ----------

func (h *BotHandler) setChatMode(chatID int64, mode chatMode) {
	h.modeMu.Lock()
	defer h.modeMu.Unlock()
	h.modes[chatID] = mode
}

func (h *BotHandler) chatModeOf(chatID int64) chatMode {
	h.modeMu.RLock()
	defer h.modeMu.RUnlock()
	return h.modes[chatID]
}

// viewState chat uchun ko'rinish holatini olish (yo'q bo'lsa yaratish)
func (h *BotHandler) viewState(chatID int64) *usecase.ViewState {
	h.viewMu.Lock()
	defer h.viewMu.Unlock()
	state, ok := h.viewStates[chatID]
	if !ok {
		state = &usecase.ViewState{CurrentPage: 1, PageSize: h.defaultPageSize}
		h.viewStates[chatID] = state
	}
	return state
}

// cartSessionOf chat uchun savat sessiyasini olish (yo'q bo'lsa yaratish)
func (h *BotHandler) cartSessionOf(chatID int64) *cartSession {
	h.cartMu.Lock()
	defer h.cartMu.Unlock()
	cs, ok := h.carts[chatID]
	if !ok {
		cs = &cartSession{}
		h.carts[chatID] = cs
	}
	return cs
}

// saleFilterOf chat uchun sotuv filtrini olish. Chaqiruvchi filterMu ni ushlab turishi kerak.
func (h *BotHandler) saleFilterOf(chatID int64) *saleFilter {
	filter, ok := h.saleFilters[chatID]
	if !ok {
		filter = &saleFilter{}
		h.saleFilters[chatID] = filter
	}
	return filter
}

func (h *BotHandler) hasFormSession(userID int64) bool {
	h.formMu.RLock()
	defer h.formMu.RUnlock()
	_, ok := h.formSessions[userID]
	return ok
}

func (h *BotHandler) clearFormSession(userID int64) {
	h.formMu.Lock()
	defer h.formMu.Unlock()
	delete(h.formSessions, userID)
}

func (h *BotHandler) clearPendingDelete(userID int64) {
	h.deleteMu.Lock()
	defer h.deleteMu.Unlock()
	delete(h.pendingDeletes, userID)
}

// isAwaitingPassword parol kutilayotganini tekshirish
func (h *BotHandler) isAwaitingPassword(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.awaitingPassword[userID]
}

// setAwaitingPassword parol kutish rejimini o'rnatish
func (h *BotHandler) setAwaitingPassword(userID int64, awaiting bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if awaiting {
		h.awaitingPassword[userID] = true
	} else {
		delete(h.awaitingPassword, userID)
	}
}

// ---------- Umumiy helperlar ----------

// sendMessage oddiy xabar yuborish
func (h *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Xabar yuborishda xatolik: %v", err)
	}
}

// sendMessageMarkdown markdown formatda xabar yuborish
func (h *BotHandler) sendMessageMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Xabar yuborishda xatolik: %v", err)
	}
}

// money narxni formatlash
func money(n float64) string {
	return fmt.Sprintf("$%.2f", n)
}

// stockIcon ombor holati belgisi
func stockIcon(stock int) string {
	switch usecase.StockLevelOf(stock) {
	case usecase.StockOut:
		return "🔴"
	case usecase.StockLow:
		return "🟡"
	default:
		return "🟢"
	}
}

// nonEmpty bo'sh bo'lmagan qiymatni tanlash
func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func (h *BotHandler) getWelcomeMessage() string {
	return `👋 Salom! Bu do'kon inventari va sotuv boti.

📦 /inventar - mahsulotlar jadvali (qidiruv, tahrirlash, o'chirish)
🛒 /sotuv - sotuv: katalogdan savatga qo'shing va rasmiylashtiring
🧾 /tarix - sotuvlar tarixi
📤 /export - katalogni CSV/Excel ga eksport qilish

/help - to'liq yordam`
}

func (h *BotHandler) getHelpMessage() string {
	return `📖 Yordam:

/inventar - mahsulotlar jadvali. Matn yozsangiz nom bo'yicha qidiradi,
tugmalar bilan sahifalanadi, har bir qatorni tahrirlash/o'chirish mumkin.
/yangi - yangi mahsulot qo'shish (forma bosqichma-bosqich so'raladi)
/sotuv - sotuv sahifasi: katalogdan savatga qo'shing
/savat - savat va rasmiylashtirish
/tarix - ro'yxatga olingan sotuvlar
/export - katalogni CSV yoki Excel faylga eksport qilish
/admin - admin panel (Excel orqali katalog import)
/logout - admin paneldan chiqish`
}
