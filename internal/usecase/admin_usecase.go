package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmzabaleta/Jenweb-M/internal/domain/entity"
	"github.com/jmzabaleta/Jenweb-M/internal/domain/repository"
)

// AdminUseCase admin bilan bog'liq business logic
type AdminUseCase interface {
	// Login admin login qilish
	Login(ctx context.Context, userID int64, password string) (bool, error)

	// Logout admin logout qilish
	Logout(ctx context.Context, userID int64) error

	// IsAdmin admin ekanligini tekshirish
	IsAdmin(ctx context.Context, userID int64) (bool, error)

	// UploadCatalog Excel fayldan katalogni yuklash
	UploadCatalog(ctx context.Context, userID int64, fileData []byte, filename string) (int, error)

	// GetCatalogInfo katalog haqida ma'lumot
	GetCatalogInfo(ctx context.Context) string

	// RecentActions oxirgi admin harakatlari (audit jurnal)
	RecentActions(ctx context.Context, limit int) ([]entity.AdminAction, error)
}

type adminUseCase struct {
	password    string
	adminRepo   repository.AdminRepository
	catalog     CatalogUseCase
	excelParser repository.ExcelParser
}

// NewAdminUseCase yangi AdminUseCase yaratish. Parol konfiguratsiyadan
// keladi; bo'sh parol admin panelni o'chiradi.
func NewAdminUseCase(
	password string,
	adminRepo repository.AdminRepository,
	catalog CatalogUseCase,
	excelParser repository.ExcelParser,
) AdminUseCase {
	return &adminUseCase{
		password:    password,
		adminRepo:   adminRepo,
		catalog:     catalog,
		excelParser: excelParser,
	}
}

// Login admin login qilish
func (u *adminUseCase) Login(ctx context.Context, userID int64, password string) (bool, error) {
	if u.password == "" || password != u.password {
		return false, nil
	}

	session := entity.AdminSession{
		UserID:       userID,
		IsAdmin:      true,
		LoginTime:    time.Now(),
		LastActivity: time.Now(),
	}

	if err := u.adminRepo.CreateSession(ctx, session); err != nil {
		return false, fmt.Errorf("failed to create session: %w", err)
	}

	action := entity.AdminAction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    "login",
		Details:   "Admin successfully logged in",
		Timestamp: time.Now(),
	}
	_ = u.adminRepo.LogAction(ctx, action)

	return true, nil
}

// Logout admin logout qilish
func (u *adminUseCase) Logout(ctx context.Context, userID int64) error {
	return u.adminRepo.DeleteSession(ctx, userID)
}

// IsAdmin admin ekanligini tekshirish
func (u *adminUseCase) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return u.adminRepo.IsAdmin(ctx, userID)
}

// UploadCatalog Excel fayldan katalogni yuklash
func (u *adminUseCase) UploadCatalog(ctx context.Context, userID int64, fileData []byte, filename string) (int, error) {
	isAdmin, err := u.adminRepo.IsAdmin(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !isAdmin {
		return 0, fmt.Errorf("user is not admin")
	}

	products, err := u.excelParser.ParseProductsFromBytes(ctx, fileData, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to parse excel: %w", err)
	}

	if len(products) == 0 {
		return 0, fmt.Errorf("no products found in excel file")
	}

	if err := u.catalog.ReplaceAll(ctx, products); err != nil {
		return 0, fmt.Errorf("failed to replace catalog: %w", err)
	}

	action := entity.AdminAction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    "upload_catalog",
		Details:   fmt.Sprintf("Uploaded %d products from %s", len(products), filename),
		Timestamp: time.Now(),
	}
	_ = u.adminRepo.LogAction(ctx, action)

	return len(products), nil
}

// RecentActions oxirgi admin harakatlari
func (u *adminUseCase) RecentActions(ctx context.Context, limit int) ([]entity.AdminAction, error) {
	return u.adminRepo.RecentActions(ctx, limit)
}

// GetCatalogInfo katalog haqida ma'lumot
func (u *adminUseCase) GetCatalogInfo(ctx context.Context) string {
	products := u.catalog.List(ctx)

	categories := make(map[string]int)
	var outOfStock, uncategorized int
	for _, product := range products {
		if product.Category == "" {
			uncategorized++
		} else {
			categories[product.Category]++
		}
		if product.Stock <= 0 {
			outOfStock++
		}
	}

	info := fmt.Sprintf("📦 Jami mahsulotlar: %d\n", len(products))
	info += fmt.Sprintf("🔴 Tugagan: %d ta\n\n", outOfStock)
	info += "📂 Kategoriyalar:\n"
	for _, cat := range u.catalog.Categories(ctx) {
		info += fmt.Sprintf("  • %s: %d ta\n", cat, categories[cat])
	}
	if uncategorized > 0 {
		info += fmt.Sprintf("  • Kategoriyasiz: %d ta\n", uncategorized)
	}

	return info
}
