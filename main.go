package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/jmzabaleta/Jenweb-M/config"
	"github.com/jmzabaleta/Jenweb-M/internal/delivery/telegram"
	"github.com/jmzabaleta/Jenweb-M/internal/infrastructure/parser"
	"github.com/jmzabaleta/Jenweb-M/internal/infrastructure/storage"
	"github.com/jmzabaleta/Jenweb-M/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Konfiguratsiyani yuklashda xatolik: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	kvStore, err := storage.NewSQLiteKVStore(cfg.DataDBPath)
	if err != nil {
		log.Fatalf("SQLite bazasini ochishda xatolik: %v", err)
	}
	defer kvStore.Close()

	catalogRepo := storage.NewKVCatalogRepository(kvStore)
	salesRepo := storage.NewKVSalesRepository(kvStore)
	adminRepo := storage.NewMemoryAdminRepository()
	excelParser := parser.NewExcelParser()

	// Use case lar
	catalogUseCase := usecase.NewCatalogUseCase(ctx, catalogRepo)
	saleUseCase := usecase.NewSaleUseCase(catalogUseCase, salesRepo)
	adminUseCase := usecase.NewAdminUseCase(cfg.AdminPassword, adminRepo, catalogUseCase, excelParser)

	// Telegram bot
	botHandler, err := telegram.NewBotHandler(
		cfg.TelegramToken,
		cfg.DefaultPageSize,
		catalogUseCase,
		saleUseCase,
		adminUseCase,
	)
	if err != nil {
		log.Fatalf("Botni yaratishda xatolik: %v", err)
	}

	log.Println("🛍 Do'kon boti ishga tushmoqda...")

	if err := botHandler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Bot xatosi: %v", err)
	}

	log.Println("Bot to'xtadi.")
}
