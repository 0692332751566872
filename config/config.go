package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	TelegramToken   string
	AdminPassword   string // bo'sh bo'lsa admin panel o'chirilgan
	DataDBPath      string
	DefaultPageSize int
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	config := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		DataDBPath:      "data/jenapp.db",
		DefaultPageSize: 10,
	}

	if dbPath := os.Getenv("DATA_DB_PATH"); dbPath != "" {
		config.DataDBPath = dbPath
	}

	if rawSize := os.Getenv("DEFAULT_PAGE_SIZE"); rawSize != "" {
		if parsed, err := strconv.Atoi(rawSize); err == nil && parsed > 0 {
			config.DefaultPageSize = parsed
		} else {
			return nil, fmt.Errorf("DEFAULT_PAGE_SIZE noto'g'ri formatda: %q", rawSize)
		}
	}

	// Validatsiya
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable bo'sh")
	}

	return config, nil
}
