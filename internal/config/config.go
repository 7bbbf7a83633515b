package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBDSN     string
	JWTSecret string
	TokenDays int // bearer token validity in days
	UploadDir string
	LogFile   string
}

func Load() Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "minimart.db" // sqlite file in project root
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-secret"
		log.Println("[config] JWT_SECRET not set, using insecure dev default")
	}
	days := 30
	if v := os.Getenv("TOKEN_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	uploads := os.Getenv("UPLOAD_DIR")
	if uploads == "" {
		uploads = "./web/media/uploads"
	}
	logFile := os.Getenv("LOG_FILE")

	cfg := Config{Port: port, DBDSN: dsn, JWTSecret: secret, TokenDays: days, UploadDir: uploads, LogFile: logFile}
	log.Printf("[config] PORT=%s DB_DSN=%s UPLOAD_DIR=%s TOKEN_DAYS=%d", cfg.Port, cfg.DBDSN, cfg.UploadDir, cfg.TokenDays)
	return cfg
}
