package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// GatingMode decides what Predict is gated on.
type GatingMode string

const (
	GateByBalance GatingMode = "balance"
	GateByVIP     GatingMode = "vip"
)

type Config struct {
	Telegram   TelegramConfig
	Ledger     LedgerConfig
	Redis      RedisConfig
	Mongo      MongoConfig
	Sheets     SheetsConfig
	HealthAddr string
}

type TelegramConfig struct {
	BotToken string
	BotName  string
}

type LedgerConfig struct {
	DataFile       string
	VoucherFile    string
	SuperAdmins    []int64
	GatingMode     GatingMode
	Predictor      string
	PredictionCost int
	InitialBalance int
	InviteBonus    int
	FreeVIPCode    string
	FreeVIPDays    int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MongoConfig struct {
	URI      string
	Database string
}

type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	SheetName       string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: os.Getenv("BOT_TOKEN"),
			BotName:  getEnv("BOT_NAME", "md5hit_bot"),
		},
		Ledger: LedgerConfig{
			DataFile:       getEnv("DATA_FILE", "md5hit.json"),
			VoucherFile:    getEnv("VOUCHER_FILE", "vouchers.json"),
			SuperAdmins:    parseIDList(os.Getenv("ADMIN_IDS")),
			GatingMode:     GatingMode(getEnv("GATING_MODE", string(GateByBalance))),
			Predictor:      getEnv("PREDICTOR", "weighted"),
			PredictionCost: getEnvInt("PREDICTION_COST", 1),
			InitialBalance: getEnvInt("INITIAL_BALANCE", 10),
			InviteBonus:    getEnvInt("INVITE_BONUS_DAYS", 1),
			FreeVIPCode:    strings.ToUpper(getEnv("FREE_VIP_CODE", "CODEFREE7DAY")),
			FreeVIPDays:    getEnvInt("FREE_VIP_DAYS", 7),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnv("MONGO_DB", "md5hit"),
		},
		Sheets: SheetsConfig{
			CredentialsFile: getEnv("SHEETS_CREDENTIALS", "service-account.json"),
			SpreadsheetID:   os.Getenv("SHEETS_SPREADSHEET_ID"),
			SheetName:       getEnv("SHEETS_NAME", "sheet1"),
		},
		HealthAddr: getEnv("HEALTH_ADDR", ":8080"),
	}

	if cfg.Ledger.GatingMode != GateByBalance && cfg.Ledger.GatingMode != GateByVIP {
		cfg.Ledger.GatingMode = GateByBalance
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func parseIDList(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
