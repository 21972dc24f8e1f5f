package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yourusername/sheet-store/internal/domain/constants"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	Port              string
	AllowedOrigins    []string
	JWTSecret         string
	AllowEmptySecrets bool

	PostgresDSN             string
	PostgresConnectAttempts int
	PostgresConnectDelay    time.Duration

	Google  GoogleConfig
	Catalog CatalogConfig
	Ledger  LedgerConfig

	TelegramToken     string
	AdminChatID       int64
	AdminChatThreadID int

	// Timezone IANA name used for ledger timestamps; empty keeps the host zone
	Timezone string
}

// GoogleConfig service-account credentials and target spreadsheet
type GoogleConfig struct {
	ClientEmail string
	PrivateKey  string
	SheetID     string
}

// Enabled reports whether the Sheets client can be built.
func (g GoogleConfig) Enabled() bool {
	return g.ClientEmail != "" && g.PrivateKey != "" && g.SheetID != ""
}

// CatalogConfig stock sheet layout and reconciliation cadence
type CatalogConfig struct {
	Range        string
	HeaderRows   int
	HiddenRange  string
	SyncInterval time.Duration
}

// LedgerConfig sales ledger mirror settings
type LedgerConfig struct {
	Range       string
	Workers     int
	QueueSize   int
	MaxAttempts int
	Timeout     time.Duration
	Backoff     time.Duration
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                    getEnv("PORT", constants.DefaultPort),
		AllowedOrigins:          splitList(os.Getenv("ALLOWED_ORIGINS")),
		JWTSecret:               strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AllowEmptySecrets:       getEnvBool("ALLOW_EMPTY_SECRETS", false),
		PostgresDSN:             strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		PostgresConnectAttempts: getEnvInt("POSTGRES_CONNECT_MAX_ATTEMPTS", constants.DefaultPostgresConnectAttempts),
		PostgresConnectDelay:    getEnvDuration("POSTGRES_CONNECT_RETRY_SECONDS", constants.DefaultPostgresConnectDelay),
		Google: GoogleConfig{
			ClientEmail: strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_EMAIL")),
			// escaped newlines come from single-line env files
			PrivateKey: strings.ReplaceAll(os.Getenv("GOOGLE_PRIVATE_KEY"), `\n`, "\n"),
			SheetID:    strings.TrimSpace(os.Getenv("GOOGLE_SHEET_ID")),
		},
		Catalog: CatalogConfig{
			Range:        getEnv("CATALOG_RANGE", constants.DefaultCatalogRange),
			HeaderRows:   getEnvInt("CATALOG_HEADER_ROWS", constants.DefaultCatalogHeaderRows),
			HiddenRange:  getEnv("HIDDEN_RANGE", constants.DefaultHiddenRange),
			SyncInterval: getEnvDuration("CATALOG_SYNC_INTERVAL", 0),
		},
		Ledger: LedgerConfig{
			Range:       getEnv("LEDGER_RANGE", constants.DefaultLedgerRange),
			Workers:     getEnvInt("LEDGER_WORKERS", constants.DefaultLedgerWorkers),
			QueueSize:   getEnvInt("LEDGER_QUEUE_SIZE", constants.DefaultLedgerQueueSize),
			MaxAttempts: getEnvInt("LEDGER_MAX_ATTEMPTS", constants.DefaultLedgerMaxAttempts),
			Timeout:     getEnvDuration("LEDGER_TIMEOUT", constants.DefaultLedgerTimeout),
			Backoff:     getEnvDuration("LEDGER_BACKOFF", constants.DefaultLedgerBackoff),
		},
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		Timezone:      strings.TrimSpace(os.Getenv("TIMEZONE")),
	}

	if cfg.PostgresDSN == "" {
		cfg.PostgresDSN = buildPostgresDSNFromEnv()
	}

	if raw := os.Getenv("ADMIN_CHAT_ID"); raw != "" {
		chatID, threadID, err := parseChatTarget(raw)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_CHAT_ID noto'g'ri formatda: %v", err)
		}
		cfg.AdminChatID = chatID
		cfg.AdminChatThreadID = threadID
	}

	if cfg.Catalog.HeaderRows < 0 {
		cfg.Catalog.HeaderRows = 0
	}
	if cfg.Ledger.Workers <= 0 {
		cfg.Ledger.Workers = constants.DefaultLedgerWorkers
	}
	if cfg.Ledger.QueueSize <= 0 {
		cfg.Ledger.QueueSize = constants.DefaultLedgerQueueSize
	}
	if cfg.Ledger.MaxAttempts <= 0 {
		cfg.Ledger.MaxAttempts = 1
	}

	// Validatsiya
	if !cfg.AllowEmptySecrets {
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET environment variable bo'sh")
		}
		if !cfg.Google.Enabled() {
			return nil, fmt.Errorf("missing Google credentials: GOOGLE_CLIENT_EMAIL, GOOGLE_PRIVATE_KEY and GOOGLE_SHEET_ID are required")
		}
	}

	return cfg, nil
}

func buildPostgresDSNFromEnv() string {
	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	password := os.Getenv("POSTGRES_PASSWORD")
	db := strings.TrimPrefix(strings.TrimSpace(os.Getenv("POSTGRES_DB")), "/")
	port := getEnv("POSTGRES_PORT", "5432")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	if host == "" || user == "" || db == "" {
		return ""
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + db,
	}
	if password == "" {
		u.User = url.User(user)
	} else {
		u.User = url.UserPassword(user, password)
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

func parseChatTarget(raw string) (int64, int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, 0, nil
	}
	// Inline kommentariyalarni qo'llab-quvvatlash: "-100.../4  # izoh"
	if idx := strings.Index(raw, "#"); idx >= 0 {
		raw = strings.TrimSpace(raw[:idx])
	}
	parts := strings.Split(raw, "/")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("noto'g'ri format, misol: -1001234567890 yoki -1001234567890/2")
	}

	chatID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, err
	}

	threadID := 0
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		tid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, fmt.Errorf("topic ID noto'g'ri: %v", err)
		}
		if tid < 0 {
			tid = -tid
		}
		threadID = tid
	}

	return chatID, threadID, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}

// getEnvDuration accepts Go durations ("90s", "5m") or plain seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}
