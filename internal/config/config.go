package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"dekugames/internal/catalog"
)

type Config struct {
	// HTTP Server
	Port     string `envconfig:"PORT" default:"8081"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Backend selection
	DataBackend   string `envconfig:"DATA_BACKEND" default:"memory"`
	InventoryFile string `envconfig:"INVENTORY_FILE" default:"data/inventory.json"`

	// SQLite
	SQLiteDBPath string `envconfig:"SQLITE_DB_PATH" default:"./data/dekugames.db"`
	SeedFile     string `envconfig:"SEED_FILE"`

	// Postgres (hosted store)
	PostgresDSN      string `envconfig:"DATABASE_URL"`
	PostgresMaxConns int32  `envconfig:"PG_MAX_CONNS" default:"10"`
	PostgresMinConns int32  `envconfig:"PG_MIN_CONNS" default:"1"`

	// Google Sheets
	GoogleSpreadsheetID      string `envconfig:"GOOGLE_SPREADSHEET_ID"`
	GoogleAccountsSheet      string `envconfig:"GOOGLE_ACCOUNTS_SHEET" default:"Accounts"`
	GoogleTransactionsSheet  string `envconfig:"GOOGLE_TRANSACTIONS_SHEET" default:"Transactions"`
	GoogleServiceAccountJSON string `envconfig:"GOOGLE_SERVICE_ACCOUNT_JSON"`
	GoogleServiceAccountFile string `envconfig:"GOOGLE_SERVICE_ACCOUNT_FILE"`

	// AMQP (optional purchase intent audit)
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"dekugames"`
	AMQPQueue    string `envconfig:"AMQP_QUEUE" default:"purchase_intents"`

	// Catalog
	CatalogTTL      time.Duration `envconfig:"CATALOG_TTL" default:"60s"`
	CatalogRefresh  time.Duration `envconfig:"CATALOG_REFRESH" default:"5m"`
	CatalogOverlap  string        `envconfig:"CATALOG_OVERLAP" default:"cross_list"`
	CatalogLanguage string        `envconfig:"CATALOG_LANGUAGE" default:"en"`
	PageSize        int           `envconfig:"PAGE_SIZE" default:"12"`
	ResultCacheSize int           `envconfig:"RESULT_CACHE_SIZE" default:"256"`
	FetchTimeout    time.Duration `envconfig:"FETCH_TIMEOUT" default:"7s"`

	// Currency
	CLPAccountRate string `envconfig:"CLP_ACCOUNT_RATE" default:"1150"`
	CLPItemRate    string `envconfig:"CLP_ITEM_RATE" default:"1000"`
	DefaultCountry string `envconfig:"DEFAULT_COUNTRY" default:"US"`

	// Purchase deep link
	PurchaseChannel  string `envconfig:"PURCHASE_CHANNEL" default:"whatsapp"`
	WhatsAppPhone    string `envconfig:"WHATSAPP_PHONE"`
	TelegramUsername string `envconfig:"TELEGRAM_USERNAME"`
	SupportEmail     string `envconfig:"SUPPORT_EMAIL" default:"support@nintendostore.com"`

	// Seller notifications (intent worker)
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`

	// Cover assets
	CoversDir       string `envconfig:"COVERS_DIR" default:"public/game-covers"`
	CoversBucket    string `envconfig:"COVERS_BUCKET"`
	CoversPrefix    string `envconfig:"COVERS_PREFIX" default:"game-covers/"`
	CoversSearchURL string `envconfig:"COVERS_SEARCH_URL" default:"https://duckduckgo.com/?q=%s&iax=images&ia=images&format=json"`

	// Rate limiting
	RequestsPerMinute int `envconfig:"REQUESTS_PER_MINUTE" default:"120"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sqlite", "postgres", "sheets"}
	if !oneOf(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	case "postgres":
		if c.PostgresDSN == "" {
			errors = append(errors, "DATABASE_URL is required when using postgres backend")
		}
		if c.PostgresMaxConns < 1 {
			errors = append(errors, fmt.Sprintf("invalid PG_MAX_CONNS %d: must be at least 1", c.PostgresMaxConns))
		}
		if c.PostgresMinConns > c.PostgresMaxConns {
			errors = append(errors, "PG_MIN_CONNS cannot exceed PG_MAX_CONNS")
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.CatalogTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid catalog TTL %v: must be at least 1 second", c.CatalogTTL))
	}
	if c.CatalogRefresh < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid catalog refresh %v: must be at least 1 minute", c.CatalogRefresh))
	}
	if _, err := catalog.ParseOverlapPolicy(c.CatalogOverlap); err != nil {
		errors = append(errors, fmt.Sprintf("invalid CATALOG_OVERLAP: %v", err))
	}
	if _, err := language.Parse(c.CatalogLanguage); err != nil {
		errors = append(errors, fmt.Sprintf("invalid CATALOG_LANGUAGE '%s': %v", c.CatalogLanguage, err))
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		errors = append(errors, fmt.Sprintf("invalid page size %d: must be between 1 and 100", c.PageSize))
	}
	if c.ResultCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid result cache size %d: must be at least 1", c.ResultCacheSize))
	}

	for name, raw := range map[string]string{"CLP_ACCOUNT_RATE": c.CLPAccountRate, "CLP_ITEM_RATE": c.CLPItemRate} {
		if d, err := decimal.NewFromString(raw); err != nil || !d.IsPositive() {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': must be a positive number", name, raw))
		}
	}

	switch c.PurchaseChannel {
	case "whatsapp":
		if c.WhatsAppPhone != "" && strings.Trim(c.WhatsAppPhone, "+0123456789") != "" {
			errors = append(errors, fmt.Sprintf("invalid WHATSAPP_PHONE '%s': digits only", c.WhatsAppPhone))
		}
	case "telegram":
		if c.TelegramUsername == "" {
			errors = append(errors, "TELEGRAM_USERNAME is required when PURCHASE_CHANNEL is telegram")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid purchase channel '%s': must be whatsapp or telegram", c.PurchaseChannel))
	}

	if c.TelegramBotToken != "" && c.TelegramChatID == 0 {
		errors = append(errors, "TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	if c.RequestsPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid requests per minute %d: must be at least 1", c.RequestsPerMinute))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Overlap returns the parsed listing overlap policy.
func (c *Config) Overlap() catalog.OverlapPolicy {
	p, err := catalog.ParseOverlapPolicy(c.CatalogOverlap)
	if err != nil {
		return catalog.CrossList
	}
	return p
}

// Language returns the collation language for name sorts.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.CatalogLanguage)
	if err != nil {
		return language.English
	}
	return tag
}

// Rates returns the CLP conversion rates.
func (c *Config) Rates() (account, item decimal.Decimal) {
	account, err := decimal.NewFromString(c.CLPAccountRate)
	if err != nil {
		account = decimal.NewFromInt(1150)
	}
	item, err = decimal.NewFromString(c.CLPItemRate)
	if err != nil {
		item = decimal.NewFromInt(1000)
	}
	return account, item
}

func oneOf(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
