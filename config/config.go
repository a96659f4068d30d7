package config

import (
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents an app config.
type Config struct {
	Telegram   Telegram
	Poll       Poll
	Debug      Debug
	Cache      Cache
	Hook       Hook
	PostgreSQL PostgreSQL
	Logger     Logger
}

// Telegram represents a telegram bot configuration.
type Telegram struct {
	APIURL      string `env:"TELEGRAM_API_URL" env-default:"https://api.telegram.org/bot"`
	BotToken    string `env:"TELEGRAM_TOKEN"`
	BotName     string `env:"TELEGRAM_BOT_NAME"`
	UpdatesType string `env:"TELEGRAM_UPDATES_TYPE" env-default:"polling"`
}

// Poll represents a long polling configuration.
type Poll struct {
	// Sleep is a delay in seconds between poll cycles.
	Sleep int `env:"TELEGRAM_POLL_SLEEP" env-default:"2"`
	// Limit is a maximum number of updates per getUpdates batch.
	Limit int `env:"TELEGRAM_POLL_LIMIT" env-default:"100"`
	// Timeout is a long poll hold time in seconds.
	Timeout int `env:"TELEGRAM_POLL_TIMEOUT" env-default:"50"`
	// Gap is a safety margin added to the request timeout so the HTTP
	// client always outlives the server-side long poll hold.
	Gap int `env:"TELEGRAM_POLL_GAP" env-default:"15"`
}

// Debug represents a http debugging configuration.
type Debug struct {
	HTTP bool `env:"TELEGRAM_DEBUG_HTTP" env-default:"false"`
	// ChatID forces sending all outgoing messages to this chat,
	// bot must be a member of the chat.
	ChatID int64 `env:"TELEGRAM_DEBUG_CHAT_ID" env-default:"0"`
}

// Cache represents an update offset cache configuration.
type Cache struct {
	Key string `env:"TELEGRAM_CACHE_KEY" env-default:"telegram"`
}

// Hook represents a webhook configuration.
type Hook struct {
	// URL is an externally resolvable address telegram will push updates to.
	URL string `env:"TELEGRAM_HOOK_URL"`
	// Path is a route prefix the webhook server listens on.
	Path          string `env:"TELEGRAM_HOOK_PATH" env-default:"/telegram/hook/"`
	ServerAddress string `env:"TELEGRAM_HOOK_SERVER_ADDRESS" env-default:":8443"`
}

// PostgreSQL represents a postgreSQL database configuration.
type PostgreSQL struct {
	User     string `env:"POSTGRESQL_USER" env-default:""`
	Password string `env:"POSTGRESQL_PASSWORD" env-default:""`
	Database string `env:"POSTGRESQL_DATABASE" env-default:""`
	Host     string `env:"POSTGRESQL_HOST" env-default:"localhost"`
	Port     string `env:"POSTGRESQL_PORT" env-default:"5432"`
	SSLMode  string `env:"POSTGRESQL_SSL_MODE" env-default:"disable"`
}

// Logger represents a logger configuration.
type Logger struct {
	LogLevel        string `env:"TB_LOGGER_LOG_LEVEL" env-default:"debug"`
	LogFilename     string `env:"TB_LOGGER_LOG_FILENAME" env-default:""`
	PrettyLogOutput bool   `env:"TB_LOGGER_PRETTY_LOG_OUTPUT" env-default:"false"`
}

var (
	config Config
	once   sync.Once
)

// Get returns a new config.
func Get() *Config {
	once.Do(func() {
		err := cleanenv.ReadEnv(&config)
		if err != nil {
			log.Fatalf("read env: %v", err)
		}
	})

	return &config
}
