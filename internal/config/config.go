package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken    string  `envconfig:"BOT_TOKEN" required:"true"`
	AdminIDs    []int64 `envconfig:"ADMIN_IDS" required:"true"` // seed admin list, comma-separated
	ConfigPath  string  `envconfig:"CONFIG_PATH" default:"./data/config.json"`
	JournalPath string  `envconfig:"JOURNAL_PATH" default:"./data/journal.db"`
	TZName      string  `envconfig:"TZ_NAME" default:"Europe/Moscow"` // one zone for all chats
	LogLevel    string  `envconfig:"LOG_LEVEL" default:"info"`        // debug|info|warn|error
	HTTPAddr    string  `envconfig:"HTTP_ADDR" default:":8080"`       // healthz
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
