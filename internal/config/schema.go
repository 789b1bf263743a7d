package config

// Config is the top-level configuration.
type Config struct {
	Discord  DiscordConfig `json:"discord"`
	Store    StoreConfig   `json:"store"`
	Bot      BotConfig     `json:"bot"`
	LogLevel string        `json:"logLevel"`
}

type DiscordConfig struct {
	Token string `json:"token"`
}

type StoreConfig struct {
	Path string `json:"path"`
}

type BotConfig struct {
	CommandPrefix string `json:"commandPrefix"`
	HomeZone      string `json:"homeZone"` // anchors "current time" displays
}

// DefaultConfig returns a Config with sensible defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{Path: "~/.zonebot/events_store.json"},
		Bot: BotConfig{
			CommandPrefix: "~",
			HomeZone:      "Pacific/Auckland",
		},
		LogLevel: "info",
	}
}
