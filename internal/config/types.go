package config

// Config is the on-disk configuration. YAML files are converted to JSON and
// decoded strictly, so unknown keys are rejected.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	Source   SourceConfig   `json:"source"`
	Notifier NotifierConfig `json:"notifier"`
	Schedule ScheduleConfig `json:"schedule"`
	Storage  StorageConfig  `json:"storage"`
	Logging  LoggingConfig  `json:"logging"`
	Status   StatusConfig   `json:"status"`
}

// SourceConfig locates the question list.
//
// Example:
//
//	source: { driver: http, url: "Ab12Cd34" }   # pastebin paste code
type SourceConfig struct {
	Driver  string `json:"driver,omitempty"` // "http" (default) | "file"
	URL     string `json:"url,omitempty"`
	Path    string `json:"path,omitempty"`
	Timeout string `json:"timeout,omitempty"`
}

// NotifierConfig selects the delivery channel.
//
// Driver values: "telegram", "discord", "log" (default, dry run).
// RetryMax is the number of extra attempts; unset means 2 and 0 or -1
// disables retries.
type NotifierConfig struct {
	Driver        string         `json:"driver,omitempty"`
	Timeout       string         `json:"timeout,omitempty"`
	RetryMax      *int           `json:"retry_max,omitempty"`
	RetryBase     string         `json:"retry_base,omitempty"`
	RetryMaxDelay string         `json:"retry_max_delay,omitempty"`
	RatePerSec    int            `json:"rate_per_sec,omitempty"`
	Telegram      TelegramConfig `json:"telegram"`
	Discord       DiscordConfig  `json:"discord"`
}

type TelegramConfig struct {
	Token     string `json:"token,omitempty"`
	ChatID    int64  `json:"chat_id,omitempty"`
	ThreadID  int    `json:"thread_id,omitempty"`
	LogChatID int64  `json:"log_chat_id,omitempty"`
	APIURL    string `json:"api_url,omitempty"`
}

type DiscordConfig struct {
	WebhookID    string `json:"webhook_id,omitempty"`
	WebhookToken string `json:"webhook_token,omitempty"`
	Username     string `json:"username,omitempty"`
	BaseURL      string `json:"base_url,omitempty"`
}

// ScheduleConfig controls when cycles run and when the question is posted.
type ScheduleConfig struct {
	// PostAt is the daily post time, "HH:MM" or "HH:MM:SS" (seconds ignored).
	PostAt string `json:"post_at,omitempty"`
	// Timezone for PostAt (IANA name). Empty means UTC.
	Timezone string `json:"timezone,omitempty"`
	// Tick is the cycle schedule: a cron expression, "@every 1m", or a duration.
	Tick         string `json:"tick,omitempty"`
	CycleTimeout string `json:"cycle_timeout,omitempty"`
	// ContinueOnError keeps the loop running after a failed cycle.
	// Off by default: a failed cycle stops the process.
	ContinueOnError bool `json:"continue_on_error,omitempty"`
}

// StorageConfig controls where questions are persisted.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./questions.json" }
type StorageConfig struct {
	Driver      string `json:"driver,omitempty"` // "file" (default) | "sqlite"
	Path        string `json:"path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

type LoggingConfig struct {
	Level   string      `json:"level,omitempty"`
	Console bool        `json:"console,omitempty"`
	File    LoggingFile `json:"file"`
	Chat    LoggingChat `json:"chat"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// LoggingChat forwards WARN+ (or MinLevel+) lines through the notifier.
// Only the telegram driver carries log lines.
type LoggingChat struct {
	Enabled    bool   `json:"enabled,omitempty"`
	MinLevel   string `json:"min_level,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
}

// StatusConfig enables the local status endpoint.
//
// Example:
//
//	status: { enabled: true, addr: "127.0.0.1:6060", pprof: true }
type StatusConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Addr    string `json:"addr,omitempty"`
	Token   string `json:"token,omitempty"`
	Pprof   bool   `json:"pprof,omitempty"`
}
