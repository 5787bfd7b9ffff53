// Package config provides configuration types and loading for leadledger.
package config

// Config is the root configuration struct.
// Top-level groups: Paths, Email, Outreach, Notify.
type Config struct {
	Paths    PathsConfig    `json:"paths"`
	Email    EmailConfig    `json:"email"`
	Outreach OutreachConfig `json:"outreach"`
	Notify   NotifyConfig   `json:"notify"`
}

// PathsConfig groups filesystem path settings.
type PathsConfig struct {
	DataDir string `json:"dataDir" envconfig:"DATA_DIR"`
	DBPath  string `json:"dbPath" envconfig:"DB_PATH"`
}

// EmailConfig groups SMTP sending and rate-limit settings.
type EmailConfig struct {
	SMTPHost     string `json:"smtpHost" envconfig:"SMTP_HOST"`
	SMTPPort     int    `json:"smtpPort" envconfig:"SMTP_PORT"`
	Username     string `json:"username" envconfig:"SMTP_USERNAME"`
	PasswordEnv  string `json:"passwordEnv" envconfig:"SMTP_PASSWORD_ENV"`
	FromEmail    string `json:"fromEmail" envconfig:"FROM_EMAIL"`
	ReplyTo      string `json:"replyTo,omitempty" envconfig:"REPLY_TO"`
	Subject      string `json:"subject" envconfig:"EMAIL_SUBJECT"`
	TemplatePath string `json:"templatePath,omitempty" envconfig:"EMAIL_TEMPLATE_PATH"`

	RateLimit RateLimitConfig `json:"rateLimit"`
}

// RateLimitConfig bounds outreach volume. DailyLimit is the absolute per-day
// ceiling; MaxDailyIncrease bounds day-over-day growth; SkipSentDays is the
// per-contact cooldown window.
type RateLimitConfig struct {
	DailyLimit       int     `json:"dailyLimit" envconfig:"DAILY_LIMIT"`
	MaxDailyIncrease int     `json:"maxDailyIncrease" envconfig:"MAX_DAILY_INCREASE"`
	RunLimit         int     `json:"runLimit" envconfig:"RUN_LIMIT"`
	SkipSentDays     int     `json:"skipSentDays" envconfig:"SKIP_SENT_DAYS"`
	MinDelaySec      float64 `json:"minDelaySec" envconfig:"MIN_DELAY_SEC"`
	MaxDelaySec      float64 `json:"maxDelaySec" envconfig:"MAX_DELAY_SEC"`
}

// OutreachConfig groups cross-channel dedup settings.
type OutreachConfig struct {
	// ContactEvents is the contact-equivalent event set consulted by the
	// dedup policy. Empty falls back to the built-in default set.
	ContactEvents []string `json:"contactEvents,omitempty" envconfig:"CONTACT_EVENTS"`
}

// NotifyConfig configures the Telegram batch-summary notifier.
type NotifyConfig struct {
	TelegramEnabled bool   `json:"telegramEnabled" envconfig:"TELEGRAM_ENABLED"`
	TelegramToken   string `json:"telegramToken,omitempty" envconfig:"TELEGRAM_TOKEN"`
	TelegramChatID  string `json:"telegramChatId,omitempty" envconfig:"TELEGRAM_CHAT_ID"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir: "~/.leadledger",
			DBPath:  "~/.leadledger/activity.db",
		},
		Email: EmailConfig{
			SMTPHost:    "smtp.gmail.com",
			SMTPPort:    587,
			PasswordEnv: "SMTP_PASSWORD",
			Subject:     "Application: {title}",
			RateLimit: RateLimitConfig{
				DailyLimit:       30,
				MaxDailyIncrease: 30,
				RunLimit:         50,
				SkipSentDays:     90,
				MinDelaySec:      25,
				MaxDelaySec:      90,
			},
		},
	}
}
