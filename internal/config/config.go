package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Twilio   TwilioConfig
	Reminder ReminderConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-required:"true"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-required:"true"`
	Password       string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Database       string        `env:"POSTGRES_DATABASE" env-required:"true"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type TwilioConfig struct {
	AccountSID     string        `env:"TWILIO_ACCOUNT_SID" env-required:"true"`
	AuthToken      string        `env:"TWILIO_AUTH_TOKEN" env-required:"true"`
	WhatsAppNumber string        `env:"TWILIO_WHATSAPP_NUMBER" env-required:"true"`
	SendTimeout    time.Duration `env:"TWILIO_SEND_TIMEOUT" env-default:"15s"`
}

// ReminderConfig holds the follow-up thresholds per priority class.
// AttentionAfter governs the dashboard "needs attention" view, which
// is deliberately looser than the non-priority follow-up reminder.
type ReminderConfig struct {
	SuperFollowUp       time.Duration `env:"REMINDER_SUPER_FOLLOW_UP" env-default:"12h"`
	PriorityFollowUp    time.Duration `env:"REMINDER_PRIORITY_FOLLOW_UP" env-default:"48h"`
	NonPriorityFollowUp time.Duration `env:"REMINDER_NON_PRIORITY_FOLLOW_UP" env-default:"120h"`
	AttentionAfter      time.Duration `env:"REMINDER_ATTENTION_AFTER" env-default:"168h"`
	DigestCap           int           `env:"REMINDER_DIGEST_CAP" env-default:"5"`
}
