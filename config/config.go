package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultServerAddress = ":8080"
	defaultDatabaseDSN   = ""
	defaultLogLevel      = "debug"
	defaultSMTPHost      = "smtp.gmail.com"
	defaultSMTPPort      = 587
	defaultMailFrom      = "orders@ekart.example"
)

type Config struct {
	ServerAddr        string
	DatabaseDSN       string
	LogLevel          string
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPassword      string
	MailFrom          string
	AdminPasswordHash string
	TokenKey          string
	KafkaBrokers      []string
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		// optional .env for local runs
		_ = godotenv.Load()

		cfg := Config{
			SMTPHost: defaultSMTPHost,
			SMTPPort: defaultSMTPPort,
			MailFrom: defaultMailFrom,
		}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "ekart server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "ekart database DSN")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if dataBaseURIEnv := os.Getenv("DATABASE_URI"); dataBaseURIEnv != "" {
			cfg.DatabaseDSN = dataBaseURIEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if smtpHostEnv := os.Getenv("SMTP_HOST"); smtpHostEnv != "" {
			cfg.SMTPHost = smtpHostEnv
		}
		if smtpPortEnv := os.Getenv("SMTP_PORT"); smtpPortEnv != "" {
			if port, err := strconv.Atoi(smtpPortEnv); err == nil {
				cfg.SMTPPort = port
			}
		}
		cfg.SMTPUser = os.Getenv("SMTP_USER")
		cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
		if mailFromEnv := os.Getenv("MAIL_FROM"); mailFromEnv != "" {
			cfg.MailFrom = mailFromEnv
		}
		cfg.AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
		cfg.TokenKey = os.Getenv("AUTH_TOKEN_KEY")
		cfg.KafkaBrokers = splitCSV(os.Getenv("KAFKA_BROKERS"))

		singleton = &cfg
	})

	return singleton, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
