package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/danielhkuo/audsmash/weekkey"
)

const (
	DefaultPort           = 3318
	DefaultTotalsSchedule = "*/5 * * * *"
	DefaultRateLimit      = 5.0
	DefaultRateBurst      = 10
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	JWTSecret      string
	RedisURL       string
	CompetitionTZ  string
	TotalsSchedule string
	RateLimit      float64 // requests per second per client on mutating routes; 0 disables
	RateBurst      int
	TrustProxy     bool // key rate limits on X-Forwarded-For; only behind a proxy that sets it
}

// ParseFlags validates flags and fills the rest from the environment.
// A .env file, when present, seeds the environment first without
// overriding variables that are already set.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("audsmash", flag.ContinueOnError)

	fs.StringVar(&envFile, "env-file", ".env", "Optional dotenv file")

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for cross-instance events (optional)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "HS256 secret shared with the identity provider (prefer env)")

	// Competition
	fs.StringVar(&cfg.CompetitionTZ, "tz", "", "Competition time zone (IANA name, default UTC)")
	fs.StringVar(&cfg.TotalsSchedule, "totals-schedule", "", "Cron schedule for refreshing weekly totals")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", -1, "Requests per second per client on mutating routes (0 disables)")
	fs.IntVar(&cfg.RateBurst, "rate-burst", 0, "Burst size for the rate limiter")
	fs.BoolVar(&cfg.TrustProxy, "trust-proxy", false, "Trust X-Forwarded-For/X-Real-IP from a reverse proxy")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if cfg.CompetitionTZ == "" {
		cfg.CompetitionTZ = os.Getenv("COMPETITION_TZ")
	}
	if _, err := weekkey.NewCalendar(cfg.CompetitionTZ); err != nil {
		return Config{}, fmt.Errorf("invalid COMPETITION_TZ: %w", err)
	}

	if cfg.TotalsSchedule == "" {
		cfg.TotalsSchedule = os.Getenv("TOTALS_SCHEDULE")
		if cfg.TotalsSchedule == "" {
			cfg.TotalsSchedule = DefaultTotalsSchedule
		}
	}
	if _, err := cron.ParseStandard(cfg.TotalsSchedule); err != nil {
		return Config{}, fmt.Errorf("invalid TOTALS_SCHEDULE: %w", err)
	}

	if cfg.RateLimit < 0 {
		cfg.RateLimit = DefaultRateLimit
		if s := os.Getenv("RATE_LIMIT"); s != "" {
			limit, err := strconv.ParseFloat(s, 64)
			if err != nil || limit < 0 {
				return Config{}, errors.New("invalid RATE_LIMIT env variable")
			}
			cfg.RateLimit = limit
		}
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = DefaultRateBurst
		if s := os.Getenv("RATE_BURST"); s != "" {
			burst, err := strconv.Atoi(s)
			if err != nil || burst <= 0 {
				return Config{}, errors.New("invalid RATE_BURST env variable")
			}
			cfg.RateBurst = burst
		}
	}

	if !cfg.TrustProxy {
		if s := os.Getenv("TRUST_PROXY"); s != "" {
			trust, err := strconv.ParseBool(s)
			if err != nil {
				return Config{}, errors.New("invalid TRUST_PROXY env variable")
			}
			cfg.TrustProxy = trust
		}
	}

	return cfg, nil
}

// Calendar returns the competition calendar for cfg
func (c Config) Calendar() weekkey.Calendar {
	cal, err := weekkey.NewCalendar(c.CompetitionTZ)
	if err != nil {
		return weekkey.UTC
	}
	return cal
}
