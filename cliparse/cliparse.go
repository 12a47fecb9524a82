package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port              int
	DatabaseURL       string
	DatabaseType      string
	ElectionAPIURL    string
	ElectionAPIToken  string
	AdminKey          string
	RefreshInterval   time.Duration
	TickInterval      time.Duration
	NATSURL           string
	NATSSubjectPrefix string
	AllowedOrigins    []string
}

// ParseFlags validates flags and fills unset values from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var origins string

	fs := flag.NewFlagSet("votewatch", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.ElectionAPIURL, "api", "", "Election API base URL")
	fs.StringVar(&cfg.NATSURL, "nats", "", "NATS server URL (optional)")
	fs.StringVar(&cfg.NATSSubjectPrefix, "nats-prefix", "", "NATS subject prefix")
	fs.StringVar(&origins, "origins", "", "Comma separated CORS origins")

	// Timing
	fs.DurationVar(&cfg.RefreshInterval, "refresh", 0, "Interval between election API refreshes")
	fs.DurationVar(&cfg.TickInterval, "tick", 0, "Countdown tick interval")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.ElectionAPIToken, "api-token", "", "Election API bearer token (prefer env)")
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin key for manual refresh (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
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
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:votewatch.db"
	}

	if cfg.ElectionAPIURL == "" {
		cfg.ElectionAPIURL = os.Getenv("ELECTION_API_URL")
	}
	if cfg.ElectionAPIURL == "" {
		return Config{}, errors.New("election API URL required (use -api or ELECTION_API_URL env)")
	}
	cfg.ElectionAPIURL = strings.TrimRight(cfg.ElectionAPIURL, "/")

	var err error
	if cfg.RefreshInterval, err = durationFromEnv(cfg.RefreshInterval, "REFRESH_INTERVAL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.TickInterval, err = durationFromEnv(cfg.TickInterval, "TICK_INTERVAL", time.Second); err != nil {
		return Config{}, err
	}

	if cfg.NATSURL == "" {
		cfg.NATSURL = os.Getenv("NATS_URL")
	}
	if cfg.NATSSubjectPrefix == "" {
		cfg.NATSSubjectPrefix = os.Getenv("NATS_SUBJECT_PREFIX")
		if cfg.NATSSubjectPrefix == "" {
			cfg.NATSSubjectPrefix = "positions.phase"
		}
	}

	if origins == "" {
		origins = os.Getenv("ALLOWED_ORIGINS")
	}
	cfg.AllowedOrigins = splitList(origins)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	// Secrets
	if cfg.ElectionAPIToken == "" {
		cfg.ElectionAPIToken = os.Getenv("ELECTION_API_TOKEN")
	}

	if cfg.AdminKey == "" {
		cfg.AdminKey = os.Getenv("ADMIN_KEY")
	}
	if cfg.AdminKey == "" {
		return Config{}, errors.New("ADMIN_KEY required")
	}

	return cfg, nil
}

func durationFromEnv(current time.Duration, key string, def time.Duration) (time.Duration, error) {
	if current > 0 {
		return current, nil
	}
	if s := os.Getenv(key); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("invalid %s env variable", key)
		}
		return d, nil
	}
	return def, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
