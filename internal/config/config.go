package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Karan545/hyperliquid-pnl-tracker/internal/models"
)

// Config holds application configuration.
type Config struct {
	Wallet    string
	APIURL    string // empty selects the production endpoint
	OutputDir string
}

const (
	// MinWalletLen is the minimum plausible wallet address length.
	MinWalletLen = 8

	MinLookbackDays = 1
	MaxLookbackDays = 90

	dateFmt = "2006-01-02"
)

// Load reads configuration from environment variables (and optional
// .env file). CLI flag values can be passed in to override env vars.
func Load(flagWallet, flagAPIURL, flagOutputDir string) (*Config, error) {
	// Load .env file if it exists (ignoring errors if missing)
	_ = godotenv.Load()

	cfg := &Config{
		Wallet:    envOrDefault("HL_WALLET", ""),
		APIURL:    envOrDefault("HL_API_URL", ""),
		OutputDir: envOrDefault("HL_OUTPUT_DIR", "."),
	}

	// CLI flags override env vars
	if flagWallet != "" {
		cfg.Wallet = flagWallet
	}
	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}

	if err := ValidateWallet(cfg.Wallet); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateWallet checks that a wallet address is plausible before any
// network call is made.
func ValidateWallet(wallet string) error {
	if wallet == "" {
		return fmt.Errorf("wallet address required: set --wallet flag or HL_WALLET in .env")
	}
	if len(wallet) < MinWalletLen {
		return fmt.Errorf("wallet address %q too short: need at least %d characters", wallet, MinWalletLen)
	}
	return nil
}

// ResolveWindow translates the caller's date inputs into a TimeWindow.
// Either explicit --from/--to dates (yyyy-mm-dd) or a rolling --days
// lookback may be given, not both. With neither, the window defaults
// to the current month to date.
func ResolveWindow(fromStr, toStr string, days int, now time.Time) (models.TimeWindow, error) {
	if days != 0 && (fromStr != "" || toStr != "") {
		return models.TimeWindow{}, fmt.Errorf("--days cannot be combined with --from/--to")
	}

	if days != 0 {
		if days < MinLookbackDays || days > MaxLookbackDays {
			return models.TimeWindow{}, fmt.Errorf("--days must be between %d and %d, got %d", MinLookbackDays, MaxLookbackDays, days)
		}
		return models.WindowFromLookback(now, days), nil
	}

	from := firstOfMonth(now)
	to := now

	if fromStr != "" {
		var err error
		from, err = time.ParseInLocation(dateFmt, fromStr, now.Location())
		if err != nil {
			return models.TimeWindow{}, fmt.Errorf("invalid --from date %q (use yyyy-mm-dd): %w", fromStr, err)
		}
	}
	if toStr != "" {
		var err error
		to, err = time.ParseInLocation(dateFmt, toStr, now.Location())
		if err != nil {
			return models.TimeWindow{}, fmt.Errorf("invalid --to date %q (use yyyy-mm-dd): %w", toStr, err)
		}
	}

	window := models.WindowFromDates(from, to)
	if window.FromMillis > window.ToMillis {
		return models.TimeWindow{}, fmt.Errorf("--from date %s must not be after --to date %s", from.Format(dateFmt), to.Format(dateFmt))
	}

	return window, nil
}

func firstOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
