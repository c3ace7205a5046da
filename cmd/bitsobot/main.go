package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/raykavin/bitsobot"
	"github.com/raykavin/bitsobot/bot"
	"github.com/raykavin/bitsobot/core"
	"github.com/raykavin/bitsobot/exchange/bitso"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// Environment variable names
const (
	envToken    = "TELEGRAM_TOKEN"
	envPairs    = "TRADING_PAIRS"
	envInterval = "UPDATE_INTERVAL"
	envBaseURL  = "BITSO_API_URL"
	envDebug    = "DEBUG"
)

// defaultPairs are the Bitso books tracked when TRADING_PAIRS is unset.
var defaultPairs = []string{"btc_mxn", "eth_mxn", "xrp_mxn", "sol_mxn", "usdt_mxn"}

func main() {
	rootCmd := &cobra.Command{
		Use:     "bitsobot",
		Short:   "Telegram bot broadcasting Bitso prices",
		Version: "1.0.0",
		RunE:    run,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// A missing .env file is fine; variables may come from the process env
	if err := godotenv.Load(); err != nil {
		bitsobot.DefaultLog.Debug("no .env file loaded")
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	log := bitsobot.DefaultLog
	if settings.Debug {
		log.SetLevel(core.DebugLevel)
	}

	exchange := bitso.NewExchange(settings.Bitso.BaseURL, log)

	app, err := bot.NewBot(settings, exchange, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	return nil
}

// loadSettings builds the immutable application settings from the
// environment. A missing token is a fatal startup error.
func loadSettings() (*core.Settings, error) {
	token := os.Getenv(envToken)
	if token == "" {
		return nil, fmt.Errorf("%s not found in environment: %w", envToken, core.ErrTokenEmpty)
	}

	interval, err := parseInterval(getEnvWithDefault(envInterval, "1"))
	if err != nil {
		return nil, err
	}

	return &core.Settings{
		Pairs:          parsePairs(getEnvWithDefault(envPairs, "")),
		UpdateInterval: interval,
		Debug:          strings.EqualFold(os.Getenv(envDebug), "true"),
		Telegram:       core.TelegramSettings{Token: token},
		Bitso:          core.BitsoSettings{BaseURL: getEnvWithDefault(envBaseURL, bitso.DefaultBaseURL)},
	}, nil
}

// parseInterval converts a whole-minute count into a duration, rejecting
// anything below one minute.
func parseInterval(raw string) (time.Duration, error) {
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envInterval, raw, err)
	}

	if minutes < 1 {
		return 0, core.ErrInvalidInterval
	}

	return time.Duration(minutes) * time.Minute, nil
}

// parsePairs splits a comma-separated book list, normalizing case and
// dropping empty entries. The default list is used when unset.
func parsePairs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return defaultPairs
	}

	return lo.FilterMap(strings.Split(raw, ","), func(pair string, _ int) (string, bool) {
		pair = strings.ToLower(strings.TrimSpace(pair))
		return pair, pair != ""
	})
}

// getEnvWithDefault returns the value of the environment variable or the default if not set
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
