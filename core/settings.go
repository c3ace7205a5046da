package core

import "time"

// Settings represents the main configuration for the application.
// It is loaded once at startup and never mutated afterwards.
type Settings struct {
	Pairs          []string         // Trading pairs to track, in report order
	UpdateInterval time.Duration    // Broadcast period, whole minutes, >= 1m
	Debug          bool             // Lower the log level to debug
	Telegram       TelegramSettings // Telegram transport settings
	Bitso          BitsoSettings    // Bitso quote service settings
}

// TelegramSettings holds configuration for the Telegram transport.
type TelegramSettings struct {
	Token string // Bot API token
}

// BitsoSettings holds configuration for the Bitso REST API.
type BitsoSettings struct {
	BaseURL string // API base URL, e.g. https://api.bitso.com/v3
}

// Validate reports the first fatal configuration problem, if any.
func (s *Settings) Validate() error {
	switch {
	case s.Telegram.Token == "":
		return ErrTokenEmpty
	case len(s.Pairs) == 0:
		return ErrNoPairs
	case s.UpdateInterval < time.Minute:
		return ErrInvalidInterval
	}
	return nil
}
