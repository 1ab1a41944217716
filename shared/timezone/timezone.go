package timezone

import (
	"errors"
	"eventhub/config"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location

	ErrNoLayoutMatched = errors.New("value does not match any accepted layout")
)

func init() {
	cfg := config.Get()

	if cfg.App.Timezone == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		cfg.App.Timezone = "UTC"
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error().Err(err).Str("timezone", cfg.App.Timezone).Msg("Failed to load timezone, falling back to UTC")
		appLocation = time.UTC

		return
	}

	appLocation = loc
	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

// GetLocation returns the application timezone location.
func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone.
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse parses a time string in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

// ParseAny tries each layout in order and returns the first successful parse.
func ParseAny(value string, layouts ...string) (time.Time, error) {
	for _, layout := range layouts {
		parsed, err := Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, ErrNoLayoutMatched
}

// Format formats a time in the application timezone.
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
