package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var ErrLocaleUnavailable = errors.New("locale unavailable")

// LocaleUnavailableError reports a configured locale that names no
// language. It is recovered by using the platform locale.
type LocaleUnavailableError struct {
	Locale string
	Err    error
}

func (e *LocaleUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("locale %q unavailable: %v", e.Locale, e.Err)
	}
	return fmt.Sprintf("locale %q unavailable", e.Locale)
}

func (e *LocaleUnavailableError) Unwrap() error {
	return ErrLocaleUnavailable
}

// ParseLocale resolves a POSIX (pt_BR.UTF-8) or BCP 47 (pt-BR) locale name
// to a tag. Languages without a collation tailoring sort with the root
// collation.
func ParseLocale(name string) (language.Tag, error) {
	clean := name
	if i := strings.IndexAny(clean, ".@"); i >= 0 {
		clean = clean[:i]
	}
	clean = strings.ReplaceAll(clean, "_", "-")
	if clean == "" || clean == "C" || clean == "POSIX" {
		return language.Und, &LocaleUnavailableError{Locale: name}
	}
	tag, err := language.Parse(clean)
	if err != nil {
		return language.Und, &LocaleUnavailableError{Locale: name, Err: err}
	}
	if _, conf := tag.Base(); conf == language.No {
		return language.Und, &LocaleUnavailableError{Locale: name}
	}
	return tag, nil
}

// PlatformLocale returns the locale of the environment, or English.
func PlatformLocale() language.Tag {
	for _, env := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		if v := os.Getenv(env); v != "" {
			if tag, err := ParseLocale(v); err == nil {
				return tag
			}
		}
	}
	return language.English
}

// Locale returns the first configured locale. An unsupported locale falls
// back to the platform one with a log line.
func (s Settings) Locale(logger *slog.Logger) language.Tag {
	if logger == nil {
		logger = slog.Default()
	}
	tag, err := s.locale()
	if err != nil {
		logger.Warn("using platform locale", "error", err, "locale", tag.String())
	}
	return tag
}

// locale resolves the first configured locale, returning the platform one
// together with the parse error when it is unusable.
func (s Settings) locale() (language.Tag, error) {
	if len(s.Locales) == 0 {
		return PlatformLocale(), nil
	}
	tag, err := ParseLocale(s.Locales[0])
	if err != nil {
		return PlatformLocale(), err
	}
	return tag, nil
}

// Compare returns a locale aware string comparison for tag. The collator
// is not safe for concurrent use, so the returned function must stay on
// one goroutine.
func Compare(tag language.Tag) func(a, b string) int {
	c := collate.New(tag, collate.IgnoreCase)
	return c.CompareString
}
