package i18n

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var (
	cat       = catalog.NewBuilder(catalog.Fallback(language.English))
	supported = []language.Tag{language.English, language.Indonesian}

	defaultMu  sync.RWMutex
	defaultTag = language.Indonesian
)

func init() {
	for key, text := range indonesian {
		_ = cat.SetString(language.English, key, key)
		_ = cat.SetString(language.Indonesian, key, text)
	}
}

// Parse maps a configured locale such as "id" or "en-US" to a supported tag,
// defaulting to Indonesian.
func Parse(locale string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return language.Indonesian
	}
	return Match(tag.String(), language.Indonesian)
}

// Match picks the best supported language for an Accept-Language header.
// fallback wins when the header is empty or names nothing we translate.
func Match(acceptLanguage string, fallback language.Tag) language.Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}

	_, idx, conf := language.NewMatcher(supported).Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supported[idx]
}

// SetDefault sets the language used when a request does not ask for one.
func SetDefault(tag language.Tag) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultTag = tag
}

func Default() language.Tag {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultTag
}

// FromHeader matches an Accept-Language header against the default language.
func FromHeader(acceptLanguage string) language.Tag {
	return Match(acceptLanguage, Default())
}

// T translates key for tag, formatting args into it.
func T(tag language.Tag, key string, args ...any) string {
	return message.NewPrinter(tag, message.Catalog(cat)).Sprintf(key, args...)
}

// FormatIDR renders an amount as whole rupiah with Indonesian digit grouping, e.g. "Rp 15.000".
func FormatIDR(amount decimal.Decimal) string {
	return message.NewPrinter(language.Indonesian).Sprintf("Rp %d", amount.Round(0).IntPart())
}
