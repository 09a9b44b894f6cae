// Package i18n provides static message catalogues for the locales tddflow
// supports. Translators are plain values passed through request state; there
// is no process-wide locale singleton, so concurrent requests with different
// locales cannot interfere.
package i18n

import "strings"

// Locale identifies a message catalogue.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleZH Locale = "zh"
)

// ParseLocale maps a locale string to a supported locale, defaulting to
// English for anything unknown.
func ParseLocale(s string) Locale {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zh", "zh-cn", "zh-hans":
		return LocaleZH
	default:
		return LocaleEN
	}
}

// Translator resolves message keys against one locale's catalogue.
type Translator struct {
	locale Locale
}

// New returns a Translator for the given locale.
func New(locale Locale) Translator {
	return Translator{locale: locale}
}

// Locale reports the translator's locale.
func (t Translator) Locale() Locale {
	return t.locale
}

// T resolves key, interpolating {name} placeholders from pairs of
// name, value arguments. An unknown key renders as the key itself.
func (t Translator) T(key string, pairs ...string) string {
	msg, ok := catalogue(t.locale)[key]
	if !ok {
		// Fall back to English before giving up.
		msg, ok = catalogueEN[key]
		if !ok {
			msg = key
		}
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		msg = strings.ReplaceAll(msg, "{"+pairs[i]+"}", pairs[i+1])
	}
	return msg
}

func catalogue(l Locale) map[string]string {
	if l == LocaleZH {
		return catalogueZH
	}
	return catalogueEN
}
