// Package langmeta provides display metadata (English and native names,
// emoji flags) for the language codes used by the benchmark, such as
// "cs_CZ", "ja_JP" or "sr_Cyrl_RS".
package langmeta

import "strings"

// Meta describes language display metadata.
type Meta struct {
	Name   string
	Native string
	Flag   string
}

// Registry contains canonical language metadata keyed by BCP 47 style codes.
// Locale variants are resolved in Resolve() via normalization and base fallback.
var Registry = map[string]Meta{
	"ar":         {Name: "Arabic", Native: "العربية"},
	"ar-EG":      {Name: "Egyptian Arabic", Native: "العربية (مصر)"},
	"bho-IN":     {Name: "Bhojpuri", Native: "भोजपुरी"},
	"cs":         {Name: "Czech", Native: "Čeština"},
	"cs-CZ":      {Name: "Czech", Native: "Čeština"},
	"de":         {Name: "German", Native: "Deutsch"},
	"de-DE":      {Name: "German", Native: "Deutsch"},
	"en":         {Name: "English", Native: "English", Flag: "🇬🇧"},
	"et":         {Name: "Estonian", Native: "Eesti"},
	"et-EE":      {Name: "Estonian", Native: "Eesti"},
	"is":         {Name: "Icelandic", Native: "Íslenska"},
	"is-IS":      {Name: "Icelandic", Native: "Íslenska"},
	"it":         {Name: "Italian", Native: "Italiano"},
	"it-IT":      {Name: "Italian", Native: "Italiano"},
	"ja":         {Name: "Japanese", Native: "日本語"},
	"ja-JP":      {Name: "Japanese", Native: "日本語"},
	"ko":         {Name: "Korean", Native: "한국어"},
	"ko-KR":      {Name: "Korean", Native: "한국어"},
	"mas-KE":     {Name: "Maasai", Native: "Maa"},
	"ru":         {Name: "Russian", Native: "Русский"},
	"ru-RU":      {Name: "Russian", Native: "Русский"},
	"sr":         {Name: "Serbian", Native: "Српски"},
	"sr-Cyrl-RS": {Name: "Serbian (Cyrillic)", Native: "Српски"},
	"sr-Latn-RS": {Name: "Serbian (Latin)", Native: "Srpski"},
	"uk":         {Name: "Ukrainian", Native: "Українська"},
	"uk-UA":      {Name: "Ukrainian", Native: "Українська"},
	"zh":         {Name: "Chinese", Native: "中文"},
	"zh-CN":      {Name: "Chinese (Simplified)", Native: "简体中文"},
	"zh-TW":      {Name: "Chinese (Traditional)", Native: "繁體中文"},
}

// canonicalize turns "sr_cyrl_rs" into "sr-Cyrl-RS": lowercase language,
// title-case script and uppercase region.
func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	for i := 1; i < len(parts); i++ {
		if len(parts[i]) == 4 {
			parts[i] = strings.ToUpper(parts[i][:1]) + strings.ToLower(parts[i][1:])
		} else {
			parts[i] = strings.ToUpper(parts[i])
		}
	}
	return strings.Join(parts, "-")
}

// Region returns the region subtag of a language code, or "".
func Region(lang string) string {
	parts := strings.Split(canonicalize(lang), "-")
	if len(parts) < 2 {
		return ""
	}
	last := parts[len(parts)-1]
	if len(last) != 2 {
		return ""
	}
	return last
}

// FlagFromRegion returns the emoji flag of a two-letter region code, or "".
func FlagFromRegion(region string) string {
	if len(region) != 2 {
		return ""
	}
	region = strings.ToUpper(region)
	var b strings.Builder
	for _, r := range region {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}

// Resolve returns best-effort language metadata for language codes,
// supporting variants like cs_CZ, cs-CZ, and base-language fallbacks.
// The flag follows the region subtag when there is one.
func Resolve(lang string) Meta {
	normalized := canonicalize(lang)
	m, ok := Registry[normalized]
	if !ok {
		m, ok = Registry[strings.SplitN(normalized, "-", 2)[0]]
	}
	if !ok {
		m = Meta{Name: lang, Native: lang}
	}
	if flag := FlagFromRegion(Region(lang)); flag != "" {
		m.Flag = flag
	}
	return m
}
