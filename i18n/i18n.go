// Package i18n provides internationalization support for mtcollect's own
// user-facing messages.
//
// It wraps the gotext library to provide simple T() and N() functions.
// Translations are embedded in the binary via //go:embed and loaded at
// startup via Init().
//
// Usage:
//
//	i18n.Init("")  // auto-detect from MTCOLLECT_LANG/LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	logInfo(i18n.T("System: %s (%s)"), name, model)
//	logSuccess(i18n.N("Wrote %d file to %s", "Wrote %d files to %s", n), n, dir)
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the translation catalogs.
// Directory structure: locales/{lang}/LC_MESSAGES/mtcollect.po
//
//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name for mtcollect.
const domain = "mtcollect"

// po is the gotext locale object used for translations.
var po *gotext.Locale

// Init initializes the i18n system. If lang is empty, it is detected from
// the environment.
//
// Init should be called once at program startup, before any T() or N() calls.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T translates a string. If no translation is available, returns the
// original string unchanged (standard gettext passthrough behavior).
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N translates a string with plural forms. The singular form is used
// when n == 1, the plural form otherwise (exact rules depend on the
// target language's plural formula).
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// detectLanguage follows GNU gettext priority (LANGUAGE > LC_ALL >
// LC_MESSAGES > LANG) after an explicit MTCOLLECT_LANG.
func detectLanguage() string {
	for _, env := range []string{"MTCOLLECT_LANG", "LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if val := os.Getenv(env); val != "" {
			// LANGUAGE can be a colon-separated list; take the first
			if env == "LANGUAGE" {
				parts := strings.SplitN(val, ":", 2)
				val = parts[0]
			}
			// Strip encoding suffix (e.g. "cs_CZ.UTF-8" -> "cs_CZ")
			if idx := strings.IndexByte(val, '.'); idx >= 0 {
				val = val[:idx]
			}
			// "C" and "POSIX" mean no translation
			if val == "C" || val == "POSIX" || val == "" {
				continue
			}
			return val
		}
	}
	return "en"
}
