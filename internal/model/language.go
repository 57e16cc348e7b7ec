// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// =============================================================================
// INTERFACE LANGUAGE
// =============================================================================

// DefaultLanguage is the interface language used when none is configured.
const DefaultLanguage = "en"

// supportedLanguages are the interface languages the UI offers. Other valid
// BCP 47 tags are accepted from config and passed through to the responder.
var supportedLanguages = []string{"en", "es", "fr", "hi", "zh"}

// SupportedLanguages returns the interface languages offered by the UI.
func SupportedLanguages() []string {
	out := make([]string, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// NormalizeLanguage parses a language code and returns its canonical base
// form ("en-US" becomes "en"). Unparseable codes fall back to the default.
func NormalizeLanguage(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return DefaultLanguage
	}
	base, _ := tag.Base()
	return base.String()
}

// LanguageDisplayName returns the self-describing name of a language code
// ("es" -> "español"). Unparseable codes return the code unchanged.
func LanguageDisplayName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	return display.Self.Name(tag)
}
