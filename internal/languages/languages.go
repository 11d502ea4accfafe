// Package languages maps target-language codes to display names and the
// style settings fed into translation prompts.
package languages

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Settings describes how a target language should be rendered.
type Settings struct {
	Code  string
	Name  string
	Style string // regional dialect and formality defaults for the prompts
}

// Curated settings for the languages sold on the site. Other valid BCP-47
// codes resolve with a display name and no style defaults.
var table = map[string]Settings{
	"es": {
		Code:  "es",
		Name:  "Spanish",
		Style: `Use Latin American Spanish as the default, but maintain universal readability. Use "tú" for informal address.`,
	},
	"fr": {
		Code:  "fr",
		Name:  "French",
		Style: "Use standard French (France) with clear, modern phrasing.",
	},
	"de": {
		Code:  "de",
		Name:  "German",
		Style: "Use standard German (Hochdeutsch) with clear sentence structure.",
	},
	"pt": {
		Code:  "pt",
		Name:  "Portuguese",
		Style: "Use Brazilian Portuguese as the default for wider readability.",
	},
}

// Resolve returns the settings for a language code.
func Resolve(code string) (Settings, error) {
	if s, ok := table[code]; ok {
		return s, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return Settings{}, fmt.Errorf("unsupported language code %q: %w", code, err)
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return Settings{}, fmt.Errorf("unsupported language code %q", code)
	}
	return Settings{Code: code, Name: name}, nil
}

// Validate checks an order's requested language list.
func Validate(codes []string) error {
	if len(codes) == 0 {
		return fmt.Errorf("at least one target language is required")
	}
	for _, code := range codes {
		if _, err := Resolve(code); err != nil {
			return err
		}
	}
	return nil
}
