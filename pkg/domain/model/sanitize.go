package model

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
)

// Per-field ceilings for free text
const (
	MaxActionTextLength = 500
	MaxFieldLength      = 1000
	MaxMessageLength    = 2000
)

// unicodeSpace matches any Unicode space separator as well as NEL and the ASCII
// whitespace that \s covers. RE2's \s alone is ASCII-only.
const unicodeSpace = `[\s\x{85}\p{Z}]`

// injectionPatterns are matched case-insensitively after control characters are
// stripped. Every \s in a pattern is widened to unicodeSpace.
var injectionPatterns = compilePatterns(
	`ignore\s+(all\s+)?previous\s+instructions?`,
	`disregard\s+(all\s+)?(previous\s+)?instructions?`,
	`forget\s+(your\s+)?instructions?`,
	`you\s+are\s+now\s+`,
	`\bsystem\s*:`,
	`\bassistant\s*:`,
	`<\|im_start\|>`,
	`<\|im_end\|>`,
	`<\|endoftext\|>`,
)

// controlChars excludes \n (0x0A) and \r (0x0D)
var controlChars = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")

func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile("(?i)" + strings.ReplaceAll(p, `\s`, unicodeSpace))
	}
	return compiled
}

// SanitizeText trims, bounds, strips control characters from and screens free text for
// prompt-injection signatures. The checks run in that order, so an oversized text is
// reported as oversized even if it also contains an injection phrase.
func SanitizeText(text, fieldName string, maxLength int) (string, error) {
	value := strings.TrimSpace(text)
	if value == "" {
		return "", goerr.Wrap(ErrValidation, fieldName+" must not be empty",
			goerr.V(FieldNameKey, fieldName))
	}

	if utf8.RuneCountInString(value) > maxLength {
		return "", goerr.Wrap(ErrValidation, fieldName+" exceeds maximum length",
			goerr.V(FieldNameKey, fieldName),
			goerr.V(MaxLengthKey, maxLength))
	}

	value = controlChars.ReplaceAllString(value, "")

	for _, p := range injectionPatterns {
		if p.MatchString(value) {
			return "", goerr.Wrap(ErrValidation, fieldName+" contains disallowed content",
				goerr.V(FieldNameKey, fieldName))
		}
	}

	return value, nil
}
