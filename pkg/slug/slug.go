package slug

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Letters that do not decompose under NFKD.
var folds = map[rune]string{
	'ß': "ss", 'ł': "l", 'Ł': "L", 'đ': "d", 'Đ': "D",
	'ø': "o", 'Ø': "O", 'æ': "ae", 'Æ': "AE", 'œ': "oe", 'Œ': "OE",
}

type config struct {
	separator string
	maxLength int
	lowercase bool
}

// Option configures Make.
type Option func(*config)

// MaxLength truncates the slug to n runes at a separator boundary when possible.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

// Separator sets the word separator. Default "-".
func Separator(sep string) Option {
	return func(c *config) {
		if sep != "" {
			c.separator = sep
		}
	}
}

// Lowercase controls case folding. Default true.
func Lowercase(on bool) Option {
	return func(c *config) {
		c.lowercase = on
	}
}

// Make converts s to a URL-safe slug of ASCII letters, digits and separators.
func Make(s string, opts ...Option) string {
	cfg := config{separator: "-", lowercase: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	var b strings.Builder
	pending := false
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		chunk, ok := folds[r]
		if !ok {
			if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
				pending = b.Len() > 0
				continue
			}
			chunk = string(r)
		}
		if pending {
			b.WriteString(cfg.separator)
			pending = false
		}
		b.WriteString(chunk)
	}

	out := b.String()
	if cfg.lowercase {
		out = strings.ToLower(out)
	}
	if cfg.maxLength > 0 && utf8.RuneCountInString(out) > cfg.maxLength {
		out = truncate(out, cfg.maxLength, cfg.separator)
	}
	return out
}

func truncate(s string, n int, sep string) string {
	runes := []rune(s)
	cut := string(runes[:n])
	// Prefer a word boundary when the cut lands inside a word.
	if string(runes[n:n+1]) != sep[:1] {
		if i := strings.LastIndex(cut, sep); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimSuffix(cut, sep)
}
