package naming

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FormatOption configures a single Format call.
type FormatOption func(*formatOptions)

type formatOptions struct {
	append      string
	prepend     string
	maxLength   int
	fallbackExt string
}

// WithAppend adds a suffix between the base name and the extension.
// The suffix goes through the same sanitizing pass as the base name.
func WithAppend(s string) FormatOption {
	return func(o *formatOptions) { o.append = s }
}

// WithPrepend adds a prefix before the base name, sanitized the same way.
func WithPrepend(s string) FormatOption {
	return func(o *formatOptions) { o.prepend = s }
}

// WithMaxLength truncates the base name (never the extension) to n characters.
// Zero or negative disables truncation.
func WithMaxLength(n int) FormatOption {
	return func(o *formatOptions) { o.maxLength = n }
}

// WithFallbackExt supplies the extension to use when the raw name has none,
// typically derived from the detected MIME type.
func WithFallbackExt(ext string) FormatOption {
	return func(o *formatOptions) { o.fallbackExt = ext }
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Format derives a safe filename from a raw user-supplied name.
// Path components are dropped, characters outside [A-Za-z0-9._ -] are
// removed, whitespace runs collapse to single underscores and the base name
// is truncated to the configured maximum. The extension is taken verbatim
// from the raw name and lower-cased; a name without a detectable extension
// falls back to the configured one.
func Format(rawName string, opts ...FormatOption) string {
	var o formatOptions
	for _, opt := range opts {
		opt(&o)
	}

	// Drop any path components first to neutralize traversal attempts
	rawName = strings.ReplaceAll(rawName, "\\", "/")
	rawName = filepath.Base(rawName)

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(rawName), "."))
	base := strings.TrimSuffix(rawName, filepath.Ext(rawName))
	if ext == "" {
		ext = strings.ToLower(strings.TrimPrefix(o.fallbackExt, "."))
	}

	base = sanitize(base)
	if o.maxLength > 0 {
		runes := []rune(base)
		if len(runes) > o.maxLength {
			base = string(runes[:o.maxLength])
		}
	}

	name := sanitize(o.prepend) + base + sanitize(o.append)
	if name == "" {
		name = "unnamed"
	}

	if ext == "" {
		return name
	}
	return name + "." + ext
}

// sanitize removes characters outside [A-Za-z0-9._ -] and collapses
// whitespace runs to single underscores.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-' || r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(strings.TrimSpace(b.String()), "_"))
}
