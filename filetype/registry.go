package filetype

import (
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// detectionHeaderSize covers the longest magic-byte sequences the detector
// inspects.
const detectionHeaderSize = 3072

// OctetStream is the generic fallback MIME type for undetectable content.
const OctetStream = "application/octet-stream"

// entry is one registered extension under a group with its accepted MIME set.
type entry struct {
	group string
	ext   string
	mimes []string
}

// Registry maps file extensions to accepted MIME types, grouped by category.
// Populate it during setup and treat it as read-only afterwards.
type Registry struct {
	// entries preserves registration order so ambiguous lookups resolve
	// deterministically to the first registered match.
	entries []*entry
	byExt   map[string][]*entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		byExt: make(map[string][]*entry),
	}
}

// NewWithDefaults returns a registry preloaded with common image, document
// and archive types.
func NewWithDefaults() *Registry {
	r := New()

	r.Register(GroupImage, "jpg", "image/jpeg", "image/pjpeg")
	r.Register(GroupImage, "jpeg", "image/jpeg", "image/pjpeg")
	r.Register(GroupImage, "png", "image/png", "image/x-png")
	r.Register(GroupImage, "gif", "image/gif")
	r.Register(GroupImage, "webp", "image/webp")
	r.Register(GroupImage, "bmp", "image/bmp", "image/x-ms-bmp")

	r.Register(GroupDocument, "pdf", "application/pdf")
	r.Register(GroupDocument, "txt", "text/plain")
	r.Register(GroupDocument, "csv", "text/csv", "text/plain")
	r.Register(GroupDocument, "doc", "application/msword")
	r.Register(GroupDocument, "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")

	r.Register(GroupArchive, "zip", "application/zip", "application/x-zip-compressed")
	r.Register(GroupArchive, "gz", "application/gzip", "application/x-gzip")
	r.Register(GroupArchive, "tar", "application/x-tar")

	return r
}

// Group names used by NewWithDefaults. Custom registries may use any names.
const (
	GroupImage    = "image"
	GroupDocument = "document"
	GroupArchive  = "archive"
)

// Register adds accepted MIME types for an extension under a group.
// Registering the same extension again appends to its accepted set.
// Extensions are normalized to lowercase without a leading dot; MIME types
// are normalized to lowercase with any parameters stripped.
func (r *Registry) Register(group, ext string, mimeTypes ...string) {
	ext = normalizeExt(ext)
	if ext == "" || len(mimeTypes) == 0 {
		return
	}

	normalized := make([]string, 0, len(mimeTypes))
	for _, m := range mimeTypes {
		if m = normalizeMIME(m); m != "" {
			normalized = append(normalized, m)
		}
	}
	if len(normalized) == 0 {
		return
	}

	// Extend the existing entry when the same group/ext pair is registered twice
	for _, e := range r.byExt[ext] {
		if e.group == group {
			for _, m := range normalized {
				if !slices.Contains(e.mimes, m) {
					e.mimes = append(e.mimes, m)
				}
			}
			return
		}
	}

	e := &entry{group: group, ext: ext, mimes: normalized}
	r.entries = append(r.entries, e)
	r.byExt[ext] = append(r.byExt[ext], e)
}

// Lookup returns the group for an extension/MIME pair. It succeeds only when
// the extension is registered and the MIME type is in its accepted set within
// the same group; a known extension with an unmatched MIME type fails closed.
func (r *Registry) Lookup(ext, mimeType string) (string, bool) {
	ext = normalizeExt(ext)
	mimeType = normalizeMIME(mimeType)
	if ext == "" || mimeType == "" {
		return "", false
	}

	for _, e := range r.byExt[ext] {
		if slices.Contains(e.mimes, mimeType) {
			return e.group, true
		}
	}

	return "", false
}

// Known reports whether the extension is registered under any group.
func (r *Registry) Known(ext string) bool {
	_, ok := r.byExt[normalizeExt(ext)]
	return ok
}

// MIMEForExt returns the first registered MIME type for an extension.
// Best-effort: extensions with multiple accepted types resolve to whichever
// was registered first.
func (r *Registry) MIMEForExt(ext string) (string, bool) {
	entries := r.byExt[normalizeExt(ext)]
	if len(entries) == 0 {
		return "", false
	}
	return entries[0].mimes[0], true
}

// ExtensionFor returns the first registered extension accepting the MIME type.
func (r *Registry) ExtensionFor(mimeType string) (string, bool) {
	mimeType = normalizeMIME(mimeType)
	for _, e := range r.entries {
		if slices.Contains(e.mimes, mimeType) {
			return e.ext, true
		}
	}
	return "", false
}

// DetectMIME infers a MIME type from content. Returns OctetStream when the
// content matches no known signature.
func DetectMIME(data []byte) string {
	return normalizeMIME(mimetype.Detect(data).String())
}

// DetectFile infers a MIME type for a file, preferring content inspection and
// falling back to the registry's extension table when the content is not
// recognizable (best-effort, not authoritative).
func (r *Registry) DetectFile(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, detectionHeaderSize)
	n, err := f.Read(header)
	if err != nil && n == 0 {
		return "", err
	}

	detected := DetectMIME(header[:n])
	if detected != OctetStream {
		return detected, nil
	}

	ext := strings.TrimPrefix(strings.ToLower(pathExt(path)), ".")
	if m, ok := r.MIMEForExt(ext); ok {
		return m, nil
	}

	return detected, nil
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// normalizeMIME lowercases and strips parameters such as "; charset=utf-8".
func normalizeMIME(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return strings.ToLower(strings.TrimSpace(m))
}

func pathExt(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/' && path[i] != '\\'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}
