package upload

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// DefaultMaxMemory is the maximum memory used for parsing multipart forms
// before spilling parts to disk (10MB).
const DefaultMaxMemory = 10 << 20

// SourceFromRequest extracts the first file uploaded under field as a form
// source. A missing file is an error; optional fields should use
// SourcesFromRequest and check for absence.
func SourceFromRequest(r *http.Request, field string) (Source, error) {
	if err := parseMultipartForm(r, DefaultMaxMemory); err != nil {
		return Source{}, err
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return Source{}, fmt.Errorf("%w: no file under field %q", ErrNilSource, field)
	}
	return FormSource(field, headers[0]), nil
}

// SourcesFromRequest extracts every file uploaded under the given fields as
// form sources, ready for ProcessAll. Without explicit fields it takes all
// file fields of the form, in field-name order so batches are
// deterministic. Fields without files contribute nothing.
func SourcesFromRequest(r *http.Request, fields ...string) ([]Source, error) {
	if err := parseMultipartForm(r, DefaultMaxMemory); err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		for field := range r.MultipartForm.File {
			fields = append(fields, field)
		}
		sort.Strings(fields)
	}

	var srcs []Source
	for _, field := range fields {
		for _, fh := range r.MultipartForm.File[field] {
			srcs = append(srcs, FormSource(field, fh))
		}
	}
	return srcs, nil
}

// parseMultipartForm ensures the request's multipart form is parsed.
func parseMultipartForm(r *http.Request, maxMemory int64) error {
	if r.MultipartForm != nil {
		return nil
	}

	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") {
		return fmt.Errorf("%w: content type %q is not multipart/form-data", ErrNilSource, ct)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferIncomplete, err)
	}
	return nil
}
