package upload

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// Source describes one file to ingest. Construct with FormSource,
// StreamSource, LocalImport or RemoteImport.
type Source struct {
	Field string
	Kind  SourceKind
	Name  string // client-supplied filename

	fh     *multipart.FileHeader
	reader io.Reader
	path   string
	url    string
}

// FormSource ingests a multipart form file.
func FormSource(field string, fh *multipart.FileHeader) Source {
	s := Source{Field: field, Kind: SourceForm, fh: fh}
	if fh != nil {
		s.Name = fh.Filename
	}
	return s
}

// StreamSource ingests raw bytes from a reader under the given filename,
// as produced by AJAX streaming uploads.
func StreamSource(field, name string, r io.Reader) Source {
	return Source{Field: field, Kind: SourceStream, Name: name, reader: r}
}

// LocalImport ingests an existing file from the pipeline's filesystem.
// Imports are trusted not to be partial uploads; the source file is copied,
// never moved.
func LocalImport(field, path string) Source {
	return Source{Field: field, Kind: SourceLocalImport, Name: filepath.Base(path), path: path}
}

// RemoteImport fetches a file over HTTP(S) and ingests the response body.
func RemoteImport(field, url string) Source {
	name := url
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	return Source{Field: field, Kind: SourceRemoteImport, Name: filepath.Base(name), url: url}
}

// location is the source's absolute origin for entry metadata.
func (s Source) location() string {
	switch s.Kind {
	case SourceLocalImport:
		return s.path
	case SourceRemoteImport:
		return s.url
	}
	return ""
}
