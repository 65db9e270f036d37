package upload

import (
	"fmt"
	"time"
)

// Status is an entry's position in the ingestion lifecycle.
type Status string

const (
	StatusPending             Status = "pending"
	StatusValidated           Status = "validated"
	StatusDestinationResolved Status = "destination_resolved"
	StatusMaterialized        Status = "materialized"
	StatusTransformed         Status = "transformed"
	StatusRecorded            Status = "recorded"
	StatusRejected            Status = "rejected"
)

// statusTransitions is the legal transition table. Rejected is reachable
// from any non-terminal state (validation failure, I/O failure, batch
// rollback); Recorded is terminal except for rollback.
var statusTransitions = map[Status][]Status{
	StatusPending:             {StatusValidated, StatusRejected},
	StatusValidated:           {StatusDestinationResolved, StatusRejected},
	StatusDestinationResolved: {StatusMaterialized, StatusRejected},
	StatusMaterialized:        {StatusTransformed, StatusRecorded, StatusRejected},
	StatusTransformed:         {StatusTransformed, StatusRecorded, StatusRejected},
	StatusRecorded:            {StatusRejected},
}

// SourceKind identifies where an entry's bytes came from.
type SourceKind string

const (
	SourceForm         SourceKind = "form"
	SourceStream       SourceKind = "stream"
	SourceLocalImport  SourceKind = "local-import"
	SourceRemoteImport SourceKind = "remote-import"
)

// isImport reports whether the kind is trusted not to be a partial upload.
func (k SourceKind) isImport() bool {
	return k == SourceLocalImport || k == SourceRemoteImport
}

// Entry tracks one ingested file through the pipeline. Entries are created
// per source, mutated by pipeline steps and discarded at the end of the
// run; persistence is the caller's concern.
//
// Invariants: Group is set if and only if validation succeeded; Width and
// Height are set if and only if Group is "image".
type Entry struct {
	Field        string     // unique source identifier within a batch
	OriginalName string     // raw client-supplied name
	Ext          string     // resolved extension, lowercase, no dot
	MIMEType     string     // detected MIME type
	Group        string     // validated category, empty until validated
	Size         int64      // byte size of the materialized content
	Kind         SourceKind // where the bytes came from
	SourcePath   string     // absolute source location (path or URL)
	Path         string     // final stored path, set at materialization
	Width        int        // image group only
	Height       int        // image group only
	UploadedAt   time.Time
	Derived      map[string]string // transform label -> derived file path
	Status       Status
	Err          error // terminal failure, set when Status is Rejected
}

// IsImage reports whether the entry validated into the image group.
func (e *Entry) IsImage() bool {
	return e.Group == "image"
}

// transition advances the entry's status, enforcing the lifecycle table.
func (e *Entry) transition(to Status) error {
	for _, allowed := range statusTransitions[e.Status] {
		if allowed == to {
			e.Status = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, e.Status, to)
}

// reject moves the entry to Rejected and records the cause.
func (e *Entry) reject(err error) error {
	e.Err = err
	e.Status = StatusRejected
	return err
}
