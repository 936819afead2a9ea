// Package metadata defines the document sidecar record and its durable,
// atomically replaced JSON representation on disk.
package metadata

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeFormat is the fixed, sortable serialization format for sidecar
// timestamps. All timestamps are stored in UTC.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// State is the document lifecycle state. It only advances through
//
//	Draft -> SavedLocal -> {Syncing -> Synced | SyncError}
//
// and never moves backward. Only Draft and SavedLocal are reachable by
// this subsystem; the sync states are reserved transition targets for an
// external sync collaborator.
type State string

// Lifecycle states.
const (
	StateDraft      State = "Draft"
	StateSavedLocal State = "SavedLocal"
	StateSyncing    State = "Syncing"
	StateSynced     State = "Synced"
	StateSyncError  State = "SyncError"
)

// Validate checks if the state is a known lifecycle state.
func (s State) Validate() error {
	switch s {
	case StateDraft, StateSavedLocal, StateSyncing, StateSynced, StateSyncError:
		return nil
	default:
		return fmt.Errorf("invalid state: %q", string(s))
	}
}

func (s State) rank() int {
	switch s {
	case StateDraft:
		return 0
	case StateSavedLocal:
		return 1
	case StateSyncing:
		return 2
	case StateSynced, StateSyncError:
		return 3
	default:
		return -1
	}
}

// Advance returns the target state if it is further along the lifecycle
// than s, otherwise s unchanged. A document that has moved past Draft is
// never reverted by a later local save.
func (s State) Advance(to State) State {
	if to.rank() > s.rank() {
		return to
	}
	return s
}

// Timestamp wraps time.Time with the fixed sidecar serialization format.
type Timestamp struct {
	time.Time
}

// Now returns the current time as a sidecar timestamp.
func Now() Timestamp {
	return Timestamp{time.Now().UTC()}
}

// MarshalJSON serializes the timestamp in the fixed UTC format.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(TimeFormat) + `"`), nil
}

// UnmarshalJSON parses the fixed UTC format.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid timestamp: %s", s)
	}

	parsed, err := time.Parse(TimeFormat, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}

	t.Time = parsed
	return nil
}

// Document is the sidecar record describing a stored document.
// Field order determines the serialized key order, which is fixed for
// diff-friendliness.
type Document struct {
	ID         uuid.UUID `json:"document_id"`
	Title      string    `json:"title"`
	CreatedAt  Timestamp `json:"created_at"`
	ModifiedAt Timestamp `json:"modified_at"`
	PageCount  int       `json:"page_count"`
	State      State     `json:"state"`
}

// DefaultTitle derives the initial document title from a creation time,
// e.g. "Scan-20240131-154502".
func DefaultTitle(t time.Time) string {
	return "Scan-" + t.UTC().Format("20060102-150405")
}

func (d *Document) validate() error {
	if d.ID == uuid.Nil {
		return fmt.Errorf("missing document_id")
	}
	if d.Title == "" {
		return fmt.Errorf("missing title")
	}
	if d.CreatedAt.IsZero() {
		return fmt.Errorf("missing created_at")
	}
	if err := d.State.Validate(); err != nil {
		return err
	}
	return nil
}
