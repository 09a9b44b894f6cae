package record

import (
	"bytes"
	"os"
	"time"

	"github.com/google/uuid"
)

// ID prefixes per kind.
const (
	PrefixFeature    = "feat"
	PrefixSession    = "session"
	PrefixTestMethod = "test"
	PrefixFileAssoc  = "file"
)

// NewID returns a collision-safe record ID with the given prefix.
// Timestamp-derived IDs collide under rapid successive calls, so IDs are
// UUID-based instead.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Now returns the current UTC time truncated to millisecond precision.
// All record timestamps use this so that JSON round-trips compare equal.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// MeasureFile fills size and line-count metadata for a file association.
// Missing or unreadable files leave the defaults in place.
func (f *FileAssociation) MeasureFile() {
	info, err := os.Stat(f.FilePath)
	if err != nil {
		return
	}
	f.SizeBytes = info.Size()

	data, err := os.ReadFile(f.FilePath)
	if err != nil {
		return
	}
	if len(data) == 0 {
		f.LineCount = 0
		return
	}
	f.LineCount = bytes.Count(data, []byte("\n"))
	if data[len(data)-1] != '\n' {
		f.LineCount++
	}
}
