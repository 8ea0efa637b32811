package badger

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/recall/core"
)

// Key prefixes for different data types
const (
	memoryRecordPrefix   = "memrec"
	memoryScheduledIndex = "memsched"
	memoryCreatedIndex   = "memcreat"
	memoryTagIndex       = "memtag"
)

// makeMemoryKey generates a key for a memory record by ID.
func makeMemoryKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", memoryRecordPrefix, id))
}

// makeTimeIndexKey generates a composite key for a time-ordered index.
// Format: prefix:timestamp:id, with fixed-width BigEndian numbers so
// lexicographic sort matches chronological sort.
func makeTimeIndexKey(prefix string, timestamp time.Time, id core.ID) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialTimeIndexKey generates a partial key for time range scans.
// Format: prefix:timestamp
func makePartialTimeIndexKey(prefix string, timestamp time.Time) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeTagKey generates a composite key for the tag index.
// Format: prefix:tag:id. Tags are lowercased so lookups are
// case-insensitive.
func makeTagKey(tag string, id core.ID) []byte {
	prefixBytes := []byte(memoryTagIndex + ":" + strings.ToLower(tag) + ":")
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialTagKey generates a partial key for tag scans.
func makePartialTagKey(tag string) []byte {
	return []byte(memoryTagIndex + ":" + strings.ToLower(tag) + ":")
}
