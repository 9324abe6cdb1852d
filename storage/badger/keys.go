package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/ticketsmith/core"
)

// Key prefixes for different data types
const (
	batchPrefix     = "tikbat"
	batchDatePrefix = "tikbatd"
)

// makeBatchKey generates a key for a batch by run ID.
func makeBatchKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", batchPrefix, id))
}

// makeBatchDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeBatchDateKey(createdAt time.Time, id core.ID) []byte {
	prefix := batchDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialBatchDateKey generates a partial key for recency scans.
// Format: prefix:timestamp
func makePartialBatchDateKey(createdAt time.Time) []byte {
	prefix := batchDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	return buf
}
