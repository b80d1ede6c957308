package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/artguide/core"
)

// Key prefixes for different data types
const (
	paintingRecordPrefix = "paintrec:"
	checkpointSuffix     = "chkpt"
)

// makePaintingKey generates a key for a painting record by ID.
// Format: prefix + big-endian ID, so iteration order is ID order.
func makePaintingKey(id core.ID) []byte {
	prefixBytes := []byte(paintingRecordPrefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// idFromPaintingKey extracts the record ID from a painting key.
func idFromPaintingKey(key []byte) (core.ID, bool) {
	if len(key) != len(paintingRecordPrefix)+8 {
		return 0, false
	}
	return core.ID(binary.BigEndian.Uint64(key[len(paintingRecordPrefix):])), true
}

// makeCheckpointKey generates a key for processor checkpoints.
func makeCheckpointKey(processorType string) []byte {
	return []byte(fmt.Sprintf("%s:%s", processorType, checkpointSuffix))
}
