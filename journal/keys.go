// Copyright 2025 Knowledge Graph Hub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package journal

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Key prefixes for the journal keyspace
const (
	runIndexPrefix  = "runidx"
	runRecordPrefix = "runrec"
)

// makeRunKey generates a key for the run index.
// Format: prefix:timestamp, BigEndian so lexicographic order is time order.
func makeRunKey(startedAt time.Time, runID string) []byte {
	prefix := []byte(runIndexPrefix + ":")
	buf := make([]byte, len(prefix)+8+len(runID))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(startedAt.UnixMicro()))
	copy(buf[offset+8:], runID)
	return buf
}

// runKeyTime recovers the start timestamp from a run index key.
func runKeyTime(key []byte) (time.Time, error) {
	prefixLen := len(runIndexPrefix) + 1
	if len(key) < prefixLen+8 {
		return time.Time{}, fmt.Errorf("%w: short run key", ErrCorruptRecord)
	}
	micros := binary.BigEndian.Uint64(key[prefixLen : prefixLen+8])
	return time.UnixMicro(int64(micros)).UTC(), nil
}

// makeRecordKey generates a composite key for an outcome record.
// Format: prefix:runID:timestamp:ontology
func makeRecordKey(runID string, at time.Time, ontology string) []byte {
	prefix := makeRecordPrefix(runID)
	buf := make([]byte, len(prefix)+8+len(ontology))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(at.UnixMicro()))
	copy(buf[offset+8:], ontology)
	return buf
}

// makeRecordPrefix generates the partial key covering one run's records.
func makeRecordPrefix(runID string) []byte {
	return []byte(runRecordPrefix + ":" + runID + ":")
}
