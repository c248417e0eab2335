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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Knowledge-Graph-Hub/obo2kghub/core"
)

func setupJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestAppendAndReadRun(t *testing.T) {
	j := setupJournal(t)

	runID := NewRunID()
	base := time.Date(2021, 8, 26, 12, 0, 0, 0, time.UTC)
	require.NoError(t, j.BeginRun(runID, base))

	outcomes := []core.Outcome{
		{Ontology: "bfo", Kind: core.OutcomeClean, Version: core.VersionDescriptor{IRI: "http://example.org/bfo.owl", Version: "2021-08-26"}, Fingerprint: "abcd", At: base.Add(time.Minute)},
		{Ontology: "chebi", Kind: core.OutcomeSkipped, Reason: "version already released", At: base.Add(2 * time.Minute)},
		{Ontology: "pr", Kind: core.OutcomeFailed, Reason: "download failed", At: base.Add(3 * time.Minute)},
	}
	for _, o := range outcomes {
		require.NoError(t, j.AppendOutcome(runID, o))
	}

	records, err := j.RunRecords(runID)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "bfo", records[0].Ontology)
	assert.Equal(t, "success", records[0].Outcome)
	assert.Equal(t, "2021-08-26", records[0].Version)
	assert.Equal(t, "abcd", records[0].Fingerprint)

	assert.Equal(t, "chebi", records[1].Ontology)
	assert.Equal(t, "skipped", records[1].Outcome)
	assert.Equal(t, "version already released", records[1].Reason)

	assert.Equal(t, "pr", records[2].Ontology)
	assert.Equal(t, "failed", records[2].Outcome)
}

func TestRunsAreIsolated(t *testing.T) {
	j := setupJournal(t)

	first := NewRunID()
	second := NewRunID()
	at := time.Now().UTC()

	require.NoError(t, j.AppendOutcome(first, core.Outcome{Ontology: "bfo", Kind: core.OutcomeClean, At: at}))
	require.NoError(t, j.AppendOutcome(second, core.Outcome{Ontology: "go", Kind: core.OutcomeFailed, At: at}))

	records, err := j.RunRecords(first)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "bfo", records[0].Ontology)
}

func TestRunsListsMostRecentFirst(t *testing.T) {
	j := setupJournal(t)

	base := time.Date(2021, 8, 26, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		id := NewRunID()
		ids = append(ids, id)
		require.NoError(t, j.BeginRun(id, base.Add(time.Duration(i)*time.Hour)))
	}

	runs, err := j.Runs(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].RunID)
	assert.Equal(t, ids[0], runs[2].RunID)
	assert.Equal(t, base.Add(2*time.Hour), runs[0].StartedAt)

	limited, err := j.Runs(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestEmptyRunIDRejected(t *testing.T) {
	j := setupJournal(t)

	assert.ErrorIs(t, j.BeginRun("", time.Now()), ErrEmptyRunID)
	assert.ErrorIs(t, j.AppendOutcome("", core.Outcome{}), ErrEmptyRunID)
	_, err := j.RunRecords("")
	assert.ErrorIs(t, err, ErrEmptyRunID)
}

func TestRunRecordsEmptyRun(t *testing.T) {
	j := setupJournal(t)

	records, err := j.RunRecords(NewRunID())
	require.NoError(t, err)
	assert.Empty(t, records)
}
