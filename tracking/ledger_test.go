package tracking

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Knowledge-Graph-Hub/obo2kghub/blob/mock"
)

const (
	testBucket = "kg-hub-test"
	ledgerKey  = "kg-obo/tracking.yaml"
)

func setupLedger(t *testing.T, remote string) (*Ledger, *mock.Store) {
	t.Helper()
	store := mock.NewStore()
	require.NoError(t, store.Put(context.Background(), testBucket, ledgerKey, []byte(remote), false))

	ledger, err := NewLedger(store, testBucket, ledgerKey, filepath.Join(t.TempDir(), "tracking.yaml"))
	require.NoError(t, err)
	return ledger, store
}

func TestFetchMissingLedgerIsFatal(t *testing.T) {
	store := mock.NewStore()
	ledger, err := NewLedger(store, testBucket, ledgerKey, filepath.Join(t.TempDir(), "tracking.yaml"))
	require.NoError(t, err)

	err = ledger.Fetch(context.Background())
	require.ErrorIs(t, err, ErrLedgerUnavailable)
}

func TestFetchMalformedLedger(t *testing.T) {
	ledger, _ := setupLedger(t, "{{{not yaml")
	err := ledger.Fetch(context.Background())
	require.ErrorIs(t, err, ErrLedgerMalformed)
}

func TestIsKnown(t *testing.T) {
	ledger, _ := setupLedger(t, `ontologies:
  bfo:
    current_iri: http://purl.obolibrary.org/obo/bfo/2021-08-26/bfo.owl
    current_version: "2021-08-26"
    archive:
      - iri: http://purl.obolibrary.org/obo/bfo/2019-08-26/bfo.owl
        version: "2019-08-26"
  pato:
    current_iri: ""
    current_version: NA
`)
	ctx := context.Background()

	known, err := ledger.IsKnown(ctx, "bfo", "http://purl.obolibrary.org/obo/bfo/2021-08-26/bfo.owl")
	require.NoError(t, err)
	assert.True(t, known, "current version is known")

	known, err = ledger.IsKnown(ctx, "bfo", "http://purl.obolibrary.org/obo/bfo/2019-08-26/bfo.owl")
	require.NoError(t, err)
	assert.True(t, known, "archived version is known")

	known, err = ledger.IsKnown(ctx, "bfo", "http://purl.obolibrary.org/obo/bfo/2022-01-01/bfo.owl")
	require.NoError(t, err)
	assert.False(t, known, "new version is unknown")

	known, err = ledger.IsKnown(ctx, "pato", "http://purl.obolibrary.org/obo/pato.owl")
	require.NoError(t, err)
	assert.False(t, known, "never-published ontology is unknown")
}

func TestRecordMonotonicity(t *testing.T) {
	ledger, store := setupLedger(t, `ontologies:
  bfo:
    current_iri: ""
    current_version: NA
`)
	ctx := context.Background()

	iri1 := "http://purl.obolibrary.org/obo/bfo/2019-08-26/bfo.owl"
	iri2 := "http://purl.obolibrary.org/obo/bfo/2021-08-26/bfo.owl"

	require.NoError(t, ledger.Record(ctx, "bfo", iri1, "2019-08-26"))
	require.NoError(t, ledger.Record(ctx, "bfo", iri2, "2021-08-26"))

	entries, err := ledger.Entries(ctx)
	require.NoError(t, err)
	entry := entries["bfo"]
	assert.Equal(t, iri2, entry.CurrentIRI)
	assert.Equal(t, "2021-08-26", entry.CurrentVersion)
	require.Len(t, entry.Archive, 1)
	assert.Equal(t, iri1, entry.Archive[0].IRI)
	assert.Equal(t, "2019-08-26", entry.Archive[0].Version)

	for _, iri := range []string{iri1, iri2} {
		known, err := ledger.IsKnown(ctx, "bfo", iri)
		require.NoError(t, err)
		assert.True(t, known)
	}

	// The published ledger object is public-readable.
	assert.True(t, store.IsPublic(testBucket, ledgerKey))
}

func TestRecordCurrentIRIDoesNotArchive(t *testing.T) {
	ledger, _ := setupLedger(t, "ontologies: {}\n")
	ctx := context.Background()

	iri := "http://purl.obolibrary.org/obo/bfo/2021-08-26/bfo.owl"
	require.NoError(t, ledger.Record(ctx, "bfo", iri, "2021-08-26"))
	require.NoError(t, ledger.Record(ctx, "bfo", iri, "2021-08-26"))

	entries, err := ledger.Entries(ctx)
	require.NoError(t, err)
	entry := entries["bfo"]
	assert.Equal(t, iri, entry.CurrentIRI)
	assert.Equal(t, "2021-08-26", entry.CurrentVersion)
	assert.Empty(t, entry.Archive, "re-recording the current IRI must not archive it")

	known, err := ledger.IsKnown(ctx, "bfo", iri)
	require.NoError(t, err)
	assert.True(t, known)
}

func TestRecordUnknownOntologyCreatesEntry(t *testing.T) {
	ledger, _ := setupLedger(t, "ontologies: {}\n")
	ctx := context.Background()

	require.NoError(t, ledger.Record(ctx, "chebi", "http://purl.obolibrary.org/obo/chebi/213/chebi.owl", "213"))

	entries, err := ledger.Entries(ctx)
	require.NoError(t, err)
	entry := entries["chebi"]
	assert.Equal(t, "213", entry.CurrentVersion)
	assert.Empty(t, entry.Archive, "first publication has no archive")
}

func TestCompletedCount(t *testing.T) {
	ledger, _ := setupLedger(t, `ontologies:
  bfo:
    current_iri: http://example.org/bfo.owl
    current_version: "2021-08-26"
  pato:
    current_iri: ""
    current_version: NA
  go:
    current_iri: http://example.org/go.owl
    current_version: "2022-01-13"
`)
	count, err := ledger.CompletedCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
