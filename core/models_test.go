package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDescriptor(t *testing.T) {
	d := DefaultDescriptor()
	assert.Equal(t, "release", d.IRI)
	assert.Equal(t, "release", d.Version)
	require.NoError(t, d.Validate())
}

func TestClassifyResults(t *testing.T) {
	t.Run("empty is failed", func(t *testing.T) {
		assert.Equal(t, OutcomeFailed, ClassifyResults(nil))
	})

	t.Run("all ok is clean", func(t *testing.T) {
		results := []TransformResult{
			{Encoding: "tsv", OK: true},
			{Encoding: "json", OK: true},
		}
		assert.Equal(t, OutcomeClean, ClassifyResults(results))
	})

	t.Run("recoverable errors degrade", func(t *testing.T) {
		results := []TransformResult{
			{Encoding: "tsv", OK: true, HadErrors: true, Message: "unhandled node reference"},
			{Encoding: "json", OK: true},
		}
		assert.Equal(t, OutcomeDegraded, ClassifyResults(results))
	})

	t.Run("one incomplete encoding fails the ontology", func(t *testing.T) {
		results := []TransformResult{
			{Encoding: "tsv", OK: true},
			{Encoding: "json", OK: false, Message: "parser error"},
		}
		assert.Equal(t, OutcomeFailed, ClassifyResults(results))
	})
}

func TestTallyOutcomes(t *testing.T) {
	outcomes := []Outcome{
		{Ontology: "bfo", Kind: OutcomeClean},
		{Ontology: "go", Kind: OutcomeDegraded},
		{Ontology: "pato", Kind: OutcomeSkipped},
		{Ontology: "chebi", Kind: OutcomeFailed},
		{Ontology: "uberon", Kind: OutcomeClean},
	}
	tally := TallyOutcomes(outcomes)
	assert.Equal(t, 2, tally.Clean)
	assert.Equal(t, 1, tally.Degraded)
	assert.Equal(t, 1, tally.Failed)
	assert.Equal(t, 1, tally.Skipped)
}

func TestValidateOntologyID(t *testing.T) {
	require.NoError(t, ValidateOntologyID("bfo"))
	require.Error(t, ValidateOntologyID(""))
	require.Error(t, ValidateOntologyID("a/b"))
}

func TestValidateEncodings(t *testing.T) {
	require.NoError(t, ValidateEncodings([]string{"tsv", "json"}))
	require.Error(t, ValidateEncodings(nil))
	require.Error(t, ValidateEncodings([]string{"tsv", ""}))
}
