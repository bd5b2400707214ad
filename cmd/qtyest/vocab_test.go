package main

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/project"
	"github.com/piwi3910/QtyEstimate/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabDumpLoadsBack(t *testing.T) {
	useTempHome(t)
	overrides := model.NewVocabularyStore()
	overrides.Put(model.Vocabulary{Name: resolver.VocabColumn, Roles: []model.Role{
		{Name: "width", Keywords: []string{"W"}},
	}})
	registry = resolver.NewRegistry(overrides)

	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, vocabDumpCmd.RunE(vocabDumpCmd, []string{path}))

	store, err := project.LoadVocabularies(path)
	require.NoError(t, err)
	assert.Equal(t, resolver.BuiltinNames(), store.Names())
	col := store.FindByName(resolver.VocabColumn)
	require.NotNil(t, col)
	assert.Equal(t, []string{"width"}, col.RoleNames())
}

func TestVocabShowUnknownRole(t *testing.T) {
	useTempHome(t)
	err := vocabShowCmd.RunE(vocabShowCmd, []string{resolver.VocabBeam, "nope"})
	assert.ErrorContains(t, err, `no role "nope"`)
}

func TestVocabShowRole(t *testing.T) {
	useTempHome(t)
	assert.NoError(t, vocabShowCmd.RunE(vocabShowCmd, []string{resolver.VocabBeam, "cut_length"}))
}
