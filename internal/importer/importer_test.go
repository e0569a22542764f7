// file: internal/importer/importer_test.go
// version: 1.0.0
// guid: 5a3e9c17-2b6d-4f84-8e0a-d1c7f4b2a935

package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
contest:
  name: TRF 1ª Região
  banca: Cebraspe
  site: https://example.org
  edital_url: https://example.org/edital.pdf
  cargo: Analista
lists:
  - category: Ampla
    entries:
      - {name: Ana Souza, score: 91.5}
      - {name: Bruno Lima, score: 88}
  - category: PPP
    entries:
      - {name: Carla Dias, score: 80}
`

func TestDecode(t *testing.T) {
	f, err := Decode(strings.NewReader(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "Cebraspe", f.Contest.Banca)
	assert.Len(t, f.Lists, 2)
	assert.Equal(t, 3, f.EntryCount())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "contest: {id: 1}\nextra: true\nlists: [{category: Ampla, entries: [{name: A}]}]"},
		{"missing contest field", "contest: {name: X}\nlists: [{category: Ampla, entries: [{name: A}]}]"},
		{"no lists", "contest: {id: 1}\nlists: []"},
		{"bad category", "contest: {id: 1}\nlists: [{category: Outra, entries: [{name: A}]}]"},
		{"empty list", "contest: {id: 1}\nlists: [{category: PCD, entries: []}]"},
		{"blank name", "contest: {id: 1}\nlists: [{category: PCD, entries: [{name: '  '}]}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidFile)
		})
	}
}

func TestLoadAndApplyCreatesContest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lista.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	store, err := database.NewSQLiteStore(filepath.Join(dir, "import.db"))
	require.NoError(t, err)
	defer store.Close()

	f, err := Load(path)
	require.NoError(t, err)

	progressed := 0
	summary, err := Apply(store, f, func(n int) { progressed += n })
	require.NoError(t, err)
	assert.True(t, summary.Created)
	assert.Equal(t, 3, summary.Total())
	assert.Equal(t, 3, progressed)
	assert.Equal(t, 2, summary.Inserted[models.CategoryAmpla])

	results, err := store.ListResultsByContest(summary.Contest.ID)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestApplyExistingContest(t *testing.T) {
	var gotContest int64
	store := &database.MockStore{
		GetContestByIDFunc: func(id int64) (*models.Contest, error) {
			return &models.Contest{ID: id, Name: "Existing"}, nil
		},
		CreateResultsFunc: func(contestID int64, category models.Category, names []string, scores []float64) ([]models.Result, error) {
			gotContest = contestID
			return make([]models.Result, len(names)), nil
		},
	}
	f := &File{
		Contest: ContestSpec{ID: 9},
		Lists:   []List{{Category: "PCD", Entries: []Entry{{Name: "Ana", Score: 1}}}},
	}

	summary, err := Apply(store, f, nil)
	require.NoError(t, err)
	assert.False(t, summary.Created)
	assert.Equal(t, int64(9), gotContest)
	assert.Equal(t, 1, summary.Inserted[models.CategoryPCD])
}

func TestApplyMissingContest(t *testing.T) {
	f := &File{Contest: ContestSpec{ID: 9}, Lists: []List{{Category: "PCD", Entries: []Entry{{Name: "Ana"}}}}}

	_, err := Apply(&database.MockStore{}, f, nil)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
