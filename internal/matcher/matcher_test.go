// file: internal/matcher/matcher_test.go
// version: 2.0.0
// guid: cebf9e25-1150-45d6-997a-5dce6b09641c

package matcher

import (
	"testing"

	"github.com/classificacaofinal/classificacao/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id int64, contestID int64, name string, category models.Category, position int, situacao string) models.Result {
	r := models.Result{
		ID:        id,
		ContestID: contestID,
		Name:      name,
		Category:  category,
		Position:  position,
	}
	if situacao != "" {
		s := situacao
		r.Extra = &models.ResultExtra{ContestResultID: id, Situacao: &s}
	}
	return r
}

func TestHasPositiveStatus(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"Aguardando Convocação", false},
		{"Nomeado em 2024", true},
		{"NOMEADA", true},
		{"empossado", true},
		{"Empossada em março", true},
		{"Convocado", false},
	}
	for _, tt := range tests {
		if got := HasPositiveStatus(tt.in); got != tt.want {
			t.Errorf("HasPositiveStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFindAllByName(t *testing.T) {
	records := []models.Result{
		rec(1, 1, "Ana Silva", models.CategoryAmpla, 1, ""),
		rec(2, 1, "Bruno Costa", models.CategoryAmpla, 2, ""),
		rec(3, 2, "ANA SILVA", models.CategoryPCD, 1, ""),
		rec(4, 3, " Aná Silva ", models.CategoryPPP, 7, ""),
	}

	got := FindAllByName(records, "ana silva")
	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 3, 4}, []int64{got[0].ID, got[1].ID, got[2].ID})

	none := FindAllByName(records, "Carla")
	assert.NotNil(t, none)
	assert.Empty(t, none)

	assert.Empty(t, FindAllByName(records, "ana  silva"))
}

func TestFindAllByNameMatchesBlankNames(t *testing.T) {
	records := []models.Result{
		rec(1, 1, "", models.CategoryAmpla, 1, "Nomeado"),
		rec(2, 1, "   ", models.CategoryAmpla, 2, ""),
		rec(3, 1, "Ana", models.CategoryAmpla, 3, ""),
	}
	for _, query := range []string{"", "  "} {
		got := FindAllByName(records, query)
		require.Len(t, got, 2, "query %q", query)
		assert.Equal(t, []int64{1, 2}, []int64{got[0].ID, got[1].ID})
	}
	assert.Empty(t, FindAllByName([]models.Result{rec(3, 1, "Ana", models.CategoryAmpla, 3, "")}, ""))
}

func TestBatchHasPositiveStatus(t *testing.T) {
	records := []models.Result{
		rec(1, 1, "Ana", models.CategoryAmpla, 1, "Nomeado em 2024"),
		rec(2, 1, "Bruno", models.CategoryAmpla, 2, ""),
	}

	got := BatchHasPositiveStatus(records, []string{"Ana", "Bruno"})
	assert.Equal(t, map[string]bool{"Ana": true, "Bruno": false}, got)
}

func TestBatchHasPositiveStatusEveryNameIsAKey(t *testing.T) {
	records := []models.Result{
		rec(1, 1, "Clara Nunes", models.CategoryAmpla, 1, "empossada"),
		rec(2, 2, "clara nunes", models.CategoryPPP, 4, "Aguardando"),
	}

	got := BatchHasPositiveStatus(records, []string{"CLARA NUNES", "Clára Nunes", "Desconhecido", "", "CLARA NUNES"})
	assert.Equal(t, map[string]bool{
		"CLARA NUNES":  true,
		"Clára Nunes":  true,
		"Desconhecido": false,
		"":             false,
	}, got)

	empty := BatchHasPositiveStatus(nil, nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestBatchHasPositiveStatusBlankNamedRecordsParticipate(t *testing.T) {
	records := []models.Result{
		rec(1, 1, "", models.CategoryAmpla, 1, "Nomeado"),
		rec(2, 1, "  ", models.CategoryAmpla, 2, ""),
	}
	assert.Equal(t, map[string]bool{"": true, " ": true}, BatchHasPositiveStatus(records, []string{"", " "}))
	assert.Equal(t, map[string]bool{"": false}, BatchHasPositiveStatusOutside(records, []string{""}, 1))
}

func TestBatchHasPositiveStatusOutside(t *testing.T) {
	records := []models.Result{
		rec(1, 10, "Ana", models.CategoryAmpla, 1, "Nomeada"),
		rec(2, 20, "Bruno", models.CategoryAmpla, 1, "Nomeado"),
		rec(3, 10, "Bruno", models.CategoryPCD, 1, ""),
	}

	got := BatchHasPositiveStatusOutside(records, []string{"Ana", "Bruno"}, 10)
	assert.Equal(t, map[string]bool{"Ana": false, "Bruno": true}, got)

	got = BatchHasPositiveStatusOutside(records, []string{"Ana", "Bruno"}, 20)
	assert.Equal(t, map[string]bool{"Ana": true, "Bruno": false}, got)
}

func TestCompareListsSingleCommonCandidate(t *testing.T) {
	listA := []models.Result{rec(1, 1, "Ana Silva", models.CategoryAmpla, 1, "")}
	listB := []models.Result{rec(2, 2, "ana silva", models.CategoryPCD, 2, "")}

	want := []ComparisonEntry{{
		Name:           "Ana Silva",
		NormalizedName: "ana silva",
		Contest1: []Appearance{
			{Name: "Ana Silva", Category: models.CategoryAmpla, Position: 1, RecordID: 1, Situacao: DefaultSituacao},
		},
		Contest2: []Appearance{
			{Name: "ana silva", Category: models.CategoryPCD, Position: 2, RecordID: 2, Situacao: DefaultSituacao},
		},
	}}

	got := CompareLists(listA, listB)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CompareLists mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareListsSwappedInputsAreAsymmetric(t *testing.T) {
	listA := []models.Result{rec(1, 1, "Ana Silva", models.CategoryAmpla, 1, "")}
	listB := []models.Result{rec(2, 2, "ana silva", models.CategoryPCD, 2, "")}

	forward := CompareLists(listA, listB)
	backward := CompareLists(listB, listA)

	require.Len(t, forward, 1)
	require.Len(t, backward, 1)

	// Same membership either way.
	assert.Equal(t, forward[0].NormalizedName, backward[0].NormalizedName)

	// The tie goes to whichever spelling the first list holds.
	assert.Equal(t, "Ana Silva", forward[0].Name)
	assert.Equal(t, "ana silva", backward[0].Name)
	assert.Equal(t, forward[0].Contest1, backward[0].Contest2)
	assert.Equal(t, forward[0].Contest2, backward[0].Contest1)
}

func TestCompareListsCanonicalNameIsMostFrequent(t *testing.T) {
	listA := []models.Result{
		rec(1, 1, "JOÃO PEREIRA", models.CategoryAmpla, 3, ""),
	}
	listB := []models.Result{
		rec(2, 2, "João Pereira", models.CategoryAmpla, 5, ""),
		rec(3, 2, "João Pereira", models.CategoryPPP, 1, "Nomeado"),
	}

	got := CompareLists(listA, listB)
	require.Len(t, got, 1)
	assert.Equal(t, "João Pereira", got[0].Name)
	assert.Equal(t, "joao pereira", got[0].NormalizedName)
	require.Len(t, got[0].Contest2, 2)
	assert.Equal(t, int64(2), got[0].Contest2[0].RecordID)
	assert.Equal(t, int64(3), got[0].Contest2[1].RecordID)
	assert.Equal(t, "Nomeado", got[0].Contest2[1].Situacao)
	assert.Equal(t, DefaultSituacao, got[0].Contest2[0].Situacao)
}

func TestCompareListsSortedByNormalizedKey(t *testing.T) {
	listA := []models.Result{
		rec(1, 1, "Zeca", models.CategoryAmpla, 1, ""),
		rec(2, 1, "Élida", models.CategoryAmpla, 2, ""),
		rec(3, 1, "Bruno", models.CategoryAmpla, 3, ""),
		rec(4, 1, "Somente A", models.CategoryAmpla, 4, ""),
	}
	listB := []models.Result{
		rec(5, 2, "bruno", models.CategoryAmpla, 1, ""),
		rec(6, 2, "zeca", models.CategoryAmpla, 2, ""),
		rec(7, 2, "ELIDA", models.CategoryAmpla, 3, ""),
		rec(8, 2, "Somente B", models.CategoryAmpla, 4, ""),
	}

	got := CompareLists(listA, listB)
	keys := make([]string, 0, len(got))
	for _, e := range got {
		keys = append(keys, e.NormalizedName)
	}
	assert.Equal(t, []string{"bruno", "elida", "zeca"}, keys)
}

func TestCompareListsGroupsBlankNames(t *testing.T) {
	listA := []models.Result{rec(1, 1, "", models.CategoryAmpla, 1, "")}
	listB := []models.Result{rec(2, 2, "  ", models.CategoryAmpla, 1, "")}

	got := CompareLists(listA, listB)
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].NormalizedName)
	assert.Equal(t, "", got[0].Name)
	require.Len(t, got[0].Contest1, 1)
	require.Len(t, got[0].Contest2, 1)
	assert.Equal(t, int64(2), got[0].Contest2[0].RecordID)
}

func TestCompareListsIsDeterministic(t *testing.T) {
	listA := []models.Result{
		rec(1, 1, "Ana", models.CategoryAmpla, 1, ""),
		rec(2, 1, "ANA", models.CategoryPCD, 1, ""),
		rec(3, 1, "Caio", models.CategoryAmpla, 2, ""),
		rec(4, 1, "Bia", models.CategoryAmpla, 3, ""),
	}
	listB := []models.Result{
		rec(5, 2, "caio", models.CategoryAmpla, 1, ""),
		rec(6, 2, "ana", models.CategoryAmpla, 2, ""),
		rec(7, 2, "Bia", models.CategoryPPP, 1, ""),
	}

	first := CompareLists(listA, listB)
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, CompareLists(listA, listB)); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
	// "Ana" and "ANA" tie with "ana" at one each; the first seen wins.
	assert.Equal(t, "Ana", first[0].Name)
}
