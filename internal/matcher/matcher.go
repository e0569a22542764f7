// file: internal/matcher/matcher.go
// version: 2.0.0
// guid: 891a3590-48e4-4b20-add9-760b314e05ff

package matcher

import (
	"sort"
	"strings"

	"github.com/classificacaofinal/classificacao/internal/models"
)

// DefaultSituacao is reported for appearances without a recorded status.
const DefaultSituacao = "Aguardando Convocação"

// positiveStems mark a call-up in a free-text situacao.
var positiveStems = []string{"nomead", "empossad"}

// Appearance is one occurrence of a candidate in a result list.
type Appearance struct {
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
	Position int             `json:"position"`
	RecordID int64           `json:"id"`
	Situacao string          `json:"situacao"`
}

// ComparisonEntry groups the appearances of one candidate found in both lists.
type ComparisonEntry struct {
	Name           string       `json:"name"`
	NormalizedName string       `json:"normalized_name"`
	Contest1       []Appearance `json:"contest_1"`
	Contest2       []Appearance `json:"contest_2"`
}

// HasPositiveStatus reports whether a situacao describes an appointment.
func HasPositiveStatus(situacao string) bool {
	if situacao == "" {
		return false
	}
	lowered := strings.ToLower(situacao)
	for _, stem := range positiveStems {
		if strings.Contains(lowered, stem) {
			return true
		}
	}
	return false
}

// FindAllByName returns the records whose name normalizes to the same key as
// queryName, in input order. A blank name is an ordinary key and matches
// records whose name is blank too.
func FindAllByName(records []models.Result, queryName string) []models.Result {
	key := Normalize(queryName)
	matches := make([]models.Result, 0)
	for _, r := range records {
		if Normalize(r.Name) == key {
			matches = append(matches, r)
		}
	}
	return matches
}

// BatchHasPositiveStatus reports, for every input name, whether any record
// with the same normalized name has a positive situacao. Every input name is
// a key of the result. Records are scanned once.
func BatchHasPositiveStatus(records []models.Result, names []string) map[string]bool {
	return batchStatus(records, names, nil)
}

// BatchHasPositiveStatusOutside is BatchHasPositiveStatus ignoring the
// records of one contest, typically the list the caller is displaying.
func BatchHasPositiveStatusOutside(records []models.Result, names []string, contestID int64) map[string]bool {
	return batchStatus(records, names, func(r models.Result) bool {
		return r.ContestID == contestID
	})
}

func batchStatus(records []models.Result, names []string, skip func(models.Result) bool) map[string]bool {
	out := make(map[string]bool, len(names))
	wanted := make(map[string][]string, len(names))
	for _, name := range names {
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = false
		key := Normalize(name)
		wanted[key] = append(wanted[key], name)
	}
	if len(wanted) == 0 {
		return out
	}

	for _, r := range records {
		if skip != nil && skip(r) {
			continue
		}
		if !HasPositiveStatus(r.Situacao()) {
			continue
		}
		originals, ok := wanted[Normalize(r.Name)]
		if !ok {
			continue
		}
		for _, name := range originals {
			out[name] = true
		}
	}
	return out
}

// CompareLists returns one entry per normalized name present in both lists,
// sorted by normalized name. Appearances keep input order. The display name
// is the most frequent raw spelling, ties going to the first one seen
// (listA before listB).
func CompareLists(listA, listB []models.Result) []ComparisonEntry {
	groupsA := groupByKey(listA)
	groupsB := groupByKey(listB)

	keys := make([]string, 0, min(len(groupsA), len(groupsB)))
	for key := range groupsA {
		if _, ok := groupsB[key]; ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	entries := make([]ComparisonEntry, 0, len(keys))
	for _, key := range keys {
		a, b := groupsA[key], groupsB[key]
		entries = append(entries, ComparisonEntry{
			Name:           canonicalName(a, b),
			NormalizedName: key,
			Contest1:       a,
			Contest2:       b,
		})
	}
	return entries
}

func groupByKey(records []models.Result) map[string][]Appearance {
	groups := make(map[string][]Appearance)
	for _, r := range records {
		key := Normalize(r.Name)
		situacao := r.Situacao()
		if situacao == "" {
			situacao = DefaultSituacao
		}
		groups[key] = append(groups[key], Appearance{
			Name:     r.Name,
			Category: r.Category,
			Position: r.Position,
			RecordID: r.ID,
			Situacao: situacao,
		})
	}
	return groups
}

func canonicalName(lists ...[]Appearance) string {
	counts := make(map[string]int)
	var order []string
	for _, list := range lists {
		for _, ap := range list {
			if counts[ap.Name] == 0 {
				order = append(order, ap.Name)
			}
			counts[ap.Name]++
		}
	}

	best, bestCount := "", 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best
}
