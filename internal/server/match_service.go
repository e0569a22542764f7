// file: internal/server/match_service.go
// version: 1.0.0
// guid: c93e5b17-2a4f-4d68-8e0b-71f6a2d4c5e9

package server

import (
	"fmt"
	"time"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/matcher"
	"github.com/classificacaofinal/classificacao/internal/metrics"
	"github.com/classificacaofinal/classificacao/internal/models"
)

// Lookup kinds, used as metric labels.
const (
	lookupByName     = "by_name"
	lookupByCriteria = "by_criteria"
	lookupBatch      = "batch"
	lookupOutside    = "outside_contest"
	lookupCompare    = "compare"
	lookupSuggest    = "suggest"
)

const (
	defaultSuggestionLimit = 5
	maxSuggestionLimit     = 20
)

// MatchService loads result rows and runs the candidate matcher over them.
type MatchService struct {
	db database.Store
}

func NewMatchService(db database.Store) *MatchService {
	return &MatchService{db: db}
}

// ResultsByName returns every appearance of name across all contests.
func (ms *MatchService) ResultsByName(name string) ([]models.Result, error) {
	if err := ValidateNameQuery(name); err != nil {
		return nil, err
	}
	return ms.lookup(lookupByName, ms.db.ListAllResults, name)
}

// ResultsByNameAndCategory narrows ResultsByName to one category. Only the
// rows of that category are loaded.
func (ms *MatchService) ResultsByNameAndCategory(name, rawCategory string) ([]models.Result, error) {
	if err := ValidateNameQuery(name); err != nil {
		return nil, err
	}
	category, ok := models.ParseCategory(rawCategory)
	if !ok {
		return nil, invalidCategory(rawCategory)
	}
	return ms.lookup(lookupByCriteria, func() ([]models.Result, error) {
		return ms.db.ListResultsByCategory(category)
	}, name)
}

func (ms *MatchService) lookup(kind string, load func() ([]models.Result, error), name string) ([]models.Result, error) {
	start := time.Now()
	metrics.IncLookup(kind)
	records, err := load()
	if err != nil {
		metrics.IncLookupFailed(kind)
		return nil, err
	}
	matches := matcher.FindAllByName(records, name)
	metrics.ObserveLookupDuration(kind, time.Since(start))
	metrics.ObserveLookupMatches(kind, len(matches))
	return matches, nil
}

// Compare lists the candidates present in both contests.
func (ms *MatchService) Compare(contestID1, contestID2 int64) ([]matcher.ComparisonEntry, error) {
	start := time.Now()
	metrics.IncLookup(lookupCompare)

	lists := make([][]models.Result, 0, 2)
	for _, id := range []int64{contestID1, contestID2} {
		contest, err := ms.db.GetContestByID(id)
		if err != nil {
			metrics.IncLookupFailed(lookupCompare)
			return nil, err
		}
		if contest == nil {
			metrics.IncLookupFailed(lookupCompare)
			return nil, fmt.Errorf("contest %d: %w", id, database.ErrNotFound)
		}
		results, err := ms.db.ListResultsByContest(id)
		if err != nil {
			metrics.IncLookupFailed(lookupCompare)
			return nil, err
		}
		lists = append(lists, results)
	}

	entries := matcher.CompareLists(lists[0], lists[1])
	metrics.ObserveLookupDuration(lookupCompare, time.Since(start))
	metrics.ObserveLookupMatches(lookupCompare, len(entries))
	return entries, nil
}

// BatchStatus reports, for each name, whether it was called up in any contest.
func (ms *MatchService) BatchStatus(names []string) (map[string]bool, error) {
	return ms.batch(lookupBatch, names, func(records []models.Result) map[string]bool {
		return matcher.BatchHasPositiveStatus(records, names)
	})
}

// StatusOutsideContest is BatchStatus ignoring currentContestID.
// A currentContestID of 0 ignores nothing.
func (ms *MatchService) StatusOutsideContest(names []string, currentContestID int64) (map[string]bool, error) {
	if currentContestID <= 0 {
		return ms.batch(lookupOutside, names, func(records []models.Result) map[string]bool {
			return matcher.BatchHasPositiveStatus(records, names)
		})
	}
	return ms.batch(lookupOutside, names, func(records []models.Result) map[string]bool {
		return matcher.BatchHasPositiveStatusOutside(records, names, currentContestID)
	})
}

func (ms *MatchService) batch(kind string, names []string, run func([]models.Result) map[string]bool) (map[string]bool, error) {
	if len(names) == 0 {
		return map[string]bool{}, nil
	}
	start := time.Now()
	metrics.IncLookup(kind)
	records, err := ms.db.ListAllResults()
	if err != nil {
		metrics.IncLookupFailed(kind)
		return nil, err
	}
	out := run(records)
	positives := 0
	for _, ok := range out {
		if ok {
			positives++
		}
	}
	metrics.ObserveLookupDuration(kind, time.Since(start))
	metrics.ObserveLookupMatches(kind, positives)
	return out, nil
}

// Suggest proposes close candidate names for a lookup that found nothing.
func (ms *MatchService) Suggest(name string, limit int) ([]matcher.Suggestion, error) {
	if err := ValidateNameQuery(name); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	limit = min(limit, maxSuggestionLimit)

	start := time.Now()
	metrics.IncLookup(lookupSuggest)
	records, err := ms.db.ListAllResults()
	if err != nil {
		metrics.IncLookupFailed(lookupSuggest)
		return nil, err
	}
	suggestions := matcher.SuggestNames(records, name, limit)
	metrics.ObserveLookupDuration(lookupSuggest, time.Since(start))
	metrics.ObserveLookupMatches(lookupSuggest, len(suggestions))
	return suggestions, nil
}
