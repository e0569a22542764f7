// file: internal/server/result_service.go
// version: 1.0.0
// guid: 4a8e2f61-93c7-4d15-b0a2-6c1f9e3d7b58

package server

import (
	"fmt"
	"strings"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/models"
)

// BulkResultsRequest appends one ranked list to a contest category.
// Names and FinalScores are parallel arrays.
type BulkResultsRequest struct {
	ContestID   int64     `json:"contest_id"`
	Category    string    `json:"category"`
	Names       []string  `json:"names"`
	FinalScores []float64 `json:"final_scores"`
}

type ResultService struct {
	db database.Store
}

func NewResultService(db database.Store) *ResultService {
	return &ResultService{db: db}
}

// CreateResults validates the request before any row is written.
func (rs *ResultService) CreateResults(req BulkResultsRequest) ([]models.Result, error) {
	if err := ValidateID("contest_id", req.ContestID); err != nil {
		return nil, err
	}
	category, ok := models.ParseCategory(req.Category)
	if !ok {
		return nil, invalidCategory(req.Category)
	}
	if len(req.Names) == 0 {
		return nil, ValidationError{Field: "names", Message: "names must not be empty", Code: "NAMES_REQUIRED"}
	}
	if len(req.Names) != len(req.FinalScores) {
		return nil, fmt.Errorf("%w: %d names, %d scores", database.ErrLengthMismatch, len(req.Names), len(req.FinalScores))
	}
	for i, name := range req.Names {
		if strings.TrimSpace(name) == "" {
			return nil, ValidationError{
				Field:   "names",
				Message: fmt.Sprintf("name at index %d is blank", i),
				Code:    "NAME_BLANK",
			}
		}
	}

	contest, err := rs.db.GetContestByID(req.ContestID)
	if err != nil {
		return nil, err
	}
	if contest == nil {
		return nil, fmt.Errorf("contest %d: %w", req.ContestID, database.ErrNotFound)
	}
	return rs.db.CreateResults(contest.ID, category, req.Names, req.FinalScores)
}

func (rs *ResultService) ListByContest(contestID int64) ([]models.Result, error) {
	results, err := rs.db.ListResultsByContest(contestID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.Result{}
	}
	return results, nil
}

// DeleteByCategory removes one list and reports how many rows went with it.
func (rs *ResultService) DeleteByCategory(contestID int64, rawCategory string) (int64, error) {
	category, ok := models.ParseCategory(rawCategory)
	if !ok {
		return 0, invalidCategory(rawCategory)
	}
	return rs.db.DeleteResultsByCategory(contestID, category)
}

func invalidCategory(raw string) error {
	names := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		names = append(names, string(c))
	}
	return ValidationError{
		Field:   "category",
		Message: fmt.Sprintf("category %q is not one of %s", raw, strings.Join(names, ", ")),
		Code:    "CATEGORY_INVALID",
	}
}
