// file: internal/server/contest_service.go
// version: 1.0.0
// guid: 0f3c1a52-7d4e-4b8a-9c61-2e5d8f7a1b30

package server

import (
	"fmt"
	"strings"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/models"
)

// ContestInput is the body of a contest creation request.
type ContestInput struct {
	Name      string `json:"name"`
	Banca     string `json:"banca"`
	Site      string `json:"site"`
	EditalURL string `json:"edital_url"`
	Cargo     string `json:"cargo"`
}

type ContestService struct {
	db database.Store
}

func NewContestService(db database.Store) *ContestService {
	return &ContestService{db: db}
}

func (cs *ContestService) CreateContest(in ContestInput) (*models.Contest, error) {
	contest := &models.Contest{
		Name:      strings.TrimSpace(in.Name),
		Banca:     strings.TrimSpace(in.Banca),
		Site:      strings.TrimSpace(in.Site),
		EditalURL: strings.TrimSpace(in.EditalURL),
		Cargo:     strings.TrimSpace(in.Cargo),
	}
	for _, f := range []struct{ field, value string }{
		{"name", contest.Name},
		{"banca", contest.Banca},
		{"site", contest.Site},
		{"edital_url", contest.EditalURL},
		{"cargo", contest.Cargo},
	} {
		if err := ValidateRequired(f.field, f.value); err != nil {
			return nil, err
		}
	}
	return cs.db.CreateContest(contest)
}

func (cs *ContestService) ListContests() ([]models.Contest, error) {
	contests, err := cs.db.ListContests()
	if err != nil {
		return nil, err
	}
	if contests == nil {
		contests = []models.Contest{}
	}
	return contests, nil
}

func (cs *ContestService) GetContest(id int64) (*models.Contest, error) {
	contest, err := cs.db.GetContestByID(id)
	if err != nil {
		return nil, err
	}
	if contest == nil {
		return nil, fmt.Errorf("contest %d: %w", id, database.ErrNotFound)
	}
	return contest, nil
}

// UpdateContest applies the fields present in patch. A present field may not be blank.
func (cs *ContestService) UpdateContest(id int64, patch models.ContestPatch) (*models.Contest, error) {
	for _, f := range []struct {
		field string
		value *string
	}{
		{"name", patch.Name},
		{"banca", patch.Banca},
		{"site", patch.Site},
		{"edital_url", patch.EditalURL},
		{"cargo", patch.Cargo},
	} {
		if f.value == nil {
			continue
		}
		*f.value = strings.TrimSpace(*f.value)
		if err := ValidateRequired(f.field, *f.value); err != nil {
			return nil, err
		}
	}
	updated, err := cs.db.UpdateContest(id, patch)
	if err != nil {
		return nil, fmt.Errorf("contest %d: %w", id, err)
	}
	return updated, nil
}

func (cs *ContestService) DeleteContest(id int64) error {
	if err := cs.db.DeleteContest(id); err != nil {
		return fmt.Errorf("contest %d: %w", id, err)
	}
	return nil
}
