// file: internal/server/extra_service.go
// version: 1.0.0
// guid: 7b2d9e40-1c6a-4f83-a5e7-3d8b0f4c2a96

package server

import (
	"fmt"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/models"
)

// ExtraUpsertRequest is a status patch addressed to one result.
type ExtraUpsertRequest struct {
	ContestResultID int64 `json:"contest_result_id"`
	models.ExtraPatch
}

type ExtraService struct {
	db database.Store
}

func NewExtraService(db database.Store) *ExtraService {
	return &ExtraService{db: db}
}

func (es *ExtraService) GetByResultID(resultID int64) (*models.ResultExtra, error) {
	extra, err := es.db.GetExtraByResultID(resultID)
	if err != nil {
		return nil, err
	}
	if extra == nil {
		return nil, fmt.Errorf("extra for result %d: %w", resultID, database.ErrNotFound)
	}
	return extra, nil
}

// Upsert creates the status of a result or updates the fields present in the patch.
func (es *ExtraService) Upsert(req ExtraUpsertRequest) (*models.ResultExtra, error) {
	if err := ValidateID("contest_result_id", req.ContestResultID); err != nil {
		return nil, err
	}
	result, err := es.db.GetResultByID(req.ContestResultID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("result %d: %w", req.ContestResultID, database.ErrNotFound)
	}
	return es.db.UpsertExtra(result.ID, req.ExtraPatch)
}

func (es *ExtraService) ListByContest(contestID int64) ([]models.ResultExtra, error) {
	extras, err := es.db.ListExtrasByContest(contestID)
	if err != nil {
		return nil, err
	}
	if extras == nil {
		extras = []models.ResultExtra{}
	}
	return extras, nil
}
