// file: internal/database/sqlite_store.go
// version: 2.0.0
// guid: 7afb8db5-7522-432a-9db3-aefd9c67b96b

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/classificacaofinal/classificacao/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const contestSelectColumns = `id, name, banca, site, edital_url, cargo, created_at`

const extraSelectColumns = `
	id, contest_result_id, situacao, vai_assumir, outras_listas, contatos,
	created_at, updated_at
`

// resultSelect joins every result with its contest and optional extra.
const resultSelect = `
	SELECT r.id, r.contest_id, r.category, r.position, r.name, r.final_score, r.created_at,
		c.id, c.name, c.banca, c.site, c.edital_url, c.cargo, c.created_at,
		e.id, e.contest_result_id, e.situacao, e.vai_assumir, e.outras_listas, e.contatos,
		e.created_at, e.updated_at
	FROM contest_results r
	JOIN contests c ON c.id = r.contest_id
	LEFT JOIN contest_results_extra e ON e.contest_result_id = r.id
`

func scanContest(scanner rowScanner, contest *models.Contest) error {
	return scanner.Scan(
		&contest.ID, &contest.Name, &contest.Banca, &contest.Site,
		&contest.EditalURL, &contest.Cargo, &contest.CreatedAt,
	)
}

func scanExtra(scanner rowScanner, extra *models.ResultExtra) error {
	var situacao, vaiAssumir sql.NullString
	var updatedAt sql.NullTime
	if err := scanner.Scan(
		&extra.ID, &extra.ContestResultID, &situacao, &vaiAssumir,
		&extra.OutrasListas, &extra.Contatos, &extra.CreatedAt, &updatedAt,
	); err != nil {
		return err
	}
	extra.Situacao = nullStringPtr(situacao)
	extra.VaiAssumir = nullStringPtr(vaiAssumir)
	if updatedAt.Valid {
		t := updatedAt.Time
		extra.UpdatedAt = &t
	}
	return nil
}

func scanResult(scanner rowScanner) (models.Result, error) {
	var (
		r       models.Result
		contest models.Contest

		extraID, extraResultID sql.NullInt64
		situacao, vaiAssumir   sql.NullString
		outras, contatos       models.JSONObject
		extraCreated, extraUpd sql.NullTime
	)
	err := scanner.Scan(
		&r.ID, &r.ContestID, &r.Category, &r.Position, &r.Name, &r.FinalScore, &r.CreatedAt,
		&contest.ID, &contest.Name, &contest.Banca, &contest.Site, &contest.EditalURL,
		&contest.Cargo, &contest.CreatedAt,
		&extraID, &extraResultID, &situacao, &vaiAssumir, &outras, &contatos,
		&extraCreated, &extraUpd,
	)
	if err != nil {
		return r, err
	}
	r.Contest = &contest
	if extraID.Valid {
		extra := &models.ResultExtra{
			ID:              extraID.Int64,
			ContestResultID: extraResultID.Int64,
			Situacao:        nullStringPtr(situacao),
			VaiAssumir:      nullStringPtr(vaiAssumir),
			OutrasListas:    outras,
			Contatos:        contatos,
			CreatedAt:       extraCreated.Time,
		}
		if extraUpd.Valid {
			t := extraUpd.Time
			extra.UpdatedAt = &t
		}
		r.Extra = extra
	}
	return r, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// SQLiteStore implements the Store interface using SQLite3
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path with foreign keys enforced and
// brings the schema up to date.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// DB exposes the underlying handle for maintenance commands.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Contest operations

func (s *SQLiteStore) CreateContest(contest *models.Contest) (*models.Contest, error) {
	created := *contest
	created.CreatedAt = time.Now().UTC()
	result, err := s.db.Exec(
		"INSERT INTO contests (name, banca, site, edital_url, cargo, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		created.Name, created.Banca, created.Site, created.EditalURL, created.Cargo, created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create contest: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	created.ID = id
	return &created, nil
}

func (s *SQLiteStore) GetContestByID(id int64) (*models.Contest, error) {
	var contest models.Contest
	err := scanContest(s.db.QueryRow("SELECT "+contestSelectColumns+" FROM contests WHERE id = ?", id), &contest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contest, nil
}

func (s *SQLiteStore) ListContests() ([]models.Contest, error) {
	rows, err := s.db.Query("SELECT " + contestSelectColumns + " FROM contests ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contests := []models.Contest{}
	for rows.Next() {
		var contest models.Contest
		if err := scanContest(rows, &contest); err != nil {
			return nil, err
		}
		contests = append(contests, contest)
	}
	return contests, rows.Err()
}

func (s *SQLiteStore) UpdateContest(id int64, patch models.ContestPatch) (*models.Contest, error) {
	contest, err := s.GetContestByID(id)
	if err != nil {
		return nil, err
	}
	if contest == nil {
		return nil, ErrNotFound
	}
	if patch.IsEmpty() {
		return contest, nil
	}
	patch.Apply(contest)
	_, err = s.db.Exec(
		"UPDATE contests SET name = ?, banca = ?, site = ?, edital_url = ?, cargo = ? WHERE id = ?",
		contest.Name, contest.Banca, contest.Site, contest.EditalURL, contest.Cargo, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update contest: %w", err)
	}
	return contest, nil
}

// DeleteContest removes the contest; results and extras go with it.
func (s *SQLiteStore) DeleteContest(id int64) error {
	result, err := s.db.Exec("DELETE FROM contests WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete contest: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CountContests() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM contests").Scan(&count)
	return count, err
}

// Result operations

// CreateResults appends one list of candidates to a contest category.
// Positions continue after the current maximum, in input order.
func (s *SQLiteStore) CreateResults(contestID int64, category models.Category, names []string, scores []float64) ([]models.Result, error) {
	if len(names) != len(scores) {
		return nil, ErrLengthMismatch
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxPosition sql.NullInt64
	if err := tx.QueryRow(
		"SELECT MAX(position) FROM contest_results WHERE contest_id = ? AND category = ?",
		contestID, string(category),
	).Scan(&maxPosition); err != nil {
		return nil, fmt.Errorf("failed to read last position: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO contest_results
		(contest_id, category, position, name, final_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	next := int(maxPosition.Int64) + 1
	created := make([]models.Result, 0, len(names))
	for i, raw := range names {
		r := models.Result{
			ContestID:  contestID,
			Category:   category,
			Position:   next + i,
			Name:       strings.TrimSpace(raw),
			FinalScore: scores[i],
			CreatedAt:  now,
		}
		res, err := stmt.Exec(r.ContestID, string(r.Category), r.Position, r.Name, r.FinalScore, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert result %q: %w", r.Name, err)
		}
		if r.ID, err = res.LastInsertId(); err != nil {
			return nil, err
		}
		created = append(created, r)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit results: %w", err)
	}
	return created, nil
}

func (s *SQLiteStore) GetResultByID(id int64) (*models.Result, error) {
	r, err := scanResult(s.db.QueryRow(resultSelect+" WHERE r.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteStore) queryResults(query string, args ...any) ([]models.Result, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) ListResultsByContest(contestID int64) ([]models.Result, error) {
	return s.queryResults(resultSelect+" WHERE r.contest_id = ? ORDER BY r.category, r.position", contestID)
}

func (s *SQLiteStore) ListResultsByCategory(category models.Category) ([]models.Result, error) {
	return s.queryResults(resultSelect+" WHERE r.category = ? ORDER BY r.contest_id, r.position", string(category))
}

// ListAllResults returns every result ordered by contest, then position.
func (s *SQLiteStore) ListAllResults() ([]models.Result, error) {
	return s.queryResults(resultSelect + " ORDER BY r.contest_id, r.position, r.id")
}

func (s *SQLiteStore) DeleteResultsByCategory(contestID int64, category models.Category) (int64, error) {
	result, err := s.db.Exec(
		"DELETE FROM contest_results WHERE contest_id = ? AND category = ?",
		contestID, string(category),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete results: %w", err)
	}
	return result.RowsAffected()
}

func (s *SQLiteStore) CountResults() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM contest_results").Scan(&count)
	return count, err
}

// Extra operations

func (s *SQLiteStore) GetExtraByResultID(resultID int64) (*models.ResultExtra, error) {
	var extra models.ResultExtra
	err := scanExtra(s.db.QueryRow(
		"SELECT "+extraSelectColumns+" FROM contest_results_extra WHERE contest_result_id = ?", resultID,
	), &extra)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &extra, nil
}

// UpsertExtra creates the extra of a result or applies patch to the existing one.
func (s *SQLiteStore) UpsertExtra(resultID int64, patch models.ExtraPatch) (*models.ResultExtra, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var extra models.ResultExtra
	err = scanExtra(tx.QueryRow(
		"SELECT "+extraSelectColumns+" FROM contest_results_extra WHERE contest_result_id = ?", resultID,
	), &extra)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		extra = models.ResultExtra{ContestResultID: resultID, CreatedAt: now}
		patch.Apply(&extra)
		res, err := tx.Exec(`INSERT INTO contest_results_extra
			(contest_result_id, situacao, vai_assumir, outras_listas, contatos, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			resultID, extra.Situacao, extra.VaiAssumir, extra.OutrasListas, extra.Contatos, extra.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create result extra: %w", err)
		}
		if extra.ID, err = res.LastInsertId(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		patch.Apply(&extra)
		extra.UpdatedAt = &now
		if _, err := tx.Exec(`UPDATE contest_results_extra
			SET situacao = ?, vai_assumir = ?, outras_listas = ?, contatos = ?, updated_at = ?
			WHERE id = ?`,
			extra.Situacao, extra.VaiAssumir, extra.OutrasListas, extra.Contatos, now, extra.ID,
		); err != nil {
			return nil, fmt.Errorf("failed to update result extra: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit result extra: %w", err)
	}
	return &extra, nil
}

func (s *SQLiteStore) ListExtrasByContest(contestID int64) ([]models.ResultExtra, error) {
	rows, err := s.db.Query(`SELECT e.id, e.contest_result_id, e.situacao, e.vai_assumir,
			e.outras_listas, e.contatos, e.created_at, e.updated_at
		FROM contest_results_extra e
		JOIN contest_results r ON r.id = e.contest_result_id
		WHERE r.contest_id = ?
		ORDER BY r.category, r.position`, contestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	extras := []models.ResultExtra{}
	for rows.Next() {
		var extra models.ResultExtra
		if err := scanExtra(rows, &extra); err != nil {
			return nil, err
		}
		extras = append(extras, extra)
	}
	return extras, rows.Err()
}
