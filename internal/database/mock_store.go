// file: internal/database/mock_store.go
// version: 2.0.0
// guid: aaeae977-da37-4e44-9b49-7d4d8368c93e

package database

import (
	"time"

	"github.com/classificacaofinal/classificacao/internal/models"
)

// MockStore is a simple mock implementation for testing services.
// Unset functions return zero values.
type MockStore struct {
	CloseFunc func() error

	// Contest methods
	CreateContestFunc  func(contest *models.Contest) (*models.Contest, error)
	GetContestByIDFunc func(id int64) (*models.Contest, error)
	ListContestsFunc   func() ([]models.Contest, error)
	UpdateContestFunc  func(id int64, patch models.ContestPatch) (*models.Contest, error)
	DeleteContestFunc  func(id int64) error
	CountContestsFunc  func() (int, error)

	// Result methods
	CreateResultsFunc           func(contestID int64, category models.Category, names []string, scores []float64) ([]models.Result, error)
	GetResultByIDFunc           func(id int64) (*models.Result, error)
	ListResultsByContestFunc    func(contestID int64) ([]models.Result, error)
	ListResultsByCategoryFunc   func(category models.Category) ([]models.Result, error)
	ListAllResultsFunc          func() ([]models.Result, error)
	DeleteResultsByCategoryFunc func(contestID int64, category models.Category) (int64, error)
	CountResultsFunc            func() (int, error)

	// Extra methods
	GetExtraByResultIDFunc  func(resultID int64) (*models.ResultExtra, error)
	UpsertExtraFunc         func(resultID int64, patch models.ExtraPatch) (*models.ResultExtra, error)
	ListExtrasByContestFunc func(contestID int64) ([]models.ResultExtra, error)

	// User methods
	CreateUserFunc                 func(user *User) (*User, error)
	GetUserByIDFunc                func(id string) (*User, error)
	GetUserByEmailFunc             func(email string) (*User, error)
	GetUserByConfirmationTokenFunc func(token string) (*User, error)
	UpdateUserFunc                 func(user *User) error
	CountUsersFunc                 func() (int, error)

	// Session methods
	CreateSessionFunc         func(userID, ip, userAgent string, ttl time.Duration) (*Session, error)
	GetSessionFunc            func(id string) (*Session, error)
	RevokeSessionFunc         func(id string) error
	ListUserSessionsFunc      func(userID string) ([]Session, error)
	DeleteExpiredSessionsFunc func(now time.Time) (int64, error)
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockStore) CreateContest(contest *models.Contest) (*models.Contest, error) {
	if m.CreateContestFunc != nil {
		return m.CreateContestFunc(contest)
	}
	return contest, nil
}

func (m *MockStore) GetContestByID(id int64) (*models.Contest, error) {
	if m.GetContestByIDFunc != nil {
		return m.GetContestByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) ListContests() ([]models.Contest, error) {
	if m.ListContestsFunc != nil {
		return m.ListContestsFunc()
	}
	return []models.Contest{}, nil
}

func (m *MockStore) UpdateContest(id int64, patch models.ContestPatch) (*models.Contest, error) {
	if m.UpdateContestFunc != nil {
		return m.UpdateContestFunc(id, patch)
	}
	return nil, ErrNotFound
}

func (m *MockStore) DeleteContest(id int64) error {
	if m.DeleteContestFunc != nil {
		return m.DeleteContestFunc(id)
	}
	return nil
}

func (m *MockStore) CountContests() (int, error) {
	if m.CountContestsFunc != nil {
		return m.CountContestsFunc()
	}
	return 0, nil
}

func (m *MockStore) CreateResults(contestID int64, category models.Category, names []string, scores []float64) ([]models.Result, error) {
	if m.CreateResultsFunc != nil {
		return m.CreateResultsFunc(contestID, category, names, scores)
	}
	return []models.Result{}, nil
}

func (m *MockStore) GetResultByID(id int64) (*models.Result, error) {
	if m.GetResultByIDFunc != nil {
		return m.GetResultByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) ListResultsByContest(contestID int64) ([]models.Result, error) {
	if m.ListResultsByContestFunc != nil {
		return m.ListResultsByContestFunc(contestID)
	}
	return []models.Result{}, nil
}

func (m *MockStore) ListResultsByCategory(category models.Category) ([]models.Result, error) {
	if m.ListResultsByCategoryFunc != nil {
		return m.ListResultsByCategoryFunc(category)
	}
	return []models.Result{}, nil
}

func (m *MockStore) ListAllResults() ([]models.Result, error) {
	if m.ListAllResultsFunc != nil {
		return m.ListAllResultsFunc()
	}
	return []models.Result{}, nil
}

func (m *MockStore) DeleteResultsByCategory(contestID int64, category models.Category) (int64, error) {
	if m.DeleteResultsByCategoryFunc != nil {
		return m.DeleteResultsByCategoryFunc(contestID, category)
	}
	return 0, nil
}

func (m *MockStore) CountResults() (int, error) {
	if m.CountResultsFunc != nil {
		return m.CountResultsFunc()
	}
	return 0, nil
}

func (m *MockStore) GetExtraByResultID(resultID int64) (*models.ResultExtra, error) {
	if m.GetExtraByResultIDFunc != nil {
		return m.GetExtraByResultIDFunc(resultID)
	}
	return nil, nil
}

func (m *MockStore) UpsertExtra(resultID int64, patch models.ExtraPatch) (*models.ResultExtra, error) {
	if m.UpsertExtraFunc != nil {
		return m.UpsertExtraFunc(resultID, patch)
	}
	extra := &models.ResultExtra{ContestResultID: resultID}
	patch.Apply(extra)
	return extra, nil
}

func (m *MockStore) ListExtrasByContest(contestID int64) ([]models.ResultExtra, error) {
	if m.ListExtrasByContestFunc != nil {
		return m.ListExtrasByContestFunc(contestID)
	}
	return []models.ResultExtra{}, nil
}

func (m *MockStore) CreateUser(user *User) (*User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(user)
	}
	return user, nil
}

func (m *MockStore) GetUserByID(id string) (*User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetUserByEmail(email string) (*User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, nil
}

func (m *MockStore) GetUserByConfirmationToken(token string) (*User, error) {
	if m.GetUserByConfirmationTokenFunc != nil {
		return m.GetUserByConfirmationTokenFunc(token)
	}
	return nil, nil
}

func (m *MockStore) UpdateUser(user *User) error {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(user)
	}
	return nil
}

func (m *MockStore) CountUsers() (int, error) {
	if m.CountUsersFunc != nil {
		return m.CountUsersFunc()
	}
	return 0, nil
}

func (m *MockStore) CreateSession(userID, ip, userAgent string, ttl time.Duration) (*Session, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(userID, ip, userAgent, ttl)
	}
	now := time.Now()
	return &Session{ID: "mock-session", UserID: userID, CreatedAt: now, ExpiresAt: now.Add(ttl), IP: ip, UserAgent: userAgent}, nil
}

func (m *MockStore) GetSession(id string) (*Session, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(id)
	}
	return nil, nil
}

func (m *MockStore) RevokeSession(id string) error {
	if m.RevokeSessionFunc != nil {
		return m.RevokeSessionFunc(id)
	}
	return nil
}

func (m *MockStore) ListUserSessions(userID string) ([]Session, error) {
	if m.ListUserSessionsFunc != nil {
		return m.ListUserSessionsFunc(userID)
	}
	return []Session{}, nil
}

func (m *MockStore) DeleteExpiredSessions(now time.Time) (int64, error) {
	if m.DeleteExpiredSessionsFunc != nil {
		return m.DeleteExpiredSessionsFunc(now)
	}
	return 0, nil
}
