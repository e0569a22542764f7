// file: internal/server/service_layer_test.go
// version: 2.0.0
// guid: 3c8f0a6d-e1b7-4592-8d4a-f6b2c9e07d13

package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/mail"
	"github.com/classificacaofinal/classificacao/internal/models"
	"github.com/classificacaofinal/classificacao/internal/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestContestService_CreateTrimsAndValidates(t *testing.T) {
	var stored *models.Contest
	mockDB := &database.MockStore{
		CreateContestFunc: func(c *models.Contest) (*models.Contest, error) {
			stored = c
			c.ID = 1
			return c, nil
		},
	}
	cs := NewContestService(mockDB)

	_, err := cs.CreateContest(ContestInput{Name: "X", Banca: "Y", Site: "Z", EditalURL: "W"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, stored)

	created, err := cs.CreateContest(ContestInput{Name: " PF ", Banca: "Cebraspe", Site: "s", EditalURL: "e", Cargo: " Agente "})
	require.NoError(t, err)
	assert.Equal(t, "PF", created.Name)
	assert.Equal(t, "Agente", created.Cargo)
}

func TestContestService_GetMissing(t *testing.T) {
	cs := NewContestService(&database.MockStore{})
	_, err := cs.GetContest(5)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestContestService_ListNeverNil(t *testing.T) {
	cs := NewContestService(&database.MockStore{
		ListContestsFunc: func() ([]models.Contest, error) { return nil, nil },
	})
	contests, err := cs.ListContests()
	require.NoError(t, err)
	assert.NotNil(t, contests)
}

func TestContestService_UpdateTrimsPatch(t *testing.T) {
	var got models.ContestPatch
	cs := NewContestService(&database.MockStore{
		UpdateContestFunc: func(id int64, patch models.ContestPatch) (*models.Contest, error) {
			got = patch
			c := &models.Contest{ID: id}
			patch.Apply(c)
			return c, nil
		},
	})
	name := "  Novo nome "
	updated, err := cs.UpdateContest(3, models.ContestPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Novo nome", updated.Name)
	assert.Nil(t, got.Banca)
}

func TestResultService_ValidatesBeforeStore(t *testing.T) {
	called := false
	rs := NewResultService(&database.MockStore{
		CreateResultsFunc: func(int64, models.Category, []string, []float64) ([]models.Result, error) {
			called = true
			return nil, nil
		},
	})

	_, err := rs.CreateResults(BulkResultsRequest{ContestID: 1, Category: "Ampla", Names: []string{"A"}, FinalScores: []float64{1, 2}})
	assert.ErrorIs(t, err, database.ErrLengthMismatch)

	_, err = rs.CreateResults(BulkResultsRequest{ContestID: 0, Category: "Ampla", Names: []string{"A"}, FinalScores: []float64{1}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = rs.CreateResults(BulkResultsRequest{ContestID: 1, Category: "Ampla", Names: []string{"A"}, FinalScores: []float64{1}})
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.False(t, called)
}

func TestResultService_CreatesWithParsedCategory(t *testing.T) {
	var gotCategory models.Category
	rs := NewResultService(&database.MockStore{
		GetContestByIDFunc: func(id int64) (*models.Contest, error) { return &models.Contest{ID: id}, nil },
		CreateResultsFunc: func(_ int64, category models.Category, names []string, _ []float64) ([]models.Result, error) {
			gotCategory = category
			return make([]models.Result, len(names)), nil
		},
	})
	results, err := rs.CreateResults(BulkResultsRequest{ContestID: 2, Category: " Indígenas ", Names: []string{"A", "B"}, FinalScores: []float64{1, 2}})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, models.CategoryIndigenas, gotCategory)
}

func TestExtraService_Upsert(t *testing.T) {
	es := NewExtraService(&database.MockStore{
		GetResultByIDFunc: func(id int64) (*models.Result, error) {
			if id == 7 {
				return &models.Result{ID: 7}, nil
			}
			return nil, nil
		},
	})

	extra, err := es.Upsert(ExtraUpsertRequest{ContestResultID: 7, ExtraPatch: models.ExtraPatch{Situacao: models.Some("Empossado")}})
	require.NoError(t, err)
	require.NotNil(t, extra.Situacao)
	assert.Equal(t, "Empossado", *extra.Situacao)

	_, err = es.Upsert(ExtraUpsertRequest{ContestResultID: 8})
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = es.GetByResultID(7)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestMatchService_StoreError(t *testing.T) {
	boom := errors.New("database is locked")
	ms := NewMatchService(&database.MockStore{
		ListAllResultsFunc: func() ([]models.Result, error) { return nil, boom },
	})

	_, err := ms.ResultsByName("Ana Silva")
	assert.ErrorIs(t, err, boom)
	_, err = ms.BatchStatus([]string{"Ana"})
	assert.ErrorIs(t, err, boom)
}

func TestMatchService_CriteriaLoadsOneCategory(t *testing.T) {
	var asked []models.Category
	ms := NewMatchService(&database.MockStore{
		ListAllResultsFunc: func() ([]models.Result, error) {
			t.Fatal("category lookup should not load every result")
			return nil, nil
		},
		ListResultsByCategoryFunc: func(category models.Category) ([]models.Result, error) {
			asked = append(asked, category)
			return []models.Result{
				{ID: 1, ContestID: 1, Category: category, Name: "Ana Silva"},
				{ID: 2, ContestID: 2, Category: category, Name: "Bruno Lima"},
				{ID: 3, ContestID: 3, Category: category, Name: "ANA SILVA"},
			}, nil
		},
	})

	got, err := ms.ResultsByNameAndCategory("Aná Silva", "PCD")
	require.NoError(t, err)
	assert.Equal(t, []models.Category{models.CategoryPCD}, asked)
	require.Len(t, got, 2)
	assert.Equal(t, []int64{1, 3}, []int64{got[0].ID, got[1].ID})

	_, err = ms.ResultsByNameAndCategory("Ana Silva", "Outra")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, asked, 1)
}

func TestMatchService_EmptyBatchSkipsStore(t *testing.T) {
	ms := NewMatchService(&database.MockStore{
		ListAllResultsFunc: func() ([]models.Result, error) {
			t.Fatal("store should not be read for an empty batch")
			return nil, nil
		},
	})
	out, err := ms.StatusOutsideContest(nil, 3)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMatchService_SuggestLimit(t *testing.T) {
	records := []models.Result{
		{ID: 1, Name: "Ana Silva"}, {ID: 2, Name: "Ana Silveira"}, {ID: 3, Name: "Ana Sila"},
	}
	ms := NewMatchService(&database.MockStore{
		ListAllResultsFunc: func() ([]models.Result, error) { return records, nil },
	})
	out, err := ms.Suggest("Ana Silv", 1)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	_, err = ms.Suggest("An", 1)
	assert.ErrorIs(t, err, ErrValidation)
}

func newAuthServiceForTest(store database.Store, sender mail.Sender) *AuthService {
	return NewAuthService(store, sender, time.Hour, 24*time.Hour)
}

func TestAuthService_RegisterDisabledMail(t *testing.T) {
	store := &database.MockStore{
		CreateUserFunc: func(u *database.User) (*database.User, error) {
			created := *u
			created.ID = "u1"
			return &created, nil
		},
	}
	as := newAuthServiceForTest(store, mail.DisabledSender{FrontendURL: "http://front"})

	result, err := as.Register(context.Background(), RegisterRequest{Email: "ana@example.com", Password: "secret123", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "u1", result.User.ID)
	assert.True(t, result.Email.Attempted)
	assert.False(t, result.Email.Sent)
	assert.ErrorIs(t, result.Email.Err, mail.ErrDisabled)
	assert.Equal(t, database.ProviderLocal, result.User.Provider)
	assert.NotEqual(t, "secret123", result.User.PasswordHash)
}

func TestAuthService_LoginRules(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := map[string]*database.User{
		"inactive@x.co":    {ID: "1", PasswordHash: string(hash), IsActive: false, EmailConfirmed: true},
		"unconfirmed@x.co": {ID: "2", PasswordHash: string(hash), IsActive: true},
		"google@x.co":      {ID: "3", PasswordHash: googlePasswordPlaceholder, IsActive: true, EmailConfirmed: true},
		"ok@x.co":          {ID: "4", PasswordHash: string(hash), IsActive: true, EmailConfirmed: true},
	}
	as := newAuthServiceForTest(&database.MockStore{
		GetUserByEmailFunc: func(email string) (*database.User, error) { return users[email], nil },
	}, &recordingSender{})

	tests := []struct {
		email, password string
		want            error
	}{
		{"ghost@x.co", "secret123", ErrInvalidCredentials},
		{"ok@x.co", "wrong-one", ErrInvalidCredentials},
		{"inactive@x.co", "secret123", ErrInactiveUser},
		{"unconfirmed@x.co", "secret123", ErrEmailNotConfirmed},
		{"google@x.co", googlePasswordPlaceholder, ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			_, _, err := as.Login(LoginRequest{Email: tt.email, Password: tt.password}, ClientInfo{})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	session, user, err := as.Login(LoginRequest{Email: "ok@x.co", Password: "secret123"}, ClientInfo{IP: "1.2.3.4"})
	require.NoError(t, err)
	assert.Equal(t, "4", user.ID)
	assert.NotEmpty(t, session.ID)
}

func TestAuthService_ConfirmExpiryUsesClock(t *testing.T) {
	sentAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	token := "tok"
	user := &database.User{ID: "u1", ConfirmationToken: &token, ConfirmationSentAt: &sentAt, IsActive: true}
	updated := false
	as := newAuthServiceForTest(&database.MockStore{
		GetUserByConfirmationTokenFunc: func(string) (*database.User, error) { return user, nil },
		UpdateUserFunc: func(*database.User) error {
			updated = true
			return nil
		},
	}, nil)

	as.now = func() time.Time { return sentAt.Add(25 * time.Hour) }
	_, _, err := as.ConfirmEmail(token, ClientInfo{})
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, updated)

	as.now = func() time.Time { return sentAt.Add(23 * time.Hour) }
	_, confirmed, err := as.ConfirmEmail(token, ClientInfo{})
	require.NoError(t, err)
	assert.True(t, updated)
	assert.True(t, confirmed.EmailConfirmed)
	assert.Nil(t, confirmed.ConfirmationToken)
}

func TestAuthService_ConfirmTokenIsSingleUse(t *testing.T) {
	token := "tok"
	sentAt := time.Now().UTC()
	users := map[string]*database.User{
		token: {ID: "u1", ConfirmationToken: &token, ConfirmationSentAt: &sentAt, IsActive: true},
	}
	as := newAuthServiceForTest(&database.MockStore{
		GetUserByConfirmationTokenFunc: func(tok string) (*database.User, error) { return users[tok], nil },
		UpdateUserFunc: func(u *database.User) error {
			for tok, stored := range users {
				if stored.ID == u.ID && u.ConfirmationToken == nil {
					delete(users, tok)
				}
			}
			return nil
		},
		CreateSessionFunc: func(userID, ip, ua string, ttl time.Duration) (*database.Session, error) {
			return &database.Session{ID: "s-" + userID, UserID: userID}, nil
		},
	}, nil)

	session, user, err := as.ConfirmEmail(token, ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, "s-u1", session.ID)
	assert.True(t, user.EmailConfirmed)

	_, _, err = as.ConfirmEmail(token, ClientInfo{})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ResendSkipsConfirmed(t *testing.T) {
	sender := &recordingSender{}
	as := newAuthServiceForTest(&database.MockStore{
		GetUserByEmailFunc: func(string) (*database.User, error) {
			return &database.User{ID: "u1", EmailConfirmed: true}, nil
		},
	}, sender)

	outcome, err := as.ResendConfirmation(context.Background(), "done@example.com")
	require.NoError(t, err)
	assert.False(t, outcome.Attempted)
	assert.Zero(t, sender.count())
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	var created *database.User
	store := &database.MockStore{
		CreateUserFunc: func(u *database.User) (*database.User, error) {
			c := *u
			c.ID = "g1"
			created = &c
			return &c, nil
		},
	}
	as := newAuthServiceForTest(store, nil)

	_, _, err := as.LoginWithGoogle(&oauth.Identity{}, ClientInfo{})
	assert.ErrorIs(t, err, oauth.ErrMissingEmail)

	_, user, err := as.LoginWithGoogle(&oauth.Identity{Email: "Bia@Gmail.com", Picture: "https://pic"}, ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, "g1", user.ID)
	require.NotNil(t, created)
	assert.Equal(t, "bia@gmail.com", created.Email)
	assert.Equal(t, "Bia", created.Username)
	assert.True(t, created.EmailConfirmed)
	assert.Equal(t, database.ProviderGoogle, created.Provider)
	require.NotNil(t, created.Picture)

	store.GetUserByEmailFunc = func(string) (*database.User, error) {
		return &database.User{ID: "g1", IsActive: false}, nil
	}
	_, _, err = as.LoginWithGoogle(&oauth.Identity{Email: "bia@gmail.com"}, ClientInfo{})
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestAuthService_EmailStatus(t *testing.T) {
	as := newAuthServiceForTest(&database.MockStore{}, nil)
	_, err := as.EmailStatus("ghost@example.com")
	assert.ErrorIs(t, err, database.ErrNotFound)
}
