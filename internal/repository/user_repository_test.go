package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jermer/quizzly-backend/internal/apperr"
)

func newUserRepoMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db, bcrypt.MinCost), mock
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestUserRepository_Authenticate(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	hash := hashPassword(t, "pw123")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT username, password, email, is_admin FROM users WHERE username = $1")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password", "email", "is_admin"}).
			AddRow("alice", hash, "alice@x.com", false))

	user, err := repo.Authenticate(context.Background(), "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.False(t, user.IsAdmin)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_AuthenticateFailureSymmetry(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	hash := hashPassword(t, "pw123")

	mock.ExpectQuery("SELECT username, password, email, is_admin FROM users").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, noUserErr := repo.Authenticate(context.Background(), "ghost", "pw123")
	require.Error(t, noUserErr)
	assert.True(t, apperr.IsUnauthorized(noUserErr))

	mock.ExpectQuery("SELECT username, password, email, is_admin FROM users").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password", "email", "is_admin"}).
			AddRow("alice", hash, "alice@x.com", false))

	_, wrongPwErr := repo.Authenticate(context.Background(), "alice", "wrong")
	require.Error(t, wrongPwErr)
	assert.True(t, apperr.IsUnauthorized(wrongPwErr))

	// no username enumeration through distinguishable errors
	assert.Equal(t, noUserErr.Error(), wrongPwErr.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Register(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (username, password, email, is_admin)")).
		WithArgs("alice", passwordHashArg{plaintext: "pw123"}, "alice@x.com", false).
		WillReturnRows(sqlmock.NewRows([]string{"username", "email", "is_admin"}).
			AddRow("alice", "alice@x.com", false))

	user, err := repo.Register(context.Background(), RegisterParams{
		Username: "alice",
		Password: "pw123",
		Email:    "alice@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.False(t, user.IsAdmin)
	require.NoError(t, mock.ExpectationsWereMet())
}

// passwordHashArg accepts any bcrypt hash of the expected plaintext,
// and rejects the plaintext itself reaching the statement.
type passwordHashArg struct {
	plaintext string
}

func (a passwordHashArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok || s == a.plaintext {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s), []byte(a.plaintext)) == nil
}

func TestUserRepository_RegisterDuplicate(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.Register(context.Background(), RegisterParams{
		Username: "alice",
		Password: "pw123",
		Email:    "alice@x.com",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "already taken")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RegisterUniqueViolationBackstop(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Register(context.Background(), RegisterParams{
		Username: "alice",
		Password: "pw123",
		Email:    "alice@x.com",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindAll(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery("SELECT username, email, is_admin FROM users ORDER BY username").
		WillReturnRows(sqlmock.NewRows([]string{"username", "email", "is_admin"}).
			AddRow("alice", "alice@x.com", false).
			AddRow("bob", "bob@x.com", true))

	users, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.True(t, users[1].IsAdmin)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Get(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	attemptTime := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT username, email, is_admin FROM users WHERE username = $1")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"username", "email", "is_admin"}).
			AddRow("alice", "alice@x.com", false))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM quizzes WHERE creator = $1 ORDER BY id")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(7))
	mock.ExpectQuery("SELECT uq.quiz_id, q.title, uq.last_score, uq.best_score, uq.time_taken").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"quiz_id", "title", "last_score", "best_score", "time_taken", "question_count"}).
			AddRow(3, "Space Trivia", 4, 9, attemptTime, 10))

	detail, err := repo.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", detail.Username)
	assert.Equal(t, []int64{3, 7}, detail.Quizzes)
	require.Len(t, detail.Scores, 1)
	assert.Equal(t, int64(3), detail.Scores[0].QuizID)
	assert.Equal(t, "Space Trivia", detail.Scores[0].QuizTitle)
	assert.Equal(t, 4, detail.Scores[0].LastScore)
	assert.Equal(t, 9, detail.Scores[0].BestScore)
	assert.Equal(t, 10, detail.Scores[0].QuestionCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetNotFound(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery("SELECT username, email, is_admin FROM users").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRehashesPassword(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET email = $1, password = $2 WHERE username = $3")).
		WithArgs("new@x.com", passwordHashArg{plaintext: "newpw"}, "alice").
		WillReturnRows(sqlmock.NewRows([]string{"username", "email", "is_admin"}).
			AddRow("alice", "new@x.com", false))

	user, err := repo.Update(context.Background(), "alice", map[string]any{
		"email":    "new@x.com",
		"password": "newpw",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", user.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateAdminFlagTranslation(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET is_admin = $1 WHERE username = $2")).
		WithArgs(true, "alice").
		WillReturnRows(sqlmock.NewRows([]string{"username", "email", "is_admin"}).
			AddRow("alice", "alice@x.com", true))

	user, err := repo.Update(context.Background(), "alice", map[string]any{"isAdmin": true})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateEmptyFields(t *testing.T) {
	repo, _ := newUserRepoMock(t)

	_, err := repo.Update(context.Background(), "alice", map[string]any{})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
}

func TestUserRepository_UpdateNotFound(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery("UPDATE users SET").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "ghost", map[string]any{"email": "g@x.com"})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Remove(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE username = $1")).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Remove(context.Background(), "alice"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RemoveNotFound(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Remove(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RecordScoreUpsert(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	attemptTime := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM quizzes WHERE id = $1)")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (username, quiz_id) DO UPDATE SET")).
		WithArgs("alice", int64(3), 7).
		WillReturnRows(sqlmock.NewRows([]string{"username", "quiz_id", "last_score", "best_score", "time_taken"}).
			AddRow("alice", 3, 7, 9, attemptTime))

	attempt, err := repo.RecordScore(context.Background(), "alice", 3, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, attempt.LastScore)
	// best_score raised only by strictly better attempts
	assert.Equal(t, 9, attempt.BestScore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RecordScoreChecksUserFirst(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.RecordScore(context.Background(), "ghost", 3, 7)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Contains(t, err.Error(), "ghost")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RecordScoreMissingQuiz(t *testing.T) {
	repo, mock := newUserRepoMock(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.RecordScore(context.Background(), "alice", 42, 7)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Contains(t, err.Error(), "42")
	require.NoError(t, mock.ExpectationsWereMet())
}
