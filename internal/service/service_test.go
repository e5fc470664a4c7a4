package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-planner/internal/deadline"
	"task-planner/internal/model"
	"task-planner/internal/repository"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func (c fixedClock) NewTicker(d time.Duration) deadline.Ticker {
	return deadline.SystemClock{}.NewTicker(d)
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(repository.Options{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestAuth() *AuthService {
	auth := NewAuthService("test-secret", 24)
	auth.cost = bcrypt.MinCost
	return auth
}

func newTestLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel, Formatter: log.LogfmtFormatter})
}

func createUser(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	user := model.User{Email: email, PasswordHash: "x"}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), &user))
	return user
}

func createCategory(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) model.Category {
	t.Helper()
	category := model.Category{UserID: userID, Name: name, IsEditable: true}
	require.NoError(t, repository.NewCategoryRepository(db).Create(context.Background(), &category))
	return category
}
