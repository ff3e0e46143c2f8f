// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"poll-service/internal/config"
	"poll-service/internal/database"
	"poll-service/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seq atomic.Int64

// NewDB returns a migrated in-memory sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", URI: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func nextSlug(prefix string) string {
	return fmt.Sprintf("%s%07d", prefix, seq.Add(1))
}

// CreateUser inserts a user whose password is "password123".
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Email: email, Password: string(hash)}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePoll inserts an open poll with the given questions and options.
func CreatePoll(t *testing.T, db *gorm.DB, owner *models.User, title string, questions ...[]string) *models.Poll {
	t.Helper()
	p := &models.Poll{
		Slug:        nextSlug("P"),
		Title:       title,
		Description: title + " description",
		CreatedByID: owner.ID,
		StartDate:   time.Now().Add(-time.Hour),
		IsActive:    true,
	}
	for qi, q := range questions {
		question := models.Question{
			Slug:         nextSlug("Q"),
			Text:         q[0],
			QuestionType: models.QuestionSingle,
			Order:        qi,
		}
		for oi, text := range q[1:] {
			question.Options = append(question.Options, models.Option{
				Slug:  nextSlug("O"),
				Text:  text,
				Order: oi,
			})
		}
		p.Questions = append(p.Questions, question)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateVote records a vote directly, bypassing service validation.
func CreateVote(t *testing.T, db *gorm.DB, user *models.User, question *models.Question, option *models.Option) *models.Vote {
	t.Helper()
	v := &models.Vote{
		Slug:       nextSlug("V"),
		UserID:     user.ID,
		QuestionID: question.ID,
		OptionID:   option.ID,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(v).Error)
	return v
}
