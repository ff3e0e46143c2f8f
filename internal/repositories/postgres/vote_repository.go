package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"poll-service/internal/models"

	"gorm.io/gorm"
)

var ErrDuplicateVote = errors.New("duplicate vote")

// OptionCount is one row of a grouped vote count.
type OptionCount struct {
	QuestionID uint
	OptionID   uint
	Count      int64
}

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Create inserts a vote, mapping the (user, question) unique index
// violation to ErrDuplicateVote.
func (r *VoteRepository) Create(ctx context.Context, v *models.Vote) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateVote
		}
		return fmt.Errorf("failed to create vote: %w", err)
	}
	return nil
}

func (r *VoteRepository) Exists(ctx context.Context, userID, questionID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&n).Error
	return n > 0, err
}

func (r *VoteRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

func (r *VoteRepository) FindBySlug(ctx context.Context, slug string) (*models.Vote, error) {
	var v models.Vote
	if err := r.db.WithContext(ctx).Preload("Question").Preload("Option").Where("slug = ?", slug).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VoteRepository) ListByUser(ctx context.Context, userID uint, params models.ListParams) ([]models.Vote, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Vote{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var votes []models.Vote
	err := q.Preload("Question").Preload("Option").
		Order("created_at DESC, id DESC").
		Offset(params.Offset()).Limit(params.PageSize).
		Find(&votes).Error
	return votes, total, err
}

func (r *VoteRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Vote{}, id).Error
}

// CountsByPoll groups the poll's votes by question and option.
func (r *VoteRepository) CountsByPoll(ctx context.Context, pollID uint) ([]OptionCount, error) {
	var rows []OptionCount
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Select("votes.question_id AS question_id, votes.option_id AS option_id, COUNT(*) AS count").
		Joins("JOIN questions ON questions.id = votes.question_id").
		Where("questions.poll_id = ?", pollID).
		Group("votes.question_id, votes.option_id").
		Scan(&rows).Error
	return rows, err
}

func (r *VoteRepository) CountByOption(ctx context.Context, optionID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).Where("option_id = ?", optionID).Count(&n).Error
	return n, err
}

func (r *VoteRepository) CountByQuestion(ctx context.Context, questionID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).Where("question_id = ?", questionID).Count(&n).Error
	return n, err
}

func (r *VoteRepository) creatorScope(userID uint) *gorm.DB {
	return r.db.Model(&models.Vote{}).
		Joins("JOIN questions ON questions.id = votes.question_id").
		Joins("JOIN polls ON polls.id = questions.poll_id").
		Where("polls.created_by_id = ?", userID)
}

// CountForCreator counts votes cast in [from, to) on the creator's polls.
func (r *VoteRepository) CountForCreator(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	var n int64
	err := r.creatorScope(userID).WithContext(ctx).
		Where("votes.created_at >= ? AND votes.created_at < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *VoteRepository) TotalForCreator(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.creatorScope(userID).WithContext(ctx).Count(&n).Error
	return n, err
}

func (r *VoteRepository) TimesForCreatorSince(ctx context.Context, userID uint, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.creatorScope(userID).WithContext(ctx).
		Where("votes.created_at >= ?", since).
		Pluck("votes.created_at", &times).Error
	return times, err
}

// CountsByPollForCreator returns vote totals keyed by poll id, restricted
// to votes cast at or after since.
func (r *VoteRepository) CountsByPollForCreator(ctx context.Context, userID uint, since time.Time) (map[uint]int64, error) {
	var rows []struct {
		PollID uint
		Count  int64
	}
	err := r.creatorScope(userID).WithContext(ctx).
		Select("questions.poll_id AS poll_id, COUNT(*) AS count").
		Where("votes.created_at >= ?", since).
		Group("questions.poll_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.PollID] = row.Count
	}
	return out, nil
}
