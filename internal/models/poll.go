package models

import (
	"time"
)

type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
	QuestionText     QuestionType = "text"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionSingle, QuestionMultiple, QuestionText:
		return true
	}
	return false
}

/** --------------------ENTITIES-------------------- */
// Poll is a titled set of questions owned by its creator.
type Poll struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Slug        string     `gorm:"size:12;uniqueIndex;not null" json:"slug"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	CreatedByID uint       `gorm:"index;not null" json:"created_by_id"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID" json:"-"`
	StartDate   time.Time  `gorm:"not null" json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	IsActive    bool       `gorm:"not null;index" json:"is_active"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Questions   []Question `gorm:"foreignKey:PollID" json:"questions,omitempty"`
}

// IsOpen reports whether the poll accepts votes at now.
func (p *Poll) IsOpen(now time.Time) bool {
	if !p.IsActive || p.StartDate.After(now) {
		return false
	}
	return p.EndDate == nil || !p.EndDate.Before(now)
}

type Question struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Slug         string       `gorm:"size:12;uniqueIndex;not null" json:"slug"`
	PollID       uint         `gorm:"index;not null" json:"poll_id"`
	Text         string       `gorm:"size:500;not null" json:"text"`
	QuestionType QuestionType `gorm:"size:20;not null" json:"question_type"`
	Order        int          `gorm:"column:sort_order;not null" json:"order"`
	Poll         *Poll        `gorm:"foreignKey:PollID" json:"-"`
	Options      []Option     `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

type Option struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Slug       string    `gorm:"size:12;uniqueIndex;not null" json:"slug"`
	QuestionID uint      `gorm:"index;not null" json:"question_id"`
	Text       string    `gorm:"size:255;not null" json:"text"`
	Order      int       `gorm:"column:sort_order;not null" json:"order"`
	Question   *Question `gorm:"foreignKey:QuestionID" json:"-"`
}

// Vote records one user's choice on one question; (user, question) is unique.
type Vote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Slug       string    `gorm:"size:12;uniqueIndex;not null" json:"slug"`
	UserID     uint      `gorm:"uniqueIndex:idx_vote_user_question;not null" json:"user_id"`
	QuestionID uint      `gorm:"uniqueIndex:idx_vote_user_question;index;not null" json:"question_id"`
	OptionID   uint      `gorm:"index;not null" json:"option_id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	Question   *Question `gorm:"foreignKey:QuestionID" json:"-"`
	Option     *Option   `gorm:"foreignKey:OptionID" json:"-"`
}

// PollView is an append-only record of a poll detail read.
type PollView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PollID    uint      `gorm:"index;not null" json:"poll_id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

/** -------------------- DTOs -------------------- */
type OptionInput struct {
	Text  string `json:"text" binding:"required,max=255"`
	Order int    `json:"order"`
}

type QuestionInput struct {
	Text         string        `json:"text" binding:"required,max=500"`
	QuestionType QuestionType  `json:"question_type"`
	Order        int           `json:"order"`
	Options      []OptionInput `json:"options" binding:"dive"`
}

type CreatePollRequest struct {
	Title       string          `json:"title" binding:"required,max=255"`
	Description string          `json:"description"`
	StartDate   *time.Time      `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	IsActive    *bool           `json:"is_active"`
	Questions   []QuestionInput `json:"questions" binding:"dive"`
}

// UpdatePollRequest serves both PUT and PATCH; nil fields are left unchanged.
type UpdatePollRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=255"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	ClearEnd    bool       `json:"clear_end_date"`
	IsActive    *bool      `json:"is_active"`
}

type CreateQuestionRequest struct {
	Poll         string        `json:"poll" binding:"required"`
	Text         string        `json:"text" binding:"required,max=500"`
	QuestionType QuestionType  `json:"question_type"`
	Order        int           `json:"order"`
	Options      []OptionInput `json:"options" binding:"dive"`
}

type UpdateQuestionRequest struct {
	Text         *string       `json:"text" binding:"omitempty,max=500"`
	QuestionType *QuestionType `json:"question_type"`
	Order        *int          `json:"order"`
}

type CreateOptionRequest struct {
	Question string `json:"question" binding:"required"`
	Text     string `json:"text" binding:"required,max=255"`
	Order    int    `json:"order"`
}

type UpdateOptionRequest struct {
	Text  *string `json:"text" binding:"omitempty,max=255"`
	Order *int    `json:"order"`
}

type CastVoteRequest struct {
	Question string `json:"question" binding:"required"`
	Option   string `json:"option" binding:"required"`
}

type NotifyRequest struct {
	Type string `json:"type" binding:"required,oneof=closed reminder"`
}

type OptionResponse struct {
	Slug  string `json:"slug"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type QuestionResponse struct {
	Slug         string           `json:"slug"`
	Poll         string           `json:"poll,omitempty"`
	Text         string           `json:"text"`
	QuestionType QuestionType     `json:"question_type"`
	Order        int              `json:"order"`
	Options      []OptionResponse `json:"options"`
}

type PollResponse struct {
	Slug        string             `json:"slug"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	CreatedBy   string             `json:"created_by"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	StartDate   time.Time          `json:"start_date"`
	EndDate     *time.Time         `json:"end_date"`
	IsActive    bool               `json:"is_active"`
	IsOpen      bool               `json:"is_open"`
	Questions   []QuestionResponse `json:"questions"`
}

type VoteResponse struct {
	Slug      string    `json:"slug"`
	Question  string    `json:"question"`
	Option    string    `json:"option"`
	CreatedAt time.Time `json:"created_at"`
}

func (o *Option) ToResponse() OptionResponse {
	return OptionResponse{Slug: o.Slug, Text: o.Text, Order: o.Order}
}

func (q *Question) ToResponse() QuestionResponse {
	resp := QuestionResponse{
		Slug:         q.Slug,
		Text:         q.Text,
		QuestionType: q.QuestionType,
		Order:        q.Order,
		Options:      make([]OptionResponse, 0, len(q.Options)),
	}
	if q.Poll != nil {
		resp.Poll = q.Poll.Slug
	}
	for i := range q.Options {
		resp.Options = append(resp.Options, q.Options[i].ToResponse())
	}
	return resp
}

func (p *Poll) ToResponse(now time.Time) PollResponse {
	resp := PollResponse{
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		IsActive:    p.IsActive,
		IsOpen:      p.IsOpen(now),
		Questions:   make([]QuestionResponse, 0, len(p.Questions)),
	}
	if p.CreatedBy != nil {
		resp.CreatedBy = p.CreatedBy.Email
	}
	for i := range p.Questions {
		resp.Questions = append(resp.Questions, p.Questions[i].ToResponse())
	}
	return resp
}
