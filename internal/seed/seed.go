// Package seed fills a database with demo polls, views and votes spread
// over the last thirty days so analytics have something to show.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"poll-service/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
	spreadDays   = 30
)

var (
	firstNames = []string{"Ada", "Grace", "Linus", "Ken", "Barbara", "Dennis", "Margaret", "Alan", "Frances", "Edsger"}
	lastNames  = []string{"Lovelace", "Hopper", "Torvalds", "Thompson", "Liskov", "Ritchie", "Hamilton", "Turing", "Allen", "Dijkstra"}
	words      = []string{
		"coffee", "remote", "office", "lunch", "release", "friday", "roadmap", "budget", "holiday", "training",
		"meeting", "feedback", "design", "team", "project", "weekend", "music", "travel", "sport", "books",
	}
)

type Options struct {
	Users int
	Polls int
	Votes int
	Views int
}

type Result struct {
	Users int
	Polls int
	Views int
	Votes int
}

type Seeder struct {
	db     *gorm.DB
	rnd    *rand.Rand
	now    func() time.Time
	logger *zap.Logger
}

func New(db *gorm.DB, rnd *rand.Rand, logger *zap.Logger) *Seeder {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Seeder{db: db, rnd: rnd, now: time.Now, logger: logger}
}

func (s *Seeder) pick(list []string) string {
	return list[s.rnd.IntN(len(list))]
}

func (s *Seeder) sentence(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = s.pick(words)
	}
	out := strings.Join(parts, " ")
	return strings.ToUpper(out[:1]) + out[1:]
}

func slug() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// after returns a random time between t and now, on whole-day steps.
func (s *Seeder) after(t time.Time) time.Time {
	days := int(s.now().Sub(t).Hours() / 24)
	if days <= 0 {
		return t
	}
	return t.Add(time.Duration(s.rnd.IntN(days+1)) * 24 * time.Hour)
}

// Analytics creates users, polls with two to four questions each, views
// and votes. Existing users with the same email are reused.
func (s *Seeder) Analytics(ctx context.Context, opts Options) (*Result, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	res := &Result{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make([]models.User, 0, opts.Users+1)
		for i := 0; i < opts.Users; i++ {
			first, last := s.pick(firstNames), s.pick(lastNames)
			email := fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), s.rnd.IntN(100000))
			u, err := s.userFor(tx, email, first, last, string(hash))
			if err != nil {
				return err
			}
			users = append(users, *u)
		}
		demo, err := s.userFor(tx, DemoEmail, "Demo", "User", string(hash))
		if err != nil {
			return err
		}
		users = append(users, *demo)
		res.Users = len(users)
		s.logger.Info("created/loaded users", zap.Int("count", len(users)))

		polls := make([]models.Poll, 0, opts.Polls)
		for i := 0; i < opts.Polls; i++ {
			p, err := s.poll(tx, &users[s.rnd.IntN(len(users))])
			if err != nil {
				return err
			}
			polls = append(polls, *p)
		}
		res.Polls = len(polls)
		s.logger.Info("created polls with questions", zap.Int("count", len(polls)))
		if len(polls) == 0 {
			return nil
		}

		for i := 0; i < opts.Views; i++ {
			p := &polls[s.rnd.IntN(len(polls))]
			view := models.PollView{PollID: p.ID, CreatedAt: s.after(p.CreatedAt)}
			// 30% anonymous
			if s.rnd.Float64() > 0.3 {
				id := users[s.rnd.IntN(len(users))].ID
				view.UserID = &id
			}
			if err := tx.Create(&view).Error; err != nil {
				return fmt.Errorf("failed to create view: %w", err)
			}
			res.Views++
		}
		s.logger.Info("created poll views", zap.Int("count", res.Views))

		voted := map[[2]uint]bool{}
		for i := 0; i < opts.Votes; i++ {
			p := &polls[s.rnd.IntN(len(polls))]
			voter := &users[s.rnd.IntN(len(users))]
			for qi := range p.Questions {
				q := &p.Questions[qi]
				key := [2]uint{voter.ID, q.ID}
				if voted[key] || len(q.Options) == 0 {
					continue
				}
				vote := models.Vote{
					Slug:       slug(),
					UserID:     voter.ID,
					QuestionID: q.ID,
					OptionID:   q.Options[s.rnd.IntN(len(q.Options))].ID,
					CreatedAt:  s.after(p.CreatedAt),
				}
				if err := tx.Create(&vote).Error; err != nil {
					if errors.Is(err, gorm.ErrDuplicatedKey) {
						voted[key] = true
						continue
					}
					return fmt.Errorf("failed to create vote: %w", err)
				}
				voted[key] = true
				res.Votes++
				break
			}
		}
		s.logger.Info("created votes", zap.Int("count", res.Votes))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Seeder) userFor(tx *gorm.DB, email, first, last, hash string) (*models.User, error) {
	var u models.User
	err := tx.Where("email = ?", email).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	u = models.User{Email: email, Password: hash, FirstName: first, LastName: last}
	if err := tx.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", email, err)
	}
	return &u, nil
}

func (s *Seeder) poll(tx *gorm.DB, creator *models.User) (*models.Poll, error) {
	created := s.now().Add(-time.Duration(s.rnd.IntN(spreadDays+1)) * 24 * time.Hour)
	end := created.Add(spreadDays * 24 * time.Hour)
	p := &models.Poll{
		Slug:        slug(),
		Title:       s.sentence(5),
		Description: s.sentence(12) + ".",
		CreatedByID: creator.ID,
		StartDate:   created,
		EndDate:     &end,
		IsActive:    true,
		CreatedAt:   created,
	}
	for qi := 0; qi < 2+s.rnd.IntN(3); qi++ {
		q := models.Question{
			Slug:         slug(),
			Text:         s.sentence(7) + "?",
			QuestionType: models.QuestionSingle,
			Order:        qi,
		}
		for oi := 0; oi < 2+s.rnd.IntN(4); oi++ {
			text := s.pick(words)
			q.Options = append(q.Options, models.Option{
				Slug:  slug(),
				Text:  strings.ToUpper(text[:1]) + text[1:],
				Order: oi,
			})
		}
		p.Questions = append(p.Questions, q)
	}
	if err := tx.Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create poll: %w", err)
	}
	return p, nil
}
