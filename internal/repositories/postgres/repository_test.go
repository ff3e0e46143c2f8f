package postgres

import (
	"context"
	"testing"
	"time"

	"poll-service/internal/models"
	"poll-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "a@example.com", Password: "x"}))
	err := repo.Create(ctx, &models.User{Email: "a@example.com", Password: "y"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestPollRepositoryFindBySlugOrdersQuestions(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner@example.com")
	poll := testutil.CreatePoll(t, db, owner, "Lunch",
		[]string{"Where?", "Cafe", "Park"},
		[]string{"When?", "Noon", "One"},
	)

	got, err := NewPollRepository(db).FindBySlug(context.Background(), poll.Slug)
	require.NoError(t, err)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, "Where?", got.Questions[0].Text)
	assert.Equal(t, []string{"Cafe", "Park"}, []string{got.Questions[0].Options[0].Text, got.Questions[0].Options[1].Text})
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, "owner@example.com", got.CreatedBy.Email)
}

func TestPollRepositoryListFiltersAndPages(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner@example.com")
	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		testutil.CreatePoll(t, db, owner, title)
	}
	closed := testutil.CreatePoll(t, db, owner, "Closed alpha")
	require.NoError(t, db.Model(closed).Update("is_active", false).Error)

	repo := NewPollRepository(db)
	ctx := context.Background()

	polls, total, err := repo.List(ctx, models.ListParams{Page: 1, PageSize: 2, Ordering: "title"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, polls, 2)
	assert.Equal(t, "Alpha", polls[0].Title)

	active := true
	polls, total, err = repo.List(ctx, models.ListParams{Page: 1, PageSize: 10, Search: "ALPHA", IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Alpha", polls[0].Title)
}

func TestPollRepositoryDeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner@example.com")
	voter := testutil.CreateUser(t, db, "voter@example.com")
	poll := testutil.CreatePoll(t, db, owner, "Pets", []string{"Best?", "Cat", "Dog"})
	testutil.CreateVote(t, db, voter, &poll.Questions[0], &poll.Questions[0].Options[0])
	require.NoError(t, db.Create(&models.PollView{PollID: poll.ID}).Error)

	require.NoError(t, NewPollRepository(db).Delete(context.Background(), poll.ID))

	for _, m := range []any{&models.Poll{}, &models.Question{}, &models.Option{}, &models.Vote{}, &models.PollView{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T rows left", m)
	}
}

func TestVoteRepositoryUniquePerQuestion(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner@example.com")
	voter := testutil.CreateUser(t, db, "voter@example.com")
	poll := testutil.CreatePoll(t, db, owner, "Pets", []string{"Best?", "Cat", "Dog"})
	q := poll.Questions[0]

	repo := NewVoteRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.Vote{Slug: "vote0001", UserID: voter.ID, QuestionID: q.ID, OptionID: q.Options[0].ID}))

	err := repo.Create(ctx, &models.Vote{Slug: "vote0002", UserID: voter.ID, QuestionID: q.ID, OptionID: q.Options[1].ID})
	assert.ErrorIs(t, err, ErrDuplicateVote)

	exists, err := repo.Exists(ctx, voter.ID, q.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestVoteRepositoryCounts(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner@example.com")
	poll := testutil.CreatePoll(t, db, owner, "Pets", []string{"Best?", "Cat", "Dog", "Fish"})
	q := poll.Questions[0]
	for i, opt := range []int{0, 0, 1} {
		voter := testutil.CreateUser(t, db, string(rune('a'+i))+"@example.com")
		testutil.CreateVote(t, db, voter, &q, &q.Options[opt])
	}

	repo := NewVoteRepository(db)
	ctx := context.Background()

	rows, err := repo.CountsByPoll(ctx, poll.ID)
	require.NoError(t, err)
	counts := map[uint]int64{}
	for _, r := range rows {
		assert.Equal(t, q.ID, r.QuestionID)
		counts[r.OptionID] = r.Count
	}
	assert.Equal(t, map[uint]int64{q.Options[0].ID: 2, q.Options[1].ID: 1}, counts)

	n, err := repo.CountByQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	total, err := repo.TotalForCreator(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	byPoll, err := repo.CountsByPollForCreator(ctx, owner.ID, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), byPoll[poll.ID])
}

func TestDistributionRepositoryCountsAndRecent(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner@example.com")
	poll := testutil.CreatePoll(t, db, owner, "Pets")
	repo := NewDistributionRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Minute)
	events := []models.DistributionEventType{models.EventLinkOpen, models.EventLinkOpen, models.EventQRScan}
	for i, et := range events {
		require.NoError(t, repo.Create(ctx, &models.DistributionAnalytics{
			PollID:    poll.ID,
			EventType: et,
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Metadata:  models.JSONMap{"i": i},
		}))
	}

	counts, err := repo.CountsByType(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.EventLinkOpen])
	assert.Equal(t, int64(1), counts[models.EventQRScan])

	recent, err := repo.Recent(ctx, poll.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, models.EventQRScan, recent[0].EventType)
	assert.EqualValues(t, 2, recent[0].Metadata["i"])
}
