package review_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mfreitas/studypilot/internal/errors"
	"github.com/mfreitas/studypilot/internal/models"
	"github.com/mfreitas/studypilot/internal/outbox"
	"github.com/mfreitas/studypilot/internal/review"
	"github.com/mfreitas/studypilot/internal/store"
	"github.com/mfreitas/studypilot/internal/testutil"
	"github.com/mfreitas/studypilot/internal/testutil/mocks"
)

type ReviewEngineSuite struct {
	suite.Suite
	gateway *mocks.MockGateway
	status  *testutil.Status
	store   *store.Store
	queue   *outbox.Queue
	engine  *review.Engine
}

func (s *ReviewEngineSuite) SetupTest() {
	s.gateway = new(mocks.MockGateway)
	// Offline keeps grade submissions queued synchronously.
	s.status = testutil.NewStatus(false)
	s.store = testutil.NewTestStore(s.T())
	s.queue = outbox.New(s.store, s.gateway, s.status, 5)
	s.engine = review.NewEngine(s.gateway, s.queue, s.store)
}

func cards(n int) []models.Flashcard {
	out := make([]models.Flashcard, n)
	for i := range out {
		out[i] = models.Flashcard{
			ID:       fmt.Sprintf("card-%d", i+1),
			Type:     models.CardTypeTerm,
			Question: fmt.Sprintf("term %d", i+1),
			Answer:   fmt.Sprintf("definition %d", i+1),
		}
	}
	return out
}

func (s *ReviewEngineSuite) TestStartSessionResetsState() {
	s.engine.StartSession(cards(3))

	session := s.engine.Session()
	s.Require().NotNil(session)
	s.Assert().Equal(0, session.CurrentIndex)
	s.Assert().Equal(0, session.Correct)
	s.Assert().Equal(0, session.Incorrect)
	s.Assert().Equal(0, session.Streak)
	s.Assert().False(s.engine.IsComplete())
	s.Assert().Equal(0.0, s.engine.Progress())
}

func (s *ReviewEngineSuite) TestCounterInvariantHolds() {
	s.engine.StartSession(cards(4))

	grades := []models.SRSGrade{models.GradeGood, models.GradeAgain, models.GradeEasy, models.GradeHard}
	for i, g := range grades {
		s.Require().NoError(s.engine.Grade(g))
		session := s.engine.Session()
		s.Assert().Equal(i+1, session.CurrentIndex)
		s.Assert().Equal(session.CurrentIndex, session.Correct+session.Incorrect,
			"after grade %d", i+1)
	}

	session := s.engine.Session()
	s.Assert().Equal(2, session.Correct)
	s.Assert().Equal(2, session.Incorrect)
	s.Assert().True(s.engine.IsComplete())
}

func (s *ReviewEngineSuite) TestStreakLaw() {
	s.engine.StartSession(cards(5))

	s.Require().NoError(s.engine.Grade(models.GradeGood))
	s.Assert().Equal(1, s.engine.Session().Streak)

	s.Require().NoError(s.engine.Grade(models.GradeEasy))
	s.Assert().Equal(2, s.engine.Session().Streak)

	s.Require().NoError(s.engine.Grade(models.GradeHard))
	s.Assert().Equal(0, s.engine.Session().Streak, "Hard resets the streak")

	s.Require().NoError(s.engine.Grade(models.GradeGood))
	s.Assert().Equal(1, s.engine.Session().Streak)

	s.Require().NoError(s.engine.Grade(models.GradeAgain))
	s.Assert().Equal(0, s.engine.Session().Streak)
}

func (s *ReviewEngineSuite) TestGradePastEndIsNoOp() {
	s.engine.StartSession(cards(1))
	s.Require().NoError(s.engine.Grade(models.GradeGood))
	s.Require().True(s.engine.IsComplete())

	s.Require().NoError(s.engine.Grade(models.GradeGood))

	session := s.engine.Session()
	s.Assert().Equal(1, session.CurrentIndex)
	s.Assert().Equal(1, session.Correct)

	entries, err := s.queue.Entries(context.Background())
	s.Require().NoError(err)
	s.Assert().Len(entries, 1, "only the in-range grade is submitted")
}

func (s *ReviewEngineSuite) TestGradeRejectedWithoutSession() {
	err := s.engine.Grade(models.GradeGood)
	s.Require().Error(err)
}

func (s *ReviewEngineSuite) TestInvalidGradeRejected() {
	s.engine.StartSession(cards(1))
	s.Require().Error(s.engine.Grade(models.SRSGrade(7)))
	s.Assert().Equal(0, s.engine.Session().CurrentIndex)
}

func (s *ReviewEngineSuite) TestGradesQueuedWhileOffline() {
	s.engine.StartSession(cards(2))
	s.Require().NoError(s.engine.Grade(models.GradeGood))
	s.Require().NoError(s.engine.Grade(models.GradeAgain))

	entries, err := s.queue.Entries(context.Background())
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	for _, entry := range entries {
		s.Assert().Equal(models.ActionFlashcardReview, entry.Kind)
	}
}

func (s *ReviewEngineSuite) TestChoiceGradeMapping() {
	mcq := []models.Flashcard{
		{ID: "m1", Type: models.CardTypeMCQ, Question: "2+2?", Answer: "4", Options: []string{"3", "4", "5"}},
		{ID: "m2", Type: models.CardTypeMCQ, Question: "3+3?", Answer: "6", Options: []string{"5", "6", "7"}},
	}
	s.engine.StartSession(mcq)

	s.Require().NoError(s.engine.GradeChoice("4")) // correct -> Good
	s.Require().NoError(s.engine.GradeChoice("5")) // wrong -> Again

	session := s.engine.Session()
	s.Assert().Equal(1, session.Correct)
	s.Assert().Equal(1, session.Incorrect)
	s.Assert().Equal(0, session.Streak)
}

func (s *ReviewEngineSuite) TestProgress() {
	s.engine.StartSession(cards(4))
	s.Assert().Equal(0.0, s.engine.Progress())

	s.Require().NoError(s.engine.Grade(models.GradeGood))
	s.Assert().Equal(25.0, s.engine.Progress())

	s.engine.StartSession(nil)
	s.Assert().Equal(0.0, s.engine.Progress())
	s.Assert().True(s.engine.IsComplete())
}

func (s *ReviewEngineSuite) TestCurrentCardAdvances() {
	s.engine.StartSession(cards(2))

	card, ok := s.engine.CurrentCard()
	s.Require().True(ok)
	s.Assert().Equal("card-1", card.ID)

	s.Require().NoError(s.engine.Grade(models.GradeGood))
	card, ok = s.engine.CurrentCard()
	s.Require().True(ok)
	s.Assert().Equal("card-2", card.ID)

	s.Require().NoError(s.engine.Grade(models.GradeGood))
	_, ok = s.engine.CurrentCard()
	s.Assert().False(ok)
}

func (s *ReviewEngineSuite) TestFetchCardsCachesList() {
	want := &models.CardList{Cards: cards(3), TotalDue: 3}
	s.gateway.On("Flashcards", mock.Anything).Return(want, nil).Once()

	got, err := s.engine.FetchCards(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal(want, got)

	var cached models.CardList
	ok, err := s.store.GetJSON(context.Background(), store.KeyCachedCards, &cached)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Assert().Len(cached.Cards, 3)
}

func (s *ReviewEngineSuite) TestFetchCardsFallsBackToCache() {
	want := &models.CardList{Cards: cards(2), TotalDue: 2}
	s.gateway.On("Flashcards", mock.Anything).Return(want, nil).Once()
	_, err := s.engine.FetchCards(context.Background())
	s.Require().NoError(err)

	s.gateway.On("Flashcards", mock.Anything).
		Return(nil, errors.NewConnectivityError(fmt.Errorf("offline")))

	got, err := s.engine.FetchCards(context.Background())
	s.Require().NoError(err)
	s.Assert().Len(got.Cards, 2)
	s.Assert().Equal(2, got.TotalDue)
}

func (s *ReviewEngineSuite) TestFetchCardsFailsWithEmptyCache() {
	s.gateway.On("Flashcards", mock.Anything).
		Return(nil, errors.NewConnectivityError(fmt.Errorf("offline")))

	_, err := s.engine.FetchCards(context.Background())
	s.Require().Error(err)
	s.Assert().True(errors.IsConnectivity(err))
}

func (s *ReviewEngineSuite) TestReset() {
	s.engine.StartSession(cards(2))
	s.engine.Reset()
	s.Assert().Nil(s.engine.Session())
	s.Assert().True(s.engine.IsComplete())
}

func TestReviewEngineSuite(t *testing.T) {
	suite.Run(t, new(ReviewEngineSuite))
}
