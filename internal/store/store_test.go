package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mfreitas/studypilot/internal/models"
	"github.com/mfreitas/studypilot/internal/store"
)

type StoreSuite struct {
	suite.Suite
	st *store.Store
}

func (s *StoreSuite) SetupTest() {
	st, err := store.OpenInMemory()
	s.Require().NoError(err)
	s.st = st
}

func (s *StoreSuite) TearDownTest() {
	s.Require().NoError(s.st.Close())
}

func (s *StoreSuite) TestGetMissingKey() {
	ctx := context.Background()

	_, ok, err := s.st.Get(ctx, "nope")
	s.Require().NoError(err)
	s.Assert().False(ok)
}

func (s *StoreSuite) TestPutGetRoundTrip() {
	ctx := context.Background()

	s.Require().NoError(s.st.Put(ctx, store.KeySettings, []byte(`{"theme":"dark"}`)))

	raw, ok, err := s.st.Get(ctx, store.KeySettings)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Assert().JSONEq(`{"theme":"dark"}`, string(raw))
}

func (s *StoreSuite) TestPutOverwritesWholesale() {
	ctx := context.Background()

	s.Require().NoError(s.st.Put(ctx, store.KeyCachedCards, []byte(`["a","b"]`)))
	s.Require().NoError(s.st.Put(ctx, store.KeyCachedCards, []byte(`["c"]`)))

	raw, ok, err := s.st.Get(ctx, store.KeyCachedCards)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Assert().JSONEq(`["c"]`, string(raw))
}

func (s *StoreSuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.st.Put(ctx, store.KeyOfflineQueue, []byte(`[]`)))
	s.Require().NoError(s.st.Delete(ctx, store.KeyOfflineQueue))

	_, ok, err := s.st.Get(ctx, store.KeyOfflineQueue)
	s.Require().NoError(err)
	s.Assert().False(ok)

	// Deleting again is a no-op.
	s.Require().NoError(s.st.Delete(ctx, store.KeyOfflineQueue))
}

func (s *StoreSuite) TestJSONHelpers() {
	ctx := context.Background()

	reminder := models.StudyReminder{Hour: 9, Minute: 30, Enabled: true}
	s.Require().NoError(s.st.PutJSON(ctx, store.KeyStudyReminder, reminder))

	var got models.StudyReminder
	ok, err := s.st.GetJSON(ctx, store.KeyStudyReminder, &got)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Assert().Equal(reminder, got)

	var missing models.StudyReminder
	ok, err = s.st.GetJSON(ctx, "absent", &missing)
	s.Require().NoError(err)
	s.Assert().False(ok)
}

func (s *StoreSuite) TestKeys() {
	ctx := context.Background()

	s.Require().NoError(s.st.Put(ctx, "b", []byte(`1`)))
	s.Require().NoError(s.st.Put(ctx, "a", []byte(`2`)))

	keys, err := s.st.Keys(ctx)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"a", "b"}, keys)
}

func (s *StoreSuite) TestConversationKey() {
	s.Assert().Equal("conversation_coachbot", store.ConversationKey("coachbot"))
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}
