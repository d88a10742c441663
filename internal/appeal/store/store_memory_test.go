package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"concord/internal/arbitration"
	id "concord/pkg/domain"
	"concord/pkg/platform/sentinel"
)

type AppealStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestAppealStoreSuite(t *testing.T) {
	suite.Run(t, new(AppealStoreSuite))
}

func (s *AppealStoreSuite) SetupTest() {
	s.store = New()
}

func (s *AppealStoreSuite) appeal(sessionID id.SessionID) *arbitration.Appeal {
	return &arbitration.Appeal{
		ID:          id.AppealID(uuid.New()),
		SessionID:   sessionID,
		VerdictID:   id.VerdictID(uuid.New()),
		Appellant:   "appellant-1",
		Grounds:     "the panel overlooked key evidence",
		NewEvidence: []string{"witness statement"},
		Status:      arbitration.AppealSubmitted,
		Level:       1,
		SubmittedAt: time.Now().UTC(),
		Metadata:    arbitration.Metadata{},
	}
}

func (s *AppealStoreSuite) TestInsertAndFind() {
	appeal := s.appeal(id.SessionID(uuid.New()))
	s.Require().NoError(s.store.Insert(context.Background(), appeal))

	found, err := s.store.FindByID(context.Background(), appeal.ID)
	s.Require().NoError(err)
	s.Equal(appeal.Grounds, found.Grounds)

	s.ErrorIs(s.store.Insert(context.Background(), appeal), sentinel.ErrConflict)
}

func (s *AppealStoreSuite) TestFindUnknown() {
	_, err := s.store.FindByID(context.Background(), id.AppealID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *AppealStoreSuite) TestCopiesOut() {
	appeal := s.appeal(id.SessionID(uuid.New()))
	s.Require().NoError(s.store.Insert(context.Background(), appeal))

	found, err := s.store.FindByID(context.Background(), appeal.ID)
	s.Require().NoError(err)
	found.Status = arbitration.AppealFinalized
	found.NewEvidence[0] = "tampered"

	again, err := s.store.FindByID(context.Background(), appeal.ID)
	s.Require().NoError(err)
	s.Equal(arbitration.AppealSubmitted, again.Status)
	s.Equal("witness statement", again.NewEvidence[0])
}

func (s *AppealStoreSuite) TestUpdate() {
	appeal := s.appeal(id.SessionID(uuid.New()))
	s.ErrorIs(s.store.Update(context.Background(), appeal), sentinel.ErrNotFound)

	s.Require().NoError(s.store.Insert(context.Background(), appeal))
	appeal.Level = 2
	s.Require().NoError(s.store.Update(context.Background(), appeal))

	found, err := s.store.FindByID(context.Background(), appeal.ID)
	s.Require().NoError(err)
	s.Equal(2, found.Level)
}

func (s *AppealStoreSuite) TestListBySession() {
	sessionID := id.SessionID(uuid.New())
	s.Require().NoError(s.store.Insert(context.Background(), s.appeal(sessionID)))
	s.Require().NoError(s.store.Insert(context.Background(), s.appeal(sessionID)))
	s.Require().NoError(s.store.Insert(context.Background(), s.appeal(id.SessionID(uuid.New()))))

	appeals, err := s.store.ListBySession(context.Background(), sessionID)
	s.Require().NoError(err)
	s.Len(appeals, 2)
}
