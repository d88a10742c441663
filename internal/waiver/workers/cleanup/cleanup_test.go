package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type mockSweeper struct {
	calls             int
	processedToReturn int
	errToReturn       error
}

func (m *mockSweeper) CleanupExpiredWaivers(_ context.Context) (int, error) {
	m.calls++
	return m.processedToReturn, m.errToReturn
}

type CleanupWorkerSuite struct {
	suite.Suite
	sweeper *mockSweeper
	worker  *Worker
}

func TestCleanupWorkerSuite(t *testing.T) {
	suite.Run(t, new(CleanupWorkerSuite))
}

func (s *CleanupWorkerSuite) SetupTest() {
	s.sweeper = &mockSweeper{}
	s.worker = New(s.sweeper)
}

func (s *CleanupWorkerSuite) TestRunOnce() {
	s.sweeper.processedToReturn = 3

	res, err := s.worker.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(1, s.sweeper.calls)
	s.Equal(3, res.Processed)
}

func (s *CleanupWorkerSuite) TestRunOncePropagatesError() {
	s.sweeper.errToReturn = errors.New("registry unavailable")

	_, err := s.worker.RunOnce(context.Background())
	s.Error(err)
}

func (s *CleanupWorkerSuite) TestStartStopsOnContextCancel() {
	worker := New(s.sweeper, WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Start(ctx) }()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		s.Fail("worker did not stop after cancel")
	}
	s.GreaterOrEqual(s.sweeper.calls, 1)
}
