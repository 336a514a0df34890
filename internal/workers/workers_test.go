package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/store"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run was called.
type mockWorker struct {
	runCount int
}

func (m *mockWorker) Run() {
	m.runCount++
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := NewWorkers(w1, w2, w3)
	ws.Run()

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runCount != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := NewWorkers()

	// Should not panic on empty workers list
	ws.Run()
}

func TestWorkers_Run_MultipleRuns(t *testing.T) {
	w := &mockWorker{}
	ws := NewWorkers(w)

	ws.Run()
	ws.Run()
	ws.Run()

	if w.runCount != 3 {
		t.Errorf("expected runCount=3 after 3 calls, got %d", w.runCount)
	}
}

// sweeperRecords stubs the repository with a canned ClearExpiredTokens result.
type sweeperRecords struct {
	cleared  int64
	clearErr error

	calls  int
	lastAt time.Time
}

func (s *sweeperRecords) Save(context.Context, models.UserRecord) error { return nil }

func (s *sweeperRecords) FindByOrderNo(context.Context, string) (models.UserRecord, error) {
	return models.UserRecord{}, store.ErrRecordNotFound
}

func (s *sweeperRecords) List(context.Context) ([]models.UserRecord, error) { return nil, nil }

func (s *sweeperRecords) EnsureRecord(context.Context, string, string) error { return nil }

func (s *sweeperRecords) SaveToken(context.Context, string, models.VerificationToken) error {
	return nil
}

func (s *sweeperRecords) FindToken(context.Context, string) (models.VerificationToken, error) {
	return models.VerificationToken{}, store.ErrTokenNotFound
}

func (s *sweeperRecords) ClearExpiredTokens(_ context.Context, now time.Time) (int64, error) {
	s.calls++
	s.lastAt = now
	return s.cleared, s.clearErr
}

func TestTokenSweeper_SweepPassesCurrentTime(t *testing.T) {
	records := &sweeperRecords{cleared: 2}
	fixed := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	sweeper := NewTokenSweeper(records, time.Minute, logger.Nop())
	sweeper.now = func() time.Time { return fixed }

	sweeper.sweep(context.Background())

	if records.calls != 1 {
		t.Fatalf("expected 1 sweep call, got %d", records.calls)
	}
	if !records.lastAt.Equal(fixed) {
		t.Errorf("expected sweep time %v, got %v", fixed, records.lastAt)
	}
}

func TestTokenSweeper_SweepToleratesStoreErrors(t *testing.T) {
	records := &sweeperRecords{clearErr: errors.New("database is locked")}

	sweeper := NewTokenSweeper(records, time.Minute, logger.Nop())

	// Should not panic; the error is logged and the loop keeps going.
	sweeper.sweep(context.Background())
	sweeper.sweep(context.Background())

	if records.calls != 2 {
		t.Errorf("expected 2 sweep calls, got %d", records.calls)
	}
}

func TestNewTokenSweeper_DefaultsInterval(t *testing.T) {
	sweeper := NewTokenSweeper(&sweeperRecords{}, 0, logger.Nop())

	if sweeper.interval != defaultSweepInterval {
		t.Errorf("expected default interval %v, got %v", defaultSweepInterval, sweeper.interval)
	}
}
