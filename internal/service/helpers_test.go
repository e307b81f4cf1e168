package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/domain"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/event"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/repository"
	apperrors "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/errors"
	pkgkafka "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/kafka"
)

// --- Mock Repository ---

type mockDrinkRepository struct {
	mock.Mock
}

func (m *mockDrinkRepository) FindByID(ctx context.Context, id string) (*domain.Drink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Drink), args.Error(1)
}

func (m *mockDrinkRepository) FindAll(ctx context.Context, q repository.DrinkQuery) ([]domain.Drink, int, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Drink), args.Int(1), args.Error(2)
}

func (m *mockDrinkRepository) Add(ctx context.Context, d *domain.Drink) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockDrinkRepository) Update(ctx context.Context, d *domain.Drink) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockDrinkRepository) DeleteByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- Event capture ---

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ *pkgkafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

// --- Test Helpers ---

var testNow = time.Date(2021, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProducer() (*event.Producer, *recordingPublisher) {
	pub := &recordingPublisher{}
	return event.NewProducer(pub, newTestLogger()), pub
}

// tickingClock returns a clock that advances one second per call so ids
// derived from it never collide.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := testNow
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

// requireFailure asserts err is an *apperrors.AppError of the given kind.
func requireFailure(t *testing.T, err error, kind apperrors.Kind) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *apperrors.AppError, got %T", err)
	require.Equal(t, kind, appErr.Kind, "message: %s", appErr.Message)
	return appErr
}
