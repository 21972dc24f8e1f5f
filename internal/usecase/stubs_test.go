package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/domain/repository"
	"github.com/yourusername/sheet-store/internal/worker"
)

// syncJobs runs submitted jobs inline, once, recording their errors.
type syncJobs struct {
	mu     sync.Mutex
	names  []string
	errs   []error
	reject bool
}

func (s *syncJobs) Submit(job worker.Job) bool {
	if s.reject {
		return false
	}
	err := job.Run(context.Background())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, job.Name)
	s.errs = append(s.errs, err)
	return true
}

type stubSink struct {
	mu   sync.Mutex
	rows [][]interface{}
	rng  string
	err  error
}

func (s *stubSink) AppendRow(_ context.Context, rangeA1 string, values []interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = rangeA1
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, values)
	return nil
}

type stubNotifier struct {
	orders []entity.Order
}

func (s *stubNotifier) NotifyOrder(_ context.Context, ord entity.Order) error {
	s.orders = append(s.orders, ord)
	return nil
}

type stubSource struct {
	rows []entity.RawRow
	err  error
	rng  string
}

func (s *stubSource) GetRows(_ context.Context, rangeA1 string) ([]entity.RawRow, error) {
	s.rng = rangeA1
	return s.rows, s.err
}

// stubRangeStore in-memory single-column sheet
type stubRangeStore struct {
	stubSource
	cleared   []string
	updatedAt string
	failWrite bool
}

func (s *stubRangeStore) ReadRange(ctx context.Context, rangeA1 string) ([]entity.RawRow, error) {
	return s.GetRows(ctx, rangeA1)
}

func (s *stubRangeStore) ClearRange(_ context.Context, rangeA1 string) error {
	s.cleared = append(s.cleared, rangeA1)
	s.rows = nil
	return nil
}

func (s *stubRangeStore) UpdateRange(_ context.Context, rangeA1 string, rows [][]interface{}) error {
	if s.failWrite {
		return errors.New("quota exceeded")
	}
	s.updatedAt = rangeA1
	s.rows = s.rows[:0]
	for _, r := range rows {
		s.rows = append(s.rows, entity.RawRow{r[0].(string)})
	}
	return nil
}

// failingOrders wraps an order repository and fails Save.
type failingOrders struct {
	repository.OrderRepository
}

func (f failingOrders) Save(context.Context, entity.Order) error {
	return errors.New("connection reset")
}
