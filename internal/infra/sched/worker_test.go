//go:build !integration

// File: internal/infra/sched/worker_test.go
package sched

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"imagegen-solana-billing/internal/domain"
	"imagegen-solana-billing/internal/domain/model"
	"imagegen-solana-billing/internal/domain/ports/repository"
	"imagegen-solana-billing/internal/usecase"
)

func testLogger() *zerolog.Logger {
	l := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	return &l
}

type sweepRecorder struct {
	calls atomic.Int32
}

func (s *sweepRecorder) Initiate(ctx context.Context, userID, targetID, wallet string, kind model.PaymentKind) (*model.PaymentIntent, error) {
	return nil, domain.ErrNotConfigured
}

func (s *sweepRecorder) Verify(ctx context.Context, userID, paymentID, signature string) (*usecase.VerifyResult, error) {
	return nil, domain.ErrNotConfigured
}

func (s *sweepRecorder) ListCompleted(ctx context.Context, userID string) ([]*model.PaymentIntent, error) {
	return nil, nil
}

func (s *sweepRecorder) Status() usecase.SubsystemStatus { return usecase.SubsystemStatus{} }

func (s *sweepRecorder) SweepStale(ctx context.Context, retention time.Duration) (int, error) {
	s.calls.Add(1)
	return 0, nil
}

func TestIntentSweeperRunsAndStops(t *testing.T) {
	rec := &sweepRecorder{}
	w := NewIntentSweeper(rec, 5*time.Millisecond, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.After(time.Second)
	for rec.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweeper never ticked")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on cancel")
	}
}

type expireRecorder struct {
	calls atomic.Int32
	err   error
}

func (e *expireRecorder) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	return nil
}

func (e *expireRecorder) CloseOpenByUser(ctx context.Context, tx repository.Tx, userID string, asOf time.Time) (int, error) {
	return 0, nil
}

func (e *expireRecorder) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	return nil, domain.ErrNotFound
}

func (e *expireRecorder) ExpireDue(ctx context.Context, tx repository.Tx, asOf time.Time) (int, error) {
	e.calls.Add(1)
	return 1, e.err
}

func TestExpiryWorkerRunsAndStops(t *testing.T) {
	rec := &expireRecorder{}
	w := NewExpiryWorker(5*time.Millisecond, rec, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.After(time.Second)
	for rec.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("expiry worker never ticked")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("expiry worker did not stop on cancel")
	}
}

func TestExpiryWorkerSurvivesRepoErrors(t *testing.T) {
	rec := &expireRecorder{err: domain.ErrOperationFailed}
	w := NewExpiryWorker(5*time.Millisecond, rec, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.After(time.Second)
	for rec.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatal("worker stopped retrying after a repo error")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done
}
