// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/mock"
	"go.uber.org/mock/gomock"
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

	ws := &Workers{workers: []Worker{w1, w2, w3}}
	ws.Run()

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runCount != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := &Workers{workers: []Worker{}}

	// Should not panic on empty workers list
	ws.Run()
}

func TestWorkers_Run_Nil(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	ws.Run()
}

// fixedClock pins Now() for deterministic sweep arguments.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestTokenSweeper_Sweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Now()

	resetTokens := mock.NewMockResetTokenRepository(ctrl)
	csrfTokens := mock.NewMockCsrfTokenRepository(ctrl)

	resetTokens.EXPECT().DeleteExpired(gomock.Any(), now).Return(int64(3), nil)
	csrfTokens.EXPECT().DeleteExpired(gomock.Any(), now).Return(int64(1), nil)

	sweeper := newTokenSweeper(context.Background(), resetTokens, csrfTokens, fixedClock{now: now}, time.Hour, logger.Nop())
	sweeper.sweep()
}

func TestTokenSweeper_StopsOnContextCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx, cancel := context.WithCancel(context.Background())

	resetTokens := mock.NewMockResetTokenRepository(ctrl)
	csrfTokens := mock.NewMockCsrfTokenRepository(ctrl)

	// only the immediate sweep runs; the interval is far beyond test lifetime
	resetTokens.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(0), nil)
	csrfTokens.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(0), nil)

	sweeper := newTokenSweeper(ctx, resetTokens, csrfTokens, fixedClock{now: time.Now()}, time.Hour, logger.Nop())
	sweeper.Run()

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)
}
