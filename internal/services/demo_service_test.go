package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aimmkit/internal/demo"
)

type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) OnStep(ctx context.Context, step demo.Step) {
	m.Called(step.Number, step.Status)
}

func TestDemoService_Run(t *testing.T) {
	reporter := &mockReporter{}
	for i := 1; i <= 6; i++ {
		reporter.On("OnStep", i, demo.StepCompleted).Once()
	}

	svc := NewDemoService(nil, nil)
	date := time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC)

	result, err := svc.Run(context.Background(), 42, date, reporter)
	require.NoError(t, err)
	reporter.AssertExpectations(t)

	assert.Equal(t, uint64(42), result.Seed)
	assert.Len(t, result.Steps, 6)
	assert.Equal(t, "2025-12-28", result.Assessment.EvaluationDate)
	assert.Equal(t, string(result.RiskLevel), result.Assessment.RiskLevel)
}

func TestDemoService_Deterministic(t *testing.T) {
	svc := NewDemoService(nil, nil)
	date := time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC)

	first, err := svc.Run(context.Background(), 7, date, nil)
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), 7, date, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Inputs, second.Inputs)
	assert.Equal(t, first.RiskScore, second.RiskScore)
	assert.Equal(t, first.RiskLevel, second.RiskLevel)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestDemoService_UsesClockWhenDateUnset(t *testing.T) {
	svc := NewDemoService(nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC) }

	result, err := svc.Run(context.Background(), 1, time.Time{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02", result.Assessment.EvaluationDate)
}

func TestDemoService_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewDemoService(nil, nil).Run(ctx, 42, time.Time{}, nil)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}
