package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/domain"
	"github.com/careqhq/careq/pkg/metrics"
)

type countingAuditRepo struct {
	created int
	err     error
}

func (r *countingAuditRepo) Create(context.Context, *domain.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.created++
	return nil
}

func (r *countingAuditRepo) List(context.Context, *AuditQuery) ([]*domain.AuditLog, error) {
	return nil, nil
}

// blockingAuditRepo parks the worker inside Create so the buffer can
// be filled deterministically.
type blockingAuditRepo struct {
	started chan struct{}
	release chan struct{}
}

func (r *blockingAuditRepo) Create(ctx context.Context, _ *domain.AuditLog) error {
	r.started <- struct{}{}
	select {
	case <-r.release:
	case <-ctx.Done():
	}
	return nil
}

func (r *blockingAuditRepo) List(context.Context, *AuditQuery) ([]*domain.AuditLog, error) {
	return nil, nil
}

func TestAuditWorkerCountsPersistedEntries(t *testing.T) {
	repo := &countingAuditRepo{}
	collector := metrics.NewCollector("careq_audit_test")
	svc := NewAuditService(repo, collector, zap.NewNop())

	for i := 0; i < 3; i++ {
		svc.LogAsync(AuditEntry{Action: "INSERT", Table: "patients"})
	}
	// Shutdown drains the buffer before returning, so the counter is
	// settled by the time we read it.
	svc.Shutdown()

	require.Equal(t, 3, repo.created)
	assert.Equal(t, float64(3), testutil.ToFloat64(collector.AuditEntriesTotal))
	assert.Equal(t, float64(0), testutil.ToFloat64(collector.AuditBufferDropped))
}

func TestAuditWorkerDoesNotCountFailedWrites(t *testing.T) {
	repo := &countingAuditRepo{err: errors.New("connection reset")}
	collector := metrics.NewCollector("careq_audit_test")
	svc := NewAuditService(repo, collector, zap.NewNop())

	svc.LogAsync(AuditEntry{Action: "UPDATE", Table: "appointments"})
	svc.Shutdown()

	assert.Equal(t, float64(0), testutil.ToFloat64(collector.AuditEntriesTotal))
}

func TestAuditBufferOverflowDropsAndCounts(t *testing.T) {
	repo := &blockingAuditRepo{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	collector := metrics.NewCollector("careq_audit_test")
	svc := NewAuditService(repo, collector, zap.NewNop())

	// Park the worker in Create, fill the buffer to capacity, then one
	// more entry has nowhere to go.
	svc.LogAsync(AuditEntry{Action: "INSERT", Table: "patients"})
	<-repo.started
	for i := 0; i < auditBufferSize; i++ {
		svc.LogAsync(AuditEntry{Action: "INSERT", Table: "patients"})
	}
	svc.LogAsync(AuditEntry{Action: "INSERT", Table: "patients"})

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.AuditBufferDropped))

	close(repo.release)
	go func() {
		for range repo.started {
		}
	}()
	svc.Shutdown()
	close(repo.started)
}
