package service

import (
	"context"
	"time"

	"github.com/careqhq/careq/internal/domain"
	"github.com/careqhq/careq/pkg/metrics"
	"go.uber.org/zap"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, q *AuditQuery) ([]*domain.AuditLog, error)
}

// AuditQuery filters the audit trail view. Empty fields match
// everything.
type AuditQuery struct {
	Action string
	Table  string
	Limit  int
}

type AuditService struct {
	repo    AuditRepository
	log     *zap.Logger
	metrics *metrics.Collector
	entries chan *domain.AuditLog
	done    chan struct{}
}

const auditBufferSize = 10_000

func NewAuditService(repo AuditRepository, collector *metrics.Collector, log *zap.Logger) *AuditService {
	svc := &AuditService{
		repo:    repo,
		log:     log,
		metrics: collector,
		entries: make(chan *domain.AuditLog, auditBufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// LogAsync enqueues an audit entry for async persistence.
// If the buffer is full, the entry is dropped and a warning is emitted.
func (s *AuditService) LogAsync(entry AuditEntry) {
	performedBy := entry.PerformedBy
	if performedBy == "" {
		performedBy = "system"
	}

	al := &domain.AuditLog{
		Action:      domain.AuditAction(entry.Action),
		Table:       entry.Table,
		RecordID:    entry.RecordID,
		PerformedBy: performedBy,
		OldValues:   entry.OldValues,
		NewValues:   entry.NewValues,
		Description: entry.Description,
	}

	select {
	case s.entries <- al:
	default:
		s.metrics.AuditBufferDropped.Inc()
		s.log.Warn("audit log buffer full, dropping entry",
			zap.String("action", entry.Action),
			zap.String("table", entry.Table),
		)
	}
}

// List returns recent audit entries, newest first.
func (s *AuditService) List(ctx context.Context, q *AuditQuery) ([]*domain.AuditLog, error) {
	if q.Limit <= 0 || q.Limit > 500 {
		q.Limit = 100
	}
	return s.repo.List(ctx, q)
}

func (s *AuditService) Shutdown() {
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("audit service shutdown timed out; some entries may be lost")
	}
}

func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist audit log", zap.Error(err))
		} else {
			s.metrics.AuditEntriesTotal.Inc()
		}
		cancel()
	}
}
