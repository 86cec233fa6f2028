// Package draft persists one typed value under a fixed key.
package draft

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/smallbiznis/invoicemaker/internal/draft/storage"
	"github.com/smallbiznis/invoicemaker/internal/observability/logger"
	"github.com/smallbiznis/invoicemaker/internal/observability/metrics"
	"github.com/smallbiznis/invoicemaker/internal/observability/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Load outcomes reported to metrics.
const (
	LoadRestored   = "restored"
	LoadAbsent     = "absent"
	LoadUnreadable = "unreadable"
)

// Store loads and saves a T as JSON under one key. Storage failures never
// reach the caller: loads fall back to the default, saves are dropped.
type Store[T any] struct {
	storage storage.Storage
	key     string
	backend string
	log     *zap.Logger
	metrics *metrics.EditorMetrics
	loaded  atomic.Bool
}

func NewStore[T any](s storage.Storage, key string, log *zap.Logger, m *metrics.EditorMetrics) *Store[T] {
	return &Store[T]{
		storage: s,
		key:     key,
		backend: storage.BackendName(s),
		log:     log.Named("draft"),
		metrics: m,
	}
}

// Key returns the storage key.
func (s *Store[T]) Key() string { return s.key }

// Loaded is false until the first Load returns, then true for good.
func (s *Store[T]) Loaded() bool { return s.loaded.Load() }

// Load returns the stored value and true, or def and false when nothing is
// stored or the stored payload cannot be read.
func (s *Store[T]) Load(ctx context.Context, def T) (T, bool) {
	defer s.loaded.Store(true)

	ctx, span := tracing.Start(ctx, "draft.load", attribute.String("draft.backend", s.backend))
	defer span.End()

	log := logger.WithContext(ctx, s.log).With(zap.String("key", s.key), zap.String("backend", s.backend))

	raw, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		log.Warn("draft unreadable, using default", zap.Error(err))
		s.metrics.IncDraftLoad(LoadUnreadable)
		return def, false
	}
	if !found {
		log.Debug("no stored draft, using default")
		s.metrics.IncDraftLoad(LoadAbsent)
		return def, false
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Warn("draft unparseable, using default", zap.Error(err))
		s.metrics.IncDraftLoad(LoadUnreadable)
		return def, false
	}

	s.metrics.IncDraftLoad(LoadRestored)
	return out, true
}

// Save overwrites the stored value with v. Failures are logged and counted.
func (s *Store[T]) Save(ctx context.Context, v T) {
	ctx, span := tracing.Start(ctx, "draft.save", attribute.String("draft.backend", s.backend))

	payload, err := json.Marshal(v)
	if err == nil {
		err = s.storage.Set(ctx, s.key, string(payload))
	}
	tracing.End(span, err)
	s.metrics.IncDraftSave(s.backend, err)

	if err != nil {
		logger.WithContext(ctx, s.log).Error("draft save failed",
			zap.String("key", s.key),
			zap.String("backend", s.backend),
			zap.Error(err),
		)
	}
}
