package core

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Service handles the business rules for documents on top of a Repository.
type Service struct {
	repo   Repository
	logger *slog.Logger
	mu     sync.RWMutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used by the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository exposes the underlying repository.
func (s *Service) Repository() Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo
}

// SaveDocument saves a document after validating its ID.
func (s *Service) SaveDocument(ctx context.Context, id string, content string, metadata Metadata) error {
	if id == "" {
		return ErrInvalidID
	}
	return s.repo.Save(ctx, Document{ID: id, Content: content, Metadata: metadata})
}

// GetDocument retrieves a document.
func (s *Service) GetDocument(ctx context.Context, id string) (Document, error) {
	if id == "" {
		return Document{}, ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

// ListDocuments retrieves all documents of a collection.
func (s *Service) ListDocuments(ctx context.Context, collection string) ([]Document, error) {
	return s.repo.List(ctx, collection)
}

// DeleteDocument removes a document.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

// WithTransaction executes fn within a transaction and commits it when fn succeeds.
// The commit message is taken from ChangeReasonKey when present.
func (s *Service) WithTransaction(ctx context.Context, fn func(tx Transaction) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Warn("rollback failed", "error", rbErr)
		}
		return err
	}

	msg := "batch transaction"
	if val, ok := ctx.Value(ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}
	return tx.Commit(ctx, msg)
}

// Begin initiates a transaction manually.
func (s *Service) Begin(ctx context.Context) (Transaction, error) {
	tr, ok := s.repo.(Transactional)
	if !ok {
		return nil, ErrUnsupported
	}
	return tr.Begin(ctx)
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, ErrUnsupported
	}
	return w.Watch(ctx, pattern)
}
