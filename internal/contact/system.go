package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jrycodes/typotrace/pkg/storage"
)

// System records visitor feedback.
type System interface {
	Handler() *Handler
	Submit(ctx context.Context, req Request) (*Feedback, error)
}

type system struct {
	store  storage.System
	logger *slog.Logger
	now    func() time.Time
}

// New creates a contact System that writes feedback to store.
func New(store storage.System, logger *slog.Logger) System {
	return &system{
		store:  store,
		logger: logger.With("system", "contact"),
		now:    time.Now,
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) Submit(ctx context.Context, req Request) (*Feedback, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fb := &Feedback{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		Rating:    req.Rating,
		CreatedAt: s.now().UTC(),
	}

	data, err := json.Marshal(fb)
	if err != nil {
		return nil, fmt.Errorf("encode feedback: %w", err)
	}

	if err := s.store.Upload(ctx, Key(fb.ID), bytes.NewReader(data), "application/json"); err != nil {
		return nil, fmt.Errorf("store feedback: %w", err)
	}

	s.logger.Info("feedback received", "id", fb.ID, "subject", fb.Subject, "rating", fb.Rating)
	return fb, nil
}

// Key is the storage key for a feedback record.
func Key(id uuid.UUID) string {
	return "feedback/" + id.String() + ".json"
}
