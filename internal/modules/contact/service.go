package contact

import (
	"context"
	"strings"
	"time"

	"bloodgroup/internal/domain"
)

type MessageStore interface {
	Create(ctx context.Context, m *domain.ContactMessage) error
}

type Service struct {
	store MessageStore
	now   func() time.Time
}

func NewService(store MessageStore) *Service {
	return &Service{store: store, now: time.Now}
}

// Submit stores a contact message. Logged-in senders are linked to their account.
func (s *Service) Submit(ctx context.Context, who domain.Identity, req SubmitRequest) (*domain.ContactMessage, error) {
	msg := &domain.ContactMessage{
		UserID:    who.UserIDOrNil(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Message:   strings.TrimSpace(req.Message),
		Timestamp: s.now(),
	}
	if err := s.store.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
