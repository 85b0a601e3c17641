package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/skillswap-api/internal/domain"
	"github.com/skillswap-api/internal/pkg/id"
)

// Service produces the side effects of a committed match: one durable inbox
// notification per participant plus a best-effort push to the fan-out topic.
// Delivery failures are retried here and never propagate back to the commit.
type Service interface {
	OnMatchCommitted(ctx context.Context, a, b *domain.InterestSignal)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
}

// Publisher is the push half of the notification delivery collaborator.
// At-least-once delivery downstream is its problem; producing each event
// exactly once is ours.
type Publisher interface {
	PublishMatch(ctx context.Context, event domain.MatchNotificationEvent) error
}

type service struct {
	repo      notificationStore
	publisher Publisher // nil disables push
	retries   int
	backoff   time.Duration
}

func NewService(repo notificationStore, publisher Publisher, retries int) Service {
	if retries < 1 {
		retries = 1
	}
	return &service{repo: repo, publisher: publisher, retries: retries, backoff: time.Second}
}

// OnMatchCommitted builds one MatchNotificationEvent per participant and
// delivers both. The caller guarantees it invokes this exactly once per
// match; everything here is safe to fail partially.
func (s *service) OnMatchCommitted(ctx context.Context, a, b *domain.InterestSignal) {
	matchID := domain.PairKey(a.Initiator, a.Target)

	// Each participant is told about the signal that was aimed at them, so
	// the notification tone follows the counterpart's swipe kind.
	events := []domain.MatchNotificationEvent{
		{Recipient: a.Target, Counterpart: a.Initiator, MatchID: matchID, Kind: a.Kind},
		{Recipient: b.Target, Counterpart: b.Initiator, MatchID: matchID, Kind: b.Kind},
	}

	for _, event := range events {
		s.store(ctx, event)
	}
	if s.publisher != nil {
		// Push is decoupled from the commit path: retried in the background,
		// outcome logged only.
		go s.push(context.WithoutCancel(ctx), events)
	}
}

func (s *service) store(ctx context.Context, event domain.MatchNotificationEvent) {
	now := time.Now().UTC()
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         event.Recipient,
		Counterpart:    event.Counterpart,
		MatchID:        event.MatchID,
		Message:        message(event),
		Readed:         0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	var err error
	for attempt := 0; attempt < s.retries; attempt++ {
		if err = s.repo.Put(ctx, n); err == nil {
			return
		}
	}
	slog.Error("dropping inbox notification after retries",
		"recipient", event.Recipient, "match_id", event.MatchID, "err", err)
}

func (s *service) push(ctx context.Context, events []domain.MatchNotificationEvent) {
	for _, event := range events {
		var err error
		for attempt := 0; attempt < s.retries; attempt++ {
			if err = s.publisher.PublishMatch(ctx, event); err == nil {
				break
			}
			time.Sleep(s.backoff * time.Duration(attempt+1))
		}
		if err != nil {
			slog.Error("push delivery failed after retries",
				"recipient", event.Recipient, "match_id", event.MatchID, "err", err)
		}
	}
}

func message(event domain.MatchNotificationEvent) string {
	if event.Kind == domain.KindSuper {
		return fmt.Sprintf("%s super-swiped you, it's a match!", event.Counterpart)
	}
	return fmt.Sprintf("You matched with %s!", event.Counterpart)
}
