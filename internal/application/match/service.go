package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/skillswap-api/internal/domain"
	"github.com/skillswap-api/internal/pkg/id"
)

// Service is the swipe-to-match reconciliation engine. It owns every status
// transition on interest signals; no other component writes status.
type Service interface {
	// Swipe records a directed interest signal and commits a mutual match if
	// the reverse signal is pending.
	Swipe(ctx context.Context, initiator, target string, kind domain.SignalKind) (domain.SwipeOutcome, error)

	// Decide resolves an inbound request by id: accept re-enters the mutual
	// match path as a reverse swipe, reject is a terminal transition.
	Decide(ctx context.Context, userID, requestID, decision string) (domain.SwipeOutcome, error)

	// ListPending returns inbound requests waiting on the user.
	ListPending(ctx context.Context, userID string) ([]domain.InterestSignal, error)

	// ListMatches returns the user's matches, one entry per unordered pair.
	ListMatches(ctx context.Context, userID string) ([]domain.Match, error)
}

// interestStore is the slice of the interest record store the engine needs.
// Submit reports created=false for an existing ordered pair (idempotent
// collapse); Transition applies only when the current status matches `from`
// and reports domain.ErrStaleState otherwise.
type interestStore interface {
	Submit(ctx context.Context, s *domain.InterestSignal) (bool, error)
	Find(ctx context.Context, initiator, target string) (*domain.InterestSignal, error)
	GetByID(ctx context.Context, signalID string) (*domain.InterestSignal, error)
	Transition(ctx context.Context, initiator, target string, from, to domain.SignalStatus) error
	ListInbound(ctx context.Context, target string, status domain.SignalStatus) ([]domain.InterestSignal, error)
	ListOutbound(ctx context.Context, initiator string, status domain.SignalStatus) ([]domain.InterestSignal, error)
}

// Dispatcher receives the committed pair exactly once per match.
type Dispatcher interface {
	OnMatchCommitted(ctx context.Context, a, b *domain.InterestSignal)
}

type service struct {
	repo       interestStore
	dispatcher Dispatcher
}

func NewService(repo interestStore, dispatcher Dispatcher) Service {
	return &service{repo: repo, dispatcher: dispatcher}
}

func (s *service) Swipe(ctx context.Context, initiator, target string, kind domain.SignalKind) (domain.SwipeOutcome, error) {
	if initiator == "" || target == "" {
		return "", fmt.Errorf("empty user identifier: %w", domain.ErrBadRequest)
	}
	if initiator == target {
		return "", fmt.Errorf("cannot swipe on yourself: %w", domain.ErrBadRequest)
	}
	if kind == "" {
		kind = domain.KindNormal
	}

	now := time.Now().UTC()
	sig := &domain.InterestSignal{
		SignalID:  id.New(),
		Initiator: initiator,
		Target:    target,
		Kind:      kind,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Submit(ctx, sig)
	if err != nil {
		return "", err
	}
	if !created {
		// The original submission already ran reconciliation.
		return domain.OutcomeAlreadyExists, nil
	}

	return s.reconcile(ctx, sig)
}

// reconcile runs the mutual-match algorithm for a freshly inserted signal.
func (s *service) reconcile(ctx context.Context, sig *domain.InterestSignal) (domain.SwipeOutcome, error) {
	rev, err := s.repo.Find(ctx, sig.Target, sig.Initiator)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.OutcomePending, nil
		}
		return "", err
	}
	if rev.Status.Terminal() {
		// Rejected, or already resolved from the other entry point.
		return domain.OutcomePending, nil
	}

	// Both records are pending: commit the match with two conditional
	// transitions. Both racing submission paths must contend on the same
	// record for the status guard to elect a single winner, so the older
	// record (smaller ULID — in the sequential case, the reverse record)
	// goes first. The loser of that first transition aborts without touching
	// the second record, so only the winner reaches the dispatch step.
	first, second := rev, sig
	if second.SignalID < first.SignalID {
		first, second = second, first
	}

	if err := s.repo.Transition(ctx, first.Initiator, first.Target, domain.StatusPending, domain.StatusMatched); err != nil {
		if errors.Is(err, domain.ErrStaleState) {
			// A concurrent process is committing this match.
			return s.racedOutcome(ctx, sig), nil
		}
		return "", err
	}
	if err := s.repo.Transition(ctx, second.Initiator, second.Target, domain.StatusPending, domain.StatusMatched); err != nil {
		if errors.Is(err, domain.ErrStaleState) {
			// The second record was resolved out from under us (e.g. a
			// concurrent explicit reject). No full commit, no dispatch.
			slog.Warn("match half-committed, second transition stale",
				"initiator", second.Initiator, "target", second.Target)
			return domain.OutcomePending, nil
		}
		return "", err
	}

	// Committed. Exactly one process reaches this point per pair, so the
	// dispatcher fires exactly once.
	s.dispatcher.OnMatchCommitted(ctx, rev, sig)
	return domain.OutcomeMatched, nil
}

// racedOutcome re-reads the caller's own signal after losing the commit race.
// If the concurrent process already finished, report the match; otherwise the
// signal stays pending and will surface as matched on the next read.
func (s *service) racedOutcome(ctx context.Context, sig *domain.InterestSignal) domain.SwipeOutcome {
	cur, err := s.repo.Find(ctx, sig.Initiator, sig.Target)
	if err == nil && cur.Status == domain.StatusMatched {
		return domain.OutcomeMatched
	}
	return domain.OutcomePending
}

func (s *service) Decide(ctx context.Context, userID, requestID, decision string) (domain.SwipeOutcome, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return "", err
	}
	if req.Target != userID {
		return "", fmt.Errorf("request %s is not addressed to %s: %w", requestID, userID, domain.ErrForbidden)
	}
	if req.Status.Terminal() {
		// Matched or rejected already; neither decision can take effect.
		return domain.OutcomeAlreadyExists, nil
	}

	switch decision {
	case domain.DecisionAccept:
		// Same path as an explicit reverse swipe.
		return s.Swipe(ctx, userID, req.Initiator, domain.KindNormal)
	case domain.DecisionReject:
		err := s.repo.Transition(ctx, req.Initiator, req.Target, domain.StatusPending, domain.StatusRejected)
		if err != nil {
			if errors.Is(err, domain.ErrStaleState) {
				// Someone else resolved it first; not a failure.
				return domain.OutcomeAlreadyExists, nil
			}
			return "", err
		}
		return domain.OutcomeRejected, nil
	default:
		return "", fmt.Errorf("unknown decision %q: %w", decision, domain.ErrBadRequest)
	}
}

func (s *service) ListPending(ctx context.Context, userID string) ([]domain.InterestSignal, error) {
	return s.repo.ListInbound(ctx, userID, domain.StatusPending)
}

func (s *service) ListMatches(ctx context.Context, userID string) ([]domain.Match, error) {
	outbound, err := s.repo.ListOutbound(ctx, userID, domain.StatusMatched)
	if err != nil {
		return nil, err
	}
	inbound, err := s.repo.ListInbound(ctx, userID, domain.StatusMatched)
	if err != nil {
		return nil, err
	}

	// Each match is stored as two directional records; surface one entry per
	// unordered pair.
	seen := make(map[string]bool)
	matches := make([]domain.Match, 0, len(outbound))
	for _, sig := range append(outbound, inbound...) {
		key := domain.PairKey(sig.Initiator, sig.Target)
		if seen[key] {
			continue
		}
		seen[key] = true
		counterpart := sig.Initiator
		if counterpart == userID {
			counterpart = sig.Target
		}
		matches = append(matches, domain.Match{
			MatchID:     key,
			Counterpart: counterpart,
			MatchedAt:   sig.UpdatedAt,
		})
	}
	return matches, nil
}
