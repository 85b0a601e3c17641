package domain

import "time"

// SignalKind distinguishes the flavor of a swipe. It affects notification
// tone only, never the matching logic.
type SignalKind string

const (
	KindNormal SignalKind = "normal"
	KindSuper  SignalKind = "super"
)

// SignalStatus is the lifecycle state of a directed interest signal.
type SignalStatus string

const (
	// StatusPending means the signal has been submitted and is waiting for
	// the counterpart to respond.
	StatusPending SignalStatus = "pending"

	// StatusMatched means both directions were resolved as mutual interest.
	StatusMatched SignalStatus = "matched"

	// StatusRejected means the target explicitly declined.
	StatusRejected SignalStatus = "rejected"
)

// Terminal reports whether no transition may leave the status.
func (s SignalStatus) Terminal() bool {
	return s == StatusMatched || s == StatusRejected
}

// InterestSignal is one user's directed expression of interest in swapping
// skills with another. At most one signal exists per ordered
// (initiator, target) pair; repeated submissions collapse onto the first.
type InterestSignal struct {
	SignalID  string       `json:"id" dynamodbav:"signal_id"`
	Initiator string       `json:"initiator" dynamodbav:"initiator"`
	Target    string       `json:"target" dynamodbav:"target"`
	Kind      SignalKind   `json:"kind" dynamodbav:"kind"`
	Status    SignalStatus `json:"status" dynamodbav:"status"`
	CreatedAt time.Time    `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time    `json:"updated" dynamodbav:"updated_at"`
}

// PairKey returns the unordered-pair correlation key shared by both
// directional records of a match. Both orderings of the same two users
// produce the same key.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "#" + b
}

// SwipeRequest is the body of a swipe submission. The initiator comes from
// the authenticated identity, never from the body.
type SwipeRequest struct {
	Target string `json:"target" validate:"required"`
	Kind   string `json:"kind" validate:"omitempty,oneof=normal super"`
}

// DecisionRequest is the body of an explicit accept/reject on an inbound request.
type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accept reject"`
}

const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// SwipeOutcome is the non-error result of a swipe or decision.
type SwipeOutcome string

const (
	// OutcomePending: the signal is recorded and waiting on the counterpart.
	OutcomePending SwipeOutcome = "pending"

	// OutcomeMatched: this submission completed a mutual match.
	OutcomeMatched SwipeOutcome = "matched"

	// OutcomeAlreadyExists: an identical signal was already recorded;
	// nothing changed (idempotent collapse).
	OutcomeAlreadyExists SwipeOutcome = "already_exists"

	// OutcomeRejected: the inbound request was declined.
	OutcomeRejected SwipeOutcome = "rejected"
)

// Match is the read-projection of a committed mutual match, surfaced once per
// unordered pair.
type Match struct {
	MatchID     string    `json:"match_id"`
	Counterpart string    `json:"counterpart"`
	MatchedAt   time.Time `json:"matched_at"`
}
