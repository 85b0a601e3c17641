package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/skillswap-api/internal/domain"
)

// InterestRepo provides typed DynamoDB operations for the interest signals
// table. The table key is the ordered pair (initiator, target), which is what
// enforces the at-most-one-signal-per-ordered-pair invariant.
//
// The repo is the single source of truth for two concurrency primitives the
// reconciliation engine builds on: the unique insert in Submit and the
// compare-and-swap in Transition. Nothing else in the codebase writes status.
type InterestRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewInterestRepo(client *dynamodb.Client, tableName string) *InterestRepo {
	return &InterestRepo{client: client, tableName: tableName}
}

// Submit inserts a new PENDING signal unless one already exists for the
// ordered pair. A lost race or a repeat submission reports created=false
// without error — idempotent collapse, never an exception path.
func (r *InterestRepo) Submit(ctx context.Context, s *domain.InterestSignal) (bool, error) {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return false, fmt.Errorf("marshal interest signal: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(initiator)"),
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return false, nil
		}
		return false, fmt.Errorf("put interest signal (%v): %w", err, domain.ErrUnavailable)
	}
	return true, nil
}

// findInput builds the point lookup for an ordered pair. The read is strongly
// consistent: reconciliation decides whether to commit a match from the
// counterpart record, and a stale replica could hide a just-submitted reverse
// signal, losing the match entirely.
func findInput(table, initiator, target string) *dynamodb.GetItemInput {
	return &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            compositeKey("initiator", initiator, "target", target),
		ConsistentRead: aws.Bool(true),
	}
}

// Find does a point lookup by ordered pair.
func (r *InterestRepo) Find(ctx context.Context, initiator, target string) (*domain.InterestSignal, error) {
	out, err := r.client.GetItem(ctx, findInput(r.tableName, initiator, target))
	if err != nil {
		return nil, fmt.Errorf("get interest signal (%v): %w", err, domain.ErrUnavailable)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("interest signal not found: %w", domain.ErrNotFound)
	}
	var s domain.InterestSignal
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID looks up a signal by its ULID via the signal_id GSI. Used by the
// explicit accept/reject path, where the client addresses a request by id.
// GSI queries cannot be strongly consistent; that is fine here because the
// decision itself re-validates through the conditional status transition.
func (r *InterestRepo) GetByID(ctx context.Context, signalID string) (*domain.InterestSignal, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("signal_id-index"),
		KeyConditionExpression: aws.String("signal_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: signalID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query interest signal (%v): %w", err, domain.ErrUnavailable)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("interest signal not found: %w", domain.ErrNotFound)
	}
	var s domain.InterestSignal
	if err := attributevalue.UnmarshalMap(out.Items[0], &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Transition conditionally moves a signal from `from` to `to`. The condition
// on the current status is the only cross-writer synchronization primitive in
// the system: when two processes race on the same record, exactly one update
// applies and the other gets ErrStaleState.
func (r *InterestRepo) Transition(ctx context.Context, initiator, target string, from, to domain.SignalStatus) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("initiator", initiator, "target", target),
		UpdateExpression:    aws.String("SET #status = :to, #updated = :now"),
		ConditionExpression: aws.String("attribute_exists(initiator) AND #status = :from"),
		ExpressionAttributeNames: map[string]string{
			"#status":  fieldStatus,
			"#updated": fieldUpdatedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from": &types.AttributeValueMemberS{Value: string(from)},
			":to":   &types.AttributeValueMemberS{Value: string(to)},
			":now":  &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return fmt.Errorf("signal %s->%s not in %s: %w", initiator, target, from, domain.ErrStaleState)
		}
		return fmt.Errorf("update interest signal (%v): %w", err, domain.ErrUnavailable)
	}
	return nil
}

// ListInbound queries the target GSI for signals aimed at a user, optionally
// filtered by status.
func (r *InterestRepo) ListInbound(ctx context.Context, target string, status domain.SignalStatus) ([]domain.InterestSignal, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("target-index"),
		KeyConditionExpression: aws.String("#target = :t"),
		// "target" collides with a DynamoDB reserved word, hence the alias.
		ExpressionAttributeNames: map[string]string{"#target": "target"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: target},
		},
	}
	if status != "" {
		input.FilterExpression = aws.String("#status = :s")
		input.ExpressionAttributeNames["#status"] = fieldStatus
		input.ExpressionAttributeValues[":s"] = &types.AttributeValueMemberS{Value: string(status)}
	}
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query inbound signals (%v): %w", err, domain.ErrUnavailable)
	}
	var signals []domain.InterestSignal
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &signals); err != nil {
		return nil, err
	}
	return signals, nil
}

// ListOutbound queries the table partition for signals a user initiated,
// optionally filtered by status.
func (r *InterestRepo) ListOutbound(ctx context.Context, initiator string, status domain.SignalStatus) ([]domain.InterestSignal, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("initiator = :i"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":i": &types.AttributeValueMemberS{Value: initiator},
		},
	}
	if status != "" {
		input.FilterExpression = aws.String("#status = :s")
		input.ExpressionAttributeNames = map[string]string{"#status": fieldStatus}
		input.ExpressionAttributeValues[":s"] = &types.AttributeValueMemberS{Value: string(status)}
	}
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query outbound signals (%v): %w", err, domain.ErrUnavailable)
	}
	var signals []domain.InterestSignal
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &signals); err != nil {
		return nil, err
	}
	return signals, nil
}
