package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"advisor-agent/internal/domain"
)

const (
	skPrefixMsg = "MSG#"
	skPrefixEvt = "EVT#"
	skMeta      = "META#"
	ttlDuration = 30 * 24 * time.Hour // 30-day TTL
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// SessionState is the persisted form of one session: both logs, the risk
// profile report, and the completed-turn count.
type SessionState struct {
	Messages   []domain.Message
	Events     []domain.ConversationEvent
	RiskReport string
	Turns      int
}

// TurnDelta carries the records one completed turn appended. MessageBase and
// EventBase are the log lengths before the turn; sequence keys continue from
// there so append order survives the round trip.
type TurnDelta struct {
	MessageBase int
	EventBase   int
	Messages    []domain.Message
	Events      []domain.ConversationEvent
	RiskReport  string
	Turns       int
}

// Store defines the session persistence operations consumed by the chat
// service.
type Store interface {
	LoadSession(ctx context.Context, sessionID string) (SessionState, error)
	SaveTurn(ctx context.Context, sessionID string, delta TurnDelta) error
}

// Client wraps a DynamoDB table for session state.
type Client struct {
	api       dynamodbAPI
	tableName string
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName}, nil
}

// sessPK returns the DynamoDB partition key for a session.
func sessPK(sessionID string) string {
	return "SESS#" + sessionID
}

// seqSK returns a zero-padded sequence sort key so lexical order matches
// append order.
func seqSK(prefix string, seq int) string {
	return fmt.Sprintf("%s%08d", prefix, seq)
}

// ttlValue returns a Unix timestamp 30 days in the future.
func ttlValue() int64 {
	return time.Now().Add(ttlDuration).Unix()
}

// LoadSession reads every record for the session and rebuilds its state.
// An unknown session yields an empty state, not an error. Paginates until
// the partition is exhausted; items come back in sort-key order, which is
// append order for the sequence-keyed records.
func (c *Client) LoadSession(ctx context.Context, sessionID string) (SessionState, error) {
	var state SessionState

	var startKey map[string]types.AttributeValue
	for {
		out, err := c.api.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(c.tableName),
			KeyConditionExpression: aws.String("PK = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: sessPK(sessionID)},
			},
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return SessionState{}, fmt.Errorf("repository: LoadSession query: %w", err)
		}

		for _, item := range out.Items {
			sk, err := strAttr(item, "SK")
			if err != nil {
				return SessionState{}, fmt.Errorf("repository: LoadSession: %w", err)
			}
			switch {
			case strings.HasPrefix(sk, skPrefixMsg):
				role, content, err := entryAttrs(item)
				if err != nil {
					return SessionState{}, fmt.Errorf("repository: LoadSession message %s: %w", sk, err)
				}
				state.Messages = append(state.Messages, domain.Message{Role: role, Content: content})
			case strings.HasPrefix(sk, skPrefixEvt):
				role, content, err := entryAttrs(item)
				if err != nil {
					return SessionState{}, fmt.Errorf("repository: LoadSession event %s: %w", sk, err)
				}
				state.Events = append(state.Events, domain.ConversationEvent{Role: role, Content: content})
			case sk == skMeta:
				state.RiskReport = optStrAttr(item, "riskReport")
				turns, err := intAttr(item, "turns")
				if err != nil {
					return SessionState{}, fmt.Errorf("repository: LoadSession decode turns: %w", err)
				}
				state.Turns = turns
			}
		}

		if len(out.LastEvaluatedKey) == 0 {
			return state, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// SaveTurn writes the turn's new log records and the updated metadata in one
// transaction. The sequence-key condition rejects double writes of the same
// turn.
func (c *Client) SaveTurn(ctx context.Context, sessionID string, delta TurnDelta) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("repository: SaveTurn: session id is required")
	}
	if len(delta.Messages) == 0 && len(delta.Events) == 0 {
		return errors.New("repository: SaveTurn: turn delta is empty")
	}

	pk := sessPK(sessionID)
	items := make([]types.TransactWriteItem, 0, len(delta.Messages)+len(delta.Events)+1)

	for i, msg := range delta.Messages {
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(c.tableName),
				Item:                entryItem(pk, seqSK(skPrefixMsg, delta.MessageBase+i), msg.Role, msg.Content),
				ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
			},
		})
	}
	for i, ev := range delta.Events {
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(c.tableName),
				Item:                entryItem(pk, seqSK(skPrefixEvt, delta.EventBase+i), ev.Role, ev.Content),
				ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
			},
		})
	}
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(c.tableName),
			Item:      metaItem(pk, sessionID, delta.RiskReport, delta.Turns),
		},
	})

	_, err := c.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		return fmt.Errorf("repository: SaveTurn: %w", err)
	}
	return nil
}

func entryItem(pk, sk, role, content string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":      &types.AttributeValueMemberS{Value: pk},
		"SK":      &types.AttributeValueMemberS{Value: sk},
		"role":    &types.AttributeValueMemberS{Value: role},
		"content": &types.AttributeValueMemberS{Value: content},
		"ttl":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ttlValue())},
	}
}

func metaItem(pk, sessionID, riskReport string, turns int) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":           &types.AttributeValueMemberS{Value: pk},
		"SK":           &types.AttributeValueMemberS{Value: skMeta},
		"sessionId":    &types.AttributeValueMemberS{Value: sessionID},
		"riskReport":   &types.AttributeValueMemberS{Value: riskReport},
		"turns":        &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", turns)},
		"lastActivity": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		"ttl":          &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ttlValue())},
	}
}

func entryAttrs(item map[string]types.AttributeValue) (role, content string, err error) {
	role, err = strAttr(item, "role")
	if err != nil {
		return "", "", err
	}
	content, err = strAttr(item, "content")
	if err != nil {
		return "", "", err
	}
	return role, content, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("attribute %q is not a string", key)
	}
	return s.Value, nil
}

func optStrAttr(item map[string]types.AttributeValue, key string) string {
	if s, ok := item[key].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func intAttr(item map[string]types.AttributeValue, key string) (int, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("attribute %q is not a number", key)
	}
	parsed, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("parse attribute %q: %w", key, err)
	}
	return parsed, nil
}
