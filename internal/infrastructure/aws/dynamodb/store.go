package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"culina-go/internal/document"
)

const (
	attrID        = "id"
	attrCreatedAt = "created_at"
	attrUpdatedAt = "updated_at"
)

// Store implements document.Store on DynamoDB. Each collection maps to a
// table named prefix+collection with a plain id hash key.
type Store struct {
	client *dynamodb.Client
	prefix string
}

func NewStore(client *dynamodb.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) table(collection string) *string {
	return aws.String(s.prefix + collection)
}

func (s *Store) Create(ctx context.Context, collection, id string, attrs map[string]any) (*document.Document, error) {
	item, err := attributevalue.MarshalMap(attrs)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	now := time.Now().UTC()
	item[attrID] = &types.AttributeValueMemberS{Value: id}
	item[attrCreatedAt] = &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)}
	item[attrUpdatedAt] = &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           s.table(collection),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("put document: %w", err)
	}

	return &document.Document{
		ID:         id,
		CreatedAt:  now,
		UpdatedAt:  now,
		Attributes: attrs,
	}, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*document.Document, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: s.table(collection),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if out.Item == nil {
		return nil, document.ErrNotFound
	}
	return decodeItem(out.Item)
}

func (s *Store) Update(ctx context.Context, collection, id string, attrs map[string]any) (*document.Document, error) {
	upd := expression.Set(
		expression.Name(attrUpdatedAt),
		expression.Value(time.Now().UTC().Format(time.RFC3339Nano)),
	)
	for field, value := range attrs {
		upd = upd.Set(expression.Name(field), expression.Value(value))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(upd).
		WithCondition(expression.AttributeExists(expression.Name(attrID))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build update expression: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 s.table(collection),
		Key:                       idKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return nil, document.ErrNotFound
		}
		return nil, fmt.Errorf("update document: %w", err)
	}
	return decodeItem(out.Attributes)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           s.table(collection),
		Key:                 idKey(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return document.ErrNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// List scans the collection and applies ordering and offset pagination on
// the client, matching the offset query surface of the hosted store.
func (s *Store) List(ctx context.Context, collection string, q document.Query) ([]*document.Document, error) {
	input := &dynamodb.ScanInput{TableName: s.table(collection)}

	if len(q.Equals) > 0 {
		filter, err := buildFilter(q.Equals)
		if err != nil {
			return nil, err
		}
		expr, err := expression.NewBuilder().WithFilter(filter).Build()
		if err != nil {
			return nil, fmt.Errorf("build filter expression: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	var docs []*document.Document
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan documents: %w", err)
		}
		for _, item := range page.Items {
			doc, err := decodeItem(item)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	if q.Offset > len(docs) {
		docs = nil
	} else {
		docs = docs[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(docs) {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

// Increment adds delta to a numeric attribute server-side. Decrements carry
// a condition so the value never drops below zero.
func (s *Store) Increment(ctx context.Context, collection, id, field string, delta int) error {
	upd := expression.Set(
		expression.Name(field),
		expression.Plus(
			expression.IfNotExists(expression.Name(field), expression.Value(0)),
			expression.Value(delta),
		),
	)

	builder := expression.NewBuilder().WithUpdate(upd)
	cond := expression.AttributeExists(expression.Name(attrID))
	if delta < 0 {
		cond = cond.And(expression.Name(field).GreaterThanEqual(expression.Value(-delta)))
	}
	builder = builder.WithCondition(cond)

	expr, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build increment expression: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 s.table(collection),
		Key:                       idKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			if delta < 0 {
				// Counter is already below the decrement; clamp to zero.
				return s.clampToZero(ctx, collection, id, field)
			}
			return document.ErrNotFound
		}
		return fmt.Errorf("increment %s: %w", field, err)
	}
	return nil
}

func (s *Store) clampToZero(ctx context.Context, collection, id, field string) error {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.Set(expression.Name(field), expression.Value(0))).
		WithCondition(expression.AttributeExists(expression.Name(attrID))).
		Build()
	if err != nil {
		return fmt.Errorf("build clamp expression: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 s.table(collection),
		Key:                       idKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return document.ErrNotFound
		}
		return fmt.Errorf("clamp %s: %w", field, err)
	}
	return nil
}

func buildFilter(equals map[string]any) (expression.ConditionBuilder, error) {
	var filter expression.ConditionBuilder
	first := true
	for field, want := range equals {
		var cond expression.ConditionBuilder
		switch w := want.(type) {
		case []string:
			if len(w) == 0 {
				return expression.ConditionBuilder{}, fmt.Errorf("empty value list for filter %q", field)
			}
			rest := make([]expression.OperandBuilder, 0, len(w)-1)
			for _, v := range w[1:] {
				rest = append(rest, expression.Value(v))
			}
			cond = expression.Name(field).In(expression.Value(w[0]), rest...)
		default:
			cond = expression.Name(field).Equal(expression.Value(want))
		}
		if first {
			filter = cond
			first = false
		} else {
			filter = filter.And(cond)
		}
	}
	return filter, nil
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrID: &types.AttributeValueMemberS{Value: id},
	}
}

func decodeItem(item map[string]types.AttributeValue) (*document.Document, error) {
	attrs := make(map[string]any)
	if err := attributevalue.UnmarshalMap(item, &attrs); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}

	doc := &document.Document{Attributes: attrs}
	if id, ok := attrs[attrID].(string); ok {
		doc.ID = id
	}
	if raw, ok := attrs[attrCreatedAt].(string); ok {
		doc.CreatedAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	if raw, ok := attrs[attrUpdatedAt].(string); ok {
		doc.UpdatedAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	delete(attrs, attrID)
	delete(attrs, attrCreatedAt)
	delete(attrs, attrUpdatedAt)

	return doc, nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
