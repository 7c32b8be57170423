package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of *dynamodb.Client the repositories use.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, opts ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

var _ DynamoAPI = (*dynamodb.Client)(nil)

// docTable stores one entity type as whole documents keyed by "id".
type docTable[T any] struct {
	ddb  DynamoAPI
	name string
}

func newDocTable[T any](ddb DynamoAPI, name string) docTable[T] {
	return docTable[T]{ddb: ddb, name: name}
}

// create puts v unless an item with the same id exists.
func (t docTable[T]) create(ctx context.Context, v T) error {
	av, err := attributevalue.MarshalMap(v)
	if err != nil {
		return err
	}
	_, err = t.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(t.name),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	return mapWriteError(t.name, err)
}

// save overwrites the document unconditionally.
func (t docTable[T]) save(ctx context.Context, v T) error {
	av, err := attributevalue.MarshalMap(v)
	if err != nil {
		return err
	}
	_, err = t.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      av,
	})
	return mapWriteError(t.name, err)
}

// replace overwrites the document only while its stored version is still expected. v must already
// carry the next version.
func (t docTable[T]) replace(ctx context.Context, v T, expected int64) error {
	av, err := attributevalue.MarshalMap(v)
	if err != nil {
		return err
	}
	_, err = t.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(t.name),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id) AND #version = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": inum(expected),
		},
	})
	return mapWriteError(t.name, err)
}

// get returns the zero value when the document does not exist.
func (t docTable[T]) get(ctx context.Context, id string) (T, error) {
	var out T
	res, err := t.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(t.name),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return out, fmt.Errorf("dynamodb %s: %w", t.name, err)
	}
	if len(res.Item) == 0 {
		return out, nil
	}
	if err := attributevalue.UnmarshalMap(res.Item, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (t docTable[T]) delete(ctx context.Context, id string) error {
	_, err := t.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.name),
		Key:       idKey(id),
	})
	return mapWriteError(t.name, err)
}

// queryIndex reads every item whose attr equals value on the given GSI.
func (t docTable[T]) queryIndex(ctx context.Context, index, attr, value string) ([]T, error) {
	return t.query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(t.name),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": str(value),
		},
	}, 0)
}

// query pages through in, stopping once limit items were read when limit is positive.
func (t docTable[T]) query(ctx context.Context, in *dynamodb.QueryInput, limit int) ([]T, error) {
	var out []T
	p := dynamodb.NewQueryPaginator(t.ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb %s: %w", t.name, err)
		}
		var items []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		out = append(out, items...)
		if limit > 0 && len(out) >= limit {
			return out[:limit], nil
		}
	}
	return out, nil
}

func (t docTable[T]) scan(ctx context.Context) ([]T, error) {
	var out []T
	p := dynamodb.NewScanPaginator(t.ddb, &dynamodb.ScanInput{
		TableName:      aws.String(t.name),
		ConsistentRead: aws.Bool(true),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb %s: %w", t.name, err)
		}
		var items []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func filter[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if match(it) {
			out = append(out, it)
		}
	}
	return out
}
