package repository

import (
	"context"
	"time"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// HoursLedgerDynamo writes timesheets, time request decisions and the project hour counters in
// a single TransactWriteItems call.
type HoursLedgerDynamo struct {
	ddb    DynamoAPI
	tables Tables
	now    func() time.Time
}

var _ interfaces.IHoursLedger = (*HoursLedgerDynamo)(nil)

func NewHoursLedgerDynamo(ddb DynamoAPI, tables Tables) *HoursLedgerDynamo {
	return &HoursLedgerDynamo{ddb: ddb, tables: tables, now: func() time.Time { return time.Now().UTC() }}
}

func (l *HoursLedgerDynamo) LogTimesheet(ctx context.Context, project entities.Project, ts entities.Timesheet, hoursLogged float64) (entities.Project, error) {
	item, err := attributevalue.MarshalMap(ts)
	if err != nil {
		return entities.Project{}, err
	}
	now := l.now()
	err = l.transact(ctx,
		types.TransactWriteItem{Put: &types.Put{
			TableName:                aws.String(l.tables.Timesheets),
			Item:                     item,
			ConditionExpression:      aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{"#id": "id"},
		}},
		l.setLogged(project, hoursLogged, now),
	)
	if err != nil {
		return entities.Project{}, err
	}
	return bumped(project, hoursLogged, now), nil
}

func (l *HoursLedgerDynamo) RemoveTimesheet(ctx context.Context, project entities.Project, ts entities.Timesheet, hoursLogged float64) (entities.Project, error) {
	now := l.now()
	err := l.transact(ctx,
		types.TransactWriteItem{Delete: &types.Delete{
			TableName:                aws.String(l.tables.Timesheets),
			Key:                      idKey(ts.ID),
			ConditionExpression:      aws.String("attribute_exists(#id)"),
			ExpressionAttributeNames: map[string]string{"#id": "id"},
		}},
		l.setLogged(project, hoursLogged, now),
	)
	if err != nil {
		return entities.Project{}, err
	}
	return bumped(project, hoursLogged, now), nil
}

func (l *HoursLedgerDynamo) ApproveTimeRequest(ctx context.Context, project entities.Project, tr entities.TimeRequest, ts *entities.Timesheet, hoursLogged float64) (entities.Project, error) {
	expected := tr.Version
	tr.Version++
	trItem, err := attributevalue.MarshalMap(tr)
	if err != nil {
		return entities.Project{}, err
	}
	now := l.now()
	items := []types.TransactWriteItem{{Put: &types.Put{
		TableName:           aws.String(l.tables.TimeRequests),
		Item:                trItem,
		ConditionExpression: aws.String("#version = :expected AND (#status = :pending OR #status = :info)"),
		ExpressionAttributeNames: map[string]string{
			"#version": "version",
			"#status":  "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": inum(expected),
			":pending":  str(string(entities.TimeRequestPending)),
			":info":     str(string(entities.TimeRequestInfoRequested)),
		},
	}}}

	update := &types.Update{
		TableName:        aws.String(l.tables.Projects),
		Key:              idKey(project.ID),
		UpdateExpression: aws.String("SET #updated_at = :now ADD #additional :h, #total :h, #version :one"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#updated_at": "updated_at",
			"#additional": "additional_hours",
			"#total":      "total_allocated_hours",
			"#version":    "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": str(now.Format(time.RFC3339Nano)),
			":h":   num(tr.Hours),
			":one": inum(1),
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
	}
	if ts != nil {
		tsItem, err := attributevalue.MarshalMap(*ts)
		if err != nil {
			return entities.Project{}, err
		}
		items = append(items, types.TransactWriteItem{Put: &types.Put{
			TableName:                aws.String(l.tables.Timesheets),
			Item:                     tsItem,
			ConditionExpression:      aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{"#id": "id"},
		}})
		update.UpdateExpression = aws.String("SET #updated_at = :now, #logged = :logged ADD #additional :h, #total :h, #version :one")
		update.ConditionExpression = aws.String("attribute_exists(#id) AND #version = :expected")
		update.ExpressionAttributeNames["#logged"] = "hours_logged"
		update.ExpressionAttributeValues[":logged"] = num(hoursLogged)
		update.ExpressionAttributeValues[":expected"] = inum(project.Version)
	}
	items = append(items, types.TransactWriteItem{Update: update})

	if err := l.transact(ctx, items...); err != nil {
		return entities.Project{}, err
	}
	if ts != nil {
		p := bumped(project, hoursLogged, now)
		p.AdditionalHours += tr.Hours
		p.TotalAllocatedHours += tr.Hours
		return p, nil
	}
	return newDocTable[entities.Project](l.ddb, l.tables.Projects).get(ctx, project.ID)
}

func (l *HoursLedgerDynamo) setLogged(project entities.Project, hoursLogged float64, now time.Time) types.TransactWriteItem {
	return types.TransactWriteItem{Update: &types.Update{
		TableName:           aws.String(l.tables.Projects),
		Key:                 idKey(project.ID),
		UpdateExpression:    aws.String("SET #logged = :logged, #updated_at = :now, #version = :next"),
		ConditionExpression: aws.String("attribute_exists(#id) AND #version = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#logged":     "hours_logged",
			"#updated_at": "updated_at",
			"#version":    "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":logged":   num(hoursLogged),
			":now":      str(now.Format(time.RFC3339Nano)),
			":next":     inum(project.Version + 1),
			":expected": inum(project.Version),
		},
	}}
}

func (l *HoursLedgerDynamo) transact(ctx context.Context, items ...types.TransactWriteItem) error {
	_, err := l.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	return mapWriteError(l.tables.Projects, err)
}

func bumped(p entities.Project, hoursLogged float64, now time.Time) entities.Project {
	p.HoursLogged = hoursLogged
	p.Version++
	p.UpdatedAt = now
	return p
}
