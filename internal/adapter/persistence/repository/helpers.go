package repository

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"studioflow/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func floatToString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func intToString(v int64) string {
	return strconv.FormatInt(v, 10)
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func str(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

func num(v float64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: floatToString(v)}
}

func inum(v int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: intToString(v)}
}

// isConditionFailed reports whether err is a failed condition expression, on a single-item
// write or on any item of a transaction.
func isConditionFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) {
		return true
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, r := range tce.CancellationReasons {
			if aws.ToString(r.Code) == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}

// mapWriteError turns a lost condition into interfaces.ErrConflict and passes anything else
// through with the table name attached.
func mapWriteError(table string, err error) error {
	if err == nil {
		return nil
	}
	if isConditionFailed(err) {
		return fmt.Errorf("%w: %s", interfaces.ErrConflict, table)
	}
	return fmt.Errorf("dynamodb %s: %w", table, err)
}
