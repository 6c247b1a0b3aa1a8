package dynamodb

import (
	"context"
	"errors"

	pkgerrors "brainstorm/pkg/errors"

	"github.com/aws/smithy-go"
)

const serviceName = "dynamodb"

// classifyError maps SDK failures onto application errors.
// Throttling and server faults become unavailable so callers may retry later.
func classifyError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if pkgerrors.GetAppError(err) != nil {
		return err
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "ProvisionedThroughputExceededException", "ThrottlingException", "RequestLimitExceeded",
			"InternalServerError", "ServiceUnavailable":
			return pkgerrors.NewUnavailableError(serviceName).WithCode(ae.ErrorCode()).WithCause(err)
		case "ConditionalCheckFailedException":
			return pkgerrors.NewNotFoundError("node").WithCode(ae.ErrorCode()).WithCause(err)
		default:
			return pkgerrors.NewExternalError(serviceName, err).WithCode(ae.ErrorCode()).
				WithDetails(map[string]interface{}{"operation": operation})
		}
	}
	return pkgerrors.NewExternalError(serviceName, err).WithDetails(map[string]interface{}{"operation": operation})
}
