package awscloud

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	"github.com/sachinbhirud1998/Status/internal/domain"
)

// wrapError attaches a message and, where the AWS error code maps onto a
// domain sentinel, wraps that sentinel so callers can classify without
// importing SDK types.
func wrapError(msg string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "UnauthorizedOperation", "AccessDenied", "AccessDeniedException", "InvalidClientTokenId", "ExpiredToken":
			return fmt.Errorf("%s: %w", msg, domain.ErrUnauthorized)
		case "Throttling", "ThrottlingException", "RequestLimitExceeded":
			return fmt.Errorf("%s: %w", msg, domain.ErrRateLimited)
		case "InvalidInstanceID.NotFound", "InvalidInstanceType", "ResourceNotFound":
			return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
