package handlers

import (
	"errors"

	"github.com/aws/smithy-go"
)

// apiErrorCode extracts the AWS API error code for log fields, or "" when
// the error did not come from a service response.
func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
