package cognito

import (
	"errors"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
)

// Classify maps a provider error onto the upstream status vocabulary.
func Classify(err error) int {
	var notAuthorized *types.NotAuthorizedException
	var userNotFound *types.UserNotFoundException
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &notAuthorized):
		return http.StatusUnauthorized
	case errors.As(err, &userNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode returns the provider error code, or "" for non-API errors.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsNotAuthorized reports whether the provider rejected the credentials or token.
func IsNotAuthorized(err error) bool {
	var notAuthorized *types.NotAuthorizedException
	return errors.As(err, &notAuthorized)
}

func IsResourceNotFound(err error) bool {
	var notFound *types.ResourceNotFoundException
	return errors.As(err, &notFound)
}
