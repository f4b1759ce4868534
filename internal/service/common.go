package service

import (
	"errors"
	"strings"

	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

// asAppError passes typed errors through and wraps anything else as internal.
func asAppError(err error, message string) error {
	var typed *appErrors.Error
	if errors.As(err, &typed) {
		return typed
	}
	return appErrors.Internal(err, message)
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
