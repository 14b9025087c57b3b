package provider

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"

	"pecha/model"
)

// wrapAnthropicErr tags credential/quota failures with model.ErrUnauthorized
// so callers prompt for a key instead of retrying.
func wrapAnthropicErr(err error, op string) error {
	if err == nil {
		return nil
	}
	var apierr *anthropic.Error
	if errors.As(err, &apierr) && isAuthStatus(apierr.StatusCode) {
		return fmt.Errorf("Anthropic %s: %w: %v", op, model.ErrUnauthorized, err)
	}
	return fmt.Errorf("Anthropic %s: %w", op, err)
}

// wrapOpenAIErr is wrapAnthropicErr's twin for the OpenAI SDK.
func wrapOpenAIErr(err error, op string) error {
	if err == nil {
		return nil
	}
	var apierr *openai.Error
	if errors.As(err, &apierr) && isAuthStatus(apierr.StatusCode) {
		return fmt.Errorf("OpenAI %s: %w: %v", op, model.ErrUnauthorized, err)
	}
	return fmt.Errorf("OpenAI %s: %w", op, err)
}

func isAuthStatus(code int) bool {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusPaymentRequired, http.StatusTooManyRequests:
		return true
	}
	return false
}
