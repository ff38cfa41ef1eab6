package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/sashabaranov/go-openai"
)

// ErrorKind classifies an analysis failure
type ErrorKind int

// error kinds
const (
	KindOther ErrorKind = iota
	KindMalformed
	KindTimeout
	KindUnauthorized
	KindModelMissing
	KindUnreachable
	KindNotConfigured
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformed:
		return "malformed response"
	case KindTimeout:
		return "timeout"
	case KindUnauthorized:
		return "unauthorized"
	case KindModelMissing:
		return "model missing"
	case KindUnreachable:
		return "unreachable"
	case KindNotConfigured:
		return "not configured"
	default:
		return "other"
	}
}

// Kind classifies an error returned by Analyze, Check or Ready
func Kind(err error) ErrorKind {
	if err == nil {
		return KindOther
	}
	switch {
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	case errors.Is(err, ErrNotConfigured):
		return KindNotConfigured
	case errors.Is(err, ErrModelMissing):
		return KindModelMissing
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusKind(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return statusKind(reqErr.HTTPStatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindUnreachable
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindUnreachable
	}
	return KindOther
}

func statusKind(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindUnauthorized
	case code == http.StatusNotFound:
		return KindModelMissing
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return KindTimeout
	case code == http.StatusBadGateway || code == http.StatusServiceUnavailable:
		return KindUnreachable
	default:
		return KindOther
	}
}

// Remediation returns an actionable hint for the error, safe to show to users
func (c *Client) Remediation(err error) string {
	switch Kind(err) {
	case KindNotConfigured:
		return "set llm.endpoint and llm.model in the config, remote providers also need llm.api_key (or --llm-api-key)"
	case KindUnauthorized:
		return fmt.Sprintf("the LLM endpoint %s rejected the credentials, check llm.api_key (or --llm-api-key)", c.config.Endpoint)
	case KindModelMissing:
		return fmt.Sprintf("model %q is not available, run `ollama pull %s` for Ollama or set llm.model to a model the endpoint serves",
			c.config.Model, c.config.Model)
	case KindUnreachable:
		return fmt.Sprintf("LLM endpoint %s is unreachable, start the service (e.g. `ollama serve`) or fix llm.endpoint", c.config.Endpoint)
	case KindTimeout:
		return fmt.Sprintf("LLM did not answer within %s, raise llm.timeout or use a smaller model", c.config.Timeout)
	case KindMalformed:
		return "the model returned an answer that is not valid analysis JSON, use a model that supports JSON output or enable llm.use_json_mode"
	default:
		return "check the LLM service logs and retry"
	}
}
