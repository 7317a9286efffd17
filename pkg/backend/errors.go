package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/freshfind/storefront/pkg/errors"
)

const messageReadLimit = 512

// mapStatus turns a non-2xx backend answer into a typed error. Validation
// failures keep the backend's own message so it can be shown next to the form.
func mapStatus(resource string, status int, body []byte) *pkgerrors.Error {
	message := backendMessage(body)
	details := pkgerrors.BackendDetails{Status: status, Resource: resource, Message: message}

	var code pkgerrors.Code
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		code = pkgerrors.CodeValidation
	case status == http.StatusUnauthorized:
		code = pkgerrors.CodeUnauthorized
	case status == http.StatusForbidden:
		code = pkgerrors.CodeForbidden
	case status == http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	case status == http.StatusConflict:
		code = pkgerrors.CodeConflict
	case status == http.StatusTooManyRequests:
		code = pkgerrors.CodeRateLimit
	default:
		code = pkgerrors.CodeDependency
	}

	text := message
	if text == "" {
		text = fmt.Sprintf("%s request returned status %d", resource, status)
	}
	return pkgerrors.New(code, text).WithDetails(details)
}

// backendMessage pulls "message" or "error" out of an error body.
func backendMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		if len(trimmed) > messageReadLimit || strings.HasPrefix(trimmed, "<") {
			return ""
		}
		return trimmed
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	if msg, ok := payload.Error.(string); ok {
		return strings.TrimSpace(msg)
	}
	return ""
}

// Details returns the backend context attached to err, if any.
func Details(err error) (pkgerrors.BackendDetails, bool) {
	typed := pkgerrors.As(err)
	if typed == nil {
		return pkgerrors.BackendDetails{}, false
	}
	details, ok := typed.Details().(pkgerrors.BackendDetails)
	return details, ok
}

// UserMessage is the text shown to the shopper for a backend failure.
// Backend-supplied messages win over the generic fallback.
func UserMessage(err error, fallback string) string {
	if details, ok := Details(err); ok && details.Message != "" {
		return details.Message
	}
	return fallback
}
