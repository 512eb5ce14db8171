package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnauthenticated is returned when the server rejects the session cookie.
var ErrUnauthenticated = errors.New("not signed in")

const maxErrorBody = 512

// Error carries a non-2xx response. Message is the response body as the
// server wrote it, suitable for showing to the user.
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Message)
}

// DisplayMessage returns the text to surface for err in a notification.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrUnauthenticated) {
		return "Not signed in"
	}
	return err.Error()
}

func newError(op string, resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	return &Error{Op: op, Status: resp.StatusCode, Message: errorBody(resp)}
}

// errorBody reads a bounded error body. JSON string bodies are unquoted and
// objects with a message field are reduced to that field.
func errorBody(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	text := strings.TrimSpace(string(data))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	var unquoted string
	if err := json.Unmarshal([]byte(text), &unquoted); err == nil && unquoted != "" {
		return unquoted
	}
	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		if obj.Error != "" {
			return obj.Error
		}
	}
	return truncateBody(text)
}

func truncateBody(text string) string {
	runes := []rune(text)
	if len(runes) <= 200 {
		return text
	}
	return string(runes[:199]) + "…"
}
