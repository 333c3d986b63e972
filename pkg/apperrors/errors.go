// Package apperrors classifies failures so callers can show a short message
// to the reader and keep the underlying cause for logs.
package apperrors

import (
	"errors"
	"net/http"
	"strings"
)

type Kind string

const (
	KindNetwork    Kind = "network"
	KindStatus     Kind = "status"
	KindDecode     Kind = "decode"
	KindUpstream   Kind = "upstream"
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindNetwork:
		return "Translation service unreachable."
	case KindStatus:
		return "Translation service returned an error status."
	case KindDecode:
		return "Translation response could not be read."
	case KindUpstream:
		return "Translation request rejected by upstream API."
	case KindValidation:
		return "Invalid request."
	case KindNotFound:
		return "Not found."
	default:
		return "Request failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func Network(err error) error { return New(KindNetwork, "", err) }
func Status(err error) error { return New(KindStatus, "", err) }
func Decode(err error) error { return New(KindDecode, "", err) }
func Upstream(err error) error { return New(KindUpstream, "", err) }
func Validation(msg string) error { return New(KindValidation, msg, errors.New(msg)) }

// NotFound wraps err so callers can match it with errors.Is while the kind
// still reports KindNotFound.
func NotFound(err error) error { return New(KindNotFound, "", err) }

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// HTTPStatus maps a classified error to the status code the API answers with.
func HTTPStatus(err error) int {
	kind, ok := KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindNetwork, KindStatus, KindDecode, KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
