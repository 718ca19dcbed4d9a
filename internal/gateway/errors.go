package gateway

import (
	"errors"

	"github.com/tidwall/gjson"
)

// FallbackMessage is reported when a failure carries no usable text.
const FallbackMessage = "Request failed"

// Kind classifies a normalized failure.
type Kind string

const (
	// KindField is a server-side validation error on one input field.
	KindField Kind = "field"
	// KindGeneral is a business-rule rejection not tied to a field.
	KindGeneral Kind = "general"
	// KindGeneric is a failure with at most an error/detail message.
	KindGeneric Kind = "generic"
	// KindTransport is a network or decoding failure.
	KindTransport Kind = "transport"
	// KindPrecondition is a local check that failed before any call was made.
	KindPrecondition Kind = "precondition"
)

// Error is the single error shape every workflow receives from the
// gateway. Message is always human readable.
type Error struct {
	Kind    Kind
	Field   string // set for KindField
	Status  int    // HTTP status, 0 when no response was received
	Message string
	err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.err }

// Precondition builds a local precondition failure.
func Precondition(msg string) *Error {
	return &Error{Kind: KindPrecondition, Message: msg}
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: FallbackMessage, err: err}
}

// Message extracts the text a workflow should show for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return err.Error()
}

// IsKind reports whether err is a gateway error of kind k.
func IsKind(err error, k Kind) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == k
}

// Field errors are checked before general and generic ones, in this order.
var fieldPriority = []string{"mobile_number", "password", "username"}

// normalize turns a non-success response into an Error. The body is
// inspected in a fixed priority order regardless of which keys are present.
func normalize(status int, body []byte) *Error {
	if !gjson.ValidBytes(body) {
		return &Error{Kind: KindGeneric, Status: status, Message: FallbackMessage}
	}
	doc := gjson.ParseBytes(body)

	for _, field := range fieldPriority {
		if r := doc.Get(field); truthy(r) {
			return &Error{Kind: KindField, Field: field, Status: status, Message: firstMessage(r)}
		}
	}
	if r := doc.Get("non_field_errors"); truthy(r) {
		return &Error{Kind: KindGeneral, Status: status, Message: firstMessage(r)}
	}
	for _, key := range []string{"error", "detail"} {
		if r := doc.Get(key); truthy(r) {
			return &Error{Kind: KindGeneric, Status: status, Message: firstMessage(r)}
		}
	}
	return &Error{Kind: KindGeneric, Status: status, Message: FallbackMessage}
}

// truthy mirrors what a dynamic client would treat as "present": null,
// false, zero and the empty string do not count, arrays and objects do.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.True, gjson.JSON:
		return true
	}
	return false
}

// firstMessage returns the first entry of a list of messages, or the value
// itself when it is a scalar.
func firstMessage(r gjson.Result) string {
	if r.IsArray() {
		if arr := r.Array(); len(arr) > 0 && arr[0].String() != "" {
			return arr[0].String()
		}
		return r.Raw
	}
	return r.String()
}
