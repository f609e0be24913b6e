// Package notification decodes push-delivery envelopes into validated asset
// names and derives the asset identity from them. Everything here is pure:
// no store, transfer or conversion work happens before these checks pass.
package notification

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Envelope is the push-delivery wrapper carrying a base64-encoded payload.
type Envelope struct {
	Message struct {
		Data string `json:"data"`
	} `json:"message"`
}

type DecodeReason string

const (
	ReasonEncoding      DecodeReason = "encoding"
	ReasonCharset       DecodeReason = "charset"
	ReasonFormat        DecodeReason = "format"
	ReasonMissingField  DecodeReason = "missing_field"
	ReasonBadIdentifier DecodeReason = "bad_identifier"
)

// DecodeError is a client-input fault. It is terminal: retrying without
// fixing the payload cannot succeed.
type DecodeError struct {
	Reason DecodeReason
	err    error
}

func (e *DecodeError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("decode %s: %v", e.Reason, e.err)
	}
	return fmt.Sprintf("decode %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

func newDecodeError(reason DecodeReason, err error) *DecodeError {
	return &DecodeError{Reason: reason, err: err}
}

// DecodeName turns the envelope's base64 payload into the raw asset name.
func DecodeName(data string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", newDecodeError(ReasonEncoding, err)
	}

	if !utf8.Valid(decoded) {
		return "", newDecodeError(ReasonCharset, fmt.Errorf("payload is not valid UTF-8"))
	}

	var payload map[string]any
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return "", newDecodeError(ReasonFormat, err)
	}

	name, ok := payload["name"].(string)
	if !ok {
		return "", newDecodeError(ReasonMissingField, fmt.Errorf("payload has no string field 'name'"))
	}

	return name, nil
}

// DeriveIdentity derives the asset id and owner id from the asset name:
// the id is the name up to the first '.', the owner id is the id up to the
// first '-'. Both separators must be present and must not lead the name.
func DeriveIdentity(name string) (id string, ownerID string, err error) {
	dot := strings.Index(name, ".")
	if dot <= 0 {
		return "", "", newDecodeError(ReasonBadIdentifier, fmt.Errorf("asset name %q has no id component", name))
	}
	id = name[:dot]

	dash := strings.Index(id, "-")
	if dash <= 0 {
		return "", "", newDecodeError(ReasonBadIdentifier, fmt.Errorf("asset id %q has no owner component", id))
	}
	ownerID = id[:dash]

	return id, ownerID, nil
}
