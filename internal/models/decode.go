package models

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Patch is any of the typed partial-update structures.
type Patch interface {
	DealPatch | CommentPatch | BannerPatch
}

// DecodePatch reads a JSON patch, rejecting fields the patch type does not declare.
func DecodePatch[T Patch](r io.Reader) (T, error) {
	var p T
	if err := DecodeStrict(r, &p); err != nil {
		return p, err
	}
	return p, nil
}

// DecodeStrict decodes a single JSON value into v. Unknown fields and malformed
// bodies are reported as validation errors.
func DecodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return NewValidationError(strings.Trim(field, `"`), "unknown field")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return NewValidationError(typeErr.Field, "invalid value")
		}
		if errors.Is(err, io.EOF) {
			return NewValidationError("body", "request body is empty")
		}
		return NewValidationError("body", "malformed JSON: "+err.Error())
	}
	return nil
}
