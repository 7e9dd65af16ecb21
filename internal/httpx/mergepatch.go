package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidBody          = errors.New("invalid JSON body")
)

// MergePatch is a decoded RFC 7386 document. A key that is absent leaves the
// target field untouched; a key mapped to null clears it.
type MergePatch map[string]json.RawMessage

// DecodeMergePatch reads a merge-patch document from r. The request must be
// sent as application/merge-patch+json and the body must be a JSON object.
func DecodeMergePatch(r *http.Request) (MergePatch, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != MediaTypeMergePatch {
		return nil, ErrUnsupportedMediaType
	}

	var patch MergePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil || patch == nil {
		return nil, ErrInvalidBody
	}
	return patch, nil
}

// Has reports whether key was supplied, null included.
func (p MergePatch) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// IsNull reports whether key was supplied as an explicit null.
func (p MergePatch) IsNull(key string) bool {
	raw, ok := p[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// String decodes key as a string. It returns nil when the key is absent or
// null; callers distinguish the two with Has and IsNull.
func (p MergePatch) String(key string) (*string, error) {
	if !p.Has(key) || p.IsNull(key) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(p[key], &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// RequiredString reads a non-nullable string field. It returns nil, nil when
// the key is absent and a violation when the value is null, not a string,
// blank, or longer than max characters. The returned value is trimmed.
func (p MergePatch) RequiredString(key string, max int) (*string, *Violation) {
	if !p.Has(key) {
		return nil, nil
	}
	if p.IsNull(key) {
		return nil, &Violation{PropertyPath: key, Message: MsgNotNull}
	}
	s, err := p.String(key)
	if err != nil {
		return nil, &Violation{PropertyPath: key, Message: MsgInvalidType}
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil, &Violation{PropertyPath: key, Message: MsgNotBlank}
	}
	if utf8.RuneCountInString(trimmed) > max {
		return nil, &Violation{PropertyPath: key, Message: MsgTooLong}
	}
	return &trimmed, nil
}

// DecodeBody decodes a JSON request body into v.
func DecodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return ErrInvalidBody
	}
	return nil
}

// DecodeEntity decodes a full resource representation. The request must be
// sent as application/ld+json or application/json.
func DecodeEntity(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || (mediaType != MediaTypeJSONLD && mediaType != MediaTypeJSON) {
		return ErrUnsupportedMediaType
	}
	return DecodeBody(r, v)
}

// WriteDecodeError maps a decoding failure to its response.
func WriteDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUnsupportedMediaType) {
		JSONError(w, http.StatusUnsupportedMediaType, "The content-type is not supported.")
		return
	}
	JSONError(w, http.StatusBadRequest, "Invalid JSON data")
}
