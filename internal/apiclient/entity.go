package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// ID is a server-assigned identifier. It decodes from a JSON number or
// string and is treated as opaque.
type ID string

// IntID converts a numeric id.
func IntID(n int64) ID { return ID(strconv.FormatInt(n, 10)) }

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*id = ID(n.String())
	}
	return nil
}

// MarshalJSON writes numeric ids as numbers and anything else as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Entity holds the fields every resource shares.
type Entity struct {
	IRI       string     `json:"@id,omitempty"`
	Type      string     `json:"@type,omitempty"`
	ID        ID         `json:"id,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type Author struct {
	Entity
	Name  string   `json:"name"`
	Books []string `json:"books,omitempty"`
}

func (Author) Kind() Kind { return KindAuthor }

type Category struct {
	Entity
	Name  string   `json:"name"`
	Books []string `json:"books,omitempty"`
}

func (Category) Kind() Kind { return KindCategory }

type Book struct {
	Entity
	Name       string          `json:"name"`
	Author     Ref[Author]     `json:"author"`
	Categories []Ref[Category] `json:"categories,omitempty"`
}

func (Book) Kind() Kind { return KindBook }

// User is a credential. Password is write-only and never returned by the
// server.
type User struct {
	Entity
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

func (User) Kind() Kind { return KindUser }

var errInvalidRef = errors.New("reference must be an IRI string or an object")

// Ref is a relation that the server serializes either as an embedded object
// or as a bare IRI, depending on serialization depth.
type Ref[T any] struct {
	IRI   string
	Value *T
}

// RefTo references an existing resource by IRI.
func RefTo[T any](iri string) Ref[T] { return Ref[T]{IRI: iri} }

// Embedded reports whether the full object was included.
func (r Ref[T]) Embedded() bool { return r.Value != nil }

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.IRI != "" {
		return json.Marshal(r.IRI)
	}
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	return []byte("null"), nil
}

func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	res := gjson.ParseBytes(b)
	switch {
	case res.Type == gjson.String:
		*r = Ref[T]{IRI: res.String()}
	case res.IsObject():
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*r = Ref[T]{IRI: res.Get(`@id`).String(), Value: &v}
	case res.Type == gjson.Null:
		*r = Ref[T]{}
	default:
		return errInvalidRef
	}
	return nil
}
