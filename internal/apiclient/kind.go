package apiclient

import (
	"fmt"
	"strings"
)

// Kind tags the resource type an operation targets.
type Kind int

const (
	KindBook Kind = iota + 1
	KindAuthor
	KindCategory
	KindUser
)

type kindSpec struct {
	name     string
	endpoint string
}

var kinds = map[Kind]kindSpec{
	KindBook:     {name: "Book", endpoint: "books"},
	KindAuthor:   {name: "Author", endpoint: "authors"},
	KindCategory: {name: "Category", endpoint: "categories"},
	KindUser:     {name: "User", endpoint: "user"},
}

func (k Kind) String() string {
	if s, ok := kinds[k]; ok {
		return s.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Endpoint is the collection path the kind is served under unless a call
// overrides it.
func (k Kind) Endpoint() string {
	return kinds[k].endpoint
}

// ParseKind resolves a kind from its name or endpoint, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, spec := range kinds {
		if s == strings.ToLower(spec.name) || s == spec.endpoint {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// Model is implemented by every entity type the client can address.
type Model interface {
	Kind() Kind
}
