package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// APIPrefix is where the resource endpoints are mounted.
const APIPrefix = "/api"

// DefaultPageSize is the number of members per collection page.
const DefaultPageSize = 10

var ErrInvalidReference = errors.New("invalid resource reference")

// IRI returns the resource identifier of item id in collection.
func IRI(collection string, id int64) string {
	return APIPrefix + "/" + collection + "/" + strconv.FormatInt(id, 10)
}

// Collection is a JSON-LD paged collection.
type Collection[T any] struct {
	Context    string       `json:"@context"`
	ID         string       `json:"@id"`
	Type       string       `json:"@type"`
	TotalItems int          `json:"totalItems"`
	Member     []T          `json:"member"`
	View       *PartialView `json:"view,omitempty"`
}

// PartialView links a collection page to its neighbours.
type PartialView struct {
	ID       string `json:"@id"`
	Type     string `json:"@type"`
	First    string `json:"first,omitempty"`
	Last     string `json:"last,omitempty"`
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

// Page is the 1-based page requested by a collection call.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// maxPage keeps Offset and the next-page link from overflowing.
const maxPage = math.MaxInt32 / DefaultPageSize

// PageFrom reads ?page=N; anything missing or below 1 is page 1, and
// anything past maxPage is clamped to it.
func PageFrom(r *http.Request) Page {
	// Atoi saturates out-of-range input, so huge values land in the last case.
	n, _ := strconv.Atoi(r.URL.Query().Get("page"))
	switch {
	case n < 1:
		n = 1
	case n > maxPage:
		n = maxPage
	}
	return Page{Number: n, Size: DefaultPageSize}
}

// NewCollection assembles a collection document for the request's page.
func NewCollection[T any](r *http.Request, shortName, collection string, members []T, total int, page Page) Collection[T] {
	if members == nil {
		members = []T{}
	}
	c := Collection[T]{
		Context:    APIPrefix + "/contexts/" + shortName,
		ID:         APIPrefix + "/" + collection,
		Type:       "Collection",
		TotalItems: total,
		Member:     members,
	}

	lastPage := (total + page.Size - 1) / page.Size
	if lastPage < 1 {
		lastPage = 1
	}
	if lastPage == 1 && page.Number == 1 {
		return c
	}

	link := func(n int) string {
		q := cloneQuery(r.URL.Query())
		q.Set("page", strconv.Itoa(n))
		return c.ID + "?" + q.Encode()
	}
	view := &PartialView{
		ID:    link(page.Number),
		Type:  "PartialCollectionView",
		First: link(1),
		Last:  link(lastPage),
	}
	if page.Number > 1 {
		view.Previous = link(page.Number - 1)
	}
	if page.Number < lastPage {
		view.Next = link(page.Number + 1)
	}
	c.View = view
	return c
}

func cloneQuery(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// ParseReference resolves a relation value to an id. It accepts an IRI
// string ("/api/authors/3"), a bare numeric string, a JSON number, or an
// object carrying "@id" or "id".
func ParseReference(raw json.RawMessage, collection string) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, ErrInvalidReference
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, ErrInvalidReference
		}
		return ParseReferenceString(s, collection)
	case '{':
		var obj struct {
			IRI string          `json:"@id"`
			ID  json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return 0, ErrInvalidReference
		}
		if obj.IRI != "" {
			return ParseReferenceString(obj.IRI, collection)
		}
		if len(obj.ID) > 0 && obj.ID[0] != '{' {
			return ParseReference(obj.ID, collection)
		}
		return 0, ErrInvalidReference
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, ErrInvalidReference
		}
		id, err := n.Int64()
		if err != nil || id < 1 {
			return 0, ErrInvalidReference
		}
		return id, nil
	}
}

// ParseReferenceString resolves an IRI or a bare id string.
func ParseReferenceString(s, collection string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, APIPrefix+"/"+collection+"/")
	s = strings.TrimPrefix(s, "/"+collection+"/")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidReference
	}
	return id, nil
}
