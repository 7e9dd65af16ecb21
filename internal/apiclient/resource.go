package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Collection is one page of a listing.
type Collection[T any] struct {
	Items      []T
	TotalItems int
}

func (c *Collection[T]) UnmarshalJSON(b []byte) error {
	var raw struct {
		Member          []T  `json:"member"`
		HydraMember     []T  `json:"hydra:member"`
		TotalItems      *int `json:"totalItems"`
		HydraTotalItems *int `json:"hydra:totalItems"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	c.Items = raw.Member
	if c.Items == nil {
		c.Items = raw.HydraMember
	}
	if c.Items == nil {
		c.Items = []T{}
	}
	switch {
	case raw.TotalItems != nil:
		c.TotalItems = *raw.TotalItems
	case raw.HydraTotalItems != nil:
		c.TotalItems = *raw.HydraTotalItems
	default:
		c.TotalItems = len(c.Items)
	}
	return nil
}

// Patch is a merge-patch document. Keys that are absent are left untouched
// on the server; keys set to nil are cleared.
type Patch map[string]any

type callOptions struct {
	endpoint string
}

// CallOption adjusts a single call.
type CallOption func(*callOptions)

// WithEndpoint sends the call to endpoint instead of the kind's default.
func WithEndpoint(endpoint string) CallOption {
	return func(o *callOptions) { o.endpoint = endpoint }
}

// Resource performs CRUD calls for one entity kind.
type Resource[T Model] struct {
	client *Client
	kind   Kind
}

// For binds a resource to the kind of T.
func For[T Model](c *Client) *Resource[T] {
	var zero T
	return &Resource[T]{client: c, kind: zero.Kind()}
}

func (r *Resource[T]) Kind() Kind { return r.kind }

func (r *Resource[T]) endpoint(opts []CallOption) string {
	o := callOptions{endpoint: r.kind.Endpoint()}
	for _, opt := range opts {
		opt(&o)
	}
	return o.endpoint
}

func (r *Resource[T]) itemPath(id ID, opts []CallOption) string {
	return r.endpoint(opts) + "/" + url.PathEscape(id.String())
}

// List fetches one page (1-based) with optional filters.
func (r *Resource[T]) List(ctx context.Context, page int, filters map[string]string, opts ...CallOption) (Collection[T], error) {
	var out Collection[T]
	err := r.client.do(ctx, request{
		method:   http.MethodGet,
		path:     r.endpoint(opts),
		rawQuery: encodeQuery(page, filters),
	}, &out)
	if err != nil {
		return Collection[T]{}, err
	}
	return out, nil
}

func (r *Resource[T]) Get(ctx context.Context, id ID, opts ...CallOption) (T, error) {
	var out T
	err := r.client.do(ctx, request{method: http.MethodGet, path: r.itemPath(id, opts)}, &out)
	return out, err
}

// Create sends the full representation of payload.
func (r *Resource[T]) Create(ctx context.Context, payload T, opts ...CallOption) (T, error) {
	var out T
	err := r.client.do(ctx, request{method: http.MethodPost, path: r.endpoint(opts), body: payload}, &out)
	return out, err
}

// Update sends patch as application/merge-patch+json.
func (r *Resource[T]) Update(ctx context.Context, id ID, patch Patch, opts ...CallOption) (T, error) {
	if patch == nil {
		patch = Patch{}
	}
	var out T
	err := r.client.do(ctx, request{
		method:      http.MethodPatch,
		path:        r.itemPath(id, opts),
		body:        patch,
		contentType: mediaTypeMergePatch,
	}, &out)
	return out, err
}

func (r *Resource[T]) Delete(ctx context.Context, id ID, opts ...CallOption) error {
	return r.client.do(ctx, request{method: http.MethodDelete, path: r.itemPath(id, opts)}, nil)
}
