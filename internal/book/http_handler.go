package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bookcatalog/internal/httpx"

	"github.com/sirupsen/logrus"
)

const (
	shortName  = "Book"
	collection = "books"
	maxNameLen = 255
)

type HTTPHandler struct {
	service *Service
	logger  logrus.FieldLogger
}

func NewHTTPHandler(service *Service, logger logrus.FieldLogger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger.WithField("resource", collection)}
}

type refRepresentation struct {
	IRI  string `json:"@id"`
	Type string `json:"@type"`
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type representation struct {
	Context    string              `json:"@context,omitempty"`
	IRI        string              `json:"@id"`
	Type       string              `json:"@type"`
	ID         int64               `json:"id"`
	Name       string              `json:"name"`
	Author     refRepresentation   `json:"author"`
	Categories []refRepresentation `json:"categories"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

func toRepresentation(b Book) representation {
	categories := make([]refRepresentation, 0, len(b.Categories))
	for _, c := range b.Categories {
		categories = append(categories, refRepresentation{
			IRI:  httpx.IRI("categories", c.ID),
			Type: "Category",
			ID:   c.ID,
			Name: c.Name,
		})
	}
	return representation{
		IRI:  httpx.IRI(collection, b.ID),
		Type: shortName,
		ID:   b.ID,
		Name: b.Name,
		Author: refRepresentation{
			IRI:  httpx.IRI("authors", b.Author.ID),
			Type: "Author",
			ID:   b.Author.ID,
			Name: b.Author.Name,
		},
		Categories: categories,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func item(b Book) representation {
	rep := toRepresentation(b)
	rep.Context = httpx.APIPrefix + "/contexts/" + shortName
	return rep
}

type createReq struct {
	Name       string            `json:"name" validate:"required,max=255"`
	Author     json.RawMessage   `json:"author"`
	Categories []json.RawMessage `json:"categories"`
}

// List handles GET /api/books?name=&author=&category=
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := httpx.PageFrom(r)

	params := Query{
		Name:   strings.TrimSpace(query.Get("name")),
		Limit:  page.Size,
		Offset: page.Offset(),
	}

	if author := strings.TrimSpace(query.Get("author")); author != "" {
		id, err := httpx.ParseReferenceString(author, "authors")
		if err != nil {
			httpx.JSONLD(w, http.StatusOK, httpx.NewCollection[representation](r, shortName, collection, nil, 0, page))
			return
		}
		params.AuthorID = id
	}

	if category := strings.TrimSpace(query.Get("category")); category != "" {
		if id, err := httpx.ParseReferenceString(category, "categories"); err == nil {
			params.CategoryID = id
		} else {
			params.CategoryName = category
		}
	}

	books, total, err := h.service.List(r.Context(), params)
	if err != nil {
		h.writeError(w, "list books", err)
		return
	}

	members := make([]representation, 0, len(books))
	for _, b := range books {
		members = append(members, toRepresentation(b))
	}
	httpx.JSONLD(w, http.StatusOK, httpx.NewCollection(r, shortName, collection, members, total, page))
}

// Get handles GET /api/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Not Found")
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, "get book", err)
		return
	}
	httpx.JSONLD(w, http.StatusOK, item(b))
}

// Create handles POST /api/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := httpx.DecodeEntity(r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	violations := httpx.ValidateStruct(req)

	authorID, violation := parseAuthor(req.Author)
	if violation != nil {
		violations = append(violations, *violation)
	}
	categoryIDs, violation := parseCategories(req.Categories)
	if violation != nil {
		violations = append(violations, *violation)
	}
	if len(violations) > 0 {
		httpx.JSONViolations(w, violations)
		return
	}

	b, err := h.service.Create(r.Context(), req.Name, authorID, categoryIDs)
	if err != nil {
		h.writeError(w, "create book", err)
		return
	}
	httpx.JSONLDCreated(w, item(b))
}

// Patch handles PATCH /api/books/{id}
func (h *HTTPHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Not Found")
		return
	}

	patch, err := httpx.DecodeMergePatch(r)
	if err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	var (
		ch         Changes
		violations []httpx.Violation
	)

	name, violation := patch.RequiredString("name", maxNameLen)
	if violation != nil {
		violations = append(violations, *violation)
	}
	ch.Name = name

	if patch.Has("author") {
		authorID, violation := parseAuthor(patch["author"])
		if violation != nil {
			violations = append(violations, *violation)
		} else {
			ch.AuthorID = &authorID
		}
	}

	if patch.Has("categories") {
		categoryIDs := []int64{}
		if !patch.IsNull("categories") {
			var raw []json.RawMessage
			if err := json.Unmarshal(patch["categories"], &raw); err != nil {
				violations = append(violations, httpx.Violation{PropertyPath: "categories", Message: httpx.MsgInvalidType})
			} else if ids, violation := parseCategories(raw); violation != nil {
				violations = append(violations, *violation)
			} else {
				categoryIDs = ids
			}
		}
		ch.Categories = &categoryIDs
	}

	if len(violations) > 0 {
		httpx.JSONViolations(w, violations)
		return
	}

	b, err := h.service.Patch(r.Context(), id, ch)
	if err != nil {
		h.writeError(w, "patch book", err)
		return
	}
	httpx.JSONLD(w, http.StatusOK, item(b))
}

// Delete handles DELETE /api/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Not Found")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, "delete book", err)
		return
	}
	httpx.NoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "Not Found")
	case errors.Is(err, ErrUnknownAuthor):
		httpx.JSONViolations(w, []httpx.Violation{{PropertyPath: "author", Message: "Item not found."}})
	case errors.Is(err, ErrUnknownCategory):
		httpx.JSONViolations(w, []httpx.Violation{{PropertyPath: "categories", Message: "Item not found."}})
	default:
		h.logger.WithError(err).Error(op)
		httpx.JSONError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func parseAuthor(raw json.RawMessage) (int64, *httpx.Violation) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, &httpx.Violation{PropertyPath: "author", Message: httpx.MsgNotNull}
	}
	id, err := httpx.ParseReference(raw, "authors")
	if err != nil {
		return 0, &httpx.Violation{PropertyPath: "author", Message: httpx.MsgInvalidValue}
	}
	return id, nil
}

// parseCategories resolves category references, dropping duplicates while
// keeping the first occurrence's position.
func parseCategories(raw []json.RawMessage) ([]int64, *httpx.Violation) {
	ids := make([]int64, 0, len(raw))
	seen := make(map[int64]bool, len(raw))
	for i, ref := range raw {
		id, err := httpx.ParseReference(ref, "categories")
		if err != nil {
			return nil, &httpx.Violation{
				PropertyPath: fmt.Sprintf("categories[%d]", i),
				Message:      httpx.MsgInvalidValue,
			}
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
