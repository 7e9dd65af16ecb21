package author

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"bookcatalog/internal/httpx"

	"github.com/sirupsen/logrus"
)

const (
	shortName  = "Author"
	collection = "authors"
	maxNameLen = 255
)

type HTTPHandler struct {
	service *Service
	logger  logrus.FieldLogger
}

func NewHTTPHandler(service *Service, logger logrus.FieldLogger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger.WithField("resource", collection)}
}

type representation struct {
	Context   string    `json:"@context,omitempty"`
	IRI       string    `json:"@id"`
	Type      string    `json:"@type"`
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Books     []string  `json:"books"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toRepresentation(a Author) representation {
	books := make([]string, 0, len(a.BookIDs))
	for _, id := range a.BookIDs {
		books = append(books, httpx.IRI("books", id))
	}
	return representation{
		IRI:       httpx.IRI(collection, a.ID),
		Type:      shortName,
		ID:        a.ID,
		Name:      a.Name,
		Books:     books,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func item(a Author) representation {
	rep := toRepresentation(a)
	rep.Context = httpx.APIPrefix + "/contexts/" + shortName
	return rep
}

type createReq struct {
	Name string `json:"name" validate:"required,max=255"`
}

// List handles GET /api/authors
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.PageFrom(r)
	authors, total, err := h.service.List(r.Context(), Query{
		Name:   strings.TrimSpace(r.URL.Query().Get("name")),
		Limit:  page.Size,
		Offset: page.Offset(),
	})
	if err != nil {
		h.internalError(w, "list authors", err)
		return
	}

	members := make([]representation, 0, len(authors))
	for _, a := range authors {
		members = append(members, toRepresentation(a))
	}
	httpx.JSONLD(w, http.StatusOK, httpx.NewCollection(r, shortName, collection, members, total, page))
}

// Get handles GET /api/authors/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Not Found")
		return
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, "get author", err)
		return
	}
	httpx.JSONLD(w, http.StatusOK, item(a))
}

// Create handles POST /api/authors
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := httpx.DecodeEntity(r, &req); err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if violations := httpx.ValidateStruct(req); len(violations) > 0 {
		httpx.JSONViolations(w, violations)
		return
	}

	a, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		h.internalError(w, "create author", err)
		return
	}
	httpx.JSONLDCreated(w, item(a))
}

// Patch handles PATCH /api/authors/{id}
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
	name, violation := patch.RequiredString("name", maxNameLen)
	if violation != nil {
		httpx.JSONViolations(w, []httpx.Violation{*violation})
		return
	}

	a, err := h.service.Patch(r.Context(), id, name)
	if err != nil {
		h.writeError(w, "patch author", err)
		return
	}
	httpx.JSONLD(w, http.StatusOK, item(a))
}

// Delete handles DELETE /api/authors/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Not Found")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, "delete author", err)
		return
	}
	httpx.NoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "Not Found")
	case errors.Is(err, ErrInUse):
		httpx.JSONError(w, http.StatusConflict, "Author is still referenced by books.")
	default:
		h.internalError(w, op, err)
	}
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.WithError(err).Error(op)
	httpx.JSONError(w, http.StatusInternalServerError, "Internal Server Error")
}
