package category

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"bookcatalog/internal/httpx"

	"github.com/sirupsen/logrus"
)

const (
	shortName  = "Category"
	collection = "categories"
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

func toRepresentation(c Category, withContext bool) representation {
	books := make([]string, 0, len(c.BookIDs))
	for _, id := range c.BookIDs {
		books = append(books, httpx.IRI("books", id))
	}
	rep := representation{
		IRI:       httpx.IRI(collection, c.ID),
		Type:      shortName,
		ID:        c.ID,
		Name:      c.Name,
		Books:     books,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if withContext {
		rep.Context = httpx.APIPrefix + "/contexts/" + shortName
	}
	return rep
}

type createReq struct {
	Name string `json:"name" validate:"required,max=255"`
}

// List handles GET /api/categories?name=
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.PageFrom(r)
	categories, total, err := h.service.List(r.Context(), Query{
		Name:   strings.TrimSpace(r.URL.Query().Get("name")),
		Limit:  page.Size,
		Offset: page.Offset(),
	})
	if err != nil {
		h.writeError(w, "list categories", err)
		return
	}

	members := make([]representation, 0, len(categories))
	for _, c := range categories {
		members = append(members, toRepresentation(c, false))
	}
	httpx.JSONLD(w, http.StatusOK, httpx.NewCollection(r, shortName, collection, members, total, page))
}

func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Not Found")
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, "get category", err)
		return
	}
	httpx.JSONLD(w, http.StatusOK, toRepresentation(c, true))
}

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

	c, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, "create category", err)
		return
	}
	httpx.JSONLDCreated(w, toRepresentation(c, true))
}

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
	name, violation := patch.RequiredString("name", 255)
	if violation != nil {
		httpx.JSONViolations(w, []httpx.Violation{*violation})
		return
	}

	c, err := h.service.Patch(r.Context(), id, name)
	if err != nil {
		h.writeError(w, "patch category", err)
		return
	}
	httpx.JSONLD(w, http.StatusOK, toRepresentation(c, true))
}

func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "Not Found")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, "delete category", err)
		return
	}
	httpx.NoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "Not Found")
		return
	}
	h.logger.WithError(err).Error(op)
	httpx.JSONError(w, http.StatusInternalServerError, "Internal Server Error")
}
