package book

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookcatalog/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBook = Book{
	ID:     7,
	Name:   "The Left Hand of Darkness",
	Author: Ref{ID: 3, Name: "Ursula K. Le Guin"},
	Categories: []Ref{
		{ID: 1, Name: "Fiction"},
		{ID: 4, Name: "Science Fiction"},
	},
}

func newTestHandler(t *testing.T) (*HTTPHandler, *MockRepository) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	logger, _ := test.NewNullLogger()
	return NewHTTPHandler(NewService(mockRepo), logger), mockRepo
}

func TestHTTPHandler_List(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return([]Book{testBook}, 1, nil)

		w := httptest.NewRecorder()
		handler.List(w, testutil.NewRequest(http.MethodGet, "/api/books", nil))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, resp.Code)

		member := resp.Body["member"].([]any)[0].(map[string]any)
		author := member["author"].(map[string]any)
		assert.Equal(t, "/api/authors/3", author["@id"])
		assert.Equal(t, "Ursula K. Le Guin", author["name"])
		assert.Len(t, member["categories"], 2)
	})

	t.Run("category name filter on page two", func(t *testing.T) {
		mockRepo.EXPECT().
			List(gomock.Any(), Query{CategoryName: "fiction", Limit: 10, Offset: 10}).
			Return([]Book{testBook}, 11, nil)

		w := httptest.NewRecorder()
		handler.List(w, testutil.NewRequest(http.MethodGet, "/api/books?page=2&category=fiction", nil))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, float64(11), resp.Body["totalItems"])
		assert.LessOrEqual(t, len(resp.Body["member"].([]any)), 10)
		view := resp.Body["view"].(map[string]any)
		assert.Equal(t, "/api/books?category=fiction&page=1", view["previous"])
	})

	t.Run("reference filters", func(t *testing.T) {
		mockRepo.EXPECT().
			List(gomock.Any(), Query{AuthorID: 3, CategoryID: 4, Limit: 10}).
			Return(nil, 0, nil)

		w := httptest.NewRecorder()
		handler.List(w, testutil.NewRequest(http.MethodGet, "/api/books?author=/api/authors/3&category=4", nil))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, []any{}, resp.Body["member"])
	})

	t.Run("unknown author filter matches nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.List(w, testutil.NewRequest(http.MethodGet, "/api/books?author=nobody", nil))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, float64(0), resp.Body["totalItems"])
	})

	t.Run("error", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, 0, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		handler.List(w, testutil.NewRequest(http.MethodGet, "/api/books", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(testBook, nil)

		w := httptest.NewRecorder()
		handler.Get(w, testutil.WithID(testutil.NewRequest(http.MethodGet, "/api/books/7", nil), 7))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "application/ld+json", resp.Header.Get("Content-Type"))
		assert.Equal(t, "/api/contexts/Book", resp.Body["@context"])
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		handler.Get(w, testutil.WithID(testutil.NewRequest(http.MethodGet, "/api/books/7", nil), 7))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("accepts iri, id and object references", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			assert.Equal(t, "The Dispossessed", b.Name)
			assert.Equal(t, int64(3), b.Author.ID)
			assert.Equal(t, []int64{1, 4}, b.CategoryIDs())
			b.ID = 8
			return nil
		})
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(8)).Return(Book{ID: 8, Name: "The Dispossessed", Author: testBook.Author}, nil)

		body := map[string]any{
			"name":       "The Dispossessed",
			"author":     "/api/authors/3",
			"categories": []any{1, map[string]any{"@id": "/api/categories/4"}, "/api/categories/1"},
		}
		w := httptest.NewRecorder()
		handler.Create(w, testutil.NewRequest(http.MethodPost, "/api/books", body))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusCreated, resp.Code)
		assert.Equal(t, "/api/books/8", resp.Body["@id"])
	})

	t.Run("missing author and name", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Create(w, testutil.NewRequest(http.MethodPost, "/api/books", map[string]any{}))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Len(t, resp.Body["violations"], 2)
	})

	t.Run("unknown author", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ErrUnknownAuthor)

		w := httptest.NewRecorder()
		handler.Create(w, testutil.NewRequest(http.MethodPost, "/api/books", map[string]any{"name": "X", "author": 99}))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		violation := resp.Body["violations"].([]any)[0].(map[string]any)
		assert.Equal(t, "author", violation["propertyPath"])
	})

	t.Run("unsupported media type", func(t *testing.T) {
		r := testutil.NewRequest(http.MethodPost, "/api/books", map[string]any{"name": "X"})
		r.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()
		handler.Create(w, r)

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})
}

func TestHTTPHandler_Patch(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("name only leaves author and categories", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), int64(7), gomock.Any()).DoAndReturn(func(_ context.Context, _ int64, ch Changes) error {
			require.NotNil(t, ch.Name)
			assert.Equal(t, "X", *ch.Name)
			assert.Nil(t, ch.AuthorID)
			assert.Nil(t, ch.Categories)
			return nil
		})
		renamed := testBook
		renamed.Name = "X"
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(renamed, nil)

		w := httptest.NewRecorder()
		handler.Patch(w, testutil.WithID(testutil.NewMergePatchRequest("/api/books/7", map[string]any{"name": "X"}), 7))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "X", resp.Body["name"])
		assert.Len(t, resp.Body["categories"], 2)
	})

	t.Run("categories only sends no name or author", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), int64(7), gomock.Any()).DoAndReturn(func(_ context.Context, _ int64, ch Changes) error {
			assert.Nil(t, ch.Name)
			assert.Nil(t, ch.AuthorID)
			require.NotNil(t, ch.Categories)
			assert.Equal(t, []int64{5}, *ch.Categories)
			return nil
		})
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(testBook, nil)

		w := httptest.NewRecorder()
		handler.Patch(w, testutil.WithID(testutil.NewMergePatchRequest("/api/books/7", `{"categories":["/api/categories/5"]}`), 7))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("null categories clears them", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), int64(7), gomock.Any()).DoAndReturn(func(_ context.Context, _ int64, ch Changes) error {
			require.NotNil(t, ch.Categories)
			assert.Empty(t, *ch.Categories)
			assert.Nil(t, ch.Name)
			return nil
		})
		cleared := testBook
		cleared.Categories = []Ref{}
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(cleared, nil)

		w := httptest.NewRecorder()
		handler.Patch(w, testutil.WithID(testutil.NewMergePatchRequest("/api/books/7", `{"categories":null}`), 7))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, []any{}, resp.Body["categories"])
	})

	t.Run("missing book", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), int64(7), gomock.Any()).Return(ErrNotFound)

		w := httptest.NewRecorder()
		handler.Patch(w, testutil.WithID(testutil.NewMergePatchRequest("/api/books/7", map[string]any{"name": "X"}), 7))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("null author is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Patch(w, testutil.WithID(testutil.NewMergePatchRequest("/api/books/7", `{"author":null}`), 7))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad category reference", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Patch(w, testutil.WithID(testutil.NewMergePatchRequest("/api/books/7", `{"categories":["/api/categories/x"]}`), 7))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		violation := resp.Body["violations"].([]any)[0].(map[string]any)
		assert.Equal(t, "categories[0]", violation["propertyPath"])
	})

	t.Run("wrong content type", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Patch(w, testutil.WithID(testutil.NewRequest(http.MethodPatch, "/api/books/7", map[string]any{"name": "X"}), 7))

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	gomock.InOrder(
		mockRepo.EXPECT().Delete(gomock.Any(), int64(7)).Return(nil),
		mockRepo.EXPECT().Delete(gomock.Any(), int64(7)).Return(ErrNotFound),
	)

	first := httptest.NewRecorder()
	handler.Delete(first, testutil.WithID(testutil.NewRequest(http.MethodDelete, "/api/books/7", nil), 7))
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	handler.Delete(second, testutil.WithID(testutil.NewRequest(http.MethodDelete, "/api/books/7", nil), 7))
	assert.Equal(t, http.StatusNotFound, second.Code)
}
