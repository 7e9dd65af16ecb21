package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstrumentHandler_LabelsByRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(InstrumentHandler)
	router.HandleFunc("/api/books/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/books/{id}", "404"))

	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/"+id, nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/books/{id}", "404"))
	assert.Equal(t, float64(2), after-before)
}

func TestRecordRegistration(t *testing.T) {
	before := testutil.ToFloat64(registrations.WithLabelValues("conflict"))
	RecordRegistration("conflict")
	assert.Equal(t, float64(1), testutil.ToFloat64(registrations.WithLabelValues("conflict"))-before)
}

func TestHandler_ExposesRegistry(t *testing.T) {
	RecordRegistration("created")

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "bookcatalog_registrations_total"))
}
