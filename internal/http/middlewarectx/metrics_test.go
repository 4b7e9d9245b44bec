package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/auth-service/internal/http/middlewarectx"
)

type observation struct {
	method, route, status string
}

type recordingObserver struct {
	mu  sync.Mutex
	got []observation
}

func (o *recordingObserver) ObserveRequest(method, route, status string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.got = append(o.got, observation{method, route, status})
}

func TestMetrics(t *testing.T) {
	obs := &recordingObserver{}
	r := chi.NewRouter()
	r.Use(middlewarectx.Metrics(obs))
	r.Get("/users/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/users/42", "/ok", "/missing"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, obs.got, 3)
	assert.Equal(t, observation{"GET", "/users/{id}", "418"}, obs.got[0])
	assert.Equal(t, observation{"GET", "/ok", "200"}, obs.got[1])
	assert.Equal(t, "404", obs.got[2].status)
}
