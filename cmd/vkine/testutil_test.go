package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockServer builds an httptest.Server that checks the request before answering.
type mockServer struct {
	t           *testing.T
	handler     http.HandlerFunc
	expectPath  string
	expectMeth  string
	expectQuery url.Values
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	return &mockServer{t: t}
}

func (m *mockServer) ExpectPath(path string) *mockServer {
	m.expectPath = path
	return m
}

func (m *mockServer) ExpectMethod(method string) *mockServer {
	m.expectMeth = method
	return m
}

func (m *mockServer) ExpectGET() *mockServer  { return m.ExpectMethod(http.MethodGet) }
func (m *mockServer) ExpectPOST() *mockServer { return m.ExpectMethod(http.MethodPost) }

// ExpectQuery verifies the full query string.
func (m *mockServer) ExpectQuery(q url.Values) *mockServer {
	m.expectQuery = q
	return m
}

func (m *mockServer) RespondJSON(v any) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(v); err != nil {
			m.t.Errorf("encode response: %v", err)
		}
	}
	return m
}

func (m *mockServer) RespondError(code int, message string) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(message))
	}
	return m
}

// Build creates the server and registers its shutdown with t.Cleanup.
func (m *mockServer) Build() *httptest.Server {
	m.t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.expectPath != "" {
			assert.Equal(m.t, m.expectPath, r.URL.Path, "unexpected request path")
		}
		if m.expectMeth != "" {
			assert.Equal(m.t, m.expectMeth, r.Method, "unexpected request method")
		}
		if m.expectQuery != nil {
			assert.Equal(m.t, m.expectQuery, r.URL.Query(), "unexpected query")
		}
		if m.handler != nil {
			m.handler(w, r)
		}
	}))
	m.t.Cleanup(srv.Close)
	return srv
}
