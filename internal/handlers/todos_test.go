package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/services/recommend"
)

// newTodoProxy wires a proxy handler against a fake upstream and returns
// a router ready to serve requests.
func newTodoProxy(t *testing.T, upstream http.HandlerFunc) *mux.Router {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client := recommend.NewClient(srv.URL, zap.NewNop())
	h := NewTodoProxyHandler(client, zap.NewNop())

	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/todos").Subrouter())
	return r
}

func TestTodoProxyList(t *testing.T) {
	t.Parallel()

	router := newTodoProxy(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/todos/uncompletion/7" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"task":"buy milk","discription":"fresh","link":"https://shop.example/milk","userId":7}]`))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/todos?userId=7&type=uncompletion", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"discription":"fresh"`) {
		t.Errorf("response should keep the upstream discription spelling, got %s", body)
	}
	if !strings.Contains(body, `"task":"buy milk"`) {
		t.Errorf("response missing task, got %s", body)
	}
}

func TestTodoProxyListValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing userId", "?type=uncompletion", http.StatusBadRequest},
		{"bad type", "?userId=7&type=done", http.StatusBadRequest},
		{"missing type", "?userId=7", http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTodoProxy(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("upstream should not be called")
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/todos"+tt.query, nil))

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("expected {error} body, got %s", rec.Body.String())
			}
		})
	}
}

func TestTodoProxyRecommendStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		upstreamCode int
		want         int
	}{
		{"unintelligible maps to 400", http.StatusBadRequest, http.StatusBadRequest},
		{"no results maps to 404", http.StatusNotFound, http.StatusNotFound},
		{"other failures map to 500", http.StatusBadGateway, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTodoProxy(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.upstreamCode)
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/todos?userId=7&userInput=uniform", nil))

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestTodoProxyRecommendWinsOverType(t *testing.T) {
	t.Parallel()

	router := newTodoProxy(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/todos/recommend") {
			t.Errorf("expected recommend path, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"task":"buy a mat","description":"yoga mat","link":"https://shop.example/mat","category":"fitness","price":20000}`))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/todos?userId=7&type=uncompletion&userInput=mat", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"link":"https://shop.example/mat"`) {
		t.Errorf("expected recommendation body, got %s", rec.Body.String())
	}
}

func TestTodoProxyComplete(t *testing.T) {
	t.Parallel()

	router := newTodoProxy(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/todos/check/3" {
			t.Errorf("unexpected upstream call %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":3,"task":"buy milk","userId":7}`))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PATCH", "/api/todos?id=3", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestTodoProxyCompleteMissingID(t *testing.T) {
	t.Parallel()

	router := newTodoProxy(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream should not be called")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PATCH", "/api/todos", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTodoProxyPost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		wantPath     string
		upstreamBody string
	}{
		{
			name:         "add forwards to todos",
			body:         `{"action":"add","task":"buy milk","link":"https://shop.example/milk","discription":"fresh","userId":7}`,
			wantPath:     "/api/todos",
			upstreamBody: `{"id":12,"task":"buy milk","userId":7}`,
		},
		{
			name:         "non-add body is an exclusion",
			body:         `{"userId":7,"category":"dairy","link":"https://shop.example/milk"}`,
			wantPath:     "/api/todos/exclude",
			upstreamBody: `{"excluded":true}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotPath string
			router := newTodoProxy(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.upstreamBody))
			})

			req := httptest.NewRequest("POST", "/api/todos", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
			}
			if gotPath != tt.wantPath {
				t.Errorf("upstream path = %s, want %s", gotPath, tt.wantPath)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.upstreamBody {
				t.Errorf("body = %s, want the upstream payload %s", got, tt.upstreamBody)
			}
		})
	}
}

func TestTodoProxyPostEmptyUpstreamBody(t *testing.T) {
	t.Parallel()

	router := newTodoProxy(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/api/todos", strings.NewReader(`{"action":"add","task":"buy milk","userId":7}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204 when the upstream sends no body", rec.Code)
	}
}

func TestTodoProxyPostValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing userId", `{"action":"add","task":"buy milk"}`},
		{"add without task", `{"action":"add","userId":7}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTodoProxy(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("upstream should not be called")
			})

			req := httptest.NewRequest("POST", "/api/todos", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
