package jsonapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	return body
}

func TestWriteDocument(t *testing.T) {
	w := httptest.NewRecorder()
	WriteResource(w, http.StatusOK, NewResource("customers", "1").Attributes(account{Name: "Jane"}).Build())

	if w.Header().Get("Content-Type") != ContentType {
		t.Errorf("Content-Type = %v, want %v", w.Header().Get("Content-Type"), ContentType)
	}
	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	data := decode(t, w)["data"].(map[string]any)
	attrs := data["attributes"].(map[string]any)
	if attrs["name"] != "Jane" {
		t.Errorf("attributes = %v", attrs)
	}
}

func TestWriteCreated(t *testing.T) {
	w := httptest.NewRecorder()
	WriteCreated(w, Resource{Type: "customers", ID: "1"}, "/customers/1")

	if w.Code != http.StatusCreated {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusCreated)
	}
	if w.Header().Get("Location") != "/customers/1" {
		t.Errorf("Location = %q", w.Header().Get("Location"))
	}
}

func TestWriteCollection(t *testing.T) {
	w := httptest.NewRecorder()
	WriteCollection(w, []Resource{{Type: "customers", ID: "1"}}, NewPagination(10, 0, 1, "/customers"))

	body := decode(t, w)
	if n := len(body["data"].([]any)); n != 1 {
		t.Errorf("data = %d items, want 1", n)
	}
	if body["meta"].(map[string]any)["count"] != float64(1) {
		t.Errorf("meta = %v", body["meta"])
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		errs       []Error
		wantStatus int
	}{
		{"uses first status", []Error{ErrRejected("a", "", "x"), ErrRejected("b", "", "y")}, http.StatusUnprocessableEntity},
		{"no errors", nil, http.StatusInternalServerError},
		{"non numeric status", []Error{{Status: "bad"}}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.errs...)
			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}
			if _, ok := decode(t, w)["errors"]; !ok {
				t.Error("body has no errors member")
			}
		})
	}
}

func TestWriteMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	WriteMethodNotAllowed(w, "DELETE", []string{"GET", "POST"})

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
	if w.Header().Get("Allow") != "GET, POST" {
		t.Errorf("Allow = %q, want %q", w.Header().Get("Allow"), "GET, POST")
	}
}

func TestWriteConvenience(t *testing.T) {
	tests := []struct {
		name  string
		write func(http.ResponseWriter)
		want  int
	}{
		{"bad request", func(w http.ResponseWriter) { WriteBadRequest(w, "x") }, http.StatusBadRequest},
		{"not found", func(w http.ResponseWriter) { WriteNotFound(w, "customer", "1") }, http.StatusNotFound},
		{"internal", WriteInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)
			if w.Code != tt.want {
				t.Errorf("Status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
