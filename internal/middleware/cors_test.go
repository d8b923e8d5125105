package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(origins []string, method, origin string) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	req := httptest.NewRequest(method, "/api/widgets/x/receipts", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	CORS(origins)(next).ServeHTTP(rec, req)
	return rec
}

func TestCORSExplicitOrigin(t *testing.T) {
	rec := serve([]string{"https://shop.example"}, http.MethodGet, "https://shop.example")

	if rec.Header().Get("Access-Control-Allow-Origin") != "https://shop.example" {
		t.Fatal("expected origin to be echoed")
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("explicit origins may send credentials")
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected request to reach next handler, got %d", rec.Code)
	}
}

func TestCORSWildcardWithoutCredentials(t *testing.T) {
	rec := serve([]string{"*"}, http.MethodGet, "https://any.example")

	if rec.Header().Get("Access-Control-Allow-Origin") != "https://any.example" {
		t.Fatal("wildcard must allow the origin")
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Fatal("wildcard must not allow credentials")
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	rec := serve([]string{"https://shop.example"}, http.MethodGet, "https://evil.example")
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unknown origin must not be allowed")
	}
}

func TestCORSPreflight(t *testing.T) {
	rec := serve([]string{"*"}, http.MethodOptions, "https://any.example")
	if rec.Code != http.StatusOK {
		t.Fatalf("preflight must short-circuit with 200, got %d", rec.Code)
	}
}
