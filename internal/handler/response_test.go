package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"mina"}`))
	if err := decodeJSON(httptest.NewRecorder(), req, &dst); err != nil {
		t.Fatalf("decodeJSON() error: %v", err)
	}
	if dst.Name != "mina" {
		t.Errorf("Name = %q, want %q", dst.Name, "mina")
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	var dst struct{}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	err := decodeJSON(httptest.NewRecorder(), req, &dst)
	if err == nil {
		t.Fatal("decodeJSON() should reject malformed JSON")
	}
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	// Well-formed JSON past the body cap: without the limit this would
	// decode cleanly and only trip a field-level check much later.
	payload := fmt.Sprintf(`{"name":%q}`, strings.Repeat("a", maxBodyBytes+1))

	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	err := decodeJSON(rec, req, &dst)
	if err == nil {
		t.Fatal("decodeJSON() should reject a body over the size cap")
	}

	w := httptest.NewRecorder()
	writeError(w, err)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	var body ErrorResponse
	if decErr := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&body); decErr != nil {
		t.Fatalf("decoding error body: %v", decErr)
	}
	if body.Detail != "request body too large" {
		t.Errorf("detail = %q, want %q", body.Detail, "request body too large")
	}
}
