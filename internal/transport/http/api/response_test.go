package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFailWithDetailsRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	FailWithDetails(rec, http.StatusBadRequest, "validation_error", "payload validation failed", map[string]any{"fields": []string{"email"}}, "req-1")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	env, err := Decode(rec.Body.Bytes(), nil)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if env.Success || env.Error == nil || env.Error.Code != "validation_error" || env.RequestID != "req-1" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestDecodeData(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"token": "abc"}, "")

	var out struct {
		Token string `json:"token"`
	}
	env, err := Decode(rec.Body.Bytes(), &out)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !env.Success || out.Token != "abc" {
		t.Fatalf("unexpected envelope %+v %+v", env, out)
	}
}
