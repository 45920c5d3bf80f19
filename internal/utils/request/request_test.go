package request

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		payload string
		wantErr error
		want    string
	}{
		{"valid", `{"name":"ada"}`, nil, "ada"},
		{"empty", ``, ErrEmptyBody, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			var got body
			err := DecodeJSON(httptest.NewRecorder(), r, &got)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DecodeJSON() error = %v, want %v", err, tt.wantErr)
			}
			if got.Name != tt.want {
				t.Errorf("Name = %q, want %q", got.Name, tt.want)
			}
		})
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	var dst map[string]any
	err := DecodeJSON(httptest.NewRecorder(), r, &dst)
	if err == nil || errors.Is(err, ErrEmptyBody) {
		t.Errorf("expected a syntax error, got %v", err)
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	big := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	var dst map[string]any
	if err := DecodeJSON(httptest.NewRecorder(), r, &dst); err == nil {
		t.Error("expected an error for an oversized body")
	}
}
