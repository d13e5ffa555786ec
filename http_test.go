package gobanlist

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleCheck(t *testing.T) {
	s := blockedServer("gdz.ru", "com")

	tests := []struct {
		domain string
		want   bool
	}{
		{"gdz.ru", true},
		{"math.gdz.ru", true},
		{"GDZ.RU.", true},
		{"maps.com", true},
		{"freegdz.ru", false},
		{"gdz.su", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/check?domain="+tt.domain, nil)
		rec := httptest.NewRecorder()
		s.handleCheck(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("check %q: status %d", tt.domain, rec.Code)
		}
		var resp checkResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("check %q: decode: %v", tt.domain, err)
		}
		if resp.Forbidden != tt.want {
			t.Errorf("check %q: forbidden = %v, want %v", tt.domain, resp.Forbidden, tt.want)
		}
	}
}

func TestHandleCheckValidation(t *testing.T) {
	s := blockedServer("gdz.ru")

	rec := httptest.NewRecorder()
	s.handleCheck(rec, httptest.NewRequest(http.MethodGet, "/check", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing domain: status %d, want 400", rec.Code)
	}

	long := strings.Repeat("a", maxQueryNameLen+1)
	rec = httptest.NewRecorder()
	s.handleCheck(rec, httptest.NewRequest(http.MethodGet, "/check?domain="+long, nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized domain: status %d, want 400", rec.Code)
	}
}
