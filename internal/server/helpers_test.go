package server

import (
	"net/http/httptest"
	"testing"
)

func TestPathParam(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		prefix string
		suffix string
		want   string
	}{
		{"with suffix", "/api/portfolio/abc-123/sell", "/api/portfolio/", "/sell", "abc-123"},
		{"no suffix", "/api/portfolio/abc-123", "/api/portfolio/", "", "abc-123"},
		{"trailing segment", "/api/analysis/TCS.NS/chart.png", "/api/analysis/", "/chart.png", "TCS.NS"},
		{"prefix mismatch", "/other/abc", "/api/portfolio/", "", ""},
		{"missing suffix returns rest", "/api/portfolio/abc-123", "/api/portfolio/", "/sell", "abc-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if got := PathParam(req, tt.prefix, tt.suffix); got != tt.want {
				t.Errorf("PathParam(%q, %q, %q) = %q, want %q", tt.path, tt.prefix, tt.suffix, got, tt.want)
			}
		})
	}
}
