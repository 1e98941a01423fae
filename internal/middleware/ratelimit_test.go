// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGlobalRateLimiter(t *testing.T) {
	rl := NewGlobalRateLimiter(1, 2) // 1 rps, burst of 2
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	// The burst is admitted, the next request is rejected
	if code := send("10.0.0.1"); code != http.StatusOK {
		t.Errorf("request 1 status = %d, want 200", code)
	}
	if code := send("10.0.0.1"); code != http.StatusOK {
		t.Errorf("request 2 status = %d, want 200", code)
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("request 3 status = %d, want 429", code)
	}

	// A different client gets its own bucket
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", code)
	}
}

func TestGlobalRateLimiterClear(t *testing.T) {
	rl := NewGlobalRateLimiter(1, 1)
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = fmt.Sprintf("10.0.0.%d:1", i+1)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if cleared := rl.Clear(2); !cleared {
		t.Error("Clear should flush a cache above the size limit")
	}
	if cleared := rl.Clear(100); cleared {
		t.Error("Clear should leave a small cache alone")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		realIP     string
		forwarded  string
		expected   string
	}{
		{"remote addr only", "192.0.2.1:5000", "", "", "192.0.2.1"},
		{"x-real-ip wins", "192.0.2.1:5000", "203.0.113.7", "", "203.0.113.7"},
		{"x-forwarded-for first entry", "192.0.2.1:5000", "", "203.0.113.8, 10.0.0.1", "203.0.113.8"},
		{"real-ip beats forwarded", "192.0.2.1:5000", "203.0.113.7", "203.0.113.8", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			if got := getClientIP(req); got != tt.expected {
				t.Errorf("getClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}
