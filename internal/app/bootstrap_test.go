package app

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"skill-ledger/internal/config"
	"skill-ledger/internal/ws"
)

func TestListenAddr(t *testing.T) {
	cases := map[string]string{"3001": ":3001", ":8080": ":8080", " 80 ": ":80"}
	for in, want := range cases {
		got, err := ListenAddr(in)
		if err != nil || got != want {
			t.Fatalf("ListenAddr(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ListenAddr("  "); err == nil {
		t.Fatalf("expected error for empty port")
	}
}

func TestNew_RegistersRoutes(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	c := &Container{
		Config: config.Config{App: config.AppConfig{AppName: "test"}},
		Logger: logger,
		Hub:    ws.NewHub(logger),
	}
	a, err := New(c)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/ws/skills", nil))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without topics, got %d", resp.StatusCode)
	}
}
