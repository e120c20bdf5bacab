// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MaplrCanada/ss-petitions/models"
	"github.com/MaplrCanada/ss-petitions/petition"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientsCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients, got %d", want, h.ClientsCount())
}

func TestBroadcast(t *testing.T) {
	h := New()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()
	defer h.Close()

	c1 := dial(t, srv)
	c2 := dial(t, srv)
	waitForClients(t, h, 2)

	event := models.Event{Type: models.EventPetitionStatusChanged, PetitionID: "p1", Status: petition.StatusApproved}
	if n := h.Broadcast(event); n != 2 {
		t.Errorf("Expected broadcast to reach 2 clients, got %d", n)
	}

	for i, c := range []*websocket.Conn{c1, c2} {
		_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := c.ReadMessage()
		if err != nil {
			t.Fatalf("client %d: read failed: %v", i, err)
		}
		var got models.Event
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("client %d: decode failed: %v", i, err)
		}
		if got != event {
			t.Errorf("client %d: expected %+v, got %+v", i, event, got)
		}
	}
}

func TestBroadcast_NoClients(t *testing.T) {
	h := New()
	if n := h.Broadcast(models.Event{Type: models.EventPetitionCreated}); n != 0 {
		t.Errorf("Expected 0 recipients, got %d", n)
	}
}

func TestDisconnectRemovesClient(t *testing.T) {
	h := New()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	c := dial(t, srv)
	waitForClients(t, h, 1)

	c.Close()
	waitForClients(t, h, 0)
}

func TestClose(t *testing.T) {
	h := New()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	c := dial(t, srv)
	waitForClients(t, h, 1)

	h.Close()
	if h.ClientsCount() != 0 {
		t.Errorf("Expected no clients after Close, got %d", h.ClientsCount())
	}

	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := c.ReadMessage(); err == nil {
		t.Error("Expected read to fail after hub Close")
	}

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Expected dial to fail after Close")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 after Close, got %v", resp)
	}
}
