package proxy

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestPool_Rotation(t *testing.T) {
	pool := NewPool([]string{"p1", " ", "p2", "p3"})

	if pool.Len() != 3 {
		t.Fatalf("Expected 3 proxies, got %d", pool.Len())
	}

	for _, want := range []string{"p1", "p2", "p3", "p1"} {
		if p := pool.GetNext(); p != want {
			t.Errorf("Expected %s, got %s", want, p)
		}
	}

	pool.MarkFailed("p2")

	// Rotation is at p2, which is cooling down
	if p := pool.GetNext(); p != "p3" {
		t.Errorf("Expected p3 (skipping p2), got %s", p)
	}
	if p := pool.GetNext(); p != "p1" {
		t.Errorf("Expected p1, got %s", p)
	}
	if p := pool.GetNext(); p != "p3" {
		t.Errorf("Expected p3 (skipping p2), got %s", p)
	}

	pool.MarkHealthy("p2")
	pool.GetNext() // p1
	if p := pool.GetNext(); p != "p2" {
		t.Errorf("Expected p2 after recovery, got %s", p)
	}
}

func TestPool_CooldownExpires(t *testing.T) {
	now := time.Now()
	pool := NewPool([]string{"p1", "p2"})
	pool.now = func() time.Time { return now }

	pool.MarkFailed("p1")
	if p := pool.GetNext(); p != "p2" {
		t.Errorf("Expected p2, got %s", p)
	}

	now = now.Add(DefaultCooldown + time.Second)
	if p := pool.GetNext(); p != "p1" {
		t.Errorf("Expected p1 after cooldown, got %s", p)
	}
}

func TestPool_AllFailed(t *testing.T) {
	pool := NewPool([]string{"p1", "p2"})
	pool.MarkFailed("p1")
	pool.MarkFailed("p2")

	if p := pool.GetNext(); p == "" {
		t.Error("Expected a proxy even when all are cooling down")
	}
}

func TestPool_Empty(t *testing.T) {
	var nilPool *Pool
	if p := nilPool.GetNext(); p != "" {
		t.Errorf("Expected direct connection from nil pool, got %s", p)
	}
	if p := NewPool(nil).GetNext(); p != "" {
		t.Errorf("Expected direct connection from empty pool, got %s", p)
	}
}

func TestFromRequest(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://example.com/", nil)
	if u, err := FromRequest(req); err != nil || u != nil {
		t.Errorf("Expected no proxy, got %v, %v", u, err)
	}

	req = req.WithContext(WithProxy(context.Background(), "10.0.0.1:8080"))
	u, err := FromRequest(req)
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	if u.String() != "http://10.0.0.1:8080" {
		t.Errorf("Expected http://10.0.0.1:8080, got %s", u)
	}
}
