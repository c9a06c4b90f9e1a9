package balance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBitcoinBalanceFundedMinusSpent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chain_stats":{"funded_txo_sum":150000,"spent_txo_sum":50000}}`))
	}))
	defer srv.Close()

	c := New("", 0).WithBitcoinAPIBase(srv.URL)
	bal, err := c.BitcoinBalance(context.Background(), "anyaddress")
	if err != nil {
		t.Fatalf("BitcoinBalance: %v", err)
	}
	if bal.Int64() != 100000 {
		t.Errorf("balance = %s, want 100000", bal)
	}
}

func TestBitcoinBalanceNon200IsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New("", 0).WithBitcoinAPIBase(srv.URL)
	bal, err := c.BitcoinBalance(context.Background(), "anyaddress")
	if err != nil {
		t.Fatalf("BitcoinBalance should never return an error, got %v", err)
	}
	if bal.Sign() != 0 {
		t.Errorf("expected zero balance on a non-200 response, got %s", bal)
	}
}

func TestBitcoinBalanceMalformedJSONIsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New("", 0).WithBitcoinAPIBase(srv.URL)
	bal, err := c.BitcoinBalance(context.Background(), "anyaddress")
	if err != nil {
		t.Fatalf("BitcoinBalance should never return an error, got %v", err)
	}
	if bal.Sign() != 0 {
		t.Errorf("expected zero balance on malformed JSON, got %s", bal)
	}
}

func TestBitcoinBalanceUnreachableHostIsZero(t *testing.T) {
	c := New("", 0).WithBitcoinAPIBase("http://127.0.0.1:1")
	bal, err := c.BitcoinBalance(context.Background(), "anyaddress")
	if err != nil {
		t.Fatalf("BitcoinBalance should never return an error, got %v", err)
	}
	if bal.Sign() != 0 {
		t.Errorf("expected zero balance when unreachable, got %s", bal)
	}
}

func TestThrottleSpacesCalls(t *testing.T) {
	c := New("", 20*time.Millisecond)
	start := time.Now()
	c.throttle("host")
	c.throttle("host")
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("throttle did not wait, elapsed = %s", elapsed)
	}
}

func TestThrottleDisabledWhenZero(t *testing.T) {
	c := New("", 0)
	start := time.Now()
	c.throttle("host")
	c.throttle("host")
	if elapsed := time.Since(start); elapsed > 5*time.Millisecond {
		t.Errorf("throttle with zero interval should not wait, elapsed = %s", elapsed)
	}
}
