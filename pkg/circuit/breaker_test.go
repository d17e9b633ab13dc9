package circuit

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewBreaker(t *testing.T) {
	breaker := NewBreaker("smtp", DefaultConfig(), nil)

	if breaker.State() != StateClosed {
		t.Errorf("Expected initial state CLOSED, got %s", breaker.State().String())
	}

	if breaker.IsOpen() {
		t.Error("Expected breaker to not be open initially")
	}
}

func TestBreaker_TransitionToOpen(t *testing.T) {
	config := Config{
		Threshold:        3,
		Timeout:          1 * time.Second,
		SuccessThreshold: 2,
		MaxHalfOpen:      2,
	}
	breaker := NewBreaker("smtp", config, zap.NewNop())

	for i := 0; i < 3; i++ {
		breaker.Record(errors.New("connection refused"))
	}

	if breaker.State() != StateOpen {
		t.Errorf("Expected state OPEN after %d failures, got %s", config.Threshold, breaker.State().String())
	}

	if err := breaker.Allow(); err != ErrCircuitOpen {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_TransitionToHalfOpen(t *testing.T) {
	config := Config{
		Threshold:        2,
		Timeout:          100 * time.Millisecond,
		SuccessThreshold: 2,
		MaxHalfOpen:      2,
	}
	breaker := NewBreaker("smtp", config, zap.NewNop())

	breaker.Record(errors.New("timeout"))
	breaker.Record(errors.New("timeout"))

	if breaker.State() != StateOpen {
		t.Fatalf("Expected state OPEN, got %s", breaker.State().String())
	}

	time.Sleep(150 * time.Millisecond)

	if err := breaker.Allow(); err != nil {
		t.Errorf("Expected Allow() to succeed after timeout, got %v", err)
	}

	if breaker.State() != StateHalfOpen {
		t.Errorf("Expected state HALF_OPEN, got %s", breaker.State().String())
	}
}

func TestBreaker_TransitionToClosed(t *testing.T) {
	config := Config{
		Threshold:        2,
		Timeout:          50 * time.Millisecond,
		SuccessThreshold: 2,
		MaxHalfOpen:      5,
	}
	breaker := NewBreaker("smtp", config, zap.NewNop())

	breaker.Record(errors.New("timeout"))
	breaker.Record(errors.New("timeout"))

	time.Sleep(60 * time.Millisecond)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("Expected Allow() after timeout, got %v", err)
	}

	breaker.Record(nil)
	breaker.Record(nil)

	if breaker.State() != StateClosed {
		t.Errorf("Expected state CLOSED after successes, got %s", breaker.State().String())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	config := Config{
		Threshold:        1,
		Timeout:          20 * time.Millisecond,
		SuccessThreshold: 2,
		MaxHalfOpen:      2,
	}
	breaker := NewBreaker("smtp", config, zap.NewNop())

	breaker.Record(errors.New("down"))
	time.Sleep(30 * time.Millisecond)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("Expected half-open probe to be allowed, got %v", err)
	}
	breaker.Record(errors.New("still down"))

	if breaker.State() != StateOpen {
		t.Errorf("Expected state OPEN after half-open failure, got %s", breaker.State().String())
	}
}

func TestBreaker_ExecutePassesThroughError(t *testing.T) {
	breaker := NewBreaker("smtp", DefaultConfig(), zap.NewNop())

	sentinel := errors.New("send failed")
	if err := breaker.Execute(func() error { return sentinel }); err != sentinel {
		t.Errorf("Expected Execute to return the callback error, got %v", err)
	}

	if err := breaker.Execute(func() error { return nil }); err != nil {
		t.Errorf("Expected Execute success, got %v", err)
	}
}
