package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"igmonitor/internal/config"

	"go.uber.org/zap"
)

func TestKindOf(t *testing.T) {
	err := NewError(KindLoginWall, "alice", fmt.Errorf("redirect"))

	kind, ok := KindOf(err)
	if !ok || kind != KindLoginWall {
		t.Errorf("KindOf() = %v, %v", kind, ok)
	}

	// Вид должен извлекаться и через обертки
	wrapped := fmt.Errorf("resolve failed: %w", err)
	if !IsKind(wrapped, KindLoginWall) {
		t.Error("IsKind() should see through wrapping")
	}

	if _, ok := KindOf(fmt.Errorf("plain error")); ok {
		t.Error("KindOf() should return false for non-scraper errors")
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNotFound, "not_found"},
		{KindRestricted, "restricted"},
		{KindLoginWall, "login_wall"},
		{KindTransport, "transport"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestWithRetry_Permanent(t *testing.T) {
	logger := zap.NewNop()
	cfg := config.RetryConfig{
		MaxRetries:        3,
		InitialDelay:      time.Millisecond,
		MaxDelay:          10 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}

	calls := 0
	inner := fmt.Errorf("not found")
	err := WithRetry(context.Background(), logger, cfg, func() error {
		calls++
		return Permanent(inner)
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (permanent errors are not retried)", calls)
	}
	if !errors.Is(err, inner) {
		t.Errorf("error = %v, want the inner error", err)
	}
}

func TestWithRetry_EventualSuccess(t *testing.T) {
	logger := zap.NewNop()
	cfg := config.RetryConfig{
		MaxRetries:        3,
		InitialDelay:      time.Millisecond,
		MaxDelay:          10 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}

	calls := 0
	err := WithRetry(context.Background(), logger, cfg, func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("WithRetry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetry_Exhausted(t *testing.T) {
	logger := zap.NewNop()
	cfg := config.RetryConfig{
		MaxRetries:        2,
		InitialDelay:      time.Millisecond,
		MaxDelay:          10 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}

	calls := 0
	err := WithRetry(context.Background(), logger, cfg, func() error {
		calls++
		return fmt.Errorf("transient")
	})

	if err == nil {
		t.Error("WithRetry() should fail after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestClassifyVisitError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   Kind
	}{
		{"редирект на логин", fmt.Errorf("visit: %w", errLoginRedirect), 0, KindLoginWall},
		{"404", fmt.Errorf("Not Found"), 404, KindNotFound},
		{"400", fmt.Errorf("Bad Request"), 400, KindNotFound},
		{"403", fmt.Errorf("Forbidden"), 403, KindRestricted},
		{"таймаут", fmt.Errorf("timeout"), 0, KindTransport},
		{"500", fmt.Errorf("Internal Server Error"), 500, KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyVisitError(tt.err, tt.status); got != tt.want {
				t.Errorf("classifyVisitError() = %v, want %v", got, tt.want)
			}
		})
	}
}
