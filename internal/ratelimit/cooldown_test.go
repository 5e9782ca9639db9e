package ratelimit

import (
	"testing"
	"time"

	"github.com/points-league/backend/internal/models"
)

func TestCooldown_NoHistory(t *testing.T) {
	if _, active := Cooldown(nil, time.Now().UTC()); active {
		t.Fatalf("expected no cooldown without prior attempts")
	}
}

func TestCooldown_AfterSuccess(t *testing.T) {
	now := time.Now().UTC()
	last := &models.History{Result: models.ResultSuccess, Timestamp: now.Add(-time.Minute)}

	remaining, active := Cooldown(last, now)
	if !active {
		t.Fatalf("expected cooldown one minute after a success")
	}
	if want := SuccessCooldown - time.Minute; remaining != want {
		t.Fatalf("expected %v remaining, got %v", want, remaining)
	}

	expired := &models.History{Result: models.ResultSuccess, Timestamp: now.Add(-SuccessCooldown)}
	if _, active := Cooldown(expired, now); active {
		t.Fatalf("expected cooldown expired at exactly the window edge")
	}
}

func TestCooldown_AfterFailure(t *testing.T) {
	now := time.Now().UTC()
	last := &models.History{Result: models.ResultFailure, Timestamp: now.Add(-10 * time.Second)}

	remaining, active := Cooldown(last, now)
	if !active {
		t.Fatalf("expected cooldown ten seconds after a failure")
	}
	if want := FailureCooldown - 10*time.Second; remaining != want {
		t.Fatalf("expected %v remaining, got %v", want, remaining)
	}

	expired := &models.History{Result: models.ResultFailure, Timestamp: now.Add(-31 * time.Second)}
	if _, active := Cooldown(expired, now); active {
		t.Fatalf("expected failure cooldown expired after 31s")
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Now().UTC()
	if got := WindowStart(now); !got.Equal(now.Add(-BruteForceWindow)) {
		t.Fatalf("expected window start %v, got %v", now.Add(-BruteForceWindow), got)
	}
}

func TestExceeded(t *testing.T) {
	if Exceeded(BruteForceLimit - 1) {
		t.Fatalf("expected %d failures below the gate", BruteForceLimit-1)
	}
	if !Exceeded(BruteForceLimit) {
		t.Fatalf("expected %d failures to trip the gate", BruteForceLimit)
	}
}
