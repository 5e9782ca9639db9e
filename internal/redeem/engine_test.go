package redeem

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/points-league/backend/internal/models"
	"github.com/points-league/backend/internal/ratelimit"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.AutoMigrate(&models.User{}, &models.Code{}, &models.History{}, &models.Season{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return db
}

func seedSeason(t *testing.T, db *gorm.DB) {
	t.Helper()
	season := models.Season{StartDate: time.Now().UTC(), Status: models.SeasonActive}
	if errCreate := db.Create(&season).Error; errCreate != nil {
		t.Fatalf("seed season: %v", errCreate)
	}
}

func seedUser(t *testing.T, db *gorm.DB, id int64, name string) {
	t.Helper()
	user := models.User{ID: id, DisplayName: name, CreatedAt: time.Now().UTC()}
	if errCreate := db.Create(&user).Error; errCreate != nil {
		t.Fatalf("seed user: %v", errCreate)
	}
}

func seedCode(t *testing.T, db *gorm.DB, code string, points int) {
	t.Helper()
	row := models.Code{Code: code, Points: points, CreatedAt: time.Now().UTC()}
	if errCreate := db.Create(&row).Error; errCreate != nil {
		t.Fatalf("seed code: %v", errCreate)
	}
}

func historyCount(t *testing.T, db *gorm.DB, userID int64) int64 {
	t.Helper()
	var count int64
	if errCount := db.Model(&models.History{}).
		Where("user_id = ? AND action = ?", userID, models.ActionCodeEntry).
		Count(&count).Error; errCount != nil {
		t.Fatalf("count history: %v", errCount)
	}
	return count
}

func TestRedeem_AcceptThenReplay(t *testing.T) {
	db := openTestDB(t)
	seedSeason(t, db)
	seedUser(t, db, 100, "alice")
	seedCode(t, db, "X1", 2)

	engine := NewEngine(db)
	ctx := context.Background()

	out, errRedeem := engine.Redeem(ctx, 100, "X1")
	if errRedeem != nil {
		t.Fatalf("redeem: %v", errRedeem)
	}
	if !out.Success || out.Reason != models.ReasonCodeAccepted {
		t.Fatalf("expected acceptance, got %+v", out)
	}
	if out.PointsAwarded != 2 || out.NewTotal != 2 {
		t.Fatalf("expected 2 points awarded and total 2, got %+v", out)
	}

	// Replay by another user is code_used, not invalid_code.
	seedUser(t, db, 200, "bob")
	out, errRedeem = engine.Redeem(ctx, 200, "X1")
	if errRedeem != nil {
		t.Fatalf("redeem replay: %v", errRedeem)
	}
	if out.Success || out.Reason != models.ReasonCodeUsed {
		t.Fatalf("expected code_used, got %+v", out)
	}

	out, errRedeem = engine.Redeem(ctx, 200, "NOPE")
	if errRedeem != nil {
		t.Fatalf("redeem unknown: %v", errRedeem)
	}
	if out.Success || out.Reason != models.ReasonInvalidCode {
		t.Fatalf("expected invalid_code, got %+v", out)
	}

	if got := historyCount(t, db, 100); got != 1 {
		t.Fatalf("expected 1 audit row for user 100, got %d", got)
	}
	if got := historyCount(t, db, 200); got != 2 {
		t.Fatalf("expected 2 audit rows for user 200, got %d", got)
	}
}

func TestRedeem_UnregisteredUser(t *testing.T) {
	db := openTestDB(t)
	seedSeason(t, db)
	seedCode(t, db, "X1", 1)

	out, errRedeem := NewEngine(db).Redeem(context.Background(), 42, "X1")
	if errRedeem != nil {
		t.Fatalf("redeem: %v", errRedeem)
	}
	if out.Success || out.Reason != models.ReasonNotRegistered {
		t.Fatalf("expected not_registered, got %+v", out)
	}

	// The rejection is still audited, and the code stays unused.
	if got := historyCount(t, db, 42); got != 1 {
		t.Fatalf("expected 1 audit row, got %d", got)
	}
	var code models.Code
	if errFind := db.Where("code = ?", "X1").First(&code).Error; errFind != nil {
		t.Fatalf("load code: %v", errFind)
	}
	if code.IsUsed {
		t.Fatalf("expected code untouched by rejected attempt")
	}
}

func TestRedeem_NoActiveSeason(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, 100, "alice")
	seedCode(t, db, "X1", 1)

	out, errRedeem := NewEngine(db).Redeem(context.Background(), 100, "X1")
	if errRedeem != nil {
		t.Fatalf("redeem: %v", errRedeem)
	}
	if out.Success || out.Reason != models.ReasonNoActiveSeason {
		t.Fatalf("expected no_active_season, got %+v", out)
	}
}

func TestRedeem_CooldownAfterFailure(t *testing.T) {
	db := openTestDB(t)
	seedSeason(t, db)
	seedUser(t, db, 100, "alice")
	seedCode(t, db, "X1", 1)

	engine := NewEngine(db)
	ctx := context.Background()

	if _, errRedeem := engine.Redeem(ctx, 100, "WRONG"); errRedeem != nil {
		t.Fatalf("redeem: %v", errRedeem)
	}

	out, errRedeem := engine.Redeem(ctx, 100, "X1")
	if errRedeem != nil {
		t.Fatalf("redeem: %v", errRedeem)
	}
	if out.Success || out.Reason != models.ReasonCooldown {
		t.Fatalf("expected cooldown, got %+v", out)
	}
	if out.RetryAfter <= 0 || out.RetryAfter > ratelimit.FailureCooldown {
		t.Fatalf("expected retry-after within (0, %v], got %v", ratelimit.FailureCooldown, out.RetryAfter)
	}
}

func TestRedeem_CooldownAfterSuccess(t *testing.T) {
	db := openTestDB(t)
	seedSeason(t, db)
	seedUser(t, db, 100, "alice")
	seedCode(t, db, "X1", 1)
	seedCode(t, db, "X2", 2)

	engine := NewEngine(db)
	ctx := context.Background()

	out, errRedeem := engine.Redeem(ctx, 100, "X1")
	if errRedeem != nil || !out.Success {
		t.Fatalf("expected acceptance, got %+v err=%v", out, errRedeem)
	}

	out, errRedeem = engine.Redeem(ctx, 100, "X2")
	if errRedeem != nil {
		t.Fatalf("redeem: %v", errRedeem)
	}
	if out.Success || out.Reason != models.ReasonCooldown {
		t.Fatalf("expected success cooldown to block the second code, got %+v", out)
	}
	if out.RetryAfter <= ratelimit.FailureCooldown {
		t.Fatalf("expected long success cooldown, got %v", out.RetryAfter)
	}
}

func TestRedeem_BruteForceGate(t *testing.T) {
	db := openTestDB(t)
	seedSeason(t, db)
	seedUser(t, db, 100, "alice")
	seedCode(t, db, "X1", 1)

	// Five failures inside the trailing minute, the newest long enough ago
	// that the failure cooldown has lapsed.
	now := time.Now().UTC()
	userID := int64(100)
	for i := 0; i < ratelimit.BruteForceLimit; i++ {
		bad := "BAD"
		row := models.History{
			UserID:    &userID,
			Code:      &bad,
			Timestamp: now.Add(-55 * time.Second).Add(time.Duration(i) * 5 * time.Second),
			Result:    models.ResultFailure,
			Reason:    models.ReasonInvalidCode,
			Action:    models.ActionCodeEntry,
		}
		if errCreate := db.Create(&row).Error; errCreate != nil {
			t.Fatalf("seed failure: %v", errCreate)
		}
	}

	out, errRedeem := NewEngine(db).Redeem(context.Background(), 100, "X1")
	if errRedeem != nil {
		t.Fatalf("redeem: %v", errRedeem)
	}
	if out.Success || out.Reason != models.ReasonBruteForce {
		t.Fatalf("expected bruteforce_limit even with a valid code, got %+v", out)
	}

	var code models.Code
	if errFind := db.Where("code = ?", "X1").First(&code).Error; errFind != nil {
		t.Fatalf("load code: %v", errFind)
	}
	if code.IsUsed {
		t.Fatalf("expected gated attempt to leave the code unused")
	}
}

func TestRedeem_ConcurrentSingleConsumption(t *testing.T) {
	db := openTestDB(t)
	seedSeason(t, db)
	seedCode(t, db, "X1", 1)

	userIDs := []int64{1, 2, 3, 4, 5}
	for _, id := range userIDs {
		seedUser(t, db, id, "user")
	}

	engine := NewEngine(db)
	outcomes := make([]Outcome, len(userIDs))
	var wg sync.WaitGroup
	for idx, id := range userIDs {
		wg.Add(1)
		go func(idx int, id int64) {
			defer wg.Done()
			out, errRedeem := engine.Redeem(context.Background(), id, "X1")
			if errRedeem != nil {
				t.Errorf("redeem user %d: %v", id, errRedeem)
				return
			}
			outcomes[idx] = out
		}(idx, id)
	}
	wg.Wait()

	successes := 0
	for _, out := range outcomes {
		if out.Success {
			successes++
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one acceptance, got %d", successes)
	}
}
