package codes

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/points-league/backend/internal/models"
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
	if errMigrate := db.AutoMigrate(&models.Code{}, &models.History{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return db
}

func TestAdd_ValidatesPoints(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, points := range []int{0, 3, -1} {
		if _, errAdd := svc.Add(ctx, "X1", points); !errors.Is(errAdd, ErrInvalidPoints) {
			t.Fatalf("expected ErrInvalidPoints for %d, got %v", points, errAdd)
		}
	}

	created, errAdd := svc.Add(ctx, "X1", 2)
	if errAdd != nil {
		t.Fatalf("add: %v", errAdd)
	}
	if !created {
		t.Fatalf("expected code created")
	}
}

func TestAdd_DuplicateReportsFalse(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	if _, errAdd := svc.Add(ctx, "X1", 1); errAdd != nil {
		t.Fatalf("add: %v", errAdd)
	}
	created, errAdd := svc.Add(ctx, "X1", 2)
	if errAdd != nil {
		t.Fatalf("add duplicate: %v", errAdd)
	}
	if created {
		t.Fatalf("expected duplicate add to report false")
	}

	// The original points value survives the duplicate attempt.
	var code models.Code
	if errFind := db.Where("code = ?", "X1").First(&code).Error; errFind != nil {
		t.Fatalf("load code: %v", errFind)
	}
	if code.Points != 1 {
		t.Fatalf("expected points 1, got %d", code.Points)
	}
}

func TestDelete(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	if _, errAdd := svc.Add(ctx, "X1", 1); errAdd != nil {
		t.Fatalf("add: %v", errAdd)
	}

	deleted, errDelete := svc.Delete(ctx, "X1")
	if errDelete != nil {
		t.Fatalf("delete: %v", errDelete)
	}
	if !deleted {
		t.Fatalf("expected deletion to apply")
	}

	deleted, errDelete = svc.Delete(ctx, "X1")
	if errDelete != nil {
		t.Fatalf("delete again: %v", errDelete)
	}
	if deleted {
		t.Fatalf("expected second deletion to report false")
	}
}

func TestList_UnusedFilter(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	if _, errAdd := svc.Add(ctx, "X1", 1); errAdd != nil {
		t.Fatalf("add: %v", errAdd)
	}
	if _, errAdd := svc.Add(ctx, "X2", 2); errAdd != nil {
		t.Fatalf("add: %v", errAdd)
	}
	if errUpdate := db.Model(&models.Code{}).Where("code = ?", "X1").Update("is_used", true).Error; errUpdate != nil {
		t.Fatalf("mark used: %v", errUpdate)
	}

	all, errAll := svc.List(ctx, false)
	if errAll != nil {
		t.Fatalf("list all: %v", errAll)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 codes, got %d", len(all))
	}

	unused, errUnused := svc.List(ctx, true)
	if errUnused != nil {
		t.Fatalf("list unused: %v", errUnused)
	}
	if len(unused) != 1 || unused[0].Code != "X2" {
		t.Fatalf("expected only X2 unused, got %+v", unused)
	}
}
