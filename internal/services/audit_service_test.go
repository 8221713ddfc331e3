package services

import (
	"context"
	"testing"
	"time"

	"guestgate/internal/models"
	"guestgate/internal/testutil"
)

func TestAuditRecord(t *testing.T) {
	t.Run("persists_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		tasks := NewBackgroundTasks(time.Second)
		svc := NewAuditService(db, tasks)

		key := "test-key"
		confirmation := int64(123)
		now := time.Now()
		svc.Record(&models.AuditLog{
			RequestMethod:     "GET",
			RequestPath:       "/api/guests/123",
			RequestTimestamp:  now,
			ResponseStatus:    200,
			ResponseTimestamp: now,
			ClientIP:          "10.0.0.1",
			LicenseKey:        &key,
			ConfirmationNo:    &confirmation,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		testutil.AssertNoError(t, tasks.Wait(ctx))

		var stored models.AuditLog
		if err := db.First(&stored).Error; err != nil {
			t.Fatalf("expected audit row: %v", err)
		}
		if stored.RequestPath != "/api/guests/123" {
			t.Errorf("expected path /api/guests/123, got %s", stored.RequestPath)
		}
		if stored.ConfirmationNo == nil || *stored.ConfirmationNo != 123 {
			t.Errorf("expected confirmation_no 123, got %v", stored.ConfirmationNo)
		}
	})

	t.Run("failure_is_swallowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		tasks := NewBackgroundTasks(time.Second)
		svc := NewAuditService(db, tasks)
		testutil.TeardownTestDB(t, db)

		svc.Record(&models.AuditLog{RequestMethod: "GET", RequestPath: "/health"})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		testutil.AssertNoError(t, tasks.Wait(ctx))
	})
}
