package worker

import (
	"context"
	"strings"
	"testing"
	"time"

	"farmbook/internal/core"
	"farmbook/internal/store/memory"
)

func TestScanOnceCreatesNotifications(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	now := time.Date(2024, 4, 20, 8, 0, 0, 0, time.UTC)

	due, _ := s.CreateCrop(ctx, core.Crop{
		Name: "Barley", PlantingDate: core.NewDate(2023, 10, 1),
		EstimatedHarvestDate: core.NewDate(2024, 4, 25), Area: 10, AreaUnit: core.Acres,
	})
	// Outside the horizon, no reminder expected.
	_, _ = s.CreateCrop(ctx, core.Crop{
		Name: "Corn", PlantingDate: core.NewDate(2024, 4, 1),
		EstimatedHarvestDate: core.NewDate(2024, 9, 1), Area: 5, AreaUnit: core.Acres,
	})
	// Already harvested, no reminder expected.
	_, _ = s.CreateCrop(ctx, core.Crop{
		Name: "Rye", PlantingDate: core.NewDate(2023, 9, 1),
		EstimatedHarvestDate: core.NewDate(2024, 4, 22),
		ActualHarvestDate:    core.NewDate(2024, 4, 10),
		Area:                 3, AreaUnit: core.Hectares,
	})

	w := NewReminderWorker(s, nil, 7, time.Hour)

	created, err := w.ScanOnce(ctx, now)
	if err != nil {
		t.Fatalf("ScanOnce: %v", err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}

	list, _ := s.ListNotifications(ctx)
	if len(list) != 1 {
		t.Fatalf("got %d notifications, want 1", len(list))
	}
	n := list[0]
	if !strings.Contains(n.Message, "Barley") || !strings.Contains(n.Message, "2024-04-25") {
		t.Errorf("message = %q", n.Message)
	}
	if n.Link != "/crops/"+due.ID {
		t.Errorf("link = %q, want /crops/%s", n.Link, due.ID)
	}
}

func TestScanOnceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	now := time.Date(2024, 4, 20, 8, 0, 0, 0, time.UTC)

	_, _ = s.CreateCrop(ctx, core.Crop{
		Name: "Barley", PlantingDate: core.NewDate(2023, 10, 1),
		EstimatedHarvestDate: core.NewDate(2024, 4, 25), Area: 10, AreaUnit: core.Acres,
	})

	w := NewReminderWorker(s, nil, 7, time.Hour)

	if created, _ := w.ScanOnce(ctx, now); created != 1 {
		t.Fatalf("first scan created %d, want 1", created)
	}
	if created, _ := w.ScanOnce(ctx, now); created != 0 {
		t.Fatalf("second scan created %d, want 0", created)
	}

	list, _ := s.ListNotifications(ctx)
	if len(list) != 1 {
		t.Fatalf("got %d notifications, want 1", len(list))
	}
}
