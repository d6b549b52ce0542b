package backup

import (
	"context"
	"testing"

	"farmbook/internal/core"
	"farmbook/internal/store/memory"
)

func TestWriteAndRestore(t *testing.T) {
	ctx := context.Background()
	src := memory.New()

	_, _ = src.CreateTransaction(ctx, core.Transaction{
		Kind: core.Income, Amount: core.Money{Cents: 100000},
		Date: core.NewDate(2024, 3, 1), Description: "grain sale", Category: "Crop Sales",
	})
	crop, _ := src.CreateCrop(ctx, core.Crop{
		Name: "Wheat", PlantingDate: core.NewDate(2023, 10, 1),
		EstimatedHarvestDate: core.NewDate(2024, 7, 1), Area: 12, AreaUnit: core.Acres,
	})
	_, _ = src.CreateTodo(ctx, core.Todo{Task: "fix fence"})

	dir := t.TempDir()
	path, err := NewManager(src, dir).Write(ctx)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	dst := memory.New()
	if err := NewManager(dst, dir).Restore(ctx, path); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	txs, _ := dst.ListTransactions(ctx)
	if len(txs) != 1 || txs[0].Amount.Cents != 100000 {
		t.Fatalf("transactions not restored: %+v", txs)
	}
	got, err := dst.GetCrop(ctx, crop.ID)
	if err != nil || got.Name != "Wheat" {
		t.Fatalf("crop not restored: %+v err=%v", got, err)
	}
	todos, _ := dst.ListTodos(ctx)
	if len(todos) != 1 {
		t.Fatalf("todos not restored: %+v", todos)
	}
	settings, _ := dst.GetSettings(ctx)
	if settings.Currency != "USD" {
		t.Fatalf("settings lost: %+v", settings)
	}
}

func TestRestoreMissingFile(t *testing.T) {
	m := NewManager(memory.New(), t.TempDir())
	if err := m.Restore(context.Background(), "/does/not/exist.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}
