// Package store defines the domain-store ports. Consumers receive these
// interfaces explicitly; there is no package-level singleton, so the
// aggregation code stays pure and independently testable.
package store

import (
	"context"
	"errors"

	"farmbook/internal/core"
)

var (
	// ErrNotFound is returned when an entity id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrKindImmutable is returned when an update tries to change a
	// transaction's kind, which is fixed at creation.
	ErrKindImmutable = errors.New("transaction kind is fixed at creation")
)

type (
	TransactionStore interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, tx core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	CropStore interface {
		CreateCrop(ctx context.Context, c core.Crop) (core.Crop, error)
		UpdateCrop(ctx context.Context, c core.Crop) error
		DeleteCrop(ctx context.Context, id string) error
		GetCrop(ctx context.Context, id string) (core.Crop, error)
		ListCrops(ctx context.Context) ([]core.Crop, error)
	}

	EquipmentStore interface {
		CreateEquipment(ctx context.Context, e core.Equipment) (core.Equipment, error)
		UpdateEquipment(ctx context.Context, e core.Equipment) error
		DeleteEquipment(ctx context.Context, id string) error
		GetEquipment(ctx context.Context, id string) (core.Equipment, error)
		ListEquipment(ctx context.Context) ([]core.Equipment, error)
		AddMaintenanceLog(ctx context.Context, equipmentID string, l core.MaintenanceLog) (core.MaintenanceLog, error)
		DeleteMaintenanceLog(ctx context.Context, equipmentID, logID string) error
	}

	TodoStore interface {
		CreateTodo(ctx context.Context, t core.Todo) (core.Todo, error)
		ToggleTodo(ctx context.Context, id string) (core.Todo, error)
		DeleteTodo(ctx context.Context, id string) error
		ListTodos(ctx context.Context) ([]core.Todo, error)
	}

	NotificationStore interface {
		AddNotification(ctx context.Context, n core.Notification) (core.Notification, error)
		ListNotifications(ctx context.Context) ([]core.Notification, error)
		MarkNotificationRead(ctx context.Context, id string) error
		MarkNotificationsSeen(ctx context.Context) error
		DeleteNotification(ctx context.Context, id string) error
	}

	SettingsStore interface {
		GetSettings(ctx context.Context) (core.Settings, error)
		UpdateSettings(ctx context.Context, s core.Settings) error
	}
)

// Snapshot is the whole-farm state used by backup and restore.
type Snapshot struct {
	Transactions  []core.Transaction  `json:"transactions"`
	Crops         []core.Crop         `json:"crops"`
	Equipment     []core.Equipment    `json:"equipment"`
	Todos         []core.Todo         `json:"todos"`
	Notifications []core.Notification `json:"notifications"`
	Settings      core.Settings       `json:"settings"`
}

// Store is the unified backend interface assembled by the backend factory.
type Store interface {
	TransactionStore
	CropStore
	EquipmentStore
	TodoStore
	NotificationStore
	SettingsStore

	// Snapshot returns a copy of all collections at call time.
	Snapshot(ctx context.Context) (Snapshot, error)
	// Restore replaces the store contents wholesale.
	Restore(ctx context.Context, s Snapshot) error
}
