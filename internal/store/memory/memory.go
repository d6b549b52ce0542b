// Package memory implements the default in-memory domain store. Data lives
// for the duration of the process; backup/restore is the only way in or out.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"farmbook/internal/core"
	"farmbook/internal/store"
)

type Store struct {
	mu            sync.Mutex
	transactions  []core.Transaction
	crops         []core.Crop
	equipment     []core.Equipment
	todos         []core.Todo
	notifications []core.Notification
	settings      core.Settings
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{settings: core.DefaultSettings()}
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, tx)
	return tx, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.transactions {
		if cur.ID == tx.ID {
			if cur.Kind != tx.Kind {
				return store.ErrKindImmutable
			}
			s.transactions[i] = tx
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.transactions {
		if cur.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.transactions {
		if cur.ID == id {
			return cur, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...), nil
}

func (s *Store) CreateCrop(_ context.Context, c core.Crop) (core.Crop, error) {
	if err := c.Validate(); err != nil {
		return core.Crop{}, err
	}
	c.Normalize()
	c.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crops = append(s.crops, c)
	return c, nil
}

func (s *Store) UpdateCrop(_ context.Context, c core.Crop) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.crops {
		if cur.ID == c.ID {
			s.crops[i] = c
			return nil
		}
	}
	return store.ErrNotFound
}

// DeleteCrop removes the crop only. Transactions linked to it keep their
// CropID; the dangling reference is tolerated and rendered as unlinked.
func (s *Store) DeleteCrop(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.crops {
		if cur.ID == id {
			s.crops = append(s.crops[:i], s.crops[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) GetCrop(_ context.Context, id string) (core.Crop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.crops {
		if cur.ID == id {
			return cur, nil
		}
	}
	return core.Crop{}, store.ErrNotFound
}

func (s *Store) ListCrops(_ context.Context) ([]core.Crop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Crop(nil), s.crops...), nil
}

func (s *Store) CreateEquipment(_ context.Context, e core.Equipment) (core.Equipment, error) {
	if err := e.Validate(); err != nil {
		return core.Equipment{}, err
	}
	e.ID = uuid.NewString()
	e.MaintenanceLogs = nil
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipment = append(s.equipment, e)
	return e, nil
}

func (s *Store) UpdateEquipment(_ context.Context, e core.Equipment) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.equipment {
		if cur.ID == e.ID {
			// Logs are owned by the equipment and managed via their own
			// operations; updates never replace them.
			e.MaintenanceLogs = cur.MaintenanceLogs
			s.equipment[i] = e
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteEquipment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.equipment {
		if cur.ID == id {
			s.equipment = append(s.equipment[:i], s.equipment[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) GetEquipment(_ context.Context, id string) (core.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.equipment {
		if cur.ID == id {
			return copyEquipment(cur), nil
		}
	}
	return core.Equipment{}, store.ErrNotFound
}

func (s *Store) ListEquipment(_ context.Context) ([]core.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Equipment, len(s.equipment))
	for i, e := range s.equipment {
		out[i] = copyEquipment(e)
	}
	return out, nil
}

func (s *Store) AddMaintenanceLog(_ context.Context, equipmentID string, l core.MaintenanceLog) (core.MaintenanceLog, error) {
	if err := l.Validate(); err != nil {
		return core.MaintenanceLog{}, err
	}
	l.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.equipment {
		if cur.ID == equipmentID {
			s.equipment[i].MaintenanceLogs = append(s.equipment[i].MaintenanceLogs, l)
			return l, nil
		}
	}
	return core.MaintenanceLog{}, store.ErrNotFound
}

func (s *Store) DeleteMaintenanceLog(_ context.Context, equipmentID, logID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.equipment {
		if cur.ID != equipmentID {
			continue
		}
		for j, l := range cur.MaintenanceLogs {
			if l.ID == logID {
				s.equipment[i].MaintenanceLogs = append(cur.MaintenanceLogs[:j], cur.MaintenanceLogs[j+1:]...)
				return nil
			}
		}
		return store.ErrNotFound
	}
	return store.ErrNotFound
}

func (s *Store) CreateTodo(_ context.Context, t core.Todo) (core.Todo, error) {
	if err := t.Validate(); err != nil {
		return core.Todo{}, err
	}
	t.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = append(s.todos, t)
	return t, nil
}

func (s *Store) ToggleTodo(_ context.Context, id string) (core.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.todos {
		if cur.ID == id {
			s.todos[i].Completed = !cur.Completed
			return s.todos[i], nil
		}
	}
	return core.Todo{}, store.ErrNotFound
}

func (s *Store) DeleteTodo(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.todos {
		if cur.ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListTodos(_ context.Context) ([]core.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Todo(nil), s.todos...), nil
}

func (s *Store) AddNotification(_ context.Context, n core.Notification) (core.Notification, error) {
	n.ID = uuid.NewString()
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	return n, nil
}

func (s *Store) ListNotifications(_ context.Context) ([]core.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Notification(nil), s.notifications...), nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.notifications {
		if cur.ID == id {
			s.notifications[i].Read = true
			return nil
		}
	}
	return store.ErrNotFound
}

// MarkNotificationsSeen flags every notification as having appeared in the
// panel. Seen and read stay independent.
func (s *Store) MarkNotificationsSeen(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		s.notifications[i].Seen = true
	}
	return nil
}

func (s *Store) DeleteNotification(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.notifications {
		if cur.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) GetSettings(_ context.Context) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySettings(s.settings), nil
}

func (s *Store) UpdateSettings(_ context.Context, settings core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = copySettings(settings)
	return nil
}

func (s *Store) Snapshot(_ context.Context) (store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := store.Snapshot{
		Transactions:  append([]core.Transaction(nil), s.transactions...),
		Crops:         append([]core.Crop(nil), s.crops...),
		Todos:         append([]core.Todo(nil), s.todos...),
		Notifications: append([]core.Notification(nil), s.notifications...),
		Settings:      copySettings(s.settings),
	}
	snap.Equipment = make([]core.Equipment, len(s.equipment))
	for i, e := range s.equipment {
		snap.Equipment[i] = copyEquipment(e)
	}
	return snap, nil
}

func (s *Store) Restore(_ context.Context, snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append([]core.Transaction(nil), snap.Transactions...)
	s.crops = append([]core.Crop(nil), snap.Crops...)
	s.todos = append([]core.Todo(nil), snap.Todos...)
	s.notifications = append([]core.Notification(nil), snap.Notifications...)
	s.equipment = make([]core.Equipment, len(snap.Equipment))
	for i, e := range snap.Equipment {
		s.equipment[i] = copyEquipment(e)
	}
	if snap.Settings.Currency != "" {
		s.settings = copySettings(snap.Settings)
	}
	return nil
}

func copyEquipment(e core.Equipment) core.Equipment {
	out := e
	out.MaintenanceLogs = append([]core.MaintenanceLog(nil), e.MaintenanceLogs...)
	return out
}

func copySettings(s core.Settings) core.Settings {
	out := s
	out.IncomeCategories = append([]string(nil), s.IncomeCategories...)
	out.ExpenseCategories = append([]string(nil), s.ExpenseCategories...)
	return out
}
