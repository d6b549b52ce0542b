// Package storage implements the domain store on SQLite. It is the opt-in
// alternative to the in-memory backend; the schema is managed by embedded
// migrations.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"farmbook/internal/core"
	"farmbook/internal/store"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.ensureSettings(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ensureSettings(ctx context.Context) error {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM settings").Scan(&n); err != nil {
		return fmt.Errorf("count settings: %w", err)
	}
	if n > 0 {
		return nil
	}
	return r.UpdateSettings(ctx, core.DefaultSettings())
}

func dateOrEmpty(d core.Date) string {
	return d.String()
}

func parseStoredDate(s string) core.Date {
	if s == "" {
		return core.Date{}
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}
	}
	return d
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, kind, amount_cents, date, description, category, crop_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, string(tx.Kind), tx.Amount.Cents, dateOrEmpty(tx.Date), tx.Description, tx.Category, tx.CropID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID, "kind", tx.Kind, "amount_cents", tx.Amount.Cents, "category", tx.Category)
	return tx, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	cur, err := r.GetTransaction(ctx, tx.ID)
	if err != nil {
		return err
	}
	if cur.Kind != tx.Kind {
		return store.ErrKindImmutable
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET amount_cents = ?, date = ?, description = ?, category = ?, crop_id = ?
		 WHERE id = ?`,
		tx.Amount.Cents, dateOrEmpty(tx.Date), tx.Description, tx.Category, tx.CropID, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, kind, amount_cents, date, description, category, crop_id FROM transactions WHERE id = ?", id)
	return scanTransaction(row)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, kind, amount_cents, date, description, category, crop_id FROM transactions ORDER BY date, id")
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var kind, date string
	err := row.Scan(&tx.ID, &kind, &tx.Amount.Cents, &date, &tx.Description, &tx.Category, &tx.CropID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.Kind = core.TransactionKind(kind)
	tx.Date = parseStoredDate(date)
	return tx, nil
}

func (r *SQLiteRepository) CreateCrop(ctx context.Context, c core.Crop) (core.Crop, error) {
	if err := c.Validate(); err != nil {
		return core.Crop{}, err
	}
	c.Normalize()
	c.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO crops (id, name, planting_date, estimated_harvest_date, actual_harvest_date,
		                    area, area_unit, yield_amount, yield_unit, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, dateOrEmpty(c.PlantingDate), dateOrEmpty(c.EstimatedHarvestDate),
		dateOrEmpty(c.ActualHarvestDate), c.Area, string(c.AreaUnit), c.YieldAmount, c.YieldUnit, c.Notes)
	if err != nil {
		return core.Crop{}, fmt.Errorf("insert crop: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCrop(ctx context.Context, c core.Crop) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.Normalize()
	res, err := r.db.ExecContext(ctx,
		`UPDATE crops SET name = ?, planting_date = ?, estimated_harvest_date = ?, actual_harvest_date = ?,
		                  area = ?, area_unit = ?, yield_amount = ?, yield_unit = ?, notes = ?
		 WHERE id = ?`,
		c.Name, dateOrEmpty(c.PlantingDate), dateOrEmpty(c.EstimatedHarvestDate), dateOrEmpty(c.ActualHarvestDate),
		c.Area, string(c.AreaUnit), c.YieldAmount, c.YieldUnit, c.Notes, c.ID)
	if err != nil {
		return fmt.Errorf("update crop: %w", err)
	}
	return rowsAffected(res)
}

// DeleteCrop keeps linked transactions untouched; their crop_id simply stops
// resolving.
func (r *SQLiteRepository) DeleteCrop(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM crops WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete crop: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) GetCrop(ctx context.Context, id string) (core.Crop, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, planting_date, estimated_harvest_date, actual_harvest_date,
		        area, area_unit, yield_amount, yield_unit, notes
		 FROM crops WHERE id = ?`, id)
	return scanCrop(row)
}

func (r *SQLiteRepository) ListCrops(ctx context.Context) ([]core.Crop, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, planting_date, estimated_harvest_date, actual_harvest_date,
		        area, area_unit, yield_amount, yield_unit, notes
		 FROM crops ORDER BY planting_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}
	defer rows.Close()

	var out []core.Crop
	for rows.Next() {
		c, err := scanCrop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCrop(row rowScanner) (core.Crop, error) {
	var c core.Crop
	var planting, estimated, actual, unit string
	err := row.Scan(&c.ID, &c.Name, &planting, &estimated, &actual,
		&c.Area, &unit, &c.YieldAmount, &c.YieldUnit, &c.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Crop{}, store.ErrNotFound
	}
	if err != nil {
		return core.Crop{}, fmt.Errorf("scan crop: %w", err)
	}
	c.PlantingDate = parseStoredDate(planting)
	c.EstimatedHarvestDate = parseStoredDate(estimated)
	c.ActualHarvestDate = parseStoredDate(actual)
	c.AreaUnit = core.AreaUnit(unit)
	return c, nil
}

func (r *SQLiteRepository) CreateEquipment(ctx context.Context, e core.Equipment) (core.Equipment, error) {
	if err := e.Validate(); err != nil {
		return core.Equipment{}, err
	}
	e.ID = uuid.NewString()
	e.MaintenanceLogs = nil
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO equipment (id, name, purchase_date, model, notes) VALUES (?, ?, ?, ?, ?)",
		e.ID, e.Name, dateOrEmpty(e.PurchaseDate), e.Model, e.Notes)
	if err != nil {
		return core.Equipment{}, fmt.Errorf("insert equipment: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) UpdateEquipment(ctx context.Context, e core.Equipment) error {
	if err := e.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE equipment SET name = ?, purchase_date = ?, model = ?, notes = ? WHERE id = ?",
		e.Name, dateOrEmpty(e.PurchaseDate), e.Model, e.Notes, e.ID)
	if err != nil {
		return fmt.Errorf("update equipment: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) DeleteEquipment(ctx context.Context, id string) error {
	// Logs go with the equipment (ON DELETE CASCADE).
	res, err := r.db.ExecContext(ctx, "DELETE FROM equipment WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) GetEquipment(ctx context.Context, id string) (core.Equipment, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, purchase_date, model, notes FROM equipment WHERE id = ?", id)
	var e core.Equipment
	var purchase string
	err := row.Scan(&e.ID, &e.Name, &purchase, &e.Model, &e.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Equipment{}, store.ErrNotFound
	}
	if err != nil {
		return core.Equipment{}, fmt.Errorf("scan equipment: %w", err)
	}
	e.PurchaseDate = parseStoredDate(purchase)
	logs, err := r.listLogs(ctx, e.ID)
	if err != nil {
		return core.Equipment{}, err
	}
	e.MaintenanceLogs = logs
	return e, nil
}

func (r *SQLiteRepository) ListEquipment(ctx context.Context) ([]core.Equipment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, purchase_date, model, notes FROM equipment ORDER BY purchase_date, id")
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var out []core.Equipment
	for rows.Next() {
		var e core.Equipment
		var purchase string
		if err := rows.Scan(&e.ID, &e.Name, &purchase, &e.Model, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		e.PurchaseDate = parseStoredDate(purchase)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		logs, err := r.listLogs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].MaintenanceLogs = logs
	}
	return out, nil
}

func (r *SQLiteRepository) listLogs(ctx context.Context, equipmentID string) ([]core.MaintenanceLog, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, date, description, cost_cents FROM maintenance_logs WHERE equipment_id = ? ORDER BY date, id",
		equipmentID)
	if err != nil {
		return nil, fmt.Errorf("list maintenance logs: %w", err)
	}
	defer rows.Close()

	var out []core.MaintenanceLog
	for rows.Next() {
		var l core.MaintenanceLog
		var date string
		if err := rows.Scan(&l.ID, &date, &l.Description, &l.Cost.Cents); err != nil {
			return nil, fmt.Errorf("scan maintenance log: %w", err)
		}
		l.Date = parseStoredDate(date)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddMaintenanceLog(ctx context.Context, equipmentID string, l core.MaintenanceLog) (core.MaintenanceLog, error) {
	if err := l.Validate(); err != nil {
		return core.MaintenanceLog{}, err
	}
	if _, err := r.GetEquipment(ctx, equipmentID); err != nil {
		return core.MaintenanceLog{}, err
	}
	l.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO maintenance_logs (id, equipment_id, date, description, cost_cents) VALUES (?, ?, ?, ?, ?)",
		l.ID, equipmentID, dateOrEmpty(l.Date), l.Description, l.Cost.Cents)
	if err != nil {
		return core.MaintenanceLog{}, fmt.Errorf("insert maintenance log: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) DeleteMaintenanceLog(ctx context.Context, equipmentID, logID string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM maintenance_logs WHERE id = ? AND equipment_id = ?", logID, equipmentID)
	if err != nil {
		return fmt.Errorf("delete maintenance log: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) CreateTodo(ctx context.Context, t core.Todo) (core.Todo, error) {
	if err := t.Validate(); err != nil {
		return core.Todo{}, err
	}
	t.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO todos (id, task, completed) VALUES (?, ?, ?)", t.ID, t.Task, boolToInt(t.Completed))
	if err != nil {
		return core.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ToggleTodo(ctx context.Context, id string) (core.Todo, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE todos SET completed = NOT completed WHERE id = ?", id)
	if err != nil {
		return core.Todo{}, fmt.Errorf("toggle todo: %w", err)
	}
	if err := rowsAffected(res); err != nil {
		return core.Todo{}, err
	}
	row := r.db.QueryRowContext(ctx, "SELECT id, task, completed FROM todos WHERE id = ?", id)
	var t core.Todo
	var completed int
	if err := row.Scan(&t.ID, &t.Task, &completed); err != nil {
		return core.Todo{}, fmt.Errorf("scan todo: %w", err)
	}
	t.Completed = completed != 0
	return t, nil
}

func (r *SQLiteRepository) DeleteTodo(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) ListTodos(ctx context.Context) ([]core.Todo, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, task, completed FROM todos ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var out []core.Todo
	for rows.Next() {
		var t core.Todo
		var completed int
		if err := rows.Scan(&t.ID, &t.Task, &completed); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		t.Completed = completed != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddNotification(ctx context.Context, n core.Notification) (core.Notification, error) {
	n.ID = uuid.NewString()
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications (id, message, timestamp, read, seen, link) VALUES (?, ?, ?, ?, ?, ?)",
		n.ID, n.Message, n.Timestamp.Format(time.RFC3339), boolToInt(n.Read), boolToInt(n.Seen), n.Link)
	if err != nil {
		return core.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) ListNotifications(ctx context.Context) ([]core.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, message, timestamp, read, seen, link FROM notifications ORDER BY timestamp DESC")
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []core.Notification
	for rows.Next() {
		var n core.Notification
		var ts string
		var read, seen int
		if err := rows.Scan(&n.ID, &n.Message, &ts, &read, &seen, &n.Link); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Timestamp, _ = time.Parse(time.RFC3339, ts)
		n.Read = read != 0
		n.Seen = seen != 0
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE notifications SET read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) MarkNotificationsSeen(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE notifications SET seen = 1"); err != nil {
		return fmt.Errorf("mark notifications seen: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteNotification(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) GetSettings(ctx context.Context) (core.Settings, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT farm_name, currency, income_categories, expense_categories FROM settings WHERE id = 1")
	var s core.Settings
	var income, expense string
	err := row.Scan(&s.FarmName, &s.Currency, &income, &expense)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("scan settings: %w", err)
	}
	if err := json.Unmarshal([]byte(income), &s.IncomeCategories); err != nil {
		return core.Settings{}, fmt.Errorf("decode income categories: %w", err)
	}
	if err := json.Unmarshal([]byte(expense), &s.ExpenseCategories); err != nil {
		return core.Settings{}, fmt.Errorf("decode expense categories: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) UpdateSettings(ctx context.Context, s core.Settings) error {
	income, err := json.Marshal(s.IncomeCategories)
	if err != nil {
		return fmt.Errorf("encode income categories: %w", err)
	}
	expense, err := json.Marshal(s.ExpenseCategories)
	if err != nil {
		return fmt.Errorf("encode expense categories: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO settings (id, farm_name, currency, income_categories, expense_categories)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET farm_name = excluded.farm_name, currency = excluded.currency,
		     income_categories = excluded.income_categories, expense_categories = excluded.expense_categories`,
		s.FarmName, s.Currency, string(income), string(expense))
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Snapshot(ctx context.Context) (store.Snapshot, error) {
	var snap store.Snapshot
	var err error
	if snap.Transactions, err = r.ListTransactions(ctx); err != nil {
		return store.Snapshot{}, err
	}
	if snap.Crops, err = r.ListCrops(ctx); err != nil {
		return store.Snapshot{}, err
	}
	if snap.Equipment, err = r.ListEquipment(ctx); err != nil {
		return store.Snapshot{}, err
	}
	if snap.Todos, err = r.ListTodos(ctx); err != nil {
		return store.Snapshot{}, err
	}
	if snap.Notifications, err = r.ListNotifications(ctx); err != nil {
		return store.Snapshot{}, err
	}
	if snap.Settings, err = r.GetSettings(ctx); err != nil {
		return store.Snapshot{}, err
	}
	return snap, nil
}

func (r *SQLiteRepository) Restore(ctx context.Context, snap store.Snapshot) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin restore: %w", err)
	}
	defer dbTx.Rollback()

	for _, table := range []string{"maintenance_logs", "equipment", "transactions", "crops", "todos", "notifications"} {
		if _, err := dbTx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, t := range snap.Transactions {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO transactions (id, kind, amount_cents, date, description, category, crop_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, string(t.Kind), t.Amount.Cents, dateOrEmpty(t.Date), t.Description, t.Category, t.CropID); err != nil {
			return fmt.Errorf("restore transaction: %w", err)
		}
	}
	for _, c := range snap.Crops {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO crops (id, name, planting_date, estimated_harvest_date, actual_harvest_date,
			                    area, area_unit, yield_amount, yield_unit, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, dateOrEmpty(c.PlantingDate), dateOrEmpty(c.EstimatedHarvestDate),
			dateOrEmpty(c.ActualHarvestDate), c.Area, string(c.AreaUnit), c.YieldAmount, c.YieldUnit, c.Notes); err != nil {
			return fmt.Errorf("restore crop: %w", err)
		}
	}
	for _, e := range snap.Equipment {
		if _, err := dbTx.ExecContext(ctx,
			"INSERT INTO equipment (id, name, purchase_date, model, notes) VALUES (?, ?, ?, ?, ?)",
			e.ID, e.Name, dateOrEmpty(e.PurchaseDate), e.Model, e.Notes); err != nil {
			return fmt.Errorf("restore equipment: %w", err)
		}
		for _, l := range e.MaintenanceLogs {
			if _, err := dbTx.ExecContext(ctx,
				"INSERT INTO maintenance_logs (id, equipment_id, date, description, cost_cents) VALUES (?, ?, ?, ?, ?)",
				l.ID, e.ID, dateOrEmpty(l.Date), l.Description, l.Cost.Cents); err != nil {
				return fmt.Errorf("restore maintenance log: %w", err)
			}
		}
	}
	for _, t := range snap.Todos {
		if _, err := dbTx.ExecContext(ctx,
			"INSERT INTO todos (id, task, completed) VALUES (?, ?, ?)", t.ID, t.Task, boolToInt(t.Completed)); err != nil {
			return fmt.Errorf("restore todo: %w", err)
		}
	}
	for _, n := range snap.Notifications {
		if _, err := dbTx.ExecContext(ctx,
			"INSERT INTO notifications (id, message, timestamp, read, seen, link) VALUES (?, ?, ?, ?, ?, ?)",
			n.ID, n.Message, n.Timestamp.Format(time.RFC3339), boolToInt(n.Read), boolToInt(n.Seen), n.Link); err != nil {
			return fmt.Errorf("restore notification: %w", err)
		}
	}

	if snap.Settings.Currency != "" {
		income, _ := json.Marshal(snap.Settings.IncomeCategories)
		expense, _ := json.Marshal(snap.Settings.ExpenseCategories)
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO settings (id, farm_name, currency, income_categories, expense_categories)
			 VALUES (1, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET farm_name = excluded.farm_name, currency = excluded.currency,
			     income_categories = excluded.income_categories, expense_categories = excluded.expense_categories`,
			snap.Settings.FarmName, snap.Settings.Currency, string(income), string(expense)); err != nil {
			return fmt.Errorf("restore settings: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit restore: %w", err)
	}
	slog.InfoContext(ctx, "Backup restored",
		"transactions", len(snap.Transactions), "crops", len(snap.Crops),
		"equipment", len(snap.Equipment), "todos", len(snap.Todos))
	return nil
}

func rowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
