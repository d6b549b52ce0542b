package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"farmbook/internal/advisory"
	"farmbook/internal/core"
	sheetsmem "farmbook/internal/sheets/memory"
	"farmbook/internal/store/memory"
)

func newTestServer(t *testing.T, deps Deps) *Server {
	t.Helper()
	if deps.Store == nil {
		deps.Store = memory.New()
	}
	s := NewServer(":0", deps)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "203.0.113.10:4711"
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response body: %v (body: %s)", err, rec.Body.String())
	}
	return out
}

func TestTransactionLifecycle(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := doRequest(s, http.MethodPost, "/api/transactions", map[string]any{
		"kind":        "income",
		"amount":      "1250.50",
		"date":        "2026-03-15",
		"description": "Wheat sale",
		"category":    "Crop Sales",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got status %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
	created := decodeBody[core.Transaction](t, rec)
	if created.ID == "" {
		t.Fatal("create: expected a generated id")
	}
	if created.Amount.Cents != 125050 {
		t.Errorf("create: amount = %d cents, want 125050", created.Amount.Cents)
	}

	rec = doRequest(s, http.MethodGet, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: got status %d, want 200", rec.Code)
	}

	// Changing the kind on update must be rejected.
	rec = doRequest(s, http.MethodPut, "/api/transactions/"+created.ID, map[string]any{
		"kind":        "expense",
		"amount":      "1250.50",
		"date":        "2026-03-15",
		"description": "Wheat sale",
		"category":    "Seeds",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("kind change: got status %d, want 409", rec.Code)
	}

	rec = doRequest(s, http.MethodPut, "/api/transactions/"+created.ID, map[string]any{
		"kind":        "income",
		"amount":      "1300.00",
		"date":        "2026-03-16",
		"description": "Wheat sale (corrected)",
		"category":    "Crop Sales",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got status %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	rec = doRequest(s, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: got status %d, want 204", rec.Code)
	}
	rec = doRequest(s, http.MethodGet, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: got status %d, want 404", rec.Code)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestServer(t, Deps{})

	base := map[string]any{
		"kind":        "expense",
		"amount":      "40.00",
		"date":        "2026-03-01",
		"description": "Seed order",
		"category":    "Seeds",
	}

	tests := []struct {
		name     string
		override map[string]any
		want     int
	}{
		{"valid", nil, http.StatusCreated},
		{"bad amount", map[string]any{"amount": "12.3.4"}, http.StatusUnprocessableEntity},
		{"negative amount", map[string]any{"amount": "-5.00"}, http.StatusUnprocessableEntity},
		{"bad date", map[string]any{"date": "03/01/2026"}, http.StatusUnprocessableEntity},
		{"bad kind", map[string]any{"kind": "transfer"}, http.StatusUnprocessableEntity},
		{"empty description", map[string]any{"description": "  "}, http.StatusUnprocessableEntity},
		{"unknown category", map[string]any{"category": "Gambling"}, http.StatusUnprocessableEntity},
		{"income category on expense", map[string]any{"category": "Crop Sales"}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := make(map[string]any, len(base))
			for k, v := range base {
				body[k] = v
			}
			for k, v := range tt.override {
				body[k] = v
			}
			rec := doRequest(s, http.MethodPost, "/api/transactions", body)
			if rec.Code != tt.want {
				t.Errorf("got status %d, want %d (body: %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCropProfitEndpoint(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := doRequest(s, http.MethodPost, "/api/crops", map[string]any{
		"name":                 "Winter Wheat",
		"plantingDate":         "2026-01-10",
		"estimatedHarvestDate": "2026-07-01",
		"area":                 12.5,
		"areaUnit":             "acres",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create crop: got status %d (body: %s)", rec.Code, rec.Body.String())
	}
	crop := decodeBody[cropResponse](t, rec)

	for _, tx := range []map[string]any{
		{"kind": "income", "amount": "900.00", "date": "2026-02-01", "description": "Advance sale", "category": "Crop Sales", "cropId": crop.ID},
		{"kind": "expense", "amount": "250.00", "date": "2026-01-15", "description": "Seed", "category": "Seeds", "cropId": crop.ID},
		{"kind": "expense", "amount": "99.00", "date": "2026-01-20", "description": "Unrelated fuel", "category": "Fuel"},
	} {
		if rec := doRequest(s, http.MethodPost, "/api/transactions", tx); rec.Code != http.StatusCreated {
			t.Fatalf("create transaction: got status %d (body: %s)", rec.Code, rec.Body.String())
		}
	}

	rec = doRequest(s, http.MethodGet, "/api/crops/"+crop.ID+"/profit", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profit: got status %d", rec.Code)
	}
	profit := decodeBody[cropProfitResponse](t, rec)
	if profit.Income.Cents != 90000 {
		t.Errorf("income = %d cents, want 90000", profit.Income.Cents)
	}
	if profit.Expenses.Cents != 25000 {
		t.Errorf("expenses = %d cents, want 25000", profit.Expenses.Cents)
	}
	if profit.Profit.Cents != 65000 {
		t.Errorf("profit = %d cents, want 65000", profit.Profit.Cents)
	}

	rec = doRequest(s, http.MethodGet, "/api/crops/missing/profit", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("profit for missing crop: got status %d, want 404", rec.Code)
	}
}

func TestDashboardReflectsLedger(t *testing.T) {
	s := newTestServer(t, Deps{})

	today := time.Now().UTC().Format("2006-01-02")
	rec := doRequest(s, http.MethodPost, "/api/transactions", map[string]any{
		"kind":        "income",
		"amount":      "500.00",
		"date":        today,
		"description": "Egg sales",
		"category":    "Other Income",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got status %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = doRequest(s, http.MethodGet, "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: got status %d", rec.Code)
	}
	dash := decodeBody[dashboardResponse](t, rec)
	if dash.Month.Income.Cents != 50000 {
		t.Errorf("month income = %d cents, want 50000", dash.Month.Income.Cents)
	}
	if len(dash.MonthlySeries) != defaultSeriesMonths {
		t.Errorf("series length = %d, want %d", len(dash.MonthlySeries), defaultSeriesMonths)
	}
	if dash.Last7Days.Income.Cents != 50000 {
		t.Errorf("last 7 days income = %d cents, want 50000", dash.Last7Days.Income.Cents)
	}

	// A mutation purges the cache; the next read must see the new total.
	rec = doRequest(s, http.MethodPost, "/api/transactions", map[string]any{
		"kind":        "expense",
		"amount":      "120.00",
		"date":        today,
		"description": "Feed",
		"category":    "Other Expenses",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("second create: got status %d", rec.Code)
	}
	rec = doRequest(s, http.MethodGet, "/api/dashboard", nil)
	dash = decodeBody[dashboardResponse](t, rec)
	if dash.Month.Expenses.Cents != 12000 {
		t.Errorf("month expenses after purge = %d cents, want 12000", dash.Month.Expenses.Cents)
	}

	rec = doRequest(s, http.MethodGet, "/api/dashboard?months=99", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("months=99: got status %d, want 400", rec.Code)
	}
}

func TestExportCSVEndpoint(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := doRequest(s, http.MethodPost, "/api/transactions", map[string]any{
		"kind":        "income",
		"amount":      "75.00",
		"date":        "2026-04-02",
		"description": "Honey jars",
		"category":    "Other Income",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got status %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/export/csv?from=2026-01-01&to=2026-12-31", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: got status %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "attachment") {
		t.Errorf("Content-Disposition = %q, want attachment", got)
	}
	body := rec.Body.String()
	for _, section := range []string{"Income Transactions", "Expense Transactions", "Crop Summary", "Equipment Summary"} {
		if !strings.Contains(body, section) {
			t.Errorf("export missing section %q", section)
		}
	}
	if !strings.Contains(body, "Honey jars") {
		t.Error("export missing transaction row")
	}

	rec = doRequest(s, http.MethodGet, "/api/export/csv?from=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad range: got status %d, want 400", rec.Code)
	}
}

func TestExportSheetsEndpoint(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		s := newTestServer(t, Deps{})
		rec := doRequest(s, http.MethodPost, "/api/export/sheets", nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("got status %d, want 503", rec.Code)
		}
	})

	t.Run("configured", func(t *testing.T) {
		writer := sheetsmem.New()
		s := newTestServer(t, Deps{Reports: writer})

		rec := doRequest(s, http.MethodPost, "/api/export/sheets?from=2026-01-01&to=2026-12-31", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("got status %d (body: %s)", rec.Code, rec.Body.String())
		}
		resp := decodeBody[sheetsExportResponse](t, rec)
		if resp.Ref != "mem:1" {
			t.Errorf("ref = %q, want mem:1", resp.Ref)
		}
		reports := writer.Reports()
		if len(reports) != 1 {
			t.Fatalf("captured %d reports, want 1", len(reports))
		}
		if !strings.Contains(reports[0].Title, "2026-01-01") {
			t.Errorf("title = %q, want range in title", reports[0].Title)
		}
	})
}

func TestAdvisoryEndpoint(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		s := newTestServer(t, Deps{})
		rec := doRequest(s, http.MethodPost, "/api/advisory", map[string]any{"question": "When to plant?"})
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("got status %d, want 503", rec.Code)
		}
	})

	t.Run("configured", func(t *testing.T) {
		advisor := &advisory.StaticAdvisor{Answer: "Rotate your fields."}
		s := newTestServer(t, Deps{Advisor: advisor})

		rec := doRequest(s, http.MethodPost, "/api/advisory", map[string]any{"question": "Any advice?"})
		if rec.Code != http.StatusOK {
			t.Fatalf("got status %d (body: %s)", rec.Code, rec.Body.String())
		}
		resp := decodeBody[advisoryResponse](t, rec)
		if resp.Answer != "Rotate your fields." {
			t.Errorf("answer = %q", resp.Answer)
		}
		if advisor.LastQuestion != "Any advice?" {
			t.Errorf("question passed through = %q", advisor.LastQuestion)
		}
		if !strings.Contains(advisor.LastBriefing, "My Farm") {
			t.Errorf("briefing missing farm name: %q", advisor.LastBriefing)
		}
	})

	t.Run("empty question", func(t *testing.T) {
		s := newTestServer(t, Deps{Advisor: &advisory.StaticAdvisor{Answer: "x"}})
		rec := doRequest(s, http.MethodPost, "/api/advisory", map[string]any{"question": "   "})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("got status %d, want 422", rec.Code)
		}
	})
}

func TestBackupAndRestoreRoundTrip(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := doRequest(s, http.MethodPost, "/api/todos", map[string]any{"task": "Fix fence"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create todo: got status %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/backup", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("backup: got status %d", rec.Code)
	}
	snapshot := rec.Body.Bytes()

	// Restore into a fresh server and verify the todo came across.
	s2 := newTestServer(t, Deps{})
	req := httptest.NewRequest(http.MethodPost, "/api/restore", bytes.NewReader(snapshot))
	req.RemoteAddr = "203.0.113.10:4711"
	restoreRec := httptest.NewRecorder()
	s2.Server.Handler.ServeHTTP(restoreRec, req)
	if restoreRec.Code != http.StatusNoContent {
		t.Fatalf("restore: got status %d (body: %s)", restoreRec.Code, restoreRec.Body.String())
	}

	rec = doRequest(s2, http.MethodGet, "/api/todos", nil)
	todos := decodeBody[[]core.Todo](t, rec)
	if len(todos) != 1 || todos[0].Task != "Fix fence" {
		t.Errorf("restored todos = %+v, want one task %q", todos, "Fix fence")
	}

	rec = doRequest(s2, http.MethodPost, "/api/restore", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("restore with empty body: got status %d, want 422", rec.Code)
	}
}

func TestSettingsUpdate(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := doRequest(s, http.MethodGet, "/api/settings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get settings: got status %d", rec.Code)
	}
	settings := decodeBody[core.Settings](t, rec)
	if settings.Currency != "USD" {
		t.Errorf("default currency = %q, want USD", settings.Currency)
	}

	settings.FarmName = "Hilltop Acres"
	settings.Currency = "eur"
	rec = doRequest(s, http.MethodPut, "/api/settings", settings)
	if rec.Code != http.StatusOK {
		t.Fatalf("update settings: got status %d (body: %s)", rec.Code, rec.Body.String())
	}
	updated := decodeBody[core.Settings](t, rec)
	if updated.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR (normalized)", updated.Currency)
	}

	settings.Currency = "EURO"
	rec = doRequest(s, http.MethodPut, "/api/settings", settings)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad currency: got status %d, want 422", rec.Code)
	}
}

func TestEquipmentMaintenanceFlow(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := doRequest(s, http.MethodPost, "/api/equipment", map[string]any{
		"name":         "Tractor",
		"purchaseDate": "2024-05-01",
		"model":        "MF 5S",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create equipment: got status %d (body: %s)", rec.Code, rec.Body.String())
	}
	eq := decodeBody[equipmentResponse](t, rec)

	for i, log := range []map[string]any{
		{"date": "2026-01-10", "description": "Oil change", "cost": "85.00"},
		{"date": "2026-03-20", "description": "New tires", "cost": "420.00"},
	} {
		rec = doRequest(s, http.MethodPost, "/api/equipment/"+eq.ID+"/logs", log)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add log %d: got status %d (body: %s)", i, rec.Code, rec.Body.String())
		}
	}

	rec = doRequest(s, http.MethodGet, "/api/equipment/"+eq.ID, nil)
	got := decodeBody[equipmentResponse](t, rec)
	if got.MaintenanceCost.Cents != 50500 {
		t.Errorf("maintenance cost = %d cents, want 50500", got.MaintenanceCost.Cents)
	}
	if got.LastMaintenance == nil || got.LastMaintenance.Description != "New tires" {
		t.Errorf("last maintenance = %+v, want the March log", got.LastMaintenance)
	}

	logID := got.LastMaintenance.ID
	rec = doRequest(s, http.MethodDelete, fmt.Sprintf("/api/equipment/%s/logs/%s", eq.ID, logID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete log: got status %d", rec.Code)
	}
	rec = doRequest(s, http.MethodGet, "/api/equipment/"+eq.ID, nil)
	got = decodeBody[equipmentResponse](t, rec)
	if got.MaintenanceCost.Cents != 8500 {
		t.Errorf("maintenance cost after delete = %d cents, want 8500", got.MaintenanceCost.Cents)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, Deps{})

	rec := doRequest(s, http.MethodPatch, "/api/transactions", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("got status %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, POST" {
		t.Errorf("Allow = %q, want %q", allow, "GET, POST")
	}
}
