package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Spok95/bakery-ledger/internal/domain/ledger"
)

func newTestServer(t *testing.T) (*httptest.Server, *ledger.Ledger) {
	t.Helper()
	l, err := ledger.Open(context.Background(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(New(l, log).Router())
	t.Cleanup(srv.Close)
	return srv, l
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestMaterialLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/materials",
		map[string]any{"name": "Flour", "unit": "kg", "min_threshold": 10})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create material: status %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/materials/Flour/batches",
		map[string]any{"quantity": 50, "cost_per_unit": 2.0, "purchase_date": "2026-01-01"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add batch: status %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/materials", nil)
	var materials []materialJSON
	decodeBody(t, resp, &materials)
	if len(materials) != 1 || materials[0].TotalQuantity != 50 {
		t.Errorf("materials = %+v", materials)
	}

	// Unknown material 404s, bad quantity 400s.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/materials/Salt/batches",
		map[string]any{"quantity": 1, "cost_per_unit": 1.0})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown material: status %d, want 404", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/materials/Flour/batches",
		map[string]any{"quantity": -1, "cost_per_unit": 1.0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("negative quantity: status %d, want 400", resp.StatusCode)
	}
}

func TestProductionShortageResponse(t *testing.T) {
	srv, l := newTestServer(t)
	ctx := context.Background()

	seed := func(name string, qty float64) {
		if err := l.CreateMaterial(ctx, name, "kg", 0); err != nil {
			t.Fatal(err)
		}
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/materials/"+name+"/batches",
			map[string]any{"quantity": qty, "cost_per_unit": 1.0, "purchase_date": "2026-01-01"})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed %s: status %d", name, resp.StatusCode)
		}
	}
	seed("Flour", 10)
	seed("Sugar", 2)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/recipes",
		map[string]any{"name": "Cake", "batch_size": 1, "ingredients": map[string]float64{"Flour": 5, "Sugar": 3}})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create recipe: status %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/production/Cake", map[string]any{"batches": 1})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("short production: status %d, want 409", resp.StatusCode)
	}
	var body errorResponse
	decodeBody(t, resp, &body)
	if len(body.Shortages) != 1 || body.Shortages[0].Name != "Sugar" || body.Shortages[0].Shortfall != 1 {
		t.Errorf("shortages = %+v", body.Shortages)
	}

	// Stock untouched by the failed run.
	if got, _ := l.TotalQuantity("Flour"); got != 10 {
		t.Errorf("Flour = %g after failed run", got)
	}
}

func TestSellAndDeleteSale(t *testing.T) {
	srv, l := newTestServer(t)
	ctx := context.Background()

	if err := l.CreateMaterial(ctx, "Flour", "kg", 0); err != nil {
		t.Fatal(err)
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/materials/Flour/batches",
		map[string]any{"quantity": 10, "cost_per_unit": 1.0, "purchase_date": "2026-01-01"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatal("seed batch failed")
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/recipes",
		map[string]any{"name": "Bread", "batch_size": 10, "ingredients": map[string]float64{"Flour": 10}})
	if resp.StatusCode != http.StatusCreated {
		t.Fatal("create recipe failed")
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/production/Bread", map[string]any{"batches": 1})
	if resp.StatusCode != http.StatusOK {
		t.Fatal("production failed")
	}
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/products/Bread/price", map[string]any{"price": 3.5})
	if resp.StatusCode != http.StatusOK {
		t.Fatal("set price failed")
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/sales", map[string]any{"product": "Bread", "quantity": 4})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("sell: status %d", resp.StatusCode)
	}
	var sale saleJSON
	decodeBody(t, resp, &sale)
	if sale.Total != 14.0 {
		t.Errorf("sale total = %g, want 14", sale.Total)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/summary", nil)
	var sum summaryJSON
	decodeBody(t, resp, &sum)
	if sum.TotalSales != 1 || sum.TotalRevenue != 14.0 {
		t.Errorf("summary = %+v, want 1 sale totalling 14", sum)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/sales/"+sale.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete sale: status %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/sales/not-a-uuid", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad sale id: status %d, want 400", resp.StatusCode)
	}

	// Stock not restored by record deletion.
	var products []productJSON
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/products", nil)
	decodeBody(t, resp, &products)
	if len(products) != 1 || products[0].Quantity != 6 {
		t.Errorf("products = %+v, want Bread at 6", products)
	}
}

func TestAlertsEndpoint(t *testing.T) {
	srv, l := newTestServer(t)
	ctx := context.Background()
	if err := l.CreateMaterial(ctx, "Yeast", "g", 100); err != nil {
		t.Fatal(err)
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/alerts", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("alerts: status %d", resp.StatusCode)
	}
	var alerts []alertJSON
	decodeBody(t, resp, &alerts)
	if len(alerts) != 1 || alerts[0].Material != "Yeast" || alerts[0].Shortfall != 100 {
		t.Errorf("alerts = %+v", alerts)
	}
}

func TestReportEndpoints(t *testing.T) {
	srv, l := newTestServer(t)
	if err := l.CreateMaterial(context.Background(), "Flour", "kg", 0); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{"/reports/stock.xlsx", "/reports/sales.xlsx"} {
		resp := doJSON(t, http.MethodGet, srv.URL+path, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status %d", path, resp.StatusCode)
			continue
		}
		if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
			t.Errorf("%s: content type %s", path, ct)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil || len(data) == 0 {
			t.Errorf("%s: empty body (err %v)", path, err)
		}
	}
}

func TestLowStockGaugeTracksMaterials(t *testing.T) {
	ctx := context.Background()
	l, err := ledger.Open(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.CreateMaterial(ctx, "Yeast", "g", 100); err != nil {
		t.Fatal(err)
	}

	// The constructor seeds the gauge from loaded state.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(New(l, log).Router())
	t.Cleanup(srv.Close)
	if got := testutil.ToFloat64(lowStockMaterials); got != 1 {
		t.Fatalf("gauge after startup = %g, want 1", got)
	}

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/materials/Yeast", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete material: status %d", resp.StatusCode)
	}
	if got := testutil.ToFloat64(lowStockMaterials); got != 0 {
		t.Errorf("gauge after material deletion = %g, want 0", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/materials", nil)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status %d, want 405", resp.StatusCode)
	}
}
