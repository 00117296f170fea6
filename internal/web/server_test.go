package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pantry-cli/internal/donordir"
	"pantry-cli/internal/store"

	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	srv, err := NewServer(ServerConfig{Dir: dir}, zap.NewNop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, dir
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWeb_DonorLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, "POST", "/api/donors", map[string]string{"name": " Acme Grocery "})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add = %d: %s", rec.Code, rec.Body)
	}

	// Duplicate identity is a validation failure, not a server error.
	rec = doJSON(t, h, "POST", "/api/donors", map[string]string{"name": "ACME GROCERY"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate add = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, "POST", "/api/donors/favorite", map[string]string{"name": "Acme Grocery"})
	if rec.Code != http.StatusOK {
		t.Fatalf("favorite = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, "GET", "/api/donors", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d: %s", rec.Code, rec.Body)
	}
	var listResp struct {
		Data []struct {
			Name     string `json:"name"`
			Favorite bool   `json:"favorite"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listResp.Data) != 1 || listResp.Data[0].Name != "Acme Grocery" || !listResp.Data[0].Favorite {
		t.Fatalf("unexpected list: %+v", listResp.Data)
	}

	rec = doJSON(t, h, "DELETE", "/api/donors/Acme%20Grocery", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete = %d: %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, h, "DELETE", "/api/donors/Acme%20Grocery", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d: %s", rec.Code, rec.Body)
	}
}

func TestWeb_DonationSubmit(t *testing.T) {
	srv, dir := newTestServer(t)
	h := srv.Handler()

	if _, err := (donordir.Directory{Store: store.Store{Dir: dir}}).Add("Acme Grocery"); err != nil {
		t.Fatalf("seed donor: %v", err)
	}

	// Frozen meats without a temperature is rejected.
	rec := doJSON(t, h, "POST", "/api/donations", map[string]any{
		"donor":   "acme grocery",
		"weights": map[string]float64{"Frozen Meats": 2},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing temperature = %d: %s", rec.Code, rec.Body)
	}

	// Unknown donor is rejected.
	rec = doJSON(t, h, "POST", "/api/donations", map[string]any{
		"donor":   "nobody",
		"weights": map[string]float64{"Produce": 1},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown donor = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, "POST", "/api/donations", map[string]any{
		"donor":       "acme grocery",
		"temperature": "28",
		"weights":     map[string]float64{"Frozen Meats": 2, "Produce": 5},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit = %d: %s", rec.Code, rec.Body)
	}
	var subResp struct {
		Data struct {
			ID        string `json:"id"`
			DonorName string `json:"companyName"`
		} `json:"data"`
		ReceiptID string `json:"receiptId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &subResp); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	if subResp.Data.ID == "" || subResp.Data.DonorName != "Acme Grocery" {
		t.Fatalf("unexpected submit response: %+v", subResp)
	}
	if subResp.ReceiptID == "" {
		t.Fatalf("submit should stage a receipt")
	}

	// The staged receipt serves a printable page once.
	req := httptest.NewRequest("GET", "/receipt/"+subResp.ReceiptID, nil)
	pageRec := httptest.NewRecorder()
	h.ServeHTTP(pageRec, req)
	if pageRec.Code != http.StatusOK {
		t.Fatalf("receipt page = %d", pageRec.Code)
	}
	if !strings.Contains(pageRec.Body.String(), "Acme Grocery") {
		t.Fatalf("receipt page missing donor:\n%s", pageRec.Body)
	}

	rec = doJSON(t, h, "DELETE", "/api/donations/"+subResp.Data.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete donation = %d: %s", rec.Code, rec.Body)
	}
}

func TestWeb_ReadOnlyGuard(t *testing.T) {
	dir := t.TempDir()
	srv, err := NewServer(ServerConfig{Dir: dir, ReadOnly: true}, zap.NewNop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	h := srv.Handler()

	rec := doJSON(t, h, "POST", "/api/donors", map[string]string{"name": "Acme"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("read-only add = %d: %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, h, "GET", "/api/donors", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("read-only list = %d: %s", rec.Code, rec.Body)
	}
}

func TestWeb_Prefs(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	pinned := false
	mode := "alphabetical-ascending"
	rec := doJSON(t, h, "POST", "/api/prefs", map[string]any{
		"sortMode":        mode,
		"favoritesPinned": pinned,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set prefs = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Data struct {
			SortMode        string `json:"sortMode"`
			FavoritesPinned bool   `json:"favoritesPinned"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode prefs: %v", err)
	}
	if resp.Data.SortMode != mode || resp.Data.FavoritesPinned {
		t.Fatalf("unexpected prefs: %+v", resp.Data)
	}
}
