package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/repair-configurator/pkg/application/dto"
	"github.com/vsinha/repair-configurator/pkg/application/services"
	testhelpers "github.com/vsinha/repair-configurator/pkg/infrastructure/testing"
)

func newTestRouter(t *testing.T) (*gin.Engine, *SessionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := NewSessionStore(testhelpers.BuildRepairShopTestData(), services.DefaultConfiguratorConfig(), nil, nil)
	router := NewRouter(RouterConfig{
		Sessions:       sessions,
		Booking:        services.NewBookingHandoff(services.BookingConfig{AppointmentURL: "https://rdv.example.com/book"}),
		AllowedOrigins: []string{"https://shop.example.com"},
	})
	return router, sessions
}

func do(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := do(router, http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var state dto.StateView
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("Failed to decode state: %v", err)
	}
	return state.Session
}

func selectValue(router *gin.Engine, id, field, value string) *httptest.ResponseRecorder {
	return do(router, http.MethodPut, "/api/sessions/"+id+"/selections/"+url.PathEscape(field), selectionRequest{Value: value})
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
}

func TestSelectionFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSession(t, router)

	for _, step := range [][2]string{
		{"repair", "Écran"},
		{"quality", "Origine"},
		{"brand", "Apple"},
		{"series", "iPhone"},
		{"model", "iPhone 12"},
	} {
		if w := selectValue(router, id, step[0], step[1]); w.Code != http.StatusOK {
			t.Fatalf("Expected %s=%s to be accepted, got %d: %s", step[0], step[1], w.Code, w.Body.String())
		}
	}

	w := do(router, http.MethodGet, "/api/sessions/"+id+"/quote", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var quote dto.QuoteView
	if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
		t.Fatalf("Failed to decode quote: %v", err)
	}
	if quote.Amount != "89" || quote.Display != "89 €" {
		t.Errorf("Expected 89 €, got %+v", quote)
	}

	w = do(router, http.MethodGet, "/api/sessions/"+id+"/booking", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var booking struct {
		URL string `json:"url"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &booking)
	parsed, err := url.Parse(booking.URL)
	if err != nil || parsed.Query().Get(services.ParamBrand) != "APPLE" {
		t.Errorf("Expected booking URL with brand, got %q", booking.URL)
	}
}

func TestSelectionCascadeIsReported(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSession(t, router)

	selectValue(router, id, "brand", "Apple")
	selectValue(router, id, "series", "iPhone")
	selectValue(router, id, "model", "iPhone 12")

	w := selectValue(router, id, "brand", "Samsung")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var view dto.SelectionView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("Failed to decode selection: %v", err)
	}
	if !view.Accepted || len(view.Cleared) != 2 {
		t.Errorf("Expected accepted selection clearing two steps, got %+v", view)
	}
	if view.State.Selections["series"] != "" {
		t.Errorf("Expected series cleared, got %v", view.State.Selections)
	}
}

func TestRejectedSelection(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSession(t, router)

	w := selectValue(router, id, "quality", "Premium")
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", w.Code)
	}
	var view dto.SelectionView
	_ = json.Unmarshal(w.Body.Bytes(), &view)
	if view.Accepted || view.Error == "" {
		t.Errorf("Expected rejection with an error, got %+v", view)
	}

	if w := selectValue(router, id, "color", "Noir"); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown field, got %d", w.Code)
	}
}

func TestIncompleteQuoteAndBooking(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSession(t, router)
	selectValue(router, id, "repair", "Écran")

	if w := do(router, http.MethodGet, "/api/sessions/"+id+"/quote", nil); w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for incomplete quote, got %d", w.Code)
	}
	if w := do(router, http.MethodGet, "/api/sessions/"+id+"/booking", nil); w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for incomplete booking, got %d", w.Code)
	}
}

func TestClearResetAndEvents(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSession(t, router)

	selectValue(router, id, "brand", "Apple")
	selectValue(router, id, "series", "iPhone")

	w := do(router, http.MethodDelete, "/api/sessions/"+id+"/selections/series", nil)
	var state dto.StateView
	_ = json.Unmarshal(w.Body.Bytes(), &state)
	if state.Selections["series"] != "" || state.Selections["brand"] != "Apple" {
		t.Errorf("Expected only series cleared, got %v", state.Selections)
	}

	w = do(router, http.MethodPost, "/api/sessions/"+id+"/reset", nil)
	state = dto.StateView{}
	_ = json.Unmarshal(w.Body.Bytes(), &state)
	if len(state.Selections) != 0 {
		t.Errorf("Expected empty selections after reset, got %v", state.Selections)
	}

	w = do(router, http.MethodGet, "/api/sessions/"+id+"/events", nil)
	var recorded []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &recorded); err != nil {
		t.Fatalf("Failed to decode events: %v", err)
	}
	// two selections, one clear, one reset
	if len(recorded) != 4 {
		t.Errorf("Expected 4 events, got %d", len(recorded))
	}
}

func TestUnknownSession(t *testing.T) {
	router, _ := newTestRouter(t)

	if w := do(router, http.MethodGet, "/api/sessions/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if w := do(router, http.MethodDelete, "/api/sessions/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}
}

func TestPruneIdleSessions(t *testing.T) {
	router, sessions := newTestRouter(t)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	stale := createSession(t, router)
	do(router, http.MethodPut, "/api/sessions/"+stale+"/selections/repair", map[string]string{"value": "Écran"})
	now = now.Add(20 * time.Minute)
	fresh := createSession(t, router)
	do(router, http.MethodPut, "/api/sessions/"+fresh+"/selections/repair", map[string]string{"value": "Écran"})

	if recorded, _ := sessions.store.ReadEvents(stale, 1); len(recorded) == 0 {
		t.Fatal("Expected events recorded for the stale session before pruning")
	}

	if pruned := sessions.Prune(15 * time.Minute); pruned != 1 {
		t.Fatalf("Expected 1 session pruned, got %d", pruned)
	}
	if recorded, _ := sessions.store.ReadEvents(stale, 1); len(recorded) != 0 {
		t.Errorf("Expected pruned session events dropped, got %d", len(recorded))
	}
	if recorded, _ := sessions.store.ReadEvents(fresh, 1); len(recorded) == 0 {
		t.Error("Expected fresh session events kept")
	}
	if w := do(router, http.MethodGet, "/api/sessions/"+stale, nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected stale session gone, got %d", w.Code)
	}
	if w := do(router, http.MethodGet, "/api/sessions/"+fresh, nil); w.Code != http.StatusOK {
		t.Errorf("Expected fresh session kept, got %d", w.Code)
	}
}

func TestDeleteSessionDropsEvents(t *testing.T) {
	router, sessions := newTestRouter(t)
	id := createSession(t, router)
	do(router, http.MethodPut, "/api/sessions/"+id+"/selections/repair", map[string]string{"value": "Écran"})

	if w := do(router, http.MethodDelete, "/api/sessions/"+id, nil); w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if recorded, _ := sessions.store.ReadEvents(id, 1); len(recorded) != 0 {
		t.Errorf("Expected deleted session events dropped, got %d", len(recorded))
	}
	if all, _ := sessions.store.ReadAllEvents(0); len(all) != 0 {
		t.Errorf("Expected global log compacted, got %d events", len(all))
	}
}
