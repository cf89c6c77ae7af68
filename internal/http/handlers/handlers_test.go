// README: Handler tests over a gin engine with stubbed auth and in-memory stores.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"travelplanner/internal/http/handlers"
	httpmiddleware "travelplanner/internal/http/middleware"
	"travelplanner/internal/modules/account"
	"travelplanner/internal/modules/itinerary"
	"travelplanner/internal/modules/planner"
)

// headerVerifier treats the bearer token itself as the account id.
type headerVerifier struct{}

func (headerVerifier) VerifyToken(_ context.Context, raw string) (string, error) {
	if raw == "bad" {
		return "", errors.New("bad token")
	}
	return raw, nil
}

type failingModel struct{}

func (failingModel) GenerateText(context.Context, string) (string, error) {
	return "", errors.New("upstream timeout")
}

func buildTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := itinerary.NewStore(itinerary.NewMemoryMedium(), "test-itineraries")
	svc := planner.NewService(planner.NewGenerator(failingModel{}, nil), nil, store)
	h := handlers.NewItineraryHandler(svc, store, time.Second)

	r := gin.New()
	r.GET("/api/destinations", h.Destinations)
	r.POST("/api/itineraries/validate", h.Validate)
	api := r.Group("/api", httpmiddleware.Auth(headerVerifier{}))
	api.POST("/itineraries/generate", h.Generate)
	api.GET("/itineraries", h.List)
	api.POST("/itineraries", h.Save)
	api.GET("/itineraries/:id", h.Get)
	api.PUT("/itineraries/:id", h.Update)
	api.DELETE("/itineraries/:id", h.Delete)
	return r
}

func doRequest(r http.Handler, method, path string, body any, authHeader string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

var romeRequest = map[string]any{
	"destination": "Rome",
	"startDate":   "2024-06-01",
	"endDate":     "2024-06-03",
	"travelers":   2,
	"interests":   []string{"History"},
}

func TestValidateEndpoint(t *testing.T) {
	r := buildTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/itineraries/validate", map[string]any{
		"destination": " ", "startDate": "2024-06-03", "endDate": "2024-06-01", "travelers": 0,
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	res := decode[struct {
		Valid  bool              `json:"valid"`
		Errors map[string]string `json:"errors"`
	}](t, w)
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	for _, field := range []string{"destination", "endDate", "travelers", "interests"} {
		if res.Errors[field] == "" {
			t.Errorf("missing error for %s: %v", field, res.Errors)
		}
	}
}

func TestGenerateRequiresAuth(t *testing.T) {
	r := buildTestRouter(t)
	if w := doRequest(r, http.MethodPost, "/api/itineraries/generate", romeRequest, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w := doRequest(r, http.MethodPost, "/api/itineraries/generate", romeRequest, "Bearer bad"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGenerateInvalidRequest(t *testing.T) {
	r := buildTestRouter(t)
	w := doRequest(r, http.MethodPost, "/api/itineraries/generate", map[string]any{"destination": "Rome"}, "Bearer user_1")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestGenerateFallbackAndCRUD(t *testing.T) {
	r := buildTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/itineraries/generate", romeRequest, "Bearer user_1")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	it := decode[itinerary.Itinerary](t, w)
	if !it.IsFallback() || it.FallbackReason != planner.ReasonTransport {
		t.Fatalf("source = %q reason = %q", it.Source, it.FallbackReason)
	}
	if it.ID == "" || len(it.Days) != 3 || it.ActivityCount() != 12 {
		t.Fatalf("unexpected itinerary %+v", it)
	}
	path := "/api/itineraries/" + string(it.ID)

	if w := doRequest(r, http.MethodGet, path, nil, "Bearer user_1"); w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, path, nil, "Bearer user_2"); w.Code != http.StatusNotFound {
		t.Fatalf("other caller: expected 404, got %d", w.Code)
	}

	it.Summary = "Edited"
	w = doRequest(r, http.MethodPut, path, it, "Bearer user_1")
	if w.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	updated := decode[itinerary.Itinerary](t, w)
	if updated.Summary != "Edited" || updated.UpdatedAt == nil || updated.SavedAt == nil {
		t.Fatalf("update not applied: %+v", updated)
	}
	if !updated.SavedAt.Equal(*it.SavedAt) {
		t.Fatalf("savedAt changed from %v to %v", it.SavedAt, updated.SavedAt)
	}

	// POST with the stored id and a bare body keeps savedAt and provenance.
	w = doRequest(r, http.MethodPost, "/api/itineraries", map[string]any{
		"id":             string(it.ID),
		"destination":    "Rome",
		"source":         "ai",
		"fallbackReason": "",
		"days":           it.Days,
	}, "Bearer user_1")
	if w.Code != http.StatusOK {
		t.Fatalf("re-save: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resaved := decode[itinerary.Itinerary](t, w)
	if resaved.SavedAt == nil || !resaved.SavedAt.Equal(*it.SavedAt) {
		t.Fatalf("savedAt lost on re-save: %v", resaved.SavedAt)
	}
	if resaved.Source != itinerary.SourceFallback || resaved.FallbackReason != planner.ReasonTransport {
		t.Fatalf("provenance overwritten: %q %q", resaved.Source, resaved.FallbackReason)
	}

	list := decode[struct {
		Itineraries []itinerary.Itinerary `json:"itineraries"`
	}](t, doRequest(r, http.MethodGet, "/api/itineraries", nil, "Bearer user_1"))
	if len(list.Itineraries) != 1 {
		t.Fatalf("expected 1 itinerary, got %d", len(list.Itineraries))
	}

	if w := doRequest(r, http.MethodDelete, path, nil, "Bearer user_1"); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	if w := doRequest(r, http.MethodDelete, path, nil, "Bearer user_1"); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", w.Code)
	}
}

func TestSaveEndpoint(t *testing.T) {
	r := buildTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/itineraries", map[string]any{
		"destination":    "Paris",
		"startDate":      "2024-07-01",
		"endDate":        "2024-07-01",
		"source":         "ai",
		"fallbackReason": "hand made",
		"days": []map[string]any{{
			"date":       "2024-07-01",
			"activities": []map[string]any{{"id": "a", "title": "Louvre", "type": "museum"}},
		}},
	}, "Bearer user_1")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	saved := decode[itinerary.Itinerary](t, w)
	if saved.Days[0].Activities[0].Type != itinerary.TypeOther {
		t.Fatalf("type not normalized: %q", saved.Days[0].Activities[0].Type)
	}
	if saved.Source != "" || saved.FallbackReason != "" {
		t.Fatalf("client provenance persisted: %q %q", saved.Source, saved.FallbackReason)
	}

	if w := doRequest(r, http.MethodPost, "/api/itineraries", map[string]any{"destination": "Paris"}, "Bearer user_1"); w.Code != http.StatusBadRequest {
		t.Fatalf("no days: expected 400, got %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/itineraries/not-an-id", nil, "Bearer user_1"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", w.Code)
	}
	if w := doRequest(r, http.MethodPut, "/api/itineraries/itin_missing", saved, "Bearer user_1"); w.Code != http.StatusNotFound {
		t.Fatalf("put missing: expected 404, got %d", w.Code)
	}
}

func TestDestinations(t *testing.T) {
	r := buildTestRouter(t)
	res := decode[struct {
		Destinations []string `json:"destinations"`
	}](t, doRequest(r, http.MethodGet, "/api/destinations?q=ro", nil, ""))
	if len(res.Destinations) != 1 || res.Destinations[0] != "Rome" {
		t.Fatalf("destinations = %v", res.Destinations)
	}
}

func TestAccountEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := account.NewTokenIssuer("test-secret", time.Hour)
	h := handlers.NewAccountHandler(account.NewService(account.NewMemoryRepository(), issuer))
	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/auth/me", httpmiddleware.Auth(issuer), h.Me)

	creds := map[string]string{"email": "ana@example.com", "password": "secret1", "name": "Ana"}
	if w := doRequest(r, http.MethodPost, "/api/auth/register", creds, ""); w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := doRequest(r, http.MethodPost, "/api/auth/register", creds, ""); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", w.Code)
	}
	if w := doRequest(r, http.MethodPost, "/api/auth/login", map[string]string{"email": "ana@example.com", "password": "nope"}, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", w.Code)
	}

	w := doRequest(r, http.MethodPost, "/api/auth/login", creds, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", w.Code)
	}
	sess := decode[account.Session](t, w)

	w = doRequest(r, http.MethodGet, "/api/auth/me", nil, "Bearer "+sess.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", w.Code)
	}
	if me := decode[account.User](t, w); me.Email != "ana@example.com" || me.Name != "Ana" {
		t.Fatalf("me = %+v", me)
	}
}
