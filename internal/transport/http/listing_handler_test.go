package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/misrentas/misrentas-backend/internal/domain"
	"github.com/misrentas/misrentas-backend/internal/repository/demo"
	"github.com/misrentas/misrentas-backend/internal/service"
	"github.com/misrentas/misrentas-backend/internal/util"
)

// stubStore is a live (non-demo) store serving a fixed collection.
type stubStore struct {
	items []domain.Listing
}

func (s *stubStore) Subscribe(ctx context.Context, onChange func([]domain.Listing)) (func(), error) {
	onChange(s.items)
	return func() {}, nil
}

func (s *stubStore) Create(ctx context.Context, rec domain.ListingRecord) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (s *stubStore) Update(ctx context.Context, id uuid.UUID, rec domain.ListingRecord) error {
	return nil
}

func (s *stubStore) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubStore) Demo() bool { return false }

const testAccessCode = "let-me-in"

func newTestServer(t *testing.T, items []domain.Listing) (*echo.Echo, *service.SessionService) {
	t.Helper()

	gate, err := util.NewAccessCodeGate(testAccessCode)
	if err != nil {
		t.Fatalf("NewAccessCodeGate returned error: %v", err)
	}
	sessions := service.NewSessionService(util.NewJWTManager("test-secret", time.Hour), gate)

	syncSvc := service.NewSyncService(sessions, &stubStore{items: items})
	syncSvc.Start(context.Background())
	t.Cleanup(syncSvc.Stop)

	formSvc := service.NewListingFormService(&stubStore{})

	e := echo.New()
	RegisterSessions(e, sessions)
	RegisterListings(e, sessions, syncSvc, formSvc)
	return e, sessions
}

func do(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return out
}

func sampleListings() []domain.Listing {
	return []domain.Listing{
		{ID: uuid.New(), Title: "Beach House", Category: domain.CategoryBeach, Price: 1000, HostPhone: "521111111111"},
		{ID: uuid.New(), Title: "Pool Villa", Category: domain.CategoryPool, Price: 2000, HostPhone: "522222222222"},
		{ID: uuid.New(), Title: "Cabin", Category: domain.CategoryCabin, Price: 500},
	}
}

func TestModeEndpointReportsLive(t *testing.T) {
	e, _ := newTestServer(t, sampleListings())

	rec := do(e, http.MethodGet, "/api/v1/mode", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["demo"] != false || body["state"] != "live" {
		t.Fatalf("expected live mode, got %v", body)
	}
}

func TestListListingsFiltersByCategory(t *testing.T) {
	e, _ := newTestServer(t, sampleListings())

	rec := do(e, http.MethodGet, "/api/v1/listings?category=beach", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	listings := decodeBody(t, rec)["listings"].([]any)
	if len(listings) != 1 {
		t.Fatalf("expected 1 beach listing, got %d", len(listings))
	}

	rec = do(e, http.MethodGet, "/api/v1/listings?category=all", "", "")
	listings = decodeBody(t, rec)["listings"].([]any)
	if len(listings) != 3 {
		t.Fatalf("expected category=all to return everything, got %d", len(listings))
	}

	rec = do(e, http.MethodGet, "/api/v1/listings?category=castle", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", rec.Code)
	}
}

func TestGetListingByID(t *testing.T) {
	items := sampleListings()
	e, _ := newTestServer(t, items)

	rec := do(e, http.MethodGet, "/api/v1/listings/"+items[1].ID.String(), "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	listing := decodeBody(t, rec)["listing"].(map[string]any)
	if listing["title"] != "Pool Villa" {
		t.Fatalf("expected Pool Villa, got %v", listing["title"])
	}

	rec = do(e, http.MethodGet, "/api/v1/listings/"+uuid.New().String(), "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rec.Code)
	}

	rec = do(e, http.MethodGet, "/api/v1/listings/not-a-uuid", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestContactLinkEndpoint(t *testing.T) {
	items := sampleListings()
	e, _ := newTestServer(t, items)

	rec := do(e, http.MethodGet, "/api/v1/listings/"+items[0].ID.String()+"/contact-link", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	link := decodeBody(t, rec)["contact_link"].(string)
	if !strings.Contains(link, "wa.me/521111111111") {
		t.Fatalf("expected host phone in link, got %q", link)
	}

	// The cabin has no host phone on file.
	rec = do(e, http.MethodGet, "/api/v1/listings/"+items[2].ID.String()+"/contact-link", "", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without a host phone, got %d", rec.Code)
	}
}

func TestAdminRoutesRequireAdminSession(t *testing.T) {
	e, sessions := newTestServer(t, sampleListings())

	rec := do(e, http.MethodGet, "/api/v1/admin/form", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}

	guest, err := sessions.NewGuestSession(context.Background())
	if err != nil {
		t.Fatalf("NewGuestSession returned error: %v", err)
	}
	rec = do(e, http.MethodGet, "/api/v1/admin/form", guest.Token, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a guest session, got %d", rec.Code)
	}

	admin, err := sessions.ElevateToAdmin(context.Background(), testAccessCode)
	if err != nil {
		t.Fatalf("ElevateToAdmin returned error: %v", err)
	}
	rec = do(e, http.MethodGet, "/api/v1/admin/form", admin.Token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for an admin session, got %d", rec.Code)
	}
}

func TestAdminCreateListing(t *testing.T) {
	e, sessions := newTestServer(t, sampleListings())
	admin, err := sessions.ElevateToAdmin(context.Background(), testAccessCode)
	if err != nil {
		t.Fatalf("ElevateToAdmin returned error: %v", err)
	}

	payload := `{"title":"New Villa","location":"Centro","description":"desc","price":"1500","mediaUrls":"https://a/1.jpg","amenities":"Wifi"}`
	rec := do(e, http.MethodPost, "/api/v1/admin/listings", admin.Token, payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if id, _ := decodeBody(t, rec)["id"].(string); id == "" {
		t.Fatalf("expected the new listing id in the response")
	}

	bad := `{"title":"","location":"","description":"","price":"x"}`
	rec = do(e, http.MethodPost, "/api/v1/admin/listings", admin.Token, bad)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an invalid draft, got %d", rec.Code)
	}
}

func TestDemoModeWritesAreRejected(t *testing.T) {
	gate, err := util.NewAccessCodeGate(testAccessCode)
	if err != nil {
		t.Fatalf("NewAccessCodeGate returned error: %v", err)
	}
	sessions := service.NewSessionService(util.NewJWTManager("test-secret", time.Hour), gate)

	store := demo.NewStore()
	syncSvc := service.NewSyncService(sessions, store)
	syncSvc.Start(context.Background())
	t.Cleanup(syncSvc.Stop)

	e := echo.New()
	RegisterListings(e, sessions, syncSvc, service.NewListingFormService(store))

	rec := do(e, http.MethodGet, "/api/v1/mode", "", "")
	body := decodeBody(t, rec)
	if body["demo"] != true {
		t.Fatalf("expected demo mode, got %v", body)
	}

	admin, err := sessions.ElevateToAdmin(context.Background(), testAccessCode)
	if err != nil {
		t.Fatalf("ElevateToAdmin returned error: %v", err)
	}
	payload := `{"title":"New Villa","location":"Centro","description":"desc","price":"1500"}`
	rec = do(e, http.MethodPost, "/api/v1/admin/listings", admin.Token, payload)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a demo-mode write, got %d: %s", rec.Code, rec.Body.String())
	}
}
