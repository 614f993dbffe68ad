package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	intconfig "github.com/shagatomte19/bus-booking-system-rag/internal/config"
	api "github.com/shagatomte19/bus-booking-system-rag/internal/http"
	"github.com/shagatomte19/bus-booking-system-rag/internal/http/handlers"
	"github.com/shagatomte19/bus-booking-system-rag/internal/queryrouter"
	"github.com/shagatomte19/bus-booking-system-rag/internal/rag"
	"github.com/shagatomte19/bus-booking-system-rag/internal/repositories"
	"github.com/shagatomte19/bus-booking-system-rag/internal/services"
	"github.com/shagatomte19/bus-booking-system-rag/internal/vectorstore"
)

type emptyStore struct{}

func (emptyStore) Add(ctx context.Context, docs []vectorstore.Document) error { return nil }
func (emptyStore) Query(ctx context.Context, text string, topK int) ([]vectorstore.Document, error) {
	return nil, nil
}
func (emptyStore) Count(ctx context.Context) (int, error) { return 0, nil }
func (emptyStore) Reset(ctx context.Context) error        { return nil }

func newTestRouter(t *testing.T, env intconfig.Env) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	districtRepo := repositories.DistrictRepo{DB: db}
	providerRepo := repositories.ProviderRepo{DB: db}
	bookingRepo := repositories.BookingRepo{DB: db}

	searchSvc := services.SearchService{DistrictRepo: districtRepo, ProviderRepo: providerRepo, DB: db}
	bookingSvc := services.BookingService{BookingRepo: bookingRepo, ProviderRepo: providerRepo, DB: db}

	pipeline := rag.NewPipeline(emptyStore{}, nil)

	a := &handlers.API{
		Env:       env,
		Bookings:  bookingSvc,
		Search:    searchSvc,
		Tickets:   services.TicketService{Bookings: bookingSvc},
		Districts: districtRepo,
		Providers: providerRepo,
		Router: &queryrouter.Router{
			RAG:       pipeline,
			Search:    searchSvc,
			Districts: districtRepo,
		},
		RAG: pipeline,
	}
	return api.NewRouter(a), mock
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, intconfig.Env{})
	w := doJSON(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRootListsEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, intconfig.Env{})
	w := doJSON(r, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/api/buses/search") {
		t.Fatalf("endpoint index missing: %s", w.Body.String())
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	r, _ := newTestRouter(t, intconfig.Env{})
	w := doJSON(r, http.MethodGet, "/api/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCreateBooking_BadPhoneIs400(t *testing.T) {
	r, _ := newTestRouter(t, intconfig.Env{})
	body := `{"user_name":"Rahim Uddin","phone":"12345","from_district":"Dhaka","to_district":"Sylhet","bus_provider":"Green Line","travel_date":"2026-09-15"}`
	w := doJSON(r, http.MethodPost, "/api/bookings", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateBooking_UnknownProviderIs404(t *testing.T) {
	r, mock := newTestRouter(t, intconfig.Env{})
	mock.ExpectQuery("SELECT id, name FROM bus_providers WHERE name").
		WithArgs("Ghost Travels").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	body := `{"user_name":"Rahim Uddin","phone":"+8801712345678","from_district":"Dhaka","to_district":"Sylhet","bus_provider":"Ghost Travels","travel_date":"2026-09-15"}`
	w := doJSON(r, http.MethodPost, "/api/bookings", body)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSearch_UnknownDistrictIs404(t *testing.T) {
	r, mock := newTestRouter(t, intconfig.Env{})
	mock.ExpectQuery("SELECT id, name FROM districts WHERE name").
		WithArgs("Atlantis").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	w := doJSON(r, http.MethodPost, "/api/buses/search", `{"from_district":"Atlantis","to_district":"Sylhet"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCancelBooking_NonNumericIDIs400(t *testing.T) {
	r, _ := newTestRouter(t, intconfig.Env{})
	w := doJSON(r, http.MethodDelete, "/api/bookings/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAsk_ShortQuestionIs400(t *testing.T) {
	r, _ := newTestRouter(t, intconfig.Env{})
	w := doJSON(r, http.MethodPost, "/api/providers/ask", `{"question":"hi"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAsk_DegradedModeStillAnswers(t *testing.T) {
	r, _ := newTestRouter(t, intconfig.Env{})
	w := doJSON(r, http.MethodPost, "/api/providers/ask", `{"question":"What is the phone number for Green Line?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "provider_info") {
		t.Fatalf("answer envelope missing type: %s", w.Body.String())
	}
}

func TestReindex_RequiresToken(t *testing.T) {
	r, _ := newTestRouter(t, intconfig.Env{JWTSecret: "test-secret"})
	w := doJSON(r, http.MethodPost, "/api/providers/reindex", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	env := intconfig.Env{
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
	}
	r, _ := newTestRouter(t, env)

	w := doJSON(r, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"correct horse"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "token") {
		t.Fatalf("token missing: %s", w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", w.Code)
	}
}

func TestLogin_UnconfiguredIs503(t *testing.T) {
	r, _ := newTestRouter(t, intconfig.Env{})
	w := doJSON(r, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"x"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
