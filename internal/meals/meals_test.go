package meals

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mealcal/internal/auth"
	"mealcal/internal/databases"
	"mealcal/internal/plan"

	"github.com/emersion/go-ical"
	"github.com/gin-gonic/gin"
)

type testEnv struct {
	router     *gin.Engine
	repo       *Repository
	tokens     *auth.TokenStore
	users      *auth.Repository
	middleware *auth.Middleware
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := databases.OpenMigrated(databases.MemoryPath)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := auth.NewRepository(db)
	tokens := auth.NewTokenStore(users)
	sessions := auth.NewSessionStore(users, time.Hour, false)
	repo := NewRepository(db)

	middleware := auth.NewMiddleware(tokens, sessions)

	router := gin.New()
	RegisterRoutes(router, NewHandler(repo), middleware)
	return &testEnv{router: router, repo: repo, tokens: tokens, users: users, middleware: middleware}
}

// newUser creates an account and returns its id and bearer token
func (e *testEnv) newUser(t *testing.T, email string) (int64, string) {
	t.Helper()
	user, err := e.users.CreateUser(email, email, nil)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	token, err := e.tokens.CreateToken(user.ID, "test", nil)
	if err != nil {
		t.Fatalf("CreateToken() failed: %v", err)
	}
	return user.ID, token.RawToken
}

func (e *testEnv) do(t *testing.T, token, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(auth.HeaderAuthorization, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeMealResponse(t *testing.T, w *httptest.ResponseRecorder) MealResponse {
	t.Helper()
	var resp MealResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp
}

func (e *testEnv) events(t *testing.T, token string) []plan.Event {
	t.Helper()
	w := e.do(t, token, http.MethodGet, "/meals", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /meals status = %d", w.Code)
	}
	var events []plan.Event
	if err := json.Unmarshal(w.Body.Bytes(), &events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	return events
}

func TestAddMeal(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "ana@example.com")

	w := env.do(t, token, http.MethodPost, "/add_meal", MealRequest{Date: "2024-03-15", Meal: "  Pasta dinner ", MealType: "dinner"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decodeMealResponse(t, w)
	if !resp.Success || resp.MealID == "" {
		t.Fatalf("response = %+v, want success with id", resp)
	}

	events := env.events(t, token)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	got := events[0]
	if got.ID != resp.MealID || got.Title != "Pasta dinner" || got.Start != "2024-03-15" || got.ExtendedProps.MealType != "dinner" || !got.AllDay {
		t.Errorf("event = %+v", got)
	}
}

func TestAddMealValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "ana@example.com")

	tests := []struct {
		name    string
		body    interface{}
		wantErr string
	}{
		{name: "Empty description", body: MealRequest{Date: "2024-03-15", Meal: "   "}, wantErr: "Meal description is required"},
		{name: "Bad date", body: MealRequest{Date: "15/03/2024", Meal: "Soup"}, wantErr: "Invalid date format"},
		{name: "Missing date", body: MealRequest{Meal: "Soup"}, wantErr: "Invalid request"},
		{name: "Unknown meal type", body: MealRequest{Date: "2024-03-15", Meal: "Soup", MealType: "brunch"}, wantErr: "Unknown meal type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, token, http.MethodPost, "/add_meal", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			resp := decodeMealResponse(t, w)
			if resp.Success || !strings.Contains(resp.Error, tt.wantErr) {
				t.Errorf("response = %+v, want error containing %q", resp, tt.wantErr)
			}
		})
	}

	if events := env.events(t, token); len(events) != 0 {
		t.Fatalf("rejected writes stored %d meals", len(events))
	}
}

func TestAddMealDefaultsType(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.newUser(t, "ana@example.com")

	resp := decodeMealResponse(t, env.do(t, token, http.MethodPost, "/add_meal", MealRequest{Date: "2024-03-15", Meal: "Leftovers"}))
	meal, err := env.repo.GetByID(userID, resp.MealID)
	if err != nil || meal == nil {
		t.Fatalf("GetByID() = %v, %v", meal, err)
	}
	if meal.MealType != plan.MealOther {
		t.Errorf("meal type = %q, want %q", meal.MealType, plan.MealOther)
	}
}

func TestUpdateMeal(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.newUser(t, "ana@example.com")

	meal, err := env.repo.Create(userID, plan.MustParseDate("2024-03-15"), "Soup", plan.MealLunch)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	w := env.do(t, token, http.MethodPost, "/update_meal/"+meal.ID, MealRequest{Date: "2024-03-15", Meal: "Ramen", MealType: "dinner"})
	if resp := decodeMealResponse(t, w); w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("update = %d %+v", w.Code, resp)
	}

	events := env.events(t, token)
	if len(events) != 1 || events[0].ID != meal.ID || events[0].Title != "Ramen" || events[0].ExtendedProps.MealType != "dinner" {
		t.Fatalf("events after update = %+v", events)
	}

	w = env.do(t, token, http.MethodPost, "/update_meal/missing", MealRequest{Date: "2024-03-15", Meal: "Ramen"})
	if resp := decodeMealResponse(t, w); w.Code != http.StatusNotFound || resp.Success || resp.Error != "Meal not found" {
		t.Fatalf("update missing = %d %+v", w.Code, resp)
	}
}

func TestDeleteMeal(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.newUser(t, "ana@example.com")

	meal, err := env.repo.Create(userID, plan.MustParseDate("2024-03-15"), "Soup", plan.MealLunch)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if w := env.do(t, token, http.MethodPost, "/delete_meal/"+meal.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", w.Code, w.Body.String())
	}
	if events := env.events(t, token); len(events) != 0 {
		t.Fatalf("events after delete = %+v", events)
	}
	if w := env.do(t, token, http.MethodPost, "/delete_meal/"+meal.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestMealsAreScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ownerID, ownerToken := env.newUser(t, "ana@example.com")
	_, otherToken := env.newUser(t, "bo@example.com")

	meal, err := env.repo.Create(ownerID, plan.MustParseDate("2024-03-15"), "Soup", plan.MealLunch)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if w := env.do(t, otherToken, http.MethodPost, "/update_meal/"+meal.ID, MealRequest{Date: "2024-03-15", Meal: "Stolen"}); w.Code != http.StatusNotFound {
		t.Fatalf("foreign update status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if w := env.do(t, otherToken, http.MethodPost, "/delete_meal/"+meal.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("foreign delete status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if events := env.events(t, otherToken); len(events) != 0 {
		t.Fatalf("other user sees %d meals", len(events))
	}
	if events := env.events(t, ownerToken); len(events) != 1 || events[0].Title != "Soup" {
		t.Fatalf("owner events = %+v", events)
	}
}

func TestMealsRequireAuthentication(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, "", http.MethodGet, "/meals", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	w := env.do(t, "", http.MethodPost, "/add_meal", MealRequest{Date: "2024-03-15", Meal: "Soup"})
	if resp := decodeMealResponse(t, w); w.Code != http.StatusUnauthorized || resp.Success {
		t.Fatalf("add without auth = %d %+v", w.Code, resp)
	}
}

func TestListOrdersByDate(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.newUser(t, "ana@example.com")

	for _, d := range []string{"2024-03-17", "2024-03-15", "2024-03-16"} {
		if _, err := env.repo.Create(userID, plan.MustParseDate(d), "Meal "+d, plan.MealOther); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	events := env.events(t, token)
	want := []string{"2024-03-15", "2024-03-16", "2024-03-17"}
	if len(events) != len(want) {
		t.Fatalf("events = %d, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Start != want[i] {
			t.Errorf("events[%d].Start = %s, want %s", i, e.Start, want[i])
		}
	}
}

func TestExportMeals(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.newUser(t, "ana@example.com")

	meal, err := env.repo.Create(userID, plan.MustParseDate("2024-03-15"), "Pasta dinner", plan.MealDinner)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	w := env.do(t, token, http.MethodGet, "/meals.ics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("content type = %q", ct)
	}

	cal, err := ical.NewDecoder(w.Body).Decode()
	if err != nil {
		t.Fatalf("decode calendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("calendar events = %d, want 1", len(events))
	}
	uid, _ := events[0].Props.Text(ical.PropUID)
	summary, _ := events[0].Props.Text(ical.PropSummary)
	if uid != meal.ID || summary != "Pasta dinner" {
		t.Errorf("event uid=%q summary=%q", uid, summary)
	}
	if start := events[0].Props.Get(ical.PropDateTimeStart); start == nil || start.Value != "20240315" {
		t.Errorf("DTSTART = %+v, want 20240315", start)
	}
}

func TestExportWithoutMeals(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "ana@example.com")

	w := env.do(t, token, http.MethodGet, "/meals.ics", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if resp := decodeMealResponse(t, w); resp.Error != "No meals to export" {
		t.Errorf("response = %+v", resp)
	}
}

func TestExportMealsEncodeFailure(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.newUser(t, "ana@example.com")
	if _, err := env.repo.Create(userID, plan.MustParseDate("2024-03-15"), "Pasta dinner", plan.MealDinner); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	handler := NewHandler(env.repo)
	handler.writeCalendar = func(w io.Writer, meals []Meal) error {
		io.WriteString(w, "BEGIN:VCALENDAR\r\n")
		return errors.New("encoder broke")
	}
	router := gin.New()
	RegisterRoutes(router, handler, env.middleware)
	env.router = router

	w := env.do(t, token, http.MethodGet, "/meals.ics", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Errorf("partial calendar sent: %q", w.Body.String())
	}
	if resp := decodeMealResponse(t, w); resp.Success || resp.Error != "Failed to export meals" {
		t.Errorf("response = %+v", resp)
	}
}
