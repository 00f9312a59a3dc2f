package commands

import (
	"bufio"
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mealcal/internal/auth"
	"mealcal/internal/databases"
	"mealcal/internal/meals"
	"mealcal/internal/mealsync"
	"mealcal/internal/plan"

	"github.com/gin-gonic/gin"
)

// newServer runs the auth and meal routes and creates one account
func newServer(t *testing.T) Config {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := databases.OpenMigrated(databases.MemoryPath)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := auth.NewRepository(db)
	sessions := auth.NewSessionStore(users, time.Hour, false)
	states := auth.NewOAuthStateStore(users)
	tokens := auth.NewTokenStore(users)
	middleware := auth.NewMiddleware(tokens, sessions)
	handler := auth.NewHandler(users, auth.NewOAuthConfig(auth.ProviderConfig{}, auth.ProviderConfig{}, "http://localhost"), states, sessions, tokens)

	router := gin.New()
	auth.RegisterRoutes(router.Group("/api"), handler, middleware)
	meals.RegisterRoutes(router, meals.NewHandler(meals.NewRepository(db)), middleware)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if _, err := users.CreateUser("cook@example.com", "cook", &hash); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	return Config{
		ServerURL: srv.URL,
		TokenFile: filepath.Join(t.TempDir(), "mealcal", "token"),
	}
}

func login(t *testing.T, cfg Config) Config {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader("correct horse\n")
	if err := Login(context.Background(), cfg, []string{"-email", "cook@example.com"}, in, &out); err != nil {
		t.Fatalf("Login() failed: %v\n%s", err, out.String())
	}
	return cfg
}

func TestLoginStoresToken(t *testing.T) {
	cfg := login(t, newServer(t))

	raw, err := os.ReadFile(cfg.TokenFile)
	if err != nil {
		t.Fatalf("token file: %v", err)
	}
	if !strings.HasPrefix(string(raw), auth.TokenPrefix) {
		t.Errorf("stored token = %q", raw)
	}
	info, err := os.Stat(cfg.TokenFile)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("token file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	cfg := newServer(t)
	var out bytes.Buffer
	err := Login(context.Background(), cfg, []string{"-email", "cook@example.com"}, strings.NewReader("wrong\n"), &out)
	if err == nil || !strings.Contains(err.Error(), "Invalid credentials") {
		t.Errorf("Login() error = %v, want invalid credentials", err)
	}
	if _, err := os.Stat(cfg.TokenFile); !os.IsNotExist(err) {
		t.Error("token stored after failed login")
	}
}

func TestCommandsRequireLogin(t *testing.T) {
	cfg := newServer(t)
	var out bytes.Buffer
	if err := List(context.Background(), cfg, nil, &out); err != errNotLoggedIn {
		t.Errorf("List() error = %v, want errNotLoggedIn", err)
	}
}

func TestMealLifecycle(t *testing.T) {
	cfg := login(t, newServer(t))
	ctx := context.Background()
	var out bytes.Buffer

	if err := Add(ctx, cfg, []string{"-date", "2024-03-15", "-meal", "Pasta dinner", "-type", "dinner"}, &out); err != nil {
		t.Fatalf("Add() failed: %v\n%s", err, out.String())
	}
	if err := Add(ctx, cfg, []string{"-date", "2024-03-14", "-meal", "Oats", "-type", "breakfast"}, &out); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	token, _ := cfg.token()
	entries, err := mealsync.NewClient(cfg.ServerURL, mealsync.WithToken(token)).ListMeals(ctx)
	if err != nil || len(entries) != 2 {
		t.Fatalf("ListMeals() = %+v, %v", entries, err)
	}
	pasta := entries[1]
	if pasta.Description != "Pasta dinner" || pasta.Date != plan.MustParseDate("2024-03-15") {
		t.Fatalf("second meal = %+v", pasta)
	}

	out.Reset()
	if err := List(ctx, cfg, []string{"-from", "2024-03-15"}, &out); err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if !strings.Contains(out.String(), "Pasta dinner") || strings.Contains(out.String(), "Oats") {
		t.Errorf("List(-from) output:\n%s", out.String())
	}

	out.Reset()
	if err := Edit(ctx, cfg, []string{"-id", pasta.ID, "-type", "lunch"}, &out); err != nil {
		t.Fatalf("Edit() failed: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), `Updated lunch "Pasta dinner"`) {
		t.Errorf("Edit() output:\n%s", out.String())
	}

	out.Reset()
	if err := Export(ctx, cfg, nil, &out); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if !strings.Contains(out.String(), "SUMMARY:Pasta dinner") {
		t.Errorf("Export() output:\n%s", out.String())
	}

	out.Reset()
	if err := Delete(ctx, cfg, []string{"-id", pasta.ID}, strings.NewReader("n\n"), &out); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if !strings.Contains(out.String(), "Cancelled.") {
		t.Errorf("declined Delete() output:\n%s", out.String())
	}

	out.Reset()
	if err := Delete(ctx, cfg, []string{"-id", pasta.ID, "-yes"}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	out.Reset()
	if err := List(ctx, cfg, nil, &out); err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if strings.Contains(out.String(), "Pasta dinner") {
		t.Errorf("deleted meal still listed:\n%s", out.String())
	}
}

func TestAddRejectsBlankMeal(t *testing.T) {
	cfg := login(t, newServer(t))
	var out bytes.Buffer
	err := Add(context.Background(), cfg, []string{"-date", "2024-03-15", "-meal", "   "}, &out)
	if err == nil {
		t.Fatal("Add() accepted a blank meal")
	}
	if !strings.Contains(out.String(), "Please enter a meal description.") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestTerminalSurfaceConfirm(t *testing.T) {
	tests := []struct {
		input     string
		assumeYes bool
		want      bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"\n", false, false},
		{"", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		s := NewTerminalSurface(strings.NewReader(tt.input), &out, tt.assumeYes)
		if got := s.Confirm("Sure?"); got != tt.want {
			t.Errorf("Confirm(%q, yes=%v) = %v, want %v", tt.input, tt.assumeYes, got, tt.want)
		}
	}
}

func TestReadPasswordFromInjectedReader(t *testing.T) {
	in := strings.NewReader("hunter22\r\nleftover\n")
	var out bytes.Buffer
	got, err := readPassword(in, bufio.NewReader(in), &out)
	if err != nil {
		t.Fatalf("readPassword() failed: %v", err)
	}
	if got != "hunter22" {
		t.Errorf("readPassword() = %q, want hunter22", got)
	}
	if out.String() != "Password: " {
		t.Errorf("prompt = %q", out.String())
	}
}
