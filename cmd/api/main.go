package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mealcal/internal/auth"
	"mealcal/internal/common"
	"mealcal/internal/databases"
	"mealcal/internal/env"
	"mealcal/internal/meals"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Meal calendar database
	db, err := databases.Open(env.GetEnv(env.EnvDBPath, env.DefaultDBPath))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if env.GetBool(env.EnvAutoMigrate, true) {
		if err := databases.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Initialize meal components
	mealRepo := meals.NewRepository(db)
	mealHandler := meals.NewHandler(mealRepo)

	// Initialize auth components
	authRepo := auth.NewRepository(db)

	// OAuth configuration
	oauthConfig := auth.NewOAuthConfig(
		auth.ProviderConfig{
			ClientID:     env.GetEnv(env.EnvGoogleClientID, ""),
			ClientSecret: env.GetEnv(env.EnvGoogleClientSecret, ""),
		},
		auth.ProviderConfig{
			ClientID:     env.GetEnv(env.EnvGitHubClientID, ""),
			ClientSecret: env.GetEnv(env.EnvGitHubClientSecret, ""),
		},
		env.GetEnv(env.EnvAuthCallbackBaseURL, env.DefaultServerURL),
	)

	// Auth stores
	stateStore := auth.NewOAuthStateStore(authRepo)
	sessionStore := auth.NewSessionStore(
		authRepo,
		env.GetDuration(env.EnvSessionDuration, auth.DefaultSessionDuration),
		env.GetBool(env.EnvSecureCookies, false),
	)
	tokenStore := auth.NewTokenStore(authRepo)

	// Expired sessions and OAuth states are swept in the background
	janitor := auth.NewJanitor(sessionStore, stateStore, env.GetDuration(env.EnvCleanupEvery, auth.DefaultCleanupInterval))
	janitor.Start(ctx)
	defer janitor.Stop()

	authHandler := auth.NewHandler(authRepo, oauthConfig, stateStore, sessionStore, tokenStore)
	authMiddleware := auth.NewMiddleware(tokenStore, sessionStore)

	router := gin.Default()

	// Global routes
	global := router.Group("/api")
	common.RegisterRoutes(global, common.NewStatusHandler(db))

	// Auth routes (public + protected)
	auth.RegisterRoutes(global, authHandler, authMiddleware)

	// Meal routes (session or token)
	meals.RegisterRoutes(router, mealHandler, authMiddleware)

	srv := &http.Server{
		Addr:              env.GetEnv(env.EnvAddr, env.DefaultAddr),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}

/*
MealCal is the meal planning calendar: a JSON API for planned meals and the client that keeps a rendered calendar in sync with it.
MealCal Copyright (C) 2025 The MealCal Authors
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
