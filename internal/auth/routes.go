package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all auth-related routes
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, middleware *Middleware) {
	auth := router.Group("/auth")
	{
		// Public routes
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.GET("/logout", handler.Logout)
		auth.GET("/login/:provider", handler.OAuthLogin)
		auth.GET("/callback/:provider", handler.OAuthCallback)

		// Token issue accepts a session or credentials in the body
		auth.POST("/tokens", middleware.OptionalSession(), handler.CreateToken)

		// Session or token protected routes
		protected := auth.Group("")
		protected.Use(middleware.RequireUser())
		{
			protected.GET("/me", handler.Me)
			protected.GET("/tokens", handler.ListTokens)
			protected.DELETE("/tokens/:id", handler.RevokeToken)
		}
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
