package meals

import (
	"mealcal/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the meal endpoints. The write paths are the ones the
// calendar page has always used, so they live at the root.
func RegisterRoutes(router gin.IRouter, h *Handler, authMiddleware *auth.Middleware) {
	meals := router.Group("")
	meals.Use(authMiddleware.RequireUser())
	{
		meals.POST("/add_meal", h.AddMeal)
		meals.POST("/update_meal/:id", h.UpdateMeal)
		meals.POST("/delete_meal/:id", h.DeleteMeal)
		meals.GET("/meals", h.ListMeals)
		meals.GET("/meals.ics", h.ExportMeals)
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
