package meals

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"mealcal/internal/auth"
	"mealcal/internal/plan"

	"github.com/gin-gonic/gin"
)

// Handler serves the meal endpoints the calendar talks to
type Handler struct {
	repo          *Repository
	writeCalendar func(io.Writer, []Meal) error
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo, writeCalendar: WriteICal}
}

// AddMeal creates a meal and returns its id
// POST /add_meal
func (h *Handler) AddMeal(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	req, date, mealType, ok := bindMeal(c)
	if !ok {
		return
	}

	meal, err := h.repo.Create(user.ID, date, req.Meal, mealType)
	if err != nil {
		log.Printf("meals: create for user %d: %v", user.ID, err)
		fail(c, http.StatusInternalServerError, "Failed to save meal")
		return
	}
	c.JSON(http.StatusOK, MealResponse{Success: true, MealID: meal.ID})
}

// UpdateMeal replaces an existing meal
// POST /update_meal/:id
func (h *Handler) UpdateMeal(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	req, date, mealType, ok := bindMeal(c)
	if !ok {
		return
	}

	found, err := h.repo.Update(user.ID, c.Param("id"), date, req.Meal, mealType)
	if err != nil {
		log.Printf("meals: update %s: %v", c.Param("id"), err)
		fail(c, http.StatusInternalServerError, "Failed to update meal")
		return
	}
	if !found {
		fail(c, http.StatusNotFound, "Meal not found")
		return
	}
	c.JSON(http.StatusOK, MealResponse{Success: true})
}

// DeleteMeal removes a meal
// POST /delete_meal/:id
func (h *Handler) DeleteMeal(c *gin.Context) {
	user := auth.GetUserFromContext(c)

	found, err := h.repo.Delete(user.ID, c.Param("id"))
	if err != nil {
		log.Printf("meals: delete %s: %v", c.Param("id"), err)
		fail(c, http.StatusInternalServerError, "Failed to delete meal")
		return
	}
	if !found {
		fail(c, http.StatusNotFound, "Meal not found")
		return
	}
	c.JSON(http.StatusOK, MealResponse{Success: true})
}

// ListMeals returns the user's meals as calendar events
// GET /meals
func (h *Handler) ListMeals(c *gin.Context) {
	user := auth.GetUserFromContext(c)

	meals, err := h.repo.ListForUser(user.ID)
	if err != nil {
		log.Printf("meals: list for user %d: %v", user.ID, err)
		fail(c, http.StatusInternalServerError, "Failed to load meals")
		return
	}

	events := make([]plan.Event, 0, len(meals))
	for _, m := range meals {
		events = append(events, m.Event())
	}
	c.JSON(http.StatusOK, events)
}

// ExportMeals returns the user's meals as an iCalendar file
// GET /meals.ics
func (h *Handler) ExportMeals(c *gin.Context) {
	user := auth.GetUserFromContext(c)

	meals, err := h.repo.ListForUser(user.ID)
	if err != nil {
		log.Printf("meals: export for user %d: %v", user.ID, err)
		fail(c, http.StatusInternalServerError, "Failed to load meals")
		return
	}

	// Encoded fully before the status goes out
	var buf bytes.Buffer
	err = h.writeCalendar(&buf, meals)
	if errors.Is(err, ErrNothingToExport) {
		fail(c, http.StatusNotFound, "No meals to export")
		return
	}
	if err != nil {
		log.Printf("meals: encode calendar for user %d: %v", user.ID, err)
		fail(c, http.StatusInternalServerError, "Failed to export meals")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="meals.ics"`)
	c.Data(http.StatusOK, ICalContentType, buf.Bytes())
}

// bindMeal decodes and validates a write body. On failure the response has
// already been written.
func bindMeal(c *gin.Context) (MealRequest, plan.Date, plan.MealType, bool) {
	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return req, plan.Date{}, "", false
	}

	req.Meal = strings.TrimSpace(req.Meal)
	if req.Meal == "" {
		fail(c, http.StatusBadRequest, "Meal description is required")
		return req, plan.Date{}, "", false
	}

	date, err := plan.ParseDate(req.Date)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid date format. Please use YYYY-MM-DD")
		return req, plan.Date{}, "", false
	}

	mealType, ok := plan.ParseMealType(req.MealType)
	if !ok {
		fail(c, http.StatusBadRequest, "Unknown meal type: "+req.MealType)
		return req, plan.Date{}, "", false
	}

	return req, date, mealType, true
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, MealResponse{Success: false, Error: message})
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
