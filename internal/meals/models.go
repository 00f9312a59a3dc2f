package meals

import (
	"time"

	"mealcal/internal/plan"
)

// Meal is a planned meal owned by one user
type Meal struct {
	ID          string        `json:"id"`
	UserID      int64         `json:"userId"`
	Date        plan.Date     `json:"date"`
	Description string        `json:"meal"`
	MealType    plan.MealType `json:"meal_type"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Event renders the meal in calendar widget form
func (m Meal) Event() plan.Event {
	return plan.Event{
		ID:     m.ID,
		Title:  m.Description,
		Start:  m.Date.String(),
		AllDay: true,
		ExtendedProps: plan.EventProperties{
			MealType: string(m.MealType),
		},
	}
}

// MealRequest is the body of /add_meal and /update_meal/:id
type MealRequest struct {
	Date     string `json:"date" binding:"required"`
	Meal     string `json:"meal"`
	MealType string `json:"meal_type"`
}

// MealResponse is the reply of every write endpoint
type MealResponse struct {
	Success bool   `json:"success"`
	MealID  string `json:"meal_id,omitempty"`
	Error   string `json:"error,omitempty"`
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
