package plan

// Event is a meal in the JSON shape calendar widgets consume. It is the
// element type of the page-load list and of GET /meals.
type Event struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Start         string          `json:"start"`
	AllDay        bool            `json:"allDay"`
	ExtendedProps EventProperties `json:"extendedProps"`
}

// EventProperties carries the fields a calendar widget does not know about
type EventProperties struct {
	MealType string `json:"meal_type,omitempty"`
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
