package mealsync

import "mealcal/internal/plan"

// Surface is the modal form and alert machinery the controller drives
type Surface interface {
	ShowForm(view FormView)
	HideForm()
	// FlagInvalid marks the description field; the surface clears the cue
	// on its own.
	FlagInvalid()
	Alert(message string)
	Confirm(message string) bool
}

// FormView is everything the modal shows for one session
type FormView struct {
	Title       string
	SaveLabel   string
	ShowDelete  bool
	Description string
	MealType    plan.MealType
}

const (
	saveLabel   = "Save Meal"
	updateLabel = "Update Meal"

	confirmDeleteMessage = "Are you sure you want to delete this meal?"

	saveFailedMessage   = "Failed to save meal. Please try again."
	updateFailedMessage = "Failed to update meal. Please try again."
	deleteFailedMessage = "Failed to delete meal. Please try again."
)

func createView(date plan.Date) FormView {
	return FormView{
		Title:     "Add Meal for " + date.Pretty(),
		SaveLabel: saveLabel,
		MealType:  plan.DefaultMealType,
	}
}

func editView(entry MealEntry) FormView {
	return FormView{
		Title:       "Edit Meal for " + entry.Date.Pretty(),
		SaveLabel:   updateLabel,
		ShowDelete:  true,
		Description: entry.Description,
		MealType:    entry.MealType,
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
