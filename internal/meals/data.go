package meals

import (
	"database/sql"
	"time"

	"mealcal/internal/plan"

	"github.com/google/uuid"
)

// Repository stores meals. Every call is scoped to the owning user.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new meal repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new meal under a fresh id
func (r *Repository) Create(userID int64, date plan.Date, description string, mealType plan.MealType) (*Meal, error) {
	now := time.Now().UTC()
	m := &Meal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Date:        date,
		Description: description,
		MealType:    mealType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := r.db.Exec(`
		INSERT INTO meals (id, user_id, date, meal, meal_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.UserID, m.Date, m.Description, m.MealType, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Update replaces the date, description and type of a meal.
// It reports false when the user owns no meal with that id.
func (r *Repository) Update(userID int64, id string, date plan.Date, description string, mealType plan.MealType) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE meals SET date = ?, meal = ?, meal_type = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, date, description, mealType, time.Now().UTC(), id, userID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// Delete removes a meal. It reports false when nothing was removed.
func (r *Repository) Delete(userID int64, id string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM meals WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// GetByID returns a meal, or nil when the user owns none with that id
func (r *Repository) GetByID(userID int64, id string) (*Meal, error) {
	var m Meal
	err := r.db.QueryRow(`
		SELECT id, user_id, date, meal, meal_type, created_at, updated_at
		FROM meals WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&m.ID, &m.UserID, &m.Date, &m.Description, &m.MealType, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListForUser returns all meals of a user ordered by date
func (r *Repository) ListForUser(userID int64) ([]Meal, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, date, meal, meal_type, created_at, updated_at
		FROM meals WHERE user_id = ?
		ORDER BY date, created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Avoid nil slices in JSON response
	result := []Meal{}
	for rows.Next() {
		var m Meal
		if err := rows.Scan(&m.ID, &m.UserID, &m.Date, &m.Description, &m.MealType, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
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
