package plan

import "strings"

// MealType tags a meal with a slot of the day
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealOther     MealType = "other"

	DefaultMealType = MealOther
)

// MealTypes lists the vocabulary in display order
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack, MealOther}

// Valid reports whether t is part of the vocabulary
func (t MealType) Valid() bool {
	for _, known := range MealTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseMealType accepts a vocabulary value in any case. Empty input is the
// default type; anything else unknown is rejected.
func ParseMealType(s string) (MealType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultMealType, true
	}
	t := MealType(s)
	return t, t.Valid()
}

// NormalizeMealType is ParseMealType falling back to the default type
func NormalizeMealType(s string) MealType {
	t, ok := ParseMealType(s)
	if !ok {
		return DefaultMealType
	}
	return t
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
