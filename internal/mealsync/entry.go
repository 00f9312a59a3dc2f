package mealsync

import (
	"encoding/json"
	"fmt"
	"log"

	"mealcal/internal/plan"
)

// MealEntry is a meal as the calendar renders it. ID is empty until the
// server has accepted the entry.
type MealEntry struct {
	ID          string
	Date        plan.Date
	Description string
	MealType    plan.MealType
}

// IsDraft reports whether the entry was never saved
func (e MealEntry) IsDraft() bool {
	return e.ID == ""
}

// Event converts the entry to the calendar widget shape
func (e MealEntry) Event() plan.Event {
	return plan.Event{
		ID:     e.ID,
		Title:  e.Description,
		Start:  e.Date.String(),
		AllDay: true,
		ExtendedProps: plan.EventProperties{
			MealType: string(e.MealType),
		},
	}
}

// EntryFromEvent converts a calendar event. A missing meal type becomes
// the default type.
func EntryFromEvent(ev plan.Event) (MealEntry, error) {
	date, err := plan.ParseDate(ev.Start)
	if err != nil {
		return MealEntry{}, fmt.Errorf("event %q: %w", ev.ID, err)
	}
	return MealEntry{
		ID:          ev.ID,
		Date:        date,
		Description: ev.Title,
		MealType:    plan.NormalizeMealType(ev.ExtendedProps.MealType),
	}, nil
}

// Draft holds the form fields of the open session
type Draft struct {
	Description string
	MealType    plan.MealType
}

// EmptyDraft is the form state of a fresh create session
func EmptyDraft() Draft {
	return Draft{MealType: plan.DefaultMealType}
}

// ParseInitialEntries decodes the meal list serialized into the page at
// load time. Malformed input yields an empty calendar, never an error.
// Entries without an id or with a bad date are skipped; for duplicate ids
// the last one wins.
func ParseInitialEntries(raw []byte) []MealEntry {
	var events []plan.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		log.Printf("Error parsing meals data: %v", err)
		return []MealEntry{}
	}

	index := make(map[string]int, len(events))
	entries := make([]MealEntry, 0, len(events))
	for _, ev := range events {
		if ev.ID == "" {
			continue
		}
		entry, err := EntryFromEvent(ev)
		if err != nil {
			log.Printf("Skipping meal: %v", err)
			continue
		}
		if i, ok := index[entry.ID]; ok {
			entries[i] = entry
			continue
		}
		index[entry.ID] = len(entries)
		entries = append(entries, entry)
	}
	log.Printf("Loaded %d meals for the calendar", len(entries))
	return entries
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
