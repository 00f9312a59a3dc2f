package mealsync

import (
	"context"
	"sync"
)

// Calendar is the rendered set of meal entries
type Calendar interface {
	Render() error
	AddEvent(entry MealEntry)
	GetEventByID(id string) (MealEntry, bool)
	RemoveEvent(id string) bool
	// RefetchEvents replaces the rendered set with the authoritative list.
	// On error the rendered set is left as it was.
	RefetchEvents(ctx context.Context) error
	Events() []MealEntry
	// ShowError replaces the calendar with a message after a fatal
	// startup failure.
	ShowError(message string)
}

// EventSource loads the authoritative meal list
type EventSource func(ctx context.Context) ([]MealEntry, error)

// MemoryCalendar keeps the rendered set in insertion order, keyed by id
type MemoryCalendar struct {
	mu       sync.RWMutex
	order    []string
	entries  map[string]MealEntry
	source   EventSource
	rendered bool
	errMsg   string
}

// NewMemoryCalendar creates a calendar holding initial. A nil source makes
// RefetchEvents a no-op.
func NewMemoryCalendar(initial []MealEntry, source EventSource) *MemoryCalendar {
	c := &MemoryCalendar{
		entries: make(map[string]MealEntry),
		source:  source,
	}
	c.replace(initial)
	return c
}

// Render marks the calendar as displayed
func (c *MemoryCalendar) Render() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rendered = true
	return nil
}

func (c *MemoryCalendar) Rendered() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rendered
}

// AddEvent inserts entry, replacing any entry with the same id in place
func (c *MemoryCalendar) AddEvent(entry MealEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[entry.ID]; !ok {
		c.order = append(c.order, entry.ID)
	}
	c.entries[entry.ID] = entry
}

func (c *MemoryCalendar) GetEventByID(id string) (MealEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[id]
	return entry, ok
}

// RemoveEvent drops the entry and reports whether it was rendered
func (c *MemoryCalendar) RemoveEvent(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; !ok {
		return false
	}
	delete(c.entries, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *MemoryCalendar) RefetchEvents(ctx context.Context) error {
	if c.source == nil {
		return nil
	}
	entries, err := c.source(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replace(entries)
	return nil
}

// Events returns a copy of the rendered set
func (c *MemoryCalendar) Events() []MealEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	events := make([]MealEntry, 0, len(c.order))
	for _, id := range c.order {
		events = append(events, c.entries[id])
	}
	return events
}

func (c *MemoryCalendar) ShowError(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = message
}

// ErrorMessage is the message set by ShowError, if any
func (c *MemoryCalendar) ErrorMessage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}

// replace must be called with c.mu held or before c is shared
func (c *MemoryCalendar) replace(entries []MealEntry) {
	c.order = c.order[:0]
	c.entries = make(map[string]MealEntry, len(entries))
	for _, entry := range entries {
		if _, ok := c.entries[entry.ID]; !ok {
			c.order = append(c.order, entry.ID)
		}
		c.entries[entry.ID] = entry
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
