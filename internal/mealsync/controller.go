package mealsync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"mealcal/internal/plan"
)

// Result describes a completed write
type Result struct {
	Entry   MealEntry
	Created bool
	Deleted bool
}

// Controller keeps a Calendar consistent with the server while the user
// adds, edits and deletes meals. It holds at most one open Session and
// issues at most one write at a time.
type Controller struct {
	calendar Calendar
	api      API
	surface  Surface
	logger   *log.Logger

	mu      sync.Mutex
	session Session
	// generation changes whenever a session is opened or closed
	generation uint64
	draft      Draft
	busy       bool
	failure    error
}

type Option func(*Controller)

// WithLogger routes controller logging to logger instead of log.Default()
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a new Controller in the idle state. Call Mount
// before any other method.
func NewController(calendar Calendar, api API, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		calendar: calendar,
		api:      api,
		surface:  surface,
		logger:   log.Default(),
		session:  IdleSession(),
		draft:    EmptyDraft(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount renders the calendar. A missing collaborator or a failing render
// is an EnvironmentFailure; after one, every operation returns it.
func (c *Controller) Mount() error {
	var failure error
	switch {
	case c.calendar == nil:
		failure = &EnvironmentFailure{Component: "calendar"}
	case c.api == nil:
		failure = &EnvironmentFailure{Component: "meal api"}
	case c.surface == nil:
		failure = &EnvironmentFailure{Component: "meal form"}
	default:
		if err := c.calendar.Render(); err != nil {
			failure = &EnvironmentFailure{Component: "calendar", Err: err}
			c.calendar.ShowError("Error loading calendar. Please refresh the page.")
		}
	}

	c.mu.Lock()
	c.failure = failure
	c.mu.Unlock()

	if failure != nil {
		c.logger.Printf("Meal calendar failed to start: %v", failure)
	}
	return failure
}

// Session returns the current session
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Draft returns the form fields the current session was opened with
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// BeginCreate opens an empty form for date. An already open session is
// replaced.
func (c *Controller) BeginCreate(date plan.Date) error {
	if date.IsZero() {
		return &ValidationError{Field: "date", Message: "a date is required"}
	}

	c.mu.Lock()
	if c.failure != nil {
		c.mu.Unlock()
		return c.failure
	}
	c.session = CreatingSession(date)
	c.generation++
	c.draft = EmptyDraft()
	c.mu.Unlock()

	c.surface.ShowForm(createView(date))
	return nil
}

// BeginEdit opens the form populated with a saved entry
func (c *Controller) BeginEdit(entry MealEntry) error {
	if entry.IsDraft() {
		return ErrNoMealID
	}
	entry.MealType = plan.NormalizeMealType(string(entry.MealType))

	c.mu.Lock()
	if c.failure != nil {
		c.mu.Unlock()
		return c.failure
	}
	c.session = EditingSession(entry.ID, entry.Date)
	c.generation++
	c.draft = Draft{Description: entry.Description, MealType: entry.MealType}
	c.mu.Unlock()

	c.surface.ShowForm(editView(entry))
	return nil
}

// BeginEditByID opens the form for a rendered entry
func (c *Controller) BeginEditByID(id string) error {
	if err := c.failed(); err != nil {
		return err
	}
	entry, ok := c.calendar.GetEventByID(id)
	if !ok {
		return fmt.Errorf("meal %q is not on the calendar", id)
	}
	return c.BeginEdit(entry)
}

// Save validates draft and sends exactly one create or update request.
// The rendered set changes only after the server accepts the write.
func (c *Controller) Save(ctx context.Context, draft Draft) (Result, error) {
	description := strings.TrimSpace(draft.Description)
	mealType := plan.NormalizeMealType(string(draft.MealType))

	session, generation, err := c.acquire()
	if err != nil {
		return Result{}, err
	}

	if description == "" {
		c.release(generation, false)
		c.surface.FlagInvalid()
		return Result{}, &ValidationError{Field: "meal", Message: "a meal description is required"}
	}

	payload := MealPayload{
		Date:     session.Date().String(),
		Meal:     description,
		MealType: string(mealType),
	}

	id := session.MealID()
	if session.IsEditing() {
		err = c.api.UpdateMeal(ctx, id, payload)
	} else {
		id, err = c.api.AddMeal(ctx, payload)
	}
	if err != nil {
		c.release(generation, false)
		generic := saveFailedMessage
		if session.IsEditing() {
			generic = updateFailedMessage
		}
		c.reportFailure(err, generic)
		return Result{}, err
	}

	entry := MealEntry{
		ID:          id,
		Date:        session.Date(),
		Description: description,
		MealType:    mealType,
	}
	if session.IsEditing() {
		c.calendar.RemoveEvent(id)
	}
	c.calendar.AddEvent(entry)

	c.logger.Printf("Saved meal %s on %s", id, entry.Date)
	if c.release(generation, true) {
		c.surface.HideForm()
	}
	return Result{Entry: entry, Created: !session.IsEditing()}, nil
}

// Delete removes the meal of the open edit session
func (c *Controller) Delete(ctx context.Context) (Result, error) {
	session, generation, err := c.acquire()
	if err != nil {
		return Result{}, err
	}
	if !session.IsEditing() {
		c.release(generation, false)
		return Result{}, ErrNoSession
	}

	id := session.MealID()
	entry, ok := c.calendar.GetEventByID(id)
	if !ok {
		entry = MealEntry{ID: id, Date: session.Date()}
	}

	if err := c.api.DeleteMeal(ctx, id); err != nil {
		c.release(generation, false)
		c.reportFailure(err, deleteFailedMessage)
		return Result{}, err
	}

	c.calendar.RemoveEvent(id)
	c.logger.Printf("Deleted meal %s", id)
	if c.release(generation, true) {
		c.surface.HideForm()
	}
	return Result{Entry: entry, Deleted: true}, nil
}

// ConfirmDelete asks the user before deleting. A declined prompt returns
// a zero Result and no error.
func (c *Controller) ConfirmDelete(ctx context.Context) (Result, error) {
	if err := c.failed(); err != nil {
		return Result{}, err
	}
	if !c.Session().IsEditing() {
		return Result{}, ErrNoSession
	}
	if !c.surface.Confirm(confirmDeleteMessage) {
		return Result{}, nil
	}
	return c.Delete(ctx)
}

// Cancel closes the form without touching the server
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.session = IdleSession()
	c.generation++
	c.draft = EmptyDraft()
	c.mu.Unlock()

	if c.surface != nil {
		c.surface.HideForm()
	}
}

// Reconcile reloads the rendered set from the server. On failure the
// rendered set keeps its current contents.
func (c *Controller) Reconcile(ctx context.Context) error {
	if err := c.failed(); err != nil {
		return err
	}

	if err := c.calendar.RefetchEvents(ctx); err != nil {
		c.logger.Printf("Error refreshing meals: %v", err)
		return err
	}
	return nil
}

// failed returns the EnvironmentFailure recorded by Mount, if any
func (c *Controller) failed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// acquire claims the write slot for the open session and returns the
// session with its generation
func (c *Controller) acquire() (Session, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failure != nil {
		return Session{}, 0, c.failure
	}
	if !c.session.IsOpen() {
		return Session{}, 0, ErrNoSession
	}
	if c.busy {
		return Session{}, 0, ErrRequestInFlight
	}
	c.busy = true
	return c.session, c.generation, nil
}

// release frees the write slot. When done is set and no session was
// opened or closed since the write was issued, the session is closed; the
// return value reports whether that happened.
func (c *Controller) release(issued uint64, done bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.busy = false
	if !done || c.generation != issued {
		return false
	}
	c.session = IdleSession()
	c.generation++
	c.draft = EmptyDraft()
	return true
}

// reportFailure alerts the server's message, or generic when the request
// never got an answer
func (c *Controller) reportFailure(err error, generic string) {
	var rejected *ServerRejection
	if errors.As(err, &rejected) {
		c.logger.Printf("Server rejected meal request: %v", err)
		c.surface.Alert("Error: " + rejected.Message)
		return
	}
	c.logger.Printf("Meal request failed: %v", err)
	c.surface.Alert(generic)
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
