package mealsync

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned by Save and Delete when no modal is open
	ErrNoSession = errors.New("no meal is being edited")

	// ErrRequestInFlight is returned when a write is issued while the
	// previous one has not completed
	ErrRequestInFlight = errors.New("a meal request is already in progress")

	// ErrNoMealID is returned by BeginEdit for an entry that was never saved
	ErrNoMealID = errors.New("meal entry has no id")
)

// ValidationError is a local input problem; nothing was sent to the server
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ServerRejection means the server answered with success=false
type ServerRejection struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerRejection) Error() string {
	return fmt.Sprintf("%s rejected (%d): %s", e.Op, e.Status, e.Message)
}

// TransportFailure means the request or its response could not be completed
type TransportFailure struct {
	Op  string
	Err error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportFailure) Unwrap() error { return e.Err }

// EnvironmentFailure is fatal: a collaborator the widget needs is missing
// or failed to start
type EnvironmentFailure struct {
	Component string
	Err       error
}

func (e *EnvironmentFailure) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s not available", e.Component)
	}
	return fmt.Sprintf("%s not available: %v", e.Component, e.Err)
}

func (e *EnvironmentFailure) Unwrap() error { return e.Err }

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
