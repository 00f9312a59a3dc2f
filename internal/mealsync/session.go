package mealsync

import "mealcal/internal/plan"

// SessionKind names the state of the editing session
type SessionKind int

const (
	Idle SessionKind = iota
	Creating
	Editing
)

func (k SessionKind) String() string {
	switch k {
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	default:
		return "idle"
	}
}

// Session is the one open add/edit modal. Values are immutable; every
// transition returns a new Session, so the meal id and the editing flag
// cannot drift apart.
type Session struct {
	kind   SessionKind
	date   plan.Date
	mealID string
}

// IdleSession is the neutral state: no modal open
func IdleSession() Session {
	return Session{}
}

// CreatingSession opens a draft for date
func CreatingSession(date plan.Date) Session {
	return Session{kind: Creating, date: date}
}

// EditingSession opens the saved meal id
func EditingSession(id string, date plan.Date) Session {
	return Session{kind: Editing, date: date, mealID: id}
}

func (s Session) Kind() SessionKind { return s.kind }

// Date is the day under edit; zero when idle
func (s Session) Date() plan.Date { return s.date }

// MealID is the meal under edit; empty unless editing
func (s Session) MealID() string { return s.mealID }

func (s Session) IsEditing() bool { return s.kind == Editing }

func (s Session) IsOpen() bool { return s.kind != Idle }

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
