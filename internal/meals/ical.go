package meals

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
)

const (
	ICalContentType = "text/calendar; charset=utf-8"
	icalProductID   = "-//MealCal//Meal Planner//EN"
)

// ErrNothingToExport is returned for an empty meal list; a VCALENDAR needs
// at least one component
var ErrNothingToExport = errors.New("no meals to export")

// WriteICal encodes meals as all-day events, one VEVENT per meal
func WriteICal(w io.Writer, meals []Meal) error {
	if len(meals) == 0 {
		return ErrNothingToExport
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icalProductID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	stamp := time.Now().UTC()
	for _, m := range meals {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, m.ID)
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		event.Props.SetDate(ical.PropDateTimeStart, m.Date.Time())
		event.Props.SetDate(ical.PropDateTimeEnd, m.Date.AddDays(1).Time())
		event.Props.SetText(ical.PropSummary, m.Description)
		event.Props.SetText(ical.PropCategories, strings.ToUpper(string(m.MealType)))
		event.Props.SetDateTime(ical.PropLastModified, m.UpdatedAt.UTC())
		cal.Children = append(cal.Children, event.Component)
	}

	return ical.NewEncoder(w).Encode(cal)
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
