package mealsync

import (
	"context"
	"time"
)

// DefaultSettleDelay is how long the server is given to settle after a
// write before the calendar is reloaded
const DefaultSettleDelay = time.Second

// Pacer runs the post-write reconciliation for interactive callers
type Pacer struct {
	Delay time.Duration
}

// NewPacer creates a Pacer; a negative delay reconciles immediately
func NewPacer(delay time.Duration) Pacer {
	if delay < 0 {
		delay = 0
	}
	return Pacer{Delay: delay}
}

// Settle waits for the delay, then reconciles c. It returns early with
// the context error if ctx ends first.
func (p Pacer) Settle(ctx context.Context, c *Controller) error {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return c.Reconcile(ctx)
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
