package auth

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultCleanupInterval is how often expired sessions and states are purged
const DefaultCleanupInterval = 30 * time.Second

// Janitor periodically removes expired sessions and OAuth states
type Janitor struct {
	sessions *SessionStore
	states   *OAuthStateStore
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewJanitor creates a janitor; a zero interval uses DefaultCleanupInterval
func NewJanitor(sessions *SessionStore, states *OAuthStateStore, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &Janitor{
		sessions: sessions,
		states:   states,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background cleanup goroutine
func (j *Janitor) Start(ctx context.Context) {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-j.stopCh:
				return
			case <-ticker.C:
				j.Sweep()
			}
		}
	}()
}

// Stop gracefully stops the janitor and waits for it to exit
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
	j.wg.Wait()
}

// Sweep runs one cleanup pass
func (j *Janitor) Sweep() {
	if j.sessions != nil {
		if n, err := j.sessions.CleanupExpiredSessions(); err != nil {
			log.Printf("janitor: cleanup sessions: %v", err)
		} else if n > 0 {
			log.Printf("janitor: removed %d expired sessions", n)
		}
	}
	if j.states != nil {
		if _, err := j.states.CleanupExpiredStates(); err != nil {
			log.Printf("janitor: cleanup oauth states: %v", err)
		}
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
