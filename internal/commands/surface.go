package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"mealcal/internal/mealsync"
)

// TerminalSurface renders the meal form as plain text lines
type TerminalSurface struct {
	out       io.Writer
	in        *bufio.Reader
	assumeYes bool
}

// NewTerminalSurface creates a surface writing to out and reading answers
// from in. With assumeYes every confirmation is accepted.
func NewTerminalSurface(in io.Reader, out io.Writer, assumeYes bool) *TerminalSurface {
	return &TerminalSurface{out: out, in: bufio.NewReader(in), assumeYes: assumeYes}
}

func (s *TerminalSurface) ShowForm(view mealsync.FormView) {
	fmt.Fprintln(s.out, view.Title)
}

func (s *TerminalSurface) HideForm() {}

func (s *TerminalSurface) FlagInvalid() {
	fmt.Fprintln(s.out, "Please enter a meal description.")
}

func (s *TerminalSurface) Alert(message string) {
	fmt.Fprintln(s.out, message)
}

func (s *TerminalSurface) Confirm(message string) bool {
	if s.assumeYes {
		return true
	}
	fmt.Fprintf(s.out, "%s [y/N]: ", message)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
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
