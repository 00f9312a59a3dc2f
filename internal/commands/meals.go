package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"mealcal/internal/mealsync"
	"mealcal/internal/plan"
)

// List prints the user's meals ordered by date
func List(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(out)
	from := fs.String("from", "", "first day to show (YYYY-MM-DD)")
	to := fs.String("to", "", "last day to show (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var first, last plan.Date
	var err error
	if *from != "" {
		if first, err = plan.ParseDate(*from); err != nil {
			return err
		}
	}
	if *to != "" {
		if last, err = plan.ParseDate(*to); err != nil {
			return err
		}
	}

	ws, err := cfg.open(ctx, NewTerminalSurface(os.Stdin, out, false))
	if err != nil {
		return err
	}

	entries := ws.calendar.Events()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tMEAL\tID")
	shown := 0
	for _, e := range entries {
		if !first.IsZero() && e.Date.Before(first) {
			continue
		}
		if !last.IsZero() && last.Before(e.Date) {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Date, e.MealType, e.Description, e.ID)
		shown++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if shown == 0 {
		fmt.Fprintln(out, "No meals planned.")
	}
	return nil
}

// Add creates a meal through the sync controller
func Add(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(out)
	date := fs.String("date", "", "day of the meal (YYYY-MM-DD, required)")
	meal := fs.String("meal", "", "meal description (required)")
	mealType := fs.String("type", string(plan.DefaultMealType), "breakfast, lunch, dinner, snack or other")
	if err := fs.Parse(args); err != nil {
		return err
	}

	day, err := plan.ParseDate(*date)
	if err != nil {
		return err
	}
	kind, ok := plan.ParseMealType(*mealType)
	if !ok {
		return fmt.Errorf("unknown meal type %q", *mealType)
	}

	ws, err := cfg.open(ctx, NewTerminalSurface(os.Stdin, out, false))
	if err != nil {
		return err
	}
	if err := ws.ctrl.BeginCreate(day); err != nil {
		return err
	}
	result, err := ws.ctrl.Save(ctx, mealsync.Draft{Description: *meal, MealType: kind})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Added %s %q (%s)\n", result.Entry.MealType, result.Entry.Description, result.Entry.ID)
	return ws.settle(ctx)
}

// Edit changes the description or type of a saved meal. Omitted flags keep
// the current values.
func Edit(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(out)
	id := fs.String("id", "", "id of the meal (required)")
	meal := fs.String("meal", "", "new meal description")
	mealType := fs.String("type", "", "new meal type")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("edit: -id is required")
	}

	ws, err := cfg.open(ctx, NewTerminalSurface(os.Stdin, out, false))
	if err != nil {
		return err
	}
	if err := ws.ctrl.BeginEditByID(*id); err != nil {
		return err
	}

	draft := ws.ctrl.Draft()
	if *meal != "" {
		draft.Description = *meal
	}
	if *mealType != "" {
		kind, ok := plan.ParseMealType(*mealType)
		if !ok {
			ws.ctrl.Cancel()
			return fmt.Errorf("unknown meal type %q", *mealType)
		}
		draft.MealType = kind
	}

	result, err := ws.ctrl.Save(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated %s %q (%s)\n", result.Entry.MealType, result.Entry.Description, result.Entry.ID)
	return ws.settle(ctx)
}

// Delete removes a meal after confirmation
func Delete(ctx context.Context, cfg Config, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(out)
	id := fs.String("id", "", "id of the meal (required)")
	yes := fs.Bool("yes", false, "delete without asking")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("delete: -id is required")
	}

	ws, err := cfg.open(ctx, NewTerminalSurface(in, out, *yes))
	if err != nil {
		return err
	}
	if err := ws.ctrl.BeginEditByID(*id); err != nil {
		return err
	}

	result, err := ws.ctrl.ConfirmDelete(ctx)
	if err != nil {
		return err
	}
	if !result.Deleted {
		ws.ctrl.Cancel()
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}
	fmt.Fprintf(out, "Deleted %q (%s)\n", result.Entry.Description, result.Entry.ID)
	return ws.settle(ctx)
}

// Export writes the iCalendar file of all meals
func Export(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := cfg.token()
	if err != nil {
		return err
	}
	client := mealsync.NewClient(cfg.ServerURL, mealsync.WithToken(token))

	if *path == "" {
		return client.Export(ctx, out)
	}
	f, err := os.Create(*path)
	if err != nil {
		return err
	}
	if err := client.Export(ctx, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported meals to %s\n", *path)
	return nil
}

// settle reconciles after a write. Interrupting the wait is not an error.
func (ws *workspace) settle(ctx context.Context) error {
	if err := ws.pacer.Settle(ctx, ws.ctrl); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("refresh meals: %w", err)
	}
	return nil
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
