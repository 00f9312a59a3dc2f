package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mealcal/internal/commands"

	"github.com/joho/godotenv"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: mealctl <command> [OPTIONS]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  login    Sign in and store an API token\n")
	fmt.Fprintf(os.Stderr, "  list     Show planned meals\n")
	fmt.Fprintf(os.Stderr, "  add      Plan a meal: -date 2024-03-15 -meal \"Pasta\" -type dinner\n")
	fmt.Fprintf(os.Stderr, "  edit     Change a meal: -id <id> [-meal ...] [-type ...]\n")
	fmt.Fprintf(os.Stderr, "  delete   Remove a meal: -id <id> [-yes]\n")
	fmt.Fprintf(os.Stderr, "  export   Download the iCalendar file: [-o meals.ics]\n")
	fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
	fmt.Fprintf(os.Stderr, "  MEALCAL_SERVER        Server URL (default: http://localhost:9237)\n")
	fmt.Fprintf(os.Stderr, "  MEALCAL_TOKEN         API token, overrides the stored one\n")
	fmt.Fprintf(os.Stderr, "  MEALCAL_SETTLE_DELAY  Wait before refreshing after a change (default: 1s)\n")
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := commands.LoadConfig()
	args := os.Args[2:]

	var err error
	switch os.Args[1] {
	case "login":
		err = commands.Login(ctx, cfg, args, os.Stdin, os.Stdout)
	case "list":
		err = commands.List(ctx, cfg, args, os.Stdout)
	case "add":
		err = commands.Add(ctx, cfg, args, os.Stdout)
	case "edit":
		err = commands.Edit(ctx, cfg, args, os.Stdout)
	case "delete":
		err = commands.Delete(ctx, cfg, args, os.Stdin, os.Stdout)
	case "export":
		err = commands.Export(ctx, cfg, args, os.Stdout)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
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
