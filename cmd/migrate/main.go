package main

import (
	"errors"
	"flag"
	"log"

	"mealcal/internal/env"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	path := flag.String("path", env.GetEnv(env.EnvDBPath, env.DefaultDBPath), "path to the database file")
	source := flag.String("source", env.GetEnv(env.EnvMigrationsURL, "file://internal/databases/migrations"), "migration source URL")
	down := flag.Bool("down", false, "roll back every migration instead of applying them")
	flag.Parse()

	m, err := migrate.New(*source, "sqlite3://"+*path)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal(err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Println("Database migration complete for", *path, "(no version)")
	case err != nil:
		log.Fatal(err)
	default:
		log.Printf("Database migration complete for %s at version %d (dirty=%v)", *path, version, dirty)
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
