package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"mealcal/internal/common"

	"golang.org/x/term"
)

// tokenReply is the data of a successful POST /api/auth/tokens
type tokenReply struct {
	Token string `json:"token"`
}

// Login exchanges email and password for a bearer token and stores it
func Login(ctx context.Context, cfg Config, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(out)
	email := fs.String("email", "", "account email")
	label := fs.String("label", "mealctl", "label for the issued token")
	printOnly := fs.Bool("print", false, "print the token instead of storing it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reader := bufio.NewReader(in)
	if *email == "" {
		fmt.Fprint(out, "Email: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading email: %w", err)
		}
		*email = strings.TrimSpace(line)
	}
	if *email == "" {
		return errors.New("email cannot be empty")
	}

	password, err := readPassword(in, reader, out)
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	token, err := requestToken(ctx, cfg.ServerURL, *email, password, *label)
	if err != nil {
		return err
	}

	if *printOnly {
		fmt.Fprintln(out, token)
		return nil
	}
	if err := cfg.storeToken(token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	fmt.Fprintf(out, "Logged in. Token saved to %s\n", cfg.TokenFile)
	return nil
}

// readPassword masks input when in is a terminal and reads a plain line
// from reader otherwise
func readPassword(in io.Reader, reader *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(password), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func requestToken(ctx context.Context, serverURL, email, password, label string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"label":    label,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(serverURL, "/") + "/api/auth/tokens"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("contacting %s: %w", serverURL, err)
	}
	defer res.Body.Close()

	var reply tokenReply
	envelope := common.APIResponse{Data: &reply}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("login failed with status %d", res.StatusCode)
	}
	if res.StatusCode != http.StatusCreated {
		if len(envelope.Errors) > 0 {
			return "", errors.New(strings.Join(envelope.Errors, "; "))
		}
		return "", fmt.Errorf("login failed with status %d", res.StatusCode)
	}
	if reply.Token == "" {
		return "", errors.New("server returned no token")
	}
	return reply.Token, nil
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
