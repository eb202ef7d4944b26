package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/lox/weatherapp/internal/state"
)

const sessionHelp = `Commands:
  search <location>   load the weather for a location
  fav [location]      add a favorite (default: current location)
  unfav [location]    remove a favorite (default: current location)
  favs                list favorites
  history             list recent searches
  units               toggle metric/imperial and reload
  refresh             reload the current location
  help                show this help
  quit                save and exit`

// session is a line-oriented interactive loop over an app.
type session struct {
	app *app
}

func newSession(a *app) *session {
	return &session{app: a}
}

// run reads commands until quit, end of input or cancellation.
func (s *session) run() error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.app.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-s.app.ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(s.app.out, `Type "help" for commands.`)
	for {
		s.prompt()
		select {
		case <-s.app.ctx.Done():
			fmt.Fprintln(s.app.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if !s.dispatch(line) {
				return nil
			}
		}
	}
}

func (s *session) prompt() {
	if loc := s.app.state.CurrentLocation(); loc != "" {
		fmt.Fprintf(s.app.out, "%s> ", loc)
		return
	}
	fmt.Fprint(s.app.out, "> ")
}

// dispatch runs one command line. It returns false when the session should end.
func (s *session) dispatch(line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	a := s.app

	switch strings.ToLower(cmd) {
	case "":
	case "search", "s":
		if arg == "" {
			fmt.Fprintln(a.out, "usage: search <location>")
			break
		}
		a.search(arg)
	case "fav":
		a.addFavorite(arg)
	case "unfav":
		a.removeFavorite(arg)
	case "favs", "favorites":
		renderNames(a.out, "Favorites", a.state.Favorites(), "No favorites")
	case "history":
		renderNames(a.out, "History", a.state.History(), state.NoHistory)
	case "units":
		a.toggleUnits()
	case "refresh":
		if loc := a.state.CurrentLocation(); loc != "" {
			a.search(loc)
		} else {
			fmt.Fprintln(a.out, "Nothing loaded yet.")
		}
	case "help", "?":
		fmt.Fprintln(a.out, sessionHelp)
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(a.out, "unknown command %q, try \"help\"\n", cmd)
	}
	return true
}
