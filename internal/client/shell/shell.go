// Package shell is the interactive front end of the memorial client.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/atinyakov/memorial/internal/client/api"
	"github.com/atinyakov/memorial/internal/client/auth"
	"github.com/atinyakov/memorial/internal/client/state"
	"github.com/atinyakov/memorial/internal/models"
	"github.com/atinyakov/memorial/internal/search"
)

// Deps are the client components the shell drives.
type Deps struct {
	API       *api.Client
	Auth      *auth.State
	Heroes    *state.List[models.Hero]
	Monuments *state.List[models.Monument]
	Log       *zap.Logger
}

type command struct {
	usage string
	help  string
	// admin commands need an authenticated session.
	admin bool
	// text commands take the rest of the line verbatim as one argument.
	text  bool
	run   func(ctx context.Context, args []string) error
}

// Shell reads commands and prints results.
type Shell struct {
	Deps
	in  *prompter
	out io.Writer

	heroQuery      string
	heroFacets     search.HeroFacets
	monumentQuery  string
	monumentFacets search.MonumentFacets

	commands map[string]command
}

// New builds a shell reading from in and writing to out.
func New(d Deps, in io.Reader, out io.Writer) *Shell {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	s := &Shell{Deps: d, in: newPrompter(in, out), out: out}
	s.commands = map[string]command{
		"help":   {usage: "help", help: "list commands", run: s.cmdHelp},
		"login":  {usage: "login [login]", help: "enter edit mode", run: s.cmdLogin},
		"logout": {usage: "logout", help: "leave edit mode", run: s.cmdLogout},
		"whoami": {usage: "whoami", help: "verify the session with the server", run: s.cmdWhoami},

		"heroes":      {usage: "heroes [all|found|missing]", help: "list heroes matching the current filter", run: s.cmdHeroes},
		"search":      {usage: "search [text]", help: "filter heroes by name, unit or hometown", text: true, run: s.cmdSearch},
		"rank":        {usage: "rank [rank]", help: "filter heroes by rank (empty clears)", text: true, run: s.cmdRank},
		"region":      {usage: "region [region]", help: "filter heroes by region (empty clears)", text: true, run: s.cmdRegion},
		"filters":     {usage: "filters", help: "show filters and their options", run: s.cmdFilters},
		"stats":       {usage: "stats", help: "count heroes by fate", run: s.cmdStats},
		"hero":        {usage: "hero <id>", help: "show a hero with documents and files", run: s.cmdHero},
		"add-hero":    {usage: "add-hero", help: "create a hero", admin: true, run: s.cmdAddHero},
		"edit-hero":   {usage: "edit-hero <id>", help: "edit a hero", admin: true, run: s.cmdEditHero},
		"delete-hero": {usage: "delete-hero <id>", help: "delete a hero", admin: true, run: s.cmdDeleteHero},

		"monuments":       {usage: "monuments [text]", help: "list monuments by name or settlement", text: true, run: s.cmdMonuments},
		"monument-type":   {usage: "monument-type [type]", help: "filter monuments by type (empty clears)", text: true, run: s.cmdMonumentType},
		"monument":        {usage: "monument <id>", help: "show a monument with photos", run: s.cmdMonument},
		"add-monument":    {usage: "add-monument", help: "create a monument", admin: true, run: s.cmdAddMonument},
		"edit-monument":   {usage: "edit-monument <id>", help: "edit a monument", admin: true, run: s.cmdEditMonument},
		"delete-monument": {usage: "delete-monument <id>", help: "delete a monument", admin: true, run: s.cmdDeleteMonument},

		"upload": {usage: "upload <path> [folder]", help: "upload a file and print its URL", admin: true, run: s.cmdUpload},
		"files":  {usage: "files <hero-id>", help: "list files attached to a hero", run: s.cmdFiles},
		"attach": {usage: "attach <hero-id> <path> [photo|document]", help: "attach a file to a hero", admin: true, run: s.cmdAttach},
		"detach": {usage: "detach <file-id>", help: "remove an attached file", admin: true, run: s.cmdDetach},
		"submit": {usage: "submit", help: "send materials about a hero for moderation", run: s.cmdSubmit},
	}
	return s
}

// Run executes commands until exit, end of input or ctx cancellation.
// Command errors are printed and never stop the loop.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(s.out, s.promptText())
		line, err := s.in.line()
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		args := s.splitLine(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			fmt.Fprintln(s.out, "Bye")
			return nil
		}
		if err := s.Exec(ctx, args); err != nil {
			if errors.Is(err, errInputClosed) {
				return nil
			}
			s.report(err)
		}
	}
}

// splitLine splits line into words. For text commands the remainder after
// the command word is kept as a single argument with inner spacing intact.
func (s *Shell) splitLine(line string) []string {
	args := strings.Fields(line)
	if len(args) < 2 || !s.commands[args[0]].text {
		return args
	}
	rest := strings.TrimLeftFunc(line, unicode.IsSpace)
	rest = strings.TrimSpace(rest[len(args[0]):])
	return []string{args[0], rest}
}

// Exec runs a single command.
func (s *Shell) Exec(ctx context.Context, args []string) error {
	cmd, ok := s.commands[args[0]]
	if !ok {
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
		return nil
	}
	if cmd.admin && !s.Auth.IsAuthenticated() {
		fmt.Fprintf(s.out, "%s is available in edit mode only; use 'login' first\n", args[0])
		return nil
	}
	return cmd.run(ctx, args[1:])
}

func (s *Shell) promptText() string {
	if sess := s.Auth.Session(); sess.IsAuthenticated() {
		return fmt.Sprintf("memorial(%s)> ", sess.Login)
	}
	return "memorial> "
}

// report prints an error in terms of what the user can do about it.
func (s *Shell) report(err error) {
	var (
		ve *models.ValidationError
		rf *api.RequestFailedError
		te *api.TransportError
		ue *api.UploadFailedError
		re *api.ReadFailedError
	)
	switch {
	case errors.As(err, &ve):
		fmt.Fprintf(s.out, "Please fill in the required fields: %s\n", strings.Join(ve.Fields, ", "))
	case errors.Is(err, state.ErrBusy):
		fmt.Fprintln(s.out, "The previous request is still in progress, please wait.")
	case api.IsUnauthorized(err):
		fmt.Fprintln(s.out, "The server rejected the session; log in again.")
	case errors.As(err, &rf):
		fmt.Fprintf(s.out, "Error: %s\n", err)
	case errors.As(err, &ue):
		fmt.Fprintf(s.out, "Upload failed: %s\n", err)
	case errors.As(err, &re):
		fmt.Fprintf(s.out, "Cannot read file: %s\n", err)
	case errors.As(err, &te):
		fmt.Fprintf(s.out, "Server unreachable: %s\n", te.Err)
	default:
		fmt.Fprintf(s.out, "Error: %s\n", err)
	}
	s.Log.Debug("command failed", zap.Error(err))
}

func (s *Shell) cmdHelp(_ context.Context, _ []string) error {
	names := make([]string, 0, len(s.commands))
	for n := range s.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	editMode := s.Auth.IsAuthenticated()
	fmt.Fprintln(s.out, "Available commands:")
	for _, n := range names {
		c := s.commands[n]
		if c.admin && !editMode {
			continue
		}
		fmt.Fprintf(s.out, "  %-42s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(s.out, "  %-42s %s\n", "exit", "leave the shell")
	if !editMode {
		fmt.Fprintln(s.out, "Log in to see editing commands.")
	}
	return nil
}

func (s *Shell) cmdLogin(ctx context.Context, args []string) error {
	login := ""
	if len(args) > 0 {
		login = args[0]
	} else {
		var err error
		if login, err = s.in.ask("Login", ""); err != nil {
			return err
		}
	}
	password, err := s.in.password("Password")
	if err != nil {
		return err
	}

	sess, err := s.API.Auth().Login(ctx, login, password)
	if err != nil {
		if api.IsUnauthorized(err) {
			fmt.Fprintln(s.out, "Invalid login or password.")
			return nil
		}
		return err
	}
	if err := s.Auth.Login(sess.Token, sess.Login); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Logged in as %s. Edit mode enabled.\n", sess.Login)
	return nil
}

func (s *Shell) cmdLogout(_ context.Context, _ []string) error {
	if err := s.Auth.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Logged out.")
	return nil
}

func (s *Shell) cmdWhoami(ctx context.Context, _ []string) error {
	if !s.Auth.IsAuthenticated() {
		fmt.Fprintln(s.out, "Not logged in.")
		return nil
	}
	login, err := s.API.Auth().Verify(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Logged in as %s.\n", login)
	return nil
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func yearString(y *int) string {
	if y == nil {
		return "?"
	}
	return strconv.Itoa(*y)
}
