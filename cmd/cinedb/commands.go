package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/cinedb/internal/config"
	"github.com/thebtf/cinedb/internal/db"
	"github.com/thebtf/cinedb/pkg/models"
)

// errUsage marks a command invoked with the wrong arguments.
var errUsage = errors.New("usage")

type app struct {
	catalog db.Catalog
	cfg     *config.Config
	out     io.Writer
}

type command struct {
	name  string
	usage string
	help  string
	run   func(a *app, ctx context.Context, args []string) error
}

var commands = []command{
	{"build", "build [-reset] [-seed dir]", "create the tables and import the seed files", (*app).build},
	{"adduser", "adduser [-admin] <name> <password>", "create a user", (*app).addUser},
	{"login", "login <name> <password>", "check a username and password", (*app).login},
	{"passwd", "passwd <user-id> <password>", "change a user's password", (*app).passwd},
	{"film", "film <id>", "show a film", (*app).film},
	{"best", "best <year> [n]", "list the best rated films of a year", (*app).best},
	{"cast", "cast <film-id>", "list the cast of a film", (*app).cast},
	{"roles", "roles <person-id>", "list the roles of a person", (*app).roles},
	{"search", "search <text>", "find people by name", (*app).search},
	{"tags", "tags", "list rating tags", (*app).tags},
	{"genres", "genres [film-id]", "list all genres or the genres of a film", (*app).genres},
	{"demo", "demo [-check] [-seed dir]", "rebuild the catalog and walk through every operation", (*app).demo},
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		err := c.run(a, ctx, args[1:])
		if errors.Is(err, errUsage) {
			return fmt.Errorf("%w: cinedb %s", errUsage, c.usage)
		}
		return err
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

// positional parses flags in fs and checks that between lo and hi
// arguments remain.
func positional(fs *flag.FlagSet, args []string, lo, hi int) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	rest := fs.Args()
	if len(rest) < lo || len(rest) > hi {
		return nil, errUsage
	}
	return rest, nil
}

func (a *app) build(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	reset := fs.Bool("reset", false, "drop the tables first")
	seedDir := fs.String("seed", a.cfg.SeedDir, "seed file directory")
	if _, err := positional(fs, args, 0, 0); err != nil {
		return err
	}

	report, err := a.catalog.Build(ctx, db.BuildOptions{Reset: *reset, SeedDir: *seedDir})
	if err != nil {
		return err
	}
	return a.print(report)
}

func (a *app) addUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	admin := fs.Bool("admin", false, "grant administrator rights")
	rest, err := positional(fs, args, 2, 2)
	if err != nil {
		return err
	}

	u := &models.User{Username: rest[0], Admin: *admin}
	if err := a.catalog.CreateUser(ctx, u, rest[1]); err != nil {
		return err
	}
	return a.print(u)
}

func (a *app) login(ctx context.Context, args []string) error {
	rest, err := positional(flag.NewFlagSet("login", flag.ContinueOnError), args, 2, 2)
	if err != nil {
		return err
	}

	u, err := a.catalog.Login(ctx, rest[0], rest[1])
	if err != nil {
		return err
	}
	if !u.Exists() {
		return errors.New("invalid username or password")
	}
	return a.print(u)
}

func (a *app) passwd(ctx context.Context, args []string) error {
	rest, err := positional(flag.NewFlagSet("passwd", flag.ContinueOnError), args, 2, 2)
	if err != nil {
		return err
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}

	u, err := a.catalog.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if !u.Exists() {
		return fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	if err := a.catalog.ChangePassword(ctx, &u, rest[1]); err != nil {
		return err
	}
	log.Info().Str("user", u.Username).Msg("Password changed")
	return nil
}

func (a *app) film(ctx context.Context, args []string) error {
	rest, err := positional(flag.NewFlagSet("film", flag.ContinueOnError), args, 1, 1)
	if err != nil {
		return err
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}

	f, err := a.catalog.GetFilmByID(ctx, id)
	if err != nil {
		return err
	}
	return a.print(f)
}

func (a *app) best(ctx context.Context, args []string) error {
	rest, err := positional(flag.NewFlagSet("best", flag.ContinueOnError), args, 1, 2)
	if err != nil {
		return err
	}
	year, err := strconv.Atoi(rest[0])
	if err != nil {
		return fmt.Errorf("invalid year %q: %w", rest[0], err)
	}
	limit := 0
	if len(rest) == 2 {
		if limit, err = strconv.Atoi(rest[1]); err != nil {
			return fmt.Errorf("invalid count %q: %w", rest[1], err)
		}
	}

	films, err := a.catalog.BestInYear(ctx, year, limit)
	if err != nil {
		return err
	}
	return a.print(films)
}

func (a *app) cast(ctx context.Context, args []string) error {
	rest, err := positional(flag.NewFlagSet("cast", flag.ContinueOnError), args, 1, 1)
	if err != nil {
		return err
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}

	credits, err := a.catalog.Cast(ctx, id)
	if err != nil {
		return err
	}
	return a.print(credits)
}

func (a *app) roles(ctx context.Context, args []string) error {
	rest, err := positional(flag.NewFlagSet("roles", flag.ContinueOnError), args, 1, 1)
	if err != nil {
		return err
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}

	credits, err := a.catalog.Filmography(ctx, id)
	if err != nil {
		return err
	}
	return a.print(credits)
}

func (a *app) search(ctx context.Context, args []string) error {
	rest, err := positional(flag.NewFlagSet("search", flag.ContinueOnError), args, 1, 1)
	if err != nil {
		return err
	}

	people, err := a.catalog.SearchPeople(ctx, rest[0])
	if err != nil {
		return err
	}
	return a.print(people)
}

func (a *app) tags(ctx context.Context, args []string) error {
	if _, err := positional(flag.NewFlagSet("tags", flag.ContinueOnError), args, 0, 0); err != nil {
		return err
	}

	tags, err := a.catalog.ListTags(ctx)
	if err != nil {
		return err
	}
	return a.print(tags)
}

func (a *app) genres(ctx context.Context, args []string) error {
	rest, err := positional(flag.NewFlagSet("genres", flag.ContinueOnError), args, 0, 1)
	if err != nil {
		return err
	}

	var genres []*models.Genre
	if len(rest) == 0 {
		genres, err = a.catalog.ListGenres(ctx)
	} else {
		var id int64
		if id, err = parseID(rest[0]); err != nil {
			return err
		}
		genres, err = a.catalog.GenresOfFilm(ctx, id)
	}
	if err != nil {
		return err
	}
	return a.print(genres)
}
