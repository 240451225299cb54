package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/cinedb/internal/db"
	"github.com/thebtf/cinedb/pkg/models"
)

// demoReport summarizes a demo run.
type demoReport struct {
	Tables   []db.TableCount `json:"tables"`
	User     models.User     `json:"user"`
	Tags     int             `json:"tags"`
	Film     *models.Film    `json:"film"`
	Best     *models.Film    `json:"best,omitempty"`
	BestCast int             `json:"best_cast"`
	Person   *models.Person  `json:"person,omitempty"`
	Roles    int             `json:"roles"`
}

// demoExpect holds the counts a demo run over the full seed set produces.
type demoExpect struct {
	Tags     int
	FilmID   int64
	BestCast int
	Roles    int
}

// fullSeed is what a demo over the complete seed files produces.
var fullSeed = demoExpect{Tags: 11, FilmID: 10324145, BestCast: 5, Roles: 39}

// check compares r with want and reports every mismatch.
func (r *demoReport) check(want demoExpect) error {
	var errs []error
	mismatch := func(what string, got, expected int64) {
		if got != expected {
			errs = append(errs, fmt.Errorf("%s: got %d, want %d", what, got, expected))
		}
	}
	mismatch("tags", int64(r.Tags), int64(want.Tags))
	var filmID int64
	if r.Film != nil {
		filmID = r.Film.ID
	}
	mismatch("new film id", filmID, want.FilmID)
	mismatch("cast of best 2008 film", int64(r.BestCast), int64(want.BestCast))
	mismatch("roles of Brad Pitt", int64(r.Roles), int64(want.Roles))
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("demo check failed: %w", err)
	}
	return nil
}

// demo rebuilds the catalog from the seed files and exercises each store.
func (a *app) demo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	seedDir := fs.String("seed", a.cfg.SeedDir, "seed file directory")
	check := fs.Bool("check", false, "verify the counts of the full seed set")
	if _, err := positional(fs, args, 0, 0); err != nil {
		return err
	}
	c := a.catalog
	var rep demoReport

	built, err := c.Build(ctx, db.BuildOptions{Reset: true, SeedDir: *seedDir})
	if err != nil {
		return err
	}
	rep.Tables = built.Tables

	micka := &models.User{Username: "micka"}
	err = c.CreateUser(ctx, micka, "geselce")
	switch {
	case errors.Is(err, models.ErrValidation):
		log.Info().Str("user", micka.Username).Msg("User already imported")
	case err != nil:
		return err
	}
	if rep.User, err = c.Login(ctx, "micka", "geselce"); err != nil {
		return err
	}
	if !rep.User.Exists() || (micka.ID != 0 && rep.User.ID != micka.ID) {
		return errors.New("demo: login as micka failed")
	}
	if nobody, err := c.Login(ctx, "janez", "geselce"); err != nil || nobody.Exists() {
		return fmt.Errorf("demo: unknown user logged in: %v", err)
	}

	if rep.Tags, err = c.CountTags(ctx); err != nil {
		return err
	}

	film := &models.Film{Title: "Podatkovne baze 2", Length: 100, Year: 2026, Rating: 10}
	if err := c.CreateFilm(ctx, film); err != nil {
		return err
	}
	film.Description = models.StringPtr("Zelo zanimiv film!")
	if err := c.UpdateFilm(ctx, film); err != nil {
		return err
	}
	if rep.Film, err = c.GetFilmByID(ctx, film.ID); err != nil {
		return err
	}
	if rep.Film.Description == nil || *rep.Film.Description != *film.Description {
		return errors.New("demo: film description was not updated")
	}

	best, err := c.BestInYear(ctx, 2008, 1)
	if err != nil {
		return err
	}
	if len(best) > 0 {
		rep.Best = best[0]
		cast, err := c.Cast(ctx, rep.Best.ID)
		if err != nil {
			return err
		}
		rep.BestCast = len(cast)
	}

	people, err := c.SearchPeople(ctx, "Brad Pitt")
	if err != nil {
		return err
	}
	if len(people) > 0 {
		rep.Person = people[0]
		roles, err := c.Filmography(ctx, rep.Person.ID)
		if err != nil {
			return err
		}
		rep.Roles = len(roles)
	}

	if err := a.print(rep); err != nil {
		return err
	}
	if *check {
		return rep.check(fullSeed)
	}
	return nil
}
