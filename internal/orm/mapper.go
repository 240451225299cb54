package orm

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ConstraintClassifier reports whether a driver error is a constraint violation.
type ConstraintClassifier func(error) bool

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithConstraintClassifier sets the function that recognizes driver
// constraint errors. Without one, no error is reported as *ConstraintError.
func WithConstraintClassifier(fn ConstraintClassifier) MapperOption {
	return func(m *Mapper) { m.classify = fn }
}

// Mapper performs single-record operations against a database, each in its
// own transaction.
type Mapper struct {
	db       *sql.DB
	reg      *Registry
	classify ConstraintClassifier
}

// NewMapper binds reg to db.
func NewMapper(db *sql.DB, reg *Registry, opts ...MapperOption) *Mapper {
	m := &Mapper{db: db, reg: reg}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the registry the mapper was built with.
func (m *Mapper) Registry() *Registry {
	return m.reg
}

// InTx runs fn in a transaction, committing on success and rolling back on
// error. Constraint violations are not translated; see Translate.
func (m *Mapper) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Translate wraps err as a *ConstraintError when the classifier recognizes it.
func (m *Mapper) Translate(op, table string, err error) error {
	if err == nil {
		return nil
	}
	if m.classify != nil && m.classify(err) {
		log.Debug().Err(err).Str("op", op).Str("table", table).Msg("Constraint violation")
		return &ConstraintError{Op: op, Table: table, Err: err}
	}
	return err
}

type tableOp func(t *Table, ctx context.Context, q Querier, rec any) error

func (m *Mapper) run(ctx context.Context, op string, rec any, fn tableOp) error {
	t, err := m.reg.TableOf(rec)
	if err != nil {
		return err
	}
	err = m.InTx(ctx, func(tx *sql.Tx) error {
		return fn(t, ctx, tx, rec)
	})
	return m.Translate(op, t.Name, err)
}

// Insert inserts rec and fills its auto key.
func (m *Mapper) Insert(ctx context.Context, rec any) error {
	return m.run(ctx, "insert", rec, (*Table).Insert)
}

// Update rewrites rec's row.
func (m *Mapper) Update(ctx context.Context, rec any) error {
	return m.run(ctx, "update", rec, (*Table).Update)
}

// Delete removes rec's row and clears its auto key.
func (m *Mapper) Delete(ctx context.Context, rec any) error {
	return m.run(ctx, "delete", rec, (*Table).Delete)
}

// Get loads rec's row by the key already set on rec.
func (m *Mapper) Get(ctx context.Context, rec any) error {
	t, err := m.reg.TableOf(rec)
	if err != nil {
		return err
	}
	return t.Get(ctx, m.db, rec)
}
