package orm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Kind distinguishes entity tables from relationship tables.
type Kind int

const (
	// EntityKind tables have a single-column key.
	EntityKind Kind = iota
	// RelationKind tables are keyed by the entities they link.
	RelationKind
)

func (k Kind) String() string {
	if k == RelationKind {
		return "relation"
	}
	return "entity"
}

// Querier is the subset of *sql.DB / *sql.Tx / *sql.Conn the package needs.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Table is the mapping of one struct type onto one table.
type Table struct {
	Name   string
	Kind   Kind
	Type   reflect.Type
	Fields []*Field
	Key    []*Field
	Unique [][]string

	byName map[string]*Field
}

// Field returns the field mapped to column name.
func (t *Table) Field(name string) (*Field, bool) {
	f, ok := t.byName[name]
	return f, ok
}

// Columns returns all column names in declaration order.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		cols[i] = f.Name
	}
	return cols
}

// autoKey returns the auto-assigned key of an entity table, if any.
func (t *Table) autoKey() *Field {
	if t.Kind == EntityKind && len(t.Key) == 1 && t.Key[0].Auto {
		return t.Key[0]
	}
	return nil
}

func (t *Table) insertFields() []*Field {
	fields := make([]*Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		if !f.Auto {
			fields = append(fields, f)
		}
	}
	return fields
}

func (t *Table) valueFields() []*Field {
	fields := make([]*Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		if !f.Key {
			fields = append(fields, f)
		}
	}
	return fields
}

func keyCondition(keys []*Field) string {
	parts := make([]string, len(keys))
	for i, f := range keys {
		parts[i] = f.Name + " = ?"
	}
	return strings.Join(parts, " AND ")
}

func fieldNames(fields []*Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// CreateSQL returns the CREATE TABLE statement for t.
func (t *Table) CreateSQL(ifNotExists bool) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(t.Name)
	b.WriteString(" (\n")
	for _, f := range t.Fields {
		b.WriteString("\t" + f.definition() + ",\n")
	}
	b.WriteString("\tPRIMARY KEY (" + strings.Join(fieldNames(t.Key), ", ") + ")")
	for _, group := range t.Unique {
		b.WriteString(",\n\tUNIQUE (" + strings.Join(group, ", ") + ")")
	}
	b.WriteString("\n)")
	return b.String()
}

// DropSQL returns the DROP TABLE statement for t.
func (t *Table) DropSQL() string {
	return "DROP TABLE IF EXISTS " + t.Name
}

// InsertSQL inserts every column except auto keys.
func (t *Table) InsertSQL() string {
	fields := t.insertFields()
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.Name, strings.Join(fieldNames(fields), ", "), placeholders(len(fields)))
}

// ImportSQL inserts every column, auto keys included.
func (t *Table) ImportSQL() string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.Name, strings.Join(t.Columns(), ", "), placeholders(len(t.Fields)))
}

// UpdateSQL sets every non-key column, matching on the key. It is empty for
// tables made only of key columns.
func (t *Table) UpdateSQL() string {
	fields := t.valueFields()
	if len(fields) == 0 {
		return ""
	}
	sets := make([]string, len(fields))
	for i, f := range fields {
		sets[i] = f.Name + " = ?"
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s", t.Name, strings.Join(sets, ", "), keyCondition(t.Key))
}

// DeleteSQL deletes the row matching the key.
func (t *Table) DeleteSQL() string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s", t.Name, keyCondition(t.Key))
}

// SelectSQL selects every column of the table, without a WHERE clause.
func (t *Table) SelectSQL() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.Columns(), ", "), t.Name)
}

// SelectByKeySQL selects every column of the row matching the key.
func (t *Table) SelectByKeySQL() string {
	return t.SelectSQL() + " WHERE " + keyCondition(t.Key)
}

// record validates rec as a non-nil pointer to t's struct type and returns
// the struct value.
func (t *Table) record(rec any) (reflect.Value, error) {
	rv := reflect.ValueOf(rec)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("orm: %s: record must be a non-nil pointer, got %T", t.Name, rec)
	}
	rv = rv.Elem()
	if rv.Type() != t.Type {
		return reflect.Value{}, fmt.Errorf("orm: %s: record type %s does not match %s", t.Name, rv.Type(), t.Type)
	}
	return rv, nil
}

func values(rv reflect.Value, fields []*Field) []any {
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f.value(rv)
	}
	return args
}

// Insert writes rec using q. The auto key, if any, must be unset and is
// filled from the last insert id.
func (t *Table) Insert(ctx context.Context, q Querier, rec any) error {
	rv, err := t.record(rec)
	if err != nil {
		return err
	}
	auto := t.autoKey()
	if auto != nil && !auto.isZero(rv) {
		return fmt.Errorf("insert %s: %w", t.Name, ErrAlreadyStored)
	}

	result, err := q.ExecContext(ctx, t.InsertSQL(), values(rv, t.insertFields())...)
	if err != nil {
		return err
	}
	if auto != nil {
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert %s: last insert id: %w", t.Name, err)
		}
		rv.FieldByIndex(auto.Index).SetInt(id)
	}
	return nil
}

// Import writes every column of rec using q, keeping an auto key that is
// already set. An unset auto key is assigned by the database and filled in.
func (t *Table) Import(ctx context.Context, q Querier, rec any) error {
	rv, err := t.record(rec)
	if err != nil {
		return err
	}
	args := values(rv, t.Fields)
	auto := t.autoKey()
	assign := auto != nil && auto.isZero(rv)
	if assign {
		for i, f := range t.Fields {
			if f == auto {
				args[i] = nil
			}
		}
	}

	result, err := q.ExecContext(ctx, t.ImportSQL(), args...)
	if err != nil {
		return err
	}
	if assign {
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("import %s: last insert id: %w", t.Name, err)
		}
		rv.FieldByIndex(auto.Index).SetInt(id)
	}
	return nil
}

// Update rewrites the non-key columns of the row matching rec's key.
func (t *Table) Update(ctx context.Context, q Querier, rec any) error {
	rv, err := t.record(rec)
	if err != nil {
		return err
	}
	if auto := t.autoKey(); auto != nil && auto.isZero(rv) {
		return fmt.Errorf("update %s: %w", t.Name, ErrNotStored)
	}
	query := t.UpdateSQL()
	if query == "" {
		return fmt.Errorf("orm: %s has no non-key columns to update", t.Name)
	}

	args := append(values(rv, t.valueFields()), values(rv, t.Key)...)
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectRow(result, "update", t.Name)
}

// Delete removes the row matching rec's key and clears an auto key.
func (t *Table) Delete(ctx context.Context, q Querier, rec any) error {
	rv, err := t.record(rec)
	if err != nil {
		return err
	}
	auto := t.autoKey()
	if auto != nil && auto.isZero(rv) {
		return fmt.Errorf("delete %s: %w", t.Name, ErrNotStored)
	}

	result, err := q.ExecContext(ctx, t.DeleteSQL(), values(rv, t.Key)...)
	if err != nil {
		return err
	}
	if err := expectRow(result, "delete", t.Name); err != nil {
		return err
	}
	if auto != nil {
		rv.FieldByIndex(auto.Index).SetZero()
	}
	return nil
}

// Get loads every column of the row matching rec's key into rec.
func (t *Table) Get(ctx context.Context, q Querier, rec any) error {
	rv, err := t.record(rec)
	if err != nil {
		return err
	}
	row := q.QueryRowContext(ctx, t.SelectByKeySQL(), values(rv, t.Key)...)
	if err := row.Scan(t.dests(rv)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("get %s: %w", t.Name, ErrNotFound)
		}
		return err
	}
	return nil
}

func (t *Table) dests(rv reflect.Value) []any {
	dests := make([]any, len(t.Fields))
	for i, f := range t.Fields {
		dests[i] = f.dest(rv)
	}
	return dests
}

// Scan reads a row holding every column of t, in Columns order, into rec.
func (t *Table) Scan(scanner interface{ Scan(...any) error }, rec any) error {
	rv, err := t.record(rec)
	if err != nil {
		return err
	}
	return scanner.Scan(t.dests(rv)...)
}

func expectRow(result sql.Result, op, table string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: rows affected: %w", op, table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, table, ErrNotFound)
	}
	return nil
}

// Select runs t.SelectSQL() followed by suffix (WHERE/ORDER BY/LIMIT) and
// scans every row into a new T. T must be the struct type t was built from.
func Select[T any](ctx context.Context, q Querier, t *Table, suffix string, args ...any) ([]*T, error) {
	if typ := reflect.TypeOf((*T)(nil)).Elem(); typ != t.Type {
		return nil, fmt.Errorf("orm: %s: cannot select into %s", t.Name, typ)
	}
	query := t.SelectSQL()
	if suffix != "" {
		query += " " + suffix
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		rec := new(T)
		if err := t.Scan(rows, rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
