package orm

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// Option configures table registration.
type Option func(*tableOptions)

type tableOptions struct {
	name   string
	key    string
	unique [][]string
}

// WithName overrides the table name.
func WithName(name string) Option {
	return func(o *tableOptions) { o.name = name }
}

// WithKey names the key column of an entity when no field is tagged `key`.
func WithKey(column string) Option {
	return func(o *tableOptions) { o.key = column }
}

// WithUnique adds a composite UNIQUE constraint over columns.
func WithUnique(columns ...string) Option {
	return func(o *tableOptions) { o.unique = append(o.unique, columns) }
}

type tableNamer interface {
	TableName() string
}

// Registry holds tables in registration order. Creation follows that order
// and dropping reverses it, so referenced tables must be registered first.
type Registry struct {
	tables []*Table
	byName map[string]*Table
	byType map[reflect.Type]*Table
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Table),
		byType: make(map[reflect.Type]*Table),
	}
}

// Must panics if err is non-nil and otherwise returns t.
func Must(t *Table, err error) *Table {
	if err != nil {
		panic(err)
	}
	return t
}

// Entity registers proto's type as an entity table with a single key column.
func (r *Registry) Entity(proto any, opts ...Option) (*Table, error) {
	return r.register(EntityKind, proto, opts)
}

// Relation registers proto's type as a relationship table. Its key is every
// field tagged `key` plus every reference not tagged `nokey`.
func (r *Registry) Relation(proto any, opts ...Option) (*Table, error) {
	return r.register(RelationKind, proto, opts)
}

// Tables returns the registered tables in registration order.
func (r *Registry) Tables() []*Table {
	return append([]*Table(nil), r.tables...)
}

// Table returns the table registered under name.
func (r *Registry) Table(name string) (*Table, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// TableOf returns the table for rec, a struct or pointer to struct.
func (r *Registry) TableOf(rec any) (*Table, error) {
	typ := reflect.TypeOf(rec)
	if typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	t, ok := r.byType[typ]
	if !ok {
		return nil, fmt.Errorf("orm: type %v is not registered", typ)
	}
	return t, nil
}

func (r *Registry) register(kind Kind, proto any, opts []Option) (*Table, error) {
	var o tableOptions
	for _, opt := range opts {
		opt(&o)
	}

	typ := reflect.TypeOf(proto)
	if typ == nil {
		return nil, fmt.Errorf("orm: cannot register nil")
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("orm: cannot register %s: not a struct", typ)
	}
	if _, dup := r.byType[typ]; dup {
		return nil, fmt.Errorf("orm: type %s already registered", typ)
	}

	name := o.name
	if name == "" {
		if namer, ok := reflect.New(typ).Interface().(tableNamer); ok {
			name = namer.TableName()
		} else {
			name = snakeCase(typ.Name())
		}
	}
	if _, dup := r.byName[name]; dup {
		return nil, fmt.Errorf("orm: table %s already registered", name)
	}

	t := &Table{
		Name:   name,
		Kind:   kind,
		Type:   typ,
		byName: make(map[string]*Field),
	}
	for i := 0; i < typ.NumField(); i++ {
		f, ok, err := parseField(typ.Field(i))
		if err != nil {
			return nil, fmt.Errorf("orm: %s: %w", name, err)
		}
		if !ok {
			continue
		}
		if _, dup := t.byName[f.Name]; dup {
			return nil, fmt.Errorf("orm: %s: duplicate column %s", name, f.Name)
		}
		if err := r.resolveRef(f); err != nil {
			return nil, fmt.Errorf("orm: %s: %w", name, err)
		}
		t.Fields = append(t.Fields, f)
		t.byName[f.Name] = f
	}
	if len(t.Fields) == 0 {
		return nil, fmt.Errorf("orm: %s has no mapped fields", name)
	}

	var err error
	if kind == EntityKind {
		err = t.entityKey(o.key)
	} else {
		err = t.relationKey()
	}
	if err != nil {
		return nil, fmt.Errorf("orm: %s: %w", name, err)
	}

	for _, group := range o.unique {
		for _, col := range group {
			if _, ok := t.byName[col]; !ok {
				return nil, fmt.Errorf("orm: %s: unique column %s does not exist", name, col)
			}
		}
		t.Unique = append(t.Unique, append([]string(nil), group...))
	}

	r.tables = append(r.tables, t)
	r.byName[name] = t
	r.byType[typ] = t
	return t, nil
}

// resolveRef points a reference at the key of an already registered entity.
func (r *Registry) resolveRef(f *Field) error {
	if f.Ref == "" {
		return nil
	}
	target, ok := r.byName[f.Ref]
	if !ok {
		return fmt.Errorf("column %s references unregistered table %s", f.Name, f.Ref)
	}
	if target.Kind != EntityKind {
		return fmt.Errorf("column %s references relation %s", f.Name, f.Ref)
	}
	key := target.Key[0]
	f.RefColumn = key.Name
	f.SQLType = key.SQLType
	return nil
}

func (t *Table) entityKey(column string) error {
	for _, f := range t.Fields {
		if f.Key {
			if column != "" && column != f.Name {
				return fmt.Errorf("key option %s conflicts with key field %s", column, f.Name)
			}
			if len(t.Key) > 0 {
				return fmt.Errorf("entity has more than one key field")
			}
			t.Key = append(t.Key, f)
		}
	}
	if len(t.Key) == 1 {
		return nil
	}

	if column == "" {
		column = "id"
	}
	f, ok := t.byName[column]
	if !ok {
		return fmt.Errorf("key column %s does not exist", column)
	}
	f.Key = true
	t.Key = []*Field{f}
	return nil
}

func (t *Table) relationKey() error {
	for _, f := range t.Fields {
		if f.Auto {
			return fmt.Errorf("relation column %s cannot be auto", f.Name)
		}
		if f.Ref != "" && !f.noKey {
			f.Key = true
		}
		if f.Key {
			t.Key = append(t.Key, f)
		}
	}
	if len(t.Key) == 0 {
		return fmt.Errorf("relation has no key columns")
	}
	return nil
}

// SchemaSQL returns the CREATE TABLE statements of every table, in order.
func (r *Registry) SchemaSQL(ifNotExists bool) string {
	stmts := make([]string, len(r.tables))
	for i, t := range r.tables {
		stmts[i] = t.CreateSQL(ifNotExists) + ";"
	}
	return strings.Join(stmts, "\n\n")
}

// CreateAll creates every table in registration order.
func (r *Registry) CreateAll(ctx context.Context, q Querier, ifNotExists bool) error {
	for _, t := range r.tables {
		if _, err := q.ExecContext(ctx, t.CreateSQL(ifNotExists)); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
	}
	return nil
}

// DropAll drops every table in reverse registration order.
func (r *Registry) DropAll(ctx context.Context, q Querier) error {
	for i := len(r.tables) - 1; i >= 0; i-- {
		t := r.tables[i]
		if _, err := q.ExecContext(ctx, t.DropSQL()); err != nil {
			return fmt.Errorf("drop table %s: %w", t.Name, err)
		}
	}
	return nil
}
