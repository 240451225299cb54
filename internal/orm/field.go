package orm

import (
	"fmt"
	"reflect"
	"strings"
)

// Field is the column metadata of one struct field.
type Field struct {
	Name      string // column name
	GoName    string
	Index     []int
	Type      reflect.Type
	SQLType   string
	Key       bool
	Auto      bool
	Unique    bool
	Nullable  bool
	Default   string
	Enum      []string
	Ref       string // referenced table, empty when the column is not a reference
	RefColumn string // key column of Ref, set at registration

	noKey bool
}

// Required reports whether the column is declared NOT NULL.
func (f *Field) Required() bool {
	return !f.Nullable && !f.Auto
}

var bytesType = reflect.TypeOf([]byte(nil))

// sqlType returns the SQLite storage type for t and whether the Go type can
// hold NULL on its own.
func sqlType(t reflect.Type) (string, bool, error) {
	nullable := false
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		nullable = true
	}
	if t == bytesType {
		return "BLOB", true, nil
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Bool:
		return "INTEGER", nullable, nil
	case reflect.Float32, reflect.Float64:
		return "REAL", nullable, nil
	case reflect.String:
		return "TEXT", nullable, nil
	}
	return "", false, fmt.Errorf("unsupported column type %s", t)
}

func isSignedInt(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

// parseField builds a Field from a struct field. ok is false for fields that
// are not mapped (unexported or tagged db:"-").
func parseField(sf reflect.StructField) (f *Field, ok bool, err error) {
	if !sf.IsExported() {
		return nil, false, nil
	}
	name := sf.Tag.Get("db")
	if name == "-" {
		return nil, false, nil
	}
	if sf.Anonymous {
		return nil, false, fmt.Errorf("field %s: embedded structs are not supported", sf.Name)
	}
	if name == "" {
		name = snakeCase(sf.Name)
	}

	typ, nullable, err := sqlType(sf.Type)
	if err != nil {
		return nil, false, fmt.Errorf("field %s: %w", sf.Name, err)
	}

	f = &Field{
		Name:     name,
		GoName:   sf.Name,
		Index:    sf.Index,
		Type:     sf.Type,
		SQLType:  typ,
		Nullable: nullable,
	}

	tag := sf.Tag.Get("orm")
	if tag == "" {
		return f, true, nil
	}
	for _, opt := range strings.Split(tag, ",") {
		opt = strings.TrimSpace(opt)
		key, value, _ := strings.Cut(opt, "=")
		switch key {
		case "":
		case "key":
			f.Key = true
		case "nokey":
			f.noKey = true
		case "auto":
			if !isSignedInt(sf.Type) {
				return nil, false, fmt.Errorf("field %s: auto requires a signed integer type", sf.Name)
			}
			f.Auto = true
		case "unique":
			f.Unique = true
		case "optional":
			f.Nullable = true
		case "default":
			if value == "" {
				return nil, false, fmt.Errorf("field %s: empty default", sf.Name)
			}
			f.Default = value
		case "ref":
			if value == "" {
				return nil, false, fmt.Errorf("field %s: empty ref", sf.Name)
			}
			f.Ref = value
		case "enum":
			f.Enum = strings.Split(value, "|")
		default:
			return nil, false, fmt.Errorf("field %s: unknown orm option %q", sf.Name, key)
		}
	}
	return f, true, nil
}

// definition renders the column definition used in CREATE TABLE.
func (f *Field) definition() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte(' ')
	b.WriteString(f.SQLType)
	if f.Unique {
		b.WriteString(" UNIQUE")
	}
	if f.Required() {
		b.WriteString(" NOT NULL")
	}
	if f.Default != "" {
		b.WriteString(" DEFAULT (" + f.Default + ")")
	}
	if len(f.Enum) > 0 {
		quoted := make([]string, len(f.Enum))
		for i, v := range f.Enum {
			quoted[i] = quoteLiteral(v)
		}
		b.WriteString(" CHECK (" + f.Name + " IN (" + strings.Join(quoted, ", ") + "))")
	}
	if f.Ref != "" {
		b.WriteString(" REFERENCES " + f.Ref + " (" + f.RefColumn + ")")
	}
	return b.String()
}

// value returns the driver argument for f in the struct value rv. Nil pointers
// and nil byte slices become NULL.
func (f *Field) value(rv reflect.Value) any {
	return driverValue(rv.FieldByIndex(f.Index))
}

// driverValue reduces fv to one of the basic driver.Value types so named
// types (e.g. string enums) bind without a custom Valuer.
func driverValue(fv reflect.Value) any {
	switch fv.Kind() {
	case reflect.Pointer:
		if fv.IsNil() {
			return nil
		}
		return driverValue(fv.Elem())
	case reflect.Slice:
		if fv.IsNil() {
			return nil
		}
		return fv.Bytes()
	case reflect.String:
		return fv.String()
	case reflect.Bool:
		return fv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(fv.Uint())
	case reflect.Float32, reflect.Float64:
		return fv.Float()
	}
	return fv.Interface()
}

// dest returns a scan destination for f in the addressable struct value rv.
func (f *Field) dest(rv reflect.Value) any {
	return rv.FieldByIndex(f.Index).Addr().Interface()
}

// isZero reports whether f holds its zero value in rv.
func (f *Field) isZero(rv reflect.Value) bool {
	return rv.FieldByIndex(f.Index).IsZero()
}
