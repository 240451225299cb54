// Package orm maps tagged Go structs onto SQLite tables.
//
// A Registry turns struct definitions into table metadata: column names come
// from `db` tags, constraints from `orm` tags:
//
//	key          part of the primary key
//	nokey        a reference that is not part of a relation's key
//	auto         integer key assigned by the database on insert
//	unique       single-column UNIQUE constraint
//	optional     nullable column (pointer and []byte fields are nullable anyway)
//	default=X    column DEFAULT (X)
//	ref=T        REFERENCES T(key of T); T must already be registered
//	enum=a|b     CHECK (column IN ('a', 'b'))
//
// From that metadata the package generates DDL and the SQL for single-row
// insert, update, delete and key lookup. Mapper runs each mutation in its own
// transaction and reports constraint violations as *ConstraintError.
//
//	reg := orm.NewRegistry()
//	orm.Must(reg.Entity(models.Tag{}))
//	orm.Must(reg.Entity(models.Film{}))
//	orm.Must(reg.Relation(models.Role{}, orm.WithUnique("film", "type", "position")))
//
//	m := orm.NewMapper(db, reg, orm.WithConstraintClassifier(isConstraint))
//	err := m.Insert(ctx, &film) // film.ID is set afterwards
package orm
