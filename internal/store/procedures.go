package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// Arg is a named stored-procedure argument, passed as name => value.
type Arg struct {
	Name  string
	Value interface{}
}

// Named builds an Arg.
func Named(name string, value interface{}) Arg {
	return Arg{Name: name, Value: value}
}

// Row is one result row keyed by column name.
type Row = map[string]interface{}

// ResultSet is the rows of one cursor returned by a procedure.
type ResultSet []Row

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Procedures calls PostgreSQL stored procedures. Read procedures are
// functions returning SETOF refcursor, one cursor per result set; mutating
// procedures are invoked with CALL.
type Procedures struct {
	db *gorm.DB
}

func NewProcedures(db *gorm.DB) *Procedures {
	return &Procedures{db: db}
}

// Query invokes a function and fetches every cursor it opens, in order.
func (p *Procedures) Query(ctx context.Context, name string, args ...Arg) ([]ResultSet, error) {
	call, values, err := p.prepare(name, args)
	if err != nil {
		return nil, err
	}

	var sets []ResultSet
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := tx.Raw("SELECT * FROM "+call, values...).Rows()
		if err != nil {
			return err
		}
		var cursors []string
		for rows.Next() {
			var cursor string
			if err := rows.Scan(&cursor); err != nil {
				rows.Close()
				return err
			}
			cursors = append(cursors, cursor)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		// cursors only live until the transaction ends
		for _, cursor := range cursors {
			set := []map[string]interface{}{}
			if err := tx.Raw("FETCH ALL FROM " + quoteIdent(cursor)).Scan(&set).Error; err != nil {
				return err
			}
			sets = append(sets, ResultSet(set))
		}
		return nil
	})
	if err != nil {
		return nil, Wrap("call "+name, err)
	}
	return sets, nil
}

// Execute invokes a procedure that returns nothing, in its own transaction.
func (p *Procedures) Execute(ctx context.Context, name string, args ...Arg) error {
	call, values, err := p.prepare(name, args)
	if err != nil {
		return err
	}
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec("CALL "+call, values...).Error
	})
	return Wrap("call "+name, err)
}

func (p *Procedures) prepare(name string, args []Arg) (string, []interface{}, error) {
	if !IsPostgres(p.db) {
		return "", nil, Wrap("call "+name, fmt.Errorf("stored procedures require %s, connected to %s", Postgres, p.db.Dialector.Name()))
	}
	if !identifier.MatchString(name) {
		return "", nil, Wrap("call", fmt.Errorf("invalid procedure name %q", name))
	}
	params := make([]string, 0, len(args))
	values := make([]interface{}, 0, len(args))
	for _, a := range args {
		if !identifier.MatchString(a.Name) {
			return "", nil, Wrap("call "+name, fmt.Errorf("invalid parameter name %q", a.Name))
		}
		params = append(params, a.Name+" => ?")
		values = append(values, a.Value)
	}
	return name + "(" + strings.Join(params, ", ") + ")", values, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
