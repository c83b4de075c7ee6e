package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter is a gorm scope applying the query's conditions. Column names come
// from the schema, never from raw request text.
func (q *Query) Filter(db *gorm.DB) *gorm.DB {
	dialect := db.Dialector.Name()
	exprs := make([]clause.Expression, 0, len(q.Conditions))
	for _, c := range q.Conditions {
		exprs = append(exprs, gormExpr(dialect, c))
	}
	if len(exprs) == 0 {
		return db
	}
	return db.Clauses(clause.Where{Exprs: exprs})
}

// Window is a gorm scope applying sort, offset and limit.
func (q *Query) Window(db *gorm.DB) *gorm.DB {
	for _, s := range q.Sort {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Field}, Desc: s.Desc})
	}
	db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	return db.Offset(q.Offset()).Limit(q.Limit)
}

func gormExpr(dialect string, c Condition) clause.Expression {
	col := clause.Column{Name: c.Field}

	if c.Kind == StringList {
		if c.Op == In {
			values := c.Value.([]any)
			ors := make([]clause.Expression, 0, len(values))
			for _, v := range values {
				ors = append(ors, listElement(dialect, col, "= ?", listValue(v)))
			}
			return clause.Or(ors...)
		}
		return listElement(dialect, col, "= ?", listValue(c.Value))
	}

	switch c.Op {
	case Gt:
		return clause.Gt{Column: col, Value: c.Value}
	case Gte:
		return clause.Gte{Column: col, Value: c.Value}
	case Lt:
		return clause.Lt{Column: col, Value: c.Value}
	case Lte:
		return clause.Lte{Column: col, Value: c.Value}
	case In:
		return clause.IN{Column: col, Values: c.Value.([]any)}
	}
	return clause.Eq{Column: col, Value: c.Value}
}

// ElementContainsFold is a scope keeping rows where some element of the
// JSON string list in field contains term, case-insensitively.
func ElementContainsFold(field, term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		pattern := "%" + EscapeLike(strings.ToLower(term)) + "%"
		expr := listElement(db.Dialector.Name(), clause.Column{Name: field}, `LIKE ? ESCAPE '\'`, pattern)
		return db.Clauses(clause.Where{Exprs: []clause.Expression{expr}})
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// EscapeLike quotes the LIKE wildcards in s for use with ESCAPE '\'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func listValue(v any) string {
	return strings.ToLower(fmt.Sprint(v))
}

// listElement tests each decoded element of a JSON string list column
// against cond, so matches never span two elements or see JSON escapes.
func listElement(dialect string, col clause.Column, cond string, v any) clause.Expression {
	if dialect == "postgres" {
		return clause.Expr{
			SQL:  "EXISTS (SELECT 1 FROM jsonb_array_elements_text(COALESCE(NULLIF(?, 'null'), '[]')::jsonb) AS e(value) WHERE LOWER(e.value) " + cond + ")",
			Vars: []any{col, v},
		}
	}
	return clause.Expr{
		SQL:  "EXISTS (SELECT 1 FROM json_each(?) WHERE LOWER(json_each.value) " + cond + ")",
		Vars: []any{col, v},
	}
}
