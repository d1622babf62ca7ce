package repository

import (
	"hotelops/shared/dto"
	"reflect"
	"slices"
	"strings"
)

// column is one selectable field. table is empty for computed columns and
// alias is set when the struct reads a joined column under another name.
type column struct {
	name  string
	table string
	alias string
}

func (c column) qualified() string {
	if c.table == "" {
		return c.name
	}

	return c.table + "." + c.name
}

func (c column) selectExpr() string {
	if c.table != "" && c.alias != "" {
		return c.qualified() + " AS " + c.alias
	}

	return c.qualified()
}

// scanColumns walks the db tags of a model. Fields tagged with table:"x" come
// from a join and are never inserted. Embedded structs are flattened.
func scanColumns(table string, t reflect.Type) (columns []column, insertColumns []string) {
	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			nested, nestedInsert := scanColumns(table, field.Type)
			columns = append(columns, nested...)
			insertColumns = append(insertColumns, nestedInsert...)
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		source := field.Tag.Get("table")
		if source == "" {
			source = table
		}

		if source == table {
			insertColumns = append(insertColumns, dbTag)
		}

		col := column{name: dbTag, table: source}
		if name := field.Tag.Get("column"); name != "" {
			col = column{name: name, table: source, alias: dbTag}
		}

		columns = append(columns, col)
	}

	return columns, insertColumns
}

// selectList renders the select list, narrowed to only when given.
func (repo *Repository[T]) selectList(only ...string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		exprs = append(exprs, col.selectExpr())
	}

	return strings.Join(exprs, ", ")
}

func (repo *Repository[T]) lookupColumn(field string) (string, bool) {
	for _, col := range repo.columns {
		if col.name == field || col.alias == field {
			return col.qualified(), true
		}
	}

	return "", false
}

// orderBy keeps only fields that map to a known column so sort input never
// reaches SQL verbatim. The primary key always closes the list so LIMIT/OFFSET
// pages stay disjoint when the requested sort has ties.
func (repo *Repository[T]) orderBy(params dto.QueryParams) string {
	terms := []string{}
	primary := repo.table + "." + repo.primaryColumn
	sortedByPrimary := false

	for _, sort := range params.OrderTerms() {
		col, ok := repo.lookupColumn(sort.Field)
		if !ok {
			continue
		}

		dir := strings.ToUpper(sort.Dir)
		if dir != dto.SortDirAsc && dir != dto.SortDirDesc {
			dir = dto.SortDirAsc
		}

		if col == primary {
			sortedByPrimary = true
		}

		terms = append(terms, col+" "+dir)
	}

	if !sortedByPrimary {
		terms = append(terms, primary+" "+dto.SortDirAsc)
	}

	return "ORDER BY " + strings.Join(terms, ", ")
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}
