package services

import "strings"

// orderClause translates an API ordering parameter ("amount", "-date")
// into a SQL ORDER BY clause, restricted to a whitelist of sortable
// columns. Unknown or empty parameters fall back to the default clause.
func orderClause(param string, allowed map[string]string, fallback string) string {
	desc := false
	if strings.HasPrefix(param, "-") {
		desc = true
		param = param[1:]
	}
	column, ok := allowed[param]
	if !ok {
		return fallback
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}
