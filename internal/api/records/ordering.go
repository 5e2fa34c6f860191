package records

const defaultOrdering = "-created_at"

var orderings = map[string]string{
	"title":       "title ASC",
	"-title":      "title DESC",
	"year":        "year ASC NULLS LAST",
	"-year":       "year DESC NULLS LAST",
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
	"view_count":  "view_count ASC",
	"-view_count": "view_count DESC",
}

// resolveOrdering maps a public ordering parameter onto SQL. Unknown values
// fall back to newest first.
func resolveOrdering(param string) (string, string) {
	if sql, ok := orderings[param]; ok {
		return param, sql
	}
	return defaultOrdering, orderings[defaultOrdering]
}
