package repository

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"

	"github.com/jermer/quizzly-backend/internal/apperr"
)

// buildSetClause turns a sparse field map into a parameterized SET
// fragment plus the positionally matched value list, for splicing into
// an UPDATE statement:
//
//	clause, values, _ := buildSetClause(
//	    map[string]any{"title": "T", "isPublic": true},
//	    map[string]string{"isPublic": "is_public"},
//	)
//	// clause: `is_public = $1, title = $2`
//	// values: [true, "T"]
//
// Field names present in columnNames are rewritten to their storage
// column names; the rest pass through unchanged. Fields are emitted in
// sorted order so the statement text is deterministic. An empty field
// map is a bad request: a zero-field update would otherwise round-trip
// as a silent success.
func buildSetClause(fields map[string]any, columnNames map[string]string) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, apperr.BadRequest("no fields to update")
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	assignments := make([]string, 0, len(names))
	values := make([]any, 0, len(names))
	for i, name := range names {
		column := name
		if mapped, ok := columnNames[name]; ok {
			column = mapped
		}
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, i+1))
		values = append(values, fields[name])
	}

	return strings.Join(assignments, ", "), values, nil
}

// Pre-checks before inserts exist for friendly error messages only; the
// database constraints are the authoritative signal under concurrent
// writers. These helpers recognize the constraint errors lib/pq reports.

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
