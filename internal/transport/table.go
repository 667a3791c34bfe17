package transport

import (
	"net/http"

	"storefront-admin/internal/middleware"
)

// Column describes one column of the dashboard data table
type Column[T any] struct {
	Key    string
	Header string
	Value  func(T) interface{}
}

type tableColumn struct {
	Key    string `json:"key"`
	Header string `json:"header"`
}

// Table is the generic tabular shape rendered by the dashboard
type Table struct {
	Columns []tableColumn   `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// NewTable projects items through columns
func NewTable[T any](items []T, columns []Column[T]) Table {
	t := Table{
		Columns: make([]tableColumn, len(columns)),
		Rows:    make([][]interface{}, 0, len(items)),
	}
	for i, c := range columns {
		t.Columns[i] = tableColumn{Key: c.Key, Header: c.Header}
	}
	for _, item := range items {
		row := make([]interface{}, len(columns))
		for i, c := range columns {
			row[i] = c.Value(item)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// respondWithList answers with the plain list, or with the table shape when
// the request asks for ?view=table.
func respondWithList[T any](w http.ResponseWriter, r *http.Request, items []T, columns []Column[T]) {
	if r.URL.Query().Get("view") == "table" {
		middleware.RespondWithJSON(w, http.StatusOK, NewTable(items, columns))
		return
	}
	if items == nil {
		items = []T{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, items)
}
