package echoapi

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/duka/core"
	"github.com/trezcool/duka/core/ebook"
)

const (
	orderingParam = "ordering"
	idParam       = "id"
)

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind parses "?ordering=-createdAt,title" into DB orderings; "-" means descending.
func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// bindQueryFilter reads "search", "area" (repeatable), "author" and "free" from the query string.
// An unparsable "free" is ignored.
func bindQueryFilter(ctx echo.Context) *ebook.QueryFilter {
	params := ctx.QueryParams()
	filter := &ebook.QueryFilter{
		Search: params.Get("search"),
		Areas:  params["area"],
		Author: params.Get("author"),
	}
	if free, err := strconv.ParseBool(params.Get("free")); err == nil {
		filter.Free = &free
	}
	return filter
}

// bindIDs reads the repeatable "id" query param.
func bindIDs(ctx echo.Context) []string {
	var ids []string
	for _, id := range ctx.QueryParams()[idParam] {
		if id = core.CleanString(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// bindRawSubmission decodes the request body into a loosely-typed record.
// Numbers are kept as json.Number so that fractional values can be told apart from integers.
func bindRawSubmission(ctx echo.Context) (map[string]interface{}, error) {
	var raw map[string]interface{}
	dec := json.NewDecoder(ctx.Request().Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, errHttpInvalidJSON
	}
	return raw, nil
}
