package handler

import (
	"encoding/json"

	"github.com/labstack/echo/v4"

	"chweb/internal/service"
)

func parseIDParam(c echo.Context, name string) (int64, error) {
	return service.ParseID(c.Param(name))
}

// looseID accepts a record id encoded as a JSON string or number.
type looseID string

func (id *looseID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = looseID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = looseID(n.String())
	return nil
}

func (id looseID) parse() (int64, error) {
	return service.ParseID(string(id))
}
