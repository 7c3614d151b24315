package webserver

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
)

var fastJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonSerializer plugs json-iterator into echo in place of encoding/json.
type jsonSerializer struct{}

func (d *jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := fastJSON.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (d *jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	return fastJSON.NewDecoder(c.Request().Body).Decode(i)
}
