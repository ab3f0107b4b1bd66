package sources

import (
	"strconv"
	"strings"
)

// FlexInt decodes a JSON value that sources inconsistently emit as either
// a number or a numeric string (Europe PMC's pubYear, DOAJ's year).
// Anything unparseable decodes to zero rather than failing the response.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// Int returns the decoded value.
func (f FlexInt) Int() int {
	return int(f)
}
