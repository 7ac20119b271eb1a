package upstream

import (
	"encoding/json"
	"strings"
)

// Upstream JSON is shape-shifting: the same field arrives as a string, a
// number, or not at all depending on the endpoint. These types absorb that
// at decode time so the adapters only deal with settled Go values.

// flexString decodes a string or a number into a string, and anything else
// into the empty string.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err == nil {
		*s = flexString(num.String())
		return nil
	}
	*s = ""
	return nil
}

// flexFloat decodes a number or a numeric string into a float64, and anything
// else into zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var num float64
	if err := json.Unmarshal(b, &num); err == nil {
		*f = flexFloat(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		var parsed json.Number = json.Number(strings.TrimSpace(str))
		if v, err := parsed.Float64(); err == nil {
			*f = flexFloat(v)
			return nil
		}
	}
	*f = 0
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinTags(lists ...[]string) string {
	for _, tags := range lists {
		if len(tags) > 0 {
			return strings.Join(tags, ", ")
		}
	}
	return ""
}
