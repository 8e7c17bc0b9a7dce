package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

//
// Flexible numeric helpers
//
// Settings edited through UI controls arrive as strings ("1.5") while
// programmatic writes store JSON numbers. These types accept both on decode
// and always emit numbers on encode, so a validated payload is normalized.
//

// FlexInt64 is an int64 that unmarshals from a JSON number or a string
// containing a base-10 integer.
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("FlexInt64: empty value")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("FlexInt64: %q is not an integer", s)
		}
		*f = FlexInt64(v)
		return nil
	}

	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("FlexInt64: %s is not an integer", data)
	}
	*f = FlexInt64(v)
	return nil
}

func (f FlexInt64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(f), 10)), nil
}

// Int64 returns the underlying value.
func (f FlexInt64) Int64() int64 {
	return int64(f)
}

// FlexFloat64 is a float64 that unmarshals from a JSON number or a string
// containing a decimal numeral.
type FlexFloat64 float64

func (f *FlexFloat64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("FlexFloat64: empty value")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("FlexFloat64: %q is not a number", s)
		}
		*f = FlexFloat64(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("FlexFloat64: %s is not a number", data)
	}
	*f = FlexFloat64(v)
	return nil
}

func (f FlexFloat64) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(f))
}

// Float64 returns the underlying value.
func (f FlexFloat64) Float64() float64 {
	return float64(f)
}
