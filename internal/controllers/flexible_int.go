package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexibleInt allows JSON fields to be provided as number or numeric string
type FlexibleInt int

func (fi *FlexibleInt) UnmarshalJSON(data []byte) error {
	if fi == nil {
		return fmt.Errorf("FlexibleInt: nil receiver")
	}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err == nil {
		n, err := strconv.Atoi(num.String())
		if err != nil {
			return fmt.Errorf("FlexibleInt: %s is not an integer", num.String())
		}
		*fi = FlexibleInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("FlexibleInt: %q is not an integer", s)
		}
		*fi = FlexibleInt(n)
		return nil
	}

	return fmt.Errorf("FlexibleInt: expected number or string, got %s", string(data))
}

func (fi FlexibleInt) Int() int {
	return int(fi)
}
