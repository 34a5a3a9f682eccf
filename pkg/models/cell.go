package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Cell holds the literal text of a numeric spreadsheet cell.
//
// Uploaded sheets deliver numbers either as JSON numbers or as strings, and
// sometimes as garbage. Cell keeps whatever was sent so that an unparseable
// value is reported instead of being coerced to zero.
type Cell string

// NumberCell returns the Cell for a float value.
func NumberCell(v float64) Cell {
	return Cell(strconv.FormatFloat(v, 'f', -1, 64))
}

// Float parses the trimmed cell text. ok is false for blank or non-numeric cells.
func (c Cell) Float() (float64, bool) {
	text := strings.TrimSpace(string(c))
	if text == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

// Decimal parses the cell as an exact decimal. It accepts exactly the values Float accepts.
func (c Cell) Decimal() (decimal.Decimal, bool) {
	v, ok := c.Float()
	if !ok {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(strings.TrimSpace(string(c)))
	if err != nil {
		return decimal.NewFromFloat(v), true
	}

	return d, true
}

// IsBlank reports whether the cell has no content after trimming.
func (c Cell) IsBlank() bool {
	return strings.TrimSpace(string(c)) == ""
}

func (c Cell) String() string {
	return string(c)
}

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		*c = ""

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*c = Cell(s)

		return nil
	}

	*c = Cell(data)

	return nil
}

// MarshalJSON writes numeric cells as JSON numbers and everything else as strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	text := strings.TrimSpace(string(c))
	if text != "" && json.Valid([]byte(text)) {
		if _, err := strconv.ParseFloat(text, 64); err == nil {
			return []byte(text), nil
		}
	}

	return json.Marshal(string(c))
}

// SplitList splits a comma-separated cell, trimming every item and dropping empties.
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))

	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		items = append(items, item)
	}

	return items
}
