package dataset

import (
	"math"
	"strconv"
)

// ValueKind defines the storage kind of a single cell
type ValueKind string

const (
	KindNumber  ValueKind = "number"
	KindText    ValueKind = "text"
	KindMissing ValueKind = "missing"
)

// Value is one table cell. Missing cells are explicit, never NaN.
type Value struct {
	Kind ValueKind `json:"kind"`
	Num  float64   `json:"num,omitempty"`
	Text string    `json:"text,omitempty"`
}

// Number creates a numeric cell. NaN and infinities are stored as missing.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing()
	}
	return Value{Kind: KindNumber, Num: f}
}

// Text creates a text cell; the empty string is stored as missing
func Text(s string) Value {
	if s == "" {
		return Missing()
	}
	return Value{Kind: KindText, Text: s}
}

// Missing creates an explicitly missing cell
func Missing() Value {
	return Value{Kind: KindMissing}
}

// IsMissing reports whether the cell holds no value
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing
}

// IsNumber reports whether the cell holds a number
func (v Value) IsNumber() bool {
	return v.Kind == KindNumber
}

// Float returns the numeric content and whether it exists
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// String renders the cell the way it is written to CSV. Missing cells render empty.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindText:
		return v.Text
	default:
		return ""
	}
}
