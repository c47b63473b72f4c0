// Package core provides the tracker's domain types and money handling.
//
// Amounts are held as integer cents to keep aggregation exact; decimal
// values only appear at the JSON boundary.
package core

import "math"

// CentsFromFloat converts a decimal amount to cents with half-up
// rounding on the third decimal place. The sign is preserved; sign
// policy is applied separately by NormalizedAmount.
//
// Examples:
//
//	CentsFromFloat(12.34)  -> 1234
//	CentsFromFloat(12.345) -> 1235
//	CentsFromFloat(-50)    -> -5000
func CentsFromFloat(v float64) int64 {
	if v < 0 {
		return -int64(math.Floor(-v*100 + 0.5))
	}
	return int64(math.Floor(v*100 + 0.5))
}

// Float returns the decimal representation of the amount.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100
}

// Abs returns the magnitude of the amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns m minus o.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}
