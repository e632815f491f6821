// Package cedula implements the structural validation rules for Ecuadorian
// national identity numbers (cédula de identidad, CI).
//
// Validation is a pure function: it performs no I/O and holds no state, so it
// is safe to call from any number of goroutines.
package cedula

import (
	"errors"
	"strconv"
	"unicode/utf8"
)

// Structural rule constants.
const (
	// Length is the exact number of characters a CI must have.
	Length = 10
	// ProvinceDigits is the number of leading characters holding the province code.
	ProvinceDigits = 2
	// MaxProvinceCode is the largest accepted province code.
	MaxProvinceCode = 24
)

// Kind identifies a validation failure. The set of kinds is closed.
type Kind int

// Validation failure kinds, in evaluation order.
const (
	KindLength Kind = iota + 1
	KindProvince
	KindDigits
)

var messages = map[Kind]string{
	KindLength:   "CI must be 10 characters long",
	KindProvince: "the first two digits must not be a number greater than 24",
	KindDigits:   "the CI can only contain numeric characters",
}

var names = map[Kind]string{
	KindLength:   "length",
	KindProvince: "province",
	KindDigits:   "digits",
}

// Kinds returns every failure kind in evaluation order.
func Kinds() []Kind {
	return []Kind{KindLength, KindProvince, KindDigits}
}

// Message returns the client-facing text for k.
func (k Kind) Message() string {
	if m, ok := messages[k]; ok {
		return m
	}
	return ""
}

// String returns a short machine-friendly name, used for metric labels.
func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return "unknown"
}

// Result is the ordered list of failures for one candidate. An empty Result
// means the candidate is valid.
type Result struct {
	kinds []Kind
}

// Valid reports whether no rule failed.
func (r Result) Valid() bool { return len(r.kinds) == 0 }

// Kinds returns a copy of the failures in rule order.
func (r Result) Kinds() []Kind {
	out := make([]Kind, len(r.kinds))
	copy(out, r.kinds)
	return out
}

// Has reports whether k is among the failures.
func (r Result) Has(k Kind) bool {
	for _, got := range r.kinds {
		if got == k {
			return true
		}
	}
	return false
}

// Messages renders the failures as client-facing strings in rule order.
func (r Result) Messages() []string {
	out := make([]string, len(r.kinds))
	for i, k := range r.kinds {
		out[i] = k.Message()
	}
	return out
}

// Note describes a non-fatal parse failure seen while evaluating a rule.
type Note struct {
	Rule   Kind
	Input  string
	Reason string
}

// Observer receives diagnostic notes. It must not retain or mutate state
// shared with other requests.
type Observer func(Note)

// Validate evaluates every rule against ci and collects the failures.
func Validate(ci string) Result {
	return ValidateWith(ci, nil)
}

// ValidateWith is Validate with an optional observer for parse diagnostics.
// Rules never short-circuit each other.
func ValidateWith(ci string, observe Observer) Result {
	notify := func(rule Kind, reason string) {
		if observe != nil {
			observe(Note{Rule: rule, Input: ci, Reason: reason})
		}
	}

	var kinds []Kind

	if utf8.RuneCountInString(ci) != Length {
		kinds = append(kinds, KindLength)
	}

	// A non-numeric or short prefix is left for the digits rule.
	code, err := provinceCode(ci)
	switch {
	case errors.Is(err, errTooShort):
		notify(KindProvince, "fewer than 2 characters")
	case err != nil:
		notify(KindProvince, "province prefix is not numeric")
	case code > MaxProvinceCode:
		kinds = append(kinds, KindProvince)
	}

	if !allDigits(ci) {
		notify(KindDigits, "not a decimal integer")
		kinds = append(kinds, KindDigits)
	}

	return Result{kinds: kinds}
}

// ProvinceCode parses the leading two characters of ci. ok is false when ci
// is too short or the prefix does not parse as an integer.
func ProvinceCode(ci string) (code int, ok bool) {
	code, err := provinceCode(ci)
	return code, err == nil
}

func provinceCode(ci string) (int, error) {
	if utf8.RuneCountInString(ci) < ProvinceDigits {
		return 0, errTooShort
	}
	end := 0
	for i := 0; i < ProvinceDigits; i++ {
		_, size := utf8.DecodeRuneInString(ci[end:])
		end += size
	}
	return strconv.Atoi(ci[:end])
}

// allDigits reports whether s is a non-empty run of ASCII digits. This is
// the wide-integer parse of the whole CI expressed as a character scan, so
// values beyond the 32-bit range are accepted.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
