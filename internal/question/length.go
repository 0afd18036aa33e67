package question

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Length is the number of questions in a test.
type Length int

// Supported test lengths.
const (
	LengthShort  Length = 15
	LengthMedium Length = 30
	LengthLong   Length = 45
)

// Lengths lists the supported test lengths in ascending order.
var Lengths = []Length{LengthShort, LengthMedium, LengthLong}

// ErrInvalidLength is returned for a length outside Lengths.
var ErrInvalidLength = errors.New("invalid test length")

// Valid reports whether l is one of the supported lengths.
func (l Length) Valid() bool {
	for _, v := range Lengths {
		if l == v {
			return true
		}
	}
	return false
}

// Int returns l as an int.
func (l Length) Int() int {
	return int(l)
}

func (l Length) String() string {
	return strconv.Itoa(int(l))
}

// ParseLength parses a decimal test length and checks it is supported.
func ParseLength(s string) (Length, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLength, s)
	}
	l := Length(n)
	if !l.Valid() {
		return 0, fmt.Errorf("%w: %d (must be one of %s)", ErrInvalidLength, n, LengthsString())
	}
	return l, nil
}

// LengthsString renders the supported lengths as "15, 30, or 45".
func LengthsString() string {
	parts := make([]string, len(Lengths))
	for i, l := range Lengths {
		parts[i] = l.String()
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", or " + parts[len(parts)-1]
}
