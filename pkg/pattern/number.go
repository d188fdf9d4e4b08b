package pattern

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// SignPolicy restricts the values a number literal may take.
type SignPolicy int

const (
	// Positive accepts values greater than zero.
	Positive SignPolicy = iota

	// NonNegative accepts zero and positive values.
	NonNegative

	// Negative accepts values less than zero.
	Negative

	// AnySign accepts every value.
	AnySign
)

// ParseNumber reads a decimal integer enclosed by scope, e.g. "[3]" or
// "{+12}". An optional sign may precede the digits; the digits themselves
// must be contiguous.
func ParseNumber(c *Cursor, scope Scope, policy SignPolicy) (int, error) {
	if err := scope.Enter(c); err != nil {
		return 0, err
	}

	r, _ := c.Peek()
	start := c.Position()

	var digits strings.Builder
	if r == tokenMinus || r == tokenPlus {
		c.advance()
		if r == tokenMinus {
			digits.WriteRune(r)
		}
	}

	count := 0
	for {
		r, ok := c.PeekRaw()
		if !ok || r < '0' || r > '9' {
			break
		}
		digits.WriteRune(c.advance())
		count++
	}
	if count == 0 {
		return 0, NewSyntaxError(ErrMissingNumber, start, "")
	}

	value, err := strconv.ParseInt(digits.String(), 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, NewSyntaxError(ErrNumberTooLarge, start, "(maximum is "+strconv.Itoa(math.MaxInt32)+")")
		}
		return 0, NewSyntaxError(ErrMissingNumber, start, "")
	}

	if err := checkSign(int(value), policy, start); err != nil {
		return 0, err
	}

	if err := scope.Exit(c); err != nil {
		return 0, err
	}
	return int(value), nil
}

func checkSign(value int, policy SignPolicy, pos Position) error {
	switch policy {
	case Positive:
		if value == 0 {
			return NewSyntaxError(ErrZeroNumber, pos, "")
		}
		if value < 0 {
			return NewSyntaxError(ErrNegativeNumber, pos, "")
		}
	case NonNegative:
		if value < 0 {
			return NewSyntaxError(ErrNegativeNumber, pos, "")
		}
	case Negative:
		if value == 0 {
			return NewSyntaxError(ErrZeroNumber, pos, "")
		}
		if value > 0 {
			return NewSyntaxError(ErrPositiveNumber, pos, "")
		}
	case AnySign:
	}
	return nil
}
