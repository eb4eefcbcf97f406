package xsd

import (
	"fmt"
	"strconv"
	"strings"
)

// Occurs is an occurrence bound as used by minOccurs / maxOccurs. The
// "unbounded" token is a distinct state and never compares as an integer.
type Occurs struct {
	n         int
	unbounded bool
}

// Unbounded is the maxOccurs="unbounded" sentinel.
var Unbounded = Occurs{unbounded: true}

// Bounded returns a finite occurrence bound.
func Bounded(n int) Occurs {
	return Occurs{n: n}
}

// ParseOccurs parses a minOccurs / maxOccurs attribute value.
func ParseOccurs(s string) (Occurs, error) {
	s = strings.TrimSpace(s)
	if s == "unbounded" {
		return Unbounded, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Occurs{}, fmt.Errorf("invalid occurrence bound %q", s)
	}
	return Bounded(n), nil
}

func (o Occurs) IsUnbounded() bool {
	return o.unbounded
}

// Count returns the finite bound. ok is false for Unbounded.
func (o Occurs) Count() (n int, ok bool) {
	return o.n, !o.unbounded
}

// Allows reports whether n occurrences fit under o taken as an upper bound.
func (o Occurs) Allows(n int) bool {
	return o.unbounded || n <= o.n
}

// Repeatable reports whether o taken as an upper bound admits more than one item.
func (o Occurs) Repeatable() bool {
	return o.unbounded || o.n > 1
}

func (o Occurs) String() string {
	if o.unbounded {
		return "unbounded"
	}
	return strconv.Itoa(o.n)
}

func occursPtr(o Occurs) *Occurs {
	return &o
}
