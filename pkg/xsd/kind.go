package xsd

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"github.com/sosodev/duration"
)

// Kind identifies the primitive value space of a Leaf. Parsers are selected
// by Kind (the declared schema type); formatters by the runtime value type.
type Kind int

const (
	// KindUnset means the leaf delegates its kind to its base.
	KindUnset Kind = iota
	KindAnySimpleType
	KindString
	KindBoolean
	KindDecimal
	KindFloat
	KindDouble
	KindInteger
	KindUnsignedInteger
	KindDate
	KindTime
	KindDateTime
	KindDuration
	KindBase64Binary
	KindHexBinary
)

var kindNames = map[Kind]string{
	KindUnset:           "unset",
	KindAnySimpleType:   "anySimpleType",
	KindString:          "string",
	KindBoolean:         "boolean",
	KindDecimal:         "decimal",
	KindFloat:           "float",
	KindDouble:          "double",
	KindInteger:         "integer",
	KindUnsignedInteger: "unsignedInteger",
	KindDate:            "date",
	KindTime:            "time",
	KindDateTime:        "dateTime",
	KindDuration:        "duration",
	KindBase64Binary:    "base64Binary",
	KindHexBinary:       "hexBinary",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Textual reports whether values of k are plain strings.
func (k Kind) Textual() bool {
	return k == KindUnset || k == KindAnySimpleType || k == KindString
}

// Parse converts lexical text into the Go value for k.
//
//	string, anySimpleType -> string
//	boolean               -> bool
//	decimal               -> decimal.Decimal
//	float / double        -> float32 / float64
//	integer               -> int64, decimal.Decimal beyond 64 bits
//	unsignedInteger       -> uint64, decimal.Decimal beyond 64 bits
//	date / time           -> civil.Date / civil.Time
//	dateTime              -> time.Time
//	duration              -> duration.Duration
//	base64Binary          -> []byte
//	hexBinary             -> HexBinary
func (k Kind) Parse(text string) (any, error) {
	switch k {
	case KindUnset, KindAnySimpleType, KindString:
		return text, nil
	case KindBoolean:
		return parseBoolean(text)
	case KindDecimal:
		d, err := decimal.NewFromString(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("%q is not a decimal: %w", text, err)
		}
		return d, nil
	case KindFloat:
		f, err := parseFloat(text, 32)
		if err != nil {
			return nil, err
		}
		return float32(f), nil
	case KindDouble:
		return parseFloat(text, 64)
	case KindInteger:
		s := strings.TrimSpace(text)
		n, err := strconv.ParseInt(s, 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return parseBigInteger(s)
		}
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer: %w", text, err)
		}
		return n, nil
	case KindUnsignedInteger:
		s := strings.TrimPrefix(strings.TrimSpace(text), "+")
		n, err := strconv.ParseUint(s, 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return parseBigInteger(s)
		}
		if err != nil {
			return nil, fmt.Errorf("%q is not an unsigned integer: %w", text, err)
		}
		return n, nil
	case KindDate:
		return parseDate(text)
	case KindTime:
		return parseTime(text)
	case KindDateTime:
		return parseDateTime(text)
	case KindDuration:
		return parseDuration(text)
	case KindBase64Binary:
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return nil, fmt.Errorf("invalid base64Binary: %w", err)
		}
		return b, nil
	case KindHexBinary:
		b, err := hex.DecodeString(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("invalid hexBinary: %w", err)
		}
		return HexBinary(b), nil
	}
	return nil, fmt.Errorf("no parser for %s", k)
}

// parseBigInteger keeps integers that overflow 64 bits exact. Range facets
// still apply through Check.
func parseBigInteger(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return decimal.Decimal{}, fmt.Errorf("%q is not an integer", s)
	}
	return d, nil
}

func parseBoolean(text string) (bool, error) {
	switch strings.TrimSpace(text) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", text)
}

func parseFloat(text string, bits int) (float64, error) {
	s := strings.TrimSpace(text)
	switch s {
	case "INF", "+INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(s, bits)
	if err != nil {
		return 0, fmt.Errorf("%q is not a floating point number: %w", text, err)
	}
	return f, nil
}

// splitZone separates a trailing "Z" or "+hh:mm" / "-hh:mm" zone designator.
func splitZone(s string, minLen int) (string, string) {
	if strings.HasSuffix(s, "Z") {
		return s[:len(s)-1], "Z"
	}
	if len(s) >= minLen+6 {
		tail := s[len(s)-6:]
		if (tail[0] == '+' || tail[0] == '-') && tail[3] == ':' {
			return s[:len(s)-6], tail
		}
	}
	return s, ""
}

func parseDate(text string) (civil.Date, error) {
	s, _ := splitZone(strings.TrimSpace(text), 10)
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%q is not a date: %w", text, err)
	}
	return d, nil
}

func parseTime(text string) (civil.Time, error) {
	s, _ := splitZone(strings.TrimSpace(text), 8)
	t, err := civil.ParseTime(s)
	if err != nil {
		return civil.Time{}, fmt.Errorf("%q is not a time: %w", text, err)
	}
	return t, nil
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func parseDateTime(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a dateTime: %w", text, err)
	}
	return t, nil
}

func parseDuration(text string) (duration.Duration, error) {
	s := strings.TrimSpace(text)
	negative := strings.HasPrefix(s, "-")
	d, err := duration.Parse(strings.TrimPrefix(s, "-"))
	if err != nil {
		return duration.Duration{}, fmt.Errorf("%q is not a duration: %w", text, err)
	}
	d.Negative = negative
	return *d, nil
}
