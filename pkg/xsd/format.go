package xsd

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/sosodev/duration"
)

// NilValue marks a slot that is present but carries no value (xsi:nil).
type NilValue struct{}

// Nil is the explicit "no value, but present" marker.
var Nil = NilValue{}

// HexBinary is a byte string rendered as hexBinary; plain []byte renders as base64Binary.
type HexBinary []byte

const dateTimeLayout = "2006-01-02T15:04:05Z07:00"

// Format renders v as XSD lexical text. ok is false when v has no textual
// representation (nil), which encoders turn into xsi:nil.
func Format(v any) (text string, ok bool, err error) {
	switch x := v.(type) {
	case nil, NilValue:
		return "", false, nil
	case string:
		return x, true, nil
	case bool:
		if x {
			return "true", true, nil
		}
		return "false", true, nil
	case int:
		return strconv.FormatInt(int64(x), 10), true, nil
	case int8:
		return strconv.FormatInt(int64(x), 10), true, nil
	case int16:
		return strconv.FormatInt(int64(x), 10), true, nil
	case int32:
		return strconv.FormatInt(int64(x), 10), true, nil
	case int64:
		return strconv.FormatInt(x, 10), true, nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), true, nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true, nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true, nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true, nil
	case uint64:
		return strconv.FormatUint(x, 10), true, nil
	case float32:
		return formatFloat(float64(x), 32), true, nil
	case float64:
		return formatFloat(x, 64), true, nil
	case decimal.Decimal:
		return x.String(), true, nil
	case *decimal.Decimal:
		if x == nil {
			return "", false, nil
		}
		return x.String(), true, nil
	case time.Time:
		return x.Format(dateTimeLayout), true, nil
	case civil.Date:
		return x.String(), true, nil
	case civil.Time:
		return fmt.Sprintf("%02d:%02d:%02d", x.Hour, x.Minute, x.Second), true, nil
	case duration.Duration:
		return formatDuration(x), true, nil
	case *duration.Duration:
		if x == nil {
			return "", false, nil
		}
		return formatDuration(*x), true, nil
	case time.Duration:
		return formatDuration(*duration.FromTimeDuration(x)), true, nil
	case HexBinary:
		return strings.ToUpper(hex.EncodeToString(x)), true, nil
	case []byte:
		return base64.StdEncoding.EncodeToString(x), true, nil
	case []string:
		return strings.Join(x, " "), true, nil
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			s, ok, err := Format(item)
			if err != nil {
				return "", false, err
			}
			if ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " "), true, nil
	case func() any:
		return Format(x())
	case fmt.Stringer:
		return x.String(), true, nil
	}
	return "", false, fmt.Errorf("no formatter for %T", v)
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// formatDuration renders P{y}Y{m}M{d}DT{h}H{mi}M{s}S with a single leading
// minus when the duration is negative. Weeks are folded into days.
func formatDuration(d duration.Duration) string {
	components := []float64{d.Years, d.Months, d.Days + 7*d.Weeks, d.Hours, d.Minutes, d.Seconds}
	negative := d.Negative
	for i, c := range components {
		if c < 0 {
			negative = true
			components[i] = -c
		}
	}
	num := func(f float64) string {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := fmt.Sprintf("P%sY%sM%sDT%sH%sM%sS",
		num(components[0]), num(components[1]), num(components[2]),
		num(components[3]), num(components[4]), num(components[5]))
	if negative {
		return "-" + s
	}
	return s
}
