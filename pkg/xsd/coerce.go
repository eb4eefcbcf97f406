package xsd

import (
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/sosodev/duration"
)

// Coerce normalizes a caller-supplied value to the Go type Parse would
// produce for k. Strings are parsed; numeric values are converted when the
// conversion is lossless.
func Coerce(k Kind, v any) (any, error) {
	switch x := v.(type) {
	case nil, NilValue:
		return Nil, nil
	case func() any:
		return x, nil
	case string:
		return k.Parse(x)
	}

	switch k {
	case KindUnset, KindAnySimpleType, KindString:
		text, ok, err := Format(v)
		if err != nil {
			return nil, err
		}
		if !ok {
			return Nil, nil
		}
		return text, nil
	case KindBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindDecimal:
		switch x := v.(type) {
		case decimal.Decimal:
			return x, nil
		case float32:
			return decimal.NewFromFloat32(x), nil
		case float64:
			return decimal.NewFromFloat(x), nil
		}
		if n, ok := toInt64(v); ok {
			return decimal.NewFromInt(n), nil
		}
	case KindFloat:
		if f, ok := toFloat64(v); ok {
			return float32(f), nil
		}
	case KindDouble:
		if f, ok := toFloat64(v); ok {
			return f, nil
		}
	case KindInteger:
		if n, ok := toInt64(v); ok {
			return n, nil
		}
		if d, ok := v.(decimal.Decimal); ok && d.IsInteger() {
			return d, nil
		}
	case KindUnsignedInteger:
		if n, ok := toInt64(v); ok && n >= 0 {
			return uint64(n), nil
		}
		if n, ok := v.(uint64); ok {
			return n, nil
		}
		if d, ok := v.(decimal.Decimal); ok && d.IsInteger() && !d.IsNegative() {
			return d, nil
		}
	case KindDate:
		switch x := v.(type) {
		case civil.Date:
			return x, nil
		case time.Time:
			return civil.DateOf(x), nil
		}
	case KindTime:
		switch x := v.(type) {
		case civil.Time:
			return x, nil
		case time.Time:
			return civil.TimeOf(x), nil
		}
	case KindDateTime:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
	case KindDuration:
		switch x := v.(type) {
		case duration.Duration:
			return x, nil
		case *duration.Duration:
			if x != nil {
				return *x, nil
			}
		case time.Duration:
			return *duration.FromTimeDuration(x), nil
		}
	case KindBase64Binary:
		switch x := v.(type) {
		case []byte:
			return x, nil
		case HexBinary:
			return []byte(x), nil
		}
	case KindHexBinary:
		switch x := v.(type) {
		case HexBinary:
			return x, nil
		case []byte:
			return HexBinary(x), nil
		}
	}
	return nil, fmt.Errorf("cannot use %T as %s", v, k)
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), x <= math.MaxInt64
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), x <= math.MaxInt64
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<63 {
			return int64(x), true
		}
	case float32:
		f := float64(x)
		if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			return int64(f), true
		}
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case decimal.Decimal:
		f, _ := x.Float64()
		return f, true
	}
	if n, ok := toInt64(v); ok {
		return float64(n), true
	}
	return 0, false
}
