package xsd

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Check validates v against the value facets of r. Occurrence facets are
// checked by the callers that know how many items are present.
func (r *Restriction) Check(v any) error {
	if r == nil {
		return nil
	}
	if fn, ok := v.(func() any); ok {
		v = fn()
	}
	text, ok, err := Format(v)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if len(r.Enumeration) > 0 && !contains(r.Enumeration, text) {
		return fmt.Errorf("%q is not one of [%s]", text, strings.Join(r.Enumeration, ", "))
	}

	if n, ok := valueLength(v); ok {
		if r.Length != nil && n != *r.Length {
			return fmt.Errorf("length %d must be %d", n, *r.Length)
		}
		if r.MinLength != nil && n < *r.MinLength {
			return fmt.Errorf("length %d is below minLength %d", n, *r.MinLength)
		}
		if r.MaxLength != nil && n > *r.MaxLength {
			return fmt.Errorf("length %d exceeds maxLength %d", n, *r.MaxLength)
		}
	}

	if len(r.Pattern) > 0 {
		if re := compilePattern(r.Pattern); re != nil && !re.MatchString(text) {
			return fmt.Errorf("%q does not match %q", text, strings.Join(r.Pattern, "|"))
		}
	}

	if d, ok := numericValue(v); ok {
		if err := r.checkBounds(d); err != nil {
			return err
		}
		if err := r.checkDigits(d); err != nil {
			return err
		}
	}
	return nil
}

// patterns caches compiled pattern facets by source. Patterns Go's regexp
// cannot express (\i, \c, \p{Is...}) are stored as nil and not enforced.
var patterns sync.Map

func compilePattern(alternatives []string) *regexp.Regexp {
	source := strings.Join(alternatives, "|")
	if re, ok := patterns.Load(source); ok {
		return re.(*regexp.Regexp)
	}
	re, err := regexp.Compile("^(?:" + source + ")$")
	if err != nil {
		log.Debug().Err(err).Str("pattern", source).Msg("Pattern facet not supported, skipping")
		re = nil
	}
	actual, _ := patterns.LoadOrStore(source, re)
	return actual.(*regexp.Regexp)
}

func (r *Restriction) checkBounds(d decimal.Decimal) error {
	bounds := []struct {
		bound string
		fails func(cmp int) bool
		op    string
	}{
		{r.MinExclusive, func(c int) bool { return c <= 0 }, ">"},
		{r.MinInclusive, func(c int) bool { return c < 0 }, ">="},
		{r.MaxExclusive, func(c int) bool { return c >= 0 }, "<"},
		{r.MaxInclusive, func(c int) bool { return c > 0 }, "<="},
	}
	for _, b := range bounds {
		if b.bound == "" {
			continue
		}
		limit, err := decimal.NewFromString(strings.TrimSpace(b.bound))
		if err != nil {
			continue
		}
		if b.fails(d.Cmp(limit)) {
			return fmt.Errorf("%s must be %s %s", d.String(), b.op, b.bound)
		}
	}
	return nil
}

func (r *Restriction) checkDigits(d decimal.Decimal) error {
	if r.TotalDigits == nil && r.FractionDigits == nil {
		return nil
	}
	whole, frac, _ := strings.Cut(strings.TrimLeft(d.Abs().String(), "0"), ".")
	frac = strings.TrimRight(frac, "0")
	if r.FractionDigits != nil && len(frac) > *r.FractionDigits {
		return fmt.Errorf("%s has more than %d fraction digits", d.String(), *r.FractionDigits)
	}
	if r.TotalDigits != nil && len(whole)+len(frac) > *r.TotalDigits {
		return fmt.Errorf("%s has more than %d digits", d.String(), *r.TotalDigits)
	}
	return nil
}

func valueLength(v any) (int, bool) {
	switch x := v.(type) {
	case string:
		return utf8.RuneCountInString(x), true
	case []byte:
		return len(x), true
	case HexBinary:
		return len(x), true
	case []string:
		return len(x), true
	case []any:
		return len(x), true
	}
	return 0, false
}

func numericValue(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case float32:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(x), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0), true
	}
	if n, ok := toInt64(v); ok {
		return decimal.NewFromInt(n), true
	}
	return decimal.Decimal{}, false
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
