package xsd

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	UseOptional   = "optional"
	UseRequired   = "required"
	UseProhibited = "prohibited"
)

// FacetNames lists the xs:restriction children folded into a Restriction,
// in the order they are applied.
var FacetNames = []string{
	"minExclusive", "minInclusive", "maxExclusive", "maxInclusive",
	"totalDigits", "fractionDigits",
	"length", "minLength", "maxLength",
	"enumeration", "whiteSpace", "pattern",
}

// ChoiceGroup is the alternative set of an xs:choice.
type ChoiceGroup struct {
	Names     []string
	MinOccurs Occurs
	MaxOccurs Occurs
}

// NewChoiceGroup returns a group with the default 1..1 bounds.
func NewChoiceGroup(names ...string) *ChoiceGroup {
	return &ChoiceGroup{
		Names:     names,
		MinOccurs: Bounded(1),
		MaxOccurs: Bounded(1),
	}
}

func (g *ChoiceGroup) Has(name string) bool {
	if g == nil {
		return false
	}
	for _, n := range g.Names {
		if n == name {
			return true
		}
	}
	return false
}

func (g *ChoiceGroup) String() string {
	names := make([]string, len(g.Names))
	for i, n := range g.Names {
		names[i] = strconv.Quote(n)
	}
	lo, _ := g.MinOccurs.Count()
	if hi, ok := g.MaxOccurs.Count(); ok && hi == lo {
		return fmt.Sprintf("only %d of [%s] is allowed", hi, strings.Join(names, ", "))
	}
	return fmt.Sprintf("between %s and %s of [%s] are allowed", g.MinOccurs, g.MaxOccurs, strings.Join(names, ", "))
}

// Restriction holds every facet XML Schema can place on a value slot.
// Numeric bounds are kept lexically so they can be compared against any
// numeric kind.
type Restriction struct {
	MinExclusive   string
	MinInclusive   string
	MaxExclusive   string
	MaxInclusive   string
	TotalDigits    *int
	FractionDigits *int
	Length         *int
	MinLength      *int
	MaxLength      *int
	Enumeration    []string
	WhiteSpace     string
	Pattern        []string
	Custom         string
	MinOccurs      *Occurs
	MaxOccurs      *Occurs
	Nillable       bool
	Use            string
	Choices        *ChoiceGroup
}

// Required is true iff length>0, minLength>0, minOccurs>0 or use="required".
func (r *Restriction) Required() bool {
	if r == nil {
		return false
	}
	if r.Length != nil && *r.Length > 0 {
		return true
	}
	if r.MinLength != nil && *r.MinLength > 0 {
		return true
	}
	if r.MinOccurs != nil {
		if n, ok := r.MinOccurs.Count(); ok && n > 0 {
			return true
		}
	}
	return r.Use == UseRequired
}

// Repeatable reports whether maxOccurs admits more than one occurrence.
func (r *Restriction) Repeatable() bool {
	return r != nil && r.MaxOccurs != nil && r.MaxOccurs.Repeatable()
}

// SetFacet folds one facet into r. Later calls overwrite earlier ones;
// enumeration and pattern take the whole value list.
func (r *Restriction) SetFacet(name string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	last := values[len(values)-1]
	intValue := func() (*int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(last))
		if err != nil {
			return nil, fmt.Errorf("facet %s: %q is not an integer", name, last)
		}
		return &n, nil
	}

	var err error
	switch name {
	case "minExclusive":
		r.MinExclusive = last
	case "minInclusive":
		r.MinInclusive = last
	case "maxExclusive":
		r.MaxExclusive = last
	case "maxInclusive":
		r.MaxInclusive = last
	case "totalDigits":
		r.TotalDigits, err = intValue()
	case "fractionDigits":
		r.FractionDigits, err = intValue()
	case "length":
		r.Length, err = intValue()
	case "minLength":
		r.MinLength, err = intValue()
	case "maxLength":
		r.MaxLength, err = intValue()
	case "enumeration":
		r.Enumeration = append([]string(nil), values...)
	case "whiteSpace":
		r.WhiteSpace = last
	case "pattern":
		r.Pattern = append([]string(nil), values...)
	case "minOccurs":
		var o Occurs
		if o, err = ParseOccurs(last); err == nil {
			r.MinOccurs = &o
		}
	case "maxOccurs":
		var o Occurs
		if o, err = ParseOccurs(last); err == nil {
			r.MaxOccurs = &o
		}
	case "nillable":
		r.Nillable = last == "true" || last == "1"
	case "use":
		r.Use = last
	default:
		return fmt.Errorf("unknown facet %q", name)
	}
	return err
}

// Clone returns an independent copy of r.
func (r *Restriction) Clone() *Restriction {
	if r == nil {
		return nil
	}
	c := *r
	c.TotalDigits = cloneInt(r.TotalDigits)
	c.FractionDigits = cloneInt(r.FractionDigits)
	c.Length = cloneInt(r.Length)
	c.MinLength = cloneInt(r.MinLength)
	c.MaxLength = cloneInt(r.MaxLength)
	c.Enumeration = append([]string(nil), r.Enumeration...)
	c.Pattern = append([]string(nil), r.Pattern...)
	if r.MinOccurs != nil {
		c.MinOccurs = occursPtr(*r.MinOccurs)
	}
	if r.MaxOccurs != nil {
		c.MaxOccurs = occursPtr(*r.MaxOccurs)
	}
	if r.Choices != nil {
		g := *r.Choices
		g.Names = append([]string(nil), r.Choices.Names...)
		c.Choices = &g
	}
	return &c
}

// Merge returns the effective restriction of r overlaid with over: every
// facet set on over wins. Neither input is modified.
func (r *Restriction) Merge(over *Restriction) *Restriction {
	out := r.Clone()
	if out == nil {
		out = &Restriction{}
	}
	if over == nil {
		return out
	}
	o := over.Clone()
	if o.MinExclusive != "" {
		out.MinExclusive = o.MinExclusive
	}
	if o.MinInclusive != "" {
		out.MinInclusive = o.MinInclusive
	}
	if o.MaxExclusive != "" {
		out.MaxExclusive = o.MaxExclusive
	}
	if o.MaxInclusive != "" {
		out.MaxInclusive = o.MaxInclusive
	}
	if o.TotalDigits != nil {
		out.TotalDigits = o.TotalDigits
	}
	if o.FractionDigits != nil {
		out.FractionDigits = o.FractionDigits
	}
	if o.Length != nil {
		out.Length = o.Length
	}
	if o.MinLength != nil {
		out.MinLength = o.MinLength
	}
	if o.MaxLength != nil {
		out.MaxLength = o.MaxLength
	}
	if len(o.Enumeration) > 0 {
		out.Enumeration = o.Enumeration
	}
	if o.WhiteSpace != "" {
		out.WhiteSpace = o.WhiteSpace
	}
	if len(o.Pattern) > 0 {
		out.Pattern = o.Pattern
	}
	if o.Custom != "" {
		out.Custom = o.Custom
	}
	if o.MinOccurs != nil {
		out.MinOccurs = o.MinOccurs
	}
	if o.MaxOccurs != nil {
		out.MaxOccurs = o.MaxOccurs
	}
	if o.Nillable {
		out.Nillable = true
	}
	if o.Use != "" {
		out.Use = o.Use
	}
	if o.Choices != nil {
		out.Choices = o.Choices
	}
	return out
}

// String renders the active facets for humans.
func (r *Restriction) String() string {
	if r == nil {
		return ""
	}
	var parts []string
	if r.MinExclusive != "" {
		parts = append(parts, "value > "+r.MinExclusive)
	}
	if r.MinInclusive != "" {
		parts = append(parts, "value >= "+r.MinInclusive)
	}
	if r.MaxExclusive != "" {
		parts = append(parts, "value < "+r.MaxExclusive)
	}
	if r.MaxInclusive != "" {
		parts = append(parts, "value <= "+r.MaxInclusive)
	}
	if r.TotalDigits != nil {
		parts = append(parts, fmt.Sprintf("at most %d digits", *r.TotalDigits))
	}
	if r.FractionDigits != nil {
		parts = append(parts, fmt.Sprintf("at most %d fraction digits", *r.FractionDigits))
	}
	if r.Length != nil {
		parts = append(parts, fmt.Sprintf("len(value) == %d", *r.Length))
	}
	if r.MinLength != nil {
		parts = append(parts, fmt.Sprintf("len(value) >= %d", *r.MinLength))
	}
	if r.MaxLength != nil {
		parts = append(parts, fmt.Sprintf("len(value) <= %d", *r.MaxLength))
	}
	if len(r.Enumeration) > 0 {
		parts = append(parts, fmt.Sprintf("value in [%s]", strings.Join(r.Enumeration, ", ")))
	}
	if len(r.Pattern) > 0 {
		parts = append(parts, fmt.Sprintf("value matches %q", strings.Join(r.Pattern, "|")))
	}
	if r.Custom != "" {
		parts = append(parts, r.Custom)
	}
	if r.MinOccurs != nil {
		if n, ok := r.MinOccurs.Count(); ok && n > 0 {
			parts = append(parts, fmt.Sprintf("at least %d required", n))
		}
	}
	if r.MaxOccurs != nil {
		if n, ok := r.MaxOccurs.Count(); ok && n != 1 {
			parts = append(parts, fmt.Sprintf("at most %d allowed", n))
		}
	}
	if r.Nillable {
		parts = append(parts, "may be nil")
	}
	if r.Use == UseRequired || r.Use == UseProhibited {
		parts = append(parts, "use "+r.Use)
	}
	if r.Choices != nil {
		parts = append(parts, r.Choices.String())
	}
	return strings.Join(parts, ", ")
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	n := *p
	return &n
}

func intPtr(n int) *int {
	return &n
}
