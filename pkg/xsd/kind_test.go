package xsd

import (
	"math"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/sosodev/duration"
)

func TestParseFormatRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		text string
	}{
		{"string", KindString, "hello world"},
		{"boolean true", KindBoolean, "true"},
		{"boolean false", KindBoolean, "false"},
		{"decimal", KindDecimal, "12.5"},
		{"negative decimal", KindDecimal, "-0.001"},
		{"float", KindFloat, "1.5"},
		{"double", KindDouble, "2.25"},
		{"double infinity", KindDouble, "INF"},
		{"integer", KindInteger, "-42"},
		{"unsigned", KindUnsignedInteger, "18446744073709551615"},
		{"date", KindDate, "2024-03-01"},
		{"time", KindTime, "13:45:30"},
		{"dateTime utc", KindDateTime, "2024-03-01T13:45:30Z"},
		{"dateTime offset", KindDateTime, "2024-03-01T13:45:30+02:00"},
		{"duration", KindDuration, "P1Y2M3DT4H5M6S"},
		{"base64", KindBase64Binary, "aGVsbG8="},
		{"hex", KindHexBinary, "CAFE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.kind.Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.text, err)
			}
			text, ok, err := Format(v)
			if err != nil {
				t.Fatalf("Format(%v) failed: %v", v, err)
			}
			if !ok {
				t.Fatalf("Format(%v) produced no text", v)
			}
			if text != tt.text {
				t.Errorf("expected %q, got %q", tt.text, text)
			}
		})
	}
}

func TestParseTypes(t *testing.T) {
	tests := []struct {
		kind Kind
		text string
		want any
	}{
		{KindBoolean, "1", true},
		{KindBoolean, "0", false},
		{KindInteger, " 7 ", int64(7)},
		{KindUnsignedInteger, "+7", uint64(7)},
		{KindInteger, "-123456789012345678901234567890", decimal.RequireFromString("-123456789012345678901234567890")},
		{KindUnsignedInteger, "18446744073709551616", decimal.RequireFromString("18446744073709551616")},
		{KindDecimal, "3.10", decimal.RequireFromString("3.1")},
		{KindDate, "2024-03-01Z", civil.Date{Year: 2024, Month: time.March, Day: 1}},
		{KindDate, "2024-03-01+05:00", civil.Date{Year: 2024, Month: time.March, Day: 1}},
		{KindTime, "08:00:00Z", civil.Time{Hour: 8}},
		{KindHexBinary, "0a0b", HexBinary{0x0a, 0x0b}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.text, func(t *testing.T) {
			got, err := tt.kind.Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.text, err)
			}
			switch want := tt.want.(type) {
			case decimal.Decimal:
				if !want.Equal(got.(decimal.Decimal)) {
					t.Errorf("expected %v, got %v", want, got)
				}
			case HexBinary:
				if string(want) != string(got.(HexBinary)) {
					t.Errorf("expected %v, got %v", want, got)
				}
			default:
				if got != tt.want {
					t.Errorf("expected %v (%T), got %v (%T)", tt.want, tt.want, got, got)
				}
			}
		})
	}
}

func TestBigIntegerFacets(t *testing.T) {
	v, err := KindInteger.Parse("123456789012345678901234567890")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	text, ok, err := Format(v)
	if err != nil || !ok || text != "123456789012345678901234567890" {
		t.Errorf("Format = %q, %v, %v", text, ok, err)
	}
	if err := (&Restriction{MinInclusive: "0"}).Check(v); err != nil {
		t.Errorf("expected a large positive integer to pass minInclusive 0: %v", err)
	}
	if err := (&Restriction{MaxInclusive: "9223372036854775807"}).Check(v); err == nil {
		t.Error("expected maxInclusive to reject a value beyond int64")
	}
	if _, err := Coerce(KindUnsignedInteger, decimal.RequireFromString("-1")); err == nil {
		t.Error("expected a negative decimal to be rejected as unsignedInteger")
	}
}

func TestParseRejectsInvalidText(t *testing.T) {
	tests := []struct {
		kind Kind
		text string
	}{
		{KindBoolean, "yes"},
		{KindInteger, "1.5"},
		{KindUnsignedInteger, "-1"},
		{KindDecimal, "abc"},
		{KindDate, "01/02/2024"},
		{KindTime, "25:00"},
		{KindDuration, "1 day"},
		{KindHexBinary, "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.text, func(t *testing.T) {
			if _, err := tt.kind.Parse(tt.text); err == nil {
				t.Errorf("expected an error parsing %q as %s", tt.text, tt.kind)
			}
		})
	}
}

func TestFormatValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
		ok    bool
	}{
		{"nil", nil, "", false},
		{"nil marker", Nil, "", false},
		{"bool", false, "false", true},
		{"int", 42, "42", true},
		{"uint8", uint8(255), "255", true},
		{"nan", math.NaN(), "NaN", true},
		{"negative infinity", float32(math.Inf(-1)), "-INF", true},
		{"fraction stripped", time.Date(2024, 1, 2, 3, 4, 5, 999, time.UTC), "2024-01-02T03:04:05Z", true},
		{"civil time", civil.Time{Hour: 1, Minute: 2, Second: 3, Nanosecond: 500}, "01:02:03", true},
		{"negative duration", duration.Duration{Days: 1, Negative: true}, "-P0Y0M1DT0H0M0S", true},
		{"negative component", duration.Duration{Hours: -2}, "-P0Y0M0DT2H0M0S", true},
		{"weeks folded", duration.Duration{Weeks: 1, Days: 1}, "P0Y0M8DT0H0M0S", true},
		{"strings", []string{"a", "b", "c"}, "a b c", true},
		{"mixed sequence", []any{1, true, "x"}, "1 true x", true},
		{"bytes", []byte("hi"), "aGk=", true},
		{"lazy", func() any { return 3 }, "3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Format(tt.value)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatUnsupported(t *testing.T) {
	if _, _, err := Format(struct{ A int }{1}); err == nil {
		t.Fatal("expected an error for a struct value")
	}
}

func TestNegativeDurationParse(t *testing.T) {
	v, err := KindDuration.Parse("-P1D")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	d := v.(duration.Duration)
	if !d.Negative || d.Days != 1 {
		t.Fatalf("unexpected duration %+v", d)
	}
	text, _, _ := Format(d)
	if text != "-P0Y0M1DT0H0M0S" {
		t.Errorf("expected a single leading minus, got %q", text)
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		value   any
		want    any
		wantErr bool
	}{
		{"int to integer", KindInteger, 5, int64(5), false},
		{"whole float to integer", KindInteger, 5.0, int64(5), false},
		{"fractional float to integer", KindInteger, 5.5, nil, true},
		{"int to unsigned", KindUnsignedInteger, 5, uint64(5), false},
		{"negative to unsigned", KindUnsignedInteger, -5, nil, true},
		{"int to double", KindDouble, 2, 2.0, false},
		{"string parsed", KindBoolean, "true", true, false},
		{"number to string", KindString, 12, "12", false},
		{"nil", KindInteger, nil, Nil, false},
		{"bool to integer", KindInteger, true, nil, true},
		{"time to date", KindDate, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), civil.Date{Year: 2024, Month: time.May, Day: 6}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.kind, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Coerce failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v (%T), got %v (%T)", tt.want, tt.want, got, got)
			}
		})
	}
}
