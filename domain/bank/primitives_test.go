package bank_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"github.com/artpar/primitives/domain/bank"
	"github.com/artpar/primitives/domain/primitive"
)

func TestPrimitives_DefaultsAreValid(t *testing.T) {
	for _, d := range bank.Primitives() {
		t.Run(d.Name(), func(t *testing.T) {
			r := d.CheckText(d.DefaultText())
			if !r.Valid {
				t.Errorf("default %q rejected: %s", d.DefaultText(), r.Reason)
			}
		})
	}
}

func TestPrimitives_DefaultsProperty(t *testing.T) {
	all := bank.Primitives()
	rapid.Check(t, func(t *rapid.T) {
		d := rapid.SampledFrom(all).Draw(t, "primitive")
		if r := d.CheckText(d.DefaultText()); !r.Valid {
			t.Fatalf("%s default rejected: %s", d.Name(), r.Reason)
		}
	})
}

func TestPrimitives_Lookup(t *testing.T) {
	d, ok := bank.Lookup("HoldPeriod")
	if !ok {
		t.Fatal("Lookup(HoldPeriod) missing")
	}
	if d.RawKind() != primitive.RawDuration {
		t.Errorf("RawKind() = %v, want duration", d.RawKind())
	}
	if d.Layout() != bank.ClockLayout {
		t.Errorf("Layout() = %q", d.Layout())
	}
	if _, ok := bank.Lookup("Nope"); ok {
		t.Error("Lookup(Nope) should miss")
	}
}

func TestCustomerName_Boundaries(t *testing.T) {
	tests := []struct {
		length    int
		wantValid bool
	}{
		{3, false},
		{4, true},
		{50, true},
		{100, true},
		{101, false},
	}

	for _, tt := range tests {
		name := strings.Repeat("a", tt.length)
		_, err := bank.NewCustomerName(name)
		if (err == nil) != tt.wantValid {
			t.Errorf("NewCustomerName(len=%d) error = %v, wantValid %v", tt.length, err, tt.wantValid)
		}
	}
}

func TestCustomerName_Trims(t *testing.T) {
	n, err := bank.NewCustomerName("   Ada Lovelace  ")
	if err != nil {
		t.Fatal(err)
	}
	if n.Raw() != "Ada Lovelace" {
		t.Errorf("Raw() = %q", n.Raw())
	}

	if _, err := bank.NewCustomerName("  ab  "); err == nil {
		t.Error("whitespace must not count towards the minimum length")
	}
}

func TestCustomerName_ReasonNeverEmpty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "name")

		_, err := bank.NewCustomerName(s)
		var rej *primitive.RejectionError
		if err != nil && (!errors.As(err, &rej) || rej.Reason == "") {
			t.Fatalf("NewCustomerName(%q) error = %v, want a reason", s, err)
		}
	})
}

func TestCustomerID(t *testing.T) {
	if _, err := bank.ParseCustomerID("00000000-0000-0000-0000-000000000000"); !errors.Is(err, primitive.ErrRejected) {
		t.Errorf("nil UUID error = %v, want ErrRejected", err)
	}
	if _, err := bank.ParseCustomerID("not-a-uuid"); err == nil {
		t.Error("malformed UUID should be rejected")
	}

	id := bank.MustCustomerID("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	if id.String() != "7d444840-9dc0-11d1-b245-5ffdce74fad2" {
		t.Errorf("String() = %q", id.String())
	}
	if bank.Primitives()[1].Style() != primitive.StyleError {
		t.Error("CustomerID should use error-style validation")
	}
}

func TestPositiveAmount(t *testing.T) {
	tests := []struct {
		input     string
		wantValid bool
	}{
		{"-1", false},
		{"0", false},
		{"0.01", true},
		{"10.5", true},
		{"1.005", false},
		{"1000000.99", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := bank.ParsePositiveAmount(tt.input)
			if (err == nil) != tt.wantValid {
				t.Errorf("ParsePositiveAmount(%q) error = %v, wantValid %v", tt.input, err, tt.wantValid)
			}
		})
	}
}

func TestPositiveAmount_Render(t *testing.T) {
	a, err := bank.NewPositiveAmount(decimal.RequireFromString("10.50"))
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != "10.5" {
		t.Errorf("String() = %q, want 10.5", a.String())
	}

	b, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "10.5" {
		t.Errorf("json = %s, want 10.5", b)
	}

	var back bank.PositiveAmount
	if err := json.Unmarshal([]byte(`"10.50"`), &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(a) {
		t.Errorf("Unmarshal = %s, want %s", back, a)
	}
	if err := json.Unmarshal([]byte(`-3`), &back); !errors.Is(err, primitive.ErrRejected) {
		t.Errorf("Unmarshal(-3) error = %v, want ErrRejected", err)
	}
}

func TestPositiveAmount_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cents := rapid.Int64Range(1, 1_000_000_000).Draw(t, "cents")
		a, err := bank.NewPositiveAmount(decimal.New(cents, -2))
		if err != nil {
			t.Fatal(err)
		}
		back, err := bank.ParsePositiveAmount(a.String())
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", a.String(), err)
		}
		if !back.Equal(a) {
			t.Fatalf("round trip %s -> %s", a, back)
		}
	})
}

func TestIBAN(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantRaw   string
		wantValid bool
	}{
		{"compact", "GB82WEST12345698765432", "GB82WEST12345698765432", true},
		{"spaced", "GB82 WEST 1234 5698 7654 32", "GB82WEST12345698765432", true},
		{"lowercase country", "gb82WEST12345698765432", "", false},
		{"missing check digits", "GBWEST12345698765432", "", false},
		{"too short", "GB82ABC", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iban, err := bank.NewIBAN(tt.input)
			if (err == nil) != tt.wantValid {
				t.Fatalf("NewIBAN(%q) error = %v, wantValid %v", tt.input, err, tt.wantValid)
			}
			if tt.wantValid && iban.Raw() != tt.wantRaw {
				t.Errorf("Raw() = %q, want %q", iban.Raw(), tt.wantRaw)
			}
		})
	}
}

func TestCompactDate(t *testing.T) {
	d, err := bank.NewCompactDate(time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "20240115" {
		t.Errorf("String() = %q, want 20240115", d.String())
	}

	back, err := bank.ParseCompactDate("20240115")
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(d) {
		t.Errorf("ParseCompactDate() = %v, want %v", back.Raw(), d.Raw())
	}

	for _, bad := range []string{"2024-01-15", "20241315", "18991231", "2024011"} {
		if _, err := bank.ParseCompactDate(bad); err == nil {
			t.Errorf("ParseCompactDate(%q) should fail", bad)
		}
	}
}

func TestCompactDate_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		y := rapid.IntRange(1900, 9999).Draw(t, "year")
		m := rapid.IntRange(1, 12).Draw(t, "month")
		day := rapid.IntRange(1, 28).Draw(t, "day")

		d, err := bank.NewCompactDate(time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatal(err)
		}
		back, err := bank.ParseCompactDate(d.String())
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", d.String(), err)
		}
		if !back.Equal(d) {
			t.Fatalf("round trip %s -> %s", d, back)
		}
	})
}

func TestBirthDate(t *testing.T) {
	restore := bank.SetNow(func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) })
	defer restore()

	tests := []struct {
		input     string
		wantValid bool
	}{
		{"1980-01-01", true},
		{"2006-06-15", true},
		{"2006-06-16", false},
		{"2024-06-15", false},
		{"2030-01-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := bank.ParseBirthDate(tt.input)
			if (err == nil) != tt.wantValid {
				t.Errorf("ParseBirthDate(%q) error = %v, wantValid %v", tt.input, err, tt.wantValid)
			}
			if err != nil && !errors.Is(err, primitive.ErrRejected) {
				t.Errorf("error = %v, want ErrRejected", err)
			}
		})
	}
}

func TestTransferCount(t *testing.T) {
	if _, err := bank.NewTransferCount(-1); err == nil {
		t.Error("NewTransferCount(-1) should fail")
	}
	c := bank.MustTransferCount(41).Next()
	if c.Raw() != 42 || c.String() != "42" {
		t.Errorf("Next() = %d / %q", c.Raw(), c.String())
	}
}

func TestCutoffTime(t *testing.T) {
	c, err := bank.ParseCutoffTime("17:30:00")
	if err != nil {
		t.Fatal(err)
	}
	if c.String() != "17:30:00" {
		t.Errorf("String() = %q", c.String())
	}

	day := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	if got := c.On(day); !got.Equal(time.Date(2024, 1, 15, 17, 30, 0, 0, time.UTC)) {
		t.Errorf("On() = %v", got)
	}

	for _, bad := range []string{"25:00:00", "17:30", "5pm"} {
		if _, err := bank.ParseCutoffTime(bad); err == nil {
			t.Errorf("ParseCutoffTime(%q) should fail", bad)
		}
	}
}

func TestHoldPeriod(t *testing.T) {
	tests := []struct {
		input     string
		want      time.Duration
		wantValid bool
	}{
		{"36:00:00", 36 * time.Hour, true},
		{"00:00:01", time.Second, true},
		{"720:00:00", 30 * 24 * time.Hour, true},
		{"720:00:01", 0, false},
		{"00:00:00", 0, false},
		{"1h", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			h, err := bank.ParseHoldPeriod(tt.input)
			if (err == nil) != tt.wantValid {
				t.Fatalf("ParseHoldPeriod(%q) error = %v, wantValid %v", tt.input, err, tt.wantValid)
			}
			if !tt.wantValid {
				return
			}
			if h.Raw() != tt.want {
				t.Errorf("Raw() = %v, want %v", h.Raw(), tt.want)
			}
			if h.String() != tt.input {
				t.Errorf("String() = %q, want %q", h.String(), tt.input)
			}
		})
	}
}

func TestCustomer_JSONRoundTrip(t *testing.T) {
	c := bank.Customer{
		ID:        bank.MustCustomerID("7d444840-9dc0-11d1-b245-5ffdce74fad2"),
		Name:      bank.MustCustomerName("John Doe"),
		IBAN:      bank.MustIBAN("GB82 WEST 1234 5698 7654 32"),
		BirthDate: bank.MustBirthDate("1980-01-01"),
		CreatedAt: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":"7d444840-9dc0-11d1-b245-5ffdce74fad2","name":"John Doe","iban":"GB82WEST12345698765432","birth_date":"1980-01-01","created_at":"2024-01-15T12:00:00Z"}`
	if string(b) != want {
		t.Errorf("Marshal() = %s\nwant %s", b, want)
	}

	var back bank.Customer
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != c.ID || back.Name != c.Name || back.IBAN != c.IBAN || !back.BirthDate.Equal(c.BirthDate) {
		t.Errorf("Unmarshal() = %+v, want %+v", back, c)
	}

	if err := json.Unmarshal([]byte(`{"name":"Al"}`), &back); !errors.Is(err, primitive.ErrRejected) {
		t.Errorf("Unmarshal(short name) error = %v, want ErrRejected", err)
	}
}

func TestPrimitives_SQLValue(t *testing.T) {
	v, err := bank.MustTransferCount(7).Value()
	if err != nil || v != int64(7) {
		t.Errorf("TransferCount.Value() = %v, %v", v, err)
	}

	var c bank.TransferCount
	if err := c.Scan(int64(9)); err != nil || c.Raw() != 9 {
		t.Errorf("Scan(9) = %d, %v", c.Raw(), err)
	}
	if err := c.Scan(int64(-1)); err == nil {
		t.Error("Scan(-1) should fail validation")
	}

	var d bank.CompactDate
	if err := d.Scan([]byte("20240115")); err != nil || d.String() != "20240115" {
		t.Errorf("CompactDate.Scan() = %s, %v", d, err)
	}

	var b bank.BirthDate
	if err := b.Scan("2020-01-01"); err != nil {
		t.Errorf("BirthDate.Scan() should not re-apply the age rule: %v", err)
	}
}
