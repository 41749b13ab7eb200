package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func sample() Output {
	return Output{
		Value:   map[string]any{"IBAN": map[string]any{"kind": "string", "format": "iban"}},
		Columns: []string{"type", "kind", "format"},
		Rows: [][]string{
			{"IBAN", "string", "iban"},
			{"TransferCount", "integer", ""},
		},
	}
}

func TestDefaultRegistry(t *testing.T) {
	got := List()
	want := []string{"json", "table", "yaml"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("List() = %v, want %v", got, want)
	}

	if _, err := Lookup("csv"); err == nil {
		t.Error("Lookup(csv) should fail")
	}
	if err := DefaultRegistry.Register(NewJSONFormatter()); err == nil {
		t.Error("registering json twice should fail")
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter().Format(&buf, sample(), Options{}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "TYPE") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasSuffix(lines[2], "-") {
		t.Errorf("empty cell should render as '-': %q", lines[2])
	}
}

func TestTableFormatter_Options(t *testing.T) {
	var buf bytes.Buffer
	err := NewTableFormatter().Format(&buf, sample(), Options{NoHeader: true, MaxWidth: 6})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "TYPE") {
		t.Error("header should be omitted")
	}
	if !strings.Contains(out, "Tra...") {
		t.Errorf("long cell should be truncated:\n%s", out)
	}
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter().Format(&buf, Output{}, Options{}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "No records found.\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestStructuredFormatters(t *testing.T) {
	tests := []struct {
		name      string
		formatter Formatter
		decode    func([]byte, any) error
	}{
		{"json", NewJSONFormatter(), json.Unmarshal},
		{"yaml", NewYAMLFormatter(), yaml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.formatter.Format(&buf, sample(), Options{}); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			var got map[string]map[string]string
			if err := tt.decode(buf.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v\n%s", err, buf.String())
			}
			if got["IBAN"]["format"] != "iban" {
				t.Errorf("IBAN format = %q, want iban", got["IBAN"]["format"])
			}
		})
	}
}

func TestJSONFormatter_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter().Format(&buf, Output{Value: []int{1, 2}}, Options{Compact: true}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "[1,2]\n" {
		t.Errorf("output = %q, want [1,2]", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"", 10, "-"},
		{"short", 0, "short"},
		{"short", 10, "short"},
		{"abcdefgh", 6, "abc..."},
		{"abcdefgh", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
