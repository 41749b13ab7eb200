package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artpar/primitives/core/discovery"
	"github.com/artpar/primitives/domain/bank"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{"valid iban", []string{"check", "IBAN", "GB82WEST12345698765432"}, "accepts", nil},
		{"invalid iban", []string{"check", "IBAN", "nope"}, "rejected", errRejected},
		{"valid date", []string{"check", "CompactDate", "20240115"}, "accepts", nil},
		{"unparsable date", []string{"check", "CompactDate", "2024-01-15"}, "rejected", errRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("check error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestCheck_UnknownPrimitive(t *testing.T) {
	_, err := execute(t, "check", "Nope", "x")
	if err == nil {
		t.Fatal("expected an error for an unknown primitive")
	}
	if !strings.Contains(err.Error(), "CustomerName") {
		t.Errorf("error should list the known primitives: %v", err)
	}
}

func TestSchemas_JSON(t *testing.T) {
	out, err := execute(t, "schemas", "--format", "json")
	if err != nil {
		t.Fatalf("schemas error = %v", err)
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	iban, ok := got["github.com/artpar/primitives/domain/bank.IBAN"]
	if !ok {
		t.Fatalf("IBAN missing from %v", out)
	}
	var f struct {
		Kind    string `json:"kind"`
		Pattern string `json:"pattern"`
	}
	if err := json.Unmarshal(iban, &f); err != nil {
		t.Fatalf("decode fragment: %v", err)
	}
	if f.Kind != "string" {
		t.Errorf("kind = %s, want string", f.Kind)
	}
	if f.Pattern != bank.IBANPattern {
		t.Errorf("pattern = %s, want %s", f.Pattern, bank.IBANPattern)
	}
}

func TestSchemas_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"yaml", []string{"github.com/artpar/primitives/domain/bank.IBAN:", "kind:", "- string", "pattern:"}},
		{"table", []string{"TYPE", "KIND", "bank.IBAN", "string"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := execute(t, "schemas", "--format", tt.format)
			if err != nil {
				t.Fatalf("schemas error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}

	if _, err := execute(t, "schemas", "--format", "toml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestModulesOutput(t *testing.T) {
	report := discovery.Report{
		Order:   []string{"bank", "std/time", "bank/ledger"},
		Marked:  []string{"bank", "bank/ledger"},
		Skipped: []error{errors.New(`module "bank/fx" not found`)},
	}

	out := modulesOutput(report)
	if len(out.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(out.Rows))
	}
	if out.Rows[1][0] != " " || out.Rows[2][0] != "*" {
		t.Errorf("marks = %q, %q", out.Rows[1][0], out.Rows[2][0])
	}

	value := out.Value.(modulesReport)
	if len(value.Modules) != 3 || value.Modules[1].Marked {
		t.Errorf("modules = %+v", value.Modules)
	}
	if len(value.Skipped) != 1 {
		t.Errorf("skipped = %v", value.Skipped)
	}
}

func TestModules(t *testing.T) {
	out, err := execute(t, "modules", "--format", "table")
	if err != nil {
		t.Fatalf("modules error = %v", err)
	}
	for _, want := range []string{"*  bank\n", "*  bank/ledger\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "*  bank\n") > strings.Index(out, "*  bank/ledger\n") {
		t.Errorf("bank should be visited before its ledger:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "primitives dev") {
		t.Errorf("output = %q", out)
	}
}
