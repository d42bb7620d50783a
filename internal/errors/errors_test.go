package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"config error", "E100", "Invalid configuration file", CategoryConfig},
		{"document error", "E123", "Unknown component", CategoryDocument},
		{"publish error", "E152", "Upload failed", CategoryPublish},
		{"unknown error code", "E999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "page.yaml")
	if err.Message != `file "page.yaml" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != `file "page.yaml" not found` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorString(t *testing.T) {
	err := New("E120")
	if got := err.Error(); got != "E120: Document not readable" {
		t.Errorf("Error() = %q", got)
	}
	err.Wrap(os.ErrNotExist)
	if got := err.Error(); got != "E120: Document not readable: file does not exist" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWithLocation(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "page.yaml")
	content := "root:\n  tag: div\n  children:\n    - component: Card\n    - text: hi\ncomponents: {}\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	err := New("E123").WithLocation(tmpFile, 4, 7)
	if err.Location == nil || err.Location.Line != 4 || err.Location.Column != 7 {
		t.Fatalf("Location = %+v", err.Location)
	}
	if len(err.Context) != 5 {
		t.Errorf("Context = %d lines, want 5", len(err.Context))
	}

	missing := New("E123").WithLocation(filepath.Join(t.TempDir(), "nope.yaml"), 1, 1)
	if missing.Context != nil {
		t.Error("Context should be empty for unreadable files")
	}
}

func TestUnwrapAndIs(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := New("E151").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	wrapped := fmt.Errorf("publishing: %w", err)
	if !stderrors.Is(wrapped, New("E151")) {
		t.Error("errors.Is should match by code")
	}
	if stderrors.Is(wrapped, New("E152")) {
		t.Error("different codes should not match")
	}
	if !HasCode(wrapped, "E151") || HasCode(wrapped, "E100") {
		t.Error("HasCode mismatch")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E100") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	e := New("E121")
	if FromError(fmt.Errorf("ctx: %w", e), "E100") != e {
		t.Error("FromError should return a wrapped *Error as-is")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "E140")
	if got.Code != "E140" || got.Wrapped != plain {
		t.Errorf("FromError = %+v", got)
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"with column", &Location{File: "a.yaml", Line: 10, Column: 5}, "a.yaml:10:5"},
		{"without column", &Location{File: "a.yaml", Line: 10}, "a.yaml:10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tmpFile := filepath.Join(t.TempDir(), "page.yaml")
	content := "root:\n  component: Card\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	err := New("E123").
		WithLocation(tmpFile, 2, 14).
		WithSuggestion("Declare Card under components").
		Wrap(stderrors.New("no such component"))

	formatted := err.Format()
	for _, want := range []string{
		"ERROR E123: Unknown component",
		tmpFile + ":2:14",
		"→    2 │   component: Card",
		"^",
		"Cause: no such component",
		"Hint: Declare Card under components",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format missing %q:\n%s", want, formatted)
		}
	}
	if strings.Contains(formatted, "\033[") {
		t.Error("colors should be disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E101")
	err.Location = &Location{File: "vnode.yaml", Line: 3}
	if got := err.FormatCompact(); got != "vnode.yaml:3: E101: Invalid configuration value" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestPrint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Print(&buf, fmt.Errorf("wrapped: %w", New("E181")))
	if !strings.Contains(buf.String(), "ERROR E181: Invalid port") {
		t.Errorf("Print() = %q", buf.String())
	}

	buf.Reset()
	Print(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("Print() = %q", buf.String())
	}
}

func TestCodesAreRegistered(t *testing.T) {
	codes := Codes()
	if len(codes) == 0 {
		t.Fatal("no codes registered")
	}
	for i, code := range codes {
		if i > 0 && codes[i-1] >= code {
			t.Errorf("codes not sorted at %d: %v", i, codes)
		}
		tmpl, ok := Lookup(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("%s: incomplete template %+v", code, tmpl)
		}
	}
	if _, ok := Lookup("E999"); ok {
		t.Error("E999 should not be registered")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line too long: %q", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}

func TestFormatPlainIgnoresColorSetting(t *testing.T) {
	EnableColors()
	defer DisableColors()

	err := New("E140").WithSuggestion("Try again")
	if !strings.Contains(err.Format(), "\033[") {
		t.Error("Format should use colors when enabled")
	}
	plain := err.FormatPlain()
	if strings.Contains(plain, "\033[") {
		t.Errorf("FormatPlain contains ANSI codes: %q", plain)
	}
	if !strings.Contains(plain, "ERROR E140: Render failed") || !strings.Contains(plain, "Hint: Try again") {
		t.Errorf("FormatPlain = %q", plain)
	}
}
