package errors

import (
	"errors"
	"fmt"
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
		{
			name:    "compile error",
			code:    "E101",
			wantMsg: "Template hole in tag name position",
			wantCat: CategoryCompile,
		},
		{
			name:    "runtime error",
			code:    "E201",
			wantMsg: "No conversion for value",
			wantCat: CategoryRuntime,
		},
		{
			name:    "live error",
			code:    "E301",
			wantMsg: "Snapshot store failure",
			wantCat: CategoryLive,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
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
	err := Newf(CategoryRuntime, "value %q rejected", "x")
	if err.Message != `value "x" rejected` {
		t.Errorf("Message = %q, want %q", err.Message, `value "x" rejected`)
	}
	if err.Category != CategoryRuntime {
		t.Errorf("Category = %q, want %q", err.Category, CategoryRuntime)
	}
}

func TestError_Error(t *testing.T) {
	err := New("E201")
	got := err.Error()
	want := "E201: No conversion for value"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// Without code
	err2 := &Error{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := New("E301").Wrap(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E301") != nil {
		t.Error("FromError(nil) should return nil")
	}

	we := New("E201")
	if FromError(we, "E301") != we {
		t.Error("FromError should pass through existing *Error values")
	}

	plain := fmt.Errorf("disk full")
	wrapped := FromError(plain, "E301")
	if wrapped.Code != "E301" {
		t.Errorf("Code = %q, want E301", wrapped.Code)
	}
	if !errors.Is(wrapped, plain) {
		t.Error("wrapped error should unwrap to the original")
	}
}

func TestIsCode(t *testing.T) {
	err := New("E102")
	if !IsCode(err, "E102") {
		t.Error("IsCode(E102) = false, want true")
	}
	if IsCode(err, "E101") {
		t.Error("IsCode(E101) = true, want false")
	}

	wrapped := fmt.Errorf("compile: %w", err)
	if !IsCode(wrapped, "E102") {
		t.Error("IsCode should see through fmt.Errorf wrapping")
	}

	if IsCode(nil, "E102") {
		t.Error("IsCode(nil) = true, want false")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E201").
		WithDetail("value main.widget{} at node placement").
		WithSuggestion("register a factory with weft.Define")

	out := err.Format()

	for _, want := range []string{
		"ERROR E201:",
		"No conversion for value",
		"main.widget{}",
		"Hint: register a factory with weft.Define",
		"Learn more:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E203").WithDetail("got a text node")
	got := err.FormatCompact()
	want := "E203: Render target is not a container node (got a text node)"
	if got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("no registered codes")
	}
	found := false
	for _, c := range codes {
		if c == "E201" {
			found = true
		}
	}
	if !found {
		t.Error("E201 missing from GetAllCodes()")
	}
}

func TestRegister(t *testing.T) {
	Register("E901", ErrorTemplate{
		Category: CategoryLive,
		Message:  "custom failure",
	})
	err := New("E901")
	if err.Message != "custom failure" {
		t.Errorf("Message = %q, want %q", err.Message, "custom failure")
	}
}
