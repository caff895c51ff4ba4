//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpImageLoad,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpImageLoad,
			err:      errors.New("file not found"),
			expected: "Failed to load image: file not found",
		},
		{
			name:     "extraction operation",
			op:       OpImageExtract,
			err:      errors.New("zero size"),
			expected: "Failed to extract image bytes: zero size",
		},
		{
			name:     "engine operation",
			op:       OpEngineStart,
			err:      errors.New("no terminal"),
			expected: "Failed to start rendering engine: no terminal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpImageLoad,
			context:  "a.png",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpImageLoad,
			context:  "a.png",
			err:      errors.New("permission denied"),
			expected: "Failed to load image 'a.png': permission denied",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpImageLoad,
			context:  "",
			err:      errors.New("permission denied"),
			expected: "Failed to load image: permission denied",
		},
		{
			name:     "write with path context",
			op:       OpFileWrite,
			context:  "/tmp/out.png",
			err:      errors.New("read-only file system"),
			expected: "Failed to write file '/tmp/out.png': read-only file system",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpImageLoad, OpImageExtract, OpImageCache,
		OpEngineStart, OpEngineDraw,
		OpStateOpen, OpHistorySave, OpHistoryLoad, OpConfigLoad, OpFileWrite,
		OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
