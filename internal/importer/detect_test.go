package importer

import (
	"errors"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Format
	}{
		{
			name:  "custom CSV header",
			input: customCSVHeader + "\n1,Title,...",
			want:  FormatCustomCSV,
		},
		{
			name:  "standard PaperCall CSV header",
			input: standardCSVHeader + "\nJane,jane@x.com,...",
			want:  FormatStandardCSV,
		},
		{
			name:  "google form header prefix",
			input: "タイムスタンプ,Email,Your Name,Talk title,Abstract\n...",
			want:  FormatGoogleFormCSV,
		},
		{
			name:  "google form header with revision drift",
			input: googleFormHeaderPrefix + ",Col4,Col5,Col6,Extra question added later\n",
			want:  FormatGoogleFormCSV,
		},
		{
			name:  "JSON array",
			input: `[{"name":"Jane","email":"jane@x.com","title":"T"}]`,
			want:  FormatPaperCallJSON,
		},
		{
			name:  "JSON array with leading whitespace",
			input: "\n\n  [1]",
			want:  FormatPaperCallJSON,
		},
		{
			name:  "custom header with BOM",
			input: "\xEF\xBB\xBF" + customCSVHeader + "\n",
			want:  FormatCustomCSV,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect([]byte(tt.input))
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectUnrecognized(t *testing.T) {
	inputs := map[string]string{
		"unrelated header":      "foo,bar,baz\n1,2,3",
		"top-level JSON object": `{"name":"Jane"}`,
		"truncated known header": "ID,Title,Abstract\n",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := Detect([]byte(input))
			var unrecognized *UnrecognizedFormatError
			if !errors.As(err, &unrecognized) {
				t.Fatalf("Detect() error = %v, want UnrecognizedFormatError", err)
			}
			if unrecognized.Preview == "" {
				t.Error("UnrecognizedFormatError carries no header preview")
			}
		})
	}
}

func TestDetectEmptyFile(t *testing.T) {
	for _, input := range []string{"", "   \n\t ", "\xEF\xBB\xBF"} {
		if _, err := Detect([]byte(input)); !errors.Is(err, ErrEmptyFile) {
			t.Errorf("Detect(%q) error = %v, want ErrEmptyFile", input, err)
		}
	}
}

// Detection is deterministic: the same input always yields the same
// format.
func TestDetectDeterminism(t *testing.T) {
	input := []byte(customCSVHeader + "\n")
	first, err := Detect(input)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		got, err := Detect(input)
		if err != nil || got != first {
			t.Fatalf("Detect() = %q, %v on repeat %d, want %q", got, err, i, first)
		}
	}
}
