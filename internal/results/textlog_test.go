package results

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func TestParseTextLogBlocks(t *testing.T) {
	t.Parallel()

	content := "Model: gpt-4\nCategory: reasoning\nSuccess: true\n\nModel: gpt-4\nCategory: reasoning\nSuccess: false\n"
	records, err := ParseTextLog(writeTempFile(t, "log.txt", content))
	if err != nil {
		t.Fatalf("ParseTextLog returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0][FieldModel] != "gpt-4" || records[0][FieldCategory] != "reasoning" {
		t.Fatalf("first record wrong: %v", records[0])
	}
	if records[0][FieldSuccess] != true {
		t.Fatalf("first record success=%v want true", records[0][FieldSuccess])
	}
	if records[1][FieldSuccess] != false {
		t.Fatalf("second record success=%v want false", records[1][FieldSuccess])
	}
}

func TestParseTextLogGrammar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block string
		want  RawRecord
	}{
		{
			name:  "case insensitive labels",
			block: "MODEL: claude\ncategory: coding",
			want:  RawRecord{FieldModel: "claude", FieldCategory: "coding"},
		},
		{
			name:  "label anywhere in line",
			block: "  >> Model: claude\nresult Category: coding",
			want:  RawRecord{FieldModel: "claude", FieldCategory: "coding"},
		},
		{
			name:  "value keeps later colons",
			block: "Model: org:team:claude",
			want:  RawRecord{FieldModel: "org:team:claude"},
		},
		{
			name:  "last write wins",
			block: "Model: first\nModel: second",
			want:  RawRecord{FieldModel: "second"},
		},
		{
			name:  "bad temperature dropped silently",
			block: "Model: m\nTemperature: warm",
			want:  RawRecord{FieldModel: "m"},
		},
		{
			name:  "good temperature parsed",
			block: "Temperature: 0.7",
			want:  RawRecord{FieldTemperature: 0.7},
		},
		{
			name:  "unrecognized lines ignored",
			block: "Prompt tokens = 9\nModel: m\nsomething else entirely",
			want:  RawRecord{FieldModel: "m"},
		},
		{
			name:  "truthy variants",
			block: "Success: YES",
			want:  RawRecord{FieldSuccess: true},
		},
		{
			name:  "non-truthy success is false",
			block: "Success: nope",
			want:  RawRecord{FieldSuccess: false},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseBlock(tt.block)
			if len(got) != len(tt.want) {
				t.Fatalf("parseBlock(%q)=%v want %v", tt.block, got, tt.want)
			}
			for key, want := range tt.want {
				if got[key] != want {
					t.Fatalf("parseBlock(%q)[%s]=%v want %v", tt.block, key, got[key], want)
				}
			}
		})
	}
}

func TestParseTextLogEmptyBlockStillYieldsRecord(t *testing.T) {
	t.Parallel()

	content := "just some banner text\nwithout any fields\n\nModel: m\nCategory: c\n"
	records, err := ParseTextLog(writeTempFile(t, "log.txt", content))
	if err != nil {
		t.Fatalf("ParseTextLog returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (empty block kept)", len(records))
	}
	if len(records[0]) != 0 {
		t.Fatalf("first record should be empty, got %v", records[0])
	}
}

func TestParseTextLogCRLF(t *testing.T) {
	t.Parallel()

	content := "Model: m\r\nCategory: c\r\n\r\nModel: n\r\nCategory: c\r\n"
	records, err := ParseTextLog(writeTempFile(t, "log.txt", content))
	if err != nil {
		t.Fatalf("ParseTextLog returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}

func TestParseTextLogRejectsInvalidUTF8(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x81}, 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	_, err := ParseTextLog(path)
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
}
