package results

import (
	"errors"
	"testing"
)

func TestNormalizeGate(t *testing.T) {
	t.Parallel()

	raw := []RawRecord{
		{FieldModel: "m", FieldCategory: "c"},
		{FieldModel: "m"},                      // missing category
		{FieldCategory: "c"},                   // missing model
		{FieldModel: "  ", FieldCategory: "c"}, // whitespace-only model
		{},                                     // empty block
		{FieldModel: " n ", FieldCategory: " d "},
	}

	table, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("got %d records, want 2", len(table))
	}
	if table[0].Model != "m" || table[1].Model != "n" || table[1].Category != "d" {
		t.Fatalf("unexpected table: %v", table)
	}
}

func TestNormalizeOptionalFieldCoercion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      RawRecord
		wantTemp *float64
		wantSucc *bool
		wantLang string
	}{
		{
			name:     "string temperature parses",
			raw:      RawRecord{FieldModel: "m", FieldCategory: "c", FieldTemperature: "0.7"},
			wantTemp: floatPtr(0.7),
		},
		{
			name: "bad temperature drops field only",
			raw:  RawRecord{FieldModel: "m", FieldCategory: "c", FieldTemperature: "abc"},
		},
		{
			name:     "json number temperature",
			raw:      RawRecord{FieldModel: "m", FieldCategory: "c", FieldTemperature: 0.2},
			wantTemp: floatPtr(0.2),
		},
		{
			name:     "truthy string success",
			raw:      RawRecord{FieldModel: "m", FieldCategory: "c", FieldSuccess: "Success"},
			wantSucc: boolPtr(true),
		},
		{
			name:     "numeric one success",
			raw:      RawRecord{FieldModel: "m", FieldCategory: "c", FieldSuccess: float64(1)},
			wantSucc: boolPtr(true),
		},
		{
			name:     "falsy string success",
			raw:      RawRecord{FieldModel: "m", FieldCategory: "c", FieldSuccess: "maybe"},
			wantSucc: boolPtr(false),
		},
		{
			name: "empty success cell is absent",
			raw:  RawRecord{FieldModel: "m", FieldCategory: "c", FieldSuccess: ""},
		},
		{
			name:     "language trimmed",
			raw:      RawRecord{FieldModel: "m", FieldCategory: "c", FieldLanguage: " en "},
			wantLang: "en",
		},
		{
			name: "blank language absent",
			raw:  RawRecord{FieldModel: "m", FieldCategory: "c", FieldLanguage: "   "},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table, err := Normalize([]RawRecord{tt.raw})
			if err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}
			if len(table) != 1 {
				t.Fatalf("record was dropped: %v", table)
			}

			record := table[0]
			switch {
			case tt.wantTemp == nil && record.HasTemperature():
				t.Fatalf("temperature should be absent, got %v", *record.Temperature)
			case tt.wantTemp != nil && (!record.HasTemperature() || *record.Temperature != *tt.wantTemp):
				t.Fatalf("temperature=%v want %v", record.Temperature, *tt.wantTemp)
			}
			switch {
			case tt.wantSucc == nil && record.HasSuccess():
				t.Fatalf("success should be absent, got %v", *record.Success)
			case tt.wantSucc != nil && (!record.HasSuccess() || *record.Success != *tt.wantSucc):
				t.Fatalf("success=%v want %v", record.Success, *tt.wantSucc)
			}
			if record.Language != tt.wantLang {
				t.Fatalf("language=%q want %q", record.Language, tt.wantLang)
			}
		})
	}
}

func TestNormalizeNoValidRecords(t *testing.T) {
	t.Parallel()

	_, err := Normalize([]RawRecord{{FieldModel: "x"}})
	if !errors.Is(err, ErrNoValidRecords) {
		t.Fatalf("expected ErrNoValidRecords, got %v", err)
	}

	_, err = Normalize(nil)
	if !errors.Is(err, ErrNoValidRecords) {
		t.Fatalf("expected ErrNoValidRecords for empty input, got %v", err)
	}
}

func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }
