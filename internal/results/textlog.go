package results

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// fieldMatcher recognizes one labeled line of the text-log grammar. A line
// matches when the lowercase label (including its colon) appears anywhere in
// the line; the value is everything after the line's first colon. Further
// colons are literal value content.
type fieldMatcher struct {
	key   string
	label string
	parse func(value string) (any, bool)
}

// textLogFields is the fixed grammar of the block-structured log format.
// Matchers are tried in order; the first label found claims the line.
var textLogFields = []fieldMatcher{
	{key: FieldModel, label: "model:", parse: parseVerbatim},
	{key: FieldCategory, label: "category:", parse: parseVerbatim},
	{key: FieldLanguage, label: "language:", parse: parseVerbatim},
	{key: FieldTemperature, label: "temperature:", parse: parseTemperatureField},
	{key: FieldSuccess, label: "success:", parse: parseSuccessField},
}

func parseVerbatim(value string) (any, bool) { return value, true }

// parseTemperatureField drops unparseable values silently; the rest of the
// block is unaffected.
func parseTemperatureField(value string) (any, bool) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

func parseSuccessField(value string) (any, bool) {
	return IsTruthy(value), true
}

// IsTruthy reports whether a raw success value belongs to the permissive
// truthy set {true, 1, yes, success}, case-insensitively. Every other
// string is falsy, not an error.
func IsTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "success":
		return true
	}
	return false
}

// ParseTextLog parses the bespoke block-structured log format: blocks are
// separated by blank lines, and each line of a block is matched against the
// grammar's field labels. Unrecognized lines are ignored, and a later line
// repeating a label overwrites the earlier one. Every block yields a raw
// record, even an empty one; missing required fields are resolved later by
// Normalize. The only failure mode is an unreadable or non-UTF-8 file.
func ParseTextLog(path string) ([]RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, &MalformedInputError{Format: "text", Err: fmt.Errorf("file is not valid UTF-8")}
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")

	var records []RawRecord
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		records = append(records, parseBlock(block))
	}
	return records, nil
}

func parseBlock(block string) RawRecord {
	record := make(RawRecord)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		matcher, ok := matchLine(line)
		if !ok {
			continue
		}
		_, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		parsed, ok := matcher.parse(strings.TrimSpace(value))
		if !ok {
			continue
		}
		record[matcher.key] = parsed
	}
	return record
}

func matchLine(line string) (fieldMatcher, bool) {
	lower := strings.ToLower(line)
	for _, matcher := range textLogFields {
		if strings.Contains(lower, matcher.label) {
			return matcher, true
		}
	}
	return fieldMatcher{}, false
}
