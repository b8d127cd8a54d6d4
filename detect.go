package molt

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"
)

// Detect sniffs data and returns the most plausible format. Detection
// is heuristic: it inspects leading bytes and line shapes, never parses
// the whole input. Returns ErrUnknownFormat when nothing matches.
func Detect(data []byte) (Format, error) {
	return DetectContext(context.Background(), data)
}

// DetectContext is Detect with signal emission tied to ctx.
func DetectContext(ctx context.Context, data []byte) (Format, error) {
	f, err := detect(data)
	emitDetect(ctx, f, len(data), err)
	return f, err
}

func detect(data []byte) (Format, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return "", newFormatError(ErrUnknownFormat, "")
	}

	// Binary input can only be the pack format. A leading control byte
	// below horizontal tab catches small fixint roots, which are valid
	// UTF-8 but never start a text document.
	if !utf8.Valid(data) || data[0] < '\t' {
		return FormatPack, nil
	}

	switch trimmed[0] {
	case '<':
		return FormatXML, nil
	case '{', '"':
		return FormatJSON, nil
	case '[':
		// A lone [section] line is INI/TOML; anything else is a JSON array.
		if f, ok := detectSectioned(trimmed); ok {
			return f, nil
		}
		return FormatJSON, nil
	}

	if bytes.HasPrefix(trimmed, []byte("---")) {
		return FormatYAML, nil
	}

	lines := splitLines(trimmed)
	if f, ok := detectByLines(lines); ok {
		return f, nil
	}
	return "", newFormatError(ErrUnknownFormat, "")
}

// detectSectioned distinguishes a [header] config section from a JSON
// array opener. A section header closes its bracket on the first line
// with no comma before it.
func detectSectioned(trimmed []byte) (Format, bool) {
	nl := bytes.IndexByte(trimmed, '\n')
	first := trimmed
	if nl >= 0 {
		first = trimmed[:nl]
	}
	first = bytes.TrimRight(first, " \t\r")
	if len(first) < 2 || first[len(first)-1] != ']' || bytes.ContainsAny(first, ",{\"") {
		return "", false
	}
	rest := trimmed
	if nl >= 0 {
		rest = trimmed[nl+1:]
	}
	if iniMarkers(splitLines(rest)) {
		return FormatINI, true
	}
	return FormatTOML, true
}

func detectByLines(lines []string) (Format, bool) {
	var (
		yamlish, assigns, commas, columns, total int
	)
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, ";") {
			continue
		}
		total++
		if strings.HasPrefix(s, "- ") {
			yamlish++
			continue
		}
		// Section headers count toward the config-file shape.
		if len(s) > 1 && s[0] == '[' && s[len(s)-1] == ']' {
			assigns++
			continue
		}
		colon := strings.Index(s, ": ")
		if colon > 0 && !strings.Contains(s[:colon], ",") {
			yamlish++
		}
		if eq := strings.IndexByte(s, '='); eq > 0 {
			assigns++
		}
		if strings.Count(s, ",") > 0 {
			commas++
		}
		if strings.Contains(strings.TrimRight(line, " \t"), "  ") {
			columns++
		}
	}
	if total == 0 {
		return "", false
	}
	switch {
	case assigns*2 > total:
		if iniMarkers(lines) {
			return FormatINI, true
		}
		return FormatTOML, true
	case yamlish*2 > total:
		return FormatYAML, true
	case commas == total:
		return FormatCSV, true
	case columns == total && total > 1:
		return FormatTabular, true
	}
	return "", false
}

// iniMarkers reports syntax valid in INI but not TOML: ';' comments or
// unquoted string values.
func iniMarkers(lines []string) bool {
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if strings.HasPrefix(s, ";") {
			return true
		}
		eq := strings.IndexByte(s, '=')
		if eq < 0 {
			continue
		}
		val := strings.TrimSpace(s[eq+1:])
		if val == "" || val == "true" || val == "false" {
			continue
		}
		switch val[0] {
		case '"', '\'', '[', '{':
			continue
		}
		if !numericLiteral(val) {
			return true
		}
	}
	return false
}

func numericLiteral(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' || r == '-' || r == '+' || r == '_' || r == 'e' || r == 'E' {
			continue
		}
		return false
	}
	return true
}

func splitLines(data []byte) []string {
	return strings.Split(string(data), "\n")
}
