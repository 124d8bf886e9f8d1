package action

import (
	"strconv"
	"strings"
)

// Parse scans the raw agent response and returns the ordered action
// records found in its ACTIONS section. Lines whose leading identifier
// is not a known function are dropped entirely; lines with a known
// identifier but malformed arguments come back with Valid=false.
func Parse(raw string) []Record {
	var records []Record
	for _, line := range actionLines(raw) {
		if rec, ok := parseLine(line); ok {
			records = append(records, rec)
		}
	}
	return records
}

// actionLines collects the non-blank lines inside the ACTIONS section,
// trimmed, in original order. Section labels are a line of their own,
// case-insensitive, with an optional trailing colon. Text before any
// label or inside NARRATIVE is skipped. A missing ACTIONS section
// simply yields nothing.
func actionLines(raw string) []string {
	var lines []string
	section := ""
	for _, line := range strings.Split(raw, "\n") {
		stripped := strings.TrimSpace(line)
		upper := strings.TrimRight(strings.ToUpper(stripped), ":")
		switch upper {
		case "NARRATIVE":
			section = "narrative"
			continue
		case "ACTIONS":
			section = "actions"
			continue
		}
		if section == "actions" && stripped != "" {
			lines = append(lines, stripped)
		}
	}
	return lines
}

// parseLine turns one candidate line into a record. The second return
// is false when the line carries no call syntax or names an unknown
// function; those lines vanish without a trace.
func parseLine(line string) (Record, bool) {
	lparen := strings.Index(line, "(")
	if lparen == -1 {
		return Record{}, false
	}
	name := strings.TrimSpace(line[:lparen])
	kind, known := kindOf(name)
	if !known {
		return Record{}, false
	}

	rec := Record{Kind: kind, Line: line}
	rparen := strings.LastIndex(line, ")")
	if rparen < lparen || strings.TrimSpace(line[rparen+1:]) != "" {
		return rec, true // recognized but structurally broken
	}
	args := line[lparen+1 : rparen]

	switch kind {
	case TypeText:
		text, ok := parseStringArg(args)
		if !ok {
			return rec, true
		}
		rec.Text = text
	case Screenshot:
		if strings.TrimSpace(args) != "" {
			return rec, true
		}
	case Drag:
		vals, ok := parseIntArgs(args, 4)
		if !ok {
			return rec, true
		}
		rec.X, rec.Y, rec.X2, rec.Y2 = vals[0], vals[1], vals[2], vals[3]
	default:
		vals, ok := parseIntArgs(args, 2)
		if !ok {
			return rec, true
		}
		rec.X, rec.Y = vals[0], vals[1]
	}
	rec.Valid = true
	return rec, true
}

// parseIntArgs accepts exactly n comma-separated integer literals and
// rejects anything else (wrong arity, floats, expressions,
// identifiers). These lines come from model output, so arbitrary
// expression evaluation is off the table.
func parseIntArgs(args string, n int) ([]int, bool) {
	parts := strings.Split(args, ",")
	if len(parts) != n {
		return nil, false
	}
	vals := make([]int, n)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

// parseStringArg accepts a single double-quoted string literal with
// the usual backslash escapes.
func parseStringArg(args string) (string, bool) {
	trimmed := strings.TrimSpace(args)
	if len(trimmed) < 2 || trimmed[0] != '"' {
		return "", false
	}
	text, err := strconv.Unquote(trimmed)
	if err != nil {
		return "", false
	}
	return text, true
}
