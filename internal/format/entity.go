package format

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/duboisf/donate/internal/cache"
)

// Entity is one normalized cache entry.
type Entity struct {
	Key    string
	Fields map[string]any
}

// Entities lists the entries of snap sorted by key.
func Entities(snap cache.Snapshot) []Entity {
	out := make([]Entity, 0, len(snap))
	for key, fields := range snap {
		out = append(out, Entity{Key: key, Fields: fields})
	}
	slices.SortFunc(out, func(a, b Entity) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// ColumnDef defines how to render a single column of the entity table.
type ColumnDef struct {
	Header string
	Value  func(e Entity) string
	Color  func(e Entity) string
}

func typename(e Entity) string {
	s, _ := e.Fields["__typename"].(string)
	return s
}

func isRoot(e Entity) bool {
	return e.Key == cache.RootQuery || e.Key == cache.RootMutation
}

func countRefs(v any) int {
	switch v := v.(type) {
	case map[string]any:
		if _, ok := v["__ref"]; ok && len(v) == 1 {
			return 1
		}
		n := 0
		for _, item := range v {
			n += countRefs(item)
		}
		return n
	case []any:
		n := 0
		for _, item := range v {
			n += countRefs(item)
		}
		return n
	}
	return 0
}

var _columnRegistry = map[string]ColumnDef{
	"key": {
		Header: "KEY",
		Value:  func(e Entity) string { return e.Key },
		Color: func(e Entity) string {
			if isRoot(e) {
				return Yellow
			}
			return ""
		},
	},
	"type": {
		Header: "TYPE",
		Value:  typename,
		Color:  func(Entity) string { return Cyan },
	},
	"id": {
		Header: "ID",
		Value: func(e Entity) string {
			if isRoot(e) {
				return ""
			}
			_, id, _ := strings.Cut(e.Key, ":")
			return id
		},
		Color: func(Entity) string { return Gray },
	},
	"fields": {
		Header: "FIELDS",
		Value:  func(e Entity) string { return strconv.Itoa(len(e.Fields)) },
		Color:  func(Entity) string { return "" },
	},
	"refs": {
		Header: "REFS",
		Value:  func(e Entity) string { return strconv.Itoa(countRefs(map[string]any(e.Fields))) },
		Color:  func(Entity) string { return "" },
	},
}

// ColumnNames lists all known column names in canonical order.
var ColumnNames = []string{"key", "type", "id", "fields", "refs"}

// DefaultColumns is the column set used without --column.
var DefaultColumns = []string{"key", "type", "fields"}

// ParseColumns parses a --column flag value into a list of column names.
//
// Syntax:
//   - "key,refs"   replacement: show exactly these columns
//   - "+refs"      additive: append to defaults
//   - "+refs:2"    additive: insert at position 2 (1-based)
//
// All entries must be either additive (+) or replacement (no +), not mixed.
func ParseColumns(spec string) ([]string, error) {
	parts := strings.Split(spec, ",")

	var additive, replacement bool
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.HasPrefix(p, "+"):
			additive = true
		default:
			replacement = true
		}
	}
	switch {
	case additive && replacement:
		return nil, fmt.Errorf("cannot mix additive (+col) and replacement (col) syntax in --column")
	case !additive && !replacement:
		return nil, fmt.Errorf("--column requires at least one column name")
	case replacement:
		return parseReplacementColumns(parts)
	default:
		return parseAdditiveColumns(parts)
	}
}

func lookupColumn(name string) error {
	if _, ok := _columnRegistry[name]; !ok {
		return fmt.Errorf("unknown column %q (available: %s)", name, strings.Join(ColumnNames, ", "))
	}
	return nil
}

func parseReplacementColumns(parts []string) ([]string, error) {
	var columns []string
	for _, p := range parts {
		name := strings.TrimSpace(strings.ToLower(p))
		if name == "" {
			continue
		}
		if err := lookupColumn(name); err != nil {
			return nil, err
		}
		if slices.Contains(columns, name) {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		columns = append(columns, name)
	}
	return columns, nil
}

func parseAdditiveColumns(parts []string) ([]string, error) {
	columns := slices.Clone(DefaultColumns)
	for _, p := range parts {
		p = strings.TrimPrefix(strings.TrimSpace(p), "+")
		if p == "" {
			continue
		}
		name, pos := p, 0
		if colName, posStr, ok := strings.Cut(p, ":"); ok {
			n, err := strconv.Atoi(posStr)
			if err != nil {
				return nil, fmt.Errorf("invalid position in +%s: %w", p, err)
			}
			if n < 1 {
				return nil, fmt.Errorf("position must be >= 1, got %d", n)
			}
			name, pos = colName, n
		}
		name = strings.ToLower(name)
		if err := lookupColumn(name); err != nil {
			return nil, err
		}
		if slices.Contains(columns, name) {
			continue
		}
		if pos == 0 {
			columns = append(columns, name)
		} else {
			columns = slices.Insert(columns, min(pos-1, len(columns)), name)
		}
	}
	return columns, nil
}

// FormatEntityList formats entities as an aligned table with the given
// columns. Unknown column names are skipped.
func FormatEntityList(entities []Entity, columns []string, color bool) string {
	defs := make([]ColumnDef, 0, len(columns))
	for _, name := range columns {
		if def, ok := _columnRegistry[name]; ok {
			defs = append(defs, def)
		}
	}

	widths := make([]int, len(defs))
	cells := make([][]string, len(entities))
	for i, def := range defs {
		widths[i] = len(def.Header)
	}
	for r, e := range entities {
		cells[r] = make([]string, len(defs))
		for i, def := range defs {
			v := def.Value(e)
			cells[r][i] = v
			widths[i] = max(widths[i], len([]rune(v)))
		}
	}

	var buf strings.Builder
	writeRow := func(values []string, colorOf func(i int) string) {
		for i, v := range values {
			if i == len(values)-1 {
				buf.WriteString(Colorize(color, colorOf(i), v))
				break
			}
			buf.WriteString(PadColor(color, colorOf(i), v, widths[i]))
			buf.WriteString("  ")
		}
		buf.WriteString("\n")
	}

	headers := make([]string, len(defs))
	for i, def := range defs {
		headers[i] = def.Header
	}
	writeRow(headers, func(int) string { return Bold })
	for r, e := range entities {
		writeRow(cells[r], func(i int) string { return defs[i].Color(e) })
	}
	return buf.String()
}

// FormatEntity renders one entity's fields as YAML.
func FormatEntity(e Entity, color bool) (string, error) {
	out, err := yaml.Marshal(plain(map[string]any(e.Fields)))
	if err != nil {
		return "", fmt.Errorf("encoding entity %s: %w", e.Key, err)
	}
	return Colorize(color, Bold, e.Key+":") + "\n" + indent(string(out), "  "), nil
}

// plain converts json.Number values so they render as YAML numbers.
func plain(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = plain(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plain(item)
		}
		return out
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return v
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}
