package corpus

import "strings"

// ParseRegistry parses the agent table out of swarm/AGENTS.md content.
// The table starts at a header row naming the Key, Role Family, Color and
// Short Role columns and ends at the first non-table line after it. Blank
// lines inside the table are tolerated. Returned notes are loader
// observations for the log, not validation findings.
func ParseRegistry(content string) ([]RegistryEntry, []string) {
	var (
		entries []RegistryEntry
		notes   []string
	)
	inTable := false
	legacy := false

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)

		if !inTable {
			if strings.HasPrefix(line, "| Key") &&
				strings.Contains(line, "Role Family") &&
				strings.Contains(line, "Color") &&
				strings.Contains(line, "Short Role") {
				inTable = true
				legacy = !strings.Contains(line, "Flows")
				if legacy {
					notes = append(notes, "swarm/AGENTS.md uses the legacy five-column table (no Flows column)")
				}
			}
			continue
		}

		if line == "" {
			continue
		}
		if isSeparatorRow(line) {
			continue
		}
		if !strings.HasPrefix(line, "|") {
			break
		}

		cols := splitRow(line)
		want := 6
		if legacy {
			want = 5
		}
		if len(cols) < want {
			continue
		}

		key := cols[0]
		if key == "" || key == "Key" {
			continue
		}

		e := RegistryEntry{Key: key, Line: i + 1}
		if legacy {
			e.RoleFamily = cols[1]
			e.Color = cols[2]
			e.Source = cols[3]
			e.Role = cols[4]
		} else {
			e.Flows = splitFlows(cols[1])
			e.RoleFamily = cols[2]
			e.Color = cols[3]
			e.Source = cols[4]
			e.Role = cols[5]
		}
		entries = append(entries, e)
	}

	if !inTable {
		notes = append(notes, "no agent table header found in swarm/AGENTS.md")
	}
	return entries, notes
}

func isSeparatorRow(line string) bool {
	compact := strings.ReplaceAll(line, " ", "")
	return strings.HasPrefix(compact, "|-")
}

func splitRow(line string) []string {
	parts := strings.Split(strings.Trim(line, "|"), "|")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		cols = append(cols, strings.TrimSpace(p))
	}
	return cols
}

func splitFlows(cell string) []string {
	fields := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}
