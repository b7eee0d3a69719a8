package editor

import (
	"fmt"
	"strings"
)

const instructionMarker = "-- Enter your SQL statement below"

// Instructions builds the comment header placed above the statement in the
// editor buffer.
func Instructions(alias string) string {
	return fmt.Sprintf("%s\n-- Profile: %s\n-- Use %%s for each argument. Save and exit to run, leave empty to cancel.\n--\n",
		instructionMarker, alias)
}

// StripInstructions removes the instruction header and returns the trimmed
// statement. Content without the header is returned trimmed.
func StripInstructions(content string) string {
	if !strings.Contains(content, instructionMarker) {
		return strings.TrimSpace(content)
	}

	lines := strings.Split(content, "\n")
	var sqlLines []string
	foundSeparator := false
	foundDoubleDash := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !foundSeparator {
			if strings.Contains(trimmed, instructionMarker) {
				foundSeparator = true
			}
			continue
		}

		// Header lines run until a bare "--".
		if !foundDoubleDash {
			if trimmed == "--" {
				foundDoubleDash = true
			}
			continue
		}

		sqlLines = append(sqlLines, line)
	}

	return strings.TrimSpace(strings.Join(sqlLines, "\n"))
}
