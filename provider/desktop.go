package provider

import (
	"bufio"
	"os"
	"strings"
)

// DesktopEntry holds the fields read from a freedesktop .desktop file.
type DesktopEntry struct {
	Name string
	Icon string
}

// ReadDesktopEntry parses the [Desktop Entry] section of a .desktop file.
// Only Name and Icon are extracted; localized variants are skipped.
func ReadDesktopEntry(path string) (DesktopEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return DesktopEntry{}, err
	}
	defer f.Close()

	var entry DesktopEntry
	inSection := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "["):
			inSection = line == "[Desktop Entry]"
		case inSection:
			key, value, found := strings.Cut(line, "=")
			if !found {
				continue
			}
			switch strings.TrimSpace(key) {
			case "Name":
				entry.Name = strings.TrimSpace(value)
			case "Icon":
				entry.Icon = strings.TrimSpace(value)
			}
		}
	}
	return entry, scanner.Err()
}
