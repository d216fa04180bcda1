package provider

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_ReadDesktopEntry(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "firefox.desktop")
	content := `[Desktop Entry]
# launcher entry
Name=Firefox
Name[de]=Feuerfuchs
Icon=firefox
Exec=/usr/bin/firefox %u

[Desktop Action new-window]
Name=New Window
`
	os.WriteFile(path, []byte(content), 0644)

	entry, err := ReadDesktopEntry(path)
	if err != nil {
		t.Fatalf("ReadDesktopEntry: %v", err)
	}
	if entry.Name != "Firefox" {
		t.Errorf("Name = %q, want Firefox", entry.Name)
	}
	if entry.Icon != "firefox" {
		t.Errorf("Icon = %q, want firefox", entry.Icon)
	}
}

func Test_ReadDesktopEntry_Missing(t *testing.T) {
	if _, err := ReadDesktopEntry("/nonexistent/x.desktop"); err == nil {
		t.Error("expected error for missing file")
	}
}
