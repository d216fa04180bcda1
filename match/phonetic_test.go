package match

import "testing"

func Test_Phoneticize(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		expectedFull    string
		expectedAcronym string
	}{
		{"Han_two_chars", "微信", "weixin", "wx"},
		{"Han_with_ascii", "网易 Music", "wangyimusic", "wym"},
		{"Accented_latin", "São Paulo", "saopaulo", "sp"},
		{"Single_accent", "café", "cafe", "c"},
		{"Mixed_separators", "Émile-Zola Notes", "emilezolanotes", "ezn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Phoneticize(tt.input)
			if p == nil {
				t.Fatalf("Phoneticize(%q) = nil, want fields", tt.input)
			}
			if p.Full != tt.expectedFull {
				t.Errorf("full = %q, want %q", p.Full, tt.expectedFull)
			}
			if p.Acronym != tt.expectedAcronym {
				t.Errorf("acronym = %q, want %q", p.Acronym, tt.expectedAcronym)
			}
		})
	}
}

func Test_Phoneticize_ASCIIAbsent(t *testing.T) {
	for _, input := range []string{"Safari", "My Notes.txt", "", "report-2024"} {
		if p := Phoneticize(input); p != nil {
			t.Errorf("Phoneticize(%q) = %+v, want nil for pure ASCII", input, p)
		}
	}
}
