package engine

import (
	"path/filepath"
	"strings"

	"github.com/lexandro/launchdex/catalog"
	"github.com/lexandro/launchdex/provider"
)

// IconResolver fetches the display icon for an item. Resolve may perform
// I/O; the per-item once-cell in catalog guarantees it runs at most once
// per item.
type IconResolver interface {
	Resolve(it *catalog.Item) catalog.Icon
}

// ResolveIcon returns the memoized icon for a result's item, fetching on
// first access.
func (e *Engine) ResolveIcon(r Result) catalog.Icon {
	if r.item == nil {
		return catalog.Icon{Glyph: defaultGlyph}
	}
	return r.item.ResolveIcon(e.icons.Resolve)
}

// preloadIcons warms the applications bucket after a generation is
// published, so first render of the shortlist never waits on icon I/O.
func (e *Engine) preloadIcons(apps []*catalog.Item) {
	for _, it := range apps {
		it.ResolveIcon(e.icons.Resolve)
	}
}

const defaultGlyph = "•"

// extensionGlyphs maps common document extensions to shortlist glyphs.
var extensionGlyphs = map[string]string{
	".md":   "✎",
	".txt":  "✎",
	".pdf":  "⎘",
	".png":  "▣",
	".jpg":  "▣",
	".jpeg": "▣",
	".mp3":  "♪",
	".flac": "♪",
	".mp4":  "▶",
	".mov":  "▶",
	".zip":  "⇩",
	".tar":  "⇩",
}

// GlyphResolver is the built-in icon resolver: folders and documents map to
// glyphs by kind and extension; .desktop applications additionally read the
// entry's Icon field. This read is the fetch the once-cell guards.
type GlyphResolver struct{}

func (GlyphResolver) Resolve(it *catalog.Item) catalog.Icon {
	switch {
	case it.IsApplication:
		icon := catalog.Icon{Glyph: "⚡"}
		if strings.HasSuffix(strings.ToLower(it.Path), ".desktop") {
			if entry, err := provider.ReadDesktopEntry(it.Path); err == nil {
				icon.Source = entry.Icon
			}
		}
		return icon
	case it.IsDirectory:
		return catalog.Icon{Glyph: "▸"}
	default:
		if glyph, ok := extensionGlyphs[strings.ToLower(filepath.Ext(it.Path))]; ok {
			return catalog.Icon{Glyph: glyph}
		}
		return catalog.Icon{Glyph: defaultGlyph}
	}
}
