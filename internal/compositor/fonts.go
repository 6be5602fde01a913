package compositor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontRegistry maps template font identifiers to parsed fonts. Identifiers
// are matched case-insensitively; unknown identifiers use the fallback face
// so a template never fails to render because a font is missing.
type FontRegistry struct {
	mu       sync.RWMutex
	fonts    map[string]*opentype.Font
	fallback *opentype.Font
}

// NewFontRegistry returns a registry holding the Go font family. The bold
// face is the fallback.
func NewFontRegistry() (*FontRegistry, error) {
	r := &FontRegistry{fonts: make(map[string]*opentype.Font)}
	builtin := []struct {
		name string
		data []byte
	}{
		{"go", goregular.TTF},
		{"go-bold", gobold.TTF},
		{"go-medium", gomedium.TTF},
		{"go-italic", goitalic.TTF},
		{"go-mono", gomono.TTF},
	}
	for _, b := range builtin {
		if err := r.Register(b.name, b.data); err != nil {
			return nil, err
		}
	}
	r.fallback = r.fonts["go-bold"]
	return r, nil
}

// Register parses a TrueType/OpenType font and stores it under name.
func (r *FontRegistry) Register(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", name, err)
	}
	r.mu.Lock()
	r.fonts[fontKey(name)] = f
	r.mu.Unlock()
	return nil
}

// LoadDir registers every .ttf and .otf file in dir. "Poppins-Bold.ttf" is
// registered as "poppins-bold" and, if no plain "poppins" exists yet, as
// "poppins" too.
func (r *FontRegistry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read font dir: %w", err)
	}
	loaded := 0
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return loaded, fmt.Errorf("read font %s: %w", e.Name(), err)
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if err := r.Register(name, data); err != nil {
			return loaded, err
		}
		loaded++

		family, _, found := strings.Cut(name, "-")
		if !found {
			continue
		}
		r.mu.Lock()
		if _, exists := r.fonts[fontKey(family)]; !exists {
			r.fonts[fontKey(family)] = r.fonts[fontKey(name)]
		}
		r.mu.Unlock()
	}
	return loaded, nil
}

// Has reports whether name resolves to a registered font rather than the
// fallback.
func (r *FontRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.fonts[fontKey(name)]
	return ok
}

func (r *FontRegistry) lookup(name string) *opentype.Font {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.fonts[fontKey(name)]; ok {
		return f
	}
	return r.fallback
}

// Face opens a face of the named font at px pixels. Faces are not safe for
// concurrent use; callers close them when done.
func (r *FontRegistry) Face(name string, px float64) (font.Face, error) {
	face, err := opentype.NewFace(r.lookup(name), &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("open face %q at %.1fpx: %w", name, px, err)
	}
	return face, nil
}

func fontKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
