package match

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/bonktools/itemscan/internal/catalog"
)

// Template pairs a catalog item with its icon patch at the library's size.
type Template struct {
	Item  catalog.Item
	Patch Patch
}

// Library holds one template patch per catalog item, all resized to a common
// square size matching the inferred icon size of the frame under analysis.
type Library struct {
	size      int
	templates []Template
}

// Size returns the square pixel size all templates were resized to.
func (l *Library) Size() int { return l.size }

// Len returns the number of loaded templates.
func (l *Library) Len() int { return len(l.templates) }

// Templates returns the loaded templates in load order.
func (l *Library) Templates() []Template { return l.templates }

// LoadLibrary reads per-item template images from dir and resizes each to
// size x size. Each catalog item resolves its asset by its Image field, or by
// "<id>.png" when Image is unset. Items without a readable asset are skipped;
// the library errors only when no template at all could be loaded.
func LoadLibrary(dir string, cat *catalog.Catalog, size int) (*Library, error) {
	if dir == "" {
		return nil, fmt.Errorf("template directory cannot be empty")
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid template size %d", size)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("template directory %s: %w", dir, err)
	}

	lib := &Library{size: size}
	for _, item := range cat.Items() {
		path := templatePath(dir, item)
		img, err := imaging.Open(path)
		if err != nil {
			continue
		}
		resized := imaging.Resize(img, size, size, imaging.Linear)
		lib.templates = append(lib.templates, Template{
			Item:  item,
			Patch: PatchFromImage(resized),
		})
	}
	if len(lib.templates) == 0 {
		return nil, fmt.Errorf("no templates loaded from %s", dir)
	}
	return lib, nil
}

func templatePath(dir string, item catalog.Item) string {
	name := item.Image
	if name == "" {
		name = item.ID + ".png"
	}
	// Catalog image paths may carry a templates/ prefix from the scraper.
	name = strings.TrimPrefix(name, "templates/")
	return filepath.Join(dir, filepath.Base(name))
}
