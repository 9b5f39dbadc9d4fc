package layout

// Resolution describes a classified frame size: the category driving icon
// size selection plus a scale factor relative to 1080p.
type Resolution struct {
	Category Category
	Scale    float64
}

// Classify maps raw frame dimensions to a resolution category. The Steam
// Deck's 1280x800 panel is special-cased because its UI scaling differs from
// desktop 720p-class displays. Degenerate dimensions classify as unknown.
func Classify(width, height float64) Resolution {
	if !isFiniteDim(width) || !isFiniteDim(height) {
		return Resolution{Category: CategoryUnknown, Scale: 1.0}
	}

	scale := height / 1080.0

	if width == 1280 && height == 800 {
		return Resolution{Category: CategorySteamDeck, Scale: scale}
	}

	switch {
	case height <= 720:
		return Resolution{Category: Category720p, Scale: scale}
	case height <= 1080:
		return Resolution{Category: Category1080p, Scale: scale}
	case height <= 1440:
		return Resolution{Category: Category1440p, Scale: scale}
	default:
		return Resolution{Category: Category4K, Scale: scale}
	}
}
