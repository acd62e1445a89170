package render

// Gallery tracks which of a product's images is displayed. Navigation wraps
// at both ends, and the active thumbnail always matches the main image.
type Gallery struct {
	Images []string
	Index  int
}

// NewGallery creates a gallery positioned at the given index, normalized
// into range (negative and overflowing indexes wrap).
func NewGallery(images []string, index int) Gallery {
	g := Gallery{Images: images}
	g.Index = g.wrap(index)
	return g
}

func (g Gallery) wrap(i int) int {
	n := len(g.Images)
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// Next advances to the following image, wrapping to the first after the last.
func (g Gallery) Next() Gallery {
	g.Index = g.wrap(g.Index + 1)
	return g
}

// Prev steps back, wrapping to the last image from the first.
func (g Gallery) Prev() Gallery {
	g.Index = g.wrap(g.Index - 1)
	return g
}

// Select jumps to an explicit thumbnail index, normalized into range.
func (g Gallery) Select(i int) Gallery {
	g.Index = g.wrap(i)
	return g
}

// Current returns the displayed image URL, or "" for an empty gallery.
func (g Gallery) Current() string {
	if len(g.Images) == 0 {
		return ""
	}
	return g.Images[g.Index]
}
