package region

import "strings"

// ShapeList is an ordered collection of parsed shapes. Slicing a ShapeList
// yields another ShapeList.
type ShapeList []*Shape

// CheckImageCoord reports whether any member was declared in a pixel-class
// (image-like) coordinate system.
func (l ShapeList) CheckImageCoord() bool {
	for _, s := range l {
		if s.CoordSystem().PixelClass() {
			return true
		}
	}
	return false
}

// String renders the collection as region-file text, one statement per
// line, with coordinate-system directives emitted whenever the system
// changes between consecutive shapes.
func (l ShapeList) String() string {
	var b strings.Builder
	current := ""
	for _, s := range l {
		if name := s.CoordSystem().Name(); name != current {
			b.WriteString(name)
			b.WriteString("\n")
			current = name
		}
		b.WriteString(s.String())
		b.WriteString("\n")
	}
	return b.String()
}
