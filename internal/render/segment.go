package render

// Attribute classifies a run of characters for display styling.
type Attribute int

const (
	Default Attribute = iota
	Name
	Tag
	TimeSpan
	Total
	Error
	Info
	Prompt
)

// Segment is a run of text rendered with a single attribute.
type Segment struct {
	Text string
	Attr Attribute
}

// Line is a sequence of segments forming one output line.
type Line []Segment

// Plain returns the line's text without attributes.
func (l Line) Plain() string {
	var s string
	for _, seg := range l {
		s += seg.Text
	}
	return s
}

// PlainLine wraps text in a single default-attribute segment.
func PlainLine(text string) Line {
	return Line{{Text: text}}
}

// ErrorLine wraps text in a single error-attribute segment.
func ErrorLine(text string) Line {
	return Line{{Text: text, Attr: Error}}
}

// InfoLine wraps text in a single info-attribute segment.
func InfoLine(text string) Line {
	return Line{{Text: text, Attr: Info}}
}
