package driven

// Stripper turns lightweight markup into plain display lines.
type Stripper interface {
	// Strip returns the non-empty plain-text lines of source.
	Strip(source string) []string
}
