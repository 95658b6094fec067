package tui

// ANSI color codes
const (
	Reset = "\033[0m"

	Red    = "\033[31m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Yellow = "\033[33m"
	Gray   = "\033[90m"

	BoldWhite = "\033[1;37m"
)

// Colorizer wraps text with ANSI color codes if colors are enabled.
type Colorizer struct {
	enabled bool
}

// NewColorizer creates a new Colorizer.
func NewColorizer(enabled bool) *Colorizer {
	return &Colorizer{enabled: enabled}
}

// Enabled reports whether colors are applied.
func (c *Colorizer) Enabled() bool {
	return c.enabled
}

// Apply applies the given color to the text.
func (c *Colorizer) Apply(color, text string) string {
	if !c.enabled {
		return text
	}
	return color + text + Reset
}

func (c *Colorizer) Header(text string) string {
	return c.Apply(BoldWhite, text)
}

func (c *Colorizer) User(text string) string {
	return c.Apply(Cyan, text)
}

// Date formats a calendar date or a session time.
func (c *Colorizer) Date(text string) string {
	return c.Apply(Blue, text)
}

// Path formats a file path or server location.
func (c *Colorizer) Path(text string) string {
	return c.Apply(Blue, text)
}

func (c *Colorizer) Error(text string) string {
	return c.Apply(Red, text)
}

// Dim formats secondary text such as IDs and placeholders.
func (c *Colorizer) Dim(text string) string {
	return c.Apply(Gray, text)
}

// Number formats minute counts and totals.
func (c *Colorizer) Number(text string) string {
	return c.Apply(Yellow, text)
}
