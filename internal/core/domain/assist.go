package domain

// ParseOutcome records how a model response was turned into structured
// data. The generation workflows never fail on a malformed response; they
// degrade through these stages instead.
type ParseOutcome string

const (
	// ParsedDirect means the raw response was valid JSON.
	ParsedDirect ParseOutcome = "parsed"
	// ParsedFromFence means JSON was recovered from a fenced code block.
	ParsedFromFence ParseOutcome = "extracted"
	// FellBackToDefault means a locally computed default was used.
	FellBackToDefault ParseOutcome = "fallback"
)

type Draft struct {
	Topic    string `json:"topic"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

type SEOMetadata struct {
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Keywords    []string     `json:"keywords"`
	Outcome     ParseOutcome `json:"-"`
}

type CalendarEntry struct {
	Topic            string `json:"topic"`
	EstimatedTraffic string `json:"estimated_traffic"`
	Date             string `json:"date"`
}

type Calendar struct {
	Entries []CalendarEntry `json:"entries"`
	Outcome ParseOutcome    `json:"-"`
}
