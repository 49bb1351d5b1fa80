package notes

import "strings"

// Category is one section of a summary.
type Category int

const (
	Deadlines Category = iota
	Requests
	Progress
	Tasks
)

// Categories lists every category in render order.
var Categories = []Category{Deadlines, Requests, Progress, Tasks}

var keywords = map[Category][]string{
	Deadlines: {"by", "before", "due", "deadline"},
	Requests:  {"can you", "please", "i request", "kindly"},
	Progress:  {"completed", "in progress", "started", "done"},
	Tasks:     {"assign", "responsible for", "take care of", "work on"},
}

func (c Category) String() string {
	switch c {
	case Deadlines:
		return "Deadlines"
	case Requests:
		return "Requests"
	case Progress:
		return "Progress"
	case Tasks:
		return "Tasks"
	default:
		return "Unknown"
	}
}

// Keywords returns the lower-case substrings that select the category.
func (c Category) Keywords() []string {
	return keywords[c]
}

// Matches reports whether the already lower-cased sentence contains any of
// the category keywords. Matching is by substring, so "by" also hits "bobby".
func (c Category) Matches(lower string) bool {
	for _, k := range c.Keywords() {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
