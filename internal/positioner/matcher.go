package positioner

import (
	"fmt"
	"strings"

	"github.com/1broseidon/winpos/internal/platform"
)

// SelectorKind identifies which window properties a Selector tests.
type SelectorKind int

const (
	ByTitle SelectorKind = iota
	ByClass
	ByClassAndTitle
)

// Selector describes which window a caller wants.
type Selector struct {
	Kind  SelectorKind
	Class string
	Title string
}

// TitleSubstring selects the first window whose title contains q, ignoring case.
func TitleSubstring(q string) Selector {
	return Selector{Kind: ByTitle, Title: q}
}

// WMClass selects the first window whose WM_CLASS equals q, ignoring case.
func WMClass(q string) Selector {
	return Selector{Kind: ByClass, Class: q}
}

// WMClassAndTitle combines the WMClass and TitleSubstring rules on one window.
func WMClassAndTitle(class, title string) Selector {
	return Selector{Kind: ByClassAndTitle, Class: class, Title: title}
}

// Matches reports whether w satisfies the selector.
func (s Selector) Matches(w platform.Window) bool {
	switch s.Kind {
	case ByTitle:
		return titleMatches(w.Title, s.Title)
	case ByClass:
		return classMatches(w.WMClass, s.Class)
	case ByClassAndTitle:
		return classMatches(w.WMClass, s.Class) && titleMatches(w.Title, s.Title)
	default:
		return false
	}
}

func (s Selector) String() string {
	switch s.Kind {
	case ByTitle:
		return fmt.Sprintf("title containing %q", s.Title)
	case ByClass:
		return fmt.Sprintf("WM_CLASS %q", s.Class)
	case ByClassAndTitle:
		return fmt.Sprintf("WM_CLASS %q and title containing %q", s.Class, s.Title)
	default:
		return "unknown selector"
	}
}

// Resolve returns the first window in enumeration order matching sel.
func Resolve(windows []platform.Window, sel Selector) (platform.Window, bool) {
	for _, w := range windows {
		if sel.Matches(w) {
			return w, true
		}
	}
	return platform.Window{}, false
}

// An untitled window never matches, not even the empty query.
func titleMatches(title, query string) bool {
	if title == "" {
		return false
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}

// Class comparison is exact apart from case; "Firefoxx" does not match "Firefox".
func classMatches(class, query string) bool {
	if class == "" {
		return false
	}
	return strings.ToLower(class) == strings.ToLower(query)
}
