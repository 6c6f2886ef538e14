package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Role is a semantic part of a rendered post that can be decorated.
type Role int

// Decorated roles
const (
	RoleAuthor Role = iota
	RoleTimestamp
	RoleLink
	RoleMeta
	RoleHashtag
)

func (r Role) String() string {
	switch r {
	case RoleAuthor:
		return "author"
	case RoleTimestamp:
		return "timestamp"
	case RoleLink:
		return "link"
	case RoleMeta:
		return "meta"
	case RoleHashtag:
		return "hashtag"
	default:
		return "unknown"
	}
}

// Style maps roles to terminal decorations. It is read-only once constructed
// and safe for concurrent use.
type Style struct {
	decorations map[Role]lipgloss.Style
}

// NewStyle creates a style table from the given decorations. Roles missing
// from the map render undecorated.
func NewStyle(decorations map[Role]lipgloss.Style) Style {
	copied := make(map[Role]lipgloss.Style, len(decorations))
	for role, st := range decorations {
		copied[role] = st
	}
	return Style{decorations: copied}
}

// NoStyle returns a style table that leaves every role undecorated.
func NoStyle() Style {
	return Style{}
}

// DefaultStyle returns the default terminal palette using the default lipgloss renderer.
func DefaultStyle() Style {
	return DefaultStyleFor(lipgloss.DefaultRenderer())
}

// DefaultStyleFor returns the default terminal palette bound to the given renderer,
// which decides the color profile used for output.
func DefaultStyleFor(r *lipgloss.Renderer) Style {
	blue := lipgloss.Color("4")
	yellow := lipgloss.Color("3")
	red := lipgloss.Color("1")

	return NewStyle(map[Role]lipgloss.Style{
		RoleAuthor:    r.NewStyle().Bold(true).Foreground(blue),
		RoleTimestamp: r.NewStyle().Foreground(yellow),
		RoleLink:      r.NewStyle().Underline(true).Foreground(blue),
		RoleMeta:      r.NewStyle().Foreground(red),
		RoleHashtag:   r.NewStyle().Foreground(yellow),
	})
}

// Decorate applies the decoration for role to s.
func (s Style) Decorate(role Role, text string) string {
	st, ok := s.decorations[role]
	if !ok {
		return text
	}
	return st.Render(text)
}
