package preview

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/babble/pkg/render"
	"github.com/lepinkainen/babble/pkg/tweet"
)

// ViewMode represents the current view mode
type ViewMode int

// View modes for the browser
const (
	ListViewMode ViewMode = iota
	DetailViewMode
	MarkdownViewMode
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model represents the Bubble Tea model for the timeline browser
type Model struct {
	posts         []*tweet.Post
	cursor        int
	viewMode      ViewMode
	title         string
	plain         *render.Renderer
	markdown      *render.Renderer
	width         int
	height        int
	selectedIndex int // Index of the post currently being viewed in detail
}

// NewModel creates a browser over posts, which are listed in the given order.
// Detail views render with style; the markdown view is undecorated.
func NewModel(posts []*tweet.Post, title string, style render.Style) Model {
	return Model{
		posts:         posts,
		viewMode:      ListViewMode,
		title:         title,
		plain:         render.New(style, render.Plain),
		markdown:      render.New(render.NoStyle(), render.Markdown),
		selectedIndex: -1,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.viewMode {
		case ListViewMode:
			return m.updateListView(msg)
		case DetailViewMode, MarkdownViewMode:
			return m.updateDetailView(msg)
		}
	}

	return m, nil
}

// updateListView handles key presses in list view mode
func (m Model) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}

	case "enter":
		m.selectedIndex = m.cursor
		m.viewMode = DetailViewMode

	case "m":
		m.selectedIndex = m.cursor
		m.viewMode = MarkdownViewMode
	}

	return m, nil
}

// updateDetailView handles key presses in the detail and markdown views
func (m Model) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.viewMode = ListViewMode

	case "m":
		if m.viewMode == DetailViewMode {
			m.viewMode = MarkdownViewMode
		} else {
			m.viewMode = DetailViewMode
		}

	case "left", "h":
		if m.selectedIndex > 0 {
			m.selectedIndex--
			m.cursor = m.selectedIndex
		}

	case "right", "l":
		if m.selectedIndex < len(m.posts)-1 {
			m.selectedIndex++
			m.cursor = m.selectedIndex
		}
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	switch m.viewMode {
	case ListViewMode:
		return m.renderListView()
	case DetailViewMode:
		return m.renderPostView(m.plain, "esc: back to list • ←/→: previous/next • m: markdown view • q: quit")
	case MarkdownViewMode:
		return m.renderPostView(m.markdown, "esc: back to list • ←/→: previous/next • m: terminal view • q: quit")
	}
	return ""
}

// visibleRange keeps the cursor roughly centered when the list is taller than the window.
func (m Model) visibleRange() (int, int) {
	start, end := 0, len(m.posts)
	if m.height <= 0 {
		return start, end
	}

	maxVisible := max(m.height-6, 1) // header, footer and padding
	if maxVisible >= len(m.posts) {
		return start, end
	}

	start = max(m.cursor-maxVisible/2, 0)
	end = start + maxVisible
	if end > len(m.posts) {
		end = len(m.posts)
		start = max(end-maxVisible, 0)
	}
	return start, end
}

// renderListView renders the list view
func (m Model) renderListView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d posts)", m.title, len(m.posts))))
	b.WriteString("\n\n")

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		line := FormatCompactListItem(i, m.posts[i], m.plain.Location)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("→ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("↑/↓ or j/k: navigate • enter: view post • m: markdown view • q: quit"))

	return b.String()
}

func (m Model) renderPostView(r *render.Renderer, footer string) string {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.posts) {
		return "No post selected"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %d/%d", m.title, m.selectedIndex+1, len(m.posts))))
	b.WriteString("\n")
	b.WriteString(FormatDetailedPost(r, m.posts[m.selectedIndex], m.width))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(footer))

	return b.String()
}

// Run starts the Bubble Tea program. Posts are shown in the order given.
func Run(posts []*tweet.Post, title string, style render.Style, out io.Writer) error {
	if len(posts) == 0 {
		_, err := fmt.Fprintln(out, "No posts to browse")
		return err
	}

	p := tea.NewProgram(NewModel(posts, title, style), tea.WithAltScreen(), tea.WithOutput(out))
	_, err := p.Run()
	return err
}
