// Package preview provides the interactive timeline browser built on Bubble Tea.
package preview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/babble/pkg/render"
	"github.com/lepinkainen/babble/pkg/tweet"
)

const (
	defaultWidth   = 80
	maxSummaryLen  = 70
	summaryTimeFmt = "2006-01-02 15:04"
)

// summary returns a single line of the post text, the reposted text for reposts.
func summary(p *tweet.Post) string {
	text := p.Text
	if p.RepostOf != nil {
		text = "RT @" + p.RepostOf.Handle() + ": " + p.RepostOf.Text
	}
	text = strings.Join(strings.Fields(strings.ReplaceAll(text, "&amp;", "&")), " ")

	runes := []rune(text)
	if len(runes) > maxSummaryLen {
		return string(runes[:maxSummaryLen-3]) + "..."
	}
	return text
}

// FormatCompactListItem formats a single post in compact list format
// Example: " 1. [♺   12 ♥  1.2k] 2021-06-01 12:00 @alice: post text"
func FormatCompactListItem(index int, p *tweet.Post, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return fmt.Sprintf("%2d. [♺ %4s ♥ %4s] %s @%s: %s",
		index+1,
		render.CountLabel(p.Counts.Reshares),
		render.CountLabel(p.Counts.Likes),
		p.CreatedAt.In(loc).Format(summaryTimeFmt),
		p.Handle(),
		summary(p))
}

// FormatDetailedPost renders a post with r and wraps it to width.
func FormatDetailedPost(r *render.Renderer, p *tweet.Post, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder
	rule := strings.Repeat("═", min(width, defaultWidth))

	b.WriteString(rule + "\n")
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Posted: %s\n", formatTimeAgo(p.CreatedAt))
	}
	if p.ID != 0 && p.Author != nil {
		fmt.Fprintf(&b, "Link: https://%s/%s/status/%d\n", render.PermalinkHost, p.Handle(), p.ID)
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(strings.TrimSuffix(r.Render(p), "\n")))
	b.WriteString("\n" + rule + "\n")

	return b.String()
}

// formatTimeAgo formats a time.Time as a human-readable "X ago" string
func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02")
	}
}
