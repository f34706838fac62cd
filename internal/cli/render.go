package cli

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"Driftwood/internal/cli/output"
	"Driftwood/internal/core/feed"
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderPosts(posts []*feed.Post) error {
	if jsonOut {
		return printJSON(posts)
	}
	table := output.NewTable([]string{"KIND", "AUTHOR", "TEXT", "LIKES", "POSTED", "URL"})
	for _, p := range posts {
		table.AddRow([]string{
			string(p.Kind),
			printer.Bold("@" + p.AuthorHandle),
			clip(p.Text, 60),
			strconv.Itoa(p.Metrics.Likes),
			formatTime(p.CreatedAt),
			printer.Dim(p.WebURL),
		})
	}
	table.Render()
	printer.Info("%d posts", len(posts))
	return nil
}

func renderProfiles(profiles []*feed.ProfileSummary) error {
	if jsonOut {
		return printJSON(profiles)
	}
	table := output.NewTable([]string{"HANDLE", "NAME", "FOLLOWERS", "FOLLOWS", "POSTS"})
	for _, p := range profiles {
		table.AddRow([]string{
			printer.Bold("@" + p.Handle),
			p.DisplayName,
			strconv.Itoa(p.Counts.Followers),
			strconv.Itoa(p.Counts.Follows),
			strconv.Itoa(p.Counts.Posts),
		})
	}
	table.Render()
	return nil
}

func renderProfile(p *feed.ProfileSummary) error {
	if jsonOut {
		return printJSON(p)
	}
	printer.Header("@" + p.Handle)
	if p.DisplayName != "" {
		printer.Print("%s", printer.Bold(p.DisplayName))
	}
	if p.Description != "" {
		printer.Print("%s", p.Description)
	}
	printer.Print("followers %d · follows %d · posts %d",
		p.Counts.Followers, p.Counts.Follows, p.Counts.Posts)
	if p.FollowsViewer {
		printer.Info("follows you")
	}
	return nil
}

func renderFollowEntries(entries []feed.FollowEntry) error {
	if jsonOut {
		return printJSON(entries)
	}
	table := output.NewTable([]string{"HANDLE", "NAME", "FOLLOWS BACK"})
	for _, e := range entries {
		back := ""
		if e.FollowsBack {
			back = "yes"
		}
		table.AddRow([]string{printer.Bold("@" + e.Handle), e.DisplayName, back})
	}
	table.Render()
	printer.Info("%d accounts", len(entries))
	return nil
}

func renderReceipt(action string, r *feed.WriteReceipt) error {
	if jsonOut {
		return printJSON(r)
	}
	printer.Success("%s", action)
	if r.URI != "" {
		printer.Print("%s", printer.Dim(r.URI))
	}
	return nil
}

// clip shortens s to at most n runes on a single line.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
