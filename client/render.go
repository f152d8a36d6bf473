package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go-firestore-hampter/internal/handler/session"
	"go-firestore-hampter/internal/imagehash"
	"go-firestore-hampter/internal/model"
	"go-firestore-hampter/internal/view"
)

func heart(on bool) string {
	if on {
		return "♥"
	}
	return "♡"
}

func bookmark(on bool) string {
	if on {
		return "★"
	}
	return "☆"
}

func renderStats(w io.Writer, s view.Stats) {
	fmt.Fprintf(w, "%s %d   💬 %d   %s %d\n", heart(s.Liked), s.Likes, s.Comments, bookmark(s.Bookmarked), s.Bookmarks)
}

func content(text, imageUrl string) string {
	if imageUrl != "" {
		return "[sticker " + imageUrl + "]"
	}
	return text
}

func renderLine(w io.Writer, indent string, c view.CommentView, now time.Time) {
	fmt.Fprintf(w, "%s%s · %s · %s %d  (%s)\n", indent, c.Username, view.TimeAgo(c.Timestamp, now), heart(c.Liked), c.Likes, c.Id)
	fmt.Fprintf(w, "%s  %s\n", indent, content(c.Text, c.ImageUrl))
}

// renderThreads prints top level comments with their replies when expanded,
// or a reply counter otherwise.
func renderThreads(w io.Writer, threads []view.Thread, expanded func(id string) bool, now time.Time) {
	if len(threads) == 0 {
		fmt.Fprintln(w, "no comments yet")
		return
	}

	for _, t := range threads {
		renderLine(w, "", t.CommentView, now)
		if len(t.Replies) == 0 {
			continue
		}
		if !expanded(t.Id) {
			fmt.Fprintf(w, "  ↳ %d %s\n", len(t.Replies), plural(len(t.Replies), "reply", "replies"))
			continue
		}
		for _, r := range t.Replies {
			renderLine(w, "    ", r, now)
		}
	}
}

func renderComment(w io.Writer, c model.Comment, now time.Time) {
	indent := ""
	if c.IsReply() {
		indent = "  ↳ "
	}
	renderLine(w, indent, view.NewCommentView(c, ""), now)
}

func renderFrame(w io.Writer, f session.Frame, now time.Time) {
	fmt.Fprintln(w, strings.Repeat("─", 48))
	renderStats(w, f.Stats)

	expanded := make(map[string]struct{}, len(f.Expanded))
	for _, id := range f.Expanded {
		expanded[id] = struct{}{}
	}
	renderThreads(w, f.Threads, func(id string) bool {
		_, ok := expanded[id]
		return ok
	}, now)

	if f.ShowJumpToBottom {
		fmt.Fprintln(w, "↓ new comments below (/bottom)")
	}
	if f.ReplyTarget != "" {
		fmt.Fprintf(w, "replying to %s (/cancel)\n", f.ReplyTarget)
	}
	if f.Posting {
		fmt.Fprintln(w, "posting...")
	}
	if f.Alert != "" {
		fmt.Fprintf(w, "! %s (/dismiss)\n", f.Alert)
	}
}

func renderReport(w io.Writer, r imagehash.Report) {
	fmt.Fprintf(w, "scanned %d files\n", r.Scanned)

	if len(r.Exact) == 0 {
		fmt.Fprintln(w, "no exact duplicates")
	}
	for i, g := range r.Exact {
		fmt.Fprintf(w, "\nexact duplicate group %d (%s...)\n", i+1, g.ContentHash[:16])
		for _, f := range g.Files {
			fmt.Fprintf(w, "  - %s (%.2f KB)\n", f.Name, float64(f.Size)/1024)
		}
	}

	if len(r.Similar) == 0 {
		fmt.Fprintln(w, "\nno similar images")
	}
	for i, p := range r.Similar {
		fmt.Fprintf(w, "\nsimilar pair %d\n  - %s\n  - %s\n  similarity %.1f%% (distance %d/64)\n",
			i+1, p.First, p.Second, p.Similarity()*100, p.Distance)
	}

	fmt.Fprintf(w, "\n%d exact duplicate groups, %d similar pairs\n", len(r.Exact), len(r.Similar))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
