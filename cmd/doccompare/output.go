package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/local/doccompare/internal/scoring"
	"github.com/local/doccompare/internal/slot"
)

var (
	heading = color.New(color.Bold, color.FgCyan)
	failure = color.New(color.FgRed)
	muted   = color.New(color.Faint)
)

// startSpinner shows progress on stderr; it stays silent with --no-color
// so piped output is clean.
func startSpinner(msg string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + msg
	if !color.NoColor {
		s.Start()
	}
	return s
}

// bandColor maps a score band onto the terminal palette.
func bandColor(score int) *color.Color {
	switch scoring.ScoreColor(score) {
	case "#22c55e", "#84cc16":
		return color.New(color.FgGreen)
	case "#3b82f6":
		return color.New(color.FgBlue)
	case "#6366f1":
		return color.New(color.FgMagenta)
	case "#f59e0b":
		return color.New(color.FgYellow)
	}
	return color.New(color.FgRed)
}

func printSlot(w io.Writer, s slot.Snapshot) {
	heading.Fprintf(w, "%s: %s\n", s.Label, s.Name)
	switch {
	case s.State == slot.StateError:
		failure.Fprintf(w, "  %s\n", s.Error)
	case s.Image != nil:
		fmt.Fprintf(w, "  image %s %dx%d\n", s.Image.Format, s.Image.Width, s.Image.Height)
	case s.PDF != nil:
		fmt.Fprintf(w, "  %s, rendered %dx%d at scale %.2f\n", s.PDF.Caption, s.PDF.Width, s.PDF.Height, s.PDF.Scale)
	default:
		muted.Fprintf(w, "  %s\n", s.State)
	}
}

func printScore(w io.Writer, label string, score int) {
	fmt.Fprintf(w, "  %-28s ", label)
	bandColor(score).Fprintf(w, "%3d  %s\n", score, scoring.RatingLabel(score))
}

func printReport(w io.Writer, r *scoring.Report) {
	heading.Fprintln(w, "\nOverall")
	printScore(w, "Document A", r.Overall.A)
	printScore(w, "Document B", r.Overall.B)

	heading.Fprintln(w, "\nCategories")
	for _, c := range r.CategoryScores {
		fmt.Fprintf(w, "  %s\n", c.Name)
		printScore(w, "  A", c.A)
		printScore(w, "  B", c.B)
	}

	for _, sec := range []struct {
		title string
		items []string
	}{
		{"Business recommendations", r.BusinessRecommendations},
		{"Scientific recommendations", r.ScientificRecommendations},
		{"Humanitarian recommendations", r.HumanitarianRecommendations},
	} {
		heading.Fprintf(w, "\n%s\n", sec.title)
		for _, item := range sec.items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}

	heading.Fprintln(w, "\nConclusions")
	fmt.Fprintf(w, "  A: %s\n", r.ConclusionA)
	fmt.Fprintf(w, "  B: %s\n", r.ConclusionB)
}
