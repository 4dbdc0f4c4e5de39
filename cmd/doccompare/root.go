package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cfgpkg "github.com/local/doccompare/internal/config"
	"github.com/local/doccompare/internal/fetch"
	"github.com/local/doccompare/internal/imagepreview"
	"github.com/local/doccompare/internal/limiter"
	"github.com/local/doccompare/internal/logger"
	"github.com/local/doccompare/internal/media"
	"github.com/local/doccompare/internal/pdfpreview"
	"github.com/local/doccompare/internal/scoring"
	"github.com/local/doccompare/internal/slot"
	"github.com/local/doccompare/internal/workspace"
)

var (
	modeFlag  string
	widthFlag int
	timeout   time.Duration
	verbose   bool
	noColor   bool
)

var rootCmd = &cobra.Command{
	Use:           "doccompare",
	Short:         "Preview and compare images or PDFs side by side",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		level := "error"
		if verbose {
			level = "debug"
		}
		return logger.Init(logger.Options{Level: level, Pretty: true, Console: os.Stderr})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modeFlag, "mode", "m", "", "comparison mode: image or pdf (default: from the first reference)")
	rootCmd.PersistentFlags().IntVarP(&widthFlag, "width", "w", 0, "preview container width in pixels")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 2*time.Minute, "overall time limit")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(previewCmd, compareCmd)
}

// resolveMode honours --mode, otherwise picks pdf when the first reference
// looks like a PDF.
func resolveMode(first media.Source) (media.Mode, error) {
	if modeFlag != "" {
		return media.ParseMode(modeFlag)
	}
	if media.Resolve(first, media.ModePDF) == media.KindPDF {
		return media.ModePDF, nil
	}
	return media.ModeImage, nil
}

// newWorkspace wires the same loaders the server uses, without Redis.
func newWorkspace(mode media.Mode) *workspace.Workspace {
	cfg := cfgpkg.Load()
	fetcher := fetch.New(fetch.Options{
		Timeout:  cfg.Preview.FetchTimeout,
		MaxBytes: cfg.Preview.FetchMaxBytes,
		S3: fetch.S3Options{
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		},
	})
	pdfOpts := pdfpreview.Options{
		Quality:   cfg.Preview.JPEGQuality,
		Preflight: pdfpreview.ParsePreflight(cfg.Preview.PDFPreflight),
		Limiter:   limiter.New(cfg.Preview.MaxRenders),
	}
	width := widthFlag
	if width <= 0 {
		width = cfg.Preview.ContainerWidth
	}
	return workspace.New("cli", mode, workspace.Deps{
		Images:         imagepreview.New(fetcher),
		NewPDFLoader:   func() slot.PDFLoader { return pdfpreview.New(fetcher, nil, pdfOpts) },
		Scorer:         scoring.NewStatic(),
		ContainerWidth: width,
	})
}

// wait blocks until task settles or ctx expires.
func wait(ctx context.Context, task *slot.Task) error {
	select {
	case <-task.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for preview: %w", ctx.Err())
	}
}
