package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/local/doccompare/internal/media"
	"github.com/local/doccompare/internal/slot"
	"github.com/local/doccompare/internal/workspace"
)

var outPath string

var previewCmd = &cobra.Command{
	Use:   "preview <ref>",
	Short: "Render a preview of one image or the first page of a PDF",
	Long: `Loads a local path, file:// reference, http(s) URL or s3://bucket/key into
slot A and prints its metadata. Use --out to write the preview bytes.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the rendered preview to this file")
}

func runPreview(cmd *cobra.Command, args []string) error {
	src := media.ParseRef(args[0])
	mode, err := resolveMode(src)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	ws := newWorkspace(mode)
	spin := startSpinner("Rendering " + src.Name)
	snap, err := loadSide(ctx, ws, media.SideA, src)
	spin.Stop()
	if err != nil {
		return err
	}
	printSlot(cmd.OutOrStdout(), snap)
	if snap.State != slot.StateReady {
		return errors.New(snap.Error)
	}
	if outPath != "" {
		if err := os.WriteFile(outPath, snap.Preview, 0o644); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "preview written to %s (%s)\n", outPath, snap.ContentType)
	}
	return nil
}

// loadSide requests src on side, waits for it and returns the settled
// snapshot. A rejected source is reported through the snapshot, not err.
func loadSide(ctx context.Context, ws *workspace.Workspace, side media.Side, src media.Source) (slot.Snapshot, error) {
	task, err := ws.Load(side, src, widthFlag)
	if err != nil {
		var unsupported *media.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			return slot.Snapshot{Side: side, Label: side.Label(), State: slot.StateError, Name: src.Name, Error: media.Message(err)}, nil
		}
		return slot.Snapshot{}, err
	}
	if err := wait(ctx, task); err != nil {
		return slot.Snapshot{}, err
	}
	return ws.Slot(side).Snapshot(), nil
}
