package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/local/doccompare/internal/media"
	"github.com/local/doccompare/internal/slot"
)

var compareCmd = &cobra.Command{
	Use:   "compare <refA> <refB>",
	Short: "Load two documents and print the comparison report",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	srcA, srcB := media.ParseRef(args[0]), media.ParseRef(args[1])
	mode, err := resolveMode(srcA)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	ws := newWorkspace(mode)
	spin := startSpinner("Loading documents")
	var snapA, snapB slot.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapA, err = loadSide(gctx, ws, media.SideA, srcA)
		return err
	})
	g.Go(func() error {
		var err error
		snapB, err = loadSide(gctx, ws, media.SideB, srcB)
		return err
	})
	err = g.Wait()
	spin.Stop()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSlot(out, snapA)
	printSlot(out, snapB)

	report, err := ws.Compare(ctx)
	if err != nil {
		return errors.New(media.Message(err))
	}
	printReport(out, report)
	return nil
}
