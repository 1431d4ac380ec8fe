package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/1broseidon/snaptile/internal/platform"
)

func newWindowsCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "windows",
		Short: "List top-level windows that take part in snapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			native, err := platform.Open(platform.Options{})
			if err != nil {
				return err
			}
			defer native.Close()
			return listWindows(cmd.OutOrStdout(), native, all)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include windows that are never snapped to")
	return cmd
}

// listWindows prints one line per top-level window in enumeration order:
// handle, eligibility, show state, visual frame and title.
func listWindows(w io.Writer, b platform.Backend, all bool) error {
	shown := 0
	err := b.EnumerateTopLevel(func(id platform.WindowID) bool {
		eligible := platform.IsTaskbarEligible(b, id)
		if !eligible && !all {
			return true
		}

		mark := color.GreenString("%-4s", "snap")
		if !eligible {
			mark = color.New(color.Faint).Sprintf("%-4s", "skip")
		}

		state := "?"
		if s, err := b.ShowState(id); err == nil {
			state = s.String()
		}

		frame := "-"
		if r, err := b.OuterFrame(id); err == nil {
			frame = fmt.Sprintf("%s %dx%d", r, r.Width(), r.Height())
		}

		fmt.Fprintf(w, "%#010x  %s  %-9s  %-32s  %s\n", uintptr(id), mark, state, frame, b.Title(id))
		shown++
		return true
	})
	if err != nil {
		return fmt.Errorf("failed to enumerate windows: %w", err)
	}
	if shown == 0 {
		fmt.Fprintln(w, "no windows")
	}
	return nil
}
