package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/danmuck/ddeurl/internal/settings"
	"github.com/spf13/cobra"
)

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored registration for the scheme",
	}
	return applyRun(cmd, func(ctx *rootContext) error {
		launch, err := ctx.launchPath()
		if err != nil {
			return err
		}
		wired, err := ctx.wire()
		if err != nil {
			return err
		}
		defer wired.reg.Close()

		reader, ok := wired.store.(settings.Reader)
		if !ok {
			return fmt.Errorf("%s store cannot be read back", ctx.cfg.Store)
		}

		w := tabwriter.NewWriter(ctx.cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tSTORED\tEXPECTED")
		for _, e := range wired.reg.Record(launch).Entries {
			stored, found, err := reader.Value(e.Path)
			if err != nil {
				return err
			}
			if !found {
				stored = "<missing>"
			}
			fmt.Fprintf(w, "%s\t%q\t%q\n", e.Path, stored, e.Value)
		}
		return w.Flush()
	})
}
