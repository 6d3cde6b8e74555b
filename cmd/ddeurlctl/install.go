package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func installCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Write the URL scheme registration",
	}
	cmd.Flags().String("launch", "", "Launch command written for the scheme (default: this executable running listen)")
	return applyRun(cmd, func(ctx *rootContext) error {
		if v, _ := ctx.cmd.Flags().GetString("launch"); v != "" {
			ctx.cfg.LaunchPath = v
		}
		launch, err := ctx.launchPath()
		if err != nil {
			return err
		}
		w, err := ctx.wire()
		if err != nil {
			return err
		}
		defer w.reg.Close()
		if err := w.reg.Install(launch); err != nil {
			return err
		}
		fmt.Fprintf(ctx.cmd.OutOrStdout(), "installed %s:// -> %s\n", w.reg.Config().Scheme, launch)
		return nil
	})
}

func uninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the URL scheme registration",
	}
	return applyRun(cmd, func(ctx *rootContext) error {
		w, err := ctx.wire()
		if err != nil {
			return err
		}
		defer w.reg.Close()
		if err := w.reg.Uninstall(); err != nil {
			return err
		}
		fmt.Fprintf(ctx.cmd.OutOrStdout(), "uninstalled %s://\n", w.reg.Config().Scheme)
		return nil
	})
}
