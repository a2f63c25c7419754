// Command tgabuild drives conversion between PNG assets and the device's
// vendor TGA dialect, and packages a project into a distributable .bin.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/somh/tgabuild/config"
	"github.com/somh/tgabuild/convert"
	"github.com/somh/tgabuild/internal/applog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "tgabuild",
		Short: "Convert project assets between PNG and the device TGA dialect",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	logger := applog.NewDefault()
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetDebug(true)
		}
	}

	root.AddCommand(newConvertCmd(logger))
	root.AddCommand(newBuildCmd(logger))
	root.AddCommand(newUnpackCmd(logger))
	root.AddCommand(newInitCmd())

	return root
}

func newConvertCmd(logger *applog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "convert [dir]",
		Short: "Convert PNG assets to TGA, or TGA assets back to PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}

			stats, err := convert.Run(dir, cfg, convert.StdinChooser{In: stdinReader()}, logger)
			if err != nil {
				return err
			}

			printStats(stats)
			return nil
		},
	}
}

func newBuildCmd(logger *applog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "build [dir]",
		Short: "Run the full build pipeline and package a .bin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}

			ctx := &convert.BuildContext{
				ProjectDir: dir,
				BuildDir:   dir + "/build",
				DistDir:    dir + "/dist",
				Config:     cfg,
				Logger:     logger,
				Chooser:    convert.StdinChooser{In: stdinReader()},
			}
			return convert.RunStages(ctx, convert.DefaultStages())
		},
	}
}

func newUnpackCmd(logger *applog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "unpack <bin>",
		Short: "Extract a .bin and decode its TGA assets back to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := convert.Unpack(args[0], logger)
			if err != nil {
				return err
			}
			fmt.Println("unpacked to", dir)
			return nil
		},
	}
}

func newInitCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a new project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if name == "" {
				name = dir
			}
			return convert.Scaffold(dir, name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name written into app.json")
	return cmd
}

func printStats(stats convert.Stats) {
	for target, count := range stats.EncodedByTarget {
		fmt.Printf("encoded %d asset(s) as %s\n", count, target)
	}
	if stats.Decoded > 0 {
		fmt.Printf("decoded %d asset(s)\n", stats.Decoded)
	}
	if stats.Skipped > 0 {
		fmt.Printf("skipped %d already-converted asset(s)\n", stats.Skipped)
	}
}
