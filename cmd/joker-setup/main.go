package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"albadit/joker/install"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	os.Exit(execute())
}

func execute() int {
	code := 0
	rootCmd := &cobra.Command{
		Use:          "joker-setup",
		Short:        "Install or uninstall Joker",
		Long:         `joker-setup installs Joker into a folder of your choice and registers it as a scheduled task, or removes an existing installation.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			s := &setup{
				ui:        newConsole(cmd.OutOrStdout()),
				installer: install.New(),
				elevated:  install.IsElevated,
				relaunch:  install.RelaunchElevated,
				documents: install.DocumentsDir,
			}
			code = s.run(cmd.Context(), os.Args[1:])
		},
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return 1
	}
	return code
}
