package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate mapping documents",
		Long: `Check decodes every file and validates its class maps without loading any
Go types: type names must be present, paths must parse and directions must
be known. All files are checked; the command fails if any of them is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed []error
			for _, path := range args {
				doc, err := readDocument(path)
				if err != nil {
					slog.Debug("check failed", "file", path, "error", err)
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s\n  %v\n", path, err)
					failed = append(failed, err)
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d class maps)\n", path, len(doc.ClassMaps))
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d of %d documents invalid: %w", len(failed), len(args), errors.Join(failed...))
			}
			return nil
		},
	}
}
