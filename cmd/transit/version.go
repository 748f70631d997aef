package main

import (
	"fmt"

	goversion "github.com/caarlos0/go-version"
	"github.com/spf13/cobra"
)

// Set through -ldflags at release time.
var (
	version   = ""
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

const asciiName = `
 _                        _ _
| |_ _ __ __ _ _ __  ___(_) |_
| __| '__/ _' | '_ \/ __| | __|
| |_| | | (_| | | | \__ \ | |_
 \__|_|  \__,_|_| |_|___/_|\__|
`

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), buildVersion().String())
			return err
		},
	}
}

func buildVersion() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("transit", "Declarative object-to-object mapping for Go.", "https://github.com/zoobzio/transit"),
		func(i *goversion.Info) {
			i.ASCIIName = asciiName
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
