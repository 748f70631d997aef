package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	toFlag     string
	outputFlag string
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert --to FORMAT FILE",
		Short: "Re-encode a mapping document in another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecForFormat(toFlag)
			if err != nil {
				return err
			}

			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}

			data, err := doc.Encode(codec)
			if err != nil {
				return err
			}

			if outputFlag == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			slog.Debug("writing document", "file", outputFlag, "content_type", codec.ContentType(), "bytes", len(data))
			return os.WriteFile(outputFlag, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&toFlag, "to", "t", "", "target format: bson, json, msgpack, xml or yaml")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "write to this file instead of stdout")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
