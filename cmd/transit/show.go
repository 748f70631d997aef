package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/zoobzio/transit"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print the class maps of a mapping document as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			renderDocument(cmd.OutOrStdout(), doc)
			return nil
		},
	}
}

// renderDocument writes one row per rule. Defaults and exclusions get rows
// of their own so every class map shows up even without explicit rules.
func renderDocument(w io.Writer, doc *transit.Document) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Class Map", "Source", "Dest", "Direction", "Converter"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAutoMergeCells(true)

	rules := 0
	for _, cm := range doc.ClassMaps {
		pair := cm.Source + " -> " + cm.Dest
		for _, fd := range cm.Fields {
			direction := fd.Direction
			if direction == "" {
				direction = transit.Bidirectional.String()
			}
			table.Append([]string{pair, fd.Source, fd.Dest, direction, fd.Converter})
			rules++
		}
		if cm.ByDefault {
			table.Append([]string{pair, "*", "*", "by default", ""})
		}
		if len(cm.Exclude) > 0 {
			table.Append([]string{pair, strings.Join(cm.Exclude, ", "), "", "excluded", ""})
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d class maps", len(doc.ClassMaps)),
		fmt.Sprintf("%d rules", rules),
		"", "", "",
	})
	table.Render()
}
