package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zoobzio/transit"
	"github.com/zoobzio/transit/bson"
	"github.com/zoobzio/transit/json"
	"github.com/zoobzio/transit/msgpack"
	"github.com/zoobzio/transit/xml"
	"github.com/zoobzio/transit/yaml"
)

var debugFlag bool

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transit",
		Short: "Inspect and convert transit mapping documents",
		Long: `transit works with mapping documents: declarative class maps that a
transit.Factory loads with Factory.Load.

The document format is chosen by file extension:
  .json              JSON
  .xml               XML
  .yaml, .yml        YAML
  .msgpack, .mp      MessagePack
  .bson              BSON`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if debugFlag {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	cmd.AddCommand(newCheckCmd(), newShowCmd(), newConvertCmd(), newVersionCmd())
	return cmd
}

// formats maps format names to codec constructors.
var formats = map[string]func() transit.Codec{
	"json":    json.New,
	"xml":     xml.New,
	"yaml":    yaml.New,
	"msgpack": msgpack.New,
	"bson":    bson.New,
}

// extensions maps file extensions to format names.
var extensions = map[string]string{
	".json":    "json",
	".xml":     "xml",
	".yaml":    "yaml",
	".yml":     "yaml",
	".msgpack": "msgpack",
	".mp":      "msgpack",
	".bson":    "bson",
}

func formatNames() []string {
	return []string{"bson", "json", "msgpack", "xml", "yaml"}
}

// codecForFormat returns the codec registered under a format name.
func codecForFormat(name string) (transit.Codec, error) {
	newCodec, ok := formats[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(formatNames(), ", "))
	}
	return newCodec(), nil
}

// codecForPath picks a codec from the file extension of path.
func codecForPath(path string) (transit.Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	name, ok := extensions[ext]
	if !ok {
		return nil, fmt.Errorf("%s: cannot infer format from extension %q", path, ext)
	}
	return codecForFormat(name)
}

// readDocument reads and parses the mapping document at path.
func readDocument(path string) (*transit.Document, error) {
	codec, err := codecForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := transit.ParseDocument(codec, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("parsed document", "file", path, "content_type", codec.ContentType(), "class_maps", len(doc.ClassMaps))
	return doc, nil
}
