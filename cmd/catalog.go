package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/abrplay/abrplay/color"
	"github.com/abrplay/abrplay/icon"
	"github.com/abrplay/abrplay/key"
	"github.com/abrplay/abrplay/player"
	"github.com/abrplay/abrplay/source"
	"github.com/abrplay/abrplay/style"
	"github.com/abrplay/abrplay/util"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().BoolP("json", "j", false, "Print the ranked catalog as JSON")
	catalogCmd.SetOut(os.Stdout)
}

// catalogCmd prints the ranked menu a catalog file would produce.
var catalogCmd = &cobra.Command{
	Use:   "catalog [file]",
	Short: "Show the ranked quality menu built from a catalog file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file, err := source.Open(args[0])
		handleErr(err)

		catalog := source.Build(file.Sources, player.CanPlayType, !viper.GetBool(key.AdaptiveDisable))

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(catalog.Entries()))
			return
		}

		dropped := len(file.Sources) - len(catalog.Fixed())
		if file.Title != "" {
			cmd.Println(style.Title(file.Title))
			cmd.Println()
		}

		for _, entry := range catalog.Entries() {
			cmd.Println(catalogLine(entry))
		}

		if dropped > 0 {
			cmd.Println()
			cmd.Println(style.Faint(fmt.Sprintf("%s not playable", util.Quantify(dropped, "source", "sources"))))
		}
	},
}

func catalogLine(entry *source.Source) string {
	if entry.Auto {
		return fmt.Sprintf("%s %s", icon.Get(icon.Auto), style.Fg(color.Purple)(entry.Label))
	}

	var b strings.Builder
	b.WriteString(style.Bold(entry.Label))
	if entry.HasBitrate {
		b.WriteString(" ")
		b.WriteString(style.Fg(color.Yellow)(util.FormatKbps(entry.Bitrate)))
	}
	if entry.MediaType != "" {
		b.WriteString(" ")
		b.WriteString(style.Faint(entry.MediaType))
	}
	b.WriteString("\n  ")
	b.WriteString(style.Faint(entry.URI))
	return b.String()
}

func init() {
	catalogCmd.AddCommand(catalogSchemaCmd)
}

// catalogSchemaCmd prints the JSON schema of catalog files.
var catalogSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of catalog files",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(json.NewEncoder(os.Stdout).Encode(catalogSchema()))
	},
}

func catalogSchema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.ExpandedStruct = true
	reflector.Namer = func(t reflect.Type) string {
		switch name := t.Name(); strings.ToLower(name) {
		case "file", "raw":
			return "catalog." + name
		default:
			return name
		}
	}

	return reflector.Reflect(&source.File{})
}
