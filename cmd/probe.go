package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/abrplay/abrplay/color"
	"github.com/abrplay/abrplay/icon"
	"github.com/abrplay/abrplay/key"
	"github.com/abrplay/abrplay/network"
	"github.com/abrplay/abrplay/probe"
	"github.com/abrplay/abrplay/style"
	"github.com/abrplay/abrplay/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.SetOut(os.Stdout)
}

// probeCmd runs one bandwidth measurement against the reference asset.
var probeCmd = &cobra.Command{
	Use:   "probe [url]",
	Short: "Measure throughput against a reference asset",
	Long:  "Time one download of the reference asset and print the estimate used to pick the first rendition.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		url := viper.GetString(key.ProbeURL)
		if len(args) == 1 {
			url = args[0]
		}
		if url == "" {
			handleErr(errors.New("a reference url is required as an argument or via --probe-url"))
		}

		timeout := viper.GetDuration(key.ProbeTimeout)
		if timeout <= 0 {
			timeout = time.Minute
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		erase := util.PrintErasable(fmt.Sprintf("%s Measuring %s", icon.Get(icon.Probe), url))
		kbps, err := probe.New(url, network.Client).Measure(ctx)
		erase()
		handleErr(err)

		cmd.Printf(
			"%s %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Yellow)(util.FormatKbps(kbps)),
		)
	},
}
