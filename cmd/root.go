// Package cmd implements the command-line interface for abrplay.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/abrplay/abrplay/color"
	"github.com/abrplay/abrplay/constant"
	"github.com/abrplay/abrplay/icon"
	"github.com/abrplay/abrplay/key"
	"github.com/abrplay/abrplay/log"
	"github.com/abrplay/abrplay/style"
	"github.com/abrplay/abrplay/util"
	"github.com/abrplay/abrplay/version"
	"github.com/abrplay/abrplay/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("probe-url", "u", "", "Reference asset timed before playback to pick the first rendition")
	lo.Must0(viper.BindPFlag(key.ProbeURL, rootCmd.PersistentFlags().Lookup("probe-url")))

	rootCmd.Flags().IntP("threshold", "t", 4, "Consecutive agreeing observations required before switching")
	lo.Must0(viper.BindPFlag(key.AdaptiveThreshold, rootCmd.Flags().Lookup("threshold")))

	rootCmd.PersistentFlags().BoolP("disable-adaptive", "D", false, "Omit the auto entry and play fixed renditions only")
	lo.Must0(viper.BindPFlag(key.AdaptiveDisable, rootCmd.PersistentFlags().Lookup("disable-adaptive")))

	rootCmd.Flags().Bool("icon-only", false, "Show an icon instead of the quality label in the menu title")
	lo.Must0(viper.BindPFlag(key.UIIconOnly, rootCmd.Flags().Lookup("icon-only")))

	rootCmd.Flags().BoolP("mini", "m", false, "Use the line-prompt quality menu")
	rootCmd.Flags().Bool("no-ui", false, "Play without a quality menu")
	rootCmd.MarkFlagsMutuallyExclusive("mini", "no-ui")

	rootCmd.Flags().String("title", "", "Window title passed to the player")
	lo.Must0(viper.BindPFlag(key.PlayerTitle, rootCmd.Flags().Lookup("title")))

	rootCmd.Flags().StringP("label", "l", "", "Start on the rendition with this label instead of the automatic choice")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = util.Delete(where.Frames())
	}()
}

// rootCmd plays a catalog file with adaptive source selection.
var rootCmd = &cobra.Command{
	Use:   constant.Abrplay + " [catalog]",
	Short: "Play a multi-rendition video with adaptive quality switching",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Play a multi-rendition video with adaptive quality switching"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		if lo.Must(cmd.Flags().GetBool("mini")) {
			viper.Set(key.UIMode, uiModeMini)
		}
		if lo.Must(cmd.Flags().GetBool("no-ui")) {
			viper.Set(key.UIShow, false)
		}

		handleErr(play(args[0], lo.Must(cmd.Flags().GetString("label"))))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
