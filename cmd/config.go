package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abrplay/abrplay/color"
	"github.com/abrplay/abrplay/config"
	"github.com/abrplay/abrplay/constant"
	"github.com/abrplay/abrplay/filesystem"
	"github.com/abrplay/abrplay/icon"
	"github.com/abrplay/abrplay/key"
	"github.com/abrplay/abrplay/style"
	"github.com/abrplay/abrplay/where"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func errUnknownKey(k string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})

	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(k),
		style.Fg(color.Yellow)(closest),
	)
}

// enumerated lists the accepted values of keys with a closed set of options.
var enumerated = map[string]func() []string{
	key.UIMode:       func() []string { return []string{uiModeTUI, uiModeMini} },
	key.IconsVariant: icon.AvailableVariants,
	key.LogsLevel: func() []string {
		return lo.Map(logrus.AllLevels, func(l logrus.Level, _ int) string { return l.String() })
	},
}

// validateValue rejects values a key cannot hold.
func validateValue(k string, v any) error {
	switch k {
	case key.ProbeTimeout:
		if _, err := time.ParseDuration(fmt.Sprint(v)); err != nil {
			return fmt.Errorf("invalid duration value: %v", v)
		}
	case key.AdaptiveThreshold:
		if n, ok := v.(int); ok && n < 1 {
			return fmt.Errorf("threshold must be at least 1, got %d", n)
		}
	}

	options, ok := enumerated[k]
	if !ok {
		return nil
	}

	if s := fmt.Sprint(v); !lo.Contains(options(), s) {
		return fmt.Errorf(
			"invalid value %s for %s, expected one of %s",
			style.Fg(color.Red)(s),
			style.Fg(color.Purple)(k),
			strings.Join(options(), ", "),
		)
	}

	return nil
}

// parseValue converts raw to the type of the key's default and validates it.
func parseValue(k, raw string) (any, error) {
	field, ok := config.Default[k]
	if !ok {
		return nil, errUnknownKey(k)
	}

	var (
		v   any = raw
		err error
	)

	switch field.Value.(type) {
	case int:
		v, err = strconv.Atoi(raw)
	case bool:
		v, err = strconv.ParseBool(raw)
	}

	if err != nil {
		return nil, fmt.Errorf("invalid %T value for %s: %s", field.Value, k, raw)
	}

	return v, validateValue(k, v)
}

// resolveKey takes the key from the first argument or the --key flag.
func resolveKey(cmd *cobra.Command, args []string) (string, error) {
	k := lo.Must(cmd.Flags().GetString("key"))
	if len(args) > 0 {
		k = args[0]
	}

	if k == "" {
		return "", errors.New("key is required as an argument or --key flag")
	}

	if _, ok := config.Default[k]; !ok {
		return "", errUnknownKey(k)
	}

	return k, nil
}

func configFile() string {
	return filepath.Join(where.Config(), constant.Abrplay+".toml")
}

// persist writes the config, creating the file when it does not exist yet.
func persist() error {
	err := viper.WriteConfig()

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}

	return err
}

func success(format string, a ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, a...))
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInfoCmd, configSetCmd, configGetCmd, configWriteCmd, configDeleteCmd, configResetCmd)

	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Keys to describe")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as json")

	configSetCmd.Flags().StringP("key", "k", "", "Key to set")
	configSetCmd.Flags().StringP("value", "v", "", "Value to assign")

	configGetCmd.Flags().StringP("key", "k", "", "Key to read")

	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")

	configResetCmd.Flags().StringP("key", "k", "", "Key to restore")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	configResetCmd.MarkFlagsOneRequired("key", "all")

	for _, c := range []*cobra.Command{configInfoCmd, configSetCmd, configGetCmd, configResetCmd} {
		_ = c.RegisterFlagCompletionFunc("key", completionConfigKeys)
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings",
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)

		if keys := lo.Must(cmd.Flags().GetStringSlice("key")); len(keys) > 0 {
			fields = lo.Map(keys, func(k string, _ int) config.Field {
				field, ok := config.Default[k]
				if !ok {
					handleErr(errUnknownKey(k))
				}
				return field
			})
		}

		sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })

		if lo.Must(cmd.Flags().GetBool("json")) {
			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		pretty := lo.Map(fields, func(f config.Field, _ int) string { return f.Pretty() })
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(pretty, "\n\n"))
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value]",
	Short:             "Change a setting",
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k, err := resolveKey(cmd, args)
		handleErr(err)

		raw := lo.Must(cmd.Flags().GetString("value"))
		if len(args) == 2 {
			raw = args[1]
		} else if !cmd.Flags().Changed("value") {
			handleErr(errors.New("value is required as an argument or --value flag"))
		}

		v, err := parseValue(k, raw)
		handleErr(err)

		viper.Set(k, v)
		handleErr(persist())
		success("set %s to %s", style.Fg(color.Purple)(k), style.Fg(color.Yellow)(fmt.Sprint(v)))
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print a setting",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k, err := resolveKey(cmd, args)
		handleErr(err)
		fmt.Fprintln(cmd.OutOrStdout(), viper.Get(k))
	},
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(filesystem.API().Remove(configFile()))
		}

		handleErr(viper.SafeWriteConfig())
		success("wrote config to %s", configFile())
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFile()))
		success("deleted config")
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore defaults",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			for k, field := range config.Default {
				viper.Set(k, field.Value)
			}
			handleErr(persist())
			success("reset all config values")
			return
		}

		k, err := resolveKey(cmd, nil)
		handleErr(err)

		viper.Set(k, config.Default[k].Value)
		handleErr(persist())
		success("reset %s to %s", style.Fg(color.Purple)(k), style.Fg(color.Yellow)(fmt.Sprint(config.Default[k].Value)))
	},
}
