package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abrplay/abrplay/adaptive"
	"github.com/abrplay/abrplay/color"
	"github.com/abrplay/abrplay/key"
	"github.com/abrplay/abrplay/log"
	"github.com/abrplay/abrplay/mini"
	"github.com/abrplay/abrplay/network"
	"github.com/abrplay/abrplay/player"
	"github.com/abrplay/abrplay/probe"
	"github.com/abrplay/abrplay/source"
	"github.com/abrplay/abrplay/style"
	"github.com/abrplay/abrplay/tui"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	uiModeTUI  = "tui"
	uiModeMini = "mini"
)

var errNothingPlayable = errors.New("none of the listed sources can be played")

// play opens the player, hands the catalog to the engine and shows the chosen menu until the player exits.
func play(path, label string) error {
	file, err := source.Open(path)
	if err != nil {
		return err
	}

	CheckDependencies()

	title := lo.Ternary(viper.GetString(key.PlayerTitle) != "", viper.GetString(key.PlayerTitle), file.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	mpv := player.NewMPV()
	if err := mpv.Open(title, file.Headers); err != nil {
		return err
	}
	defer func() {
		if err := mpv.Close(); err != nil {
			log.Warn(err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prober := probe.New(viper.GetString(key.ProbeURL), network.Client)
	engine := adaptive.New(mpv, prober, adaptive.OptionsFromConfig())
	go func() {
		_ = engine.Run(ctx)
	}()

	catalog := engine.SetSources(file.Sources)
	if catalog.Len() == 0 {
		return errNothingPlayable
	}
	log.Infof("playing %s with %d entries", title, catalog.Len())

	if label != "" && !engine.SelectByLabel(label) {
		return errUnknownLabel(label, catalog.Labels())
	}

	if !viper.GetBool(key.UIShow) {
		<-mpv.Wait()
		return nil
	}

	switch viper.GetString(key.UIMode) {
	case uiModeMini:
		return mini.Run(&mini.Options{
			Engine:    engine,
			Transport: mpv,
			Done:      mpv.Wait(),
			Title:     title,
		})
	default:
		return tui.Run(&tui.Options{
			Engine:    engine,
			Transport: mpv,
			Done:      mpv.Wait(),
			Title:     title,
			IconOnly:  viper.GetBool(key.UIIconOnly),
		})
	}
}

// errUnknownLabel suggests the label closest to the one asked for.
func errUnknownLabel(label string, labels []string) error {
	if len(labels) == 0 {
		return fmt.Errorf("unknown quality %s", style.Fg(color.Red)(label))
	}

	var closest string
	if ranks := fuzzy.RankFindNormalizedFold(label, labels); len(ranks) > 0 {
		sort.Sort(ranks)
		closest = ranks[0].Target
	} else {
		closest = lo.MinBy(labels, func(a, b string) bool {
			return levenshtein.Distance(label, a) < levenshtein.Distance(label, b)
		})
	}

	return fmt.Errorf(
		"unknown quality %s, did you mean %s?",
		style.Fg(color.Red)(label),
		style.Fg(color.Yellow)(closest),
	)
}
