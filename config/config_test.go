package config

import (
	"testing"
	"time"

	"github.com/abrplay/abrplay/filesystem"
	"github.com/abrplay/abrplay/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(len(Default), ShouldEqual, key.DefinedFieldsCount)
		})

		Convey("Should expose the adaptive defaults", func() {
			_ = Setup()
			So(viper.GetInt(key.AdaptiveThreshold), ShouldEqual, 4)
			So(viper.GetBool(key.AdaptiveDisable), ShouldBeFalse)
			So(viper.GetDuration(key.ProbeTimeout), ShouldEqual, 10*time.Second)
			So(viper.GetString(key.ProbeURL), ShouldBeEmpty)
		})

		Convey("Should reject an unparsable probe timeout", func() {
			_ = Setup()
			viper.Set(key.ProbeTimeout, "soon")
			defer viper.Set(key.ProbeTimeout, "10s")
			So(validate(), ShouldNotBeNil)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("adaptive.threshold")
			So(result, ShouldEqual, "adaptive_threshold")
		})

		Convey("Field env names carry the application prefix", func() {
			f := Default[key.ProbeURL]
			So(f.Env(), ShouldEqual, "ABRPLAY_PROBE_URL")
		})
	})
}
