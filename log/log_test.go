package log

import (
	"path/filepath"
	"testing"

	"github.com/abrplay/abrplay/filesystem"
	"github.com/abrplay/abrplay/key"
	"github.com/abrplay/abrplay/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)

		Convey("Setup is a no-op", func() {
			So(Setup(), ShouldBeNil)
			So(Enabled(), ShouldBeFalse)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		defer viper.Set(key.LogsWrite, false)

		Convey("Setup creates a daily log file", func() {
			So(Setup(), ShouldBeNil)
			So(Enabled(), ShouldBeTrue)

			files := lo.Must(filesystem.API().ReadDir(where.Logs()))
			So(files, ShouldNotBeEmpty)
			So(filepath.Ext(files[0].Name()), ShouldEqual, ".log")
		})
	})
}

func TestEntry(t *testing.T) {
	Convey("Component entries copy their fields", t, func() {
		base := Component("engine")
		child := base.With("state", "idle")

		So(base.fields, ShouldHaveLength, 1)
		So(child.fields, ShouldHaveLength, 2)
		So(child.fields["component"], ShouldEqual, "engine")
	})
}
