package source

import (
	"strings"
	"testing"

	"github.com/abrplay/abrplay/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDecode(t *testing.T) {
	Convey("Given a catalog object", t, func() {
		input := `{
			"title": "Big Buck Bunny",
			"headers": {"Referer": "https://example.test"},
			"sources": [
				{"label": "720p", "src": "https://cdn.test/720.mp4", "type": "video/mp4", "bitrate": 500},
				{"label": "360p", "src": "https://cdn.test/360.mp4"}
			]
		}`

		Convey("It is decoded with optional fields", func() {
			file, err := Decode(strings.NewReader(input))
			So(err, ShouldBeNil)
			So(file.Title, ShouldEqual, "Big Buck Bunny")
			So(file.Headers["Referer"], ShouldEqual, "https://example.test")
			So(file.Sources, ShouldHaveLength, 2)
			So(*file.Sources[0].Bitrate, ShouldEqual, 500)
			So(file.Sources[1].Bitrate, ShouldBeNil)
		})
	})

	Convey("Given a bare array", t, func() {
		file, err := Decode(strings.NewReader(`  [{"label": "a", "src": "a.mp4", "bitrate": 1}]`))
		So(err, ShouldBeNil)
		So(file.Sources, ShouldHaveLength, 1)
	})

	Convey("Given no sources", t, func() {
		_, err := Decode(strings.NewReader(`{"sources": []}`))
		So(err, ShouldEqual, ErrNoSources)
	})

	Convey("Given malformed input", t, func() {
		_, err := Decode(strings.NewReader(`{"sources":`))
		So(err, ShouldNotBeNil)
	})
}

func TestOpen(t *testing.T) {
	Convey("Given a catalog on the application filesystem", t, func() {
		filesystem.SetMemMapFs()
		lo.Must0(filesystem.API().WriteFile("/catalog.json", []byte(`[{"label":"a","src":"a.mp4"}]`), 0600))

		file, err := Open("/catalog.json")
		So(err, ShouldBeNil)
		So(file.Sources[0].Label, ShouldEqual, "a")

		_, err = Open("/missing.json")
		So(err, ShouldNotBeNil)
	})
}
