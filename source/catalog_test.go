package source

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func raw(label string, bitrate float64, mediaType string) Raw {
	return Raw{Label: label, Src: "https://cdn.test/" + label + ".mp4", Type: mediaType, Bitrate: lo.ToPtr(bitrate)}
}

func playAll(string) (bool, error) { return true, nil }

func TestBuild(t *testing.T) {
	Convey("Given renditions in arbitrary order", t, func() {
		input := []Raw{
			raw("480p", 400, "video/mp4"),
			raw("1080p", 800, "video/mp4"),
			raw("240p", 200, "video/mp4"),
		}

		Convey("With adaptive selection enabled", func() {
			cat := Build(input, playAll, true)

			Convey("Fixed entries are ranked by descending bitrate", func() {
				So(cat.Labels(), ShouldResemble, []string{"1080p", "480p", "240p", AutoLabel})
			})

			Convey("Exactly one auto entry is appended last", func() {
				autos := lo.Filter(cat.Entries(), func(s *Source, _ int) bool { return s.Auto })
				So(autos, ShouldHaveLength, 1)
				So(cat.Last().Auto, ShouldBeTrue)
				So(cat.Last().Bitrate, ShouldEqual, 0)
				So(cat.Last().URI, ShouldBeEmpty)
			})

			Convey("Every fixed entry carries its base label", func() {
				for _, s := range cat.Fixed() {
					So(s.BaseLabel, ShouldEqual, s.Label)
				}
			})

			Convey("Lowest and middle are chosen from the ranking", func() {
				So(cat.Lowest().Label, ShouldEqual, "240p")
				So(cat.Middle().Label, ShouldEqual, "480p")
			})
		})

		Convey("With adaptive selection disabled", func() {
			cat := Build(input, playAll, false)

			So(cat.Len(), ShouldEqual, 3)
			_, ok := cat.Auto()
			So(ok, ShouldBeFalse)
			So(cat.Lowest().Label, ShouldEqual, "240p")
		})
	})

	Convey("Given an empty input", t, func() {
		cat := Build(nil, playAll, true)

		Convey("No auto entry is added", func() {
			So(cat.Len(), ShouldEqual, 0)
			So(cat.Last(), ShouldBeNil)
			So(cat.Middle(), ShouldBeNil)
			So(cat.Lowest(), ShouldBeNil)
		})
	})

	Convey("Given renditions the player cannot handle", t, func() {
		input := []Raw{
			raw("webm", 900, "video/webm"),
			raw("mp4", 500, "video/mp4"),
			raw("odd", 300, "video/x-broken"),
		}
		canPlay := func(mediaType string) (bool, error) {
			switch mediaType {
			case "video/webm":
				return false, nil
			case "video/x-broken":
				return false, errors.New("probe failed")
			}
			return true, nil
		}

		Convey("Unsupported entries are dropped and failing checks are kept", func() {
			cat := Build(input, canPlay, true)
			So(cat.Labels(), ShouldResemble, []string{"mp4", "odd", AutoLabel})
		})

		Convey("Filtering everything out yields an empty catalog", func() {
			cat := Build(input[:1], canPlay, true)
			So(cat.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given entries without a bitrate", t, func() {
		input := []Raw{
			{Label: "a", Src: "a.mp4"},
			raw("b", 100, ""),
			{Label: "c", Src: "c.mp4"},
			raw("d", 900, ""),
		}

		Convey("Missing bitrates compare equal and keep their relative order", func() {
			cat := Build(input, playAll, false)
			labels := cat.Labels()
			So(lo.IndexOf(labels, "a"), ShouldBeLessThan, lo.IndexOf(labels, "c"))
			_, ok := cat.Find("a")
			So(ok, ShouldBeTrue)
		})
	})

	Convey("Given equal bitrates", t, func() {
		input := []Raw{raw("first", 500, ""), raw("second", 500, ""), raw("top", 700, "")}

		Convey("Ties keep their original order", func() {
			So(Build(input, playAll, false).Labels(), ShouldResemble, []string{"top", "first", "second"})
		})
	})
}

func TestPrepare(t *testing.T) {
	Convey("Given a prepared entry whose base label changed", t, func() {
		s := &Source{Label: "720p"}
		Prepare([]*Source{s})
		s.BaseLabel = "custom"

		Convey("Preparing again keeps the existing base label", func() {
			Prepare([]*Source{s})
			So(s.BaseLabel, ShouldEqual, "custom")
		})
	})

	Convey("Auto entries are never prepared", t, func() {
		s := &Source{Label: AutoLabel, Auto: true}
		Prepare([]*Source{s})
		So(s.BaseLabel, ShouldBeEmpty)
	})
}

func TestFind(t *testing.T) {
	Convey("Given a catalog", t, func() {
		cat := Build([]Raw{raw("720p", 500, ""), raw("360p", 100, "")}, playAll, true)

		Convey("Known labels resolve", func() {
			s, ok := cat.Find("360p")
			So(ok, ShouldBeTrue)
			So(s.Bitrate, ShouldEqual, 100)

			a, ok := cat.Find(AutoLabel)
			So(ok, ShouldBeTrue)
			So(a.Auto, ShouldBeTrue)
		})

		Convey("Unknown labels do not", func() {
			_, ok := cat.Find("4k")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestImpersonate(t *testing.T) {
	Convey("Given the auto entry and a fixed rendition", t, func() {
		cat := Build([]Raw{raw("720p", 500, "video/mp4")}, playAll, true)
		auto, _ := cat.Auto()
		fixed := cat.At(0)

		So(auto.Impersonating(), ShouldBeFalse)

		Convey("Impersonating copies the playback target only", func() {
			auto.Impersonate(fixed)
			So(auto.Label, ShouldEqual, AutoLabel)
			So(auto.Auto, ShouldBeTrue)
			So(auto.BaseLabel, ShouldEqual, "720p")
			So(auto.URI, ShouldEqual, fixed.URI)
			So(auto.Bitrate, ShouldEqual, 500)
			So(auto.Impersonating(), ShouldBeTrue)
			So(auto.Describe(), ShouldEqual, "auto (720p)")
		})
	})
}
