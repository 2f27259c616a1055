package adaptive

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSampler(t *testing.T) {
	Convey("Given a fresh sampler", t, func() {
		var s Sampler

		Convey("The first sample never signals", func() {
			_, ok := s.Observe(10, 0)
			So(ok, ShouldBeFalse)
		})

		Convey("Equal consecutive samples do not signal", func() {
			s.Observe(10, 0)
			_, ok := s.Observe(10, 9)
			So(ok, ShouldBeFalse)
		})

		Convey("Small growth with a healthy buffer is ignored", func() {
			s.Observe(10, 2)
			_, ok := s.Observe(10.5, 2.5)
			So(ok, ShouldBeFalse)
		})

		Convey("Small growth with a thin buffer signals", func() {
			s.Observe(10, 7)
			delta, ok := s.Observe(10.5, 7.5)
			So(ok, ShouldBeTrue)
			So(delta, ShouldEqual, 0.5)
		})

		Convey("Growth of exactly one second with a healthy buffer is ignored", func() {
			s.Observe(10, 0)
			_, ok := s.Observe(11, 0)
			So(ok, ShouldBeFalse)
		})

		Convey("Large growth signals regardless of buffer", func() {
			s.Observe(10, 0)
			delta, ok := s.Observe(13, 0)
			So(ok, ShouldBeTrue)
			So(delta, ShouldEqual, 3)
		})

		Convey("A shrinking buffer never signals", func() {
			s.Observe(20, 19)
			_, ok := s.Observe(19.5, 19.4)
			So(ok, ShouldBeFalse)

			_, ok = s.Observe(15, 14.9)
			So(ok, ShouldBeFalse)
		})

		Convey("Only the two latest samples count", func() {
			s.Observe(1, 0)
			s.Observe(5, 0)
			delta, ok := s.Observe(7, 0)
			So(ok, ShouldBeTrue)
			So(delta, ShouldEqual, 2)
		})

		Convey("Reset discards history", func() {
			s.Observe(1, 0)
			s.Reset()
			_, ok := s.Observe(5, 0)
			So(ok, ShouldBeFalse)
		})
	})
}
