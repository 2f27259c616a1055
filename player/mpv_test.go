package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeMPV answers JSON-IPC commands from a property table and
// pushes an unrelated event before every reply.
type fakeMPV struct {
	listener net.Listener

	mu         sync.Mutex
	properties map[string]interface{}
	commands   [][]interface{}
	observers  []net.Conn
}

func newFakeMPV(t *testing.T) (*fakeMPV, string) {
	path := filepath.Join(t.TempDir(), "mpv.sock")
	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}

	f := &fakeMPV{
		listener: l,
		properties: map[string]interface{}{
			"time-pos":           12.5,
			"demuxer-cache-time": 30.0,
			"pause":              false,
			"width":              1280.0,
			"height":             720.0,
			"pid":                1.0,
		},
	}
	go f.serve()
	return f, path
}

func (f *fakeMPV) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeMPV) handle(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd ipcCommand
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			continue
		}

		f.mu.Lock()
		f.commands = append(f.commands, cmd.Command)
		reply := map[string]interface{}{"request_id": cmd.RequestID, "error": "success"}
		switch cmd.Command[0] {
		case "get_property":
			if v, ok := f.properties[cmd.Command[1].(string)]; ok {
				reply["data"] = v
			} else {
				reply["error"] = "property unavailable"
			}
		case "set_property":
			f.properties[cmd.Command[1].(string)] = cmd.Command[2]
		case "observe_property":
			f.observers = append(f.observers, conn)
		}
		f.mu.Unlock()

		_, _ = conn.Write([]byte(`{"event":"audio-reconfig"}` + "\n"))
		payload, _ := json.Marshal(reply)
		_, _ = conn.Write(append(payload, '\n'))
	}
}

func (f *fakeMPV) emit(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.observers {
		_, _ = fmt.Fprintln(c, line)
	}
}

func (f *fakeMPV) observing() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.observers)
}

func (f *fakeMPV) last() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commands[len(f.commands)-1]
}

func TestMPVCommands(t *testing.T) {
	Convey("Given an mpv speaking JSON-IPC", t, func() {
		fake, path := newFakeMPV(t)
		defer fake.listener.Close()

		m := NewMPV()
		m.socketPath = path

		Convey("Properties are read past interleaved events", func() {
			pos, err := m.Position()
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 12.5)

			end, err := m.BufferedEnd()
			So(err, ShouldBeNil)
			So(end, ShouldEqual, 30.0)

			w, h, err := m.VideoSize()
			So(err, ShouldBeNil)
			So(w, ShouldEqual, 1280)
			So(h, ShouldEqual, 720)
		})

		Convey("Pause and Play toggle the pause property", func() {
			So(m.Pause(), ShouldBeNil)
			paused, err := m.Paused()
			So(err, ShouldBeNil)
			So(paused, ShouldBeTrue)

			So(m.Play(), ShouldBeNil)
			paused, _ = m.Paused()
			So(paused, ShouldBeFalse)
		})

		Convey("Load replaces the current file", func() {
			So(m.Load("https://cdn.test/720.mp4", "video/mp4"), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"loadfile", "https://cdn.test/720.mp4", "replace"})
		})

		Convey("Load refuses flag-like targets", func() {
			So(m.Load("--script=evil.lua", ""), ShouldNotBeNil)
		})

		Convey("Seek is absolute and exact", func() {
			So(m.Seek(42), ShouldBeNil)
			So(fake.last(), ShouldResemble, []interface{}{"seek", 42.0, "absolute+exact"})
		})

		Convey("Rejected commands surface the mpv error without retrying", func() {
			_, err := m.getFloatProperty("duration")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "property unavailable")
		})

		Convey("The process is considered running", func() {
			m.exited = make(chan struct{})
			So(m.IsRunning(), ShouldBeTrue)
		})
	})

	Convey("Given no socket", t, func() {
		m := NewMPV()

		Convey("Commands fail with ErrNotRunning", func() {
			_, err := m.Position()
			So(err, ShouldEqual, ErrNotRunning)
			So(m.IsRunning(), ShouldBeFalse)
		})
	})
}

func TestEventListener(t *testing.T) {
	Convey("Given a listener attached to mpv", t, func() {
		fake, path := newFakeMPV(t)
		defer fake.listener.Close()

		m := NewMPV()
		m.socketPath = path

		events := make(chan Event, 8)
		unsubscribe := m.Subscribe(func(e Event) { events <- e })
		defer unsubscribe()

		m.listener = NewEventListener(path, m.dispatch)
		So(m.listener.Start(), ShouldBeNil)
		defer m.listener.Stop()

		deadline := time.Now().Add(2 * time.Second)
		for fake.observing() < len(observed) && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}

		Convey("mpv events reach subscribers as host events", func() {
			fake.emit(`{"event":"property-change","id":1,"name":"pause","data":true}`)
			fake.emit(`{"event":"file-loaded"}`)
			fake.emit(`{"event":"end-file","reason":"eof"}`)

			var got []Event
			for len(got) < 3 {
				select {
				case e := <-events:
					got = append(got, e)
				case <-time.After(2 * time.Second):
					So(got, ShouldHaveLength, 3)
					return
				}
			}
			So(got, ShouldResemble, []Event{EventPause, EventDataLoaded, EventEnded})
		})
	})
}

func TestTranslate(t *testing.T) {
	Convey("translate maps mpv messages", t, func() {
		cases := []struct {
			msg   ipcMessage
			event Event
			ok    bool
		}{
			{ipcMessage{Event: "property-change", Name: "pause", Data: false}, EventPlay, true},
			{ipcMessage{Event: "property-change", Name: "pause", Data: true}, EventPause, true},
			{ipcMessage{Event: "property-change", Name: "pause"}, "", false},
			{ipcMessage{Event: "property-change", Name: "eof-reached", Data: true}, EventEnded, true},
			{ipcMessage{Event: "property-change", Name: "eof-reached", Data: false}, "", false},
			{ipcMessage{Event: "file-loaded"}, EventDataLoaded, true},
			{ipcMessage{Event: "end-file", Reason: "eof"}, EventEnded, true},
			{ipcMessage{Event: "end-file", Reason: "stop"}, "", false},
			{ipcMessage{Event: "seek"}, "", false},
		}

		for _, c := range cases {
			event, ok := translate(c.msg)
			So(ok, ShouldEqual, c.ok)
			So(event, ShouldEqual, c.event)
		}
	})
}

func TestCanPlayType(t *testing.T) {
	Convey("CanPlayType", t, func() {
		for _, supported := range []string{"", "video/mp4", "video/webm; codecs=vp9", "audio/aac", "application/x-mpegURL", "application/dash+xml"} {
			ok, err := CanPlayType(supported)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		}

		ok, err := CanPlayType("text/html")
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)

		_, err = CanPlayType("video/mp4; =broken")
		So(err, ShouldNotBeNil)
	})
}

func TestLaunchArgs(t *testing.T) {
	Convey("launchArgs", t, func() {
		args := launchArgs("/tmp/a.sock", "Title\nInjected", map[string]string{
			"Referer": "https://example.test",
			"Cookie":  "a=1,b=2",
		})

		So(args, ShouldContain, "--input-ipc-server=/tmp/a.sock")
		So(args, ShouldContain, "--force-media-title=Title Injected")
		So(args, ShouldContain, "--idle=yes")
		So(args[len(args)-1], ShouldEqual, "--http-header-fields=Cookie: a=1%2Cb=2,Referer: https://example.test")
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		_, err := sanitizeMediaTarget("")
		So(err, ShouldNotBeNil)
		_, err = sanitizeMediaTarget("ftp://host/file")
		So(err, ShouldNotBeNil)
		_, err = sanitizeMediaTarget("a\nb")
		So(err, ShouldNotBeNil)

		target, err := sanitizeMediaTarget(" https://cdn.test/a.mp4 ")
		So(err, ShouldBeNil)
		So(target, ShouldEqual, "https://cdn.test/a.mp4")

		target, err = sanitizeMediaTarget("videos/../videos/a.mp4")
		So(err, ShouldBeNil)
		So(target, ShouldEqual, "videos/a.mp4")
	})
}

func TestEncodeBGRA(t *testing.T) {
	Convey("encodeBGRA lays pixels out as premultiplied BGRA", t, func() {
		img := image.NewRGBA(image.Rect(0, 0, 2, 1))
		img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		img.Set(1, 0, color.RGBA{R: 1, G: 2, B: 3, A: 4})

		data, w, h := encodeBGRA(img)
		So(w, ShouldEqual, 2)
		So(h, ShouldEqual, 1)
		So(data, ShouldResemble, []byte{30, 20, 10, 255, 3, 2, 1, 4})
	})
}
