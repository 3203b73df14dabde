package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a usable logger", func() {
				So(Get(), ShouldNotBeNil)
				So(func() { Get().Info(context.Background(), "hello", String("k", "v")) }, ShouldNotPanic)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := InitWith(&bytes.Buffer{}, "xml")

			Convey("Then it returns an error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "unknown log format")
			})
		})

		Convey("When initialized with a nil writer", func() {
			So(InitWith(nil, "text"), ShouldNotBeNil)
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWith(&buf, "json"), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "reply discarded",
				String("comment_id", "comment-1-1"),
				Int("length", 12),
				Bool("persisted", false),
				Error(errors.New("boom")),
			)

			Convey("Then the record carries every field and the source", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "reply discarded")
				So(rec["comment_id"], ShouldEqual, "comment-1-1")
				So(rec["length"], ShouldEqual, float64(12))
				So(rec["persisted"], ShouldEqual, false)
				So(rec["error"], ShouldEqual, "boom")
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown")

			Convey("Then info records are dropped", func() {
				out := buf.String()
				So(out, ShouldNotContainSubstring, "hidden")
				So(out, ShouldContainSubstring, "shown")
			})
			SetLevel(slog.LevelInfo)
		})

		Convey("When using Named and With", func() {
			Named("site").With(String("session", "abc")).Info(ctx, "render")

			Convey("Then fields are attached", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, `"site"`)
				So(out, ShouldContainSubstring, "abc")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "INFO", " warn ", "warning", "error", ""} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		err := SetLevelString("verbose")
		So(err, ShouldNotBeNil)
		So(strings.Contains(err.Error(), "verbose"), ShouldBeTrue)
		SetLevel(slog.LevelInfo)
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		l := Nop()
		So(func() {
			l.Debug(context.Background(), "x")
			l.Error(context.Background(), "y", Error(errors.New("z")))
		}, ShouldNotPanic)
	})
}
