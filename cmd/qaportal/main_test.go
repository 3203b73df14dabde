package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/qaportal/internal/config"
	"github.com/okian/qaportal/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func run(args ...string) (string, error) {
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReportCommands(t *testing.T) {
	convey.Convey("Given the qaportal command", t, func() {
		convey.Convey("When listing agents", func() {
			out, err := run("agents", "--log-level", "error")

			convey.Convey("Then every seed agent is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Alex Johnson")
				convey.So(out, convey.ShouldContainSubstring, "Emily Davis")
				convey.So(out, convey.ShouldContainSubstring, "Technical Support")
			})
		})

		convey.Convey("When summarising an agent", func() {
			out, err := run("summary", "--agent", "3", "--log-level", "error")

			convey.Convey("Then totals are printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Michael Brown")
				convey.So(out, convey.ShouldContainSubstring, "Merit 17  Demerit 8")
				convey.So(out, convey.ShouldContainSubstring, "Communication")
			})
		})

		convey.Convey("When summarising without an agent", func() {
			out, err := run("summary", "--log-level", "error")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Alex Johnson")
		})

		convey.Convey("When the agent is unknown", func() {
			_, err := run("summary", "--agent", "nobody", "--log-level", "error")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the dataset file is missing", func() {
			t.Setenv("QAPORTAL_DATASET_PATH", "/nonexistent/dataset.yaml")
			_, err := run("agents", "--log-level", "error")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestServerMux(t *testing.T) {
	convey.Convey("Given the composed HTTP mux", t, func() {
		ctx := context.Background()
		c := &cli{cfg: config.New(ctx), log: logger.Nop(), now: time.Now}
		svc, err := c.startService(ctx)
		convey.So(err, convey.ShouldBeNil)
		defer svc.Stop()
		mux := newMux(ctx, svc, c.cfg, c.log)

		convey.Convey("Then the dashboard, API and docs are all routed", func() {
			for path, want := range map[string]int{
				"/":             http.StatusOK,
				"/healthz":      http.StatusOK,
				"/api/agents":   http.StatusOK,
				"/api-docs":     http.StatusOK,
				"/openapi.yaml": http.StatusOK,
				"/metrics":      http.StatusOK,
				"/nope":         http.StatusNotFound,
			} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				convey.So(w.Code, convey.ShouldEqual, want)
			}
		})

		convey.Convey("Then the dashboard uses the configured cookie", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			convey.So(w.Header().Get("Set-Cookie"), convey.ShouldStartWith, "qaportal_session=")
		})
	})
}
