package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/qaportal/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"QAPORTAL_CONFIG",
	"QAPORTAL_LOG_LEVEL",
	"QAPORTAL_LOG_FORMAT",
	"QAPORTAL_ADDR",
	"QAPORTAL_DATASET_PATH",
	"QAPORTAL_DEFAULT_AGENT_ID",
	"QAPORTAL_SESSION_COOKIE",
	"QAPORTAL_SESSION_TTL_MINUTES",
	"QAPORTAL_URGENT_DAYS",
}

func clearConfigEnvVars(t *testing.T) {
	for _, k := range configEnvVars {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.DatasetPath, convey.ShouldEqual, "")
			convey.So(cfg.UrgentDays, convey.ShouldEqual, 7)
			convey.So(cfg.SessionTTL(), convey.ShouldEqual, time.Hour)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars(t)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.SessionCookie, convey.ShouldEqual, "qaportal_session")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("QAPORTAL_ADDR", ":8080")
			t.Setenv("QAPORTAL_SESSION_TTL_MINUTES", "5")
			t.Setenv("QAPORTAL_URGENT_DAYS", "3")
			t.Setenv("QAPORTAL_DEFAULT_AGENT_ID", "4")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SessionTTL(), convey.ShouldEqual, 5*time.Minute)
				convey.So(cfg.UrgentDays, convey.ShouldEqual, 3)
				convey.So(cfg.DefaultAgentID, convey.ShouldEqual, "4")
			})
		})

		convey.Convey("When a config file is given", func() {
			path := filepath.Join(t.TempDir(), "qaportal.yaml")
			convey.So(os.WriteFile(path, []byte("addr: \":7000\"\nlog_format: json\ndataset_path: /data/agents.yaml\n"), 0o600), convey.ShouldBeNil)
			t.Setenv("QAPORTAL_CONFIG", path)
			t.Setenv("QAPORTAL_LOG_FORMAT", "text")

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values apply and env wins over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
				convey.So(cfg.DatasetPath, convey.ShouldEqual, "/data/agents.yaml")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			})
		})

		convey.Convey("When the config file is missing", func() {
			t.Setenv("QAPORTAL_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When values are invalid", func() {
			t.Setenv("QAPORTAL_URGENT_DAYS", "0")
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the log format is unknown", func() {
			t.Setenv("QAPORTAL_LOG_FORMAT", "xml")
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the session ttl is negative", func() {
			t.Setenv("QAPORTAL_SESSION_TTL_MINUTES", "-1")
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
