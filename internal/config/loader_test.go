package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/okian/gemba/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"GEMBA_CONFIG",
		"GEMBA_ADDR",
		"GEMBA_LOG_LEVEL",
		"GEMBA_COOLDOWN_HOURS",
		"GEMBA_RECENT_WINDOW_HOURS",
		"GEMBA_DEFAULT_WINDOW_HOURS",
		"GEMBA_TALLY_QUEUE_SIZE",
		"GEMBA_WORKER_COUNT",
		"GEMBA_DEDUPE_SIZE",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CooldownHours, convey.ShouldEqual, 4)
				convey.So(cfg.RecentWindowHours, convey.ShouldEqual, 4)
				convey.So(cfg.DefaultWindowHours, convey.ShouldEqual, 2)
				convey.So(cfg.TallyQueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("GEMBA_ADDR", ":8081")
			_ = os.Setenv("GEMBA_COOLDOWN_HOURS", "2")
			_ = os.Setenv("GEMBA_RECENT_WINDOW_HOURS", "6")
			_ = os.Setenv("GEMBA_WORKER_COUNT", "3")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.CooldownHours, convey.ShouldEqual, 2)
				convey.So(cfg.RecentWindowHours, convey.ShouldEqual, 6)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config from a YAML file", func() {
			clearConfigEnvVars()
			dir := t.TempDir()
			path := filepath.Join(dir, "gemba.yaml")
			yaml := "addr: \":7070\"\ncooldown_hours: 3\nrecent_window_hours: 5\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("GEMBA_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.CooldownHours, convey.ShouldEqual, 3)
				convey.So(cfg.RecentWindowHours, convey.ShouldEqual, 5)
			})

			convey.Convey("And env still wins over the file", func() {
				_ = os.Setenv("GEMBA_ADDR", ":6060")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the configuration is invalid", func() {
			clearConfigEnvVars()
			_ = os.Setenv("GEMBA_RECENT_WINDOW_HOURS", "1")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then a validation error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file is missing", func() {
			clearConfigEnvVars()
			_ = os.Setenv("GEMBA_CONFIG", "/nonexistent/gemba.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}
