package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/growup/internal/config"
)

var configEnvVars = []string{
	"GROWUP_CONFIG",
	"GROWUP_LOG_LEVEL",
	"GROWUP_LOG_FORMAT",
	"GROWUP_TABLES_DIR",
	"GROWUP_INCLUDE_CDC",
	"GROWUP_ADJUST_HEIGHT_DATA",
	"GROWUP_ADJUST_WEIGHT_SCORES",
	"GROWUP_WORKER_COUNT",
	"GROWUP_QUEUE_SIZE",
	"GROWUP_DEDUPE_SIZE",
	"GROWUP_LOAD_CONCURRENCY",
	"GROWUP_METRICS_FILE",
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should match New()", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("GROWUP_TABLES_DIR", "/srv/who")
			_ = os.Setenv("GROWUP_INCLUDE_CDC", "true")
			_ = os.Setenv("GROWUP_ADJUST_WEIGHT_SCORES", "true")
			_ = os.Setenv("GROWUP_WORKER_COUNT", "16")
			_ = os.Setenv("GROWUP_QUEUE_SIZE", "500")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TablesDir, convey.ShouldEqual, "/srv/who")
				convey.So(cfg.IncludeCDC, convey.ShouldBeTrue)
				convey.So(cfg.AdjustWeightScores, convey.ShouldBeTrue)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 100_000)
			})
		})

		convey.Convey("When loading config with a YAML file and env overrides", func() {
			tmpFile := createTempConfigFile(t, `
log_level: debug
log_format: json
tables_dir: ./tables
adjust_height_data: true
worker_count: 3
metrics_file: /tmp/growup.prom
`)
			_ = os.Setenv("GROWUP_CONFIG", tmpFile)
			_ = os.Setenv("GROWUP_WORKER_COUNT", "5")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env should win over the file and the file over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.TablesDir, convey.ShouldEqual, "./tables")
				convey.So(cfg.AdjustHeightData, convey.ShouldBeTrue)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 5)
				convey.So(cfg.MetricsFile, convey.ShouldEqual, "/tmp/growup.prom")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			_ = os.Setenv("GROWUP_CONFIG", createTempConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("GROWUP_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("GROWUP_WORKER_COUNT", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a value breaks a constraint", func() {
			_ = os.Setenv("GROWUP_LOG_LEVEL", "verbose")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error naming the field", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "LogLevel")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the tables directory is emptied", func() {
			_ = os.Setenv("GROWUP_TABLES_DIR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should be rejected as required", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "TablesDir")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When worker count is zero", func() {
			_ = os.Setenv("GROWUP_WORKER_COUNT", "0")

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "WorkerCount")
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, v := range configEnvVars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "growup.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
