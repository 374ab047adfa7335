package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"djboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			// Clear any existing environment variables
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DefaultTopN, convey.ShouldEqual, 5)
				convey.So(cfg.MaxTopN, convey.ShouldEqual, 100)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
				convey.So(cfg.TruncateAverages, convey.ShouldBeFalse)
				convey.So(cfg.AuditEnabled, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DJBOARD_ADDR", ":9090")
			_ = os.Setenv("DJBOARD_DEFAULT_TOP_N", "10")
			_ = os.Setenv("DJBOARD_MAX_TOP_N", "50")
			_ = os.Setenv("DJBOARD_DEDUPE_SIZE", "1000")
			_ = os.Setenv("DJBOARD_TRUNCATE_AVERAGES", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DefaultTopN, convey.ShouldEqual, 10)
				convey.So(cfg.MaxTopN, convey.ShouldEqual, 50)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 1000)
				convey.So(cfg.TruncateAverages, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":7070"
default_top_n: 3
max_top_n: 25
dedupe_size: 2000
audit_schedule: "0 */5 * * * *"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DJBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.DefaultTopN, convey.ShouldEqual, 3)
				convey.So(cfg.MaxTopN, convey.ShouldEqual, 25)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 2000)
				convey.So(cfg.AuditSchedule, convey.ShouldEqual, "0 */5 * * * *")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":7070"
default_top_n: 3
max_top_n: 25
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DJBOARD_CONFIG", tmpFile)
			_ = os.Setenv("DJBOARD_ADDR", ":9090")     // This should override the file
			_ = os.Setenv("DJBOARD_MAX_TOP_N", "200") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")    // Overridden by env
				convey.So(cfg.DefaultTopN, convey.ShouldEqual, 3)   // From file
				convey.So(cfg.MaxTopN, convey.ShouldEqual, 200)     // Overridden by env
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000) // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DJBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("DJBOARD_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("DJBOARD_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":7070"
default_top_n: 7
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DJBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")      // From file
				convey.So(cfg.DefaultTopN, convey.ShouldEqual, 7)     // From file
				convey.So(cfg.MaxTopN, convey.ShouldEqual, 100)       // From defaults
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000) // From defaults
				convey.So(cfg.AuditEnabled, convey.ShouldBeTrue)      // From defaults
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("DJBOARD_DEFAULT_TOP_N", "invalid")
			_ = os.Setenv("DJBOARD_MAX_TOP_N", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderValidation(t *testing.T) {
	convey.Convey("Given config validation rules", t, func() {
		ctx := context.Background()

		convey.Convey("When default_top_n is below one", func() {
			_ = os.Setenv("DJBOARD_DEFAULT_TOP_N", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When max_top_n is below default_top_n", func() {
			_ = os.Setenv("DJBOARD_DEFAULT_TOP_N", "20")
			_ = os.Setenv("DJBOARD_MAX_TOP_N", "10")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When http timeouts are not positive", func() {
			_ = os.Setenv("DJBOARD_READ_TIMEOUT_S", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When audit is enabled with an empty schedule", func() {
			_ = os.Setenv("DJBOARD_AUDIT_SCHEDULE", "  ")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When audit is disabled with an empty schedule", func() {
			_ = os.Setenv("DJBOARD_AUDIT_ENABLED", "false")
			_ = os.Setenv("DJBOARD_AUDIT_SCHEDULE", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the empty schedule is allowed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.AuditEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When dedupe_size is zero", func() {
			_ = os.Setenv("DJBOARD_DEDUPE_SIZE", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the unbounded tracker is allowed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 0)
			})
		})
	})
}

func TestConfigLoaderEdgeCases(t *testing.T) {
	convey.Convey("Given config loader edge cases", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with various addr formats", func() {
			_ = os.Setenv("DJBOARD_ADDR", "localhost:8080")
			_ = os.Setenv("DJBOARD_ADDR", "0.0.0.0:9090")
			_ = os.Setenv("DJBOARD_ADDR", "[::1]:8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should handle various addr formats", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, "[::1]:8080") // Last one wins
			})
		})

		convey.Convey("When loading config with YAML file containing comments", func() {
			yamlContent := `
# This is a comment
addr: ":7070"  # Inline comment
default_top_n: 3
# Another comment
max_top_n: 25
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DJBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.DefaultTopN, convey.ShouldEqual, 3)
				convey.So(cfg.MaxTopN, convey.ShouldEqual, 25)
			})
		})

		convey.Convey("When loading config with YAML file containing an empty addr", func() {
			yamlContent := `
addr: ""
default_top_n: 3
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DJBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return validation error for empty addr", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"DJBOARD_CONFIG",
		"DJBOARD_ADDR",
		"DJBOARD_LOG_LEVEL",
		"DJBOARD_LOG_FORMAT",
		"DJBOARD_DEFAULT_TOP_N",
		"DJBOARD_MAX_TOP_N",
		"DJBOARD_TRUNCATE_AVERAGES",
		"DJBOARD_DEDUPE_SIZE",
		"DJBOARD_AUDIT_ENABLED",
		"DJBOARD_AUDIT_SCHEDULE",
		"DJBOARD_READ_TIMEOUT_S",
		"DJBOARD_WRITE_TIMEOUT_S",
		"DJBOARD_SHUTDOWN_TIMEOUT_S",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "djboard-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
