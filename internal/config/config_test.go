package config_test

import (
	"testing"

	"djboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.DefaultTopN, convey.ShouldEqual, 5)
			convey.So(cfg.MaxTopN, convey.ShouldEqual, 100)
			convey.So(cfg.TruncateAverages, convey.ShouldBeFalse)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.AuditEnabled, convey.ShouldBeTrue)
			convey.So(cfg.AuditSchedule, convey.ShouldEqual, "0 */10 * * * *")
			convey.So(cfg.ReadTimeoutS, convey.ShouldEqual, 15)
			convey.So(cfg.WriteTimeoutS, convey.ShouldEqual, 15)
			convey.So(cfg.ShutdownTimeoutS, convey.ShouldEqual, 10)
		})
	})
}
