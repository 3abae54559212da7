package config_test

import (
	"testing"

	"github.com/okian/restio/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Debug, convey.ShouldBeFalse)
			convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 1<<20)
			convey.So(cfg.PageSize, convey.ShouldEqual, 25)
			convey.So(cfg.RateLimitRPS, convey.ShouldEqual, 50)
			convey.So(cfg.RateLimitBurst, convey.ShouldEqual, 100)
			convey.So(cfg.AuthRealm, convey.ShouldEqual, "api")
			convey.So(cfg.AuthUsers, convey.ShouldBeEmpty)
		})
	})
}
