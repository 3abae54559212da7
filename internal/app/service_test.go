package service_test

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	service "github.com/okian/restio/internal/app"
	"github.com/okian/restio/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	logger.Init(logger.WithLevel(logger.ErrorLevel))
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := service.New()

		Convey("When started", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then the stores should be ready and empty", func() {
				So(svc.Authors(), ShouldNotBeNil)
				So(svc.Books(), ShouldNotBeNil)
				So(svc.Publishers(), ShouldNotBeNil)
				So(svc.Authors().Count(ctx), ShouldEqual, 0)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And stats should report the record counts", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["authors"], ShouldEqual, 0)
				So(stats["books"], ShouldEqual, 0)
				So(stats["publishers"], ShouldEqual, 0)
			})
		})

		Convey("When started with seed data", func() {
			seeded := service.New(service.WithSeedData(true))
			So(seeded.Start(ctx), ShouldBeNil)
			defer seeded.Stop()

			Convey("Then the catalog should not be empty", func() {
				So(seeded.Authors().Count(ctx), ShouldEqual, 2)
				So(seeded.Books().Count(ctx), ShouldEqual, 2)
				So(seeded.Publishers().Count(ctx), ShouldEqual, 1)
			})
		})
	})
}

func TestAuditPipeline(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithSeedData(true))
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then running stats should expose the change total", func() {
			So(svc.GetStats(), ShouldContainKey, "changes")
			svc.Stop()
		})

		Convey("When the service stops", func() {
			// Journaling is asynchronous; Stop drains the queue first.
			svc.Stop()

			Convey("Then the journal should hold one change per seed mutation", func() {
				So(svc.Changes().Total(ctx), ShouldEqual, 5)

				recent := svc.Changes().Recent(ctx, 0)
				resources := make(map[string]int)
				for _, c := range recent {
					resources[c.Resource]++
				}
				So(resources["authors"], ShouldEqual, 2)
				So(resources["books"], ShouldEqual, 2)
				So(resources["publishers"], ShouldEqual, 1)
			})
		})
	})

	Convey("Given a service started with a cancelable context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)

		_, err := svc.Authors().Create(context.Background(), map[string]any{"name": "Before"})
		So(err, ShouldBeNil)

		Convey("When the context is canceled before the service stops", func() {
			cancel()

			_, err := svc.Authors().Create(context.Background(), map[string]any{"name": "After"})
			So(err, ShouldBeNil)
			svc.Stop()

			Convey("Then every change should still reach the journal", func() {
				So(svc.Changes().Total(context.Background()), ShouldEqual, 2)
			})
		})
	})
}

func TestVerifyCredentials(t *testing.T) {
	Convey("Given a service with one configured user", t, func() {
		ctx := context.Background()
		hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
		So(err, ShouldBeNil)

		svc := service.New(service.WithUsers(map[string]string{"admin": string(hash)}))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the right password should verify", func() {
			So(svc.VerifyCredentials(ctx, "admin", "letmein"), ShouldBeTrue)
		})

		Convey("Then a wrong password should not", func() {
			So(svc.VerifyCredentials(ctx, "admin", "guess"), ShouldBeFalse)
		})

		Convey("Then an unknown user should not", func() {
			So(svc.VerifyCredentials(ctx, "nobody", "letmein"), ShouldBeFalse)
		})
	})
}
