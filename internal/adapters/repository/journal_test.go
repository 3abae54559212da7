package repository_test

import (
	"context"
	"fmt"
	"testing"

	repository "github.com/okian/restio/internal/adapters/repository"
	"github.com/okian/restio/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestJournal(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given an empty journal", t, func() {
		j := repository.NewJournal(3)

		convey.Convey("Then it should report no records", func() {
			convey.So(j.Len(ctx), convey.ShouldEqual, 0)
			convey.So(j.Total(ctx), convey.ShouldEqual, 0)
			convey.So(j.Recent(ctx, 10), convey.ShouldBeEmpty)
		})

		convey.Convey("When appending records", func() {
			for i := 1; i <= 3; i++ {
				err := j.Append(ctx, types.NewChange("books", types.OpCreate, fmt.Sprintf("isbn-%d", i)))
				convey.So(err, convey.ShouldBeNil)
			}

			convey.Convey("Then Recent should return newest first", func() {
				recent := j.Recent(ctx, 2)
				convey.So(recent, convey.ShouldHaveLength, 2)
				convey.So(recent[0].Key, convey.ShouldEqual, "isbn-3")
				convey.So(recent[1].Key, convey.ShouldEqual, "isbn-2")
			})

			convey.Convey("Then a non-positive count returns everything retained", func() {
				convey.So(j.Recent(ctx, 0), convey.ShouldHaveLength, 3)
			})

			convey.Convey("And when appending past capacity", func() {
				convey.So(j.Append(ctx, types.NewChange("books", types.OpDelete, "isbn-4")), convey.ShouldBeNil)

				convey.Convey("Then the oldest record falls off", func() {
					convey.So(j.Len(ctx), convey.ShouldEqual, 3)
					convey.So(j.Total(ctx), convey.ShouldEqual, 4)

					recent := j.Recent(ctx, 0)
					convey.So(recent[0].Key, convey.ShouldEqual, "isbn-4")
					convey.So(recent[len(recent)-1].Key, convey.ShouldEqual, "isbn-2")
				})
			})
		})
	})

	convey.Convey("Given a journal built with a non-positive capacity", t, func() {
		j := repository.NewJournal(0)

		convey.Convey("Then it should still accept records", func() {
			convey.So(j.Append(ctx, types.NewChange("authors", types.OpCreate, "a-1")), convey.ShouldBeNil)
			convey.So(j.Len(ctx), convey.ShouldEqual, 1)
		})
	})
}
