package endpoint_test

import (
	"errors"
	"testing"

	"github.com/okian/restio/pkg/endpoint"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPaginator(t *testing.T) {
	Convey("Given a paginator over nine items, four per page", t, func() {
		items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
		p, err := endpoint.NewPaginator(items, 4)
		So(err, ShouldBeNil)

		Convey("Then the page count should round up", func() {
			So(p.NumPages(), ShouldEqual, 3)
			So(p.Count(), ShouldEqual, 9)
		})

		Convey("When asking for interior pages", func() {
			So(p.Page(1), ShouldResemble, []int{1, 2, 3, 4})
			So(p.Page(2), ShouldResemble, []int{5, 6, 7, 8})
			So(p.Page(3), ShouldResemble, []int{9})
		})

		Convey("When asking below the first page", func() {
			Convey("Then it should clamp to the first", func() {
				So(p.Page(0), ShouldResemble, []int{1, 2, 3, 4})
				So(p.Page(-3), ShouldResemble, []int{1, 2, 3, 4})
			})
		})

		Convey("When asking past the last page", func() {
			Convey("Then it should clamp to the last", func() {
				So(p.Page(99), ShouldResemble, []int{9})
			})
		})
	})

	Convey("Given an empty item set", t, func() {
		p, err := endpoint.NewPaginator([]string{}, 25)
		So(err, ShouldBeNil)

		Convey("Then there should still be one empty page", func() {
			So(p.NumPages(), ShouldEqual, 1)
			So(p.Page(1), ShouldBeEmpty)
		})

		Convey("Then the empty page should be a slice, never nil", func() {
			So(p.Page(1), ShouldNotBeNil)
			So(p.Page(7), ShouldNotBeNil)
		})
	})

	Convey("Given an invalid page size", t, func() {
		_, err := endpoint.NewPaginator([]int{1}, 0)

		Convey("Then construction should fail", func() {
			So(errors.Is(err, endpoint.ErrInvalidPageSize), ShouldBeTrue)
		})
	})
}
