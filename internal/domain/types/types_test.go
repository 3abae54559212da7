package types_test

import (
	"encoding/json"
	"testing"
	"time"

	types "github.com/okian/restio/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewChange(t *testing.T) {
	Convey("Given the change constructor", t, func() {
		Convey("When creating a change record", func() {
			before := time.Now().UTC()
			change := types.NewChange("books", types.OpCreate, "978-0441013593")

			Convey("Then it should carry the resource, op and key", func() {
				So(change.Resource, ShouldEqual, "books")
				So(change.Op, ShouldEqual, types.OpCreate)
				So(change.Key, ShouldEqual, "978-0441013593")
			})

			Convey("Then it should be stamped with a fresh ID and time", func() {
				So(change.ID, ShouldNotBeEmpty)
				So(change.At, ShouldHappenOnOrAfter, before)
			})
		})

		Convey("When creating two change records", func() {
			a := types.NewChange("authors", types.OpUpdate, "a-1")
			b := types.NewChange("authors", types.OpUpdate, "a-1")

			Convey("Then their IDs should differ", func() {
				So(a.ID, ShouldNotEqual, b.ID)
			})
		})
	})
}

func TestChangeJSON(t *testing.T) {
	Convey("Given a change record", t, func() {
		change := types.NewChange("publishers", types.OpDelete, "p-7")

		Convey("When encoding it as JSON", func() {
			raw, err := json.Marshal(change)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(raw, &decoded), ShouldBeNil)

			Convey("Then the wire keys should be stable", func() {
				So(decoded["id"], ShouldEqual, change.ID)
				So(decoded["resource"], ShouldEqual, "publishers")
				So(decoded["op"], ShouldEqual, "delete")
				So(decoded["key"], ShouldEqual, "p-7")
				So(decoded, ShouldContainKey, "at")
			})
		})
	})
}
