package serialize_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/restio/pkg/serialize"
	. "github.com/smartystreets/goconvey/convey"
)

type job struct {
	Title string `json:"title"`
	Years int    `json:"years"`
}

type person struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Secret string `json:"-"`
	Jobs   []job  `json:"jobs"`
}

func TestMarshalDefaults(t *testing.T) {
	Convey("Given a struct with no options", t, func() {
		p := person{Name: "Ana", Age: 40, Secret: "hidden", Jobs: []job{{Title: "dev", Years: 9}}}

		Convey("When marshalled", func() {
			got := serialize.Marshal(p)

			Convey("Then the JSON encoding should match encoding/json", func() {
				want, err := json.Marshal(p)
				So(err, ShouldBeNil)
				have, err := json.Marshal(got)
				So(err, ShouldBeNil)

				var wantV, haveV any
				So(json.Unmarshal(want, &wantV), ShouldBeNil)
				So(json.Unmarshal(have, &haveV), ShouldBeNil)
				So(haveV, ShouldResemble, wantV)
			})

			Convey("And the skipped field should not appear", func() {
				m, ok := got.(map[string]any)
				So(ok, ShouldBeTrue)
				So(m, ShouldNotContainKey, "Secret")
			})
		})
	})

	Convey("Given scalars and nil", t, func() {
		Convey("Then they should pass through unchanged", func() {
			So(serialize.Marshal(42), ShouldEqual, 42)
			So(serialize.Marshal("hi"), ShouldEqual, "hi")
			So(serialize.Marshal(nil), ShouldBeNil)
			var p *person
			So(serialize.Marshal(p), ShouldBeNil)
		})
	})

	Convey("Given a time value", t, func() {
		ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		Convey("Then it should render as RFC3339", func() {
			So(serialize.Marshal(ts), ShouldEqual, "2024-05-01T12:00:00Z")
		})

		Convey("Then sub-second precision should survive", func() {
			precise := time.Date(2026, 1, 2, 3, 4, 5, 600_000_000, time.UTC)
			So(serialize.Marshal(precise), ShouldEqual, "2026-01-02T03:04:05.6Z")
		})
	})

	Convey("Given a struct with an embedded struct", t, func() {
		type base struct {
			Kind   string `json:"kind"`
			hidden int
		}
		type item struct {
			base
			Name string    `json:"name"`
			At   time.Time `json:"at"`
		}
		src := item{
			base: base{Kind: "x", hidden: 1},
			Name: "n",
			At:   time.Date(2026, 1, 2, 3, 4, 5, 600_000_000, time.UTC),
		}

		Convey("When marshalled with no options", func() {
			got := serialize.Marshal(src)

			Convey("Then the JSON encoding should match encoding/json", func() {
				want, err := json.Marshal(src)
				So(err, ShouldBeNil)
				have, err := json.Marshal(got)
				So(err, ShouldBeNil)

				var wantV, haveV any
				So(json.Unmarshal(want, &wantV), ShouldBeNil)
				So(json.Unmarshal(have, &haveV), ShouldBeNil)
				So(haveV, ShouldResemble, wantV)
			})

			Convey("And the promoted field should appear by name", func() {
				m, ok := got.(map[string]any)
				So(ok, ShouldBeTrue)
				So(m["kind"], ShouldEqual, "x")
				So(m, ShouldNotContainKey, "base")
			})
		})
	})

	Convey("Given an embedded field shadowed at the top level", t, func() {
		type base struct {
			Kind string `json:"kind"`
		}
		type item struct {
			base
			Kind string `json:"kind"`
		}
		src := item{base: base{Kind: "inner"}, Kind: "outer"}

		Convey("Then the outer field should win", func() {
			m := serialize.Marshal(src).(map[string]any)
			So(m["kind"], ShouldEqual, "outer")
		})
	})

	Convey("Given a nil embedded pointer", t, func() {
		type base struct {
			Kind string `json:"kind"`
		}
		type item struct {
			*base
			Name string `json:"name"`
		}

		Convey("Then its fields should simply be absent", func() {
			m := serialize.Marshal(item{Name: "n"}).(map[string]any)
			So(m, ShouldResemble, map[string]any{"name": "n"})
		})
	})

	Convey("Given a slice of structs", t, func() {
		people := []person{{Name: "Ana"}, {Name: "Bo"}}

		Convey("Then each element should marshal with the same options", func() {
			got := serialize.Marshal(people, serialize.Fields("name")).([]any)
			So(got, ShouldHaveLength, 2)
			So(got[0], ShouldResemble, map[string]any{"name": "Ana"})
			So(got[1], ShouldResemble, map[string]any{"name": "Bo"})
		})
	})

	Convey("Given a map", t, func() {
		m := map[string]person{"lead": {Name: "Ana"}}

		Convey("Then values should marshal recursively", func() {
			got := serialize.Marshal(m, serialize.Fields("name")).(map[string]any)
			So(got["lead"], ShouldResemble, map[string]any{"name": "Ana"})
		})
	})
}

func TestMarshalFieldSelection(t *testing.T) {
	p := person{Name: "Ana", Age: 40, Jobs: []job{{Title: "dev", Years: 9}}}

	Convey("Given the Fields option", t, func() {
		got := serialize.Marshal(p, serialize.Fields("name")).(map[string]any)

		Convey("Then only the named fields should appear", func() {
			So(got, ShouldResemble, map[string]any{"name": "Ana"})
		})
	})

	Convey("Given the Exclude option", t, func() {
		got := serialize.Marshal(p, serialize.Exclude("jobs", "age")).(map[string]any)

		Convey("Then the excluded fields should be gone", func() {
			So(got, ShouldResemble, map[string]any{"name": "Ana"})
		})
	})

	Convey("Given the Computed option", t, func() {
		got := serialize.Marshal(p,
			serialize.Fields("name"),
			serialize.Computed("job_count", func(src any) any {
				return len(src.(person).Jobs)
			}),
		).(map[string]any)

		Convey("Then the derived attribute should appear", func() {
			So(got["job_count"], ShouldEqual, 1)
		})
	})

	Convey("Given the Nested option", t, func() {
		got := serialize.Marshal(p,
			serialize.Fields("name", "jobs"),
			serialize.Nested("jobs", serialize.Fields("title")),
		).(map[string]any)

		Convey("Then sub-objects should honor their own option set", func() {
			So(got["jobs"], ShouldResemble, []any{map[string]any{"title": "dev"}})
		})
	})

	Convey("Given the Fixup option", t, func() {
		got := serialize.Marshal(p,
			serialize.Fields("name"),
			serialize.Fixup(func(data map[string]any) map[string]any {
				data["renamed"] = data["name"]
				delete(data, "name")
				return data
			}),
		).(map[string]any)

		Convey("Then the map should be post-processed", func() {
			So(got, ShouldResemble, map[string]any{"renamed": "Ana"})
		})
	})

	Convey("Given the Flatten helper", t, func() {
		type wrapper struct {
			ID    string         `json:"id"`
			Extra map[string]any `json:"extra"`
		}
		w := wrapper{ID: "w1", Extra: map[string]any{"color": "red"}}
		got := serialize.Marshal(w, serialize.Flatten("extra")).(map[string]any)

		Convey("Then the sub-map should be lifted into the parent", func() {
			So(got, ShouldResemble, map[string]any{"id": "w1", "color": "red"})
		})
	})
}
