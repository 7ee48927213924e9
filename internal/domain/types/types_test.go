package types_test

import (
	"testing"

	types "github.com/okian/leaguetable/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDirection(t *testing.T) {
	Convey("Given sort directions", t, func() {
		Convey("Then toggling alternates", func() {
			So(types.Desc.Toggle(), ShouldEqual, types.Asc)
			So(types.Asc.Toggle(), ShouldEqual, types.Desc)
		})

		Convey("Then the default is descending", func() {
			So(types.DefaultDirection, ShouldEqual, types.Desc)
		})

		Convey("When parsing", func() {
			d, err := types.ParseDirection("ASC")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, types.Asc)

			d, err = types.ParseDirection("")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, types.Desc)

			_, err = types.ParseDirection("sideways")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestValueKind(t *testing.T) {
	Convey("Given value kinds", t, func() {
		So(types.Numeric.String(), ShouldEqual, "numeric")
		So(types.Text.String(), ShouldEqual, "text")

		b, err := types.Numeric.MarshalText()
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, "numeric")

		var k types.ValueKind
		So(k.UnmarshalText([]byte("numeric")), ShouldBeNil)
		So(k, ShouldEqual, types.Numeric)
		So(k.UnmarshalText([]byte("blob")), ShouldNotBeNil)
	})
}
