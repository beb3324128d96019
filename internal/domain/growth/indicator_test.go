package growth_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/growup/internal/domain/growth"
)

func TestParseIndicator(t *testing.T) {
	Convey("Given indicator prefixes", t, func() {
		Convey("Known prefixes parse regardless of case and padding", func() {
			for _, s := range []string{"wfl", "WFH", " wfa ", "lhfa", "hcfa", "bmifa"} {
				in, err := growth.ParseIndicator(s)
				So(err, ShouldBeNil)
				So(in.Valid(), ShouldBeTrue)
			}
		})

		Convey("Unknown prefixes are invalid input", func() {
			_, err := growth.ParseIndicator("wfx")
			So(errors.Is(err, growth.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestParseSex(t *testing.T) {
	Convey("Given sex codes", t, func() {
		Convey("M and F map to boys and girls in any case", func() {
			for in, want := range map[string]growth.Sex{"M": growth.Boys, "m": growth.Boys, "F": growth.Girls, "f": growth.Girls} {
				got, err := growth.ParseSex(in)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("Anything else is rejected instead of defaulting", func() {
			for _, in := range []string{"X", "", "male", "1"} {
				_, err := growth.ParseSex(in)
				So(errors.Is(err, growth.ErrInvalidInput), ShouldBeTrue)
			}
		})
	})
}

func TestIndicatorFamilies(t *testing.T) {
	Convey("Weight-based indicators are the only ones subject to tail restriction", t, func() {
		So(growth.WeightForAge.WeightBased(), ShouldBeTrue)
		So(growth.WeightForLength.WeightBased(), ShouldBeTrue)
		So(growth.WeightForHeight.WeightBased(), ShouldBeTrue)
		So(growth.LengthHeightForAge.WeightBased(), ShouldBeFalse)
		So(growth.HeadCircumferenceForAge.WeightBased(), ShouldBeFalse)
		So(growth.BodyMassIndexForAge.WeightBased(), ShouldBeFalse)
	})

	Convey("Table vocabulary lookups", t, func() {
		So(growth.KnownTable("wfa_girls_0_5"), ShouldBeTrue)
		So(growth.KnownTable("bmifa_boys_2_20"), ShouldBeTrue)
		So(growth.KnownTable("hcfa_boys_2_20"), ShouldBeFalse)
		So(growth.CDCTable("wfa_boys_2_20"), ShouldBeTrue)
		So(growth.CDCTable("wfa_boys_0_5"), ShouldBeFalse)
	})
}

func TestKind(t *testing.T) {
	Convey("Errors map onto stable kind labels", t, func() {
		So(growth.Kind(nil), ShouldEqual, "")
		So(growth.Kind(growth.ErrInvalidInput), ShouldEqual, growth.KindInvalidInput)
		So(growth.Kind(growth.ErrAgeOutOfRange), ShouldEqual, growth.KindAgeOutOfRange)
		So(growth.Kind(growth.ErrDataError), ShouldEqual, growth.KindDataError)
		So(growth.Kind(errors.New("boom")), ShouldEqual, growth.KindUnknown)
	})
}
