package growth_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/growup/internal/domain/growth"
)

func TestAdjustMeasurement(t *testing.T) {
	Convey("Given the recumbent/standing adjuster", t, func() {
		Convey("Weight-for-length inside (65.7, 120.7) loses 0.7", func() {
			got := growth.AdjustMeasurement(growth.WeightForLength, dec("70"), false)
			So(got.String(), ShouldEqual, "69.3")
		})

		Convey("Weight-for-length on the open bounds is untouched", func() {
			So(growth.AdjustMeasurement(growth.WeightForLength, dec("65.7"), false).String(), ShouldEqual, "65.7")
			So(growth.AdjustMeasurement(growth.WeightForLength, dec("120.7"), false).String(), ShouldEqual, "120.7")
			So(growth.AdjustMeasurement(growth.WeightForLength, dec("15"), true).String(), ShouldEqual, "15")
		})

		Convey("Weight-for-height gains 0.7 only when enabled", func() {
			So(growth.AdjustMeasurement(growth.WeightForHeight, dec("13"), false).String(), ShouldEqual, "13")
			So(growth.AdjustMeasurement(growth.WeightForHeight, dec("13"), true).String(), ShouldEqual, "13.7")
		})

		Convey("Other indicators pass through", func() {
			for _, in := range []growth.Indicator{growth.WeightForAge, growth.LengthHeightForAge, growth.HeadCircumferenceForAge, growth.BodyMassIndexForAge} {
				So(growth.AdjustMeasurement(in, dec("70"), true).String(), ShouldEqual, "70")
			}
		})
	})
}
