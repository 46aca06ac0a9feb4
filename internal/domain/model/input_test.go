package model_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ember/internal/domain/model"
)

func TestEnvironmentalInput_Validate(t *testing.T) {
	Convey("Given an environmental input", t, func() {
		valid := model.EnvironmentalInput{
			Temperature:     25,
			Humidity:        40,
			WindSpeed:       10,
			VegetationIndex: 0.6,
		}

		Convey("When every reading is within range", func() {
			So(valid.Validate(), ShouldBeNil)
		})

		Convey("When readings sit exactly on the bounds", func() {
			boundary := model.EnvironmentalInput{
				Temperature:     model.MaxTemperature,
				Humidity:        model.MinHumidity,
				WindSpeed:       model.MinWindSpeed,
				VegetationIndex: model.MaxVegetation,
			}
			So(boundary.Validate(), ShouldBeNil)

			boundary.Temperature = model.MinTemperature
			boundary.Humidity = model.MaxHumidity
			boundary.VegetationIndex = model.MinVegetation
			So(boundary.Validate(), ShouldBeNil)
		})

		Convey("When temperature is out of range", func() {
			in := valid
			in.Temperature = 61
			So(in.Validate(), ShouldNotBeNil)

			in.Temperature = -51
			So(in.Validate(), ShouldNotBeNil)
		})

		Convey("When humidity is out of range", func() {
			in := valid
			in.Humidity = 101
			So(in.Validate(), ShouldNotBeNil)

			in.Humidity = -1
			So(in.Validate(), ShouldNotBeNil)
		})

		Convey("When wind speed is negative", func() {
			in := valid
			in.WindSpeed = -0.1
			So(in.Validate(), ShouldNotBeNil)
		})

		Convey("When the vegetation index is out of range", func() {
			in := valid
			in.VegetationIndex = 1.01
			So(in.Validate(), ShouldNotBeNil)

			in.VegetationIndex = -0.01
			So(in.Validate(), ShouldNotBeNil)
		})
	})
}
