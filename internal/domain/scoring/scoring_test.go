package scoring_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ember/internal/domain/model"
	scoring "github.com/okian/ember/internal/domain/scoring"
)

func TestScorer_Score(t *testing.T) {
	Convey("Given a scorer with a frozen clock", t, func() {
		now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
		scorer := scoring.New(scoring.WithClock(clockwork.NewFakeClockAt(now)))

		Convey("When scoring hot, dry, windy, sparse conditions", func() {
			input := model.EnvironmentalInput{
				Temperature:     40,
				Humidity:        20,
				WindSpeed:       25,
				VegetationIndex: 0.3,
			}
			result := scorer.Score(input, model.HistoricalUnknown)

			Convey("Then every variable contributes its hottest bucket", func() {
				So(result.Score, ShouldEqual, 11)
				So(result.Level, ShouldEqual, model.RiskHigh)
			})

			Convey("And the timestamp comes from the injected clock", func() {
				So(result.GeneratedAt, ShouldEqual, now)
			})
		})

		Convey("When scoring mild conditions", func() {
			input := model.EnvironmentalInput{
				Temperature:     32,
				Humidity:        50,
				WindSpeed:       10,
				VegetationIndex: 0.8,
			}

			Convey("Then only temperature contributes", func() {
				result := scorer.Score(input, model.HistoricalUnknown)
				So(result.Score, ShouldEqual, 2)
				So(result.Level, ShouldEqual, model.RiskLow)
			})

			Convey("And a High historical risk lifts the level to Moderate", func() {
				result := scorer.Score(input, model.HistoricalHigh)
				So(result.Score, ShouldEqual, 2)
				So(result.Level, ShouldEqual, model.RiskModerate)
			})

			Convey("And a Low historical risk changes nothing", func() {
				result := scorer.Score(input, model.HistoricalLow)
				So(result.Level, ShouldEqual, model.RiskLow)
			})
		})

		Convey("When the score lands exactly on the High cutoff", func() {
			input := model.EnvironmentalInput{
				Temperature:     31,
				Humidity:        25,
				WindSpeed:       16,
				VegetationIndex: 0.6,
			}
			result := scorer.Score(input, model.HistoricalUnknown)

			Convey("Then the level is High", func() {
				So(result.Score, ShouldEqual, 8)
				So(result.Level, ShouldEqual, model.RiskHigh)
			})

			Convey("And historical High never downgrades it", func() {
				withHistory := scorer.Score(input, model.HistoricalHigh)
				So(withHistory.Level, ShouldEqual, model.RiskHigh)
			})
		})

		Convey("When the score lands exactly on the Moderate cutoff", func() {
			input := model.EnvironmentalInput{
				Temperature:     36,
				Humidity:        25,
				WindSpeed:       5,
				VegetationIndex: 0.9,
			}
			result := scorer.Score(input, model.HistoricalUnknown)

			So(result.Score, ShouldEqual, 5)
			So(result.Level, ShouldEqual, model.RiskModerate)
		})

		Convey("When the vegetation index sits exactly at a breakpoint", func() {
			base := model.EnvironmentalInput{
				Temperature:     20,
				Humidity:        50,
				WindSpeed:       5,
				VegetationIndex: 0.5,
			}

			Convey("Then 0.5 falls in the moderate bucket, not the sparse one", func() {
				result := scorer.Score(base, model.HistoricalUnknown)
				So(result.Score, ShouldEqual, 2)
			})

			Convey("And just below 0.5 falls in the sparse bucket", func() {
				base.VegetationIndex = 0.49
				result := scorer.Score(base, model.HistoricalUnknown)
				So(result.Score, ShouldEqual, 3)
			})

			Convey("And 0.7 contributes nothing", func() {
				base.VegetationIndex = 0.7
				result := scorer.Score(base, model.HistoricalUnknown)
				So(result.Score, ShouldEqual, 0)
			})
		})

		Convey("When temperature sits exactly at a breakpoint", func() {
			base := model.EnvironmentalInput{
				Temperature:     35,
				Humidity:        50,
				WindSpeed:       0,
				VegetationIndex: 0.9,
			}

			Convey("Then 35 falls in the moderate bucket", func() {
				result := scorer.Score(base, model.HistoricalUnknown)
				So(result.Score, ShouldEqual, 2)
			})

			Convey("And 30 contributes nothing", func() {
				base.Temperature = 30
				result := scorer.Score(base, model.HistoricalUnknown)
				So(result.Score, ShouldEqual, 0)
			})
		})

		Convey("When one variable worsens while the others hold", func() {
			base := model.EnvironmentalInput{
				Temperature:     25,
				Humidity:        50,
				WindSpeed:       10,
				VegetationIndex: 0.8,
			}
			baseScore := scorer.Score(base, model.HistoricalUnknown).Score

			Convey("Then a hotter reading never lowers the score", func() {
				hotter := base
				hotter.Temperature = 38
				So(scorer.Score(hotter, model.HistoricalUnknown).Score, ShouldBeGreaterThanOrEqualTo, baseScore)
			})

			Convey("And a drier reading never lowers the score", func() {
				drier := base
				drier.Humidity = 10
				So(scorer.Score(drier, model.HistoricalUnknown).Score, ShouldBeGreaterThanOrEqualTo, baseScore)
			})

			Convey("And a windier reading never lowers the score", func() {
				windier := base
				windier.WindSpeed = 22
				So(scorer.Score(windier, model.HistoricalUnknown).Score, ShouldBeGreaterThanOrEqualTo, baseScore)
			})

			Convey("And sparser vegetation never lowers the score", func() {
				sparser := base
				sparser.VegetationIndex = 0.2
				So(scorer.Score(sparser, model.HistoricalUnknown).Score, ShouldBeGreaterThanOrEqualTo, baseScore)
			})
		})

		Convey("When scoring the same input twice", func() {
			input := model.EnvironmentalInput{
				Temperature:     33,
				Humidity:        40,
				WindSpeed:       18,
				VegetationIndex: 0.6,
			}
			first := scorer.Score(input, model.HistoricalLow)
			second := scorer.Score(input, model.HistoricalLow)

			Convey("Then the results are identical", func() {
				So(second.Score, ShouldEqual, first.Score)
				So(second.Level, ShouldEqual, first.Level)
			})
		})
	})
}
