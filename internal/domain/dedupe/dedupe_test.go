package dedupe_test

import (
	"context"
	"strconv"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ember/internal/domain/dedupe"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new in-memory deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()

		Convey("When recording a key for the first time", func() {
			seen := d.SeenAndRecord(ctx, "loc-1|High")

			Convey("Then it is reported as new", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And the second occurrence is reported as seen", func() {
				So(d.SeenAndRecord(ctx, "loc-1|High"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording a key", func() {
			d.SeenAndRecord(ctx, "loc-2|High")
			d.Unrecord(ctx, "loc-2|High")

			Convey("Then the key can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "loc-2|High"), ShouldBeFalse)
			})
		})

		Convey("When unrecording a key that was never recorded", func() {
			d.Unrecord(ctx, "missing")
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When different levels share a location", func() {
			So(d.SeenAndRecord(ctx, "loc-3|High"), ShouldBeFalse)

			Convey("Then the keys are independent", func() {
				So(d.SeenAndRecord(ctx, "loc-3|Moderate"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a deduper bounded to 3 entries", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

		Convey("When a fourth key is recorded", func() {
			for i := 0; i < 4; i++ {
				d.SeenAndRecord(ctx, "key-"+strconv.Itoa(i))
			}

			Convey("Then the oldest key is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "key-0"), ShouldBeFalse)
			})

			Convey("And newer keys are still present", func() {
				So(d.SeenAndRecord(ctx, "key-3"), ShouldBeTrue)
			})
		})
	})
}
