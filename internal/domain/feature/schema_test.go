package feature_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/okian/sensei/internal/domain/feature"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSchema(t *testing.T) {
	Convey("Given the default schema", t, func() {
		schema := feature.DefaultSchema()

		Convey("Then it has the base fields followed by category columns", func() {
			So(len(schema), ShouldEqual, 10+2*len(feature.Categories))
			So(schema[0], ShouldEqual, feature.FieldModulesCompleted)
			So(schema.Index(feature.FieldAvgExamScore), ShouldBeGreaterThanOrEqualTo, 0)
			So(schema.Index(feature.DurationField("reading")), ShouldBeGreaterThanOrEqualTo, 0)
			So(schema.Index("no_such_field"), ShouldEqual, -1)
		})

		Convey("And it equals itself but not a reordered copy", func() {
			So(schema.Equal(feature.DefaultSchema()), ShouldBeTrue)
			swapped := feature.DefaultSchema()
			swapped[0], swapped[1] = swapped[1], swapped[0]
			So(schema.Equal(swapped), ShouldBeFalse)
			So(schema.Equal(schema[:3]), ShouldBeFalse)
		})
	})
}

func TestVector(t *testing.T) {
	Convey("Given a new vector", t, func() {
		v := feature.NewVector(feature.DefaultSchema())

		Convey("Then every field starts at zero", func() {
			So(v.Get(feature.FieldReviews), ShouldEqual, 0)
			So(v.Get("unknown"), ShouldEqual, 0)
		})

		Convey("When setting fields", func() {
			v.Set(feature.FieldModulesCompleted, 40)
			v.Set("unknown", 99) // ignored

			Convey("Then only schema fields are stored", func() {
				So(v.Get(feature.FieldModulesCompleted), ShouldEqual, 40)
				m := v.Map()
				So(len(m), ShouldEqual, v.Len())
				_, ok := m["unknown"]
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When marshaling to JSON", func() {
			v.Set(feature.FieldModulesCompleted, 40)
			v.Set(feature.FieldAvgExamScore, 82.5)
			data, err := json.Marshal(v)

			Convey("Then keys appear in canonical schema order", func() {
				So(err, ShouldBeNil)
				s := string(data)
				So(s, ShouldStartWith, `{"total_modules_completed":40`)
				So(s, ShouldContainSubstring, `"avg_exam_score":82.5`)
				// last schema field is the last key
				So(s, ShouldEndWith, `"count_practice":0}`)
			})
		})
	})
}

func TestFromOverride(t *testing.T) {
	Convey("Given a caller-supplied feature override", t, func() {
		schema := feature.DefaultSchema()

		Convey("When only one field is supplied", func() {
			v, failures := feature.FromOverride(schema, map[string]any{
				"avg_exam_score": 95.0,
			})

			Convey("Then all other fields default to 0", func() {
				So(failures, ShouldEqual, 0)
				So(v.Get(feature.FieldAvgExamScore), ShouldEqual, 95)
				So(v.Get(feature.FieldModulesCompleted), ShouldEqual, 0)
			})
		})

		Convey("When values come in mixed JSON shapes", func() {
			v, failures := feature.FromOverride(schema, map[string]any{
				"total_modules_completed": 12,
				"avg_exam_score":          "88.5",
				"total_reviews":           json.Number("3"),
			})

			Convey("Then each coercible shape is accepted", func() {
				So(failures, ShouldEqual, 0)
				So(v.Get(feature.FieldModulesCompleted), ShouldEqual, 12)
				So(v.Get(feature.FieldAvgExamScore), ShouldEqual, 88.5)
				So(v.Get(feature.FieldReviews), ShouldEqual, 3)
			})
		})

		Convey("When a value cannot be coerced", func() {
			v, failures := feature.FromOverride(schema, map[string]any{
				"total_modules_completed": "lots",
				"avg_exam_score":          []any{1, 2},
				"total_active_days":       210.0,
			})

			Convey("Then it defaults to 0 and is counted, not fatal", func() {
				So(failures, ShouldEqual, 2)
				So(v.Get(feature.FieldModulesCompleted), ShouldEqual, 0)
				So(v.Get(feature.FieldAvgExamScore), ShouldEqual, 0)
				So(v.Get(feature.FieldActiveDays), ShouldEqual, 210)
			})
		})

		Convey("When keys outside the schema are supplied", func() {
			v, failures := feature.FromOverride(schema, map[string]any{
				"bogus_field": 7.0,
			})

			Convey("Then they are ignored", func() {
				So(failures, ShouldEqual, 0)
				So(v.Get("bogus_field"), ShouldEqual, 0)
			})
		})
	})
}
