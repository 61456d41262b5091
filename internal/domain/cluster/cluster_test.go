package cluster_test

import (
	"testing"

	"github.com/okian/sensei/internal/domain/cluster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScaler_Transform(t *testing.T) {
	Convey("Given a trained scaler", t, func() {
		scaler := cluster.Scaler{
			Center: []float64{10, 0, 5},
			Scale:  []float64{2, 1, 0.5},
		}

		Convey("When transforming a matching vector", func() {
			out, err := scaler.Transform([]float64{12, 3, 4})

			Convey("Then each field is centered and scaled", func() {
				So(err, ShouldBeNil)
				So(out, ShouldResemble, []float64{1, 3, -2})
			})
		})

		Convey("When the vector length disagrees", func() {
			_, err := scaler.Transform([]float64{1, 2})

			Convey("Then it fails with a dimension mismatch", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, cluster.ErrDimensionMismatch)
			})
		})

		Convey("When a feature has zero variance", func() {
			flat := cluster.Scaler{Center: []float64{7}, Scale: []float64{0}}
			out, err := flat.Transform([]float64{7})

			Convey("Then the transform does not divide by zero", func() {
				So(err, ShouldBeNil)
				So(out, ShouldResemble, []float64{0})
			})
		})
	})
}

func TestAssign(t *testing.T) {
	Convey("Given a model with two centroids", t, func() {
		model := cluster.Model{Centroids: [][]float64{
			{0, 0},
			{10, 0},
		}}

		Convey("When the vector sits on the first centroid", func() {
			a, err := cluster.Assign([]float64{0, 0}, model)

			Convey("Then it is assigned there with high confidence", func() {
				So(err, ShouldBeNil)
				So(a.ClusterID, ShouldEqual, 0)
				So(a.Confidence, ShouldEqual, 1)
			})
		})

		Convey("When the vector is nearly equidistant", func() {
			a, err := cluster.Assign([]float64{5.1, 0}, model)

			Convey("Then confidence is near zero but in bounds", func() {
				So(err, ShouldBeNil)
				So(a.ClusterID, ShouldEqual, 1)
				So(a.Confidence, ShouldBeGreaterThanOrEqualTo, 0)
				So(a.Confidence, ShouldBeLessThan, 0.1)
			})
		})

		Convey("When the vector is between the centroids", func() {
			a, err := cluster.Assign([]float64{2, 0}, model)

			Convey("Then confidence stays within [0,1]", func() {
				So(err, ShouldBeNil)
				So(a.ClusterID, ShouldEqual, 0)
				So(a.Confidence, ShouldBeBetweenOrEqual, 0, 1)
			})
		})
	})

	Convey("Given a single-cluster model", t, func() {
		model := cluster.Model{Centroids: [][]float64{{1, 1}}}

		Convey("When any vector is assigned", func() {
			a, err := cluster.Assign([]float64{1, 1}, model)

			Convey("Then the degenerate max distance yields confidence 1", func() {
				So(err, ShouldBeNil)
				So(a.ClusterID, ShouldEqual, 0)
				So(a.Confidence, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a degenerate model where every centroid coincides", t, func() {
		model := cluster.Model{Centroids: [][]float64{{3, 3}, {3, 3}}}
		a, err := cluster.Assign([]float64{3, 3}, model)

		Convey("Then confidence is exactly 1", func() {
			So(err, ShouldBeNil)
			So(a.Confidence, ShouldEqual, 1)
		})
	})

	Convey("Given an empty model", t, func() {
		_, err := cluster.Assign([]float64{0}, cluster.Model{})

		Convey("Then assignment fails", func() {
			So(err, ShouldWrap, cluster.ErrEmptyModel)
		})
	})

	Convey("Given a centroid of the wrong width", t, func() {
		model := cluster.Model{Centroids: [][]float64{{0, 0, 0}}}
		_, err := cluster.Assign([]float64{1, 2}, model)

		Convey("Then assignment fails with a dimension mismatch", func() {
			So(err, ShouldWrap, cluster.ErrDimensionMismatch)
		})
	})
}
