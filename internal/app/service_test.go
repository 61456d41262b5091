package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	service "github.com/okian/sensei/internal/app"
	"github.com/okian/sensei/internal/domain/feature"
	"github.com/okian/sensei/internal/domain/types"
	"github.com/okian/sensei/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// writeSnapshot lays out a coherent data dir + artifact pair:
// user 1 has completed work, user 2 exists but never completed anything.
func writeSnapshot(t *testing.T) (dataDir, modelPath, scalerPath string) {
	t.Helper()
	root := t.TempDir()
	dataDir = filepath.Join(root, "data")
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		"users.csv": "id,name\n1,Ada Lovelace\n2,\n",
		"module_tracking.csv": "developer_id,tutorial_id,first_opened_at,completed_at,last_viewed\n" +
			"1,10,2026-01-05T10:00:00Z,2026-01-05T10:30:00Z,2026-01-07T09:00:00Z\n" +
			"1,11,2026-01-06T08:00:00Z,2026-01-06T08:10:00Z,\n",
		"tutorial_types.csv":     "id,type\n10,reading\n11,video\n",
		"exam_registrations.csv": "id,examinee_id\n100,1\n",
		"exam_results.csv":       "exam_registration_id,score,is_passed\n100,88.5,true\n",
		"submissions.csv":        "submitter_id,rating\n1,4.5\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	schema := feature.DefaultSchema()
	near := make([]float64, len(schema))
	far := make([]float64, len(schema))
	for i := range far {
		far[i] = 10
	}
	scale := make([]float64, len(schema))
	for i := range scale {
		scale[i] = 1000
	}
	modelPath = writeArtifact(t, root, "model.json", map[string]any{
		"feature_names": []string(schema),
		"centroids":     [][]float64{near, far},
	})
	scalerPath = writeArtifact(t, root, "scaler.json", map[string]any{
		"center": make([]float64, len(schema)),
		"scale":  scale,
	})
	return dataDir, modelPath, scalerPath
}

func writeArtifact(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func startService(t *testing.T) *service.Service {
	t.Helper()
	dataDir, modelPath, scalerPath := writeSnapshot(t)
	svc := service.New(
		service.WithDataDir(dataDir),
		service.WithModelPath(modelPath),
		service.WithScalerPath(scalerPath),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a service over a coherent snapshot", t, func() {
		dataDir, modelPath, scalerPath := writeSnapshot(t)
		svc := service.New(
			service.WithDataDir(dataDir),
			service.WithModelPath(modelPath),
			service.WithScalerPath(scalerPath),
		)
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And stats should reflect the snapshot", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["users"], ShouldEqual, 2)
				So(stats["trackingRows"], ShouldEqual, 2)
				So(stats["clusters"], ShouldEqual, 2)
			})
		})
	})

	Convey("Given a missing data directory", t, func() {
		svc := service.New(service.WithDataDir(filepath.Join(t.TempDir(), "absent")))

		Convey("Then Start fails and the service never serves", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given a data dir without artifacts", t, func() {
		dataDir, _, _ := writeSnapshot(t)
		svc := service.New(
			service.WithDataDir(dataDir),
			service.WithModelPath(filepath.Join(dataDir, "missing-model.json")),
		)

		Convey("Then Start fails", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
		})
	})
}

func TestService_Predict(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(t)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When predicting for a user with completed work", func() {
			p, err := svc.Predict(ctx, 1, nil)

			Convey("Then it should produce a full active prediction", func() {
				So(err, ShouldBeNil)
				So(p.Status, ShouldEqual, types.StatusOK)
				So(p.ClusterID, ShouldEqual, 0)
				So(p.Label, ShouldEqual, "Fast Learner")
				So(p.Confidence, ShouldBeGreaterThan, 0)
				So(p.Confidence, ShouldBeLessThanOrEqualTo, 1)
				So(p.DisplayName, ShouldEqual, "Ada Lovelace")
				So(p.Narrative, ShouldNotBeEmpty)
				So(len(p.Reasons), ShouldBeGreaterThanOrEqualTo, 1)
				So(p.Reasons[len(p.Reasons)-1].Metric, ShouldEqual, "confidence")
				So(p.Features.Get(feature.FieldModulesCompleted), ShouldEqual, 2)
			})
		})

		Convey("When predicting for a user with no completed work", func() {
			p, err := svc.Predict(ctx, 2, nil)

			Convey("Then it should short-circuit without touching the model", func() {
				So(err, ShouldBeNil)
				So(p.Status, ShouldEqual, types.StatusInactive)
				So(p.ClusterID, ShouldEqual, types.InactiveClusterID)
				So(p.Confidence, ShouldEqual, 0)
				So(p.Reasons, ShouldBeEmpty)
				So(p.Narrative, ShouldBeEmpty)
				So(p.DisplayName, ShouldEqual, "(no name on file)")
				So(p.Features.Values(), ShouldResemble, make([]float64, len(p.Features.Values())))
			})
		})

		Convey("When predicting for an unknown user", func() {
			p, err := svc.Predict(ctx, 999, nil)

			Convey("Then it should report not-found with the sentinel name", func() {
				So(err, ShouldBeNil)
				So(p.Status, ShouldEqual, types.StatusNotFound)
				So(p.ClusterID, ShouldEqual, types.InactiveClusterID)
				So(p.DisplayName, ShouldEqual, "Unknown User")
			})
		})

		Convey("When predicting with a feature override", func() {
			override := map[string]any{
				feature.FieldModulesCompleted: 3,
				feature.FieldAvgExamScore:     91.0,
				"daily_completion_stddev":     "not a number",
			}
			p, err := svc.Predict(ctx, 1, override)

			Convey("Then aggregation is bypassed and bad fields default to 0", func() {
				So(err, ShouldBeNil)
				So(p.Status, ShouldEqual, types.StatusOK)
				So(p.Features.Get(feature.FieldModulesCompleted), ShouldEqual, 3)
				So(p.Features.Get(feature.FieldAvgExamScore), ShouldEqual, 91)
				So(p.Features.Get(feature.FieldDailyStddev), ShouldEqual, 0)
			})
		})

		Convey("When an override zeroes out completed modules", func() {
			p, err := svc.Predict(ctx, 1, map[string]any{feature.FieldAvgExamScore: 95.0})

			Convey("Then the inactivity rule still applies", func() {
				So(err, ShouldBeNil)
				So(p.Status, ShouldEqual, types.StatusInactive)
				So(p.ClusterID, ShouldEqual, types.InactiveClusterID)
			})
		})

		Convey("When predicting twice for the same user", func() {
			a, errA := svc.Predict(ctx, 1, nil)
			b, errB := svc.Predict(ctx, 1, nil)

			Convey("Then the results are identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			})
		})
	})
}

func TestService_Profiles(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(t)
		defer svc.Stop()

		Convey("Then the profile catalog has the four trained profiles", func() {
			catalog := svc.Profiles(context.Background())
			So(len(catalog), ShouldEqual, 4)
			So(catalog[3].Label, ShouldEqual, "Struggling Learner")
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats, ShouldNotBeNil)
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}
