package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/sensei/internal/adapters/http/api"
	"github.com/okian/sensei/internal/domain/feature"
	"github.com/okian/sensei/internal/domain/profile"
	"github.com/okian/sensei/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockService struct {
	predictions  map[int64]types.Prediction
	predictErr   error
	lastUserID   int64
	lastOverride map[string]any
}

func (m *mockService) Predict(_ context.Context, userID int64, override map[string]any) (types.Prediction, error) {
	m.lastUserID = userID
	m.lastOverride = override
	if m.predictErr != nil {
		return types.Prediction{}, m.predictErr
	}
	if p, ok := m.predictions[userID]; ok {
		return p, nil
	}
	return types.Prediction{
		Label:       types.NotActiveLabel,
		ClusterID:   types.InactiveClusterID,
		Reasons:     []types.Reason{},
		Features:    feature.NewVector(feature.DefaultSchema()),
		UserID:      userID,
		DisplayName: "Unknown User",
		Status:      types.StatusNotFound,
	}, nil
}

func (m *mockService) Profiles(_ context.Context) profile.Catalog {
	return profile.Default()
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func activePrediction(userID int64) types.Prediction {
	vec := feature.NewVector(feature.DefaultSchema())
	vec.Set(feature.FieldModulesCompleted, 12)
	return types.Prediction{
		Label:      "Consistent Learner",
		ClusterID:  1,
		Confidence: 0.82,
		Reasons: []types.Reason{
			{Type: types.ReasonNeutral, Metric: "confidence", Value: 82, Note: "This estimate is solid."},
		},
		Narrative:   "You complete modules steadily. This estimate is solid.",
		Features:    vec,
		UserID:      userID,
		DisplayName: "Ada Lovelace",
		Status:      types.StatusOK,
	}
}

func newMux(deps *mockService, stats map[string]interface{}) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: stats})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockService{predictions: map[int64]types.Prediction{1: activePrediction(1)}}
		mux := newMux(deps, map[string]interface{}{"started": true})

		Convey("Then the health endpoint should be accessible", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the stats endpoint should return the provider map", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "started")
		})
	})
}

func TestPredictHandler(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockService{predictions: map[int64]types.Prediction{1: activePrediction(1)}}
		mux := newMux(deps, nil)

		Convey("When posting a valid predict request", func() {
			body := strings.NewReader(`{"user_id": 1}`)
			req := httptest.NewRequest("POST", "/predict", body)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return the full prediction", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var got map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got["label"], ShouldEqual, "Consistent Learner")
				So(got["cluster_id"], ShouldEqual, 1)
				So(got["display_name"], ShouldEqual, "Ada Lovelace")
				So(got["status"], ShouldEqual, types.StatusOK)
			})

			Convey("And the response should carry a request id", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
			})
		})

		Convey("When posting with a feature override", func() {
			body := strings.NewReader(`{"user_id": 1, "features": {"total_modules_completed": 7}}`)
			req := httptest.NewRequest("POST", "/predict", body)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the override should be forwarded to the pipeline", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastOverride, ShouldNotBeNil)
				So(deps.lastOverride["total_modules_completed"], ShouldEqual, 7)
			})
		})

		Convey("When posting with a caller-supplied request id", func() {
			body := strings.NewReader(`{"user_id": 1}`)
			req := httptest.NewRequest("POST", "/predict", body)
			req.Header.Set(api.RequestIDHeader, "req-42")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the same id should be echoed back", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "req-42")
			})
		})

		Convey("When posting malformed JSON", func() {
			req := httptest.NewRequest("POST", "/predict", strings.NewReader("{"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "bad_request")
			})
		})

		Convey("When posting a non-positive user id", func() {
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"user_id": 0}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the pipeline fails", func() {
			deps.predictErr = errors.New("artifact disagreement")
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"user_id": 1}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, "internal_error")
			})
		})

		Convey("When using GET on /predict", func() {
			req := httptest.NewRequest("GET", "/predict", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestStyleHandler(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockService{predictions: map[int64]types.Prediction{1: activePrediction(1)}}
		mux := newMux(deps, nil)

		Convey("When requesting the compact style of a known user", func() {
			req := httptest.NewRequest("GET", "/predict/1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return the compact shape", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var got map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got["user_id"], ShouldEqual, 1)
				So(got["name"], ShouldEqual, "Ada Lovelace")
				So(got["learning_style"], ShouldEqual, "Consistent Learner")
				So(got["cluster_id"], ShouldEqual, 1)
				So(got["status"], ShouldEqual, types.StatusOK)
				So(got, ShouldNotContainKey, "reasons")
			})
		})

		Convey("When requesting an unknown user", func() {
			req := httptest.NewRequest("GET", "/predict/999", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return 404 with the sentinel body", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, types.StatusNotFound)
			})
		})

		Convey("When the path parameter is not a number", func() {
			req := httptest.NewRequest("GET", "/predict/abc", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestProfilesHandler(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockService{}
		mux := newMux(deps, nil)

		Convey("When requesting the profile catalog", func() {
			req := httptest.NewRequest("GET", "/profiles", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return the catalog sorted by cluster id", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var got []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(len(got), ShouldEqual, 4)
				So(got[0]["cluster_id"], ShouldEqual, 0)
				So(got[0]["label"], ShouldEqual, "Fast Learner")
				So(got[3]["label"], ShouldEqual, "Struggling Learner")
			})
		})

		Convey("When posting to /profiles", func() {
			req := httptest.NewRequest("POST", "/profiles", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
