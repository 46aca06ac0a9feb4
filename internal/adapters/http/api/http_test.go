package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ember/internal/adapters/http/api"
	"github.com/okian/ember/internal/adapters/repository"
	service "github.com/okian/ember/internal/app"
	"github.com/okian/ember/internal/domain/model"
	"github.com/okian/ember/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init("text"); err != nil {
		panic(err)
	}
}

// newTestRouter wires a real service on an in-memory store behind the router.
func newTestRouter(t *testing.T) (*mux.Router, *service.Service) {
	t.Helper()

	svc := service.New(service.WithStore(repository.NewMemoryStore()))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	router := mux.NewRouter()
	api.NewServer(svc, svc, 1000).Register(context.Background(), router)
	return router, svc
}

func doJSON(router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createLocation(router *mux.Router, name string) model.Location {
	rec := doJSON(router, http.MethodPost, "/locations", map[string]string{
		"region_name":      name,
		"fake_coordinates": "34.05,-118.24",
	})
	var loc model.Location
	_ = json.Unmarshal(rec.Body.Bytes(), &loc)
	return loc
}

func TestLocationsEndpoints(t *testing.T) {
	Convey("Given the API router", t, func() {
		router, _ := newTestRouter(t)

		Convey("When creating a location", func() {
			rec := doJSON(router, http.MethodPost, "/locations", map[string]string{
				"region_name":      "Pine Ridge",
				"fake_coordinates": "34.05,-118.24",
			})

			Convey("Then it returns 201 with the stored location", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)

				var loc model.Location
				So(json.Unmarshal(rec.Body.Bytes(), &loc), ShouldBeNil)
				So(loc.ID, ShouldNotEqual, uuid.Nil)
				So(loc.RegionName, ShouldEqual, "Pine Ridge")
			})

			Convey("And a duplicate region returns 409", func() {
				dup := doJSON(router, http.MethodPost, "/locations", map[string]string{
					"region_name": "pine ridge",
				})
				So(dup.Code, ShouldEqual, http.StatusConflict)
			})
		})

		Convey("When the payload has no region name", func() {
			rec := doJSON(router, http.MethodPost, "/locations", map[string]string{
				"fake_coordinates": "0,0",
			})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the payload is not JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/locations", bytes.NewReader([]byte("not json")))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When listing locations", func() {
			createLocation(router, "Cedar Valley")
			createLocation(router, "Alder Creek")

			rec := doJSON(router, http.MethodGet, "/locations", nil)

			Convey("Then it returns them ordered by region name", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var locs []model.Location
				So(json.Unmarshal(rec.Body.Bytes(), &locs), ShouldBeNil)
				So(len(locs), ShouldEqual, 2)
				So(locs[0].RegionName, ShouldEqual, "Alder Creek")
			})

			Convey("And a limit above the cap returns 400", func() {
				over := doJSON(router, http.MethodGet, "/locations?limit=1001", nil)
				So(over.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And a malformed limit returns 400", func() {
				bad := doJSON(router, http.MethodGet, "/locations?limit=abc", nil)
				So(bad.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When fetching a single location", func() {
			loc := createLocation(router, "Oak Flats")

			Convey("Then a known id returns 200", func() {
				rec := doJSON(router, http.MethodGet, "/locations/"+loc.ID.String(), nil)
				So(rec.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And an unknown id returns 404", func() {
				rec := doJSON(router, http.MethodGet, "/locations/"+uuid.NewString(), nil)
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And a malformed id returns 400", func() {
				rec := doJSON(router, http.MethodGet, "/locations/not-a-uuid", nil)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestHistoryEndpoints(t *testing.T) {
	Convey("Given a router with one location", t, func() {
		router, _ := newTestRouter(t)
		loc := createLocation(router, "Juniper Basin")

		Convey("When appending a historical record", func() {
			rec := doJSON(router, http.MethodPost, "/locations/"+loc.ID.String()+"/history", map[string]string{
				"date_occurred":   "2024-08-01",
				"historical_data": "HIGH severity crown fire",
			})

			Convey("Then it returns 201 with the stored record", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)

				var stored model.HistoricalRecord
				So(json.Unmarshal(rec.Body.Bytes(), &stored), ShouldBeNil)
				So(stored.LocationID, ShouldEqual, loc.ID)
				So(stored.Description, ShouldEqual, "HIGH severity crown fire")
			})

			Convey("And the record appears in the listing", func() {
				list := doJSON(router, http.MethodGet, "/locations/"+loc.ID.String()+"/history", nil)
				So(list.Code, ShouldEqual, http.StatusOK)

				var records []model.HistoricalRecord
				So(json.Unmarshal(list.Body.Bytes(), &records), ShouldBeNil)
				So(len(records), ShouldEqual, 1)
			})
		})

		Convey("When the date is an RFC3339 timestamp", func() {
			rec := doJSON(router, http.MethodPost, "/locations/"+loc.ID.String()+"/history", map[string]string{
				"date_occurred":   "2024-08-01T12:30:00Z",
				"historical_data": "small brush fire",
			})
			So(rec.Code, ShouldEqual, http.StatusCreated)
		})

		Convey("When the date is malformed", func() {
			rec := doJSON(router, http.MethodPost, "/locations/"+loc.ID.String()+"/history", map[string]string{
				"date_occurred":   "August first",
				"historical_data": "fire",
			})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the location is unknown", func() {
			rec := doJSON(router, http.MethodPost, "/locations/"+uuid.NewString()+"/history", map[string]string{
				"date_occurred": "2024-08-01",
			})
			So(rec.Code, ShouldEqual, http.StatusNotFound)

			list := doJSON(router, http.MethodGet, "/locations/"+uuid.NewString()+"/history", nil)
			So(list.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPredictEndpoint(t *testing.T) {
	Convey("Given a router with one location", t, func() {
		router, _ := newTestRouter(t)
		loc := createLocation(router, "Chaparral Hills")

		validBody := func() map[string]any {
			return map[string]any{
				"location_id":      loc.ID.String(),
				"temperature":      40.0,
				"humidity":         20.0,
				"wind_speed":       25.0,
				"vegetation_index": 0.3,
			}
		}

		Convey("When posting extreme readings", func() {
			rec := doJSON(router, http.MethodPost, "/predict", validBody())

			Convey("Then it returns 201 with a High prediction", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)

				var pred model.Prediction
				So(json.Unmarshal(rec.Body.Bytes(), &pred), ShouldBeNil)
				So(pred.Level, ShouldEqual, model.RiskHigh)
				So(pred.Score, ShouldEqual, 11)
				So(pred.LocationID, ShouldEqual, loc.ID)
			})

			Convey("And the prediction is listed newest first", func() {
				second := validBody()
				second["temperature"] = 20.0
				second["humidity"] = 60.0
				second["wind_speed"] = 5.0
				second["vegetation_index"] = 0.9
				So(doJSON(router, http.MethodPost, "/predict", second).Code, ShouldEqual, http.StatusCreated)

				list := doJSON(router, http.MethodGet, "/predictions/"+loc.ID.String(), nil)
				So(list.Code, ShouldEqual, http.StatusOK)

				var preds []model.Prediction
				So(json.Unmarshal(list.Body.Bytes(), &preds), ShouldBeNil)
				So(len(preds), ShouldEqual, 2)
			})
		})

		Convey("When a reading is missing", func() {
			body := validBody()
			delete(body, "humidity")
			rec := doJSON(router, http.MethodPost, "/predict", body)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a reading is out of range", func() {
			body := validBody()
			body["temperature"] = 75.0
			rec := doJSON(router, http.MethodPost, "/predict", body)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the location id is missing", func() {
			body := validBody()
			delete(body, "location_id")
			rec := doJSON(router, http.MethodPost, "/predict", body)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the location is unknown", func() {
			body := validBody()
			body["location_id"] = uuid.NewString()
			rec := doJSON(router, http.MethodPost, "/predict", body)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When listing predictions for an unknown location", func() {
			rec := doJSON(router, http.MethodGet, "/predictions/"+uuid.NewString(), nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given the API router", t, func() {
		router, _ := newTestRouter(t)

		Convey("When hitting the banner endpoint", func() {
			rec := doJSON(router, http.MethodGet, "/", nil)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "Wildfire Prediction API is running")
		})

		Convey("When hitting the health endpoint", func() {
			rec := doJSON(router, http.MethodGet, "/healthz", nil)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "ok")
		})

		Convey("When hitting the metrics endpoint", func() {
			rec := doJSON(router, http.MethodGet, "/metrics", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When hitting the stats endpoint", func() {
			rec := doJSON(router, http.MethodGet, "/stats", nil)

			So(rec.Code, ShouldEqual, http.StatusOK)

			var stats map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
		})
	})
}
