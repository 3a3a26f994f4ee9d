package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sensors "github.com/bitflow-stream/go-app-sensors"
	"github.com/bitflow-stream/go-app-sensors/app"
	"github.com/bitflow-stream/go-app-sensors/mock"
	"github.com/bitflow-stream/go-app-sensors/sink"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ApiTestSuite struct {
	suite.Suite
	registry *sensors.SensorRegistry
	update   *sensors.Trigger
	api      *SensorsApi
	router   http.Handler
}

func TestApi(t *testing.T) {
	suite.Run(t, new(ApiTestSuite))
}

func (s *ApiTestSuite) SetupTest() {
	metrics := prometheus.NewRegistry()
	promSink, err := sink.NewPrometheusSink(metrics)
	s.Require().NoError(err)

	s.registry = sensors.NewSensorRegistry(promSink)
	manager := &app.SensorManager{
		Platform:    mock.NewPlatform("companion"),
		Version:     "1.0",
		ProcessName: "companion",
	}
	s.registry.Register(manager, app.LevelP)
	s.update = sensors.NewTrigger("update")
	s.api = &SensorsApi{
		Registry: s.registry,
		Interval: 15 * time.Minute,
		Update:   s.update,
		Gatherer: metrics,
	}
	s.router = s.api.Router()
}

func (s *ApiTestSuite) request(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func (s *ApiTestSuite) TestGetSensors() {
	w := s.request("GET", "/sensors")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("application/json", w.Header().Get("Content-Type"))

	var res []sensorInfo
	s.NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Len(res, 8)
	s.Equal("app_importance", res[0].ID)
	for _, info := range res {
		s.False(info.Enabled, info.ID)
		s.NotEmpty(info.Docs, info.ID)
	}
}

func (s *ApiTestSuite) TestEnableDisable() {
	w := s.request("POST", "/sensors/app_memory")
	s.Equal(http.StatusOK, w.Code)
	s.True(s.registry.IsEnabled("app_memory"))

	w = s.request("DELETE", "/sensors/app_memory")
	s.Equal(http.StatusOK, w.Code)
	s.False(s.registry.IsEnabled("app_memory"))

	w = s.request("PUT", "/sensors/unknown")
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request("GET", "/sensors/app_memory")
	s.Equal(http.StatusMethodNotAllowed, w.Code)
}

func (s *ApiTestSuite) TestReadingsAndMetrics() {
	s.NoError(s.registry.SetEnabled("app_memory", true))
	s.NoError(s.registry.SetEnabled("app_importance", true))
	manager := &app.SensorManager{Platform: mock.NewPlatform("companion"), ProcessName: "companion"}
	s.NoError(manager.RequestUpdate(context.Background(), s.registry))
	s.NoError(s.registry.Flush(context.Background()))

	w := s.request("GET", "/readings")
	s.Equal(http.StatusOK, w.Code)
	var res []map[string]interface{}
	s.NoError(json.Unmarshal(w.Body.Bytes(), &res))
	s.Len(res, 2)
	s.Equal("app_importance", res[0]["unique_id"])
	s.Equal("foreground", res[0]["state"])
	s.Equal("app_memory", res[1]["unique_id"])
	s.Equal(0.134, res[1]["state"])
	s.NotEmpty(res[1]["time"])

	w = s.request("GET", "/metrics")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `app_sensor_state{sensor="app_memory",unit="GB"} 0.134`)
	s.Contains(w.Body.String(), `app_sensor_info{sensor="app_importance",state="foreground"} 1`)
}

func (s *ApiTestSuite) TestFrequency() {
	w := s.request("GET", "/freq")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"interval":"15m0s"}`, w.Body.String())
}

func (s *ApiTestSuite) TestTriggers() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fired := make(chan struct{}, 1)
	go s.update.Run(ctx, func(context.Context) {
		fired <- struct{}{}
	})

	w := s.request("POST", "/update")
	s.Equal(http.StatusAccepted, w.Code)
	select {
	case <-fired:
	case <-time.After(time.Second):
		s.Fail("update trigger not fired")
	}

	w = s.request("POST", "/applock")
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func TestRouterWithoutGatherer(t *testing.T) {
	api := &SensorsApi{Registry: sensors.NewSensorRegistry(), Interval: time.Minute}
	router := api.Router()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "no gatherer, no metrics")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/sensors", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}
