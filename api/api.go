package api

import (
	"encoding/json"
	"net/http"
	"time"

	sensors "github.com/bitflow-stream/go-app-sensors"
	"github.com/bitflow-stream/go-app-sensors/sink"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// SensorsApi exposes the registry and the update triggers over HTTP.
type SensorsApi struct {
	Registry *sensors.SensorRegistry
	Interval time.Duration
	Update   *sensors.Trigger
	AppLock  *sensors.Trigger

	// Gatherer serves /metrics if set
	Gatherer prometheus.Gatherer
}

type sensorInfo struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Icon           string `json:"icon"`
	Unit           string `json:"unit,omitempty"`
	StateClass     string `json:"state_class,omitempty"`
	EntityCategory string `json:"entity_category,omitempty"`
	Docs           string `json:"docs,omitempty"`
	Enabled        bool   `json:"enabled"`
}

type readingInfo struct {
	sink.SensorState
	Time time.Time `json:"time"`
}

func (api *SensorsApi) Router() *mux.Router {
	router := mux.NewRouter()
	api.Register("", router)
	return router
}

func (api *SensorsApi) Register(rootPath string, router *mux.Router) {
	router.HandleFunc(rootPath+"/sensors", api.handleGetSensors).Methods("GET")
	router.HandleFunc(rootPath+"/sensors/{id}", api.handleSetEnabled).Methods("POST", "PUT", "DELETE")
	router.HandleFunc(rootPath+"/readings", api.handleGetReadings).Methods("GET")
	router.HandleFunc(rootPath+"/freq", api.handleGetFrequency).Methods("GET")
	router.HandleFunc(rootPath+"/update", api.handleTrigger(api.Update)).Methods("POST")
	router.HandleFunc(rootPath+"/applock", api.handleTrigger(api.AppLock)).Methods("POST")
	if api.Gatherer != nil {
		router.Handle(rootPath+"/metrics", promhttp.HandlerFor(api.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}
}

func (api *SensorsApi) handleGetSensors(w http.ResponseWriter, r *http.Request) {
	descs := api.Registry.Descriptors()
	res := make([]sensorInfo, len(descs))
	for i, d := range descs {
		res[i] = sensorInfo{
			ID:             d.ID,
			Type:           d.Type,
			Name:           d.Name,
			Description:    d.Description,
			Icon:           d.Icon,
			Unit:           d.Unit,
			StateClass:     d.StateClass,
			EntityCategory: d.EntityCategory,
			Docs:           d.DocsLink,
			Enabled:        api.Registry.IsEnabled(d.ID),
		}
	}
	replyJson(w, http.StatusOK, res)
}

func (api *SensorsApi) handleSetEnabled(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	enabled := r.Method != "DELETE"
	if err := api.Registry.SetEnabled(id, enabled); err != nil {
		replyJson(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	log.WithField("sensor", id).Println("Sensor enabled:", enabled)
	replyJson(w, http.StatusOK, map[string]interface{}{"id": id, "enabled": enabled})
}

func (api *SensorsApi) handleGetReadings(w http.ResponseWriter, r *http.Request) {
	readings := api.Registry.Readings()
	res := make([]readingInfo, len(readings))
	for i, reading := range readings {
		res[i] = readingInfo{
			SensorState: sink.NewSensorState(reading),
			Time:        reading.Time,
		}
	}
	replyJson(w, http.StatusOK, res)
}

func (api *SensorsApi) handleGetFrequency(w http.ResponseWriter, r *http.Request) {
	replyJson(w, http.StatusOK, map[string]string{
		"interval": api.Interval.String(),
	})
}

func (api *SensorsApi) handleTrigger(trigger *sensors.Trigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if trigger == nil {
			replyJson(w, http.StatusServiceUnavailable, map[string]string{"error": "not available"})
			return
		}
		log.Debugln("Firing", trigger)
		trigger.Fire()
		replyJson(w, http.StatusAccepted, map[string]string{"status": "triggered"})
	}
}

func replyJson(w http.ResponseWriter, status int, data interface{}) {
	out, err := json.Marshal(data)
	if err != nil {
		log.Errorln("Error marshalling response:", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error: " + err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(out)
	w.Write([]byte{'\n'})
}
