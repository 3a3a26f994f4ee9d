package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/antongulenko/golib"
	sensors "github.com/bitflow-stream/go-app-sensors"
	"github.com/bitflow-stream/go-app-sensors/app"
	"github.com/bitflow-stream/go-app-sensors/config"
	"github.com/bitflow-stream/go-app-sensors/mock"
	"github.com/bitflow-stream/go-app-sensors/psutil"
	"github.com/bitflow-stream/go-app-sensors/session"
	"github.com/bitflow-stream/go-app-sensors/sink"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Overridden at build time: -ldflags "-X main.Version=..."
var Version = ""

type agent struct {
	cfg           *config.Config
	registry      *sensors.SensorRegistry
	source        *sensors.PollSource
	app           *app.SensorManager
	store         *session.Store
	redis         *sink.RedisSink
	metrics       *prometheus.Registry
	updateTrigger *sensors.Trigger
	lockTrigger   *sensors.Trigger
}

func newAgent(ctx context.Context, cfg *config.Config) (*agent, error) {
	a := &agent{
		cfg:           cfg,
		metrics:       prometheus.NewRegistry(),
		updateTrigger: sensors.NewTrigger("update"),
		lockTrigger:   sensors.NewTrigger("app lock"),
	}
	if err := a.createSinks(ctx); err != nil {
		a.Close()
		return nil, err
	}
	store, err := session.Open(cfg.Database)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store
	a.app = a.createAppManager()
	a.source = &sensors.PollSource{
		Managers: []sensors.Manager{a.app},
		Registry: a.registry,
		Level:    a.app.Platform.SDKLevel(),
		Interval: cfg.Interval,
		Policy:   sensors.ParseTaskPolicy(cfg.Policy),
	}
	if err := a.applyFilters(cfg); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *agent) createSinks(ctx context.Context) error {
	sinks := []sensors.Sink{new(sink.LogSink)}
	promSink, err := sink.NewPrometheusSink(a.metrics)
	if err != nil {
		return err
	}
	sinks = append(sinks, promSink)
	if a.cfg.Webhook != "" {
		sinks = append(sinks, sink.NewWebhookSink(a.cfg.Webhook))
	}
	if a.cfg.Redis.Addr != "" {
		redisSink, err := sink.NewRedisSink(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Prefix)
		if err != nil {
			return err
		}
		a.redis = redisSink
		sinks = append(sinks, redisSink)
	}
	a.registry = sensors.NewSensorRegistry(sinks...)
	log.Println("Sinking readings to", len(sinks), "sinks:", sinks)
	return nil
}

func (a *agent) createAppManager() *app.SensorManager {
	processName := a.cfg.ProcessName
	if processName == "" {
		processName = filepath.Base(os.Args[0])
	}
	packageName := a.cfg.PackageName
	if packageName == "" {
		packageName = processName
	}
	version := a.cfg.Version
	if Version != "" {
		version = Version
	}
	uid := os.Getuid()
	if a.cfg.Uid != nil {
		uid = *a.cfg.Uid
	}

	var platform app.Platform
	if use_mock {
		mockPlatform := mock.NewPlatform(processName)
		if a.cfg.SDKLevel > 0 {
			mockPlatform.Level = a.cfg.SDKLevel
		}
		platform = &tickingPlatform{Platform: mockPlatform}
	} else {
		platform = psutil.NewPlatform(a.cfg.SDKLevel)
	}
	return &app.SensorManager{
		Platform:    platform,
		Session:     a.store,
		Auth:        a.store,
		Version:     version,
		Uid:         uid,
		PackageName: packageName,
		ProcessName: processName,
	}
}

// tickingPlatform makes the simulated traffic counters grow between updates.
type tickingPlatform struct {
	*mock.Platform
}

func (p *tickingPlatform) UidRxBytes(uid int) (int64, error) {
	p.Tick()
	return p.Platform.UidRxBytes(uid)
}

func (a *agent) applyFilters(cfg *config.Config) error {
	include, err := cfg.IncludeRegexes()
	if err != nil {
		return err
	}
	exclude, err := cfg.ExcludeRegexes()
	if err != nil {
		return err
	}
	a.registry.SetFilters(include, exclude)
	a.registry.ApplySettings(cfg.Sensors)
	return nil
}

// reconfigure applies the parts of a reloaded config that can change at runtime.
func (a *agent) reconfigure(cfg *config.Config) {
	if err := a.applyFilters(cfg); err != nil {
		log.Warnln("Not applying changed sensor settings:", err)
		return
	}
	if err := a.registry.Announce(context.Background(), a.registry.EnabledDescriptors()); err != nil {
		log.Warnln(err)
	}
	a.updateTrigger.Fire()
}

func (a *agent) Close() {
	var errors golib.MultiError
	if a.store != nil {
		errors.Add(a.store.Close())
	}
	if a.redis != nil {
		errors.Add(a.redis.Close())
	}
	if err := errors.NilOrError(); err != nil {
		log.Warnln("Error closing agent:", err)
	}
}
