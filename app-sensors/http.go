package main

import (
	"context"
	"net/http"
	"time"

	"github.com/bitflow-stream/go-app-sensors/api"
	log "github.com/sirupsen/logrus"
)

func (a *agent) serveHttp(ctx context.Context) {
	sensorsApi := &api.SensorsApi{
		Registry: a.registry,
		Interval: a.source.Interval,
		Update:   a.updateTrigger,
		AppLock:  a.lockTrigger,
		Gatherer: a.metrics,
	}
	server := &http.Server{
		Addr:    a.cfg.Listen,
		Handler: sensorsApi.Router(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()
	go func() {
		log.Println("Serving REST API on", a.cfg.Listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorln("REST API failed:", err)
		}
	}()
}
