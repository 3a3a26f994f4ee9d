package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/antongulenko/golib"
	"github.com/bitflow-stream/go-app-sensors/config"
	log "github.com/sirupsen/logrus"
)

func main() {
	os.Exit(do_main())
}

func do_main() int {
	print_sensors := flag.Bool("print-sensors", false, "Print all available sensors and exit")
	configFile := flag.String("config", "", "YAML config file, reloaded when it changes")
	golib.RegisterLogFlags()
	flag.Parse()
	golib.ConfigureLogging()
	if flag.NArg() > 0 {
		log.Fatalln("Stray command line argument(s):", flag.Args())
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		golib.Checkerr(err)
	}
	applyFlags(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		sig := <-signals
		log.Println("Received", sig, "- stopping")
		cancel()
	}()

	a, err := newAgent(ctx, cfg)
	if err != nil {
		log.Errorln(err)
		return 1
	}
	defer a.Close()

	if *print_sensors {
		a.source.RegisterManagers()
		for _, sensor := range a.registry.Descriptors() {
			enabled := ""
			if !a.registry.IsEnabled(sensor.ID) {
				enabled = " (disabled)"
			}
			fmt.Printf("%v [%v]%v\n", sensor.ID, sensor.Type, enabled)
		}
		return 0
	}

	if *configFile != "" {
		err := config.Watch(ctx, *configFile, func(newCfg *config.Config) {
			applyFlags(newCfg)
			a.reconfigure(newCfg)
		})
		if err != nil {
			log.Warnln("Not watching config file:", err)
		}
	}
	return a.run(ctx)
}

func (a *agent) run(ctx context.Context) int {
	a.source.Init(ctx)
	if a.cfg.Listen != "" {
		a.serveHttp(ctx)
	}
	go a.source.RunUpdates(ctx, a.lockTrigger, a.app.UpdateAppLock)
	if err := a.source.Run(ctx, a.updateTrigger); err != nil {
		log.Errorln(err)
		return 1
	}
	return 0
}
