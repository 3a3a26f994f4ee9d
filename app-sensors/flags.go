package main

import (
	"flag"
	"time"

	"github.com/antongulenko/golib"
	"github.com/bitflow-stream/go-app-sensors/config"
)

var (
	collect_interval time.Duration
	sdk_level        int
	listen_addr      string
	webhook_url      string
	redis_addr       string
	database_file    string
	use_mock         bool
	parallel_updates bool

	user_include_sensors golib.StringSlice
	user_exclude_sensors golib.StringSlice
	enabled_sensors      golib.StringSlice
	disabled_sensors     golib.StringSlice
)

func init() {
	flag.DurationVar(&collect_interval, "ci", 0, "Interval for updating sensors (default from config: 15m)")
	flag.IntVar(&sdk_level, "sdk", 0, "OS API level deciding which sensors are available (default 28)")
	flag.StringVar(&listen_addr, "listen", "", "Serve the REST API on the given address, e.g. :7878")
	flag.StringVar(&webhook_url, "webhook", "", "Home Assistant mobile_app webhook URL to push sensors to")
	flag.StringVar(&redis_addr, "redis", "", "Redis address to publish readings to")
	flag.StringVar(&database_file, "db", "", "SQLite file holding the app lock session")
	flag.BoolVar(&use_mock, "mock", false, "Report simulated values instead of reading the OS")
	flag.BoolVar(&parallel_updates, "parallel", false, "Update sensor managers in parallel")
	flag.Var(&user_include_sensors, "include", "Sensors to enable exclusively (regex)")
	flag.Var(&user_exclude_sensors, "exclude", "Sensors to disable (regex)")
	flag.Var(&enabled_sensors, "enable", "Enable the given sensor (exact id)")
	flag.Var(&disabled_sensors, "disable", "Disable the given sensor (exact id)")
}

// applyFlags overrides config values with explicitly given flags.
func applyFlags(cfg *config.Config) {
	if collect_interval > 0 {
		cfg.Interval = collect_interval
	}
	if sdk_level > 0 {
		cfg.SDKLevel = sdk_level
	}
	if listen_addr != "" {
		cfg.Listen = listen_addr
	}
	if webhook_url != "" {
		cfg.Webhook = webhook_url
	}
	if redis_addr != "" {
		cfg.Redis.Addr = redis_addr
	}
	if database_file != "" {
		cfg.Database = database_file
	}
	if parallel_updates {
		cfg.Policy = "parallel"
	}
	cfg.Include = append(cfg.Include, user_include_sensors...)
	cfg.Exclude = append(cfg.Exclude, user_exclude_sensors...)
	for _, id := range enabled_sensors {
		cfg.Sensors[id] = true
	}
	for _, id := range disabled_sensors {
		cfg.Sensors[id] = false
	}
}
