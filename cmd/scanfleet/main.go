package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"scanfleet/collector"
	"scanfleet/config"
	"scanfleet/engine"
	"scanfleet/fleet"
	"scanfleet/messaging"
	"scanfleet/robot"
	"scanfleet/robotstate"
	"scanfleet/www"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "scanfleet.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	port := flag.Int("port", 0, "serve the status API on this port (enables it)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("scanfleet", version)
		return
	}
	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		log.Fatalf("environment: %v", err)
	}
	if *port > 0 {
		cfg.Web.Port = *port
		cfg.Web.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	sink, closeSink, err := openSink(cfg)
	if err != nil {
		log.Fatalf("sink: %v", err)
	}
	defer closeSink()

	bus := engine.NewEventBus()
	sup := fleet.New(fleet.Config{
		Robots:         cfg.Fleet.Robots,
		Catalog:        cfg.Products(),
		Seed:           cfg.Fleet.Seed,
		Interval:       cfg.Fleet.UpdateInterval,
		RecoveryPause:  cfg.Fleet.RecoveryPause,
		StartupDelay:   cfg.Fleet.StartupDelay,
		Stagger:        cfg.Fleet.Stagger,
		StatusInterval: cfg.Fleet.StatusInterval,
		Sink:           sink,
		Bus:            bus,
		LogFunc:        log.Printf,
		Debug:          *debug,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var server *http.Server
	stopWeb := func() {}
	if cfg.Web.Enabled {
		var router http.Handler
		router, stopWeb = www.NewRouter(sup, bus)
		server = &http.Server{Addr: cfg.WebAddr(), Handler: router}
		go serveStatus(server)
	}

	log.Printf("scanfleet %s: %d robots, interval %s, sink %s", version, cfg.Fleet.Robots, cfg.Fleet.UpdateInterval, cfg.Sink.Backend)
	if err := sup.Start(ctx); err != nil {
		log.Fatalf("start fleet: %v", err)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	cancel()
	sup.Wait()

	// Stop SSE event hub first so long-lived connections close
	stopWeb()
	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("http server shutdown: %v", err)
		}
	}
}

// serveStatus runs the status server until it is shut down. A listen failure
// is logged and the fleet keeps reporting without it.
func serveStatus(server *http.Server) {
	log.Printf("scanfleet status server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("http server: %v (status API disabled)", err)
	}
}

// openSink builds the report sink for the configured backend.
func openSink(cfg *config.Config) (robot.Sink, func(), error) {
	switch cfg.Sink.Backend {
	case config.BackendHTTP:
		log.Printf("reporting to collector at %s", cfg.Collector.URL)
		return collector.NewClient(cfg.Collector.URL, cfg.Collector.Timeout), func() {}, nil

	case config.BackendMQTT, config.BackendKafka:
		client := messaging.NewClient(cfg.Sink.Backend, &cfg.Messaging)
		if err := client.Connect(); err != nil {
			return nil, nil, err
		}
		log.Printf("publishing reports to %s topic %s", cfg.Sink.Backend, cfg.Messaging.ReportTopic)
		return messaging.NewSink(client, cfg.Messaging.ReportTopic), client.Close, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sink := robotstate.NewSink(rdb, cfg.Redis.Channel, cfg.Redis.TTL)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sink.Ping(ctx); err != nil {
			log.Printf("redis ping %s: %v (reports will fail until it is reachable)", cfg.Redis.Address, err)
		}
		log.Printf("mirroring reports to redis %s channel %s", cfg.Redis.Address, cfg.Redis.Channel)
		return sink, func() { rdb.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown sink backend: %q", cfg.Sink.Backend)
	}
}
