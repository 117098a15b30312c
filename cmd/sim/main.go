// cmd/sim/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-asteroids/pkg/config"
	"github.com/opd-ai/go-asteroids/pkg/engine"
	"github.com/opd-ai/go-asteroids/pkg/logging"
	"github.com/opd-ai/go-asteroids/pkg/render"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	frames := flag.Int("frames", 0, "Run a fixed number of frames and exit (0 = run until interrupted)")
	realtime := flag.Bool("realtime", false, "Pace ticks to the configured time step")
	flag.Parse()

	// Create default configuration file if requested
	if *createDefault {
		defaultConfig := config.DefaultConfig()
		if err := config.SaveConfig(defaultConfig, *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	// Load configuration
	var simConfig *config.SimConfig

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", *configPath,
		)
		simConfig = config.DefaultConfig()
	} else {
		var err error
		simConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
	}

	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "Failed to load environment configuration", err)
		os.Exit(1)
	}

	sim := engine.NewSim(simConfig, envConfig)
	if err := sim.Initialize(); err != nil {
		logger.Error(ctx, "Failed to initialize simulation", err)
		os.Exit(1)
	}

	renderer := render.NewNullRenderer()

	if _, err := sim.Waves.StartNextWave(); err != nil {
		logger.Error(ctx, "Failed to start first wave", err)
		os.Exit(1)
	}

	// Handle shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var ticker *time.Ticker
	if *realtime {
		ticker = time.NewTicker(time.Duration(simConfig.TimeStep * float64(time.Second)))
		defer ticker.Stop()
	}

	logger.Info(ctx, "Simulation started",
		"frames", *frames,
		"realtime", *realtime,
	)

	running := true
	for running {
		select {
		case sig := <-sigChan:
			logger.Info(ctx, "Received shutdown signal", "signal", sig.String())
			running = false
			continue
		default:
		}

		if ticker != nil {
			<-ticker.C
		}

		sim.Tick()

		snapshot := sim.Snapshot()
		renderer.Clear()
		renderer.RenderSnapshot(snapshot)
		renderer.Present()

		// Roll straight into the next wave once this one is depleted.
		if !sim.Waves.CurrentStatus().WaveActive {
			if _, err := sim.Waves.StartNextWave(); err != nil {
				logger.Error(ctx, "Failed to start next wave", err)
				running = false
			}
		}

		if *frames > 0 && sim.Frame() >= uint64(*frames) {
			running = false
		}
	}

	if err := sim.Shutdown(); err != nil {
		logger.Error(ctx, "Shutdown reported an error", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Simulation stopped",
		"frames_run", sim.Frame(),
		"sim_time", sim.Now(),
	)
}
