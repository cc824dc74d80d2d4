package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"landchain/config"
	"landchain/core"
	"landchain/core/events"
	nativecommon "landchain/native/common"
	"landchain/observability/logging"
	"landchain/storage"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("LAND_ENV"))
	logger := logging.Setup("landd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	clock, err := core.NewClock(db, cfg.BlocksPerRound)
	if err != nil {
		logger.Error("Failed to load chain clock", slog.Any("error", err))
		os.Exit(1)
	}

	service, err := buildEconomy(cfg, db, clock, logger)
	if err != nil {
		logger.Error("Failed to configure staking module", slog.Any("error", err))
		os.Exit(1)
	}

	interval, err := time.ParseDuration(cfg.BlockInterval)
	if err != nil {
		logger.Error("Failed to parse block interval", slog.Any("error", err))
		os.Exit(1)
	}

	go serveMetrics(cfg.MetricsAddress, logger)

	logger.Info("node started",
		slog.String("network", cfg.NetworkName),
		slog.Uint64("height", clock.CurrentBlockNumber()),
		slog.Uint64("round", clock.CurrentRound()),
		slog.String("block_interval", interval.String()))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			height, err := clock.Advance()
			if err != nil {
				logger.Error("Failed to advance chain height", slog.Any("error", err))
				continue
			}
			if err := service.OnBlockInitialize(); err != nil {
				logger.Error("Block initialisation failed",
					slog.Uint64("height", height), slog.Any("error", err))
			}
		case sig := <-stop:
			logger.Info("shutting down", slog.String("signal", sig.String()))
			return
		}
	}
}

func buildEconomy(cfg *config.Config, db storage.Database, clock *core.Clock, logger *slog.Logger) (*core.Economy, error) {
	service := core.NewEconomy(db)
	service.SetRounds(clock)
	service.SetBlocks(clock)
	service.SetEmitter(events.LogEmitter{Logger: logger})
	service.SetLogger(logger)
	service.SetPauses(nativecommon.PauseSet(cfg.Pauses.PauseSet()))

	params, err := cfg.Economy.Params()
	if err != nil {
		return nil, err
	}
	if err := service.SetParams(params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Economy.RewardPayoutAccount) != "" {
		payout, err := cfg.Economy.PayoutAccount()
		if err != nil {
			return nil, err
		}
		service.SetRewardPayoutAccount(payout)
	}

	reward, err := cfg.Economy.RewardPerEra()
	if err != nil {
		return nil, err
	}
	if reward.Sign() > 0 || cfg.Economy.EraFrequency > 0 {
		frequency := cfg.Economy.EraFrequency
		if err := service.UpdateEraConfig(nil, &frequency, reward); err != nil {
			return nil, err
		}
	}
	return service, nil
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server stopped", slog.Any("error", err))
	}
}
