package economy

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type economyMetrics struct {
	operations *prometheus.CounterVec
	totalStake *prometheus.GaugeVec
}

var (
	metricsOnce     sync.Once
	metricsRegistry *economyMetrics
)

// metrics returns the lazily-initialised prometheus collectors for economy
// operations.
func metrics() *economyMetrics {
	metricsOnce.Do(func() {
		metricsRegistry = &economyMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "land",
				Subsystem: "economy",
				Name:      "operations_total",
				Help:      "Total economy module operations segmented by operation and outcome.",
			}, []string{"operation", "outcome"}),
			totalStake: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "land",
				Subsystem: "economy",
				Name:      "total_stake",
				Help:      "Aggregate locked balance per staking ledger.",
			}, []string{"ledger"}),
		}
		prometheus.MustRegister(metricsRegistry.operations, metricsRegistry.totalStake)
	})
	return metricsRegistry
}

func observeOp(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics().operations.WithLabelValues(operation, outcome).Inc()
}

func setGauge(ledger string, total *big.Int) {
	if total == nil {
		return
	}
	value, _ := new(big.Float).SetInt(total).Float64()
	metrics().totalStake.WithLabelValues(ledger).Set(value)
}

func setTotalStakeGauge(total *big.Int) { setGauge("self", total) }

func setTotalEstateStakeGauge(total *big.Int) { setGauge("estate", total) }

func setTotalInnovationStakeGauge(total *big.Int) { setGauge("innovation", total) }
