package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "delayinsight"

// Metrics 一次批处理的指标，写入 node_exporter 的 textfile 目录
type Metrics struct {
	registry *prometheus.Registry

	RowsLoaded   prometheus.Counter
	RowsRejected *prometheus.CounterVec // field
	BinDropped   *prometheus.CounterVec // cause
	RunDuration  prometheus.Gauge
	LastRun      prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Flight records accepted by the loader.",
		}),
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_rejected_total",
			Help:      "Rows rejected by the loader, by offending field.",
		}, []string{"field"}),
		BinDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bin_values_dropped_total",
			Help:      "Delay values outside every bin of their cause.",
		}, []string{"cause"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
	m.registry.MustRegister(m.RowsLoaded, m.RowsRejected, m.BinDropped, m.RunDuration, m.LastRun)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Finish 记录运行耗时和结束时间
func (m *Metrics) Finish(start time.Time) {
	now := time.Now()
	m.RunDuration.Set(now.Sub(start).Seconds())
	m.LastRun.Set(float64(now.Unix()))
}

// WriteTextfile 原子写入指标文件
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建指标目录失败: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("写入指标文件失败: %w", err)
	}
	return nil
}
