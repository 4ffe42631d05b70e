package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"DelayInsight/src/config"
	"DelayInsight/src/datapush"
	"DelayInsight/src/datasource/file"
	"DelayInsight/src/model"
	"DelayInsight/src/processor"
	"DelayInsight/src/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	jsonFile       = "config.json"
	dataJsonFile   = "dataconfig.json"
	defaultLogName = "log/delayinsight.log"
)

type options struct {
	configDir string
	input     string
	sheet     string
	output    string
	metrics   string
	strict    bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("delayinsight", flag.ContinueOnError)
	fs.StringVar(&opts.configDir, "config", "./config", "directory holding config.json and dataconfig.json")
	fs.StringVar(&opts.input, "input", "", "flight data file (.csv or .xlsx), overrides config")
	fs.StringVar(&opts.sheet, "sheet", "", "worksheet to read from an .xlsx input")
	fs.StringVar(&opts.output, "out", "", "workbook to write, overrides config")
	fs.StringVar(&opts.metrics, "metrics", "", "Prometheus textfile to write, overrides config")
	fs.BoolVar(&opts.strict, "strict", false, "abort on the first invalid row")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// apply 命令行参数优先于环境变量和配置文件
func (o options) apply(cfg *config.Config) {
	if o.input != "" {
		cfg.Input = o.input
	}
	if o.sheet != "" {
		cfg.SheetName = o.sheet
	}
	if o.output != "" {
		cfg.Output = o.output
	}
	if o.metrics != "" {
		cfg.MetricsFile = o.metrics
	}
	if o.strict {
		cfg.Strict = true
	}
	if cfg.LogName == "" {
		cfg.LogName = defaultLogName
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		log.Fatal(err)
	}
	if err := run(opts, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(opts options, stdout io.Writer) error {
	start := time.Now()

	cfg, dcfg, err := config.LoadConfig(opts.configDir, jsonFile, dataJsonFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	opts.apply(cfg)
	if cfg.Input == "" {
		return fmt.Errorf("no input file: set -input, %s or input in %s", config.EnvInput, jsonFile)
	}
	if cfg.Output == "" {
		return fmt.Errorf("no output file: set -out, %s or output in %s", config.EnvOutput, jsonFile)
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Close()
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger.AddFields(zap.String("run_id", runID))
	logger.Info("run started", zap.String("input", cfg.Input), zap.Bool("strict", cfg.Strict))

	if err := process(cfg, dcfg, logger, runID, start, stdout); err != nil {
		logger.Fatal(err.Error())
		return err
	}
	if err := logger.CheckRotate(cfg); err != nil {
		logger.Error("日志轮转失败", zap.Error(err))
	}
	return nil
}

func process(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger, runID string, start time.Time, stdout io.Writer) error {
	metrics := storage.NewMetrics()

	codes, err := dcfg.Codes()
	if err != nil {
		return err
	}
	bins, err := dcfg.BinSets()
	if err != nil {
		return err
	}

	// 1. 读取数据
	df, err := file.Load(cfg.Input, cfg.SheetName)
	if err != nil {
		return err
	}
	res, err := file.ToRecords(df, columnsFrom(dcfg), codes, cfg.Strict)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Input, err)
	}

	rejectedByField := make(map[string]int)
	for _, r := range res.Rejected {
		rejectedByField[r.Field]++
		metrics.RowsRejected.WithLabelValues(r.Field).Inc()
		logger.Debug("row rejected", zap.Int("row", r.Row), zap.String("field", r.Field), zap.String("reason", r.Reason))
	}
	metrics.RowsLoaded.Add(float64(len(res.Records)))
	if len(res.Rejected) > 0 {
		logger.Warning(fmt.Sprintf("%d rows rejected", len(res.Rejected)), zap.Any("by_field", rejectedByField))
	}
	logger.Info("records loaded", zap.Int("records", len(res.Records)))

	// 2. 统计
	rep, err := processor.Analyze(res.Records, bins)
	if err != nil {
		return err
	}
	dropped := rep.Dropped()
	for _, c := range model.DelayCauses {
		metrics.BinDropped.WithLabelValues(string(c)).Add(float64(dropped[c]))
		if dropped[c] > 0 {
			logger.Warning("delay values outside bins", zap.String("cause", string(c)), zap.Int("dropped", dropped[c]))
		}
	}

	// 3. 输出
	run := datapush.RunInfo{
		ID:              runID,
		Input:           cfg.Input,
		Started:         start,
		Records:         len(res.Records),
		Rejected:        len(res.Rejected),
		RejectedByField: rejectedByField,
		Dropped:         dropped,
	}
	if err := datapush.ExportWorkbook(cfg.Output, rep.Tables(), run); err != nil {
		return err
	}
	logger.Info("workbook written", zap.String("output", cfg.Output))
	if err := datapush.PrintSummary(stdout, rep, run); err != nil {
		return err
	}

	metrics.Finish(start)
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
	}
	logger.Info("run finished", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// columnsFrom flightData 中没有配置的字段使用默认列名
func columnsFrom(dcfg *config.DataConfig) file.Columns {
	cols := file.DefaultColumns()
	set := func(field string, dst *string) {
		if v := dcfg.GetFlightData(field); v != "" {
			*dst = v
		}
	}
	set("year", &cols.Year)
	set("month", &cols.Month)
	set("day_of_month", &cols.DayOfMonth)
	set("day_of_week", &cols.DayOfWeek)
	set("cancelled", &cols.Cancelled)
	set("cancellation_code", &cols.CancellationCode)
	for _, c := range model.DelayCauses {
		if v := dcfg.GetFlightData(string(c)); v != "" {
			cols.Delays[c] = v
		}
	}
	return cols
}
