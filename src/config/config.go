package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"DelayInsight/src/model"
	"DelayInsight/src/processor"

	"github.com/joho/godotenv"
)

// 环境变量，优先级高于配置文件
const (
	EnvInput       = "DELAY_INPUT"
	EnvSheet       = "DELAY_SHEET"
	EnvOutput      = "DELAY_OUTPUT"
	EnvMetricsFile = "DELAY_METRICS_FILE"
	EnvStrict      = "DELAY_STRICT"
	EnvLogLevel    = "LOG_LEVEL"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	Input       string `json:"input"`        // 航班数据文件，CSV 或 XLSX
	SheetName   string `json:"sheet_name"`   // XLSX 工作表
	Output      string `json:"output"`       // 导出的报表
	MetricsFile string `json:"metrics_file"` // Prometheus textfile，为空时不写
	Strict      bool   `json:"strict"`
	LogName     string `json:"log_name"`
	LogLevel    string `json:"log_level"`
	LogMaxSize  string `json:"log_max_size"`
}

// BinConfig 覆盖某个延误原因的分箱
type BinConfig struct {
	Edges  []float64 `json:"edges"`
	Labels []string  `json:"labels"`
}

type DataConfig struct {
	// 字段 -> 数据集列名，字段见 FlightFields
	FlightData map[string]string `json:"flightData"`
	// 取消编码 -> 原因
	CancellationCodes map[string]string `json:"cancellationCodes"`
	// 延误原因 -> 分箱
	Bins map[string]BinConfig `json:"bins"`
}

// FlightFields flightData 中可以配置的字段
var FlightFields = []string{
	"year", "month", "day_of_month", "day_of_week", "cancelled", "cancellation_code",
	string(model.CauseCarrier), string(model.CauseWeather), string(model.CauseNAS),
	string(model.CauseSecurity), string(model.CauseLateAircraft),
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	if err := loadDotEnv(filepath.Join(jsonFolder, ".env")); err != nil {
		return nil, nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, nil, err
	}
	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

// loadDotEnv 读取 .env，文件不存在时忽略。已经存在的环境变量不会被覆盖
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	for env, dst := range map[string]*string{
		EnvInput:       &c.Input,
		EnvSheet:       &c.SheetName,
		EnvOutput:      &c.Output,
		EnvMetricsFile: &c.MetricsFile,
		EnvLogLevel:    &c.LogLevel,
	} {
		if v, ok := os.LookupEnv(env); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := os.LookupEnv(EnvStrict); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrict, err)
		}
		c.Strict = b
	}
	return nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("解析Config失败: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	var dcfg DataConfig
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
		return
	}
	if dcfg.FlightData == nil {
		dcfg.FlightData = make(map[string]string)
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg  *Config
		dcfg *DataConfig
		errs []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, nil, combineErrors(errs)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	// 使用固定格式字符串
	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

func (dc *DataConfig) GetFlightData(field string) string {
	mu.RLock()
	defer mu.RUnlock()
	return dc.FlightData[field]
}

// Codes 取消编码表，没有配置时使用 A-D 的默认编码
func (dc *DataConfig) Codes() (map[string]model.CancellationCause, error) {
	mu.RLock()
	defer mu.RUnlock()
	if len(dc.CancellationCodes) == 0 {
		return model.DefaultCancellationCodes, nil
	}
	codes := make(map[string]model.CancellationCause, len(dc.CancellationCodes))
	for code, name := range dc.CancellationCodes {
		cause, err := model.ParseCancellationCause(name)
		if err != nil {
			return nil, fmt.Errorf("cancellation code %q: %w", code, err)
		}
		codes[code] = cause
	}
	return codes, nil
}

// BinSets 校验并返回配置中的分箱，未配置的原因由 processor 使用默认分箱
func (dc *DataConfig) BinSets() (map[model.Cause]processor.BinSet, error) {
	mu.RLock()
	defer mu.RUnlock()
	sets := make(map[model.Cause]processor.BinSet, len(dc.Bins))
	for name, b := range dc.Bins {
		cause, err := model.ParseCause(name)
		if err != nil {
			return nil, fmt.Errorf("bins: %w", err)
		}
		set := processor.BinSet{Edges: b.Edges, Labels: b.Labels}
		if err := set.Validate(); err != nil {
			return nil, fmt.Errorf("bins %s: %w", name, err)
		}
		sets[cause] = set
	}
	return sets, nil
}
