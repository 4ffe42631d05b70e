package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"DelayInsight/src/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel 定义日志级别类型
type LogLevel int

// 日志级别常量定义
const (
	DEBUG   LogLevel = iota // 调试信息
	INFO                    // 普通信息
	WARNING                 // 警告信息
	ERROR                   // 错误信息
	FATAL                   // 致命错误
)

// Logger 日志记录器，写 JSON 行到日志文件，WARNING 以上同时输出到控制台
type Logger struct {
	mu       sync.Mutex
	filename string
	file     *os.File
	console  io.Writer
	level    zap.AtomicLevel
	core     zapcore.Core
	fields   []zap.Field
}

// NewLogger 创建新的日志记录器，目录不存在时自动创建
func NewLogger(filename string) (*Logger, error) {
	return newLogger(filename, os.Stderr)
}

func newLogger(filename string, console io.Writer) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return nil, fmt.Errorf("创建日志目录失败: %w", err)
	}
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	l := &Logger{
		filename: filename,
		file:     file,
		console:  console,
		level:    zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}
	l.core = l.buildCore()
	return l, nil
}

func (l *Logger) buildCore() zapcore.Core {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(l.file), l.level),
	}
	if l.console != nil {
		consoleEnc := enc
		consoleEnc.EncodeLevel = zapcore.CapitalLevelEncoder
		warn := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.WarnLevel && l.level.Enabled(lvl)
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEnc), zapcore.Lock(zapcore.AddSync(l.console)), warn))
	}
	return zapcore.NewTee(cores...)
}

// SetLevel 设置最低输出级别，如 debug、info、warning
func (l *Logger) SetLevel(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	l.level.SetLevel(lvl.zapLevel())
	return nil
}

// AddFields 为之后的每条日志附加字段，例如本次运行的 run_id
func (l *Logger) AddFields(fields ...zap.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fields = append(l.fields, fields...)
}

// Close 关闭
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	_ = l.core.Sync()
	err := l.file.Close()
	l.file = nil
	return err
}

// Log 记录日志方法
// 参数:
//
//	level: 日志级别
//	message: 日志消息内容
//	fields: 结构化字段
func (l *Logger) Log(level LogLevel, message string, fields ...zap.Field) {
	l.mu.Lock()         // 加锁保证线程安全
	defer l.mu.Unlock() // 方法结束时自动解锁

	if l.file == nil {
		return
	}
	ent := zapcore.Entry{Level: level.zapLevel(), Time: time.Now(), Message: message}
	if ce := l.core.Check(ent, nil); ce != nil {
		all := make([]zap.Field, 0, len(l.fields)+len(fields))
		all = append(all, l.fields...)
		ce.Write(append(all, fields...)...)
	}
}

// CheckRotate 日志文件超过 log_max_size 时轮转
func (l *Logger) CheckRotate(cfg *config.Config) error {
	maxSize, err := eval(cfg.LogMaxSize)
	if err != nil {
		return fmt.Errorf("log_max_size: %w", err)
	}
	if maxSize <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() > maxSize {
		return l.rotateLog()
	}
	return nil
}

// rotateLog 把当前文件改名为 name.时间戳.ext，再打开新文件，调用方持有锁
func (l *Logger) rotateLog() error {
	_ = l.core.Sync()
	if err := l.file.Close(); err != nil {
		return err
	}

	ext := filepath.Ext(l.filename)
	rotated := fmt.Sprintf("%s.%s%s", strings.TrimSuffix(l.filename, ext), time.Now().Format("20060102150405.000"), ext)
	if err := os.Rename(l.filename, rotated); err != nil {
		return fmt.Errorf("日志轮转失败: %w", err)
	}

	file, err := os.OpenFile(l.filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		l.file = nil
		return err
	}
	l.file = file
	l.core = l.buildCore()
	return nil
}

// String 实现LogLevel的String方法
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARNING:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	case FATAL:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLogLevel 解析配置中的级别，空字符串为 INFO
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "", "info":
		return INFO, nil
	case "warn", "warning":
		return WARNING, nil
	case "error":
		return ERROR, nil
	case "fatal":
		return FATAL, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

// eval 计算 "10 * 1024 * 1024" 这样的乘法表达式
func eval(expr string) (int64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, nil
	}
	var result int64 = 1
	for _, part := range strings.Split(expr, "*") {
		num, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size expression %q: %w", expr, err)
		}
		result *= num
	}
	return result, nil
}

// 以下是快捷日志方法
func (l *Logger) Debug(msg string, fields ...zap.Field)   { l.Log(DEBUG, msg, fields...) }   // 记录调试信息
func (l *Logger) Info(msg string, fields ...zap.Field)    { l.Log(INFO, msg, fields...) }    // 记录普通信息
func (l *Logger) Warning(msg string, fields ...zap.Field) { l.Log(WARNING, msg, fields...) } // 记录警告信息
func (l *Logger) Error(msg string, fields ...zap.Field)   { l.Log(ERROR, msg, fields...) }   // 记录错误信息
func (l *Logger) Fatal(msg string, fields ...zap.Field)   { l.Log(FATAL, msg, fields...) }   // 记录致命错误
