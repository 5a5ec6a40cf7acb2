package logger

import (
	"adaptive_edu_backend/internal/config"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 在 InitLogger 之前为 Nop，测试与脚本可直接使用
var Log = zap.NewNop()

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// ResolveLevel 显式的 log.level 优先；无法解析或为空时 debug 模式用 Debug，其余 Info
func ResolveLevel(cfg *config.Config) zapcore.Level {
	if cfg.Log.Level != "" {
		if lvl, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
			return lvl
		}
	}
	if cfg.Server.Mode == "debug" {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// NewCore 按配置组合文件（JSON + lumberjack 轮转）与控制台输出
func NewCore(cfg *config.Config, console zapcore.WriteSyncer) zapcore.Core {
	level := ResolveLevel(cfg)
	enc := encoderConfig()

	var cores []zapcore.Core
	if cfg.Log.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), fileWriter, level))
	}
	if cfg.Log.Console && console != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), console, level))
	}
	if len(cores) == 0 {
		return zapcore.NewNopCore()
	}
	return zapcore.NewTee(cores...)
}

func InitLogger(cfg *config.Config) {
	Log = zap.New(NewCore(cfg, zapcore.AddSync(os.Stdout)), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)).
		With(zap.String("service", "adaptive-edu"), zap.String("mode", cfg.Server.Mode))
}
