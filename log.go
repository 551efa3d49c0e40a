package s2d

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig selects the level and encoding of the engine logger.
type LogConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn, error
	Encoding string `yaml:"encoding"` // console or json
}

// NewLogger builds a zap logger writing to stderr.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "console"
	}

	encCfg := zap.NewProductionEncoderConfig()
	if encoding == "console" {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = ""

	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "s2d: build logger")
	}
	return logger.Named("s2d"), nil
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return zap.InfoLevel, nil
	case "debug":
		return zap.DebugLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	}
	return zap.InfoLevel, errors.Errorf("s2d: unknown log level %q", s)
}

// entityField tags a log entry with the entity it concerns.
func entityField(e *Entity) zap.Field {
	if e == nil {
		return zap.String("entity", "<root>")
	}
	return zap.String("entity", e.name)
}

// componentField tags a log entry with a component's dynamic type.
func componentField(c any) zap.Field {
	return zap.String("component", typeName(c))
}
