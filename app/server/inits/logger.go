package inits

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Logger 开发环境使用可读格式，生产环境使用 JSON 格式；
// logFile 不为空时同时写入文件，轮转交给外部处理
func Logger(debugMode bool, logFile string) (l *zap.Logger, err error) {
	var cfg zap.Config
	if debugMode {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if logFile != "" {
		if dir := filepath.Dir(logFile); dir != "" {
			if err = os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		cfg.OutputPaths = append(cfg.OutputPaths, logFile)
	}

	if l, err = cfg.Build(); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return l, nil
}
