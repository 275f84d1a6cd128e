package logger

import (
	"go.uber.org/zap"

	"github.com/bilimtest/bilimtest-server/internal/config"
)

func New(cfg config.Config) (*zap.Logger, error) {
	if cfg.Mode == config.ModeProd {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
