// SPDX-License-Identifier: Apache-2.0

package http

import (
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/service"
)

type Handler struct {
	services *service.Services

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}
