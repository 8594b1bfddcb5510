package handlers

import (
	"time"

	"github.com/Freeeeeet/mosque_display/internal/display"
	"github.com/Freeeeeet/mosque_display/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит всё, что нужно командам бота
type Handlers struct {
	prayers  *service.PrayerService
	info     display.Info
	controls display.Controls
	adminID  int64
	now      func() time.Time
	logger   *zap.Logger
}

// NewHandlers создаёт обработчики команд. Команды оператора принимаются только
// из adminChatID; ноль их отключает. controls может быть nil, если экран не локальный.
func NewHandlers(
	prayers *service.PrayerService,
	info display.Info,
	controls display.Controls,
	adminChatID int64,
	now func() time.Time,
	logger *zap.Logger,
) *Handlers {
	if now == nil {
		now = time.Now
	}
	return &Handlers{
		prayers:  prayers,
		info:     info,
		controls: controls,
		adminID:  adminChatID,
		now:      now,
		logger:   logger,
	}
}
