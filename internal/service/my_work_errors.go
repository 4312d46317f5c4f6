package service

import (
	"errors"
	"fmt"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/utils"
)

var (
	// ErrInvalidQuery 查询参数不合法，在访问任何数据源之前返回
	ErrInvalidQuery = errors.New("invalid work queue query")
	// ErrWorkQueueUnavailable 任一数据源失败时整个请求失败，不返回残缺的队列
	ErrWorkQueueUnavailable = errors.New("unable to load work queue")
	// ErrTerminalStateLeak 数据源返回了终态记录
	ErrTerminalStateLeak = errors.New("source returned record in terminal status")
)

// invalidQuery 包装验证错误，同时满足 errors.Is(ErrInvalidQuery) 和 errors.As(*utils.ValidationError)
func invalidQuery(code, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidQuery, utils.NewValidationError(code, message))
}
