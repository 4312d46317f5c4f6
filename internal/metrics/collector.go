package metrics

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Collector 定期采集连接池指标
type Collector struct {
	db       *gorm.DB
	interval time.Duration
	logger   logrus.FieldLogger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewCollector 创建指标收集器
func NewCollector(db *gorm.DB, interval time.Duration, logger logrus.FieldLogger) *Collector {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Collector{
		db:       db,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start 启动采集，立即采集一次
func (c *Collector) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	go c.collect(ctx)
}

// Stop 停止采集并等待退出
func (c *Collector) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
}

func (c *Collector) collect(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.done)

	c.update()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.update()
		}
	}
}

func (c *Collector) update() {
	if err := UpdateDatabaseConnections(c.db); err != nil {
		c.logger.WithError(err).Debug("failed to collect database connection metrics")
	}
}
