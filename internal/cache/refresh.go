package cache

import (
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"shschool-data/internal/logger"
)

// Schedule drops the targets' cached state on every tick of spec. The next
// read reloads from the source.
func Schedule(c *cron.Cron, spec string, log *zap.Logger, targets ...Invalidator) (cron.EntryID, error) {
	log = logger.OrNop(log)
	id, err := c.AddFunc(spec, func() {
		for _, t := range targets {
			t.Invalidate()
		}
		log.Info("mapping caches invalidated", zap.Int("targets", len(targets)))
	})
	if err != nil {
		return 0, errors.Wrapf(err, "schedule cache refresh %q", spec)
	}
	return id, nil
}
