package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bibnet/pkg/observability"
)

// logHooks reports pipeline and cache events as debug log lines.
type logHooks struct {
	observability.NoopPipelineHooks
	logger *log.Logger
}

func (h *logHooks) OnBuildComplete(_ context.Context, kind string, vertices, edges int, dur time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "kind", kind, "err", err)
		return
	}
	h.logger.Debug("build complete", "kind", kind, "vertices", vertices, "edges", edges, "duration", dur.Round(time.Millisecond))
}

func (h *logHooks) OnSampleComplete(_ context.Context, strategy, statistic string, samples int, dur time.Duration, err error) {
	if err != nil {
		h.logger.Debug("sampling failed", "strategy", strategy, "statistic", statistic, "err", err)
		return
	}
	h.logger.Debug("sampling complete", "strategy", strategy, "statistic", statistic, "samples", samples, "duration", dur.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
)
