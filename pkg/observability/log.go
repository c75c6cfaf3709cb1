package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline, cache and server events to a logger at debug
// level. The CLI installs the pipeline and cache hooks when --verbose is set
// and the server hooks whenever it serves the viewer.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that write to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnLoadStart(_ context.Context, source string) {
	h.Logger.Debug("load started", "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("load failed", "source", source, "error", err)
		return
	}
	h.Logger.Debug("load finished", "source", source, "nodes", nodeCount, "duration", d)
}

func (h *LogHooks) OnFilter(_ context.Context, minWeight float64, removed, remaining int) {
	h.Logger.Debug("filtered nodes", "min_weight", minWeight, "removed", removed, "remaining", remaining)
}

func (h *LogHooks) OnSelect(_ context.Context, policy string, considered, retained int, d time.Duration) {
	h.Logger.Debug("selected edges", "policy", policy, "considered", considered, "retained", retained, "duration", d)
}

func (h *LogHooks) OnColor(_ context.Context, mode string, d time.Duration, err error) {
	h.Logger.Debug("colored nodes", "mode", mode, "duration", d, "error", err)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render finished", "formats", formats, "duration", d, "error", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request started", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if status >= 500 {
		h.Logger.Warn("request", "method", method, "path", path, "status", status, "duration", d)
		return
	}
	h.Logger.Debug("request", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
