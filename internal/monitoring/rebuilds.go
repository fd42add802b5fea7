package monitoring

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/events"
)

// RebuildMonitor tracks legend rebuild cost from the event bus and reports it
// periodically.
type RebuildMonitor struct {
	mu            sync.RWMutex
	rebuilds      int
	last          time.Duration
	peak          time.Duration
	total         time.Duration
	skipped       int
	perMode       map[string]int
	checkInterval time.Duration
	slowThreshold time.Duration
	lastAlert     time.Time
	alertCooldown time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
	logger        zerolog.Logger
}

// NewRebuildMonitor creates a monitor reporting every interval.
func NewRebuildMonitor(interval time.Duration, logger zerolog.Logger) *RebuildMonitor {
	return &RebuildMonitor{
		perMode:       make(map[string]int),
		checkInterval: interval,
		slowThreshold: 50 * time.Millisecond,
		alertCooldown: time.Minute,
		stopChan:      make(chan struct{}),
		logger:        logger.With().Str("component", "rebuild_monitor").Logger(),
	}
}

func (rm *RebuildMonitor) ID() string { return "rebuild_monitor" }

func (rm *RebuildMonitor) InterestedIn(eventType string) bool {
	return eventType == events.TypeLegendRebuilt
}

func (rm *RebuildMonitor) HandleEvent(event events.Event) {
	e, ok := event.(*events.LegendRebuiltEvent)
	if !ok {
		return
	}

	rm.mu.Lock()
	rm.rebuilds++
	rm.last = e.Duration
	rm.total += e.Duration
	rm.skipped += e.Skipped
	rm.perMode[e.Mode.String()]++
	if e.Duration > rm.peak {
		rm.peak = e.Duration
	}

	shouldAlert := e.Duration > rm.slowThreshold &&
		time.Since(rm.lastAlert) > rm.alertCooldown
	if shouldAlert {
		rm.lastAlert = time.Now()
	}
	rm.mu.Unlock()

	if shouldAlert {
		rm.logger.Warn().
			Dur("duration", e.Duration).
			Dur("threshold", rm.slowThreshold).
			Int("cells", e.Cells).
			Str("mode", e.Mode.String()).
			Msg("Slow legend rebuild")
	}
}

// Start begins periodic reporting.
func (rm *RebuildMonitor) Start() {
	go rm.monitor()
	rm.logger.Info().
		Dur("interval", rm.checkInterval).
		Msg("Started rebuild monitoring")
}

// Stop stops the monitor. It is safe to call more than once.
func (rm *RebuildMonitor) Stop() {
	rm.stopOnce.Do(func() { close(rm.stopChan) })
}

func (rm *RebuildMonitor) monitor() {
	ticker := time.NewTicker(rm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rm.report()
		case <-rm.stopChan:
			return
		}
	}
}

func (rm *RebuildMonitor) report() {
	m := rm.GetMetrics()
	rm.logger.Debug().
		Int("rebuilds", m.Rebuilds).
		Dur("last", m.Last).
		Dur("peak", m.Peak).
		Dur("mean", m.Mean).
		Int("skipped", m.Skipped).
		Msg("Rebuild metrics")
}

// GetMetrics returns the current rebuild metrics.
func (rm *RebuildMonitor) GetMetrics() RebuildMetrics {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	var mean time.Duration
	if rm.rebuilds > 0 {
		mean = rm.total / time.Duration(rm.rebuilds)
	}
	return RebuildMetrics{
		Rebuilds: rm.rebuilds,
		Last:     rm.last,
		Peak:     rm.peak,
		Mean:     mean,
		Skipped:  rm.skipped,
		PerMode:  copyMap(rm.perMode),
	}
}

// RebuildMetrics contains rebuild statistics
type RebuildMetrics struct {
	Rebuilds int            `json:"rebuilds"`
	Last     time.Duration  `json:"last"`
	Peak     time.Duration  `json:"peak"`
	Mean     time.Duration  `json:"mean"`
	Skipped  int            `json:"skipped"`
	PerMode  map[string]int `json:"per_mode"`
}

func copyMap(m map[string]int) map[string]int {
	result := make(map[string]int, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
