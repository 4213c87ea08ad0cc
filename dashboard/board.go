// Package dashboard serves a read-only view of a running experiment over HTTP.
package dashboard

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zeu5/pacman-rl/logging"
	"github.com/zeu5/pacman-rl/types"
)

// Board keeps the most recent episode results of an experiment and
// serves them. It is an experiment Observer.
type Board struct {
	Addr   string
	ctx    context.Context
	server *http.Server
	router *gin.Engine

	lock     *sync.Mutex
	keep     int
	window   int
	total    int
	episodes []types.EpisodeResult
	all      []types.EpisodeResult
	started  time.Time
}

var _ types.Observer = &Board{}

// NewBoard holds up to keep episodes for /episodes. Summaries use the
// last window episodes for the recent mean.
func NewBoard(ctx context.Context, addr string, keep, window int) *Board {
	if keep < 1 {
		keep = 1
	}
	b := &Board{
		Addr:     addr,
		ctx:      ctx,
		lock:     new(sync.Mutex),
		keep:     keep,
		window:   window,
		episodes: make([]types.EpisodeResult, 0, keep),
		all:      make([]types.EpisodeResult, 0),
		started:  time.Now(),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/healthz", healthHandler)
	r.GET("/stats", b.handleStats)
	r.GET("/episodes", b.handleEpisodes)
	b.router = r
	b.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return b
}

func (b *Board) Handler() http.Handler {
	return b.router
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (b *Board) Observe(result types.EpisodeResult) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.total++
	b.all = append(b.all, result)
	if len(b.episodes) == b.keep {
		b.episodes = append(b.episodes[:0], b.episodes[1:]...)
	}
	b.episodes = append(b.episodes, result)
}

// Snapshot copies the held episodes, oldest first.
func (b *Board) Snapshot() []types.EpisodeResult {
	b.lock.Lock()
	defer b.lock.Unlock()
	out := make([]types.EpisodeResult, len(b.episodes))
	copy(out, b.episodes)
	return out
}

func (b *Board) handleStats(c *gin.Context) {
	b.lock.Lock()
	summary := types.Summarize(b.all, b.window)
	total := b.total
	b.lock.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"episodes": total,
		"uptime_s": time.Since(b.started).Seconds(),
		"summary":  summary,
	})
}

func (b *Board) handleEpisodes(c *gin.Context) {
	limit := b.keep
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	episodes := b.Snapshot()
	if limit < len(episodes) {
		episodes = episodes[len(episodes)-limit:]
	}
	c.JSON(http.StatusOK, gin.H{"episodes": episodes})
}

// Start serves until the board's context is cancelled.
func (b *Board) Start() {
	go func() {
		if err := b.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error().Add(logging.Component("dashboard")).Add(logging.ErrorField(err)).Msg("server stopped")
		}
	}()

	go func() {
		<-b.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		b.server.Shutdown(ctx)
	}()
	logging.Info().Add(logging.Component("dashboard")).Add(logging.Str("addr", b.Addr)).Msg("dashboard listening")
}
