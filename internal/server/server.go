// Package server exposes an engine-vs-engine match over HTTP.
package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/config"
	"github.com/hailam/chessduel/internal/match"
	"github.com/hailam/chessduel/internal/render"
	"github.com/hailam/chessduel/internal/storage"
)

// Server serves a single match. Requests are serialized with a mutex;
// a move request blocks other requests for the duration of the search.
type Server struct {
	mu       sync.Mutex
	cfg      *config.Config
	store    *storage.Storage // Optional
	logger   zerolog.Logger
	match    *match.Match
	recorded bool
}

// New creates a server playing a match from cfg.StartFEN.
// store may be nil, in which case finished games are not recorded.
func New(cfg *config.Config, store *storage.Storage, logger zerolog.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
	if err := s.reset(cfg.StartFEN); err != nil {
		return nil, err
	}
	return s, nil
}

// reset starts a new match; the caller holds mu or has exclusive access.
func (s *Server) reset(fen string) error {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}

	white, err := s.cfg.NewEngine(pos, chess.White, s.logger)
	if err != nil {
		return err
	}
	black, err := s.cfg.NewEngine(pos, chess.Black, s.logger)
	if err != nil {
		return err
	}

	m, err := match.New(pos, white, black)
	if err != nil {
		return err
	}

	s.match = m
	s.recorded = false
	return nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.GET("/", s.index)
	r.GET("/state", s.state)
	r.GET("/move", s.move)
	r.POST("/move", s.move)
	r.GET("/board.svg", s.boardSVG)
	r.GET("/board.png", s.boardPNG)
	r.GET("/stats", s.stats)
	r.POST("/reset", s.resetHandler)

	return r
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

// position fields shared by /state and /move; the caller holds mu.
func (s *Server) positionJSON() gin.H {
	pos := s.match.Position()
	return gin.H{
		"fen":    pos.ToFEN(),
		"done":   s.match.Done(),
		"turn":   pos.SideToMove().Name(),
		"ply":    pos.Ply(),
		"result": s.match.Result(),
	}
}

func (s *Server) state(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, s.positionJSON())
}

func (s *Server) move(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match.Done() {
		c.JSON(http.StatusOK, gin.H{"fen": s.match.Position().ToFEN(), "done": true, "result": s.match.Result()})
		return
	}

	step := s.match.Step()

	resp := s.positionJSON()
	resp["side"] = step.Side.Name()
	resp["move"] = nil
	if step.Move != nil {
		resp["move"] = step.Move.String()
	}
	resp["duration_ms"] = step.Duration.Milliseconds()

	if step.Done {
		s.logger.Info().Msgf("Game over: %s (%s)", s.match.Description(), s.match.Result())
		s.record()
	}

	c.JSON(http.StatusOK, resp)
}

// record saves a finished match once; the caller holds mu.
func (s *Server) record() {
	if s.store == nil || s.recorded {
		return
	}
	r := s.match.Record()
	r.White.Settings = s.cfg.White.Settings()
	r.Black.Settings = s.cfg.Black.Settings()
	if err := s.store.SaveMatch(r); err != nil {
		s.logger.Error().Err(err).Msg("Failed to record match")
		return
	}
	s.recorded = true
}

func (s *Server) boardSVG(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := render.SVG(&buf, s.match.Position()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) boardPNG(c *gin.Context) {
	size := s.cfg.Server.BoardSize
	if v, ok := c.GetQuery("size"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid size %q", v)})
			return
		}
		size = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := render.PNG(&buf, s.match.Position(), size, s.caption()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// caption describes the game state; the caller holds mu.
func (s *Server) caption() string {
	if s.match.Done() {
		return s.match.Description()
	}
	return s.match.Position().SideToMove().Name() + " to move"
}

func (s *Server) stats(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	side := func(color chess.Color) gin.H {
		e, t := s.match.Engine(color), s.match.Timing(color)
		return gin.H{
			"algorithm":         e.Algorithm(),
			"settings":          s.cfg.Player(color).Settings(),
			"moves":             t.Moves,
			"moves_analyzed":    e.MovesAnalyzed(),
			"average_move_time": t.Average().String(),
		}
	}

	resp := gin.H{
		"white": side(chess.White),
		"black": side(chess.Black),
	}
	if s.store != nil {
		history, err := s.store.LoadStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp["history"] = history
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) resetHandler(c *gin.Context) {
	fen := c.DefaultQuery("fen", s.cfg.StartFEN)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reset(fen); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.logger.Info().Msgf("New game from %s", fen)
	c.JSON(http.StatusOK, s.positionJSON())
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>chessduel</title></head>
<body style="font-family: sans-serif; text-align: center">
<img id="board" src="/board.svg" width="480" height="480" alt="board">
<p id="status"></p>
<button onclick="fetch('/reset', {method: 'POST'}).then(tick)">New game</button>
<script>
function tick() {
  fetch('/move', {method: 'POST'}).then(r => r.json()).then(s => {
    document.getElementById('board').src = '/board.svg?' + Date.now();
    document.getElementById('status').textContent = s.done ? 'Game over: ' + s.result : (s.move || '');
    if (!s.done) setTimeout(tick, 200);
  });
}
tick();
</script>
</body>
</html>
`
