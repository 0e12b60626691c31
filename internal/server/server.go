package server

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/falstudio/falkey/internal/falapi"
	"github.com/falstudio/falkey/internal/host"
	"github.com/falstudio/falkey/internal/logging"
)

var logger = logging.Component("server")

// Server exposes the key endpoints the frontend pushes to. It is the
// counterpart of falapi.Client: the same wire types, received instead
// of sent.
type Server struct {
	state     *KeyState
	bus       *host.Bus
	engine    *gin.Engine
	stop      chan struct{}
	closeOnce sync.Once
}

// New builds the server around the given key state. The bus, when not
// nil, gets a fal-key-status event after every accepted push.
func New(state *KeyState, bus *host.Bus) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		state: state,
		bus:   bus,
		stop:  make(chan struct{}),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(logger))
	engine.Use(RateLimit(rate.Limit(20), 40, s.stop))

	engine.POST(falapi.SetKeyPath, s.setKey)
	engine.GET(falapi.ActiveKeyInfoPath, s.activeKeyInfo)

	s.engine = engine
	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Close releases the server's background resources. Idempotent; Run calls
// it on exit, callers that never Run must call it themselves.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.stop) })
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	defer s.Close()

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	logger.Infof("listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// setKey receives a key + name pushed from the frontend and swaps the
// runtime state.
func (s *Server) setKey(c *gin.Context) {
	var req falapi.SetKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := strings.TrimSpace(req.Key)
	name := strings.TrimSpace(req.Name)
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No key provided"})
		return
	}

	s.state.SetKey(key, name)
	logger.Infof("active key switched to %q", s.state.ActiveKeyName())

	if s.bus != nil {
		s.bus.Publish(host.KeyStatusEvent, host.KeyStatus{ActiveKeyName: s.state.ActiveKeyName()})
	}

	c.JSON(http.StatusOK, falapi.SetKeyResponse{
		Status:        "ok",
		ActiveKeyName: s.state.ActiveKeyName(),
	})
}

// activeKeyInfo reports the display name of the active key, never the
// key itself.
func (s *Server) activeKeyInfo(c *gin.Context) {
	c.JSON(http.StatusOK, falapi.ActiveKeyInfo{ActiveKeyName: s.state.ActiveKeyName()})
}
