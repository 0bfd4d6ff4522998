package httpinteractions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"

	"github.com/jose-valero/levels-bot/internal/infra/metrics"
)

const maxBody = 1 << 20

// Lo implementa discord.Router
type Processor interface {
	Complete(ctx context.Context, ic *discordgo.Interaction)
}

type Server struct {
	e        *echo.Echo
	verifier *Verifier
	decode   func(body []byte) (*discordgo.Interaction, error)
	proc     Processor
	log      *slog.Logger
	m        *metrics.Metrics

	// tareas de fondo en curso (Shutdown las espera); closed corta nuevos Add
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func New(log *slog.Logger, verifier *Verifier, proc Processor, m *metrics.Metrics) *Server {
	if log == nil {
		log = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(slogecho.New(log))
	e.Use(middleware.Recover())

	s := &Server{e: e, verifier: verifier, decode: Decode, proc: proc, log: log, m: m}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.e.POST("/interactions", s.handleInteraction)
	s.e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if s.m != nil {
		s.e.GET("/metrics", echo.WrapHandler(s.m.Handler()))
	}
}

// Handler para httptest.
func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Start(addr string) error {
	err := s.e.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown deja de aceptar requests y espera las tareas de fondo (o a que venza ctx).
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	err := s.e.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("shutdown: background tasks still running", "err", ctx.Err())
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

func (s *Server) handleInteraction(c echo.Context) error {
	req := c.Request()
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), req.Body, maxBody))
	_ = req.Body.Close()
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.m.Rejected("too_large")
			return c.String(http.StatusRequestEntityTooLarge, "request body too large")
		}
		s.m.Rejected("malformed")
		return c.String(http.StatusBadRequest, "unreadable body")
	}

	// firma primero: nada se parsea antes de verificar
	if err := s.verifier.Verify(req.Header, body); err != nil {
		s.m.Rejected("signature")
		return c.String(http.StatusUnauthorized, err.Error())
	}

	ic, err := s.decode(body)
	if err != nil {
		s.m.Rejected("malformed")
		s.log.Warn("malformed interaction", "err", err)
		return c.String(http.StatusBadRequest, err.Error())
	}
	s.m.Received(kindLabel(ic.Type))

	if ic.Type == discordgo.InteractionPing {
		return c.JSON(http.StatusOK, &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong})
	}

	if !s.spawn(req.Context(), ic) {
		s.m.Rejected("shutting_down")
		return c.String(http.StatusServiceUnavailable, "shutting down")
	}
	return c.JSON(http.StatusOK, &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource})
}

// spawn corre el procesamiento desacoplado del request: sin cancelación ni timeout.
// Devuelve false si ya empezó el Shutdown (no se difiere nada que nadie va a completar).
func (s *Server) spawn(ctx context.Context, ic *discordgo.Interaction) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	go func() {
		defer s.wg.Done()
		s.proc.Complete(bg, ic)
	}()
	return true
}
