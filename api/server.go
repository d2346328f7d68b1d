package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/krehermann/stackvm/program"
	"github.com/krehermann/stackvm/runner"
	"github.com/krehermann/stackvm/vm"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const Version = "0.1.0"

type ServerConfig struct {
	ListenerAddr string
	Logger       *zap.Logger
	Runner       runner.Config
}

type Server struct {
	ServerConfig
	runner *runner.Runner
	echo   *echo.Echo

	logger *zap.Logger
}

func NewServer(config ServerConfig) (*Server, error) {
	if config.Logger == nil {
		config.Logger, _ = zap.NewDevelopment()
	}
	s := &Server{
		ServerConfig: config,
		logger:       config.Logger.Named("api"),
	}
	s.runner = runner.New(config.Runner, runner.LoggerOpt(config.Logger))
	s.echo = s.routes()

	return s, nil
}

func (s *Server) routes() *echo.Echo {
	echoer := echo.New()
	echoer.HideBanner = true
	echoer.HidePort = true

	echoer.POST("/run", s.handleRun)
	echoer.GET("/opcodes", s.handleOpcodes)
	echoer.GET("/status", s.handleStatus)

	return echoer
}

func (s *Server) Start() error {
	s.logger.Info("api server starting",
		zap.String("addr", s.ListenerAddr))

	return s.echo.Start(s.ListenerAddr)
}

// Handler exposes the routes without binding a listener.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleRun(ectx echo.Context) error {
	req := &RunRequest{}
	if err := ectx.Bind(req); err != nil {
		return ectx.JSON(http.StatusBadRequest,
			map[string]any{
				"error": err.Error(),
			})
	}

	runID := uuid.NewString()
	logger := s.logger.With(zap.String("runID", runID))

	code, err := program.FromHex(req.Code)
	if err != nil {
		logger.Info("rejecting program", zap.Error(err))
		return ectx.JSON(http.StatusBadRequest,
			map[string]any{
				"runID": runID,
				"error": err.Error(),
				"kind":  "DecodeError",
			})
	}

	r := s.runner
	if req.Trace && !r.Trace {
		cfg := s.Runner
		cfg.Trace = true
		r = runner.New(cfg, runner.LoggerOpt(s.Logger))
	}

	res, err := r.ExecuteCode(ectx.Request().Context(), code)
	resp := RunResponse{
		RunID:  runID,
		Result: res,
	}
	if err != nil {
		resp.Error = err.Error()
		logger.Info("run faulted",
			zap.String("kind", res.Kind),
			zap.Int("steps", res.Steps))
		return ectx.JSON(http.StatusUnprocessableEntity, resp)
	}

	logger.Debug("run halted",
		zap.Int("steps", res.Steps),
		zap.Int("codeLen", len(code)))
	return ectx.JSON(http.StatusOK, resp)
}

func (s *Server) handleOpcodes(ectx echo.Context) error {
	insts := vm.Instructions()
	resp := OpcodesResponse{
		Opcodes: make([]Opcode, len(insts)),
	}
	for i, inst := range insts {
		resp.Opcodes[i] = Opcode{
			Value:     byte(inst),
			Name:      inst.String(),
			Immediate: inst.PushSize(),
		}
	}
	return ectx.JSON(http.StatusOK, resp)
}

func (s *Server) handleStatus(ectx echo.Context) error {
	stepLimit := s.runner.StepLimit
	return ectx.JSON(http.StatusOK, StatusResponse{
		Version:     Version,
		StackLimit:  stackLimit(s.Runner.StackLimit),
		MemoryLimit: memoryLimit(s.Runner.MemoryLimit),
		StepLimit:   stepLimit,
	})
}

func stackLimit(n int) int {
	if n <= 0 {
		return vm.DefaultStackDepth
	}
	return n
}

func memoryLimit(n uint64) uint64 {
	if n == 0 {
		return vm.DefaultMemoryLimit
	}
	return n
}
