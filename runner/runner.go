// Package runner drives a vm one instruction at a time, adding the step
// limit, cancellation and tracing that the vm itself does not provide.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/krehermann/stackvm/program"
	"github.com/krehermann/stackvm/vm"
	"go.uber.org/zap"
)

var ErrStepLimit = errors.New("step limit reached")

const defaultStepLimit = 1 << 16

type Config struct {
	StackLimit  int
	MemoryLimit uint64
	// StepLimit bounds the executed instructions. Negative disables it.
	StepLimit int
	Trace     bool
}

type Runner struct {
	Config
	logger *zap.Logger
}

type RunnerOpt func(*Runner) *Runner

func LoggerOpt(l *zap.Logger) RunnerOpt {
	return func(r *Runner) *Runner {
		r.logger = l
		return r
	}
}

func New(cfg Config, opts ...RunnerOpt) *Runner {
	if cfg.StepLimit == 0 {
		cfg.StepLimit = defaultStepLimit
	}
	r := &Runner{
		Config: cfg,
		logger: zap.L(),
	}
	for _, opt := range opts {
		r = opt(r)
	}
	r.logger = r.logger.Named("runner")
	return r
}

// TraceStep records one executed instruction and the stack it left behind.
type TraceStep struct {
	PC    uint64   `json:"pc"`
	Op    string   `json:"op"`
	Stack []string `json:"stack"`
}

// Result is the observable state of a finished run.
type Result struct {
	Halted bool        `json:"halted"`
	PC     uint64      `json:"pc"`
	Steps  int         `json:"steps"`
	Stack  []string    `json:"stack"`
	Memory []string    `json:"memory"`
	Trace  []TraceStep `json:"trace,omitempty"`
	// Kind classifies Err, empty on a clean halt
	Kind string `json:"kind,omitempty"`
	Err  error  `json:"-"`
}

// Execute decodes a hex program and runs it. A decode failure returns a nil
// Result. Any other failure returns both the Result at the point of the
// fault and the error.
func (r *Runner) Execute(ctx context.Context, hexCode string) (*Result, error) {
	code, err := program.FromHex(hexCode)
	if err != nil {
		return nil, err
	}
	return r.ExecuteCode(ctx, code)
}

func (r *Runner) ExecuteCode(ctx context.Context, code []byte) (*Result, error) {
	machine := vm.NewVM(code,
		vm.LoggerOpt(r.logger),
		vm.StackOpts(vm.MaxStack(r.StackLimit)),
		vm.MemoryOpts(vm.MaxMemory(r.MemoryLimit)),
	)

	res := &Result{}
	var err error
	for !machine.Halted() {
		if r.StepLimit > 0 && res.Steps >= r.StepLimit {
			err = fmt.Errorf("%w: %d", ErrStepLimit, r.StepLimit)
			break
		}
		if err = ctx.Err(); err != nil {
			break
		}

		pc := machine.PC()
		inst := machine.Decode()
		if err = machine.Exec(inst); err != nil {
			break
		}
		res.Steps++

		if r.Trace {
			res.Trace = append(res.Trace, TraceStep{
				PC:    pc,
				Op:    inst.String(),
				Stack: hexWords(machine.Stack()),
			})
		}
	}

	res.Halted = machine.Halted()
	res.PC = machine.PC()
	res.Stack = hexWords(machine.Stack())
	res.Memory = hexWords(machine.Memory())
	if err != nil {
		res.Err = err
		res.Kind = kind(err)
		r.logger.Warn("run aborted",
			zap.Error(err),
			zap.String("kind", res.Kind),
			zap.Uint64("pc", res.PC),
			zap.Int("steps", res.Steps),
		)
		return res, err
	}

	r.logger.Debug("run halted",
		zap.Uint64("pc", res.PC),
		zap.Int("steps", res.Steps),
		zap.Int("stack", len(res.Stack)),
	)
	return res, nil
}

func kind(err error) string {
	switch {
	case errors.Is(err, ErrStepLimit):
		return "StepLimit"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Canceled"
	}
	return vm.Kind(err)
}

func hexWords(words []uint256.Int) []string {
	out := make([]string, len(words))
	for i := range words {
		out[i] = words[i].Hex()
	}
	return out
}
