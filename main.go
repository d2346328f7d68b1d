package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/krehermann/stackvm/api"
	"github.com/krehermann/stackvm/config"
	"github.com/krehermann/stackvm/program"
	"github.com/krehermann/stackvm/runner"
	"github.com/krehermann/stackvm/vm"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// push 6, push 7, mul, stop
const sampleProgram = "600660070200"

const usage = `usage: stackvm <command> [flags] [program]

commands:
  run     execute a hex program and print the final stack
  disasm  print the instructions of a hex program
  serve   start the http api
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		args = []string{"run"}
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "run":
		return runCmd(ctx, args, out)
	case "disasm":
		return disasmCmd(args, out)
	case "serve":
		return serveCmd(args)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q, see stackvm help", cmd)
}

func runCmd(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a yaml config file")
	trace := fs.Bool("trace", false, "print every executed instruction")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	rcfg := runnerConfig(cfg)
	rcfg.Trace = rcfg.Trace || *trace
	r := runner.New(rcfg, runner.LoggerOpt(logger))

	res, err := r.Execute(ctx, programArg(fs))
	if res == nil {
		return err
	}

	for _, step := range res.Trace {
		fmt.Fprintf(out, "%04d %-7s [%s]\n", step.PC, step.Op, strings.Join(step.Stack, " "))
	}
	for _, w := range res.Stack {
		fmt.Fprintln(out, w)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", res.Kind, err)
	}
	return nil
}

func disasmCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("disasm", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	code, err := program.FromHex(programArg(fs))
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, vm.Disassemble(code))
	return err
}

func serveCmd(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a yaml config file")
	addr := fs.String("addr", "", "listen address, overrides api.listenAddr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.API.ListenAddr = *addr
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	srv, err := api.NewServer(api.ServerConfig{
		ListenerAddr: cfg.API.ListenAddr,
		Logger:       logger,
		Runner:       runnerConfig(cfg),
	})
	if err != nil {
		return err
	}
	return srv.Start()
}

func programArg(fs *flag.FlagSet) string {
	if fs.NArg() == 0 {
		return sampleProgram
	}
	return fs.Arg(0)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func runnerConfig(cfg *config.Config) runner.Config {
	return runner.Config{
		StackLimit:  cfg.VM.StackLimit,
		MemoryLimit: cfg.VM.MemoryLimit,
		StepLimit:   cfg.Runner.StepLimit,
		Trace:       cfg.Runner.Trace,
	}
}

// newLogger logs human readable output on a terminal and json otherwise.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	fd := os.Stderr.Fd()
	if cfg.Development || isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	zcfg.Level = zap.NewAtomicLevelAt(cfg.ParsedLevel())

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
