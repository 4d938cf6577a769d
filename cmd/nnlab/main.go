// Package main provides the nnlab CLI.
//
// Usage:
//
//	nnlab forward  [-config nnlab.yaml] [-seed 1] [-device cpu]
//	nnlab regress  [-config nnlab.yaml] [-seed 1]
//	nnlab train    [-config nnlab.yaml] [-seed 1] [-epochs 200] [-out figures]
//	nnlab complete [-config nnlab.yaml] [-seed 1] [-epochs 200] [-out figures]
//	nnlab version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/born-ml/nnlab/internal/config"
	"github.com/born-ml/nnlab/internal/lab"
	"github.com/born-ml/nnlab/internal/logging"
)

const version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		logging.Err(err).Msg("nnlab failed")
		stop()
		os.Exit(1)
	}
}

// flags are the overrides shared by every exercise subcommand.
type flags struct {
	config string
	seed   uint64
	epochs int
	out    string
	device string
}

func run(ctx context.Context, args []string, w io.Writer) error {
	if len(args) == 0 {
		usage(w)
		return nil
	}
	cmd, args := args[0], args[1:]
	if cmd == "version" {
		fmt.Fprintf(w, "nnlab %s\n", version)
		return nil
	}

	var f flags
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.StringVar(&f.config, "config", "", "YAML config file")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed (0 keeps the configured seed)")
	fs.IntVar(&f.epochs, "epochs", 0, "training epochs (0 keeps the configured value)")
	fs.StringVar(&f.out, "out", "", "directory for figures")
	fs.StringVar(&f.device, "device", "", "compute device: cpu or webgpu")

	switch cmd {
	case "forward", "regress", "train", "complete":
	default:
		usage(w)
		return fmt.Errorf("unknown command %q", cmd)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logging.Init(cfg.Log)

	log := logging.Component("cli")
	log.Info().Str("command", cmd).Str("device", cfg.Lab.Device).Msg("starting")

	switch cmd {
	case "forward":
		report, err := lab.RunForward(cfg.Forward, cfg.Lab)
		if err != nil {
			return err
		}
		printForward(w, report)
	case "regress":
		report, err := lab.RunRegression(cfg.Regression, cfg.Lab)
		if err != nil {
			return err
		}
		printRegression(w, report)
	case "train":
		report, err := lab.RunTrain(ctx, cfg.Train, cfg.Lab)
		if err != nil {
			return err
		}
		printTrain(w, report)
	case "complete":
		report, err := lab.RunComplete(ctx, cfg.Complete, cfg.Lab)
		if err != nil {
			return err
		}
		printComplete(w, report)
	}
	return nil
}

func (f flags) apply(cfg *config.Config) {
	if f.seed != 0 {
		cfg.Forward.Seed = f.seed
		cfg.Regression.Seed = f.seed
		cfg.Train.Fit.Seed = f.seed
		cfg.Complete.Fit.Seed = f.seed
	}
	if f.epochs != 0 {
		cfg.Train.Fit.Epochs = f.epochs
		cfg.Complete.Fit.Epochs = f.epochs
	}
	if f.out != "" {
		cfg.Lab.PlotDir = f.out
	}
	if f.device != "" {
		cfg.Lab.Device = f.device
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "nnlab - neural network exercises")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  forward    Hand-computed forward pass vs framework model")
	fmt.Fprintln(w, "  regress    Recover the output layer by linear regression")
	fmt.Fprintln(w, "  train      Train a network on data from a random network")
	fmt.Fprintln(w, "  complete   Low-rank matrix completion with embeddings")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags: -config, -seed, -epochs, -out, -device")
}
