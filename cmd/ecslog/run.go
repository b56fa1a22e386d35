package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/ecslog/internal/logsource"
	"github.com/tinytelemetry/ecslog/internal/render"
)

// run renders the given log files, or stdin when none are given, to stdout.
func run(cfg appConfig, logger *zap.Logger, paths []string) error {
	renderer, err := render.NewRenderer(logger, cfg.Color, cfg.ColorScheme, cfg.Format)
	if err != nil {
		return err
	}
	renderer.SetLevelFilter(cfg.Level)
	if err := renderer.SetKQLFilter(cfg.KQL); err != nil {
		return err
	}
	renderer.SetStrict(cfg.Strict)
	renderer.SetMaxLineLen(cfg.MaxLineLen)

	// Fail on a bad path before rendering anything.
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := bufio.NewWriterSize(os.Stdout, 64*1024)
	srcConf := logsource.Config{BufferSize: cfg.SourceBuffer, Logger: logger}

	// Use errgroup for concurrent goroutine lifecycle management: one
	// goroutine pumps sources in order, one renders.
	g, gctx := errgroup.WithContext(ctx)
	envs := make(chan logsource.Envelope, cfg.SourceBuffer)

	g.Go(func() error {
		defer close(envs)
		if len(paths) == 0 {
			src := logsource.NewStdinSource(gctx, srcConf)
			defer src.Stop()
			return pump(gctx, src, envs)
		}
		// Files render sequentially so their output keeps file order.
		for _, path := range paths {
			src, err := logsource.NewFileSource(gctx, path, srcConf)
			if err != nil {
				return err
			}
			err = pump(gctx, src, envs)
			src.Stop()
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
		}
		return nil
	})

	g.Go(func() error {
		for env := range envs {
			if err := renderer.RenderLine(out, env.Line); err != nil {
				return err
			}
		}
		return nil
	})

	err = g.Wait()
	if flushErr := out.Flush(); err == nil {
		err = flushErr
	}
	return err
}

// pump forwards all lines from src until the source is exhausted or the
// context is canceled, then reports the source's read error, if any.
func pump(ctx context.Context, src logsource.Source, envs chan<- logsource.Envelope) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case env, ok := <-src.Lines():
			if !ok {
				return src.Err()
			}
			select {
			case envs <- env:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
