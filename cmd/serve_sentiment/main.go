package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/neurlang/mlsamples/datasets"
	"github.com/neurlang/mlsamples/logging"
	"github.com/neurlang/mlsamples/pipeline"
)

func main() {
	app := &cli.App{
		Name:  "serve_sentiment",
		Usage: "serve sentiment predictions over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "model",
				Value: "MLModels/sentiment_model.zip",
				Usage: "model trained by train_sentiment",
			},
			&cli.StringFlag{
				Name:  "addr",
				Value: ":8080",
				Usage: "listen address",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: serve,
	}
	if err := app.Run(os.Args); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	logger := logging.NewLogger("serve_sentiment")
	if c.Bool("debug") {
		logger = logging.NewDebugLogger("serve_sentiment")
	}

	path, err := datasets.Locate(c.String("model"))
	if err != nil {
		return err
	}
	model, err := pipeline.Load(path, pipeline.LoadOptions{})
	if err != nil {
		return errors.Wrap(err, "load sentiment model")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	httpServer := &http.Server{
		Addr:              c.String("addr"),
		Handler:           newServer(model, logger).handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warnw("shutdown", "error", err)
		}
	}()

	logger.Infow("serving", "addr", httpServer.Addr, "model", path)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
