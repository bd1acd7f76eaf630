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
	"text/tabwriter"
	"time"

	"price-chart/client"
	"price-chart/config"
	"price-chart/logging"
	"price-chart/models"

	"github.com/sirupsen/logrus"
)

type options struct {
	addr     string
	period   string
	days     int
	seed     string
	compare  bool
	watch    bool
	retries  int
	delay    time.Duration
	logLevel string
}

func main() {
	var opts options
	flag.StringVar(&opts.addr, "addr", "http://localhost:8080", "chart server base URL")
	flag.StringVar(&opts.period, "period", "1w", "chart period: 1d, 3d, 1w, 1m, 6m, 1y, max")
	flag.IntVar(&opts.days, "days", 0, "explicit day count, overrides -period")
	flag.StringVar(&opts.seed, "seed", "", "series seed (random per session when empty)")
	flag.BoolVar(&opts.compare, "compare", false, "also fetch the seed+1 comparison series")
	flag.BoolVar(&opts.watch, "watch", false, "stay subscribed and print every pushed series")
	flag.IntVar(&opts.retries, "retries", client.DefaultRetry.MaxAttempts, "attempts per request")
	flag.DurationVar(&opts.delay, "delay", client.DefaultRetry.Delay, "pause between attempts")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	flag.Parse()

	logger, err := logging.NewWithWriter(config.Log{Level: opts.logLevel, Format: "text"}, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger, os.Stdout); err != nil {
		if errors.Is(err, client.ErrFetch) {
			fmt.Fprintln(os.Stderr, "Error fetching data")
		}
		logger.WithError(err).Error("seriesctl failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *logrus.Logger, out io.Writer) error {
	if opts.seed == "" {
		opts.seed = client.NewSessionSeed()
	}
	days := opts.days
	if days <= 0 {
		d, err := config.ParsePeriod(opts.period)
		if err != nil {
			return err
		}
		days = d
	}

	if opts.watch {
		return watch(ctx, opts, days, logger, out)
	}

	c := client.New(opts.addr,
		client.WithLogger(logger),
		client.WithRetry(client.RetryConfig{MaxAttempts: opts.retries, Delay: opts.delay}),
	)

	primary, err := c.FetchSeries(ctx, days, opts.seed)
	if err != nil {
		return err
	}
	var comparison models.Series
	if opts.compare {
		compSeed, err := client.ComparisonSeed(opts.seed)
		if err != nil {
			return err
		}
		if comparison, err = c.FetchSeries(ctx, days, compSeed); err != nil {
			return err
		}
	}

	printSeries(out, opts.seed, primary, comparison)
	return nil
}

func watch(ctx context.Context, opts options, days int, logger *logrus.Logger, out io.Writer) error {
	w, err := client.NewWatcher(opts.addr, logger)
	if err != nil {
		return err
	}
	if err := w.Connect(ctx); err != nil {
		return err
	}

	w.AddHandler(func(msg *models.SeriesMessage) {
		if msg.Type == models.MessageError {
			logger.Warnf("server error: %s", msg.Error)
			return
		}
		printSeries(out, fmt.Sprint(msg.Seed), msg.Points, msg.Comparison)
	})

	req := models.SubscribeRequest{
		Days:    models.Param(fmt.Sprint(days)),
		Seed:    models.Param(opts.seed),
		Compare: opts.compare,
	}
	if err := w.Subscribe(req); err != nil {
		w.Close()
		return err
	}

	if err := w.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printSeries(out io.Writer, seed string, primary, comparison models.Series) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if len(comparison) > 0 {
		fmt.Fprintln(tw, "TIME\tPRICE\tCOMPARISON")
	} else {
		fmt.Fprintln(tw, "TIME\tPRICE")
	}
	for i, p := range primary {
		if i < len(comparison) {
			fmt.Fprintf(tw, "%s\t%.0f\t%.0f\n", p.Time, p.Price, comparison[i].Price)
		} else {
			fmt.Fprintf(tw, "%s\t%.0f\n", p.Time, p.Price)
		}
	}
	tw.Flush()

	if last, ok := primary.Last(); ok {
		diff, pct := primary.Change()
		fmt.Fprintf(out, "\nseed %s  last %.0f USD  %+.0f (%+.2f%%)\n", seed, last.Price, diff, pct)
	}
}
