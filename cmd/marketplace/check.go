package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/logger"
)

const defaultCheckTimeout = 10 * time.Second

type checkResult struct {
	URL    string
	Status int
	Err    error
}

func (r checkResult) Up() bool {
	return r.Err == nil
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check that deployed services respond",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "url",
				Usage: "Service URL to check, repeatable",
				Value: cli.NewStringSlice("http://localhost:3001/health"),
			},
			&cli.DurationFlag{Name: "timeout", Value: defaultCheckTimeout, Usage: "Per-request timeout"},
		},
		Action: func(c *cli.Context) error {
			log, err := logger.NewLogger(true)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			client := &http.Client{Timeout: c.Duration("timeout")}
			results := checkServices(c.Context, client, c.StringSlice("url"))

			down := 0
			for _, r := range results {
				if r.Up() {
					log.Info("Service is live", "url", r.URL, "status", r.Status)
				} else {
					down++
					log.Error("Service is down", "url", r.URL, "error", r.Err)
				}
			}
			if down > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d services are having issues", down, len(results)), 1)
			}
			log.Info("All services are running", "count", len(results))
			return nil
		},
	}
}

// checkServices GETs every URL concurrently. A service is up when it answers
// with a status below 500. Results keep the order of urls.
func checkServices(ctx context.Context, client *http.Client, urls []string) []checkResult {
	results := make([]checkResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			results[i] = checkService(gctx, client, u)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func checkService(ctx context.Context, client *http.Client, url string) checkResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return checkResult{URL: url, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return checkResult{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return checkResult{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	return checkResult{URL: url, Status: resp.StatusCode}
}
