// Command etl cleans raw baseball stats exports and loads them into a
// database. It reads a JSON pipeline file, validates it, and runs the
// Scrub, Split, Coerce and Rank Repair stages over every source file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"statsetl/internal/config"
	"statsetl/internal/etl"
	"statsetl/internal/storage"

	// register all backends with the storage factory.
	_ "statsetl/internal/storage/all"
)

func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		ddAddrFlg         string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/mlb_stats.json", "pipeline config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend: pushgateway, datadog or none (overrides env METRICS_BACKEND)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&ddAddrFlg, "dd-addr", "", "DogStatsD address (overrides env DD_AGENT_ADDR)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	flush := setupMetrics(metricsSettings{
		Backend:        firstNonEmpty(metricsBackendFlg, os.Getenv("METRICS_BACKEND")),
		PushGatewayURL: firstNonEmpty(pushGatewayURLFlg, os.Getenv("PUSHGATEWAY_URL"), "http://localhost:9091"),
		DatadogAddr:    firstNonEmpty(ddAddrFlg, os.Getenv("DD_AGENT_ADDR"), "127.0.0.1:8125"),
		Job:            p.Job,
	}, *verbose)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	start := time.Now()

	var repo storage.Repository
	if k := p.Storage.Kind; k != "" && k != "none" {
		repo, err = storage.New(ctx, storage.Config{Kind: k, DSN: p.Storage.DB.DSN, Schema: p.Storage.DB.Schema})
		if err != nil {
			fatalf("storage: %v", err)
		}
		defer repo.Close()
	}

	if *verbose {
		log.Printf("pipeline: job=%s sources=%d parser=%s storage=%s workers=%d",
			p.Job, len(p.Sources), p.Parser.Kind, p.Storage.Kind, p.Runtime.Workers)
	}

	sum, err := etl.Run(ctx, p, repo, *verbose)
	if err != nil {
		log.Printf("%v", err)
		flush()
		os.Exit(1)
	}
	if sum.Failed > 0 && sum.Cleaned == 0 {
		log.Printf("no file could be processed")
		flush()
		os.Exit(1)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
