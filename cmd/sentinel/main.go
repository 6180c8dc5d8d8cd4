package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"CodeSentinel/internal/config"
	"CodeSentinel/internal/detector"
	"CodeSentinel/internal/loader"
	"CodeSentinel/internal/recorder"
	"CodeSentinel/internal/report"
	"CodeSentinel/internal/scanner"
	"CodeSentinel/internal/scheduler"
	"CodeSentinel/internal/suite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		configPath = flag.String("config", "", "path to config.yaml (default configs/config.yaml, CONFIG_PATH override)")
		watch      = flag.Bool("watch", false, "keep running and rescan on the configured cron schedule")
		suiteDir   = flag.String("suite", "", "run the fixture suite under this directory instead of scanning")
	)
	flag.Parse()

	// Load config
	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			cfgPath = v
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	detectors, err := detector.Enabled(cfg.Detectors.Enabled)
	if err != nil {
		log.Fatalf("[FATAL] select detectors: %v", err)
	}

	// Suite mode: validate the detectors against a fixture corpus and exit.
	if *suiteDir != "" {
		os.Exit(runSuite(*suiteDir, detectors))
	}

	roots := cfg.Scan.Paths
	if args := flag.Args(); len(args) > 0 {
		roots = args
	}

	sc := scanner.New(loader.New(cfg.Scan.Exclude, cfg.Scan.SkipTests), detectors)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	if !*watch {
		code := runOnce(cfg, sc, rec, roots)
		rec.Close()
		os.Exit(code)
	}

	// Watch mode: context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(ctx, sc, rec, os.Stdout, roots)
	if err := sched.Register(cfg.Watch.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, scanning now")
		go sched.RunNow()
	}

	log.Printf("[INFO] watching %v on schedule %q. Press Ctrl+C to stop.", roots, cfg.Watch.Cron)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
}

func runOnce(cfg *config.Config, sc *scanner.Scanner, rec recorder.Recorder, roots []string) int {
	known, err := rec.KnownFindings()
	if err != nil {
		log.Printf("[WARN] load known findings: %v", err)
	}

	result, err := sc.Scan(roots)
	if err != nil {
		log.Printf("[ERROR] scan: %v", err)
		return 2
	}

	switch cfg.Report.Format {
	case "json":
		err = report.WriteJSON(os.Stdout, result)
	default:
		err = report.WriteText(os.Stdout, result, known)
	}
	if err != nil {
		log.Printf("[ERROR] write report: %v", err)
		return 2
	}

	if err := rec.RecordScan(result); err != nil {
		log.Printf("[ERROR] record scan: %v", err)
	}

	if len(result.Findings) > 0 {
		return 1
	}
	return 0
}

func runSuite(dir string, detectors []detector.Detector) int {
	runner := suite.NewRunner(detectors)
	results, err := runner.RunDir(dir)
	if err != nil {
		log.Printf("[ERROR] run suite: %v", err)
		return 2
	}
	if len(results) == 0 {
		log.Printf("[ERROR] no fixtures found under %s", dir)
		return 2
	}

	for _, res := range results {
		status := "PASS"
		if !res.Passed {
			status = "FAIL"
		}
		fmt.Printf("%s %s/%s %s", status, res.Case, res.Variant, res.Path)
		if res.Reason != "" {
			fmt.Printf(" (%s)", res.Reason)
		}
		fmt.Println()
	}

	passed, failed := suite.Verdict(results)
	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}
