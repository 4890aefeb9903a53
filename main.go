package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bess-tracker/config"
	"bess-tracker/models"
	"bess-tracker/scraper"
	"bess-tracker/scraper/sources"
	"bess-tracker/services"
	"bess-tracker/storage"
	"bess-tracker/utils"
)

func main() {
	weekly := flag.Bool("weekly", false, "append the run date to the dataset file names")
	latestOnly := flag.Bool("latest-only", false, "keep only Planned/Consented/In-construction projects")
	noCSV := flag.Bool("no-csv", false, "skip the merged CSV dataset")
	noJSON := flag.Bool("no-json", false, "skip the merged JSON dataset")
	noSummary := flag.Bool("no-summary", false, "skip the summary history append")
	noDB := flag.Bool("no-db", false, "skip the PostgreSQL sink")
	outputDir := flag.String("output-dir", "", "override the output directory")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	logger.Info("=== UK BESS multi-source tracker starting ===")
	logger.Info("Config — timeout: %ds | retries: %d | rate: %dms | output: %s",
		cfg.FetchTimeoutSec, cfg.MaxRetries, cfg.RateLimitMs, cfg.OutputDir)

	fetcher := utils.NewFetcher(cfg.FetchTimeoutSec, cfg.MaxRetries, cfg.RetryBackoffMs, cfg.RateLimitMs, logger)
	runner := scraper.NewRunner(sources.All(cfg, fetcher, logger), logger)

	records := runner.Run()
	if len(records) == 0 {
		logger.Error("No projects were scraped from any source. Exiting.")
		os.Exit(1)
	}

	if *latestOnly {
		records = filterLatest(records)
		logger.Info("Latest-only filter: %d projects remain", len(records))
	}

	ukDir := filepath.Join(cfg.OutputDir, cfg.UKSubdir)
	base := filepath.Join(ukDir, "bess_uk_multi_source")
	if *weekly {
		base += "_" + time.Now().UTC().Format("2006-01-02")
	}

	if !*noCSV {
		if err := writeCSV(base+".csv", records); err != nil {
			logger.Error("CSV write failed: %v", err)
		} else {
			logger.Info("Merged dataset saved to %s.csv", base)
		}
	}
	if !*noJSON {
		if err := storage.WriteJSON(base+".json", records); err != nil {
			logger.Error("JSON write failed: %v", err)
		} else {
			logger.Info("Merged dataset saved to %s.json", base)
		}
	}

	if !*noDB {
		if pgWriter, err := storage.NewPostgresWriter(cfg.DSN()); err != nil {
			logger.Error("PostgreSQL unavailable, skipping sink: %v", err)
		} else {
			if err := pgWriter.Write(records); err != nil {
				logger.Error("PostgreSQL write failed: %v", err)
			} else {
				logger.Info("Projects stored in PostgreSQL (table: projects)")
			}
			pgWriter.Close()
		}
	}

	summary := services.BuildSummary(records, "", "")
	if !*noSummary {
		history := storage.NewHistoryWriter(ukDir)
		if path, err := history.Append(summary); err != nil {
			logger.Error("Summary history append failed: %v", err)
		} else if summary.TotalProjects < storage.MinProjectsForSummary {
			logger.Warn("Run too small for history (%d projects, minimum %d)",
				summary.TotalProjects, storage.MinProjectsForSummary)
		} else {
			logger.Info("Summary appended to %s", path)
		}
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(records))

	fmt.Printf("  Done. %d projects, %.1f MW tracked → %s\n\n",
		summary.TotalProjects, summary.TotalMW, ukDir)
}

// filterLatest keeps only pipeline-stage projects, dropping operational sites
// and news rows.
func filterLatest(records []*models.ProjectRecord) []*models.ProjectRecord {
	keep := map[string]bool{
		services.StatusPlanned:        true,
		services.StatusConsented:      true,
		services.StatusInConstruction: true,
	}
	var out []*models.ProjectRecord
	for _, r := range records {
		if keep[r.Status] {
			out = append(out, r)
		}
	}
	return out
}

func writeCSV(path string, records []*models.ProjectRecord) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	if err := w.Write(records); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
