package sources

import (
	"bess-tracker/config"
	"bess-tracker/scraper"
	"bess-tracker/utils"
)

// All assembles the full source list in run order. The core UK sources always
// run; the official registers and the German monitor are appended only when
// enabled, since their endpoints shift more often than the project pages.
func All(cfg *config.Config, fetch *utils.Fetcher, logger *utils.Logger) []scraper.Source {
	sources := []scraper.Source{
		{Name: "REPD", Fetch: NewREPD(cfg, fetch, logger).Fetch},
		{Name: "EDF", Fetch: NewEDF(cfg, fetch, logger).Fetch},
		{Name: "British Renewables", Fetch: NewBritishRenewables(cfg, fetch, logger).Fetch},
		{Name: "Root Power", Fetch: NewRootPower(cfg, fetch, logger).Fetch},
		{Name: "Fidra", Fetch: NewFidra(cfg, fetch, logger).Fetch},
		{Name: "SSE", Fetch: NewSSE(cfg, fetch, logger).Fetch},
		{Name: "Energy-Storage.news", Fetch: NewEnergyStorageNews(cfg, fetch, logger).Fetch},
		{Name: "Solar Power Portal", Fetch: NewSolarPortal(cfg, fetch, logger).Fetch},
	}

	if cfg.EnableTEC {
		sources = append(sources, scraper.Source{Name: "TEC Register", Fetch: NewTEC(cfg, fetch, logger).Fetch})
	}
	if cfg.EnablePINS {
		sources = append(sources, scraper.Source{Name: "PINS NSIP", Fetch: NewPINS(cfg, fetch, logger).Fetch})
	}
	if cfg.EnableECR {
		sources = append(sources, scraper.Source{Name: "ECR UKPN", Fetch: NewECR(cfg, fetch, logger).Fetch})
	}
	if cfg.EnableEirGrid {
		sources = append(sources, scraper.Source{Name: "EirGrid Ireland", Fetch: NewEirGrid(cfg, fetch, logger).Fetch})
	}
	if cfg.EnableEcoStor {
		sources = append(sources, scraper.Source{Name: "ECO STOR Monitor", Fetch: NewEcoStor(cfg, fetch, logger).Fetch})
	}
	return sources
}
