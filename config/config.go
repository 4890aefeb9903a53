package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// SourceMeta describes one upstream listing source.
type SourceMeta struct {
	Name    string
	URL     string
	Country string
}

// Config holds all application configuration loaded from environment variables.
// It is threaded explicitly into the runner and adapters; there is no
// process-wide mutable configuration.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	FetchTimeoutSec int
	MaxRetries      int
	RetryBackoffMs  int
	RateLimitMs     int

	OutputDir string
	UKSubdir  string

	// Fragile official registers; each can be switched off independently
	// when the upstream API or URL changes.
	EnableTEC     bool
	EnablePINS    bool
	EnableECR     bool
	EnableEirGrid bool
	// JS-rendered German monitor, needs a local Chrome. Off by default.
	EnableEcoStor bool
	ChromeBin     string

	Sources map[string]SourceMeta
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "bess"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "bess123"),
		PostgresDB:       getEnv("POSTGRES_DB", "bess_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		FetchTimeoutSec: getEnvInt("FETCH_TIMEOUT_SEC", 45),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),
		RetryBackoffMs:  getEnvInt("RETRY_BACKOFF_MS", 2000),
		RateLimitMs:     getEnvInt("RATE_LIMIT_MS", 1000),

		OutputDir: getEnv("OUTPUT_DIR", "./output"),
		UKSubdir:  getEnv("OUTPUT_UK_SUBDIR", "uk"),

		EnableTEC:     getEnvBool("ENABLE_TEC_REGISTER", true),
		EnablePINS:    getEnvBool("ENABLE_PINS_NSIP", true),
		EnableECR:     getEnvBool("ENABLE_ECR_UKPN", true),
		EnableEirGrid: getEnvBool("ENABLE_EIRGRID", true),
		EnableEcoStor: getEnvBool("ENABLE_ECOSTOR", false),
		ChromeBin:     getEnv("CHROME_BIN", ""),

		Sources: defaultSources(),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func defaultSources() map[string]SourceMeta {
	return map[string]SourceMeta{
		"edf_re_uk": {
			Name:    "EDF Renewables UK & Ireland – Battery Storage",
			URL:     "https://www.edf-re.uk/our-sites/?view=list&project_types=battery-storage",
			Country: "UK",
		},
		"british_renewables": {
			Name:    "British Solar Renewables – UK Battery Storage",
			URL:     "https://britishrenewables.com/projects/battery-bess-projects",
			Country: "UK",
		},
		"root_power": {
			Name:    "Root Power – BESS Projects",
			URL:     "https://www.root-power.com/our-projects/",
			Country: "UK",
		},
		"fidra_energy": {
			Name:    "Fidra Energy – UK Energy Storage",
			URL:     "https://fidraenergy.com/our-projects/",
			Country: "UK",
		},
		"sse_renewables": {
			Name:    "SSE Renewables – Battery Storage",
			URL:     "https://www.sserenewables.com/our-sites/",
			Country: "UK",
		},
		"uk_repd": {
			Name:    "DESNZ – Renewable Energy Planning Database (REPD)",
			URL:     "https://www.gov.uk/government/publications/renewable-energy-planning-database-monthly-extract",
			Country: "UK",
		},
		"energy_storage_news": {
			Name:    "Energy-Storage.news – UK BESS news",
			URL:     "https://www.energy-storage.news/category/news/",
			Country: "UK",
		},
		"solar_power_portal": {
			Name:    "Solar Power Portal – UK battery storage",
			URL:     "https://www.solarpowerportal.co.uk/",
			Country: "UK",
		},
		"tec_register": {
			Name:    "NESO – TEC Register (Transmission Entry Capacity)",
			URL:     "https://www.nationalgrideso.com/data-portal/transmission-entry-capacity-tec-register",
			Country: "UK",
		},
		"pins_nsip": {
			Name:    "Planning Inspectorate – NSIP (Nationally Significant Infrastructure)",
			URL:     "https://national-infrastructure-consenting.planninginspectorate.gov.uk/project-search",
			Country: "UK",
		},
		"ecr_ukpn": {
			Name:    "UK Power Networks – Embedded Capacity Register (ECR)",
			URL:     "https://ukpowernetworks.opendatasoft.com/explore/dataset/ukpn-embedded-capacity-register",
			Country: "UK",
		},
		"eirgrid": {
			Name:    "EirGrid – Connected & Contracted Generators (Ireland)",
			URL:     "https://www.eirgrid.ie/industry/customer-information/connected-and-contracted-generators",
			Country: "Ireland",
		},
		"eco_stor_monitor": {
			Name:    "ECO STOR Storage Monitor – Germany large-scale BESS",
			URL:     "https://www.eco-stor.com/en/storage-monitor",
			Country: "Germany",
		},
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
