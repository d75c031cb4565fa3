package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// BaseDir is the inbox: new PDFs land here and get sorted into the
	// provider subfolders below.
	BaseDir   string
	DBPath    string
	OutputDir string

	SwisscomDir  string
	SwisscardDir string
	SZKBDir      string
	StromDir     string

	SwisscomCSV      string
	SwisscardCSV     string
	SZKBCSV          string
	StromCSV         string
	StromVerifiedCSV string

	// CardUseMinimumPayment selects which of the five card-statement
	// amounts becomes the record amount: minimum payment instead of the
	// new balance.
	CardUseMinimumPayment bool

	IMAPHost     string
	IMAPPort     int
	IMAPSecure   bool
	IMAPUser     string
	IMAPPassword string
	IMAPMailbox  string
	IMAPMarkSeen bool
	IMAPFetchMax int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	base := getEnv("BASE_DIR", filepath.Join(cwd, "data", "inbox"))

	cfg := Config{
		BaseDir:   base,
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		SwisscomDir:  filepath.Join(base, getEnv("FOLDER_SWISSCOM", "swisscom")),
		SwisscardDir: filepath.Join(base, getEnv("FOLDER_SWISSCARD", "swisscard")),
		SZKBDir:      filepath.Join(base, getEnv("FOLDER_SZKB", "szkb_privatkonto")),
		StromDir:     filepath.Join(base, getEnv("FOLDER_STROM", "strom")),

		CardUseMinimumPayment: getEnvBool("CARD_USE_MINIMUM_PAYMENT", false),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPSecure:   getEnvBool("IMAP_SECURE", true),
		IMAPUser:     getEnv("IMAP_USER", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMailbox:  getEnv("IMAP_MAILBOX", "INBOX"),
		IMAPMarkSeen: getEnvBool("IMAP_MARK_SEEN", false),
		IMAPFetchMax: getEnvInt("IMAP_FETCH_MAX", 50),
	}

	cfg.SwisscomCSV = filepath.Join(cfg.SwisscomDir, "swisscom.csv")
	cfg.SwisscardCSV = filepath.Join(cfg.SwisscardDir, "swisscard.csv")
	cfg.SZKBCSV = filepath.Join(cfg.SZKBDir, "szkb_privatkonto.csv")
	cfg.StromCSV = filepath.Join(cfg.StromDir, "strom.csv")
	cfg.StromVerifiedCSV = filepath.Join(cfg.StromDir, "strom_verified.csv")

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
