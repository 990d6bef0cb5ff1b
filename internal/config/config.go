package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	Port            string
	LogLevel        string
	OperatorWorkers int

	ReportingCurrency  string
	ExchangeRates      map[string]decimal.Decimal
	InitialBalances    map[int64]decimal.Decimal
	LedgerStart        time.Time
	ExcludedCategories []string
	AuditSchedule      string
}

// PostgresURL is the lib/pq connection string.
func (c *Config) PostgresURL() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

func ProcessEnvironmentVariables() (*Config, error) {
	// A missing .env file is fine, the process environment still applies.
	_ = godotenv.Load()

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",

		Port:            "9446",
		LogLevel:        "info",
		OperatorWorkers: 4,

		ReportingCurrency: "TWD",
		ExchangeRates: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("32"),
			"JPY": decimal.RequireFromString("0.21"),
			"EUR": decimal.RequireFromString("35"),
		},
		InitialBalances:    map[int64]decimal.Decimal{},
		LedgerStart:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExcludedCategories: []string{"Inter-account Transfer", "Liability Draw"},
		AuditSchedule:      "@hourly",
	}

	setString(&env.PostgresAddress, "POSTGRES_ADDRESS")
	setString(&env.PostgresPort, "POSTGRES_PORT")
	setString(&env.PostgresDB, "POSTGRES_DB")
	setString(&env.PostgresUsername, "POSTGRES_USERNAME")
	setString(&env.PostgresPassword, "POSTGRES_PASSWORD")
	setString(&env.Port, "PORT")
	setString(&env.LogLevel, "LOG_LEVEL")
	setString(&env.ReportingCurrency, "REPORTING_CURRENCY")
	env.ReportingCurrency = strings.ToUpper(env.ReportingCurrency)

	if value, ok := os.LookupEnv("AUDIT_SCHEDULE"); ok {
		env.AuditSchedule = strings.TrimSpace(value)
	}

	if value := os.Getenv("OPERATOR_WORKERS"); len(value) != 0 {
		workers, err := strconv.Atoi(value)
		if err != nil || workers < 1 {
			return nil, fmt.Errorf("OPERATOR_WORKERS: must be a positive integer, got %q", value)
		}
		env.OperatorWorkers = workers
	}

	if value := os.Getenv("EXCHANGE_RATES"); len(value) != 0 {
		rates, err := ParseExchangeRates(value)
		if err != nil {
			return nil, fmt.Errorf("EXCHANGE_RATES: %w", err)
		}
		env.ExchangeRates = rates
	}

	if value := os.Getenv("INITIAL_BALANCES"); len(value) != 0 {
		balances, err := ParseInitialBalances(value)
		if err != nil {
			return nil, fmt.Errorf("INITIAL_BALANCES: %w", err)
		}
		env.InitialBalances = balances
	}

	if value := os.Getenv("LEDGER_START"); len(value) != 0 {
		start, err := time.Parse(dateLayout, value)
		if err != nil {
			return nil, fmt.Errorf("LEDGER_START: %w", err)
		}
		env.LedgerStart = start
	}

	if value, ok := os.LookupEnv("EXCLUDED_CATEGORIES"); ok {
		env.ExcludedCategories = splitList(value)
	}

	return &env, nil
}

// ParseExchangeRates parses "USD:32,JPY:0.21".
func ParseExchangeRates(value string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal)
	for _, pair := range splitList(value) {
		currency, rawRate, ok := strings.Cut(pair, ":")
		currency = strings.ToUpper(strings.TrimSpace(currency))
		if !ok || currency == "" {
			return nil, fmt.Errorf("invalid entry %q, want CURRENCY:RATE", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(rawRate))
		if err != nil {
			return nil, fmt.Errorf("invalid rate for %s: %w", currency, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive", currency)
		}
		rates[currency] = rate
	}
	return rates, nil
}

// ParseInitialBalances parses "1:200,2:-35.5" keyed by account id.
func ParseInitialBalances(value string) (map[int64]decimal.Decimal, error) {
	balances := make(map[int64]decimal.Decimal)
	for _, pair := range splitList(value) {
		rawID, rawAmount, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid entry %q, want ACCOUNT_ID:AMOUNT", pair)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid account id %q: %w", rawID, err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
		if err != nil {
			return nil, fmt.Errorf("invalid amount for account %d: %w", id, err)
		}
		balances[id] = amount
	}
	return balances, nil
}

func setString(target *string, key string) {
	if value := os.Getenv(key); len(value) != 0 {
		*target = value
	}
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
