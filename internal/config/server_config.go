package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github/chapool/hd-wallet/internal/util"
)

type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableLoggerMiddleware         bool
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	PrettyPrintConsole bool
	Caller             bool
}

type ManagementServer struct {
	ProbeTimeout  time.Duration
	EnableMetrics bool
}

// Store drivers accepted by Wallet.StoreDriver.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverBadger   = "badger"
	StoreDriverMemory   = "memory"
)

// Mnemonic validation modes accepted by Wallet.MnemonicValidation.
const (
	MnemonicValidationStrict = "strict"
	MnemonicValidationWords  = "words"
)

type Wallet struct {
	NodeURLs               []string
	ChainID                int64
	NodeTimeout            time.Duration
	StoreDriver            string
	BadgerPath             string
	MnemonicValidation     string
	ExplorerAddressURL     string
	ExplorerTransactionURL string
	DefaultListLimit       int
	MaxListLimit           int
}

type Server struct {
	Database   Database
	Echo       EchoServer
	Logger     LoggerServer
	Management ManagementServer
	Wallet     Wallet
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGHOST", "postgres")
	v.SetDefault("PGPORT", 5432)
	v.SetDefault("PGUSER", "dbuser")
	v.SetDefault("PGPASSWORD", "")
	v.SetDefault("PGDATABASE", "wallet")
	v.SetDefault("PGSSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 16)
	v.SetDefault("DB_MAX_IDLE_CONNS", 4)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute)

	v.SetDefault("SERVER_ECHO_LISTEN_ADDRESS", ":8080")
	v.SetDefault("SERVER_ECHO_DEBUG", false)
	v.SetDefault("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true)
	v.SetDefault("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true)

	v.SetDefault("SERVER_LOGGER_LEVEL", "info")
	v.SetDefault("SERVER_LOGGER_REQUEST_LEVEL", "info")
	v.SetDefault("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false)
	v.SetDefault("SERVER_LOGGER_CALLER", false)

	v.SetDefault("SERVER_MANAGEMENT_PROBE_TIMEOUT", 2500*time.Millisecond)
	v.SetDefault("SERVER_MANAGEMENT_ENABLE_METRICS", true)

	v.SetDefault("WALLET_NODE_URL", "http://127.0.0.1:8545")
	v.SetDefault("WALLET_CHAIN_ID", 1)
	v.SetDefault("WALLET_NODE_TIMEOUT", 10*time.Second)
	v.SetDefault("WALLET_STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("WALLET_BADGER_PATH", "/app/data/wallets")
	v.SetDefault("WALLET_MNEMONIC_VALIDATION", MnemonicValidationStrict)
	v.SetDefault("WALLET_EXPLORER_ADDRESS_URL", "https://etherscan.io/address/{address}")
	v.SetDefault("WALLET_EXPLORER_TRANSACTION_URL", "https://etherscan.io/tx/{tx_id}")
	v.SetDefault("WALLET_LIST_DEFAULT_LIMIT", 20)
	v.SetDefault("WALLET_LIST_MAX_LIMIT", 100)
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined above. A .env.local in the project root is loaded first.
func DefaultServiceConfigFromEnv() Server {
	DotEnvTryLoad(filepath.Join(util.GetProjectRootDir(), ".env.local"), os.Setenv)

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return Server{
		Database: Database{
			Host:     v.GetString("PGHOST"),
			Port:     v.GetInt("PGPORT"),
			Username: v.GetString("PGUSER"),
			Password: v.GetString("PGPASSWORD"),
			Database: v.GetString("PGDATABASE"),
			AdditionalParams: map[string]string{
				"sslmode": v.GetString("PGSSLMODE"),
			},
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Echo: EchoServer{
			Debug:                          v.GetBool("SERVER_ECHO_DEBUG"),
			ListenAddress:                  v.GetString("SERVER_ECHO_LISTEN_ADDRESS"),
			HideInternalServerErrorDetails: v.GetBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS"),
			EnableRecoverMiddleware:        v.GetBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE"),
			EnableRequestIDMiddleware:      v.GetBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE"),
			EnableLoggerMiddleware:         v.GetBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE"),
		},
		Logger: LoggerServer{
			Level:              parseLevel(v.GetString("SERVER_LOGGER_LEVEL"), zerolog.InfoLevel),
			RequestLevel:       parseLevel(v.GetString("SERVER_LOGGER_REQUEST_LEVEL"), zerolog.InfoLevel),
			PrettyPrintConsole: v.GetBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE"),
			Caller:             v.GetBool("SERVER_LOGGER_CALLER"),
		},
		Management: ManagementServer{
			ProbeTimeout:  v.GetDuration("SERVER_MANAGEMENT_PROBE_TIMEOUT"),
			EnableMetrics: v.GetBool("SERVER_MANAGEMENT_ENABLE_METRICS"),
		},
		Wallet: Wallet{
			NodeURLs:               ParseURLList(v.GetString("WALLET_NODE_URL")),
			ChainID:                v.GetInt64("WALLET_CHAIN_ID"),
			NodeTimeout:            v.GetDuration("WALLET_NODE_TIMEOUT"),
			StoreDriver:            strings.ToLower(v.GetString("WALLET_STORE_DRIVER")),
			BadgerPath:             v.GetString("WALLET_BADGER_PATH"),
			MnemonicValidation:     strings.ToLower(v.GetString("WALLET_MNEMONIC_VALIDATION")),
			ExplorerAddressURL:     v.GetString("WALLET_EXPLORER_ADDRESS_URL"),
			ExplorerTransactionURL: v.GetString("WALLET_EXPLORER_TRANSACTION_URL"),
			DefaultListLimit:       v.GetInt("WALLET_LIST_DEFAULT_LIMIT"),
			MaxListLimit:           v.GetInt("WALLET_LIST_MAX_LIMIT"),
		},
	}
}

// ParseURLList splits a comma separated URL list, dropping blanks.
func ParseURLList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}

	return result
}

func parseLevel(raw string, fallback zerolog.Level) zerolog.Level {
	level, err := zerolog.ParseLevel(raw)
	if err != nil || raw == "" {
		return fallback
	}

	return level
}
