package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Load variables from a .env file in the working directory, if present.
// Variables already set in the environment win.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Server settings for the HTTP gateway.
type Server struct {
	Port         string
	LedgerDriver string
	DBPath       string
	DatabaseURL  string
}

func LoadServer() Server {
	return Server{
		Port:         Get("PORT", "8080"),
		LedgerDriver: Get("LEDGER_DRIVER", "sqlite"),
		DBPath:       Get("DB_PATH", "data/ledger.db"),
		DatabaseURL:  Get("DATABASE_URL", ""),
	}
}

// Chaincode settings. With ServerAddress set the chaincode runs as an
// external service the peer dials; otherwise it connects to the peer.
type Chaincode struct {
	ID            string
	ServerAddress string
}

func LoadChaincode() Chaincode {
	return Chaincode{
		ID:            Get("CHAINCODE_ID", ""),
		ServerAddress: Get("CHAINCODE_SERVER_ADDRESS", ""),
	}
}
