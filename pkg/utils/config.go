package utils

import (
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	HTTPAddr      string
	TCPSyncAddr   string
	UDPNotifyAddr string
	CatalogURL    string
	FragmentsBase string
	DebounceDelay time.Duration
}

func LoadServerConfig() ServerConfig {
	cfg := ServerConfig{
		HTTPAddr:      ":8080",
		TCPSyncAddr:   ":7070",
		UDPNotifyAddr: ":7071",
		CatalogURL:    "http://localhost:9000/catalog.json",
		FragmentsBase: "http://localhost:9000/fragments",
		DebounceDelay: 300 * time.Millisecond,
	}

	if v := os.Getenv("SHOPFRONT_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("SHOPFRONT_TCP_SYNC_ADDR"); v != "" {
		cfg.TCPSyncAddr = v
	}
	if v := os.Getenv("SHOPFRONT_UDP_NOTIFY_ADDR"); v != "" {
		cfg.UDPNotifyAddr = v
	}
	if v := os.Getenv("SHOPFRONT_CATALOG_URL"); v != "" {
		cfg.CatalogURL = v
	}
	if v := os.Getenv("SHOPFRONT_FRAGMENTS_BASE"); v != "" {
		cfg.FragmentsBase = v
	}
	if v := os.Getenv("SHOPFRONT_DEBOUNCE_MS"); v != "" {
		// if parse fails, keep the default
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.DebounceDelay = time.Duration(ms) * time.Millisecond
		}
	}

	return cfg
}
