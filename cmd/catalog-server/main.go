package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"
)

// Serves the static catalog document and the shared page fragments that
// the storefront consumes read-only.
func main() {
	var (
		addr     = flag.String("addr", ":9000", "listen address")
		dataDir  = flag.String("data", "data", "data directory")
		fragsDir = flag.String("fragments", "data/fragments", "fragments directory")
	)
	flag.Parse()

	catalogPath := filepath.Join(*dataDir, "catalog.json")

	http.HandleFunc("/catalog.json", func(w http.ResponseWriter, r *http.Request) {
		b, err := os.ReadFile(catalogPath)
		if err != nil {
			http.Error(w, "cannot read catalog.json: "+err.Error(), http.StatusInternalServerError)
			return
		}
		// validate JSON so a bad file doesn't silently break clients
		var tmp any
		if err := json.Unmarshal(b, &tmp); err != nil {
			http.Error(w, "catalog.json invalid JSON: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	})

	http.Handle("/fragments/", http.StripPrefix("/fragments/", http.FileServer(http.Dir(*fragsDir))))

	log.Printf("catalog-server listening on %s (catalog: %s)", *addr, catalogPath)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
