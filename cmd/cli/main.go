package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"shopfront/internal/debounce"
	"shopfront/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type sessionData struct {
	SessionID string `json:"session_id"`
}

type productListResponse struct {
	Total int              `json:"total"`
	Items []models.Product `json:"items"`
}

func main() {
	global := flag.NewFlagSet("shopfront", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	sessionPath := global.String("session", defaultSessionPath(), "session file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "products":
		handleProducts(ctx, client, *baseURL, sub, args[2:])
	case "cart":
		handleCart(ctx, client, *baseURL, *sessionPath, sub, args[2:])
	case "shop":
		handleShop(ctx, client, *baseURL, args[1:])
	case "sync":
		handleSync(*baseURL, sub, args[2:])
	case "notify":
		handleNotify(*sessionPath, sub, args[2:])
	case "export":
		handleExport(ctx, client, *baseURL, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleProducts(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "search":
		fs := flag.NewFlagSet("products search", flag.ExitOnError)
		query := fs.String("q", "", "search query")
		category := fs.String("category", "", "category filter (All for everything)")
		_ = fs.Parse(args)

		resp, err := fetchProducts(ctx, client, baseURL, *query, *category)
		if err != nil {
			log.Fatalf("search failed: %v", err)
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("products show", flag.ExitOnError)
		id := fs.Int("id", 0, "product id")
		_ = fs.Parse(args)
		if *id <= 0 {
			log.Fatal("product id is required")
		}

		var resp models.Product
		if err := doJSON(ctx, client, http.MethodGet, fmt.Sprintf("%s/products/%d", baseURL, *id), "", nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	case "related":
		fs := flag.NewFlagSet("products related", flag.ExitOnError)
		id := fs.Int("id", 0, "product id")
		limit := fs.Int("limit", 4, "max related products")
		_ = fs.Parse(args)
		if *id <= 0 {
			log.Fatal("product id is required")
		}

		var resp productListResponse
		endpoint := fmt.Sprintf("%s/products/%d/related?limit=%d", baseURL, *id, *limit)
		if err := doJSON(ctx, client, http.MethodGet, endpoint, "", nil, &resp); err != nil {
			log.Fatalf("related failed: %v", err)
		}
		printJSON(resp)
	case "categories":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/categories", "", nil, &resp); err != nil {
			log.Fatalf("categories failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: shopfront products <search|show|related|categories>")
	}
}

func handleCart(ctx context.Context, client *http.Client, baseURL, sessionPath, sub string, args []string) {
	session := mustSession(sessionPath)
	switch sub {
	case "show":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/cart", session, nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	case "add":
		fs := flag.NewFlagSet("cart add", flag.ExitOnError)
		id := fs.Int("id", 0, "product id")
		_ = fs.Parse(args)
		if *id <= 0 {
			log.Fatal("product id is required")
		}

		payload := map[string]any{"product_id": *id}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/cart/items", session, payload, &resp); err != nil {
			log.Fatalf("add failed: %v", err)
		}
		printJSON(resp)
	case "remove":
		fs := flag.NewFlagSet("cart remove", flag.ExitOnError)
		index := fs.Int("index", -1, "line item position")
		_ = fs.Parse(args)
		if *index < 0 {
			log.Fatal("line item index is required")
		}

		var resp map[string]any
		endpoint := fmt.Sprintf("%s/cart/items/%d", baseURL, *index)
		if err := doJSON(ctx, client, http.MethodDelete, endpoint, session, nil, &resp); err != nil {
			log.Fatalf("remove failed: %v", err)
		}
		printJSON(resp)
	case "totals":
		var resp models.Totals
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/cart/totals", session, nil, &resp); err != nil {
			log.Fatalf("totals failed: %v", err)
		}
		printJSON(resp)
	case "checkout":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/cart/checkout", session, nil, &resp); err != nil {
			log.Fatalf("checkout failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: shopfront cart <show|add|remove|totals|checkout>")
	}
}

// handleShop runs the interactive search: every input line re-schedules a
// debounced catalog query, so rapid typing coalesces into one request.
func handleShop(ctx context.Context, client *http.Client, baseURL string, args []string) {
	fs := flag.NewFlagSet("shop", flag.ExitOnError)
	category := fs.String("category", "All", "category filter")
	delayMS := fs.Int("debounce", 300, "debounce delay in milliseconds")
	_ = fs.Parse(args)

	deb := debounce.New(time.Duration(*delayMS) * time.Millisecond)
	defer deb.Stop()

	fmt.Printf("type to search (category: %s), empty line lists everything, Ctrl-D quits\n", *category)

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		query := strings.TrimSpace(sc.Text())
		deb.Trigger(func() {
			resp, err := fetchProducts(ctx, client, baseURL, query, *category)
			if err != nil {
				log.Printf("search failed: %v", err)
				return
			}
			fmt.Printf("-- %d result(s) for %q --\n", resp.Total, query)
			for _, p := range resp.Items {
				price := p.DisplayPrice
				if price == "" {
					price = "$" + p.Price.String()
				}
				fmt.Printf("  #%d %s (%s) %s\n", p.ID, p.Name, p.Category, price)
			}
		})
	}
	if err := sc.Err(); err != nil {
		log.Fatalf("stdin: %v", err)
	}
}

func handleSync(baseURL, sub string, args []string) {
	switch sub {
	case "listen":
		fs := flag.NewFlagSet("sync listen", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7070", "TCP sync server address")
		_ = fs.Parse(args)
		for {
			if err := runSyncTCP(*addr); err != nil {
				log.Printf("[sync] disconnected: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	case "subscribe":
		fs := flag.NewFlagSet("sync subscribe", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws")
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		if err := runWebSocket(endpoint); err != nil {
			log.Fatalf("subscribe failed: %v", err)
		}
	default:
		log.Fatal("usage: shopfront sync <listen|subscribe>")
	}
}

func handleNotify(sessionPath, sub string, args []string) {
	switch sub {
	case "watch":
		fs := flag.NewFlagSet("notify watch", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7071", "UDP notify server address")
		_ = fs.Parse(args)

		session := mustSession(sessionPath)
		if err := runNotifyUDP(*addr, session); err != nil {
			log.Fatalf("notify watch failed: %v", err)
		}
	default:
		log.Fatal("usage: shopfront notify watch")
	}
}

func handleExport(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "json":
		fs := flag.NewFlagSet("export json", flag.ExitOnError)
		out := fs.String("out", "data/catalog-export.json", "output JSON path")
		_ = fs.Parse(args)

		resp, err := fetchProducts(ctx, client, baseURL, "", "All")
		if err != nil {
			log.Fatalf("export json failed: %v", err)
		}
		if err := writeJSON(*out, resp.Items); err != nil {
			log.Fatalf("write json failed: %v", err)
		}
		log.Printf("exported %d products to %s", len(resp.Items), *out)
	case "csv":
		fs := flag.NewFlagSet("export csv", flag.ExitOnError)
		out := fs.String("out", "data/catalog-export.csv", "output CSV path")
		_ = fs.Parse(args)

		resp, err := fetchProducts(ctx, client, baseURL, "", "All")
		if err != nil {
			log.Fatalf("export csv failed: %v", err)
		}
		if err := writeCSV(*out, resp.Items); err != nil {
			log.Fatalf("write csv failed: %v", err)
		}
		log.Printf("exported %d products to %s", len(resp.Items), *out)
	default:
		log.Fatal("usage: shopfront export <json|csv>")
	}
}

func fetchProducts(ctx context.Context, client *http.Client, baseURL, query, category string) (productListResponse, error) {
	var resp productListResponse

	u, err := url.Parse(baseURL + "/products")
	if err != nil {
		return resp, err
	}
	qv := u.Query()
	if query != "" {
		qv.Set("q", query)
	}
	if category != "" {
		qv.Set("category", category)
	}
	u.RawQuery = qv.Encode()

	if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

func runSyncTCP(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync] connected to %s", addr)
	reader := bufio.NewScanner(conn)
	for reader.Scan() {
		line := reader.Bytes()
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := reader.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[sync] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func runNotifyUDP(addr, session string) error {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	reg, err := json.Marshal(map[string]string{
		"type":       "register",
		"session_id": session,
	})
	if err != nil {
		return err
	}
	if _, err := conn.Write(reg); err != nil {
		return err
	}
	log.Printf("[notify] registered session %s at %s", session, addr)

	buf := make([]byte, 2048)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return err
		}
		fmt.Println(string(buf[:n]))
	}
}

func writeJSON(path string, items []models.Product) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func writeCSV(path string, items []models.Product) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{
		"id", "name", "brand", "category", "summary", "details", "price", "display_price", "images",
	}); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write([]string{
			fmt.Sprintf("%d", item.ID),
			item.Name,
			item.Brand,
			item.Category,
			item.Summary,
			item.Details,
			item.Price.String(),
			item.DisplayPrice,
			strings.Join(item.Images, "|"),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint, session string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "cart_session", Value: session})
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return nil
}

// websocketURL rewrites an http(s) base URL into the matching ws(s)
// endpoint.
func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = path
	return u.String(), nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.shopfront-session.json"
	}
	return filepath.Join(home, ".shopfront", "session.json")
}

// mustSession loads the cart session id, minting and saving one on first
// use so every cart command talks about the same cart.
func mustSession(path string) string {
	if data, err := os.ReadFile(path); err == nil {
		var sd sessionData
		if err := json.Unmarshal(data, &sd); err == nil && strings.TrimSpace(sd.SessionID) != "" {
			return strings.TrimSpace(sd.SessionID)
		}
	}

	id := uuid.NewString()
	if err := saveSession(path, id); err != nil {
		log.Fatalf("save session: %v", err)
	}
	return id
}

func saveSession(path, id string) error {
	if id == "" {
		return errors.New("empty session id")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sessionData{SessionID: id}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func printUsage() {
	fmt.Println("shopfront <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  products search|show|related|categories")
	fmt.Println("  cart show|add|remove|totals|checkout")
	fmt.Println("  shop            interactive debounced search")
	fmt.Println("  sync listen|subscribe")
	fmt.Println("  notify watch")
	fmt.Println("  export json|csv")
}
