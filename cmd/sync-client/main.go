package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"
)

type cartEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Items     int    `json:"items"`
}

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP cart sync server address")
	only := flag.String("type", "", "only print events of this type (e.g. cart.add)")
	raw := flag.Bool("raw", false, "print raw JSON lines instead of summaries")
	flag.Parse()

	for {
		if err := watch(*addr, *only, *raw); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func watch(addr, only string, raw bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()

		var ev cartEvent
		if err := json.Unmarshal(line, &ev); err != nil || ev.Type == "" {
			// welcome messages and anything non-event print raw
			fmt.Println(string(line))
			continue
		}
		if only != "" && ev.Type != only {
			continue
		}
		if raw {
			fmt.Println(string(line))
			continue
		}
		fmt.Println(summarize(ev))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func summarize(ev cartEvent) string {
	session := ev.SessionID
	if len(session) > 8 {
		session = session[:8]
	}

	switch ev.Type {
	case "cart.add":
		return fmt.Sprintf("[%s] %s added %q (%d in cart)", session, ev.Type, ev.Name, ev.Items)
	case "cart.remove":
		return fmt.Sprintf("[%s] %s removed %q (%d in cart)", session, ev.Type, ev.Name, ev.Items)
	case "cart.checkout":
		return fmt.Sprintf("[%s] %s with %d item(s)", session, ev.Type, ev.Items)
	default:
		return fmt.Sprintf("[%s] %s %s", session, ev.Type, strings.TrimSpace(ev.Name))
	}
}
