package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kingrain94/tenant-guard/internal/api/dto"
)

// Streams audit entries from a running server and prints one line per entry.
func main() {
	addr := flag.String("addr", "localhost:10000", "server host:port")
	super := flag.Bool("super", false, "use the superadmin stream (all tenants unless -tenant is set)")
	tenant := flag.String("tenant", "", "tenant to follow on the superadmin stream")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("Usage: websocket_client [-addr host:port] [-super [-tenant id]] <JWT_TOKEN>")
	}
	token := flag.Arg(0)

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/api/v1/audit/stream"}
	if *super {
		u.Path = "/api/v1/super/audit/stream"
		if *tenant != "" {
			u.RawQuery = url.Values{"tenant_id": {*tenant}}.Encode()
		}
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	fmt.Printf("Connecting to %s...\n", u.String())
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		log.Fatal("Failed to connect:", err)
	}
	defer conn.Close()
	conn.SetPingHandler(func(appData string) error {
		return conn.WriteMessage(websocket.PongMessage, nil)
	})

	fmt.Println("Connected! Waiting for audit entries...")
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			var entry dto.AuditEntryResponse
			if err := json.Unmarshal(message, &entry); err != nil {
				fmt.Printf("%s\n", string(message))
				continue
			}
			fmt.Printf("%s [%s] tenant=%s actor=%s %s %s\n",
				entry.CreatedAt.Format(time.RFC3339), entry.Severity, entry.TenantID, entry.ActorID, entry.Code, entry.Message)
		}
	}()

	select {
	case <-done:
		return
	case <-interrupt:
		fmt.Println("\nDisconnecting...")
		err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("Write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
