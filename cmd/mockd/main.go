// mockd is a development stand-in for the copy-trading backend. It serves
// the dashboard's endpoints from mutable in-memory state so the TUI can be
// exercised without broker connectivity: cancelling moves pending orders to
// cancelled, closing moves open positions to closed.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type row = map[string]any

type backendState struct {
	mu        sync.Mutex
	orders    map[string][]row
	positions map[string][]row
	copyOn    bool
	copyLogs  []row

	subs   map[*websocket.Conn]struct{}
	subsMu sync.Mutex
}

func newBackendState() *backendState {
	return &backendState{
		orders: map[string][]row{
			"pending": {
				{"name": "acct1", "symbol": "AAPL", "transaction_type": "BUY", "quantity": 10, "price": 189.5, "status": "PENDING", "order_id": "OID1"},
				{"name": "acct2", "symbol": "TSLA", "transaction_type": "SELL", "quantity": 5, "price": 242.1, "status": "PENDING", "order_id": "OID2"},
			},
			"cancelled": {},
			"traded": {
				{"name": "acct1", "symbol": "MSFT", "transaction_type": "BUY", "quantity": 20, "price": 415.0, "status": "TRADED", "order_id": "OID3"},
			},
			"rejected": {},
			"others":   {},
		},
		positions: map[string][]row{
			"open": {
				{"name": "acct1", "symbol": "TSLA", "quantity": 15, "buy_avg": 240.0, "sell_avg": nil, "net_profit": 31.5},
				{"name": "acct2", "symbol": "AAPL", "quantity": -10, "buy_avg": nil, "sell_avg": 190.2, "net_profit": -12.4},
			},
			"closed": {},
		},
		copyLogs: []row{
			{"time": time.Now().Format("2006-01-02 15:04:05"), "account": "child1", "message": "Order OID9 copied successfully."},
		},
		subs: map[*websocket.Conn]struct{}{},
	}
}

// broadcast pushes a stream event to connected dashboards.
func (s *backendState) broadcast(event string) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for conn := range s.subs {
		if err := conn.WriteJSON(gin.H{"event": event}); err != nil {
			conn.Close()
			delete(s.subs, conn)
		}
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

func main() {
	listen := flag.String("listen", ":5000", "HTTP listen address")
	flag.Parse()

	st := newBackendState()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/get_orders", func(c *gin.Context) {
		st.mu.Lock()
		defer st.mu.Unlock()
		c.JSON(http.StatusOK, st.orders)
	})

	r.GET("/get_positions", func(c *gin.Context) {
		st.mu.Lock()
		defer st.mu.Unlock()
		c.JSON(http.StatusOK, st.positions)
	})

	r.POST("/cancel_order", func(c *gin.Context) {
		var req struct {
			Orders []struct {
				Name    string `json:"name"`
				Symbol  string `json:"symbol"`
				OrderID string `json:"order_id"`
			} `json:"orders"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Orders == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		st.mu.Lock()
		var messages []string
		for _, o := range req.Orders {
			moved := false
			kept := st.orders["pending"][:0]
			for _, p := range st.orders["pending"] {
				if fmt.Sprint(p["order_id"]) == o.OrderID {
					p["status"] = "CANCELLED"
					st.orders["cancelled"] = append(st.orders["cancelled"], p)
					moved = true
					continue
				}
				kept = append(kept, p)
			}
			st.orders["pending"] = kept
			if moved {
				messages = append(messages, fmt.Sprintf("Order %s canceled successfully.", o.OrderID))
			} else {
				messages = append(messages, fmt.Sprintf("Failed to cancel order %s: not found", o.OrderID))
			}
		}
		st.mu.Unlock()

		st.broadcast("update_orders")
		c.JSON(http.StatusOK, gin.H{"message": messages})
	})

	r.POST("/close_position", func(c *gin.Context) {
		var req struct {
			Positions []struct {
				Name            string  `json:"name"`
				Symbol          string  `json:"symbol"`
				Quantity        float64 `json:"quantity"`
				TransactionType string  `json:"transaction_type"`
			} `json:"positions"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Positions == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		st.mu.Lock()
		var messages []string
		for _, p := range req.Positions {
			moved := false
			kept := st.positions["open"][:0]
			for _, open := range st.positions["open"] {
				if fmt.Sprint(open["symbol"]) == p.Symbol && fmt.Sprint(open["name"]) == p.Name {
					open["quantity"] = 0
					st.positions["closed"] = append(st.positions["closed"], open)
					moved = true
					continue
				}
				kept = append(kept, open)
			}
			st.positions["open"] = kept
			if moved {
				messages = append(messages, fmt.Sprintf("Position %s closed successfully.", p.Symbol))
			} else {
				messages = append(messages, fmt.Sprintf("Error: Position %s not found", p.Symbol))
			}
		}
		st.mu.Unlock()

		st.broadcast("update_positions")
		c.JSON(http.StatusOK, gin.H{"message": messages})
	})

	r.POST("/toggle_copy_trading", func(c *gin.Context) {
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
		st.mu.Lock()
		st.copyOn = req.Enabled
		st.mu.Unlock()

		message := "Copy Trading Disabled"
		if req.Enabled {
			message = "Copy Trading Enabled"
		}
		c.JSON(http.StatusOK, gin.H{"message": message})
	})

	r.GET("/get_copy_trading_status", func(c *gin.Context) {
		st.mu.Lock()
		defer st.mu.Unlock()
		status := "Stopped"
		if st.copyOn {
			status = "Running"
		}
		c.JSON(http.StatusOK, gin.H{"status": status})
	})

	r.GET("/get_copy_trading_logs", func(c *gin.Context) {
		st.mu.Lock()
		defer st.mu.Unlock()
		c.JSON(http.StatusOK, st.copyLogs)
	})

	r.GET("/stream", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		st.subsMu.Lock()
		st.subs[conn] = struct{}{}
		st.subsMu.Unlock()
	})

	log.Printf("mockd listening on %s", *listen)
	if err := r.Run(*listen); err != nil {
		log.Fatalf("mockd: %v", err)
	}
}
