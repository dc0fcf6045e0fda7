package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Write and keepalive deadlines. A browser that stops answering pings
// within pongWait is dropped rather than left to wedge a broadcast.
const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// MessageType represents the type of refresh message.
type MessageType string

const (
	TypeRefresh MessageType = "refresh"
	TypeError   MessageType = "error"
	TypeClear   MessageType = "clear"
)

// Message is sent to browsers via WebSocket.
type Message struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error,omitempty"`
}

// refreshClient is one connected browser. Pings and broadcasts come
// from different goroutines; the mutex serializes writes on the conn.
type refreshClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// write sends one frame under the write deadline.
func (cl *refreshClient) write(messageType int, data []byte) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return cl.conn.WriteMessage(messageType, data)
}

// pingLoop keeps the connection's pong deadline fed until the read
// loop ends or a ping fails.
func (cl *refreshClient) pingLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := cl.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

// Refresher manages WebSocket connections for live refresh.
type Refresher struct {
	clients  map[*refreshClient]struct{}
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

// NewRefresher creates a new refresher.
func NewRefresher() *Refresher {
	return &Refresher{
		clients: make(map[*refreshClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local preview only
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (rf *Refresher) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := rf.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}
	cl := &refreshClient{conn: conn}

	rf.mu.Lock()
	rf.clients[cl] = struct{}{}
	rf.mu.Unlock()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	stop := make(chan struct{})
	go cl.pingLoop(stop)

	// Browsers never send application messages; the read loop notices
	// the disconnect and enforces the pong deadline.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(stop)
	rf.drop(cl)
}

// drop removes a client and closes its connection. Safe to call twice
// for the same client.
func (rf *Refresher) drop(cl *refreshClient) {
	rf.mu.Lock()
	delete(rf.clients, cl)
	rf.mu.Unlock()
	cl.conn.Close()
}

// NotifyRefresh tells all clients to reload the page.
func (rf *Refresher) NotifyRefresh() {
	rf.broadcast(Message{Type: TypeRefresh})
}

// NotifyError shows an error overlay on all clients.
func (rf *Refresher) NotifyError(errMsg string) {
	rf.broadcast(Message{Type: TypeError, Error: errMsg})
}

// ClearError clears the error overlay on all clients.
func (rf *Refresher) ClearError() {
	rf.broadcast(Message{Type: TypeClear})
}

// broadcast sends a message to all connected clients.
func (rf *Refresher) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	rf.mu.RLock()
	clients := make([]*refreshClient, 0, len(rf.clients))
	for cl := range rf.clients {
		clients = append(clients, cl)
	}
	rf.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.write(websocket.TextMessage, data); err != nil {
			rf.drop(cl)
		}
	}
}

// ClientCount returns the number of connected clients.
func (rf *Refresher) ClientCount() int {
	rf.mu.RLock()
	defer rf.mu.RUnlock()
	return len(rf.clients)
}

// Close closes all client connections. Their read loops unwind and
// drop themselves.
func (rf *Refresher) Close() {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	for cl := range rf.clients {
		cl.conn.Close()
		delete(rf.clients, cl)
	}
}

// clientScript is injected into served pages to connect browsers to the
// refresh socket.
const clientScript = `
<script>
(function() {
    'use strict';

    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;
    var ws = null;

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(protocol + '//' + location.host + '/_live/refresh');

        ws.onopen = function() {
            reconnectDelay = 1000;
            clearErrorOverlay();
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            switch (msg.type) {
                case 'refresh':
                    location.reload();
                    break;

                case 'error':
                    showErrorOverlay(msg.error);
                    break;

                case 'clear':
                    clearErrorOverlay();
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    function showErrorOverlay(error) {
        clearErrorOverlay();

        var overlay = document.createElement('div');
        overlay.id = 'weft-error-overlay';
        overlay.style.cssText = 'position:fixed;top:0;left:0;right:0;bottom:0;background:rgba(0,0,0,0.9);color:#fff;font-family:monospace;font-size:14px;padding:20px;overflow:auto;z-index:999999;';

        var pre = document.createElement('pre');
        pre.style.cssText = 'white-space:pre-wrap;word-wrap:break-word;background:#1a1a1a;padding:20px;border-radius:8px;border:1px solid #333;max-width:800px;margin:0 auto;';
        pre.textContent = error;

        overlay.appendChild(pre);
        document.body.appendChild(overlay);
    }

    function clearErrorOverlay() {
        var overlay = document.getElementById('weft-error-overlay');
        if (overlay) {
            overlay.remove();
        }
    }

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
</script>
`
