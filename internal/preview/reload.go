package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// MessageType is the type of a reload message.
type MessageType string

const (
	MessageReload MessageType = "reload"
	MessageError  MessageType = "error"
	MessageClear  MessageType = "clear"
)

// Message is sent to browsers over the reload socket.
type Message struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error,omitempty"`
}

// ReloadServer keeps the websocket connections of open preview pages.
type ReloadServer struct {
	mu       sync.RWMutex
	clients  map[string]*websocket.Conn
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewReloadServer creates a ReloadServer.
func NewReloadServer(logger *slog.Logger) *ReloadServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReloadServer{
		clients: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request and holds the connection until the
// browser goes away.
func (r *ReloadServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Debug("reload upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.clients[id] = conn
	r.mu.Unlock()
	r.logger.Debug("reload client connected", "client", id)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	r.remove(id)
	r.logger.Debug("reload client disconnected", "client", id)
}

// NotifyReload tells every page to reload.
func (r *ReloadServer) NotifyReload() {
	r.broadcast(Message{Type: MessageReload})
}

// NotifyError shows msg in an overlay on every page.
func (r *ReloadServer) NotifyError(msg string) {
	r.broadcast(Message{Type: MessageError, Error: msg})
}

// ClearError removes the error overlay.
func (r *ReloadServer) ClearError() {
	r.broadcast(Message{Type: MessageClear})
}

func (r *ReloadServer) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	r.mu.RLock()
	clients := make(map[string]*websocket.Conn, len(r.clients))
	for id, conn := range r.clients {
		clients[id] = conn
	}
	r.mu.RUnlock()

	for id, conn := range clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			r.remove(id)
		}
	}
}

func (r *ReloadServer) remove(id string) {
	r.mu.Lock()
	conn, ok := r.clients[id]
	delete(r.clients, id)
	r.mu.Unlock()
	if ok {
		conn.Close()
	}
}

// ClientCount returns the number of connected pages.
func (r *ReloadServer) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Close disconnects every page.
func (r *ReloadServer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, conn := range r.clients {
		conn.Close()
		delete(r.clients, id)
	}
}

// ReloadPath is where the client script connects.
const ReloadPath = "/_vnode/reload"

// ClientScript is injected before </body> when live reload is on.
const ClientScript = `<script>
(function() {
    var delay = 1000;

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '` + ReloadPath + `');

        ws.onopen = function() {
            delay = 1000;
            clear();
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            if (msg.type === 'reload') {
                location.reload();
            } else if (msg.type === 'error') {
                show(msg.error);
            } else if (msg.type === 'clear') {
                clear();
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                delay = Math.min(delay * 2, 30000);
                connect();
            }, delay);
        };
    }

    function show(text) {
        clear();
        var overlay = document.createElement('pre');
        overlay.id = 'vnode-error-overlay';
        overlay.style.cssText = 'position:fixed;inset:0;margin:0;padding:20px;background:rgba(0,0,0,0.9);color:#fff;font:14px monospace;white-space:pre-wrap;z-index:999999;';
        overlay.textContent = text;
        document.body.appendChild(overlay);
    }

    function clear() {
        var overlay = document.getElementById('vnode-error-overlay');
        if (overlay) {
            overlay.remove();
        }
    }

    connect();
})();
</script>`
