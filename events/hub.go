package events

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait bounds how long a single stalled client can hold up a broadcast.
const writeWait = 5 * time.Second

// Event types pushed to dashboard clients.
const (
	EventReservationUpdate = "reservation_update"
	EventTableUpdate       = "table_update"
	EventTableSeated       = "table_seated"
	EventTableFinished     = "table_finished"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// hub holds every connected dashboard client.
type eventHub struct {
	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
}

var hub = eventHub{
	clients: make(map[*websocket.Conn]bool),
}

// RegisterClient adds a connection to the broadcast set.
func RegisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = true
}

// UnregisterClient removes a connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// Broadcast sends msg to every connected client. Write failures only drop the
// message for that client; the read loop handles disconnects.
func Broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling event message: %v", err)
		return
	}

	for conn := range hub.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending event to client: %v", err)
		}
	}
}
