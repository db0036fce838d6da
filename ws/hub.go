package ws

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Message is one outbound broadcast. An empty Topic reaches every client;
// otherwise only clients subscribed to that topic receive it.
type Message struct {
	Topic string
	Data  []byte
}

// Client is one WebSocket connection with its subscribed topics.
type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	Topics map[string]bool // empty means "everything"
}

func (c *Client) wants(topic string) bool {
	if topic == "" || len(c.Topics) == 0 {
		return true
	}
	return c.Topics[topic]
}

// Hub owns all client connections and fans broadcasts out to them. A
// client whose send buffer is full is dropped instead of stalling the
// broadcast loop, so one slow subscriber can never block the rest.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan Message, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
			h.log.Debug().Int("clients", len(h.Clients)).Msg("client registered")
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				h.log.Debug().Int("clients", len(h.Clients)).Msg("client unregistered")
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				if !client.wants(message.Topic) {
					continue
				}
				select {
				case client.Send <- message.Data:
				default:
					close(client.Send)
					delete(h.Clients, client)
					h.log.Warn().Msg("dropping slow client")
				}
			}
		}
	}
}

// PublishTopic broadcasts to the subscribers of one topic.
func (h *Hub) PublishTopic(topic string, data []byte) {
	h.Broadcast <- Message{Topic: topic, Data: data}
}

// PublishAll broadcasts to every connected client.
func (h *Hub) PublishAll(data []byte) {
	h.Broadcast <- Message{Data: data}
}
