package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"price-chart/logging"
	"price-chart/models"
	"price-chart/series"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

// subscription is what a client last asked for; nil until its first request.
type subscription struct {
	days    int
	seed    float64
	compare bool
}

type request struct {
	conn *websocket.Conn
	req  models.SubscribeRequest
	err  error
}

// SeriesServer pushes generated series to websocket clients. All writes happen
// on the run goroutine, so each connection has a single writer.
type SeriesServer struct {
	generator  *series.Generator
	resolver   *series.Resolver
	refresh    time.Duration
	clients    map[*websocket.Conn]*subscription
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	requests   chan request
	done       chan struct{}
	lastDay    string
	mutex      sync.RWMutex
	log        *logrus.Entry
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewSeriesServer(gen *series.Generator, resolver *series.Resolver, refresh time.Duration, logger logrus.FieldLogger) *SeriesServer {
	if refresh <= 0 {
		refresh = time.Minute
	}
	return &SeriesServer{
		generator:  gen,
		resolver:   resolver,
		refresh:    refresh,
		clients:    make(map[*websocket.Conn]*subscription),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		requests:   make(chan request, 16),
		done:       make(chan struct{}),
		log:        logging.Component(logger, "websocket"),
	}
}

// Start runs the hub until ctx is cancelled, then closes every client.
func (s *SeriesServer) Start(ctx context.Context) {
	s.lastDay = s.generator.Today()
	go s.run(ctx)
}

func (s *SeriesServer) run(ctx context.Context) {
	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			s.mutex.Lock()
			for client := range s.clients {
				client.Close()
				delete(s.clients, client)
			}
			s.mutex.Unlock()
			s.log.Info("Series hub stopped")
			return

		case client := <-s.register:
			s.mutex.Lock()
			s.clients[client] = nil
			total := len(s.clients)
			s.mutex.Unlock()
			s.log.WithField("clients", total).Info("Client connected")

		case client := <-s.unregister:
			s.drop(client)

		case r := <-s.requests:
			s.handleRequest(r)

		case <-ticker.C:
			today := s.generator.Today()
			if today == s.lastDay {
				continue
			}
			s.lastDay = today
			s.refreshAll()
		}
	}
}

func (s *SeriesServer) handleRequest(r request) {
	s.mutex.RLock()
	_, ok := s.clients[r.conn]
	s.mutex.RUnlock()
	if !ok {
		return
	}

	if r.err != nil {
		s.send(r.conn, models.SeriesMessage{Type: models.MessageError, Error: r.err.Error()})
		return
	}
	if r.req.Type != "" && r.req.Type != models.MessageSubscribe {
		s.send(r.conn, models.SeriesMessage{Type: models.MessageError, Error: "unsupported message type: " + r.req.Type})
		return
	}

	sub := &subscription{
		days:    s.resolver.PeriodDays(r.req.Period, string(r.req.Days)),
		seed:    s.resolver.Seed(string(r.req.Seed)),
		compare: r.req.Compare,
	}
	s.mutex.Lock()
	s.clients[r.conn] = sub
	s.mutex.Unlock()

	s.push(r.conn, sub)
}

// refreshAll re-sends every subscription; labels move when the date changes.
func (s *SeriesServer) refreshAll() {
	s.mutex.RLock()
	subs := make(map[*websocket.Conn]*subscription, len(s.clients))
	for client, sub := range s.clients {
		if sub != nil {
			subs[client] = sub
		}
	}
	s.mutex.RUnlock()

	s.log.WithFields(logrus.Fields{"day": s.lastDay, "subscriptions": len(subs)}).Info("Day rolled over, refreshing series")
	for client, sub := range subs {
		s.push(client, sub)
	}
}

func (s *SeriesServer) push(conn *websocket.Conn, sub *subscription) {
	msg := models.SeriesMessage{
		Type: models.MessageSeries,
		Days: sub.days,
		Seed: sub.seed,
	}
	if sub.compare {
		msg.Points, msg.Comparison = s.generator.Compare(sub.days, sub.seed)
	} else {
		msg.Points = s.generator.Generate(sub.days, sub.seed)
	}
	s.send(conn, msg)
}

func (s *SeriesServer) send(conn *websocket.Conn, msg models.SeriesMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.WithError(err).Error("Error marshaling series message")
		return
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.WithError(err).Warn("Error sending message to client")
		s.drop(conn)
	}
}

func (s *SeriesServer) drop(conn *websocket.Conn) {
	s.mutex.Lock()
	_, ok := s.clients[conn]
	delete(s.clients, conn)
	total := len(s.clients)
	s.mutex.Unlock()

	if ok {
		conn.Close()
		s.log.WithField("clients", total).Info("Client disconnected")
	}
}

func (s *SeriesServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("Error upgrading connection to WebSocket")
		return
	}

	select {
	case s.register <- conn:
	case <-s.done:
		conn.Close()
		return
	}

	go s.readLoop(conn)
}

func (s *SeriesServer) readLoop(conn *websocket.Conn) {
	defer func() {
		select {
		case s.unregister <- conn:
		case <-s.done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithError(err).Warn("WebSocket error")
			}
			return
		}

		var req models.SubscribeRequest
		r := request{conn: conn}
		if err := json.Unmarshal(message, &req); err != nil {
			r.err = err
		} else {
			r.req = req
		}

		select {
		case s.requests <- r:
		case <-s.done:
			return
		}
	}
}

func (s *SeriesServer) GetClientCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.clients)
}
