package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"fenrir/internal/book"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const (
	maxRecvSize        = 4 * 1024
	defaultNWorkers    = 10
	defaultConnTimeout = time.Second
)

var (
	ErrImproperConversion = errors.New("improper type conversion")
	ErrClientDoesNotExist = errors.New("client does not exist")
)

// ClientSession tracks one connected TCP session by its generated id, not
// by its local address string, which can collide across connections
// sharing a local port representation.
type ClientSession struct {
	id   string
	conn net.Conn
}

// ClientMessage links a message to the session that sent it.
type ClientMessage struct {
	sessionID string
	message   Message
}

// Server fronts a single-instrument order book with the exchange's binary
// TCP protocol: it accepts NewOrder/CancelOrder/LogBook messages, submits
// them to the book, and reports fills back to the submitting session. It
// performs no locking of its own beyond the session map — every mutating
// call against book.OrderBook is serialized through the single
// sessionHandler goroutine, satisfying the core's single-threaded
// expectation.
type Server struct {
	address string
	port    int
	book    *book.OrderBook

	pool               WorkerPool
	cancel             context.CancelFunc
	clientSessions     map[string]ClientSession
	clientSessionsLock sync.Mutex
	clientMessages     chan ClientMessage
}

func New(address string, port int, ob *book.OrderBook) *Server {
	return &Server{
		address:        address,
		port:           port,
		book:           ob,
		pool:           NewWorkerPool(defaultNWorkers),
		clientSessions: make(map[string]ClientSession),
		clientMessages: make(chan ClientMessage, 1),
	}
}

func (s *Server) Shutdown() {
	log.Info().Msg("server shutting down")
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Server) Run(ctx context.Context) {
	defer s.Shutdown()

	ctx, s.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		log.Error().Err(err).Msg("unable to start listener")
		return
	}
	defer func() {
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("unable to close listener")
		}
	}()

	t.Go(func() error {
		s.pool.Setup(t, s.handleConnection)
		return nil
	})

	t.Go(func() error {
		return s.sessionHandler(t)
	})

	log.Info().Msg("server running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := listener.Accept()
			if err != nil {
				log.Error().Err(err).Msg("error accepting client")
				continue
			}

			id := s.addClientSession(conn)
			log.Info().Str("sessionID", id).Msg("new client added")
			s.pool.AddTask(sessionTask{id: id, conn: conn})
		}
	}
}

// sessionTask is what the worker pool reads off a connection for: the
// session id it belongs to, plus the live connection to read from.
type sessionTask struct {
	id   string
	conn net.Conn
}

// reportFills turns the fills of one SubmitLimitOrder outcome into
// execution reports sent back to sessionID, one per fill. No report is sent
// for a residual, so a submission with no fills produces no report.
func (s *Server) reportFills(sessionID string, side book.Side, fills []book.Fill) {
	for _, f := range fills {
		s.send(sessionID, &Report{
			MessageType: ExecutionReport,
			OrderID:     f.IncomingID,
			Side:        side,
			Size:        f.Size,
			Price:       f.Price,
		})
	}
}

func (s *Server) reportError(sessionID string, err error) {
	s.send(sessionID, &Report{MessageType: ErrorReport, ErrStr: err.Error()})
}

func (s *Server) send(sessionID string, r *Report) {
	s.clientSessionsLock.Lock()
	session, ok := s.clientSessions[sessionID]
	s.clientSessionsLock.Unlock()
	if !ok {
		log.Error().Str("sessionID", sessionID).Msg("cannot report: client does not exist")
		return
	}

	if _, err := session.conn.Write(r.Serialize()); err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Msg("unable to write report")
		s.deleteClientSession(sessionID)
	}
}

// sessionHandler reads off incoming messages from clients and handles
// high-level session logic, including every mutating call against the
// book. Messages are fed in from the worker pool.
func (s *Server) sessionHandler(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case message := <-s.clientMessages:
			if err := s.handleMessage(message); err != nil {
				log.Error().Err(err).Str("sessionID", message.sessionID).Msg("error handling message")
				s.reportError(message.sessionID, err)
			}
		}
	}
}

func (s *Server) handleMessage(message ClientMessage) error {
	switch message.message.GetType() {
	case NewOrder:
		m, ok := message.message.(NewOrderMessage)
		if !ok {
			return ErrInvalidMessageType
		}
		result, err := s.book.SubmitLimitOrder(m.Side, m.Size, m.Price, m.ID, m.Traits, m.Acct)
		if err != nil {
			return err
		}
		s.reportFills(message.sessionID, m.Side, result.Fills)
		return nil

	case CancelOrder:
		m, ok := message.message.(CancelOrderMessage)
		if !ok {
			return ErrInvalidMessageType
		}
		_, err := s.book.CancelOrder(m.ID, m.Side, m.Price, nil)
		return err

	case LogBook:
		bid, ask := s.book.BestBidAsk()
		log.Info().Interface("bestBid", bid).Interface("bestAsk", ask).Msg("book state")
		return nil

	default:
		log.Error().Int("messageType", int(message.message.GetType())).Msg("invalid message type")
		return ErrInvalidMessageType
	}
}

// handleConnection is a short-lived worker method which reads the next
// message off the connection, parses it, and passes it to sessionHandler.
// The worker runs under the server's tomb, so any error returned from here
// kills the tomb and with it the whole server.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	st, ok := task.(sessionTask)
	if !ok {
		return ErrImproperConversion
	}
	conn := st.conn

	defer func() {
		if err := conn.Close(); err != nil {
			log.Error().Str("sessionID", st.id).Err(err).Msg("error closing connection")
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		log.Error().Str("sessionID", st.id).Err(err).Msg("failed setting deadline for connection")
		return nil
	}

	buffer := make([]byte, maxRecvSize)
	select {
	case <-t.Dying():
		return nil
	default:
		n, err := conn.Read(buffer)
		if err != nil {
			log.Error().Err(err).Str("sessionID", st.id).Msg("error reading from connection")
			s.deleteClientSession(st.id)
			return nil
		}

		message, err := parseMessage(buffer[:n])
		if err != nil {
			log.Error().Err(err).Str("sessionID", st.id).Msg("error parsing message")
			s.deleteClientSession(st.id)
			return nil
		}

		s.clientMessages <- ClientMessage{message: message, sessionID: st.id}
		s.pool.AddTask(st)
	}
	return nil
}

// addClientSession registers conn under a freshly generated session id.
func (s *Server) addClientSession(conn net.Conn) string {
	id := uuid.New().String()

	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	s.clientSessions[id] = ClientSession{id: id, conn: conn}
	return id
}

// deleteClientSession is an atomic map remove.
func (s *Server) deleteClientSession(id string) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()
	delete(s.clientSessions, id)
}
