// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/api/utils"
	"github.com/vechain/stakecampaign/log"
	"github.com/vechain/stakecampaign/logdb"
	"github.com/vechain/stakecampaign/runtime"
	"github.com/vechain/stakecampaign/thor"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
)

type msgReader interface {
	Read(ctx context.Context) (msgs []any, hasMore bool, err error)
}

type Subscriptions struct {
	host     *runtime.Host
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(host *runtime.Host, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		host: host,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) parseCriteria(req *http.Request) (*logdb.EventCriteria, error) {
	var criteria logdb.EventCriteria
	query := req.URL.Query()
	if addr := query.Get("addr"); addr != "" {
		address, err := thor.ParseAddress(addr)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "addr"))
		}
		criteria.Address = address
	}
	if name := query.Get("name"); name != "" {
		criteria.Name = &name
	}
	return &criteria, nil
}

// parsePosition returns the call after which events are delivered, the newest by default.
func (s *Subscriptions) parsePosition(req *http.Request) (uint32, error) {
	newest := s.host.CallNumber()
	pos, err := utils.UintQuery(req, "pos", uint64(newest))
	if err != nil {
		return 0, err
	}
	if pos > uint64(newest) {
		return 0, utils.BadRequest(errors.New("pos: out of range"))
	}
	return uint32(pos), nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	if s.host.LogDB() == nil {
		return utils.Forbidden(errors.New("event log is disabled"))
	}

	var reader msgReader
	switch mux.Vars(req)["subject"] {
	case "event":
		criteria, err := s.parseCriteria(req)
		if err != nil {
			return err
		}
		pos, err := s.parsePosition(req)
		if err != nil {
			return err
		}
		reader = newEventReader(s.host, pos, criteria)
	default:
		return utils.NotFound(errors.New("not found"))
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	defer func() {
		if err := conn.Close(); err != nil {
			logger.Debug("close websocket", "err", err)
		}
	}()

	if err := s.pipe(req.Context(), conn, reader); err != nil {
		logger.Debug("pipe messages", "err", err)
	}
	return nil
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader msgReader) error {
	closed := make(chan struct{})
	// read loop, to handle close and pong messages
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var (
		waiter     = s.host.NewCommitWaiter()
		pingTicker = time.NewTicker(pingPeriod)
	)
	defer pingTicker.Stop()

	for {
		msgs, hasMore, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if hasMore {
			select {
			case <-s.done:
				return nil
			case <-closed:
				return nil
			default:
			}
			continue
		}
		select {
		case <-s.done:
			return s.closeConn(conn, websocket.CloseGoingAway, "server closed")
		case <-closed:
			return nil
		case <-waiter.C():
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, code int, text string) error {
	return conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(writeWait),
	)
}

// Close ends all subscriptions and waits for their handlers.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("WS /subscriptions").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
