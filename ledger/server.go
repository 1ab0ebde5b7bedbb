package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	readTimeout = 120 * time.Second
	callTimeout = 10 * time.Second
	outQueue    = 32
)

// Server exposes a Service to Clients over websockets.
type Server struct {
	svc Service
	log *log.Logger

	upgrader websocket.Upgrader
}

// NewServer wraps svc. A nil logger discards log output.
func NewServer(svc Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		svc: svc,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		s.log.Printf("ledger client connected from %s", r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := make(chan response, outQueue)
		writerDone := make(chan struct{})

		// Writer goroutine.
		go func() {
			defer close(writerDone)
			for {
				select {
				case <-ctx.Done():
					return
				case resp := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteJSON(resp); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop. Requests are served in arrival order.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var req request
			if err := json.Unmarshal(msg, &req); err != nil {
				s.log.Printf("ledger: bad request: %v", err)
				continue
			}

			resp := s.serve(ctx, req)
			select {
			case out <- resp:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}

		cancel()
		<-writerDone
		s.log.Printf("ledger client %s disconnected", r.RemoteAddr)
	}
}

func (s *Server) serve(ctx context.Context, req request) response {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp := response{ID: req.ID}
	var err error
	switch req.Op {
	case opGetOrCreateProfile:
		p, perr := s.svc.GetOrCreateProfile(ctx, req.PlayerID)
		if perr == nil {
			resp.Profile = &p
		}
		err = perr
	case opListMissions:
		resp.Missions, err = s.svc.ListMissions(ctx)
	case opReportMissionProgress:
		if req.Progress == nil || req.Stats == nil {
			return badRequest(resp, "missing progress or stats")
		}
		err = s.svc.ReportMissionProgress(ctx, req.PlayerID, req.MissionID, *req.Progress, *req.Stats)
	case opReportTraitXP:
		err = s.svc.ReportTraitXP(ctx, req.PlayerID, req.TraitID, req.Delta)
	case opReportGameResult:
		if req.Result == nil {
			return badRequest(resp, "missing result")
		}
		err = s.svc.ReportGameResult(ctx, req.PlayerID, *req.Result)
	default:
		return badRequest(resp, fmt.Sprintf("unknown op %q", req.Op))
	}

	if err != nil {
		s.log.Printf("ledger %s player=%s: %v", req.Op, req.PlayerID, err)
		resp.Error = err.Error()
		resp.Code = errorCode(err)
	}
	return resp
}

func badRequest(resp response, msg string) response {
	resp.Error = msg
	resp.Code = codeBadRequest
	return resp
}
