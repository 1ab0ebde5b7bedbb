package ledger

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/plus3/chaintris/progression"
)

const writeTimeout = 5 * time.Second

// Client talks to a ledger Server over a websocket. Calls may be issued
// concurrently; responses are matched to requests by id.
type Client struct {
	conn *websocket.Conn
	log  *log.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan response
	err     error

	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to a ledger server, e.g. "ws://localhost:8787/ledger".
// A nil logger discards log output.
func Dial(ctx context.Context, url string, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial ledger %s: %w", url, err)
	}

	c := &Client{
		conn:    conn,
		log:     logger,
		pending: make(map[uint64]chan response),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer c.shutdown(ErrClosed)
	for {
		var resp response
		if err := c.conn.ReadJSON(&resp); err != nil {
			select {
			case <-c.done:
			default:
				c.log.Printf("ledger client read: %v", err)
			}
			c.shutdown(fmt.Errorf("%w: %w", ErrClosed, err))
			return
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()
		if !ok {
			c.log.Printf("ledger client: response for unknown request %d", resp.ID)
			continue
		}
		ch <- resp
	}
}

// shutdown fails every pending call with err. Only the first call has an
// effect.
func (c *Client) shutdown(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.err = err
		c.pending = nil
		c.mu.Unlock()
		close(c.done)
		_ = c.conn.Close()
	})
}

// Close closes the connection. Pending and later calls fail with ErrClosed.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	c.writeMu.Unlock()
	c.shutdown(ErrClosed)
	return nil
}

func (c *Client) call(ctx context.Context, req request) (response, error) {
	ch := make(chan response, 1)

	c.mu.Lock()
	if c.pending == nil {
		err := c.err
		c.mu.Unlock()
		return response{}, err
	}
	c.nextID++
	req.ID = c.nextID
	c.pending[req.ID] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err := c.conn.WriteJSON(req)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(req.ID)
		return response{}, fmt.Errorf("%s: %w", req.Op, err)
	}

	select {
	case resp := <-ch:
		if err := remoteError(resp); err != nil {
			return resp, fmt.Errorf("%s: %w", req.Op, err)
		}
		return resp, nil
	case <-ctx.Done():
		c.forget(req.ID)
		return response{}, ctx.Err()
	case <-c.done:
		c.mu.Lock()
		err := c.err
		c.mu.Unlock()
		return response{}, err
	}
}

func (c *Client) forget(id uint64) {
	c.mu.Lock()
	if c.pending != nil {
		delete(c.pending, id)
	}
	c.mu.Unlock()
}

func (c *Client) GetOrCreateProfile(ctx context.Context, playerID string) (progression.Profile, error) {
	resp, err := c.call(ctx, request{Op: opGetOrCreateProfile, PlayerID: playerID})
	if err != nil {
		return progression.Profile{}, err
	}
	if resp.Profile == nil {
		return progression.Profile{}, fmt.Errorf("%s: empty profile", opGetOrCreateProfile)
	}
	p := *resp.Profile
	if p.Missions == nil {
		p.Missions = make(map[string]progression.MissionProgress)
	}
	if p.TraitXP == nil {
		p.TraitXP = make(map[string]int)
	}
	return p, nil
}

func (c *Client) ListMissions(ctx context.Context) ([]progression.MissionDef, error) {
	resp, err := c.call(ctx, request{Op: opListMissions})
	if err != nil {
		return nil, err
	}
	return resp.Missions, nil
}

func (c *Client) ReportMissionProgress(ctx context.Context, playerID, missionID string, progress progression.MissionProgress, stats progression.Event) error {
	_, err := c.call(ctx, request{
		Op:        opReportMissionProgress,
		PlayerID:  playerID,
		MissionID: missionID,
		Progress:  &progress,
		Stats:     &stats,
	})
	return err
}

func (c *Client) ReportTraitXP(ctx context.Context, playerID, traitID string, delta int) error {
	_, err := c.call(ctx, request{Op: opReportTraitXP, PlayerID: playerID, TraitID: traitID, Delta: delta})
	return err
}

func (c *Client) ReportGameResult(ctx context.Context, playerID string, result progression.GameResult) error {
	_, err := c.call(ctx, request{Op: opReportGameResult, PlayerID: playerID, Result: &result})
	return err
}
