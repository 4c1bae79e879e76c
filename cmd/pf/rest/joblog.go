package rest

import (
	"context"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"

	cerr "github.com/periflow/cli/cmd/pf/errors"
	apijobs "github.com/periflow/cli/pkg/api/types/jobs"
	"github.com/periflow/cli/pkg/utils"
	"github.com/periflow/cli/pkg/utils/cmp"
)

// LogStream receives live log records of a running job.
type LogStream interface {
	// Next blocks until the next record arrives.
	//
	// It returns an error when the stream is broken or ctx expires.
	Next(ctx context.Context) (apijobs.TextLog, error)

	// Close shuts the stream down.
	Close() error
}

type logStream struct {
	conn *websocket.Conn
}

type subscribeFrame struct {
	Type      string   `json:"type"`
	Sources   []string `json:"sources"`
	NodeRanks []int    `json:"node_ranks"`
}

type subscribeAck struct {
	ResponseType string   `json:"response_type"`
	Sources      []string `json:"sources"`
}

func (c *client) FollowLogs(ctx context.Context, jobId int64, sel LogSelector) (LogStream, error) {
	tok, err := c.session.AccessToken()
	if err != nil {
		return nil, err
	}

	u := c.wspath("job", strconv.FormatInt(jobId, 10))
	u += "?" + url.Values{"token": {tok}}.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, cerr.NewCuiError("failed to open the log stream", cerr.WithCause(err))
	}
	if resp != nil {
		resp.Body.Close()
	}

	logTypes := sel.LogTypes
	if len(logTypes) == 0 {
		logTypes = apijobs.LogTypes()
	}
	sources := utils.Map(logTypes, func(t apijobs.LogType) string {
		return "process." + string(t)
	})

	nodeRanks := sel.NodeRanks
	if nodeRanks == nil {
		nodeRanks = []int{}
	}

	if err := conn.WriteJSON(subscribeFrame{
		Type:      "subscribe",
		Sources:   sources,
		NodeRanks: nodeRanks,
	}); err != nil {
		conn.Close()
		return nil, cerr.NewCuiError("failed to subscribe the log stream", cerr.WithCause(err))
	}

	ack := subscribeAck{}
	if err := conn.ReadJSON(&ack); err != nil {
		conn.Close()
		return nil, cerr.NewCuiError("failed to subscribe the log stream", cerr.WithCause(err))
	}
	if ack.ResponseType != "subscribe" || !cmp.SliceContentEq(ack.Sources, sources) {
		conn.Close()
		return nil, cerr.NewCuiError("log stream sent an unexpected subscription response")
	}

	return &logStream{conn: conn}, nil
}

func (s *logStream) Next(ctx context.Context) (apijobs.TextLog, error) {
	if deadline, ok := ctx.Deadline(); ok {
		s.conn.SetReadDeadline(deadline)
	}

	stop := context.AfterFunc(ctx, func() { s.conn.Close() })
	defer stop()

	record := apijobs.TextLog{}
	if err := s.conn.ReadJSON(&record); err != nil {
		if ctx.Err() != nil {
			return apijobs.TextLog{}, ctx.Err()
		}
		return apijobs.TextLog{}, err
	}
	return record, nil
}

func (s *logStream) Close() error {
	s.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	return s.conn.Close()
}
