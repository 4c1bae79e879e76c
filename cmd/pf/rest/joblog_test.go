package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	apijobs "github.com/periflow/cli/pkg/api/types/jobs"
	"github.com/periflow/cli/pkg/utils/try"
)

func TestFollowLogs_subscribesAndReceivesRecords(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/job/42/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("token") == "" {
			t.Error("websocket connection should carry the token")
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatal(err)
		}
		defer conn.Close()

		sub := subscribeFrame{}
		if err := conn.ReadJSON(&sub); err != nil {
			t.Fatal(err)
		}
		if sub.Type != "subscribe" {
			t.Errorf("unexpected frame type: %s", sub.Type)
		}

		if err := conn.WriteJSON(subscribeAck{
			ResponseType: "subscribe",
			Sources:      sub.Sources,
		}); err != nil {
			t.Fatal(err)
		}

		records := []apijobs.TextLog{
			{Content: "step 1", Type: apijobs.LogTypeStdout, NodeRank: 0},
			{Content: "step 2", Type: apijobs.LogTypeStdout, NodeRank: 0},
		}
		for _, rec := range records {
			buf, err := json.Marshal(rec)
			if err != nil {
				t.Fatal(err)
			}
			if err := conn.WriteMessage(websocket.TextMessage, buf); err != nil {
				return
			}
		}

		// keep the connection open until the client hangs up
		conn.ReadMessage()
	}))
	defer server.Close()

	sess := newTestSession(t, time.Hour)
	testee := newTestClient(t, server, sess)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stream := try.To(testee.FollowLogs(ctx, 42, LogSelector{
		LogTypes: []apijobs.LogType{apijobs.LogTypeStdout},
	})).OrFatal(t)
	defer stream.Close()

	first := try.To(stream.Next(ctx)).OrFatal(t)
	if first.Content != "step 1" {
		t.Errorf("first record: got %s", first.Content)
	}
	second := try.To(stream.Next(ctx)).OrFatal(t)
	if second.Content != "step 2" {
		t.Errorf("second record: got %s", second.Content)
	}
}

func TestFollowLogs_rejectsMismatchedAck(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatal(err)
		}
		defer conn.Close()

		sub := subscribeFrame{}
		if err := conn.ReadJSON(&sub); err != nil {
			t.Fatal(err)
		}
		conn.WriteJSON(subscribeAck{
			ResponseType: "subscribe",
			Sources:      []string{"process.somethingelse"},
		})
	}))
	defer server.Close()

	sess := newTestSession(t, time.Hour)
	testee := newTestClient(t, server, sess)

	if _, err := testee.FollowLogs(context.Background(), 42, LogSelector{
		LogTypes: []apijobs.LogType{apijobs.LogTypeStdout},
	}); err == nil {
		t.Error("mismatched subscription ack should be an error")
	}
}
