package stt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hammamikhairi/ottotype/internal/domain"
	"github.com/hammamikhairi/ottotype/internal/logger"
)

func TestNewDeepgramRequiresKey(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	_, err := NewDeepgram("", log)
	if !errors.Is(err, domain.ErrMissingAPIKey) {
		t.Fatalf("got err %v, want ErrMissingAPIKey", err)
	}
}

func TestDeepgramStream(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	upgrader := websocket.Upgrader{}

	gotAuth := make(chan string, 1)
	gotQuery := make(chan string, 1)
	gotAudio := make(chan []byte, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth <- r.Header.Get("Authorization")
		gotQuery <- r.URL.RawQuery

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		// One audio chunk up, one transcript down.
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("server read: %v", err)
			return
		}
		gotAudio <- data

		result := `{"type":"Results","is_final":true,"speech_final":true,` +
			`"channel":{"alternatives":[{"transcript":"hello world","confidence":0.98}]}}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(result)); err != nil {
			t.Errorf("server write: %v", err)
			return
		}

		// Drain until the client closes.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	client, err := NewDeepgram("test-key", log, WithEndpoint("ws", host))
	if err != nil {
		t.Fatalf("NewDeepgram: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer stream.Close()

	if auth := <-gotAuth; auth != "Token test-key" {
		t.Errorf("Authorization = %q, want %q", auth, "Token test-key")
	}
	query := <-gotQuery
	for _, want := range []string{"encoding=linear16", "interim_results=true", "punctuate=true", "sample_rate=16000", "channels=1"} {
		if !strings.Contains(query, want) {
			t.Errorf("query %q missing %q", query, want)
		}
	}

	chunk := []byte{0x01, 0x02, 0x03, 0x04}
	if err := stream.SendAudio(chunk); err != nil {
		t.Fatalf("SendAudio: %v", err)
	}
	got := <-gotAudio
	if len(got) != len(chunk) {
		t.Errorf("server received %d bytes, want %d", len(got), len(chunk))
	}

	select {
	case tr, ok := <-stream.Results():
		if !ok {
			t.Fatal("results channel closed before delivering a transcript")
		}
		if tr.Text != "hello world" {
			t.Errorf("Text = %q, want %q", tr.Text, "hello world")
		}
		if !tr.IsFinal || !tr.SpeechFinal {
			t.Errorf("finality flags = %v/%v, want true/true", tr.IsFinal, tr.SpeechFinal)
		}
		if tr.Confidence != 0.98 {
			t.Errorf("Confidence = %v, want 0.98", tr.Confidence)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for transcript")
	}
}

func TestStreamSendAfterClose(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	client, err := NewDeepgram("test-key", log, WithEndpoint("ws", host))
	if err != nil {
		t.Fatalf("NewDeepgram: %v", err)
	}

	stream, err := client.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := stream.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Double close is a no-op.
	if err := stream.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if err := stream.SendAudio([]byte{0x00}); !errors.Is(err, domain.ErrStreamClosed) {
		t.Errorf("SendAudio after Close = %v, want ErrStreamClosed", err)
	}
}
