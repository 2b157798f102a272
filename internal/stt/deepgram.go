// Package stt streams microphone audio to Deepgram's live
// transcription API over a WebSocket and surfaces results as they
// arrive.
package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hammamikhairi/ottotype/internal/domain"
	"github.com/hammamikhairi/ottotype/internal/logger"
)

const (
	defaultScheme   = "wss"
	defaultHost     = "api.deepgram.com"
	listenPath      = "/v1/listen"
	keepAliveEvery  = 8 * time.Second
	resultBufferLen = 16
)

// Option configures the Deepgram client.
type Option func(*Deepgram)

// WithModel sets the transcription model.
func WithModel(model string) Option {
	return func(d *Deepgram) { d.model = model }
}

// WithLanguage sets the transcription language.
func WithLanguage(lang string) Option {
	return func(d *Deepgram) { d.language = lang }
}

// WithSampleRate sets the PCM sample rate the audio is captured at.
func WithSampleRate(hz int) Option {
	return func(d *Deepgram) { d.sampleRate = hz }
}

// WithInterimResults controls whether the server sends interim
// (non-final) transcripts. On by default; they drive the indicator.
func WithInterimResults(enabled bool) Option {
	return func(d *Deepgram) { d.interim = enabled }
}

// WithEndpoint overrides the API endpoint. Used in tests to point the
// client at a local server.
func WithEndpoint(scheme, host string) Option {
	return func(d *Deepgram) {
		d.scheme = scheme
		d.host = host
	}
}

// Deepgram opens live transcription streams against the Deepgram API.
type Deepgram struct {
	apiKey     string
	scheme     string
	host       string
	model      string
	language   string
	sampleRate int
	interim    bool
	dialer     *websocket.Dialer
	log        *logger.Logger
}

var _ domain.TranscriberFactory = (*Deepgram)(nil)

// NewDeepgram creates a Deepgram client. The API key is mandatory;
// there is no degraded mode without it.
func NewDeepgram(apiKey string, log *logger.Logger, opts ...Option) (*Deepgram, error) {
	if apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	d := &Deepgram{
		apiKey:     apiKey,
		scheme:     defaultScheme,
		host:       defaultHost,
		model:      "nova-2",
		language:   "en-US",
		sampleRate: 16000,
		interim:    true,
		dialer:     websocket.DefaultDialer,
		log:        log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Open dials a live transcription WebSocket. The returned stream
// carries raw linear16 PCM up and transcripts down until Close.
func (d *Deepgram) Open(ctx context.Context) (domain.Transcriber, error) {
	u := url.URL{Scheme: d.scheme, Host: d.host, Path: listenPath}
	q := url.Values{}
	q.Set("model", d.model)
	q.Set("language", d.language)
	q.Set("punctuate", "true")
	q.Set("interim_results", strconv.FormatBool(d.interim))
	q.Set("encoding", "linear16")
	q.Set("sample_rate", strconv.Itoa(d.sampleRate))
	q.Set("channels", "1")
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", "Token "+d.apiKey)

	conn, resp, err := d.dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("deepgram dial: %s: %w", resp.Status, err)
		}
		return nil, fmt.Errorf("deepgram dial: %w", err)
	}

	d.log.Debug("deepgram: connected to %s", u.Host)

	s := &stream{
		conn:    conn,
		results: make(chan domain.Transcript, resultBufferLen),
		done:    make(chan struct{}),
		log:     d.log,
	}
	go s.readLoop()
	go s.keepAlive()
	return s, nil
}

// stream is one live transcription session.
type stream struct {
	conn    *websocket.Conn
	results chan domain.Transcript
	done    chan struct{}
	once    sync.Once
	writeMu sync.Mutex
	log     *logger.Logger
}

var _ domain.Transcriber = (*stream)(nil)

// resultMessage is the subset of Deepgram's Results payload we use.
type resultMessage struct {
	Type        string `json:"type"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`
	Channel     struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"channel"`
}

// SendAudio ships one PCM chunk upstream.
func (s *stream) SendAudio(chunk []byte) error {
	select {
	case <-s.done:
		return domain.ErrStreamClosed
	default:
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
		return fmt.Errorf("send audio: %w", err)
	}
	return nil
}

// Results returns the transcript channel. It is closed when the
// server hangs up or Close is called.
func (s *stream) Results() <-chan domain.Transcript {
	return s.results
}

// Close tells the server the stream is finished and tears down the
// connection. Safe to call more than once.
func (s *stream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)

		s.writeMu.Lock()
		// Ask the server to flush any pending transcript before the
		// socket goes away.
		_ = s.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`))
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()

		err = s.conn.Close()
	})
	return err
}

// readLoop pumps server messages into the results channel until the
// connection drops. A normal closure (code 1000) is expected shutdown,
// not an error.
func (s *stream) readLoop() {
	defer close(s.results)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("deepgram: stream closed normally")
				return
			}
			select {
			case <-s.done:
			default:
				s.log.Warn("deepgram: read error: %v", err)
			}
			return
		}

		var msg resultMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Debug("deepgram: skipping unparsable message: %v", err)
			continue
		}
		if msg.Type != "Results" || len(msg.Channel.Alternatives) == 0 {
			continue
		}

		alt := msg.Channel.Alternatives[0]
		t := domain.Transcript{
			Text:        alt.Transcript,
			Confidence:  alt.Confidence,
			IsFinal:     msg.IsFinal,
			SpeechFinal: msg.SpeechFinal,
		}

		select {
		case s.results <- t:
		case <-s.done:
			return
		}
	}
}

// keepAlive pings the server so it does not drop the stream during
// long silences.
func (s *stream) keepAlive() {
	ticker := time.NewTicker(keepAliveEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"KeepAlive"}`))
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
