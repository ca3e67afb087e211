package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/raffledraw/internal/logger"
	"github.com/abrezinsky/raffledraw/internal/models"
	"github.com/abrezinsky/raffledraw/internal/services"
)

// mockSettingsService implements services.SettingsServicer for testing
type mockSettingsService struct {
	mu           sync.Mutex
	soundEnabled bool
	soundErr     error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{soundEnabled: true}
}

func (m *mockSettingsService) IsSoundEnabled(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.soundEnabled, m.soundErr
}

func (m *mockSettingsService) SetSoundEnabled(ctx context.Context, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.soundEnabled = enabled
	return nil
}

// Unused interface methods
func (m *mockSettingsService) GetBaseURL(ctx context.Context) (string, error)   { return "", nil }
func (m *mockSettingsService) SetBaseURL(ctx context.Context, url string) error { return nil }
func (m *mockSettingsService) DisplayURL(ctx context.Context, fallback string) (string, error) {
	return fallback, nil
}
func (m *mockSettingsService) DisplayQR(ctx context.Context, fallback string) ([]byte, error) {
	return nil, nil
}
func (m *mockSettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	return nil, nil
}
func (m *mockSettingsService) UpdateSettings(ctx context.Context, s services.Settings) error {
	return nil
}

// mockSnapshots implements SnapshotProvider
type mockSnapshots struct {
	snap models.LiveSnapshot
	ok   bool
}

func (m *mockSnapshots) LiveSnapshot() (models.LiveSnapshot, bool) {
	return m.snap, m.ok
}

// dial connects a websocket client to a test server for hub
func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(server.Close)

	// Convert http://... to ws://...
	url := "ws" + server.URL[4:]
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

// readMessage reads one message from ws within two seconds
func readMessage(t *testing.T, ws *websocket.Conn) models.WSMessage {
	t.Helper()

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var msg models.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}
	return msg
}

func TestNew_CreatesHubWithDependencies(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()

	hub := New(log, settings)

	if hub == nil {
		t.Fatal("expected hub to be created")
	}
	if hub.log == nil {
		t.Error("expected logger to be set")
	}
	if hub.settings == nil {
		t.Error("expected settings to be set")
	}
	if hub.clients == nil {
		t.Error("expected clients map to be initialized")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil || hub.direct == nil {
		t.Error("expected channels to be initialized")
	}
}

func TestHub_BroadcastMessage(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	// BroadcastMessage should not block even with no clients
	done := make(chan bool)
	go func() {
		hub.BroadcastMessage("test", map[string]string{"key": "value"})
		done <- true
	}()

	select {
	case <-done:
		// Success - didn't block
	case <-time.After(100 * time.Millisecond):
		t.Error("BroadcastMessage blocked with no clients")
	}
}

func TestHub_MultipleInstances_NoGlobalState(t *testing.T) {
	log := logger.New()
	settings1 := newMockSettingsService()
	settings2 := newMockSettingsService()

	hub1 := New(log, settings1)
	hub2 := New(log, settings2)

	if hub1 == hub2 {
		t.Error("expected different hub instances")
	}
	if hub1.settings == hub2.settings {
		t.Error("expected different settings instances")
	}
}

func TestHub_Start_RunsInBackground(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())

	// Start should return immediately (runs in goroutine)
	done := make(chan bool)
	go func() {
		hub.Start()
		done <- true
	}()

	select {
	case <-done:
		// Success - Start returned immediately
	case <-time.After(100 * time.Millisecond):
		t.Error("Start() blocked instead of running in background")
	}
}

func TestHub_ClientRegistration(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	client := &Client{
		hub:  hub,
		send: make(chan models.WSMessage, 256),
	}

	hub.register <- client
	time.Sleep(50 * time.Millisecond)

	hub.mutex.RLock()
	_, exists := hub.clients[client]
	hub.mutex.RUnlock()

	if !exists {
		t.Error("expected client to be registered")
	}
	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", hub.ClientCount())
	}
}

func TestHub_ClientUnregistration(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	client := &Client{
		hub:  hub,
		send: make(chan models.WSMessage, 256),
	}

	hub.register <- client
	hub.unregister <- client
	time.Sleep(50 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Error("expected client to be unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("expected send channel closed on unregister")
	}
}

func TestHub_DirectMessageSkipsUnknownClient(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	stranger := &Client{
		hub:  hub,
		send: make(chan models.WSMessage, 1),
	}
	hub.direct <- directMessage{client: stranger, message: models.WSMessage{Type: "hello"}}
	time.Sleep(20 * time.Millisecond)

	if len(stranger.send) != 0 {
		t.Error("expected no message for an unregistered client")
	}
}

// ==================== WebSocket Integration Tests ====================

func TestServeWs_ClientConnection(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	dial(t, hub)

	// Give server time to register client
	time.Sleep(100 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", hub.ClientCount())
	}
}

func TestServeWs_GreetsIdleWithoutSession(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.SetSnapshotProvider(&mockSnapshots{})
	hub.Start()

	ws := dial(t, hub)

	if msg := readMessage(t, ws); msg.Type != models.MsgLiveIdle {
		t.Errorf("expected %q, got %q", models.MsgLiveIdle, msg.Type)
	}
}

func TestServeWs_GreetsWithLiveSnapshot(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.SetSnapshotProvider(&mockSnapshots{
		ok: true,
		snap: models.LiveSnapshot{
			RaffleID: "r-1",
			Title:    "Door Prize",
			State:    models.LiveReady,
		},
	})
	hub.Start()

	ws := dial(t, hub)

	msg := readMessage(t, ws)
	if msg.Type != models.MsgLiveState {
		t.Fatalf("expected %q, got %q", models.MsgLiveState, msg.Type)
	}
	payload, ok := msg.Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("expected object payload, got %T", msg.Payload)
	}
	if payload["raffle_id"] != "r-1" || payload["title"] != "Door Prize" || payload["state"] != "ready" {
		t.Errorf("unexpected snapshot payload %v", payload)
	}
}

func TestServeWs_BroadcastToClient(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	ws := dial(t, hub)
	readMessage(t, ws) // greeting

	hub.BroadcastMessage("test_event", map[string]string{
		"key": "value",
	})

	if msg := readMessage(t, ws); msg.Type != "test_event" {
		t.Errorf("expected type 'test_event', got %s", msg.Type)
	}
}

func TestServeWs_ClientDisconnect(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	ws := dial(t, hub)
	time.Sleep(100 * time.Millisecond)

	ws.Close()

	// Give server time to unregister client
	time.Sleep(200 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients after disconnect, got %d", hub.ClientCount())
	}
}

func TestServeWs_MultipleClients(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	clients := []*websocket.Conn{dial(t, hub), dial(t, hub), dial(t, hub)}
	for _, ws := range clients {
		readMessage(t, ws) // greeting
	}

	if hub.ClientCount() != 3 {
		t.Errorf("expected 3 clients, got %d", hub.ClientCount())
	}

	hub.BroadcastMessage("broadcast_test", map[string]int{"count": 123})

	for i, ws := range clients {
		if msg := readMessage(t, ws); msg.Type != "broadcast_test" {
			t.Errorf("client %d got wrong type: %s", i+1, msg.Type)
		}
	}
}

func TestHub_PlayCue(t *testing.T) {
	settings := newMockSettingsService()
	hub := New(logger.New(), settings)
	hub.Start()

	ws := dial(t, hub)
	readMessage(t, ws)

	hub.PlayCue(models.CueApplause)

	msg := readMessage(t, ws)
	if msg.Type != models.MsgCue {
		t.Fatalf("expected %q, got %q", models.MsgCue, msg.Type)
	}
	if payload, _ := msg.Payload.(map[string]interface{}); payload["cue"] != "applause" {
		t.Errorf("expected applause cue, got %v", msg.Payload)
	}
}

func TestHub_PlayCue_SoundOff(t *testing.T) {
	settings := newMockSettingsService()
	settings.SetSoundEnabled(context.Background(), false)
	hub := New(logger.New(), settings)
	hub.Start()

	ws := dial(t, hub)
	readMessage(t, ws)

	hub.PlayCue(models.CueTick)
	hub.BroadcastMessage("marker", nil)

	if msg := readMessage(t, ws); msg.Type != "marker" {
		t.Errorf("expected cue dropped while sound is off, got %q", msg.Type)
	}
}

func TestHub_PlayCue_SettingErrorStillPlays(t *testing.T) {
	settings := newMockSettingsService()
	settings.soundErr = errors.New("database locked")
	hub := New(logger.New(), settings)
	hub.Start()

	ws := dial(t, hub)
	readMessage(t, ws)

	hub.PlayCue(models.CueClick)

	if msg := readMessage(t, ws); msg.Type != models.MsgCue {
		t.Errorf("expected cue played when the setting cannot be read, got %q", msg.Type)
	}
}

func TestHub_Notify(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	ws := dial(t, hub)
	readMessage(t, ws)

	hub.Notify("Raffle deleted")

	msg := readMessage(t, ws)
	if msg.Type != models.MsgToast {
		t.Fatalf("expected %q, got %q", models.MsgToast, msg.Type)
	}
	if payload, _ := msg.Payload.(map[string]interface{}); payload["message"] != "Raffle deleted" {
		t.Errorf("unexpected toast payload %v", msg.Payload)
	}
}

func TestServeWs_UpgradeError(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	// Create a request without upgrade headers - should fail
	req := httptest.NewRequest("GET", "/ws", nil)
	w := httptest.NewRecorder()

	hub.ServeWs(w, req)

	if hub.ClientCount() != 0 {
		t.Error("expected no client registered after a failed upgrade")
	}
}

func TestReadPump_MessageProcessing(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	ws := dial(t, hub)
	readMessage(t, ws)

	testMsg := models.WSMessage{
		Type:    "test_message",
		Payload: map[string]string{"key": "value"},
	}
	msgBytes, _ := json.Marshal(testMsg)

	if err := ws.WriteMessage(websocket.TextMessage, msgBytes); err != nil {
		t.Fatalf("failed to write message: %v", err)
	}
	if err := ws.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("failed to write message: %v", err)
	}

	// Give server time to process the messages
	time.Sleep(100 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Error("expected client to stay connected after sending messages")
	}
}

func TestWritePump_ChannelClosed(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	ws := dial(t, hub)
	readMessage(t, ws)

	// Set up close handler to detect when server sends close message
	closeReceived := make(chan bool, 1)
	ws.SetCloseHandler(func(code int, text string) error {
		closeReceived <- true
		return nil
	})

	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	hub.mutex.RLock()
	var client *Client
	for c := range hub.clients {
		client = c
		break
	}
	hub.mutex.RUnlock()

	if client == nil {
		t.Fatal("no client found")
	}

	// Unregistering closes the send channel, which makes writePump send a close message
	hub.unregister <- client

	select {
	case <-closeReceived:
	case <-time.After(500 * time.Millisecond):
		t.Error("expected to receive close message from server")
	}
}

func TestReadPump_PongHandler(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	ws := dial(t, hub)
	readMessage(t, ws)

	// This triggers the server's pong handler, which extends the read deadline
	if err := ws.WriteControl(websocket.PongMessage, []byte("pong"), time.Now().Add(time.Second)); err != nil {
		t.Fatalf("failed to send pong: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if err := ws.WriteMessage(websocket.TextMessage, []byte("test")); err != nil {
		t.Errorf("connection should still be alive after pong: %v", err)
	}
}

func TestWritePump_WriteError(t *testing.T) {
	hub := New(logger.New(), newMockSettingsService())
	hub.Start()

	ws := dial(t, hub)
	readMessage(t, ws)

	// Close connection from client side
	ws.Close()
	time.Sleep(50 * time.Millisecond)

	// The server now writes to a closed connection
	hub.BroadcastMessage("test", map[string]string{"key": "value"})

	time.Sleep(200 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients after write error, got %d", hub.ClientCount())
	}
}
