package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"TerraVision/shared/block"
	"TerraVision/shared/proto/tvnet"
	"TerraVision/shared/util"
	"TerraVision/shared/world"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer aceita um cliente e expõe a conexão para o teste.
type fakeServer struct {
	*httptest.Server
	conns chan *websocket.Conn
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	upgrader := websocket.Upgrader{}
	s := &fakeServer{conns: make(chan *websocket.Conn, 1)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.conns <- conn
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *fakeServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func (s *fakeServer) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-s.conns:
		t.Cleanup(func() { conn.Close() })
		return conn
	case <-time.After(5 * time.Second):
		t.Fatal("cliente não conectou")
		return nil
	}
}

func send(t *testing.T, conn *websocket.Conn, typ tvnet.MessageType, payload []byte) {
	t.Helper()
	env := tvnet.Envelope{Type: typ, Payload: payload}
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, env.Marshal()))
}

type countingListener struct {
	mu       sync.Mutex
	loaded   int
	changed  int
	unloaded int
}

func (l *countingListener) NotifyChunkLoaded(util.Vector3i) {
	l.mu.Lock()
	l.loaded++
	l.mu.Unlock()
}

func (l *countingListener) NotifyColumnUnloaded(util.ColumnCoord) {
	l.mu.Lock()
	l.unloaded++
	l.mu.Unlock()
}

func (l *countingListener) NotifyBlockChanged(util.Vector3i, block.Ref, block.Ref) {
	l.mu.Lock()
	l.changed++
	l.mu.Unlock()
}

func (l *countingListener) counts() (int, int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded, l.changed, l.unloaded
}

func TestFeedAppliesWorldMessages(t *testing.T) {
	srv := newFakeServer(t)
	store := world.NewStore()
	listener := &countingListener{}
	store.SetListener(listener)

	feed := NewFeed(srv.wsURL(), store)
	statuses := make(chan string, 1)
	feed.OnStatus = func(msg string) { statuses <- msg }

	require.NoError(t, feed.Connect(context.Background()))
	defer feed.Close()
	conn := srv.accept(t)
	assert.True(t, feed.IsConnected())

	col := world.NewColumn(util.ColumnCoord{X: -1, Z: 2})
	section := new(world.ChunkData)
	section[world.Index(3, 4, 5)] = 7
	col.Sections[1] = section

	send(t, conn, tvnet.TypeStatus, (&tvnet.StatusMessage{Message: "olá"}).Marshal())
	send(t, conn, tvnet.TypeColumn, world.ToMessage(col).Marshal())
	send(t, conn, tvnet.TypeBlockChange, (&tvnet.BlockChangeMessage{X: -16, Y: 0, Z: 32, Ref: 2}).Marshal())

	select {
	case msg := <-statuses:
		assert.Equal(t, "olá", msg)
	case <-time.After(5 * time.Second):
		t.Fatal("status não recebido")
	}

	require.Eventually(t, func() bool {
		_, changed, _ := listener.counts()
		return changed == 1
	}, 5*time.Second, 5*time.Millisecond)

	assert.Equal(t, block.Ref(7), store.GetBlock(util.Vector3i{X: -16 + 3, Y: 16 + 4, Z: 32 + 5}))
	assert.Equal(t, block.Ref(2), store.GetBlock(util.Vector3i{X: -16, Y: 0, Z: 32}))

	send(t, conn, tvnet.TypeUnload, (&tvnet.UnloadMessage{X: -1, Z: 2}).Marshal())
	require.Eventually(t, func() bool {
		_, _, unloaded := listener.counts()
		return unloaded == 1
	}, 5*time.Second, 5*time.Millisecond)
	assert.False(t, store.HasColumn(util.ColumnCoord{X: -1, Z: 2}))

	loaded, _, _ := listener.counts()
	assert.Equal(t, 1, loaded)
}

func TestFeedRequestRegion(t *testing.T) {
	srv := newFakeServer(t)
	feed := NewFeed(srv.wsURL(), world.NewStore())
	require.NoError(t, feed.Connect(context.Background()))
	defer feed.Close()
	conn := srv.accept(t)

	require.NoError(t, feed.RequestRegion(util.ColumnCoord{X: 4, Z: -4}, 8))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env tvnet.Envelope
	require.NoError(t, env.Unmarshal(data))
	assert.Equal(t, tvnet.TypeRequestRegion, env.Type)

	var req tvnet.RegionRequest
	require.NoError(t, req.Unmarshal(env.Payload))
	assert.Equal(t, tvnet.RegionRequest{CenterX: 4, CenterZ: -4, Radius: 8}, req)
}

func TestFeedDisconnect(t *testing.T) {
	srv := newFakeServer(t)
	feed := NewFeed(srv.wsURL(), world.NewStore())
	require.NoError(t, feed.Connect(context.Background()))
	conn := srv.accept(t)

	conn.Close()
	select {
	case <-feed.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("feed não percebeu a desconexão")
	}
	assert.False(t, feed.IsConnected())
	assert.ErrorIs(t, feed.Send(tvnet.TypeStatus, nil), ErrNotConnected)
	assert.NoError(t, feed.Close())
}

func TestFeedConnectGivesUp(t *testing.T) {
	srv := newFakeServer(t)
	url := srv.wsURL()
	srv.Close()

	feed := NewFeed(url, world.NewStore())
	feed.MaxRetries = 2
	feed.RetryDelay = time.Millisecond

	err := feed.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 tentativas")
	assert.False(t, feed.IsConnected())
}

func TestFeedConnectHonorsContext(t *testing.T) {
	srv := newFakeServer(t)
	url := srv.wsURL()
	srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	feed := NewFeed(url, world.NewStore())
	feed.RetryDelay = time.Hour
	assert.ErrorIs(t, feed.Connect(ctx), context.Canceled)
}

func TestHandleMessageRejectsBadInput(t *testing.T) {
	feed := NewFeed("ws://unused", world.NewStore())

	tests := []struct {
		name string
		env  tvnet.Envelope
	}{
		{"tipo desconhecido", tvnet.Envelope{Type: 99}},
		{"coluna truncada", tvnet.Envelope{Type: tvnet.TypeColumn, Payload: []byte{0x1a, 0x05, 0x01}}},
		{"seção fora do mundo", tvnet.Envelope{
			Type: tvnet.TypeColumn,
			Payload: (&tvnet.ColumnMessage{Sections: []tvnet.Section{{
				Y:      16,
				Blocks: make([]uint32, tvnet.SectionVolume),
			}}}).Marshal(),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, feed.handleMessage(&tt.env))
		})
	}
}
