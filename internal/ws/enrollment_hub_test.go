package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/enrollment_backend/internal/enrollment"
	"github.com/zaqqye/enrollment_backend/internal/models"
)

func newTestServer(t *testing.T, hub *EnrollmentHub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set("user", models.User{Role: "admin"})
		c.Next()
	}, EnrollmentHandler(hub))
	r.GET("/anon", EnrollmentHandler(hub))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readEvent keeps publishing ev until conn, once registered with the hub,
// receives it.
func readEvent(t *testing.T, hub *EnrollmentHub, conn *websocket.Conn, ev enrollment.Event) enrollment.Event {
	t.Helper()
	msgs := make(chan []byte, 1)
	go func() {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := conn.ReadMessage()
		if err == nil {
			msgs <- data
		}
		close(msgs)
	}()
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case data, ok := <-msgs:
			require.True(t, ok, "no message received")
			var got enrollment.Event
			require.NoError(t, json.Unmarshal(data, &got))
			return got
		case <-ticker.C:
			hub.Publish(ev)
		}
	}
}

func TestHubDeliversEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewEnrollmentHub()
	go hub.Run(ctx)

	srv := newTestServer(t, hub)
	conn := dial(t, srv, "/ws?grade=2")

	ev := enrollment.Event{
		Type:    enrollment.EventEnrolled,
		Student: models.Student{Name: "Ana", Grade: 2, Classroom: 3, EnrollmentID: "212345673"},
	}
	got := readEvent(t, hub, conn, ev)
	assert.Equal(t, enrollment.EventEnrolled, got.Type)
	assert.Equal(t, "212345673", got.Student.EnrollmentID)
}

func TestHubRejectsBadRequests(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewEnrollmentHub()
	go hub.Run(ctx)
	srv := newTestServer(t, hub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url+"/anon", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"/ws?grade=9", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestPublishOnNilHub(t *testing.T) {
	var hub *EnrollmentHub
	assert.NotPanics(t, func() { hub.Publish(enrollment.Event{}) })
}
