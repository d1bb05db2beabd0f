package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/service"
	"github.com/ignatzorin/classifieds-backend/internal/ws"
)

func TestWSHandler_RejectsMissingOrInvalidToken(t *testing.T) {
	tm := service.NewTokenManager("access", "refresh", time.Minute, time.Hour)
	h := NewWSHandler(ws.NewHub(), tm, []string{"*"})

	r := newTestRouter(nil, "")
	r.GET("/api/ws", h.Handle)

	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodGet, "/api/ws", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodGet, "/api/ws?token=garbage", nil).Code)
}

func TestWSHandler_DeliversNotifications(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	tm := service.NewTokenManager("access", "refresh", time.Minute, time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleUser}
	pair, err := tm.GeneratePair(user)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/api/ws", NewWSHandler(hub, tm, []string{"*"}).Handle)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token=" + pair.AccessToken
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectedClients(user.ID) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Notify(ctx, user.ID, service.EventAdApproved, map[string]string{"id": "ad-1"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, service.EventAdApproved, event.Type)
	assert.Equal(t, "ad-1", event.Data["id"])
}
