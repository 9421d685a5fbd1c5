package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/LENAX/plan-engine/pkg/core/engine"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// 向客户端写入一条消息的最长时间
	feedWriteTimeout = 10 * time.Second
	// 心跳间隔，保持空闲连接不被中间设备断开
	feedPingInterval = 30 * time.Second
)

// ScheduleFeed 调度事件的WebSocket推送端点
// 每个连接独立订阅事件总线，连接关闭时随ctx取消退出
type ScheduleFeed struct {
	engine   *engine.Engine
	upgrader websocket.Upgrader
}

// NewScheduleFeed 创建ScheduleFeed
func NewScheduleFeed(eng *engine.Engine) *ScheduleFeed {
	return &ScheduleFeed{
		engine: eng,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Serve 处理WebSocket连接
// GET /api/v1/ws
func (f *ScheduleFeed) Serve(c *gin.Context) {
	conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade失败时已写入HTTP错误响应
		log.Printf("WebSocket升级失败: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	messages, err := f.engine.SubscribeSchedules(ctx)
	if err != nil {
		log.Printf("订阅调度事件失败: %v", err)
		return
	}

	// 读协程只用于感知客户端断开
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(feedPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			msg.Ack()
			if err := f.writeMessage(conn, websocket.TextMessage, msg.Payload); err != nil {
				log.Printf("推送调度事件失败: %v", err)
				return
			}
		case <-ticker.C:
			if err := f.writeMessage(conn, websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (f *ScheduleFeed) writeMessage(conn *websocket.Conn, messageType int, payload []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(messageType, payload)
}
