package controllers

import (
	"aresclub/aresclub/services/auth"
	"aresclub/aresclub/services/chat"
	"aresclub/aresclub/utils/apperrors"
	"aresclub/aresclub/utils/logging"
	"aresclub/aresclub/utils/types"
	"context"
	"encoding/json"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

const ConnectedMessage = "Conectado al chat de Ares Club"

// TranscriptArchive stores a snapshot of the chat history.
type TranscriptArchive interface {
	UploadTranscript(ctx context.Context, msgs []types.MessagePayload) (string, error)
}

type ChatController struct {
	hub     *chat.Hub
	guard   *auth.Guard
	archive TranscriptArchive
}

// NewChatController wires the hub to HTTP. archive may be nil.
func NewChatController(hub *chat.Hub, guard *auth.Guard, archive TranscriptArchive) *ChatController {
	return &ChatController{hub: hub, guard: guard, archive: archive}
}

func (c *ChatController) Messages(ctx context.Context, limit int) (*types.MessagesResponse, error) {
	if limit <= 0 || limit > chat.DefaultRecentLimit {
		limit = chat.DefaultRecentLimit
	}
	msgs, err := c.hub.FetchRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &types.MessagesResponse{Success: true, Data: chat.ToPayloads(msgs)}, nil
}

func (c *ChatController) Send(ctx context.Context, token string, req types.SendMessageRequest) (*types.SendMessageResponse, error) {
	msg, err := c.hub.SubmitAdminMessage(ctx, token, req.Message)
	if err != nil {
		return nil, err
	}
	return &types.SendMessageResponse{Success: true, Message: "Message sent", Data: chat.ToPayload(*msg)}, nil
}

func (c *ChatController) Online() types.OnlineResponse {
	return types.OnlineResponse{Success: true, Online: c.hub.OnlineCount()}
}

func (c *ChatController) Archive(ctx context.Context) (*types.ArchiveResponse, error) {
	if c.archive == nil {
		return nil, apperrors.New(apperrors.KindTransientStore, "transcript archive is not configured")
	}
	msgs, err := c.hub.FetchRecent(ctx, chat.DefaultRecentLimit)
	if err != nil {
		return nil, err
	}
	key, err := c.archive.UploadTranscript(ctx, chat.ToPayloads(msgs))
	if err != nil {
		logging.ErrorLogger.Error("archive transcript failed", zap.Error(err))
		return nil, apperrors.Store("could not archive transcript", err)
	}
	logging.AppLogger.Info("chat transcript archived", zap.String("key", key), zap.Int("messages", len(msgs)))
	return &types.ArchiveResponse{Success: true, Key: key, Messages: len(msgs)}, nil
}

// ServeConnection runs one live connection until the peer leaves or the hub
// drops it. token is optional and only marks admin connections.
func (c *ChatController) ServeConnection(ctx context.Context, conn *websocket.Conn, token string) {
	client := c.hub.NewClient(&wsConn{conn: conn}, c.identify(ctx, token))
	// connected must be the first frame, ahead of any broadcast
	client.Prime(types.Event{
		Name: types.EventConnected,
		Data: types.ConnectedPayload{Message: ConnectedMessage},
	})
	handle, err := c.hub.Register(client)
	if err != nil {
		logging.ErrorLogger.Error("register live connection failed", zap.Error(err))
		conn.Close(websocket.StatusInternalError, "internal error")
		return
	}
	defer c.hub.Unregister(handle)

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			logging.ChatLogger.Debug("live connection closed",
				zap.String("handle", handle.String()),
				zap.Int("status", int(websocket.CloseStatus(err))))
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		c.handleFrame(ctx, handle.String(), data, func(ev types.Event) {
			_ = c.hub.Send(handle, ev)
		})
	}
}

// handleFrame ignores anything that is not a well-formed user_message.
func (c *ChatController) handleFrame(ctx context.Context, handle string, data []byte, reply func(types.Event)) {
	var in types.InboundEvent
	if err := json.Unmarshal(data, &in); err != nil {
		logging.ChatLogger.Debug("malformed frame", zap.String("handle", handle), zap.Error(err))
		return
	}
	if in.Name != types.EventUserMessage {
		return
	}
	var p types.UserMessagePayload
	if err := json.Unmarshal(in.Data, &p); err != nil {
		logging.ChatLogger.Debug("malformed user_message", zap.String("handle", handle), zap.Error(err))
		return
	}
	if _, err := c.hub.SubmitVisitorMessage(ctx, p.Username, p.Message); err != nil {
		if apperrors.KindOf(err) == apperrors.KindValidation {
			return
		}
		reply(types.Event{Name: types.EventError, Data: types.ErrorResponse{
			Kind:   string(apperrors.KindOf(err)),
			Detail: apperrors.DetailOf(err),
		}})
	}
}

func (c *ChatController) identify(ctx context.Context, token string) chat.Sender {
	if token == "" {
		return chat.Anonymous{}
	}
	user, err := c.guard.ResolveCurrentUser(ctx, token)
	if err != nil {
		logging.ChatLogger.Debug("live connection token rejected", zap.Error(err))
		return chat.Anonymous{}
	}
	if !user.IsAdmin {
		return chat.Anonymous{}
	}
	return chat.Admin{User: user}
}

// wsConn adapts a websocket to the hub's transport.
type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) WriteEvent(ctx context.Context, ev types.Event) error {
	return wsjson.Write(ctx, w.conn, ev)
}

// Close runs the close handshake in the background so the caller never waits
// on a peer that stopped reading.
func (w *wsConn) Close(reason string) error {
	go w.conn.Close(websocket.StatusGoingAway, reason)
	return nil
}
