package api

import (
	"context"
	"errors"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/typegraph/internal/httputil"
	"github.com/persistorai/typegraph/internal/metrics"
	"github.com/persistorai/typegraph/internal/models"
)

// streamWriteTimeout bounds a single websocket write.
const streamWriteTimeout = 10 * time.Second

// Stream message types.
const (
	streamEdge   = "edge"
	streamResult = "result"
	streamError  = "error"
)

// streamMessage is one websocket frame of an ancestry stream.
type streamMessage struct {
	Type   string                   `json:"type"`
	Edge   *models.Edge             `json:"edge,omitempty"`
	Result *models.DiscoverResponse `json:"result,omitempty"`
	Error  *httputil.ErrorResponse  `json:"error,omitempty"`
}

// streamHandler handles GET /api/v1/ancestry/stream: it upgrades to a websocket, sends every edge
// as it is recorded, then the final result.
func streamHandler(appCtx context.Context, svc AncestryService, log *logrus.Logger, corsOrigins []string) gin.HandlerFunc {
	originPatterns := originHosts(corsOrigins)

	return func(c *gin.Context) {
		req, ok := bindDiscoverRequest(c)
		if !ok {
			return
		}

		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns:       originPatterns,
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			log.WithError(err).Error("websocket accept failed")

			return
		}
		defer conn.CloseNow() //nolint:errcheck // best-effort after a normal close.

		metrics.ActiveStreams.Inc()
		defer metrics.ActiveStreams.Dec()

		// Cancels when the server shuts down, the request ends, or the client closes or writes.
		ctx, cancel := context.WithCancel(conn.CloseRead(c.Request.Context()))
		defer cancel()

		stop := context.AfterFunc(appCtx, cancel)
		defer stop()

		var writeErr error

		resp, err := svc.DiscoverStream(ctx, req, func(e models.Edge) {
			if writeErr != nil {
				return
			}

			if writeErr = writeStream(ctx, conn, streamMessage{Type: streamEdge, Edge: &e}); writeErr != nil {
				cancel()
			}
		})

		switch {
		case writeErr != nil:
			log.WithError(writeErr).Debug("ancestry stream client went away")

			return
		case err != nil:
			if errors.Is(err, context.Canceled) {
				return
			}

			status, code, message := classifyError(err)
			log.WithError(err).WithFields(logrus.Fields{"name": req.Name, "status": status}).Error("streaming ancestry")

			_ = writeStream(ctx, conn, streamMessage{Type: streamError, Error: &httputil.ErrorResponse{
				Code:      code,
				Message:   message,
				RequestID: c.GetString("request_id"),
			}})
			conn.Close(websocket.StatusInternalError, code) //nolint:errcheck // connection is done either way.

			return
		}

		if err := writeStream(ctx, conn, streamMessage{Type: streamResult, Result: resp}); err != nil {
			log.WithError(err).Debug("ancestry stream client went away")

			return
		}

		log.WithFields(logrus.Fields{"action": "ancestry.stream", "name": req.Name, "nodes": len(resp.Result.Nodes)}).Info("audit")

		conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck // connection is done either way.
	}
}

func writeStream(ctx context.Context, conn *websocket.Conn, msg streamMessage) error {
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()

	return wsjson.Write(ctx, conn, msg)
}
