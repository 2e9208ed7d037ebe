package query

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmoellenbeck/pidevclub/pkg/config"
	"github.com/dmoellenbeck/pidevclub/pkg/historian"
	"github.com/dmoellenbeck/pidevclub/pkg/httpx"
	"github.com/dmoellenbeck/pidevclub/pkg/storage"
	"github.com/dmoellenbeck/pidevclub/pkg/summary"
	"github.com/dmoellenbeck/pidevclub/pkg/timerange"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// No Origin header = direct connection (non-browser clients)
		return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
	},
	ReadBufferSize:  config.WSReadBufferSize,
	WriteBufferSize: config.WSWriteBufferSize,
}

// StreamFrame is one WebSocket message: either a completed partition's
// samples or the final completion marker.
type StreamFrame struct {
	Type      string             `json:"type"` // "partition" or "complete"
	Partition int                `json:"partition,omitempty"`
	Start     time.Time          `json:"start,omitempty"`
	End       time.Time          `json:"end,omitempty"`
	Count     int                `json:"count"`
	Samples   []historian.Sample `json:"samples,omitempty"`
}

// HandleQueryStream handles GET /v1/query/stream?tag=&start=&end=&partitions=
// It upgrades to a WebSocket and writes one frame per subinterval as each
// partition's query completes, so large retrievals arrive incrementally
// instead of as one oversized response.
func (h *Handler) HandleQueryStream(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	tag := params.Get("tag")
	if tag == "" {
		httpx.RespondErrorString(w, http.StatusBadRequest, "tag parameter is required")
		return
	}

	now := time.Now()
	start := summary.ParseTimeParam(params.Get("start"), now.Add(-config.DefaultQueryWindow))
	end := summary.ParseTimeParam(params.Get("end"), now)
	iv := timerange.New(start, end)

	partitions := config.PartitionFetchParallelism
	if raw := params.Get("partitions"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > config.MaxPartitions {
			httpx.RespondErrorString(w, http.StatusBadRequest,
				fmt.Sprintf("partitions must be between 1 and %d", config.MaxPartitions))
			return
		}
		partitions = parsed
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	sent := 0
	for part := range iv.Partition(partitions) {
		samples, err := h.batcher.store.Query(ctx, storage.QueryRequest{
			Interval: part,
			Tags:     []string{tag},
		})
		if err != nil {
			log.Printf("Partition query failed during stream: %v", err)
			writeClose(conn, websocket.CloseInternalServerErr, "partition query failed")
			return
		}

		frame := StreamFrame{
			Type:      "partition",
			Partition: sent,
			Start:     part.Start,
			End:       part.End,
			Count:     len(samples),
			Samples:   samples,
		}
		conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
		if err := conn.WriteJSON(frame); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
		sent++
	}

	conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
	if err := conn.WriteJSON(StreamFrame{Type: "complete", Count: sent}); err != nil {
		log.Printf("WebSocket write error: %v", err)
		return
	}

	writeClose(conn, websocket.CloseNormalClosure, "")
}

func writeClose(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(config.WSWriteDeadline)
	msg := websocket.FormatCloseMessage(code, reason)
	if err := conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil && err != websocket.ErrCloseSent {
		log.Printf("WebSocket close error: %v", err)
	}
}
