package query

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dmoellenbeck/pidevclub/pkg/config"
	"github.com/dmoellenbeck/pidevclub/pkg/historian"
	"github.com/dmoellenbeck/pidevclub/pkg/httpx"
	"github.com/dmoellenbeck/pidevclub/pkg/storage"
	"github.com/dmoellenbeck/pidevclub/pkg/summary"
	"github.com/dmoellenbeck/pidevclub/pkg/timerange"
)

// Handler serves partitioned archive queries over HTTP
type Handler struct {
	batcher *Batcher
}

// NewHandler creates a query handler backed by the given storage
func NewHandler(store storage.Storage) *Handler {
	return &Handler{batcher: NewBatcher(store)}
}

// Response is the payload for /v1/query
type Response struct {
	Tag     string             `json:"tag"`
	Start   time.Time          `json:"start"`
	End     time.Time          `json:"end"`
	Count   int                `json:"count"`
	Samples []historian.Sample `json:"samples"`
}

// HandleQuery handles GET /v1/query?tag=&start=&end=&per_partition=
// Start and end accept RFC3339 or Unix seconds. End before start requests a
// backward interval and returns samples newest first.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
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

	perPartition := int64(config.DefaultEventsPerPartition)
	if raw := params.Get("per_partition"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			httpx.RespondErrorString(w, http.StatusBadRequest, "per_partition must be a positive integer")
			return
		}
		perPartition = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.QueryTimeout)
	defer cancel()

	samples, err := h.batcher.Recorded(ctx, tag, iv, perPartition)
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, fmt.Errorf("query failed: %w", err))
		return
	}

	httpx.RespondJSON(w, http.StatusOK, Response{
		Tag:     tag,
		Start:   start,
		End:     end,
		Count:   len(samples),
		Samples: samples,
	})
}
