package summary

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/dmoellenbeck/pidevclub/pkg/config"
	"github.com/dmoellenbeck/pidevclub/pkg/historian"
	"github.com/dmoellenbeck/pidevclub/pkg/httpx"
	"github.com/dmoellenbeck/pidevclub/pkg/storage"
	"github.com/dmoellenbeck/pidevclub/pkg/timerange"
)

// Handler serves summary queries over HTTP
type Handler struct {
	summarizer *Summarizer
}

// NewHandler creates a summary handler backed by the given storage
func NewHandler(store storage.Storage) *Handler {
	return &Handler{summarizer: New(store)}
}

// Response is the payload for /v1/summary
type Response struct {
	Tag       string             `json:"tag"`
	Start     time.Time          `json:"start"`
	End       time.Time          `json:"end"`
	Summaries map[string]float64 `json:"summaries"`
}

// HandleSummary handles GET /v1/summary?tag=&start=&end=&kinds=count,average
// Start and end accept RFC3339 or Unix seconds; end before start requests a
// backward interval. Kinds defaults to the event count.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	tag := params.Get("tag")
	if tag == "" {
		httpx.RespondErrorString(w, http.StatusBadRequest, "tag parameter is required")
		return
	}

	now := time.Now()
	start := ParseTimeParam(params.Get("start"), now.Add(-config.DefaultSummaryWindow))
	end := ParseTimeParam(params.Get("end"), now)
	iv := timerange.New(start, end)

	kinds, err := parseKinds(params.Get("kinds"))
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.SummaryTimeout)
	defer cancel()

	results, err := h.summarizer.Summarize(ctx, tag, iv, kinds...)
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, fmt.Errorf("summary failed: %w", err))
		return
	}

	// NaN has no JSON encoding; report absent values as null-omitted entries
	summaries := make(map[string]float64, len(results))
	for kind, v := range results {
		if math.IsNaN(v) {
			continue
		}
		summaries[string(kind)] = v
	}

	httpx.RespondJSON(w, http.StatusOK, Response{
		Tag:       tag,
		Start:     start,
		End:       end,
		Summaries: summaries,
	})
}

func parseKinds(param string) ([]historian.SummaryKind, error) {
	if param == "" {
		return []historian.SummaryKind{historian.EventCount}, nil
	}

	var kinds []historian.SummaryKind
	for _, raw := range strings.Split(param, ",") {
		kind, ok := historian.ParseSummaryKind(strings.TrimSpace(raw))
		if !ok {
			return nil, fmt.Errorf("unknown summary kind %q", raw)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// ParseTimeParam parses a time query parameter as Unix seconds (float) or
// RFC3339, falling back to the default when absent or unparseable.
func ParseTimeParam(param string, defaultTime time.Time) time.Time {
	if param == "" {
		return defaultTime
	}

	if t, err := time.Parse(time.RFC3339Nano, param); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, param); err == nil {
		return t
	}
	if unix, err := parseUnixSeconds(param); err == nil {
		return unix
	}

	return defaultTime
}

func parseUnixSeconds(param string) (time.Time, error) {
	var unix float64
	if _, err := fmt.Sscanf(param, "%f", &unix); err != nil {
		return time.Time{}, err
	}
	sec := int64(unix)
	nsec := int64((unix - float64(sec)) * 1e9)
	return time.Unix(sec, nsec), nil
}
