package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) activeSession(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	active := h.sessions.Active()
	if active == nil {
		return jsonResource(req.Params.URI, map[string]any{"active": false})
	}
	return jsonResource(req.Params.URI, map[string]any{"active": true, "session": active})
}

func (h *handlers) upcomingSchedule(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	today := models.StartOfDay(time.Now())
	horizon := today.AddDate(0, 0, 7)

	var upcoming []models.ScheduledWorkout
	for _, w := range h.schedules.Entries() {
		day, err := models.ParseDay(w.Date)
		if err != nil {
			continue
		}
		if !day.Before(today) && day.Before(horizon) {
			upcoming = append(upcoming, w)
		}
	}
	return jsonResource(req.Params.URI, upcoming)
}

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.catalog.List())
}
