package mcp

import (
	"context"
	"strings"

	"github.com/claude/liftlog/internal/calories"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/schedule"
	"github.com/claude/liftlog/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// splitIDs parses a comma-separated id list.
func splitIDs(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// --- Tool definitions ---

var toolGetActiveSession = mcp.NewTool("get_active_session",
	mcp.WithDescription("Get the in-progress workout session: exercises, sets logged so far, the current exercise, and notes. Errors when no session is active."),
)

var toolStartSession = mcp.NewTool("start_session",
	mcp.WithDescription("Start a new workout session. If a session is already active it is only replaced when confirm_override is true; the replaced session is discarded without entering history."),
	mcp.WithString("type_tag", mcp.Required(), mcp.Description("Workout type (e.g. 'Legs', 'Cardio', 'Custom')")),
	mcp.WithString("exercise_ids", mcp.Required(), mcp.Description("Comma-separated exercise ids (e.g. 'squat,leg-press')")),
	mcp.WithString("name", mcp.Description("Display name for the session")),
	mcp.WithBoolean("confirm_override", mcp.Description("Replace an already-active session. Defaults to false.")),
)

var toolLogSet = mcp.NewTool("log_set",
	mcp.WithDescription("Add a set for an exercise in the active session, pre-filled from the exercise's previous set in this session, its plan override, or its catalog defaults. Returns the new set."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id")),
)

var toolCompleteSet = mcp.NewTool("complete_set",
	mcp.WithDescription("Mark a set in the active session as completed."),
	mcp.WithString("set_id", mcp.Required(), mcp.Description("Set id")),
)

var toolSkipSet = mcp.NewTool("skip_set",
	mcp.WithDescription("Remove a set from the active session entirely. Unlike completing, a skipped set leaves no trace in history."),
	mcp.WithString("set_id", mcp.Required(), mcp.Description("Set id")),
)

var toolEndSession = mcp.NewTool("end_session",
	mcp.WithDescription("End the active session: stamps the duration, writes it to history, and returns it with an estimated calorie burn."),
)

var toolCancelSession = mcp.NewTool("cancel_session",
	mcp.WithDescription("Discard the active session without writing anything to history."),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("List finalized workout sessions, most recent first."),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 20.")),
)

var toolScheduleWorkout = mcp.NewTool("schedule_workout",
	mcp.WithDescription("Schedule a workout on a calendar day, optionally at a time of day and linked to a template."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Calendar day (YYYY-MM-DD, local)")),
	mcp.WithString("type_tag", mcp.Required(), mcp.Description("Workout type")),
	mcp.WithString("time", mcp.Description("Time of day (HH:MM, local); enables the due notification")),
	mcp.WithString("template_id", mcp.Description("Template to perform")),
	mcp.WithString("exercise_ids", mcp.Description("Comma-separated exercise ids when no template applies")),
)

var toolGetDayStatuses = mcp.NewTool("get_day_statuses",
	mcp.WithDescription("Get the statuses of a calendar day: any of completed, missed, scheduled."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Calendar day (YYYY-MM-DD)")),
)

var toolEstimateCalories = mcp.NewTool("estimate_calories",
	mcp.WithDescription("Estimate calories burned for a finalized workout, using the body-measurement history nearest the workout date."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("History entry id")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalog with categories and default settings."),
)

// --- Tool handlers ---

func (h *handlers) getActiveSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	active := h.sessions.Active()
	if active == nil {
		return mcp.NewToolResultError("no active session"), nil
	}
	result, err := mcp.NewToolResultJSON(active)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) startSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeTag, err := req.RequireString("type_tag")
	if err != nil {
		return mcp.NewToolResultError("type_tag parameter is required"), nil
	}
	idsStr, err := req.RequireString("exercise_ids")
	if err != nil {
		return mcp.NewToolResultError("exercise_ids parameter is required"), nil
	}

	started, pending, err := h.sessions.RequestStart(ctx, session.StartRequest{
		TypeTag:     typeTag,
		ExerciseIDs: splitIDs(idsStr),
		DisplayName: req.GetString("name", ""),
	})
	if err != nil {
		return mcp.NewToolResultError("start failed: " + err.Error()), nil
	}
	if pending != nil {
		if !req.GetBool("confirm_override", false) {
			return mcp.NewToolResultError("a session is already active; pass confirm_override=true to replace it (the active session will be discarded)"), nil
		}
		started, err = h.sessions.ConfirmStart(ctx, pending.Token)
		if err != nil {
			return mcp.NewToolResultError("start failed: " + err.Error()), nil
		}
	}

	result, err := mcp.NewToolResultJSON(started)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}

	id, err := h.sessions.AddSet(ctx, exerciseID)
	if err != nil {
		return mcp.NewToolResultError("adding set failed: " + err.Error()), nil
	}

	// Return the full set so the caller sees the cascaded values.
	active := h.sessions.Active()
	if active != nil {
		for _, set := range active.Sets {
			if set.ID == id {
				result, jerr := mcp.NewToolResultJSON(set)
				if jerr == nil {
					return result, nil
				}
				break
			}
		}
	}
	return mcp.NewToolResultText("set " + id + " added"), nil
}

func (h *handlers) completeSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	setID, err := req.RequireString("set_id")
	if err != nil {
		return mcp.NewToolResultError("set_id parameter is required"), nil
	}
	if err := h.sessions.CompleteSet(ctx, setID); err != nil {
		return mcp.NewToolResultError("completing set failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("set completed"), nil
}

func (h *handlers) skipSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	setID, err := req.RequireString("set_id")
	if err != nil {
		return mcp.NewToolResultError("set_id parameter is required"), nil
	}
	if err := h.sessions.SkipSet(ctx, setID); err != nil {
		return mcp.NewToolResultError("skipping set failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("set skipped"), nil
}

func (h *handlers) endSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	finalized, err := h.sessions.EndSession(ctx)
	if err != nil {
		return mcp.NewToolResultError("ending session failed: " + err.Error()), nil
	}

	if finalized.ScheduleID != nil {
		if err := h.schedules.MarkCompleted(ctx, *finalized.ScheduleID); err != nil {
			h.log.Warn("marking schedule entry completed failed", "id", *finalized.ScheduleID, "error", err)
		}
	}

	estimated := 0
	if finalized.TotalTimeSeconds != nil {
		estimated = calories.Estimate(*finalized.TotalTimeSeconds, finalized.TypeTag,
			h.keeper.List(), models.DayOf(finalized.StartTime))
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"session":            finalized,
		"estimated_calories": estimated,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) cancelSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.sessions.CancelSession(ctx); err != nil {
		return mcp.NewToolResultError("cancelling session failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("session cancelled"), nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	history := h.sessions.History()
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}

	result, err := mcp.NewToolResultJSON(history)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) scheduleWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}
	typeTag, err := req.RequireString("type_tag")
	if err != nil {
		return mcp.NewToolResultError("type_tag parameter is required"), nil
	}

	sreq := schedule.Request{
		Date:    date,
		TypeTag: typeTag,
		Time:    req.GetString("time", ""),
	}
	if tmplID := req.GetString("template_id", ""); tmplID != "" {
		sreq.TemplateID = &tmplID
	} else if ids := req.GetString("exercise_ids", ""); ids != "" {
		sreq.Exercises = splitIDs(ids)
	}

	entry, err := h.schedules.Schedule(ctx, sreq)
	if err != nil {
		return mcp.NewToolResultError("scheduling failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entry)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDayStatuses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}
	if _, err := models.ParseDay(date); err != nil {
		return mcp.NewToolResultError("invalid date: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"date":     date,
		"statuses": h.schedules.StatusesForDay(date),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) estimateCalories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutID, err := req.RequireString("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id parameter is required"), nil
	}

	past, ok := h.sessions.HistoryByID(workoutID)
	if !ok {
		return mcp.NewToolResultError("workout not found"), nil
	}

	duration := 0
	if past.TotalTimeSeconds != nil {
		duration = *past.TotalTimeSeconds
	}
	estimated := calories.Estimate(duration, past.TypeTag, h.keeper.List(), models.DayOf(past.StartTime))

	result, err := mcp.NewToolResultJSON(map[string]any{
		"workout_id": workoutID,
		"calories":   estimated,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.catalog.List())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
