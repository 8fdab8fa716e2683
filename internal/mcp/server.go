// Package mcp exposes the tracker's engines as MCP tools and resources,
// so an assistant can run a workout conversationally.
package mcp

import (
	"log/slog"

	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/measurements"
	"github.com/claude/liftlog/internal/schedule"
	"github.com/claude/liftlog/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(sessions *session.Engine, schedules *schedule.Engine, keeper *measurements.Keeper, cat catalog.Catalog, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog workout tracker. Start and run workout sessions, log sets, manage the workout schedule, and estimate calories. At most one session is active at a time."),
	)

	h := &handlers{
		sessions:  sessions,
		schedules: schedules,
		keeper:    keeper,
		catalog:   cat,
		log:       log,
	}

	s.AddTools(
		server.ServerTool{Tool: toolGetActiveSession, Handler: h.getActiveSession},
		server.ServerTool{Tool: toolStartSession, Handler: h.startSession},
		server.ServerTool{Tool: toolLogSet, Handler: h.logSet},
		server.ServerTool{Tool: toolCompleteSet, Handler: h.completeSet},
		server.ServerTool{Tool: toolSkipSet, Handler: h.skipSet},
		server.ServerTool{Tool: toolEndSession, Handler: h.endSession},
		server.ServerTool{Tool: toolCancelSession, Handler: h.cancelSession},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolScheduleWorkout, Handler: h.scheduleWorkout},
		server.ServerTool{Tool: toolGetDayStatuses, Handler: h.getDayStatuses},
		server.ServerTool{Tool: toolEstimateCalories, Handler: h.estimateCalories},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
	)

	s.AddResources(
		server.ServerResource{Resource: resActiveSession, Handler: h.activeSession},
		server.ServerResource{Resource: resUpcomingSchedule, Handler: h.upcomingSchedule},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	sessions  *session.Engine
	schedules *schedule.Engine
	keeper    *measurements.Keeper
	catalog   catalog.Catalog
	log       *slog.Logger
}

// --- Resource definitions ---

var resActiveSession = mcp.NewResource(
	"liftlog://active_session",
	"Active Session",
	mcp.WithResourceDescription("The in-progress workout session with its sets and exercise cursor, or empty when none is active"),
	mcp.WithMIMEType("application/json"),
)

var resUpcomingSchedule = mcp.NewResource(
	"liftlog://upcoming_schedule",
	"Upcoming Schedule",
	mcp.WithResourceDescription("Scheduled workouts for the next 7 days"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"liftlog://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercises with categories and default settings"),
	mcp.WithMIMEType("application/json"),
)
