package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/linkshelf/internal/database"
	"github.com/mrlokans/linkshelf/internal/parsers"
	"github.com/mrlokans/linkshelf/internal/tasks"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Parsers ParserSummary     `json:"parsers"`
	Checks  map[string]string `json:"checks"`
}

// ParserSummary counts the registry entries an import can choose from.
type ParserSummary struct {
	BuiltIn int `json:"built_in"`
	Custom  int `json:"custom"`
}

// HealthController reports whether imports can run: the database answers,
// the built-in parser is registered and the task queue state.
type HealthController struct {
	db      *database.Database
	parsers ParserManager
	queue   *tasks.Client
	version string
}

func NewHealthController(db *database.Database, manager ParserManager, queue *tasks.Client, version string) *HealthController {
	return &HealthController{
		db:      db,
		parsers: manager,
		queue:   queue,
		version: version,
	}
}

// Status handles GET /health
func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  make(map[string]string),
	}
	fail := func(check, msg string) {
		resp.Checks[check] = msg
		resp.Status = "unhealthy"
	}

	if h.db == nil {
		resp.Checks["database"] = "not configured"
	} else if err := h.db.Ping(); err != nil {
		fail("database", "error: "+err.Error())
	} else {
		resp.Checks["database"] = "ok"
	}

	if h.parsers != nil {
		for _, desc := range h.parsers.ListParsers() {
			if desc.Kind == parsers.KindBuiltIn {
				resp.Parsers.BuiltIn++
			} else {
				resp.Parsers.Custom++
			}
		}
		if resp.Parsers.BuiltIn == 0 {
			fail("parsers", fmt.Sprintf("error: %q is not registered", parsers.DefaultParserName))
		} else {
			resp.Checks["parsers"] = fmt.Sprintf("ok: %d registered", resp.Parsers.BuiltIn+resp.Parsers.Custom)
		}
	}

	switch {
	case h.queue == nil:
		resp.Checks["task_queue"] = "disabled"
	case h.queue.Running():
		resp.Checks["task_queue"] = "running"
	default:
		resp.Checks["task_queue"] = "stopped"
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}
