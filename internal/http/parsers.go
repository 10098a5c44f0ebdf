package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/linkshelf/internal/parsers"
	"github.com/mrlokans/linkshelf/internal/services"
	"github.com/mrlokans/linkshelf/internal/settingsstore"
)

// ParserManager lists and edits the parser registry.
// Implemented by services.ImportService.
type ParserManager interface {
	ListParsers() []parsers.Descriptor
	ListParsersSupporting(format string) []string
	RegisterParser(ctx context.Context, desc parsers.Descriptor) error
	UnregisterParser(ctx context.Context, name string) error
	ReloadParsers(ctx context.Context) error
}

type ParsersController struct {
	manager ParserManager
}

func NewParsersController(manager ParserManager) *ParsersController {
	return &ParsersController{manager: manager}
}

// List returns every registered parser.
// GET /api/parsers
func (pc *ParsersController) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"parsers": pc.manager.ListParsers()})
}

// ListByFormat returns the names of parsers claiming a format.
// GET /api/parsers/formats/:format
func (pc *ParsersController) ListByFormat(c *gin.Context) {
	format := c.Param("format")
	c.JSON(http.StatusOK, gin.H{
		"format":  format,
		"parsers": pc.manager.ListParsersSupporting(format),
	})
}

// Register adds and persists a custom parser. The body uses the same
// camelCase fields as the parser configuration file.
// POST /api/parsers
func (pc *ParsersController) Register(c *gin.Context) {
	var entry settingsstore.ParserEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(entry.Name) == "" || strings.TrimSpace(entry.Path) == "" {
		respondBadRequest(c, "name and path are required")
		return
	}
	if entry.Type == "" {
		entry.Type = string(parsers.KindExternal)
	}

	desc, err := entry.Descriptor()
	if err != nil {
		respondParserError(c, err)
		return
	}

	if err := pc.manager.RegisterParser(c.Request.Context(), desc); err != nil {
		respondParserError(c, err)
		return
	}

	respondCreated(c, desc)
}

// Unregister removes a custom parser.
// DELETE /api/parsers/:name
func (pc *ParsersController) Unregister(c *gin.Context) {
	name := c.Param("name")
	if err := pc.manager.UnregisterParser(c.Request.Context(), name); err != nil {
		respondParserError(c, err)
		return
	}
	respondSuccess(c, "parser removed")
}

// Reload rebuilds the registry from the configuration file.
// POST /api/parsers/reload
func (pc *ParsersController) Reload(c *gin.Context) {
	if err := pc.manager.ReloadParsers(c.Request.Context()); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error(), "invalid_config")
		return
	}
	c.JSON(http.StatusOK, gin.H{"parsers": pc.manager.ListParsers()})
}

func respondParserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, parsers.ErrDuplicateName):
		respondError(c, http.StatusConflict, err.Error(), "duplicate_name")
	case errors.Is(err, services.ErrParserNotFound):
		respondError(c, http.StatusNotFound, err.Error(), "parser_not_found")
	case errors.Is(err, services.ErrBuiltInParser):
		respondError(c, http.StatusForbidden, err.Error(), "built_in_parser")
	case errors.Is(err, parsers.ErrFileRead), errors.Is(err, parsers.ErrUnsupportedKind):
		respondError(c, http.StatusBadRequest, err.Error(), "invalid_parser")
	default:
		respondInternalError(c, err, "parser registry")
	}
}
