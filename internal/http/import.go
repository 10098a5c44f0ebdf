package http

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/linkshelf/internal/importers"
	"github.com/mrlokans/linkshelf/internal/parsers"
	"github.com/mrlokans/linkshelf/internal/services"
	"github.com/mrlokans/linkshelf/internal/tasks"
)

// Importer runs one import under a known run id.
// Implemented by services.ImportService.
type Importer interface {
	ImportBookmarksRun(ctx context.Context, runID, filePath, parserName string) (*services.ImportResult, error)
}

// ImportRequest names a file already on the server. Uploads use the
// multipart fields "file" and "parser" instead.
type ImportRequest struct {
	FilePath string `json:"file_path" form:"file_path"`
	Parser   string `json:"parser" form:"parser"`
}

type ImportController struct {
	importer   Importer
	taskClient *tasks.Client
	uploadDir  string
}

func NewImportController(importer Importer, taskClient *tasks.Client, uploadDir string) *ImportController {
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	return &ImportController{importer: importer, taskClient: taskClient, uploadDir: uploadDir}
}

// Import starts an import. With a running task queue the import is
// enqueued and 202 is returned with the task and run ids; ?wait=true, or no
// queue, runs it within the request.
// POST /api/import
func (ic *ImportController) Import(c *gin.Context) {
	var req ImportRequest
	runID := uuid.NewString()
	uploaded := false

	if file, err := c.FormFile("file"); err == nil {
		req.Parser = c.PostForm("parser")
		dst := filepath.Join(ic.uploadDir, runID+"-"+filepath.Base(file.Filename))
		if err := c.SaveUploadedFile(file, dst); err != nil {
			respondInternalError(c, err, "save upload")
			return
		}
		req.FilePath = dst
		uploaded = true
	} else if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if req.FilePath == "" {
		respondBadRequest(c, "file_path or file is required")
		return
	}
	if req.Parser == "" {
		req.Parser = parsers.DefaultParserName
	}

	wait, _ := strconv.ParseBool(c.Query("wait"))
	if !wait && ic.taskClient != nil && ic.taskClient.Running() {
		taskID, err := ic.taskClient.Enqueue(tasks.ImportBookmarksTask{
			RunID:      runID,
			FilePath:   req.FilePath,
			Parser:     req.Parser,
			RemoveFile: uploaded,
		})
		if err == nil {
			respondAccepted(c, "import enqueued", gin.H{
				"task_id":   taskID,
				"run_id":    runID,
				"file_path": req.FilePath,
				"parser":    req.Parser,
			})
			return
		}
		removeUpload(uploaded, req.FilePath)
		respondInternalError(c, err, "enqueue import")
		return
	}

	defer removeUpload(uploaded, req.FilePath)
	result, err := ic.importer.ImportBookmarksRun(c.Request.Context(), runID, req.FilePath, req.Parser)
	if err != nil {
		status, code := importErrorStatus(err)
		c.JSON(status, ErrorResponse{
			Error:   err.Error(),
			Code:    code,
			Details: result,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// removeUpload deletes a file saved from a multipart upload.
func removeUpload(uploaded bool, path string) {
	if !uploaded {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[HTTP] Failed to remove upload %s: %v", path, err)
	}
}

func importErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrParserNotFound):
		return http.StatusNotFound, "parser_not_found"
	case errors.Is(err, parsers.ErrFileRead):
		return http.StatusBadRequest, "file_read"
	case errors.Is(err, parsers.ErrInvalidFormat):
		return http.StatusUnprocessableEntity, "invalid_format"
	case errors.Is(err, parsers.ErrExternalProcess):
		return http.StatusBadGateway, "external_process"
	case errors.Is(err, importers.ErrPersistence):
		return http.StatusInternalServerError, "persistence"
	default:
		return http.StatusInternalServerError, "import_failed"
	}
}
