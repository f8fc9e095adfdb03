package editor

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/genconf/genconf/log"
	"github.com/genconf/genconf/schema"
)

// NewRouter builds the gin engine serving the editing API. pub feeds the
// log tail endpoint and may be nil to disable it.
func NewRouter(svc *Service, cfg Config, pub *log.Publisher) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), corsMiddleware(cfg.Origins()))

	api := r.Group("/api")
	api.GET("/files", handleList(svc))
	api.POST("/files/folder", handleCreateFolder(svc))
	api.POST("/files/file", handleSaveFile(svc))
	api.DELETE("/files", handleDelete(svc))
	api.GET("/files/content", handleContent(svc))
	api.POST("/files/rename", handleRename(svc))
	api.GET("/schema", handleSchema)
	api.GET("/logs", handleLogs(pub))

	return r
}

type createFolderRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

type saveFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type renameRequest struct {
	Path    string `json:"path"`
	NewName string `json:"new_name"`
}

func handleList(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.DefaultQuery("path", "/"))
		if err != nil {
			abortError(c, err)
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

func handleCreateFolder(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createFolderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortDetail(c, http.StatusBadRequest, err.Error())
			return
		}

		if err := svc.CreateFolder(req.Path, req.Name); err != nil {
			abortError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Folder created successfully"})
	}
}

func handleSaveFile(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req saveFileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortDetail(c, http.StatusBadRequest, err.Error())
			return
		}

		if err := svc.SaveFile(req.Path, req.Content); err != nil {
			abortError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "File saved successfully"})
	}
}

func handleDelete(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Query("path")); err != nil {
			abortError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
	}
}

func handleContent(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		content, err := svc.Content(c.Query("path"))
		if err != nil {
			abortError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"content": content})
	}
}

func handleRename(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req renameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortDetail(c, http.StatusBadRequest, err.Error())
			return
		}

		if err := svc.Rename(req.Path, req.NewName); err != nil {
			abortError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Item renamed successfully"})
	}
}

// handleSchema serves the schema-document grammar so the frontend can
// validate and autocomplete documents while editing.
func handleSchema(c *gin.Context) {
	c.JSON(http.StatusOK, schema.MetaSchema())
}

// handleLogs streams log lines to the client as they are published,
// until the client goes away or the publisher closes.
func handleLogs(pub *log.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pub == nil {
			abortDetail(c, http.StatusNotFound, "Log streaming is not enabled")
			return
		}

		sub := pub.Subscribe()
		defer sub.Close()

		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Header("Cache-Control", "no-cache")
		c.Writer.WriteHeader(http.StatusOK)
		c.Writer.Flush()

		for {
			select {
			case <-c.Request.Context().Done():
				return
			case entry, ok := <-sub.C():
				if !ok {
					return
				}

				if _, err := c.Writer.Write(entry); err != nil {
					return
				}

				c.Writer.Flush()
			}
		}
	}
}

func abortDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// abortError maps a service [Error] to its response; anything else is an
// internal error.
func abortError(c *gin.Context, err error) {
	var reqErr *Error
	if errors.As(err, &reqErr) {
		abortDetail(c, reqErr.Status, reqErr.Detail)
		return
	}

	abortDetail(c, http.StatusInternalServerError, err.Error())
}

// requestLogger emits one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		slog.Info("request completed",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// corsMiddleware lets the configured frontend origins call the API with
// credentials and answers preflight requests directly.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

				if req := c.GetHeader("Access-Control-Request-Headers"); req != "" {
					h.Set("Access-Control-Allow-Headers", req)
				} else {
					h.Set("Access-Control-Allow-Headers", "Content-Type")
				}
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
