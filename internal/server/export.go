package server

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

const HeaderExportJobID = "X-Export-Job-Id"

func (s *Server) ExportInvoice(c *gin.Context) {
	res, err := s.editor.Export(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName}))
	c.Header(HeaderExportJobID, res.JobID)
	c.Data(http.StatusOK, res.ContentType, res.Content)
}

func (s *Server) ExportStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.exports.Status()})
}

func (s *Server) DismissExportNotice(c *gin.Context) {
	s.exports.DismissNotice()
	c.Status(http.StatusNoContent)
}
