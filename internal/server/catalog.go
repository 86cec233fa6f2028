package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/invoicemaker/internal/invoice/domain"
)

func (s *Server) GetLocale(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.editor.Locale()})
}

// GetCatalog lists the selectable currencies, languages and tax types.
func (s *Server) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"currencies": domain.Currencies,
		"languages":  domain.Languages,
		"taxTypes":   domain.TaxTypes,
	}})
}
