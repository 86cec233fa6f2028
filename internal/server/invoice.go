package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/invoicemaker/internal/editor"
	"github.com/smallbiznis/invoicemaker/internal/invoice/domain"
	"github.com/smallbiznis/invoicemaker/internal/invoice/render"
)

type updateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

type reorderItemsRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

func (s *Server) GetInvoice(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.editor.Current()})
}

// ValidateInvoice reports every invalid field of the current draft as a
// validation error.
func (s *Server) ValidateInvoice(c *gin.Context) {
	if err := s.editor.Current().Invoice.Validate(); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"valid": true}})
}

func (s *Server) UpdateInvoiceField(c *gin.Context) {
	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	snap, err := s.editor.UpdateField(c.Request.Context(), domain.Field(strings.TrimSpace(req.Field)), req.Value)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snap})
}

func (s *Server) AddItem(c *gin.Context) {
	snap, item, err := s.editor.AddItem(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": snap, "item": item})
}

func (s *Server) UpdateItem(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	patch := domain.ItemPatchFromValues(values)
	if patch.Empty() {
		AbortWithError(c, newValidationError("item", "empty_patch", "nothing to update"))
		return
	}

	snap, changed, err := s.editor.UpdateItem(c.Request.Context(), id, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !changed {
		AbortWithError(c, domain.ErrItemNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snap})
}

func (s *Server) RemoveItem(c *gin.Context) {
	snap, changed, err := s.editor.RemoveItem(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !changed {
		AbortWithError(c, domain.ErrItemNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snap})
}

func (s *Server) ReorderItems(c *gin.Context) {
	var req reorderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	snap, err := s.editor.ReorderItemIDs(c.Request.Context(), req.IDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// ResetInvoice treats the request body as the user's answer to the reset
// prompt.
func (s *Server) ResetInvoice(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	answer := editor.ConfirmFunc(func(context.Context, string) (bool, error) {
		return req.Confirm, nil
	})
	snap, reset, err := s.editor.ResetToDefault(c.Request.Context(), answer)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snap, "reset": reset})
}

func (s *Server) PreviewInvoice(c *gin.Context) {
	html, err := s.renderer.RenderHTML(render.RenderInput{
		Invoice: s.editor.Current().Invoice,
		Footer:  s.settings.Get().FooterText,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
