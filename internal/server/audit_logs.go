package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/hengly4433/hotel-system/internal/audit/domain"
	"github.com/hengly4433/hotel-system/pkg/db/pagination"
)

type listAuditLogsQuery struct {
	pagination.Pagination
	EntityType string `form:"entity_type"`
	EntityID   string `form:"entity_id"`
}

func (s *Server) ListAuditLogs(c *gin.Context) {
	var query listAuditLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	entityID, err := parseOptionalUUID(query.EntityID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListRequest{
		Pagination: pagination.Pagination{
			PageToken: strings.TrimSpace(query.PageToken),
			PageSize:  query.PageSize,
		},
		EntityType: strings.ToLower(strings.TrimSpace(query.EntityType)),
		EntityID:   entityID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.AuditLogs, "page_info": resp.PageInfo})
}
