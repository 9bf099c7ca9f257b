package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type stayQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

func (s *Server) CheckRoomAvailability(c *gin.Context) {
	roomID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query stayQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	stay, err := parseStay(query.From, query.To)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.availabilitySvc.CheckRoom(c.Request.Context(), roomID, stay)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CheckRoomTypeAvailability(c *gin.Context) {
	propertyID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query stayQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	stay, err := parseStay(query.From, query.To)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.availabilitySvc.CheckRoomTypes(c.Request.Context(), propertyID, stay)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
