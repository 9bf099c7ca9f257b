package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reservationdomain "github.com/hengly4433/hotel-system/internal/reservation/domain"
	"github.com/hengly4433/hotel-system/pkg/db/pagination"
)

type listReservationsQuery struct {
	pagination.Pagination
	PropertyID string `form:"property_id"`
	GuestID    string `form:"guest_id"`
	Status     string `form:"status"`
	From       string `form:"from"`
	To         string `form:"to"`
}

func (q listReservationsQuery) toRequest() (reservationdomain.ListRequest, error) {
	req := reservationdomain.ListRequest{
		Pagination: pagination.Pagination{
			PageToken: strings.TrimSpace(q.PageToken),
			PageSize:  q.PageSize,
		},
		Status: reservationdomain.Status(strings.TrimSpace(q.Status)),
	}

	var err error
	if req.PropertyID, err = parseOptionalUUID(q.PropertyID); err != nil {
		return req, err
	}
	if req.GuestID, err = parseOptionalUUID(q.GuestID); err != nil {
		return req, err
	}
	if req.From, err = parseOptionalDate(q.From); err != nil {
		return req, err
	}
	if req.To, err = parseOptionalDate(q.To); err != nil {
		return req, err
	}
	return req, nil
}

func (s *Server) CreateReservation(c *gin.Context) {
	var req reservationdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reservationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListReservations(c *gin.Context) {
	var query listReservationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req, err := query.toRequest()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reservationSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Reservations, "page_info": resp.PageInfo})
}

func (s *Server) ListReservationsByGuest(c *gin.Context) {
	guestID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query listReservationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	query.GuestID = ""
	req, err := query.toRequest()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reservationSvc.ListByGuest(c.Request.Context(), guestID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Reservations, "page_info": resp.PageInfo})
}

func (s *Server) GetReservation(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.reservationSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateReservation(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req reservationdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reservationSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConfirmReservation(c *gin.Context) {
	s.transition(c, s.reservationSvc.Confirm)
}

func (s *Server) CheckInReservation(c *gin.Context) {
	s.transition(c, s.reservationSvc.CheckIn)
}

func (s *Server) CheckOutReservation(c *gin.Context) {
	s.transition(c, s.reservationSvc.CheckOut)
}

func (s *Server) MarkNoShow(c *gin.Context) {
	s.transition(c, s.reservationSvc.MarkNoShow)
}

func (s *Server) CancelReservation(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req reservationdomain.CancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}
	req.Reason = strings.TrimSpace(req.Reason)

	resp, err := s.reservationSvc.Cancel(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type transitionFunc func(ctx context.Context, id uuid.UUID) (*reservationdomain.Detail, error)

func (s *Server) transition(c *gin.Context, fn transitionFunc) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := fn(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
