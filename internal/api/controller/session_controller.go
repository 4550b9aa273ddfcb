package controller

import (
	"ctchen222/tictactoe-history/internal/api/models"
	"ctchen222/tictactoe-history/internal/api/response"
	"ctchen222/tictactoe-history/internal/api/service"
	"ctchen222/tictactoe-history/internal/game"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionController handles session-related HTTP requests.
type SessionController struct {
	sessionService service.SessionService
}

// NewSessionController creates a new SessionController.
func NewSessionController(sessionService service.SessionService) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

// Create starts a new game.
func (sc *SessionController) Create(c *gin.Context) {
	resp, err := sc.sessionService.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.CreatedResponse(c, resp)
}

// Get returns the state of one session.
func (sc *SessionController) Get(c *gin.Context) {
	resp, err := sc.sessionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessResponse(c, resp)
}

// Move plays a cell for whoever is next.
func (sc *SessionController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := sc.sessionService.Move(c.Request.Context(), c.Param("id"), *req.Cell)
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessResponse(c, resp)
}

// Jump moves the session to another step of its history.
func (sc *SessionController) Jump(c *gin.Context) {
	var req models.JumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := sc.sessionService.Jump(c.Request.Context(), c.Param("id"), *req.Step)
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessResponse(c, resp)
}

// Restart throws the current game away.
func (sc *SessionController) Restart(c *gin.Context) {
	resp, err := sc.sessionService.Restart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessResponse(c, resp)
}

func respondError(c *gin.Context, err error) {
	response.ErrorResponse(c, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrCellOccupied), errors.Is(err, game.ErrGameAlreadyWon):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidCell), errors.Is(err, game.ErrStepOutOfRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
