package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"pns-delivery-api/config"
	"pns-delivery-api/ledger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler bundles the dependencies shared by all route handlers. The ledger
// owns order state; the DB handle is used directly only for the user and
// restaurant directories, which the ledger reads but does not own.
type Handler struct {
	DB     *gorm.DB
	Ledger *ledger.Ledger
	Log    *zap.Logger
	Cfg    *config.Config
}

func New(db *gorm.DB, l *ledger.Ledger, log *zap.Logger, cfg *config.Config) *Handler {
	return &Handler{DB: db, Ledger: l, Log: log, Cfg: cfg}
}

// fail maps ledger errors onto HTTP responses
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrInvalidStatus):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrOtpMismatch):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrOrderDelivered):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrPartnerUnavailable):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrNotAssigned):
		status = http.StatusForbidden
	default:
		h.Log.Error("internal error", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// paramID parses a numeric path parameter, responding 400 on junk
func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + ": " + raw})
		return 0, false
	}
	return uint(id), true
}
