package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"identity-api/internal/domain/authz"
	"identity-api/internal/domain/user"
)

type denial struct {
	status int
	msg    string
}

var denials = map[authz.Reason]denial{
	authz.ReasonSuperadminProtected:         {http.StatusNotAcceptable, "superadmin accounts are protected"},
	authz.ReasonInsufficientPrivilege:       {http.StatusForbidden, "insufficient privileges"},
	authz.ReasonAdminCannotDeleteSuperadmin: {http.StatusForbidden, "admins cannot act on superadmins"},
	authz.ReasonAdminCannotDeleteAdmin:      {http.StatusForbidden, "admins cannot act on other admins"},
	authz.ReasonForbidden:                   {http.StatusForbidden, "superadmin privileges required"},
	authz.ReasonSelfGrantForbidden:          {http.StatusBadRequest, "cannot grant admin privileges to yourself"},
	authz.ReasonSelfRevokeForbidden:         {http.StatusBadRequest, "cannot revoke your own admin privileges"},
	authz.ReasonAlreadyPrivileged:           {http.StatusConflict, "user already has admin privileges"},
	authz.ReasonNotAdmin:                    {http.StatusConflict, "user is not an admin"},
	authz.ReasonNotFound:                    {http.StatusNotFound, "user not found"},
}

// updateDenials overrides denials for profile updates: 406 is reserved for
// deleting a superadmin.
var updateDenials = map[authz.Reason]denial{
	authz.ReasonSuperadminProtected: {http.StatusForbidden, "superadmin accounts are protected"},
}

// respondError maps service errors to statuses. Anything unrecognised is
// logged and hidden behind fallback.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	respondErrorWith(c, logger, err, fallback, nil)
}

// respondErrorWith is respondError with per-operation denial overrides.
func respondErrorWith(c *gin.Context, logger *zap.Logger, err error, fallback string, overrides map[authz.Reason]denial) {
	if reason, ok := authz.ReasonOf(err); ok {
		d, known := overrides[reason]
		if !known {
			d, known = denials[reason]
		}
		if !known {
			d = denial{http.StatusForbidden, "permission denied"}
		}
		c.JSON(d.status, gin.H{"error": d.msg, "reason": reason})
		return
	}

	switch {
	case errors.Is(err, user.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, user.ErrEmailAlreadyExists):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, user.ErrEmptyUpdate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func invalidBody(c *gin.Context, details any) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "invalid request body",
		"details": details,
	})
}
