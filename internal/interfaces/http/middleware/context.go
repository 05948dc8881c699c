package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/shared/constants"
)

// CurrentUserID returns the id attached by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// CurrentSessionID returns the id of the session the request was authenticated with.
func CurrentSessionID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(constants.ContextKeySessionID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// CurrentUser returns the account resolved for the request.
func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, ok := c.Get(constants.ContextKeyUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok
}

// CurrentSession returns the session the request was authenticated with.
func CurrentSession(c *gin.Context) (*user.Session, bool) {
	v, ok := c.Get(constants.ContextKeySession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*user.Session)
	return s, ok
}
