package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"studioflow/internal/domain/entities"
	"studioflow/internal/usecase"
	"studioflow/pkg"

	"github.com/gin-gonic/gin"
)

const actorKey = "studioflow.actor"

var (
	errUnauthenticated = pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Missing or invalid bearer token", http.StatusUnauthorized)
	errAccountInactive = pkg.NewDomainErrorSimple("ACCOUNT_INACTIVE", "Account is inactive or suspended", http.StatusForbidden)
	errAuthUnavailable = pkg.NewDomainErrorSimple("INTERNAL_ERROR", "An internal error occurred", http.StatusInternalServerError)
)

// Authenticate resolves the bearer token to an active user and stores it on the context.
func Authenticate(auth usecase.IAuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			token = ""
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			appErr := errAuthUnavailable
			switch {
			case errors.Is(err, usecase.ErrUnauthenticated):
				appErr = errUnauthenticated
			case errors.Is(err, usecase.ErrAccountInactive):
				appErr = errAccountInactive
			default:
				log.Printf("[auth][middleware] authenticate failed path=%s err=%v", c.FullPath(), err)
			}
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}

		c.Set(actorKey, user)
		c.Next()
	}
}

// Actor returns the user stored by Authenticate.
func Actor(c *gin.Context) (entities.User, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return entities.User{}, false
	}
	u, ok := v.(entities.User)
	return u, ok
}

// SetActor stores u as the authenticated caller.
func SetActor(c *gin.Context, u entities.User) {
	c.Set(actorKey, u)
}
