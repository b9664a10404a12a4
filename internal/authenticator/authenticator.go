package authenticator

import (
	"context"
	"net/http"

	"github.com/patric-chuzhbe/docreg/internal/models"
)

type Authenticator interface {
	Login(ctx context.Context, username string) (*models.User, error)
	IssueCookie(response http.ResponseWriter, usr *models.User)
	ClearCookie(response http.ResponseWriter)
	Authenticate(h http.Handler) http.Handler
	RequireUser(h http.Handler) http.Handler
	RequireRole(required ...models.Role) func(http.Handler) http.Handler
}
