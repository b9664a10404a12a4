// Package auth provides username login against the stored accounts and the
// JWT-based route guard middleware. Tokens travel in the Authorization
// header or in a cookie; malformed tokens are discarded and the request
// proceeds unauthenticated.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/docreg/internal/logger"
	"github.com/patric-chuzhbe/docreg/internal/models"
)

type usersKeeper interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, bool, error)
}

// ErrInvalidCredentials is returned by Login for unknown usernames.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Auth issues and verifies session tokens and guards routes by role.
type Auth struct {
	db usersKeeper

	// authCookieName is the cookie the token is mirrored into.
	authCookieName string

	// tokenSigningSecretKey signs session JWTs.
	tokenSigningSecretKey []byte

	tokenTTL time.Duration
}

// Claims are the JWT claims of a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserKey is the context key under which the authenticated user is stored.
const UserKey ContextKey = "currentUser"

// New creates an Auth guard over the given accounts storage.
func New(
	db usersKeeper,
	authCookieName string,
	tokenSigningSecretKey []byte,
	tokenTTL time.Duration,
) *Auth {
	return &Auth{
		db:                    db,
		authCookieName:        authCookieName,
		tokenSigningSecretKey: tokenSigningSecretKey,
		tokenTTL:              tokenTTL,
	}
}

// HasRole reports whether role satisfies the required set.
// An empty required set admits any authenticated role.
func HasRole(role models.Role, required ...models.Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, allowed := range required {
		if role == allowed {
			return true
		}
	}

	return false
}

// Login resolves the username case-insensitively against the stored accounts
// and returns the matching user carrying a freshly signed session token.
func (a *Auth) Login(ctx context.Context, username string) (*models.User, error) {
	usr, found, err := a.db.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrInvalidCredentials
	}

	token, err := a.buildJWTString(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenTTL)),
		},
		UserID:   usr.ID,
		Username: usr.Username,
		Name:     usr.Name,
		Role:     usr.Role,
	})
	if err != nil {
		return nil, err
	}
	usr.Token = token

	return usr, nil
}

// IssueCookie mirrors the user's session token into the auth cookie
// and the Authorization response header.
func (a *Auth) IssueCookie(response http.ResponseWriter, usr *models.User) {
	response.Header().Set("Authorization", usr.Token)

	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.authCookieName,
			Value:    usr.Token,
			Path:     "/",
			HttpOnly: true,
		},
	)
}

// ClearCookie removes the auth cookie.
func (a *Auth) ClearCookie(response http.ResponseWriter) {
	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.authCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		},
	)
}

// Authenticate is an HTTP middleware that resolves the session token from
// the Authorization header or the auth cookie. A valid token puts the user
// into the request context; an absent or malformed one is dropped silently
// and the request continues without a session.
func (a *Auth) Authenticate(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		usr, ok := a.getUserFromAuthorizationHeaderOrCookie(request)
		if !ok {
			h.ServeHTTP(response, request)

			return
		}

		ctx := context.WithValue(request.Context(), UserKey, usr)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// RequireUser is an HTTP middleware that rejects unauthenticated
// requests with 401.
func (a *Auth) RequireUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		_, ok := UserFromContext(request.Context())
		if !ok {
			writeJSONError(response, http.StatusUnauthorized, "authentication required")

			return
		}

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}

// RequireRole returns an HTTP middleware rejecting unauthenticated requests
// with 401 and authenticated users outside the required role set with 403.
func (a *Auth) RequireRole(required ...models.Role) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		middleware := func(response http.ResponseWriter, request *http.Request) {
			usr, ok := UserFromContext(request.Context())
			if !ok {
				writeJSONError(response, http.StatusUnauthorized, "authentication required")

				return
			}
			if !HasRole(usr.Role, required...) {
				writeJSONError(response, http.StatusForbidden, "access denied")

				return
			}

			h.ServeHTTP(response, request)
		}

		return http.HandlerFunc(middleware)
	}
}

// UserFromContext extracts the authenticated user stored by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	usr, ok := ctx.Value(UserKey).(*models.User)
	return usr, ok && usr != nil
}

func writeJSONError(response http.ResponseWriter, status int, message string) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(map[string]string{"error": message}); err != nil {
		logger.Log.Debugln("Error encoding the error response: ", zap.Error(err))
	}
}

func (a *Auth) getTokenStringFromAuthorizationHeaderOrCookie(request *http.Request) string {
	tokenString := request.Header.Get("Authorization")
	if tokenString != "" {
		return trimBearerPrefix(tokenString)
	}
	cookie, err := request.Cookie(a.authCookieName)
	if err == nil {
		tokenString = cookie.Value
	}

	return tokenString
}

func trimBearerPrefix(tokenString string) string {
	const prefix = "Bearer "
	if len(tokenString) > len(prefix) && tokenString[:len(prefix)] == prefix {
		return tokenString[len(prefix):]
	}

	return tokenString
}

func (a *Auth) getUserFromAuthorizationHeaderOrCookie(request *http.Request) (*models.User, bool) {
	tokenString := a.getTokenStringFromAuthorizationHeaderOrCookie(request)
	if tokenString == "" {
		return nil, false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.tokenSigningSecretKey, nil
		},
	)
	if err != nil || !token.Valid {
		return nil, false
	}

	return &models.User{
		ID:       claims.UserID,
		Username: claims.Username,
		Name:     claims.Name,
		Role:     claims.Role,
		Token:    tokenString,
	}, true
}

func (a *Auth) buildJWTString(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, *claims)

	tokenString, err := token.SignedString(a.tokenSigningSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
