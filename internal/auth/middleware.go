package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
}

// Middleware is the access gate: it authenticates bearer credentials and
// enforces role requirements on privileged routes.
type Middleware struct {
	tokens *TokenService
	users  UserRepository
	logger *zap.Logger
}

func NewMiddleware(tokens *TokenService, users UserRepository, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// Authenticate rejects the request with 401 unless it carries a valid
// bearer token resolving to a known user.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.resolve(r)
		if err != nil {
			m.writeAuthError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *identity)))
	})
}

// OptionalAuthenticate resolves an identity when a valid token is
// present but never rejects; invalid credentials degrade to anonymous.
func (m *Middleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, err := m.resolve(r); err == nil {
			r = r.WithContext(WithIdentity(r.Context(), *identity))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects with 403 unless the authenticated caller holds the
// given role. It must run after Authenticate.
func (m *Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				m.writeAuthError(w, apperrors.NewUnauthenticatedError("no token provided, access denied"))
				return
			}

			if identity.Role != role {
				m.writeAuthError(w, apperrors.NewForbiddenError("access denied, "+role+" privileges required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) resolve(r *http.Request) (*Identity, error) {
	raw := bearerToken(r)
	if raw == "" {
		return nil, apperrors.NewUnauthenticatedError("no token provided, access denied")
	}

	userID, err := m.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}

	user, err := m.users.FindByID(r.Context(), userID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewUnauthenticatedError("token is not valid, user not found")
		}
		m.logger.Error("resolving user for token", zap.Int("userId", userID), zap.Error(err))
		return nil, err
	}

	return &Identity{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

// bearerToken extracts the credential from the Authorization header,
// falling back to the legacy x-auth-token header.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.Header.Get("x-auth-token")
}

type authErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (m *Middleware) writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "an unexpected error occurred"

	if ue, ok := apperrors.IsUnauthenticatedError(err); ok {
		status = http.StatusUnauthorized
		code = "UNAUTHENTICATED"
		message = ue.Message
	} else if fe, ok := apperrors.IsForbiddenError(err); ok {
		status = http.StatusForbidden
		code = "FORBIDDEN"
		message = fe.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(authErrorResponse{Error: code, Message: message}); encodeErr != nil {
		m.logger.Error("failed to encode response", zap.Error(encodeErr))
	}
}
