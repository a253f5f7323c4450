package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"unispace/pkg/logger"
	"unispace/pkg/model"
)

const IdentityKey contextKey = "identity"

// Authenticator resolves a bearer token into a model.Identity once per
// request. Downstream code reads the identity from the context and
// never touches the token again.
type Authenticator struct {
	secret []byte
	log    *logger.Logger
}

func NewAuthenticator(secret string, log *logger.Logger) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		log:    log,
	}
}

type identityClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			a.rejectUnauthorized(w, r, "missing bearer token")
			return
		}

		identity, err := a.resolveIdentity(token)
		if err != nil {
			a.rejectUnauthorized(w, r, err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), IdentityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) resolveIdentity(token string) (model.Identity, error) {
	claims := &identityClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return model.Identity{}, err
	}
	if !parsed.Valid {
		return model.Identity{}, jwt.ErrTokenUnverifiable
	}

	role := model.Role(claims.Role)
	switch role {
	case model.RoleStudent, model.RoleStaff, model.RoleManager:
	default:
		return model.Identity{}, jwt.ErrTokenInvalidClaims
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return model.Identity{}, jwt.ErrTokenInvalidClaims
	}

	return model.Identity{Role: role, SubjectID: subject}, nil
}

func (a *Authenticator) rejectUnauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	a.log.Warn("Unauthorized request",
		"request_id", RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"reason", reason,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// IdentityFromContext returns the identity stored by Authenticate.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(model.Identity)
	return identity, ok
}

// IssueToken mints a signed identity token. Used by tooling and tests;
// the production issuer lives with the campus SSO.
func (a *Authenticator) IssueToken(identity model.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := identityClaims{
		Role: string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}
