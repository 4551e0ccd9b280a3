package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dkeye/Interview/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	sessionUserKey = "uid"
	sessionNameKey = "name"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is who a handshake claims to be and whether it was verified.
type Identity struct {
	User     *domain.User
	Verified bool
}

// IdentityResolver decides which user a websocket handshake belongs to.
// Verified sources win: a signed token, then the cookie session a token
// previously populated. Client-supplied ids are only accepted when tokens
// are not required.
type IdentityResolver struct {
	secret       []byte
	requireToken bool
}

func NewIdentityResolver(jwtSecret string, requireToken bool) *IdentityResolver {
	return &IdentityResolver{secret: []byte(jwtSecret), requireToken: requireToken}
}

func (r *IdentityResolver) Resolve(c *gin.Context) (Identity, bool) {
	name := c.Query("name")

	if raw := bearerToken(c); raw != "" {
		id, claimName, err := r.parseToken(raw)
		if err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Str("remote", c.ClientIP()).Msg("rejected handshake token")
			return Identity{}, false
		}
		if claimName != "" {
			name = claimName
		}
		user, err := domain.NewUser(domain.UserID(id), name)
		if err != nil {
			return Identity{}, false
		}
		r.remember(c, user)
		return Identity{User: user, Verified: true}, true
	}

	session := sessions.Default(c)
	if uid, ok := session.Get(sessionUserKey).(string); ok && uid != "" {
		if remembered, _ := session.Get(sessionNameKey).(string); remembered != "" {
			name = remembered
		}
		if user, err := domain.NewUser(domain.UserID(uid), name); err == nil {
			return Identity{User: user, Verified: true}, true
		}
	}

	if r.requireToken {
		return Identity{}, false
	}
	user, err := domain.NewUser(domain.UserID(c.Query("userId")), name)
	if err != nil {
		return Identity{}, false
	}
	return Identity{User: user}, true
}

func (r *IdentityResolver) parseToken(raw string) (id string, name string, err error) {
	if len(r.secret) == 0 {
		return "", "", fmt.Errorf("%w: no signing secret configured", ErrInvalidToken)
	}
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	id, _ = claims["id"].(string)
	if id == "" {
		return "", "", fmt.Errorf("%w: missing id claim", ErrInvalidToken)
	}
	name, _ = claims["name"].(string)
	return id, name, nil
}

func (r *IdentityResolver) remember(c *gin.Context, user *domain.User) {
	session := sessions.Default(c)
	session.Set(sessionUserKey, string(user.ID))
	session.Set(sessionNameKey, user.Username)
	if err := session.Save(); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("session save")
	}
}

// bearerToken looks in the query, the token cookie, then the
// Authorization header.
func bearerToken(c *gin.Context) string {
	if t := c.Query("token"); t != "" {
		return t
	}
	if t, err := c.Cookie("token"); err == nil && t != "" {
		return t
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
