package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func resolveWith(t *testing.T, r *IdentityResolver, req *http.Request) (Identity, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(sessions.Sessions("test", cookie.NewStore([]byte("cookie-secret"))))

	var (
		got Identity
		ok  bool
	)
	engine.GET("/", func(c *gin.Context) {
		got, ok = r.Resolve(c)
	})
	engine.ServeHTTP(httptest.NewRecorder(), req)
	return got, ok
}

func TestIdentity_Bearer_Header(t *testing.T) {
	req := require.New(t)
	r := NewIdentityResolver(testJWTSecret, true)

	// Given a token in the Authorization header
	httpReq := httptest.NewRequest(http.MethodGet, "/", nil)
	httpReq.Header.Set("Authorization", "Bearer "+signToken(t, "u1", "Alice"))

	// When resolved
	id, ok := resolveWith(t, r, httpReq)

	// Then the claims decide the identity
	req.True(ok)
	req.True(id.Verified)
	req.EqualValues("u1", id.User.ID)
	req.Equal("Alice", id.User.Username)
}

func TestIdentity_Token_Cookie_And_Name_Fallback(t *testing.T) {
	req := require.New(t)
	r := NewIdentityResolver(testJWTSecret, true)

	// Given a token without a name claim and a name in the query
	httpReq := httptest.NewRequest(http.MethodGet, "/?name=Ally", nil)
	httpReq.AddCookie(&http.Cookie{Name: "token", Value: signToken(t, "u1", "")})

	id, ok := resolveWith(t, r, httpReq)

	req.True(ok)
	req.EqualValues("u1", id.User.ID)
	req.Equal("Ally", id.User.Username)
}

func TestIdentity_Query_Fallback(t *testing.T) {
	req := require.New(t)

	// Trusted when tokens are optional
	id, ok := resolveWith(t, NewIdentityResolver("", false), httptest.NewRequest(http.MethodGet, "/?userId=u2&name=Bob", nil))
	req.True(ok)
	req.False(id.Verified)
	req.EqualValues("u2", id.User.ID)
	req.Equal("Bob", id.User.Username)

	// Refused when they are required
	_, ok = resolveWith(t, NewIdentityResolver(testJWTSecret, true), httptest.NewRequest(http.MethodGet, "/?userId=u2", nil))
	req.False(ok)

	// No id at all
	_, ok = resolveWith(t, NewIdentityResolver("", false), httptest.NewRequest(http.MethodGet, "/", nil))
	req.False(ok)
}

func TestIdentity_Bad_Token_Does_Not_Fall_Back(t *testing.T) {
	req := require.New(t)
	r := NewIdentityResolver(testJWTSecret, false)

	// A forged token never degrades to the query id
	httpReq := httptest.NewRequest(http.MethodGet, "/?userId=u1&token="+signTokenWith(t, "wrong", "u1", "Alice"), nil)
	_, ok := resolveWith(t, r, httpReq)
	req.False(ok)

	// Nor does a token when no secret is configured
	_, ok = resolveWith(t, NewIdentityResolver("", false), httptest.NewRequest(http.MethodGet, "/?token="+signToken(t, "u1", "Alice"), nil))
	req.False(ok)
}
