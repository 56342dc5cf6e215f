package middleware

import (
	"net/http"

	"secret-share/internal/auth"
	"secret-share/internal/models"

	"github.com/gin-gonic/gin"
)

const userKey = "currentUser"

// CurrentUser 尝试把会话 cookie 还原成用户并放进 context。
// 任何失败（无 cookie、令牌无效、用户已不存在）都按匿名放行，不中断请求。
func CurrentUser(codec *auth.Codec, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := codec.Resolve(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireLogin guards protected routes: anonymous requests are redirected home.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFrom(c); !ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserFrom returns the resolved user for this request, if any.
func UserFrom(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
