package handler

import (
	"errors"
	"net/http"
	"time"

	"secret-share/internal/auth"
	"secret-share/internal/store"
	"secret-share/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler 负责本地注册 / 登录 / 退出。
type AuthHandler struct {
	Verifier   *auth.Verifier
	Codec      *auth.Codec
	CookieName string
	CookieTTL  time.Duration
}

func NewAuthHandler(verifier *auth.Verifier, codec *auth.Codec, cookieName string, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		Verifier:   verifier,
		Codec:      codec,
		CookieName: cookieName,
		CookieTTL:  time.Duration(ttlHours) * time.Hour,
	}
}

// Register handles POST /register: create the user, then log them in.
// 重名或参数错误回注册页，成功直接带会话跳到 /secrets。
func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.Verifier.Register(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) || errors.Is(err, auth.ErrCredentialMismatch) {
			c.Redirect(http.StatusFound, "/register")
			return
		}
		util.RenderError(c, http.StatusInternalServerError, "Registration failed, please try again.")
		return
	}

	token, err := h.Codec.Issue(c.Request.Context(), user)
	if err != nil {
		util.RenderError(c, http.StatusInternalServerError, "Login failed, please try again.")
		return
	}

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/secrets")
}

// Login handles POST /login.
// 用户不存在和密码错误对外不区分，都回登录页。
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.Verifier.Verify(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, auth.ErrCredentialMismatch) {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		util.RenderError(c, http.StatusInternalServerError, "Login failed, please try again.")
		return
	}

	token, err := h.Codec.Issue(c.Request.Context(), user)
	if err != nil {
		util.RenderError(c, http.StatusInternalServerError, "Login failed, please try again.")
		return
	}

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/secrets")
}

// Logout handles GET /logout: revoke the session row and drop the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.CookieName); err == nil && token != "" {
		// 吊销失败也继续清 cookie，不能把用户卡在登录态
		_ = h.Codec.Revoke(c.Request.Context(), token)
	}
	c.SetCookie(h.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(h.CookieName, token, int(h.CookieTTL.Seconds()), "/", "", false, true)
}
