package handler

import (
	"net/http"
	"time"

	"secret-share/internal/auth"
	"secret-share/internal/store"
	"secret-share/internal/util"

	"github.com/gin-gonic/gin"
)

// OAuth state cookie 的有效期，只需要覆盖一次跳转往返
const stateCookieTTL = 5 * time.Minute

// OAuthHandler 负责某一个第三方提供方的登录流程，Google / Facebook 各一个实例。
type OAuthHandler struct {
	Client     *auth.OAuthClient
	Users      *store.UserStore
	Codec      *auth.Codec
	CookieName string
	CookieTTL  time.Duration
}

func NewOAuthHandler(client *auth.OAuthClient, users *store.UserStore, codec *auth.Codec, cookieName string, ttlHours int) *OAuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &OAuthHandler{
		Client:     client,
		Users:      users,
		Codec:      codec,
		CookieName: cookieName,
		CookieTTL:  time.Duration(ttlHours) * time.Hour,
	}
}

func (h *OAuthHandler) stateCookieName() string {
	return "oauth_state_" + h.Client.Provider()
}

// Start handles GET /auth/<provider>: redirect to the provider consent page.
func (h *OAuthHandler) Start(c *gin.Context) {
	state, err := util.RandomString(32)
	if err != nil {
		util.RenderError(c, http.StatusInternalServerError, "Sign in failed, please try again.")
		return
	}

	c.SetCookie(h.stateCookieName(), state, int(stateCookieTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, h.Client.AuthCodeURL(state))
}

// Callback handles GET /auth/<provider>/secrets.
// 握手任何一步失败都回登录页；成功则 find-or-create 后发会话跳 /secrets。
func (h *OAuthHandler) Callback(c *gin.Context) {
	if c.Query("error") != "" {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	cookieState, err := c.Cookie(h.stateCookieName())
	c.SetCookie(h.stateCookieName(), "", -1, "/", "", false, true)

	if code == "" || state == "" || err != nil || state != cookieState {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	profile, err := h.Client.FetchProfile(c.Request.Context(), code)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.Users.FindOrCreateByProvider(c.Request.Context(), profile.Provider, profile.SubjectID)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	token, err := h.Codec.Issue(c.Request.Context(), user)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.SetCookie(h.CookieName, token, int(h.CookieTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/secrets")
}
