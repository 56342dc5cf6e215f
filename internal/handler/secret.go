package handler

import (
	"errors"
	"net/http"
	"strings"

	"secret-share/internal/middleware"
	"secret-share/internal/store"
	"secret-share/internal/util"

	"github.com/gin-gonic/gin"
)

// SecretHandler 负责秘密的展示与提交。
type SecretHandler struct {
	Users *store.UserStore
}

func NewSecretHandler(users *store.UserStore) *SecretHandler {
	return &SecretHandler{Users: users}
}

// List handles GET /secrets: render every non-null secret, identity stripped.
// 登录与否都能看；读库失败必须给出可见错误，不能渲染成空列表。
func (h *SecretHandler) List(c *gin.Context) {
	secrets, err := h.Users.ListSecrets(c.Request.Context())
	if err != nil {
		util.RenderError(c, http.StatusInternalServerError, "Could not load secrets, please try again later.")
		return
	}

	_, loggedIn := middleware.UserFrom(c)
	c.HTML(http.StatusOK, "secrets.html", gin.H{
		"secrets":  secrets,
		"loggedIn": loggedIn,
	})
}

// Submit handles POST /submit: overwrite the current user's secret.
// 路由挂了 RequireLogin，到这里一定有用户。
func (h *SecretHandler) Submit(c *gin.Context) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	secret := strings.TrimSpace(c.PostForm("secret"))
	if secret == "" {
		c.Redirect(http.StatusFound, "/submit")
		return
	}

	if err := h.Users.SetSecret(c.Request.Context(), user.ID, secret); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// 会话还在但用户记录没了，按未登录处理
			c.Redirect(http.StatusFound, "/")
			return
		}
		util.RenderError(c, http.StatusInternalServerError, "Could not save your secret, please try again.")
		return
	}

	c.Redirect(http.StatusFound, "/secrets")
}
