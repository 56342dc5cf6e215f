package util

import "github.com/gin-gonic/gin"

// RenderError 渲染统一错误页。
// 存储层读失败要给用户看到明确错误，而不是悄悄渲染空页面。
func RenderError(c *gin.Context, status int, msg string) {
	c.HTML(status, "error.html", gin.H{
		"message": msg,
	})
}
