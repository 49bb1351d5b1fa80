package api

import "github.com/gin-gonic/gin"

func success(c *gin.Context, code int, data gin.H) {
	c.JSON(code, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   msg,
	})
}
