package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Session cookies are scoped to /api: every authenticated route lives under
// that prefix and the static upload mount must not receive them.
const authCookiePath = "/api"

func SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	setCookie(c, "accessToken", accessToken, AccessTokenExpiry)
	setCookie(c, "refreshToken", refreshToken, RefreshTokenExpiry)
}

func setCookie(c *gin.Context, name, value string, expiry time.Duration) {
	secure := true
	if gin.Mode() == gin.DebugMode { // Toggle for local dev
		secure = false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(expiry.Seconds()), authCookiePath, "", secure, true)
}

func ClearAuthCookies(c *gin.Context) {
	clearCookie(c, "accessToken")
	clearCookie(c, "refreshToken")
}

func clearCookie(c *gin.Context, name string) {
	secure := true
	if gin.Mode() == gin.DebugMode { // Toggle for local dev
		secure = false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, authCookiePath, "", secure, true)
}
