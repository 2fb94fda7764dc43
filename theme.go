package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	themeCookie     = "theme"
	themeHintHeader = "Sec-CH-Prefers-Color-Scheme"
	themeLight      = "light"
	themeDark       = "dark"
	themeMaxAge     = 3600 * 24 * 365
)

// resolveTheme picks the stored preference, then the browser's color scheme
// hint, then dark
func resolveTheme(c *gin.Context) string {
	if v, err := c.Cookie(themeCookie); err == nil && (v == themeLight || v == themeDark) {
		return v
	}
	if c.GetHeader(themeHintHeader) == themeLight {
		return themeLight
	}
	return themeDark
}

// toggleTheme flips and stores the theme preference
func toggleTheme(c *gin.Context) {
	theme := themeLight
	if resolveTheme(c) == themeLight {
		theme = themeDark
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(themeCookie, theme, themeMaxAge, "/", "", false, false)
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}
