package middlewares

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"xrgi-portal/backend/i18n"
)

// LanguageKey is the gin context key holding the request's language.Tag.
const LanguageKey = "lang"

func Language(fallback string) gin.HandlerFunc {
	def := i18n.Match(fallback)
	return func(c *gin.Context) {
		tag := i18n.ResolveTag(c.Request, def)
		c.Set(LanguageKey, tag)
		c.Header("Content-Language", tag.String())
		c.Next()
	}
}

// LanguageFrom returns the language chosen for the request, English if none.
func LanguageFrom(c *gin.Context) language.Tag {
	if v, ok := c.Get(LanguageKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return language.English
}
