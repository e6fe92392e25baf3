// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/slayk/storefront-admin/internal/i18n"
	"github.com/slayk/storefront-admin/internal/utils"
)

// I18nMiddleware picks the first Accept-Language entry with a catalog.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(utils.ContextKeyLang, negotiateLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// negotiateLanguage handles headers like "hi-IN,hi;q=0.9,en;q=0.8". Entries
// are taken in header order; quality values are not weighed.
func negotiateLanguage(header string) string {
	for _, entry := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.Split(entry, ";")[0])
		if tag == "" || tag == "*" {
			continue
		}
		subtags := strings.FieldsFunc(tag, func(r rune) bool { return r == '-' || r == '_' })
		if len(subtags) == 0 {
			continue
		}
		if base := strings.ToLower(subtags[0]); i18n.Supported(base) {
			return base
		}
	}
	return i18n.DefaultLanguage()
}
