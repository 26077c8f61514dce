package middleware

import (
	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/mail"
	"github.com/gin-gonic/gin"
)

func MailerMiddleware(mailer mail.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("mailer", mailer)
		c.Next()
	}
}

func GetMailer(c *gin.Context) mail.Mailer {
	mailer, exists := c.Get("mailer")
	if !exists {
		return nil
	}
	return mailer.(mail.Mailer)
}
