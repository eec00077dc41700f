package middleware

import "github.com/gofiber/fiber/v2"

// Identity is the caller as established by the JWT middleware.
type Identity struct {
	UserID string
	Role   string
	Name   string
	Email  string
}

// Authenticated reports whether a user id was established.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// CurrentIdentity reads the caller identity from the request locals.
func CurrentIdentity(c *fiber.Ctx) Identity {
	return Identity{
		UserID: localString(c, LocalUserID),
		Role:   normalizeRole(c.Locals(LocalUserRole)),
		Name:   localString(c, LocalUserName),
		Email:  localString(c, LocalUserEmail),
	}
}

func localString(c *fiber.Ctx, key string) string {
	if value, ok := c.Locals(key).(string); ok {
		return value
	}
	return ""
}
