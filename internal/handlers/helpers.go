package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zapcrm/internal/models"
)

// currentUser rebuilds the acting user from the claims the auth
// middleware put in the context. Only ID and Papel are carried; the
// full row is fetched when a handler needs more.
func currentUser(c *gin.Context) (models.AppUser, bool) {
	idStr, _ := c.Get("user_id")
	papelStr, _ := c.Get("papel")

	s, ok := idStr.(string)
	if !ok {
		return models.AppUser{}, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return models.AppUser{}, false
	}

	p, _ := papelStr.(string)
	role := models.Role(p)
	if !role.Valid() {
		return models.AppUser{}, false
	}
	return models.AppUser{ID: id, Papel: role}, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
