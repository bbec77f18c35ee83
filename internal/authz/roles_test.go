package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"zapcrm/internal/models"
)

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, Can(models.RoleAdmin, CapManageUsers))
	assert.True(t, Can(models.RoleAdmin, CapMoveAnyLead))
	assert.True(t, Can(models.RoleVendedor, CapMoveOwnLead))
	assert.False(t, Can(models.RoleVendedor, CapMoveAnyLead))
	assert.False(t, Can(models.RoleVendedor, CapManageUsers))
	assert.False(t, Can(models.RoleNenhum, CapViewLeads))
}

func TestApproved(t *testing.T) {
	assert.True(t, Approved(models.RoleAdmin))
	assert.True(t, Approved(models.RoleVendedor))
	assert.False(t, Approved(models.RoleNenhum))
	assert.False(t, Approved(models.Role("inventada")))
}

func TestCanMoveLead(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()

	admin := models.AppUser{ID: otherID, Papel: models.RoleAdmin}
	owner := models.AppUser{ID: ownerID, Papel: models.RoleVendedor}
	other := models.AppUser{ID: otherID, Papel: models.RoleVendedor}
	pending := models.AppUser{ID: ownerID, Papel: models.RoleNenhum}

	assigned := models.Lead{ID: uuid.New(), ResponsavelID: &ownerID}
	unassigned := models.Lead{ID: uuid.New()}

	assert.True(t, CanMoveLead(admin, assigned))
	assert.True(t, CanMoveLead(admin, unassigned))
	assert.True(t, CanMoveLead(owner, assigned))
	assert.False(t, CanMoveLead(other, assigned))
	// unassigned leads belong to nobody, so a vendedor cannot move them
	assert.False(t, CanMoveLead(owner, unassigned))
	assert.False(t, CanMoveLead(pending, assigned))
}

func TestCanEditLead(t *testing.T) {
	ownerID := uuid.New()
	owner := models.AppUser{ID: ownerID, Papel: models.RoleVendedor}
	other := models.AppUser{ID: uuid.New(), Papel: models.RoleVendedor}
	lead := models.Lead{ID: uuid.New(), ResponsavelID: &ownerID}

	assert.True(t, CanEditLead(owner, lead))
	assert.False(t, CanEditLead(other, lead))
	assert.True(t, CanEditLead(models.AppUser{ID: uuid.New(), Papel: models.RoleAdmin}, lead))
}
