// Package authz maps application roles to capability sets. Route and
// handler checks ask for capabilities, never for role names, so the
// gate logic lives in one table instead of scattered conditionals.
package authz

import "zapcrm/internal/models"

type Capability string

const (
	CapViewLeads    Capability = "view_leads"
	CapEditOwnLead  Capability = "edit_own_lead"
	CapEditAnyLead  Capability = "edit_any_lead"
	CapMoveOwnLead  Capability = "move_own_lead"
	CapMoveAnyLead  Capability = "move_any_lead"
	CapImportLeads  Capability = "import_leads"
	CapAssignLeads  Capability = "assign_leads"
	CapViewReports  Capability = "view_reports"
	CapManageUsers  Capability = "manage_users"
	CapViewMessages Capability = "view_messages"
)

var roleCapabilities = map[models.Role]map[Capability]bool{
	models.RoleAdmin: {
		CapViewLeads:    true,
		CapEditOwnLead:  true,
		CapEditAnyLead:  true,
		CapMoveOwnLead:  true,
		CapMoveAnyLead:  true,
		CapImportLeads:  true,
		CapAssignLeads:  true,
		CapViewReports:  true,
		CapManageUsers:  true,
		CapViewMessages: true,
	},
	models.RoleVendedor: {
		CapViewLeads:    true,
		CapEditOwnLead:  true,
		CapMoveOwnLead:  true,
		CapImportLeads:  true,
		CapViewReports:  true,
		CapViewMessages: true,
	},
	// nenhum: authenticated but not approved, no capabilities
	models.RoleNenhum: {},
}

func Can(role models.Role, cap Capability) bool {
	return roleCapabilities[role][cap]
}

// CanAll reports whether required ⊆ capabilities(role).
func CanAll(role models.Role, required ...Capability) bool {
	for _, c := range required {
		if !roleCapabilities[role][c] {
			return false
		}
	}
	return true
}

// Approved reports whether the account has been granted a working role.
func Approved(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleVendedor
}

// CanMoveLead is the board rule: vendedor may only move leads assigned
// to them, admin moves anything.
func CanMoveLead(user models.AppUser, lead models.Lead) bool {
	if Can(user.Papel, CapMoveAnyLead) {
		return true
	}
	return Can(user.Papel, CapMoveOwnLead) && lead.AssignedTo(user.ID)
}

// CanEditLead mirrors CanMoveLead for update/delete through the CRUD
// surface.
func CanEditLead(user models.AppUser, lead models.Lead) bool {
	if Can(user.Papel, CapEditAnyLead) {
		return true
	}
	return Can(user.Papel, CapEditOwnLead) && lead.AssignedTo(user.ID)
}
