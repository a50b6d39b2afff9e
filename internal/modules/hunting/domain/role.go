package domain

import "fmt"

type Role string

const (
	RoleOwner  Role = "eigentuemer"
	RoleHunter Role = "jaeger"
	RoleBeater Role = "gaende"
	RoleGuest  Role = "gast"
)

func (r Role) Validate() error {
	switch r {
	case "", RoleOwner, RoleHunter, RoleBeater, RoleGuest:
		return nil
	default:
		return fmt.Errorf("unknown role: %q", r)
	}
}

type Permission string

const (
	PermCreateSessions Permission = "ansitze_erstellen"
	PermManageStands   Permission = "einrichtungen_verwalten"
	PermInviteMembers  Permission = "mitglieder_einladen"
	PermViewStatistics Permission = "statistiken_sehen"
	PermEditGround     Permission = "revier_bearbeiten"
)

var rolePresets = map[Role][]Permission{
	RoleOwner:  {PermCreateSessions, PermManageStands, PermInviteMembers, PermViewStatistics, PermEditGround},
	RoleHunter: {PermCreateSessions, PermViewStatistics},
	RoleBeater: {PermCreateSessions},
	RoleGuest:  {},
}

// Effective resolves the unset role to a hunter.
func (r Role) Effective() Role {
	if r == "" {
		return RoleHunter
	}
	return r
}

func (r Role) Can(p Permission) bool {
	for _, granted := range rolePresets[r.Effective()] {
		if granted == p {
			return true
		}
	}
	return false
}

func (r Role) Permissions() []Permission {
	return append([]Permission(nil), rolePresets[r.Effective()]...)
}
