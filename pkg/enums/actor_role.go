package enums

import (
	"fmt"
	"strings"
)

// ActorRole names the household member issuing a command.
type ActorRole string

const (
	ActorRoleChild    ActorRole = "child"
	ActorRoleGuardian ActorRole = "guardian"
)

// IsValid reports whether the role is known.
func (r ActorRole) IsValid() bool {
	return r == ActorRoleChild || r == ActorRoleGuardian
}

// ParseActorRole converts raw header input into ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	role := ActorRole(strings.ToLower(strings.TrimSpace(value)))
	if !role.IsValid() {
		return "", fmt.Errorf("invalid actor role %q", value)
	}
	return role, nil
}
