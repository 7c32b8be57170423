package entities

import (
	"strings"
	"time"
)

// Role is the organisational role attached to every user record.
type Role string

const (
	RoleBDM        Role = "bdm"
	RoleEstimator  Role = "estimator"
	RoleCOO        Role = "coo"
	RoleDirector   Role = "director"
	RoleDesignLead Role = "design_lead"
	RoleDesigner   Role = "designer"
	RoleAccounts   Role = "accounts"
)

// AllRoles lists every role known to the system, in display order.
var AllRoles = []Role{RoleBDM, RoleEstimator, RoleCOO, RoleDirector, RoleDesignLead, RoleDesigner, RoleAccounts}

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Elevated reports whether the role carries executive approval/allocation authority.
func (r Role) Elevated() bool {
	return r == RoleCOO || r == RoleDirector
}

// RoleSet is a whitelist of roles allowed to perform an operation.
type RoleSet []Role

func Roles(rs ...Role) RoleSet {
	return RoleSet(rs)
}

// Elevated is the coo/director whitelist used by most approval paths.
var Elevated = Roles(RoleCOO, RoleDirector)

func (s RoleSet) Allows(r Role) bool {
	for _, allowed := range s {
		if allowed == r {
			return true
		}
	}
	return false
}

// With returns a new set that also allows the given roles.
func (s RoleSet) With(rs ...Role) RoleSet {
	out := make(RoleSet, 0, len(s)+len(rs))
	out = append(out, s...)
	for _, r := range rs {
		if !out.Allows(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) String() string {
	names := make([]string, len(s))
	for i, r := range s {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// User is the account record resolved from a bearer token.
//
// Storage model (DynamoDB):
//   - PK: id (the auth provider uid)
//   - GSI role-index: role
type User struct {
	UID       string     `json:"uid" dynamodbav:"id"`
	Email     string     `json:"email" dynamodbav:"email"`
	Name      string     `json:"name" dynamodbav:"name"`
	Role      Role       `json:"role" dynamodbav:"role"`
	Status    UserStatus `json:"status" dynamodbav:"status"`
	CreatedAt time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" dynamodbav:"updated_at"`
	Version   int64      `json:"version" dynamodbav:"version"`
}

// Active reports whether the account may use the API at all.
func (u User) Active() bool {
	return u.Status == "" || u.Status == UserStatusActive
}
