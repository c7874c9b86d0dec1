// Package authz decides which user roles may perform which operations.
// The policy is a static table; callers consult it before touching storage
// so a denied request never opens a transaction.
package authz

import (
	"github.com/smartlibrary/server/internal/entities"
)

// Family groups operations by the part of the system they act on.
type Family string

const (
	FamilyCatalog Family = "catalog"
	FamilyLoans   Family = "loans"
	FamilyMembers Family = "members"
	FamilyAuthors Family = "authors"
	FamilyClubs   Family = "clubs"
	FamilyUsers   Family = "users"
	FamilyAudit   Family = "audit"
)

// Operation is a single named action within a family.
type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"

	OpIssue  Operation = "issue"
	OpReturn Operation = "return"
)

// Decision records the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

type ruleKey struct {
	family Family
	op     Operation
}

// policy maps each family/operation pair to the roles allowed to perform it.
// Members read the catalog and their own loans; librarians run day-to-day
// circulation and record keeping; admins manage users, delete records and
// read the audit trail. Issuing and returning is the librarian's job alone;
// admins only view and delete.
var policy = map[ruleKey][]entities.UserRole{
	{FamilyCatalog, OpRead}:   {entities.RoleAdmin, entities.RoleLibrarian, entities.RoleMember},
	{FamilyCatalog, OpCreate}: {entities.RoleAdmin, entities.RoleLibrarian},
	{FamilyCatalog, OpUpdate}: {entities.RoleAdmin, entities.RoleLibrarian},
	{FamilyCatalog, OpDelete}: {entities.RoleAdmin},

	{FamilyLoans, OpRead}:   {entities.RoleAdmin, entities.RoleLibrarian, entities.RoleMember},
	{FamilyLoans, OpIssue}:  {entities.RoleLibrarian},
	{FamilyLoans, OpReturn}: {entities.RoleLibrarian},

	{FamilyMembers, OpRead}:   {entities.RoleAdmin, entities.RoleLibrarian},
	{FamilyMembers, OpCreate}: {entities.RoleAdmin, entities.RoleLibrarian},
	{FamilyMembers, OpUpdate}: {entities.RoleAdmin, entities.RoleLibrarian},
	{FamilyMembers, OpDelete}: {entities.RoleAdmin},

	{FamilyAuthors, OpRead}:   {entities.RoleAdmin, entities.RoleLibrarian, entities.RoleMember},
	{FamilyAuthors, OpCreate}: {entities.RoleAdmin, entities.RoleLibrarian},
	{FamilyAuthors, OpUpdate}: {entities.RoleAdmin, entities.RoleLibrarian},
	{FamilyAuthors, OpDelete}: {entities.RoleAdmin},

	{FamilyClubs, OpRead}:   {entities.RoleAdmin, entities.RoleLibrarian},
	{FamilyClubs, OpCreate}: {entities.RoleAdmin, entities.RoleLibrarian},
	{FamilyClubs, OpUpdate}: {entities.RoleAdmin, entities.RoleLibrarian},
	{FamilyClubs, OpDelete}: {entities.RoleAdmin},

	{FamilyUsers, OpRead}:   {entities.RoleAdmin},
	{FamilyUsers, OpCreate}: {entities.RoleAdmin},
	{FamilyUsers, OpUpdate}: {entities.RoleAdmin},
	{FamilyUsers, OpDelete}: {entities.RoleAdmin},

	{FamilyAudit, OpRead}: {entities.RoleAdmin},
}

// Check evaluates the policy for the given role, family and operation.
// Unknown family/operation pairs are denied.
func Check(role entities.UserRole, family Family, op Operation) Decision {
	roles, ok := policy[ruleKey{family, op}]
	if !ok {
		return Decision{Allowed: false, Reason: "unknown operation"}
	}
	for _, allowed := range roles {
		if role == allowed {
			return Decision{Allowed: true}
		}
	}
	return Decision{Allowed: false, Reason: "role " + string(role) + " may not " + string(op) + " " + string(family)}
}

// Allowed is a convenience wrapper over Check.
func Allowed(role entities.UserRole, family Family, op Operation) bool {
	return Check(role, family, op).Allowed
}
