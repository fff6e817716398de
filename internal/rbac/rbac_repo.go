package rbac

import "gorm.io/gorm"

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetMemberRoles(unitID string) ([]MemberRoleRow, error)
	GetRolePermissions(unitID string) ([]RolePermissionRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type MemberRoleRow struct {
	MemberID string
	RoleID   string
}

type RolePermissionRow struct {
	RoleID   string
	Resource string
	Action   string
}

func (r *repository) GetMemberRoles(unitID string) ([]MemberRoleRow, error) {
	var result []MemberRoleRow

	err := r.db.
		Table("member_roles").
		Select("member_roles.member_id, member_roles.role_id").
		Joins("JOIN roles ON roles.id = member_roles.role_id").
		Where("roles.unit_id = ?", unitID).
		Scan(&result).Error

	return result, err
}

func (r *repository) GetRolePermissions(unitID string) ([]RolePermissionRow, error) {
	var result []RolePermissionRow

	err := r.db.
		Table("role_permissions").
		Select("role_permissions.role_id, permissions.resource, permissions.action").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Where("roles.unit_id = ?", unitID).
		Scan(&result).Error

	return result, err
}
