package rbac

import (
	"context"
	"errors"
	"testing"

	"go-erp/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	roles    map[string][]EmployeeRoleRow
	perms    map[string][]RolePermissionRow
	rolesErr error
}

func (f *fakeRepo) GetEmployeeRoles(ctx context.Context, companyID string) ([]EmployeeRoleRow, error) {
	return f.roles[companyID], f.rolesErr
}

func (f *fakeRepo) GetRolePermissions(ctx context.Context, companyID string) ([]RolePermissionRow, error) {
	return f.perms[companyID], nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	e, err := infra.NewEnforcer()
	assert.NoError(t, err)
	return NewService(repo, e)
}

func TestRBACService_Enforce(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{
		roles: map[string][]EmployeeRoleRow{
			"company-1": {{EmployeeID: "emp-hr", RoleID: "role-hr"}, {EmployeeID: "emp-staff", RoleID: "role-staff"}},
			"company-2": {{EmployeeID: "emp-staff", RoleID: "role-hr-2"}},
		},
		perms: map[string][]RolePermissionRow{
			"company-1": {
				{RoleID: "role-hr", Resource: "leave", Action: "review"},
				{RoleID: "role-hr", Resource: "leave", Action: "read_all"},
				{RoleID: "role-staff", Resource: "leave", Action: "create"},
			},
			"company-2": {{RoleID: "role-hr-2", Resource: "leave", Action: "review"}},
		},
	}
	svc := newTestService(t, repo)

	t.Run("reviewer allowed", func(t *testing.T) {
		allowed, err := svc.Enforce(ctx, EnforceRequest{EmployeeID: "emp-hr", CompanyID: "company-1", Resource: "leave", Action: "review"})
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("staff cannot review", func(t *testing.T) {
		allowed, err := svc.Enforce(ctx, EnforceRequest{EmployeeID: "emp-staff", CompanyID: "company-1", Resource: "leave", Action: "review"})
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("grants are scoped per company", func(t *testing.T) {
		allowed, err := svc.Enforce(ctx, EnforceRequest{EmployeeID: "emp-staff", CompanyID: "company-2", Resource: "leave", Action: "review"})
		assert.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = svc.Enforce(ctx, EnforceRequest{EmployeeID: "emp-hr", CompanyID: "company-2", Resource: "leave", Action: "review"})
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("repository error", func(t *testing.T) {
		failing := newTestService(t, &fakeRepo{rolesErr: errors.New("db down")})
		allowed, err := failing.Enforce(ctx, EnforceRequest{EmployeeID: "emp-hr", CompanyID: "company-1", Resource: "leave", Action: "review"})
		assert.Error(t, err)
		assert.False(t, allowed)
	})
}
