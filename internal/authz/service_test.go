package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceRoleWithGrantedPolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/logistics/admin/:id/status", "PATCH"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}

	allow, err := svc.EnforceRole("ops", "/api/v1/logistics/admin/42/status", "patch")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceRole("ops", "/api/v1/logistics/admin/42/status", "DELETE")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestRevokeRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/logistics/campaign/:id/summary", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.RevokeRolePolicy("ops", "/logistics/campaign/:id/summary", "GET"); err != nil {
		t.Fatalf("revoke role policy failed: %v", err)
	}

	allow, err := svc.EnforceRole("ops", "/logistics/campaign/7/summary", "GET")
	if err != nil {
		t.Fatalf("enforce after revoke failed: %v", err)
	}
	if allow {
		t.Fatalf("expected revoked permission to deny")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/logistics/campaign/:id", want: "/logistics/campaign/:id"},
		{in: "/logistics/campaign/:id", want: "/logistics/campaign/:id"},
		{in: "logistics/assign/3", want: "/logistics/assign/3"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		"role:creator": true,
		"role:admin":   true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	// 创作者可上报异常，但不能做排期管理
	allow, err := svc.EnforceRole("creator", "/api/v1/logistics/creator/12/issue", "POST")
	if err != nil {
		t.Fatalf("enforce creator issue failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected creator to report issues")
	}
	allow, err = svc.EnforceRole("creator", "/api/v1/logistics/admin/12/status", "PATCH")
	if err != nil {
		t.Fatalf("enforce creator status failed: %v", err)
	}
	if allow {
		t.Fatalf("expected creator denied on admin status route")
	}

	// admin 继承 creator 的全部权限
	allow, err = svc.EnforceRole("admin", "/api/v1/logistics/campaign/5/slots", "GET")
	if err != nil {
		t.Fatalf("enforce inherited permission failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected admin to inherit creator permissions")
	}
	allow, err = svc.EnforceRole("admin", "/api/v1/logistics/campaign/5/9/schedule-reservation", "PATCH")
	if err != nil {
		t.Fatalf("enforce admin schedule failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected admin schedule permission")
	}
}
