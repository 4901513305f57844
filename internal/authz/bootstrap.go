package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色矩阵
// admin 覆盖全部排期管理面，creator 只能操作自己名下的记录路由
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "creator",
			Policies: []Policy{
				{Object: "/logistics/creator/:id/details", Action: "PATCH"},
				{Object: "/logistics/creator/:id/issue", Action: "POST"},
				{Object: "/logistics/campaign/:id/reservation", Action: "POST"},
				{Object: "/logistics/campaign/:id", Action: "GET"},
				{Object: "/logistics/campaign/:id/slots", Action: "GET"},
				{Object: "/logistics/campaign/:id/reservation-config", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "admin",
			Inherits: []string{"creator"},
			Policies: []Policy{
				{Object: "/logistics/campaign/:id/records", Action: "POST"},
				{Object: "/logistics/campaign/:id/summary", Action: "GET"},
				{Object: "/logistics/campaign/:id/:recordId/reservation-detail", Action: "PATCH"},
				{Object: "/logistics/campaign/:id/:recordId/schedule-reservation", Action: "PATCH"},
				{Object: "/logistics/campaign/:id/:recordId/admin-schedule", Action: "PATCH"},
				{Object: "/logistics/campaign/:id/:recordId/reschedule", Action: "PATCH"},
				{Object: "/logistics/admin/:id/status", Action: "PATCH"},
				{Object: "/logistics/admin/:id/shipment", Action: "PATCH"},
				{Object: "/logistics/creator/:id/retry", Action: "PATCH"},
				{Object: "/logistics/creator/:id/resolve", Action: "PATCH"},
				{Object: "/logistics/assign/:campaignId", Action: "POST"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor); err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}

	return nil
}
