package authorization

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

type Plan string

const (
	PlanFree       Plan = "FREE"
	PlanPro        Plan = "PRO"
	PlanEnterprise Plan = "ENTERPRISE"
)

func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	default:
		return false
	}
}

// Watermarked reports whether posters printed on this plan carry the brand
// watermark. Unknown plans are treated as free.
func (p Plan) Watermarked() bool {
	switch p {
	case PlanPro, PlanEnterprise:
		return false
	case PlanFree:
		return true
	default:
		return true
	}
}

func (p Plan) Value() (driver.Value, error) {
	if p == "" {
		return string(PlanFree), nil
	}
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid plan: %q", p)
	}
	return string(p), nil
}

func (p *Plan) Scan(value interface{}) error {
	if value == nil {
		*p = PlanFree
		return nil
	}
	raw, err := scanString(value)
	if err != nil {
		return fmt.Errorf("unsupported type for Plan: %w", err)
	}
	plan, ok := ParsePlan(raw)
	if !ok {
		return fmt.Errorf("invalid plan: %q", raw)
	}
	*p = plan
	return nil
}

func ParsePlan(value string) (Plan, bool) {
	plan := Plan(strings.ToUpper(strings.TrimSpace(value)))
	return plan, plan.IsValid()
}

func ValidPlans() []Plan {
	return []Plan{PlanFree, PlanPro, PlanEnterprise}
}

type UserStatus string

const (
	StatusActive   UserStatus = "ACTIVE"
	StatusInactive UserStatus = "INACTIVE"
	StatusExpired  UserStatus = "EXPIRED"
	StatusPending  UserStatus = "PENDING"
)

func (s UserStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusExpired, StatusPending:
		return true
	default:
		return false
	}
}

// CanSignIn is false for accounts an administrator switched off.
func (s UserStatus) CanSignIn() bool {
	switch s {
	case StatusActive, StatusExpired, StatusPending:
		return true
	case StatusInactive:
		return false
	default:
		return false
	}
}
