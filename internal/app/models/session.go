package models

import "medibook-service/internal/pkg/constvars"

// Session is the authenticated caller resolved from the bearer token.
type Session struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == constvars.RoleAdmin
}

func (s *Session) IsDoctor() bool {
	return s != nil && s.Role == constvars.RoleDoctor
}

func (s *Session) IsPatient() bool {
	return s != nil && s.Role == constvars.RolePatient
}

func (s *Session) HasRole(roles ...string) bool {
	if s == nil {
		return false
	}
	for _, role := range roles {
		if s.Role == role {
			return true
		}
	}
	return false
}
