package store

import (
	"testing"

	"github.com/groblegark/alertdeck/internal/model"
)

func TestActionProperties(t *testing.T) {
	tests := []struct {
		action     Action
		role       model.Role
		reloads    bool
		idempotent bool
	}{
		{ActionCreate, model.RoleAdmin, true, false},
		{ActionTrigger, model.RoleAdmin, false, false},
		{ActionArchive, model.RoleAdmin, true, false},
		{ActionMarkRead, model.RoleUser, true, true},
		{ActionMarkUnread, model.RoleUser, true, true},
		{ActionSnooze, model.RoleUser, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			if got := tt.action.RequiredRole(); got != tt.role {
				t.Errorf("RequiredRole() = %v, want %v", got, tt.role)
			}
			if got := tt.action.ReloadsList(); got != tt.reloads {
				t.Errorf("ReloadsList() = %v, want %v", got, tt.reloads)
			}
			if got := tt.action.Idempotent(); got != tt.idempotent {
				t.Errorf("Idempotent() = %v, want %v", got, tt.idempotent)
			}
		})
	}
}
