// internal/models/user_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreezeDisablesAllCapabilities(t *testing.T) {
	u := &User{
		Status:          UserStatusActive,
		CanCreateOrders: true,
		CanRespondToRfq: true,
		CanWithdraw:     true,
		CanListProducts: true,
	}

	at := time.Now()
	u.Freeze("chargeback fraud", at)

	assert.Equal(t, UserStatusFrozen, u.Status)
	assert.False(t, u.CanCreateOrders)
	assert.False(t, u.CanRespondToRfq)
	assert.False(t, u.CanWithdraw)
	assert.False(t, u.CanListProducts)
	require.NotNil(t, u.FrozenAt)
	assert.Equal(t, at, *u.FrozenAt)
	assert.Equal(t, "chargeback fraud", u.FrozenReason)
}

func TestUnfreezeRestoresAllCapabilities(t *testing.T) {
	u := &User{Status: UserStatusActive, CanCreateOrders: true, CanRespondToRfq: true, CanWithdraw: true, CanListProducts: true}
	u.Freeze("investigation", time.Now())
	u.Unfreeze()

	assert.Equal(t, UserStatusActive, u.Status)
	assert.True(t, u.CanCreateOrders)
	assert.True(t, u.CanRespondToRfq)
	assert.True(t, u.CanWithdraw)
	assert.True(t, u.CanListProducts)
	assert.Nil(t, u.FrozenAt)
	assert.Empty(t, u.FrozenReason)
}

func TestPasswordHashing(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("Secr3t!pass"))
	assert.NotEqual(t, "Secr3t!pass", u.PasswordHash)

	assert.NoError(t, u.CheckPassword("Secr3t!pass"))
	assert.Error(t, u.CheckPassword("wrong"))
}

func TestIsFinanceAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin, AdminScope: AdminScopeFinance}).IsFinanceAdmin())
	assert.False(t, (&User{Role: RoleAdmin, AdminScope: AdminScopeGeneral}).IsFinanceAdmin())
	assert.False(t, (&User{Role: RoleOps, AdminScope: AdminScopeFinance}).IsFinanceAdmin())
}

func TestCapabilityFlagsSnapshot(t *testing.T) {
	u := &User{Status: UserStatusActive, CanCreateOrders: true, CanWithdraw: true}
	snap := u.CapabilityFlags()

	assert.Equal(t, UserStatusActive, snap["status"])
	assert.Equal(t, true, snap["can_create_orders"])
	assert.Equal(t, false, snap["can_respond_to_rfq"])
}
