package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/store"
)

type fakePromoStore struct {
	code      *store.PromoCode
	redeemed  map[string]bool
	userPlans map[string]string
}

func newFakePromoStore(code *store.PromoCode) *fakePromoStore {
	return &fakePromoStore{code: code, redeemed: map[string]bool{}, userPlans: map[string]string{}}
}

func (f *fakePromoStore) GetPromoCode(code string) (*store.PromoCode, error) {
	if f.code != nil && f.code.Code == code {
		copied := *f.code
		return &copied, nil
	}
	return nil, nil
}

func (f *fakePromoStore) HasRedeemedPromo(codeID, userID string) (bool, error) {
	return f.redeemed[codeID+"/"+userID], nil
}

func (f *fakePromoStore) RedeemPromo(codeID, userID string, newUses int) error {
	f.redeemed[codeID+"/"+userID] = true
	f.code.Uses = newUses
	return nil
}

func (f *fakePromoStore) UpdateUserPlan(userID, plan string) error {
	f.userPlans[userID] = plan
	return nil
}

func TestApplyPromoHappyPath(t *testing.T) {
	fake := newFakePromoStore(&store.PromoCode{ID: "c1", Code: "FOUNDER", Plan: "full", MaxUses: 10})
	svc := NewPromoService(fake, zap.NewNop())

	ent, err := svc.Apply("u1", "  founder ")
	require.NoError(t, err)
	assert.Equal(t, "full", ent.Plan)
	assert.Equal(t, "full", fake.userPlans["u1"])
	assert.Equal(t, 1, fake.code.Uses)
}

func TestApplyPromoRejectsSecondRedemption(t *testing.T) {
	fake := newFakePromoStore(&store.PromoCode{ID: "c1", Code: "FOUNDER", Plan: "full", MaxUses: 10})
	svc := NewPromoService(fake, zap.NewNop())

	_, err := svc.Apply("u1", "FOUNDER")
	require.NoError(t, err)
	_, err = svc.Apply("u1", "FOUNDER")
	assert.ErrorIs(t, err, ErrPromoRedeemed)
}

func TestApplyPromoRejectsExpiredAndExhausted(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	expired := newFakePromoStore(&store.PromoCode{ID: "c1", Code: "OLD", Plan: "full", ExpiresAt: &past})
	_, err := NewPromoService(expired, zap.NewNop()).Apply("u1", "OLD")
	assert.ErrorIs(t, err, ErrPromoInvalid)

	exhausted := newFakePromoStore(&store.PromoCode{ID: "c2", Code: "FULL", Plan: "full", MaxUses: 1, Uses: 1})
	_, err = NewPromoService(exhausted, zap.NewNop()).Apply("u1", "FULL")
	assert.ErrorIs(t, err, ErrPromoInvalid)

	missing := newFakePromoStore(nil)
	_, err = NewPromoService(missing, zap.NewNop()).Apply("u1", "NOPE")
	assert.ErrorIs(t, err, ErrPromoInvalid)
}
