package ledger

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/staking-ledger/pkg"
)

var (
	owner = pkg.MustParseAddress("0x00000000000000000000000000000000000000aa")
	user  = pkg.MustParseAddress("0x00000000000000000000000000000000000000bb")
	other = pkg.MustParseAddress("0x00000000000000000000000000000000000000cc")

	// 1000 * 10^18
	initialSupply = sdkmath.NewUintFromString("1000000000000000000000")
)

func u(v uint64) sdkmath.Uint {
	return sdkmath.NewUint(v)
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()

	l, err := New(Config{
		Owner:         owner,
		InitialSupply: initialSupply,
		RewardRate:    DefaultRewardRate,
	})
	require.NoError(t, err)
	return l
}

func fund(t *testing.T, l *Ledger, to pkg.Address, amount uint64) {
	t.Helper()

	_, err := l.Transfer(owner, to, u(amount))
	require.NoError(t, err)
}

func assertUint(t *testing.T, expected sdkmath.Uint, actual sdkmath.Uint) {
	t.Helper()
	assert.True(t, expected.Equal(actual), "expected %s, got %s", expected, actual)
}

func TestNew(t *testing.T) {
	t.Run("genesis allocation", func(t *testing.T) {
		l := newTestLedger(t)

		assertUint(t, initialSupply, l.BalanceOf(owner))
		assertUint(t, initialSupply, l.TotalSupply())
		assert.True(t, l.TotalStakes().IsZero())
		assert.True(t, l.TotalRewards().IsZero())
		assert.Empty(t, l.Stakeholders())
		assert.Zero(t, l.Sequence())
		require.NoError(t, l.CheckInvariants())
	})
	t.Run("invalid config", func(t *testing.T) {
		cases := []Config{
			{InitialSupply: initialSupply, RewardRate: DefaultRewardRate},
			{Owner: owner, RewardRate: DefaultRewardRate},
			{Owner: owner, InitialSupply: initialSupply, RewardRate: RewardRate{Numerator: 1}},
			{Owner: owner, InitialSupply: initialSupply, RewardRate: RewardRate{Numerator: 3, Denominator: 2}},
		}
		for _, cfg := range cases {
			_, err := New(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		}
	})
	t.Run("unseen accounts are zero", func(t *testing.T) {
		l := newTestLedger(t)

		acc := l.AccountOf(other)
		assert.True(t, acc.Balance.IsZero())
		assert.True(t, acc.Stake.IsZero())
		assert.True(t, acc.Reward.IsZero())

		isStakeholder, idx := l.IsStakeholder(other)
		assert.False(t, isStakeholder)
		assert.Equal(t, -1, idx)
	})
}

func TestCreateStake(t *testing.T) {
	t.Run("requires balance equal or above the stake", func(t *testing.T) {
		l := newTestLedger(t)

		_, err := l.CreateStake(user, u(1))
		require.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Zero(t, l.Sequence())
	})
	t.Run("rejects zero amount", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 3)

		_, err := l.CreateStake(user, sdkmath.ZeroUint())
		require.ErrorIs(t, err, ErrInvalidAmount)
		_, err = l.CreateStake(user, sdkmath.Uint{})
		require.ErrorIs(t, err, ErrInvalidAmount)
		assertUint(t, u(3), l.BalanceOf(user))
	})
	t.Run("creates a stake", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 3)

		receipt, err := l.CreateStake(user, u(1))
		require.NoError(t, err)
		assert.Equal(t, uint64(2), receipt.Sequence)

		assertUint(t, u(2), l.BalanceOf(user))
		assertUint(t, u(1), l.StakeOf(user))
		assertUint(t, initialSupply.Sub(u(1)), l.TotalSupply())
		assertUint(t, u(1), l.TotalStakes())
		require.NoError(t, l.CheckInvariants())
	})
	t.Run("adds a stakeholder", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 3)

		_, err := l.CreateStake(user, u(1))
		require.NoError(t, err)

		isStakeholder, idx := l.IsStakeholder(user)
		assert.True(t, isStakeholder)
		assert.Equal(t, 0, idx)

		// staking again does not duplicate the entry
		_, err = l.CreateStake(user, u(1))
		require.NoError(t, err)
		assert.Equal(t, []pkg.Address{user}, l.Stakeholders())
	})
}

func TestRemoveStake(t *testing.T) {
	t.Run("requires stake equal or above the amount to remove", func(t *testing.T) {
		l := newTestLedger(t)

		_, err := l.RemoveStake(user, u(1))
		require.ErrorIs(t, err, ErrInsufficientStake)
	})
	t.Run("rejects zero amount", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 3)
		_, err := l.CreateStake(user, u(3))
		require.NoError(t, err)

		_, err = l.RemoveStake(user, sdkmath.ZeroUint())
		require.ErrorIs(t, err, ErrInvalidAmount)
	})
	t.Run("removes a stake", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 3)
		_, err := l.CreateStake(user, u(3))
		require.NoError(t, err)

		_, err = l.RemoveStake(user, u(1))
		require.NoError(t, err)

		assertUint(t, u(1), l.BalanceOf(user))
		assertUint(t, u(2), l.StakeOf(user))
		assertUint(t, initialSupply.Sub(u(2)), l.TotalSupply())
		assertUint(t, u(2), l.TotalStakes())
		require.NoError(t, l.CheckInvariants())
	})
	t.Run("removes a stakeholder", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 3)
		_, err := l.CreateStake(user, u(3))
		require.NoError(t, err)

		_, err = l.RemoveStake(user, u(3))
		require.NoError(t, err)

		isStakeholder, _ := l.IsStakeholder(user)
		assert.False(t, isStakeholder)
		assert.Empty(t, l.Stakeholders())
	})
	t.Run("round trip restores state", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 50)
		before := l.AccountOf(user)
		totalsBefore := l.Totals()

		_, err := l.CreateStake(user, u(20))
		require.NoError(t, err)
		_, err = l.RemoveStake(user, u(20))
		require.NoError(t, err)

		after := l.AccountOf(user)
		assertUint(t, before.Balance, after.Balance)
		assertUint(t, before.Stake, after.Stake)
		assertUint(t, totalsBefore.TotalSupply, l.TotalSupply())
		assertUint(t, totalsBefore.TotalStakes, l.TotalStakes())
	})
}

func TestRewards(t *testing.T) {
	t.Run("can only be distributed by the owner", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 100)
		_, err := l.CreateStake(user, u(100))
		require.NoError(t, err)
		before := l.Snapshot()

		_, err = l.DistributeRewards(user)
		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, before, l.Snapshot())
	})
	t.Run("are distributed", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 100)
		_, err := l.CreateStake(user, u(100))
		require.NoError(t, err)

		dist, err := l.DistributeRewards(owner)
		require.NoError(t, err)
		require.Len(t, dist.Credits, 1)
		assert.Equal(t, user, dist.Credits[0].Address)
		assertUint(t, u(1), dist.Total)

		assertUint(t, u(1), l.RewardOf(user))
		assertUint(t, u(1), l.TotalRewards())
		// distribution does not mint
		assertUint(t, initialSupply.Sub(u(100)), l.TotalSupply())
	})
	t.Run("can be withdrawn", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 100)
		_, err := l.CreateStake(user, u(100))
		require.NoError(t, err)
		_, err = l.DistributeRewards(owner)
		require.NoError(t, err)

		receipt, err := l.WithdrawReward(user)
		require.NoError(t, err)
		assertUint(t, u(1), receipt.Amount)

		assertUint(t, u(1), l.BalanceOf(user))
		assertUint(t, u(100), l.StakeOf(user))
		assert.True(t, l.RewardOf(user).IsZero())
		assertUint(t, initialSupply.Sub(u(100)).Add(u(1)), l.TotalSupply())
		assertUint(t, u(100), l.TotalStakes())
		assert.True(t, l.TotalRewards().IsZero())
		require.NoError(t, l.CheckInvariants())
	})
	t.Run("second withdrawal fails without state change", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 100)
		_, err := l.CreateStake(user, u(100))
		require.NoError(t, err)
		_, err = l.DistributeRewards(owner)
		require.NoError(t, err)
		_, err = l.WithdrawReward(user)
		require.NoError(t, err)
		before := l.Snapshot()

		_, err = l.WithdrawReward(user)
		require.ErrorIs(t, err, ErrNothingToWithdraw)
		assert.Equal(t, before, l.Snapshot())
	})
	t.Run("repeated distribution is additive", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 1000)
		fund(t, l, other, 250)
		_, err := l.CreateStake(user, u(1000))
		require.NoError(t, err)
		_, err = l.CreateStake(other, u(250))
		require.NoError(t, err)

		_, err = l.DistributeRewards(owner)
		require.NoError(t, err)
		once := l.AccountOf(user).Reward
		onceOther := l.AccountOf(other).Reward

		_, err = l.DistributeRewards(owner)
		require.NoError(t, err)
		assertUint(t, once.MulUint64(2), l.RewardOf(user))
		assertUint(t, onceOther.MulUint64(2), l.RewardOf(other))
		assertUint(t, u(10+2).MulUint64(2), l.TotalRewards())
	})
	t.Run("small stakes earn nothing", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 99)
		_, err := l.CreateStake(user, u(99))
		require.NoError(t, err)

		dist, err := l.DistributeRewards(owner)
		require.NoError(t, err)
		assert.Empty(t, dist.Credits)
		assert.True(t, dist.Total.IsZero())
		assert.True(t, l.RewardOf(user).IsZero())
	})
	t.Run("custom rate rounds down", func(t *testing.T) {
		l, err := New(Config{
			Owner:         owner,
			InitialSupply: initialSupply,
			RewardRate:    RewardRate{Numerator: 5, Denominator: 1000},
		})
		require.NoError(t, err)
		fund(t, l, user, 399)
		_, err = l.CreateStake(user, u(399))
		require.NoError(t, err)

		_, err = l.DistributeRewards(owner)
		require.NoError(t, err)
		// 399 * 5 / 1000 = 1.995
		assertUint(t, u(1), l.RewardOf(user))
	})
}

func TestTransfer(t *testing.T) {
	t.Run("moves owner balance", func(t *testing.T) {
		l := newTestLedger(t)

		_, err := l.Transfer(owner, other, u(4))
		require.NoError(t, err)
		assertUint(t, initialSupply.Sub(u(4)), l.BalanceOf(owner))
		assertUint(t, u(4), l.BalanceOf(other))
		assertUint(t, initialSupply, l.TotalSupply())
	})
	t.Run("self transfer keeps state", func(t *testing.T) {
		l := newTestLedger(t)

		_, err := l.Transfer(owner, owner, u(10))
		require.NoError(t, err)
		assertUint(t, initialSupply, l.BalanceOf(owner))
		require.NoError(t, l.CheckInvariants())
	})
	t.Run("only the owner transfers", func(t *testing.T) {
		l := newTestLedger(t)
		fund(t, l, user, 10)
		before := l.Snapshot()

		_, err := l.Transfer(user, other, u(4))
		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, before, l.Snapshot())
	})
	t.Run("errors", func(t *testing.T) {
		l := newTestLedger(t)

		_, err := l.Transfer(owner, other, initialSupply.Add(u(1)))
		require.ErrorIs(t, err, ErrInsufficientBalance)
		_, err = l.Transfer(owner, other, sdkmath.ZeroUint())
		require.ErrorIs(t, err, ErrInvalidAmount)
		assert.Zero(t, l.Sequence())
	})
	t.Run("staked units cannot be transferred", func(t *testing.T) {
		l := newTestLedger(t)
		_, err := l.CreateStake(owner, initialSupply.Sub(u(2)))
		require.NoError(t, err)

		_, err = l.Transfer(owner, other, u(3))
		require.ErrorIs(t, err, ErrInsufficientBalance)
	})
}

func TestOverflow(t *testing.T) {
	// 2^256 - 1
	maxUint := sdkmath.NewUintFromString("115792089237316195423570985008687907853269984665640564039457584007913129639935")

	l, err := New(Config{Owner: owner, InitialSupply: maxUint, RewardRate: DefaultRewardRate})
	require.NoError(t, err)

	// everything is staked, so withdrawing any reward would overflow the supply
	_, err = l.CreateStake(owner, u(100))
	require.NoError(t, err)
	_, err = l.DistributeRewards(owner)
	require.NoError(t, err)
	_, err = l.RemoveStake(owner, u(100))
	require.NoError(t, err)

	before := l.Snapshot()
	_, err = l.WithdrawReward(owner)
	require.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, before, l.Snapshot())
}
