package reputation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/domain/reputation"
	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

func newLedger() *reputation.Ledger {
	return reputation.NewLedger("biz-1", "Corner Store", shared.BusinessHypermarket, 1, nil)
}

func TestCalculateReputation_WeightedAndClamped(t *testing.T) {
	cases := []struct {
		name   string
		scores reputation.Scores
		want   float64
	}{
		{"defaults", reputation.DefaultScores(), 3.0},
		{"weighted", reputation.Scores{ServiceSpeed: 4, Quality: 5, Cleanliness: 2, Ambiance: 3, Value: 1}, 3.4},
		{"all high", reputation.Scores{ServiceSpeed: 50, Quality: 50, Cleanliness: 50, Ambiance: 50, Value: 50}, 5},
		{"all negative", reputation.Scores{ServiceSpeed: -9, Quality: -9, Cleanliness: -9, Ambiance: -9, Value: -9}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.scores.Weighted(), 1e-9)

			l := newLedger()
			l.SetScores(tc.scores)
			rep := l.CalculateReputation()
			assert.GreaterOrEqual(t, rep, 0.0)
			assert.LessOrEqual(t, rep, 5.0)
		})
	}
}

func TestReputationBands_InclusiveLowerBound(t *testing.T) {
	cases := []struct {
		reputation float64
		traffic    float64
		markup     float64
	}{
		{5.0, 2.0, 0.30},
		{4.5, 2.0, 0.30},
		{4.49, 1.5, 0.20},
		{4.0, 1.5, 0.20},
		{3.5, 1.25, 0.10},
		{3.0, 1.0, 0.0},
		{2.0, 0.75, -0.10},
		{1.99, 0.5, -0.20},
		{0, 0.5, -0.20},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.traffic, reputation.FootTrafficMultiplier(tc.reputation), "traffic at %.2f", tc.reputation)
		assert.Equal(t, tc.markup, reputation.PriceMarkup(tc.reputation), "markup at %.2f", tc.reputation)
	}
}

func TestRecordSaleAndExpense_ProfitIsDerived(t *testing.T) {
	l := newLedger()

	require.NoError(t, l.RecordSale(120))
	require.NoError(t, l.RecordSale(80))
	require.NoError(t, l.RecordExpense(50))
	require.NoError(t, l.RecordIncome(10))

	today := l.Today()
	assert.Equal(t, 210.0, today.Revenue)
	assert.Equal(t, 50.0, today.Expenses)
	assert.Equal(t, 160.0, today.Profit())
	assert.Equal(t, 2, today.CustomersServed)
	assert.Equal(t, 160.0, l.Cash())

	assert.Error(t, l.RecordSale(-1))
	assert.Equal(t, 160.0, l.Cash())
}

func TestFund_AddsCashWithoutRevenue(t *testing.T) {
	l := newLedger()

	require.NoError(t, l.Fund(2500))
	err := l.Fund(-1)

	assert.Error(t, err)
	assert.Equal(t, 2500.0, l.Cash())
	assert.Equal(t, 0.0, l.Today().Revenue)
	assert.Equal(t, 0.0, l.Today().Profit())
}

func TestEndDay_Milestones(t *testing.T) {
	cases := []struct {
		name      string
		revenue   float64
		incidents int
		wantBP    int
	}{
		{"big profit, no incidents", 1000, 0, 15},
		{"medium profit, no incidents", 500, 0, 10},
		{"small profit, no incidents", 499, 0, 5},
		{"big profit, one incident", 1500, 1, 10},
		{"nothing earned, incidents", 0, 2, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := newLedger()
			require.NoError(t, l.RecordSale(tc.revenue))
			for i := 0; i < tc.incidents; i++ {
				l.RecordIncident()
			}

			report := l.EndDay(2)

			assert.Equal(t, tc.wantBP, l.BusinessPoints())
			assert.Equal(t, 1, report.Stats.Day)
		})
	}
}

func TestEndDay_ResetsCountersAndCloses(t *testing.T) {
	l := newLedger()
	l.Open()
	require.True(t, l.AdmitCustomer())
	require.NoError(t, l.RecordSale(40))
	l.RecordTaskCompleted(0.8)

	l.EndDay(2)

	today := l.Today()
	assert.Equal(t, reputation.NewDailyStats(2), today)
	assert.False(t, l.IsOpen())
	current, _ := l.Occupancy()
	assert.Zero(t, current)
	history := l.StatsHistory()
	require.Len(t, history, 1)
	assert.InDelta(t, 0.8, history[0].AverageTaskQuality(), 1e-9)
	assert.Equal(t, 40.0, l.Cash(), "cash is not a daily counter")
}

func TestEndDay_HistoryCappedAtThirty(t *testing.T) {
	l := newLedger()
	for day := 1; day <= 31; day++ {
		l.EndDay(day + 1)
	}

	history := l.StatsHistory()

	require.Len(t, history, reputation.StatsHistoryLimit)
	assert.Equal(t, 2, history[0].Day, "day 1 was evicted")
	assert.Equal(t, 31, history[len(history)-1].Day)
}

func TestUpgradeTier_Atomic(t *testing.T) {
	t.Run("insufficient cash changes nothing", func(t *testing.T) {
		l := newLedger()
		require.NoError(t, l.AwardBusinessPoints(150, "test"))
		require.NoError(t, l.RecordSale(1000))
		before := l.Snapshot()

		err := l.UpgradeTier(100, 5000)

		var insufficient *reputation.ErrInsufficientResources
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, before, l.Snapshot())
	})

	t.Run("insufficient points changes nothing", func(t *testing.T) {
		l := newLedger()
		require.NoError(t, l.RecordSale(9000))
		before := l.Snapshot()

		require.Error(t, l.UpgradeTier(100, 5000))
		assert.Equal(t, before, l.Snapshot())
	})

	t.Run("both met spends and upgrades", func(t *testing.T) {
		l := newLedger()
		require.NoError(t, l.AwardBusinessPoints(150, "test"))
		require.NoError(t, l.RecordSale(6000))
		assert.True(t, l.CanUpgradeTier(100, 5000))

		require.NoError(t, l.UpgradeTier(100, 5000))

		assert.Equal(t, 2, l.Tier())
		assert.Equal(t, 50, l.BusinessPoints())
		assert.Equal(t, 1000.0, l.Cash())
	})
}

func TestUpgradeToNextTier_AppliesTableRow(t *testing.T) {
	table := reputation.DefaultTierTables().For(shared.BusinessHypermarket)
	l := newLedger()
	require.NoError(t, l.AwardBusinessPoints(100, "test"))
	require.NoError(t, l.RecordSale(5000))

	row, err := l.UpgradeToNextTier(table)

	require.NoError(t, err)
	assert.Equal(t, "Neighborhood Market", row.Name)
	_, max := l.Occupancy()
	assert.Equal(t, 75, max)

	top := reputation.TierTable{{Tier: 1, Name: "Only"}}
	_, err = l.UpgradeToNextTier(top)
	var maxTier *reputation.ErrMaxTier
	require.ErrorAs(t, err, &maxTier)
}

func TestAdmitCustomer_RespectsCapacityAndOpening(t *testing.T) {
	l := newLedger()
	assert.False(t, l.AdmitCustomer(), "closed businesses admit nobody")

	l.Open()
	for i := 0; i < reputation.DefaultMaxCustomers; i++ {
		require.True(t, l.AdmitCustomer())
	}
	assert.False(t, l.AdmitCustomer())
	l.CustomerLeft()
	assert.True(t, l.AdmitCustomer())
}

func TestSnapshotRoundTrip(t *testing.T) {
	l := newLedger()
	require.NoError(t, l.RecordSale(300))
	l.RecordIncident()
	l.EndDay(2)
	l.SetScores(reputation.Scores{ServiceSpeed: 4, Quality: 4, Cleanliness: 4, Ambiance: 4, Value: 4})

	restored := reputation.ReconstructLedger(l.Snapshot(), nil)

	assert.Equal(t, l.Snapshot(), restored.Snapshot())
	assert.InDelta(t, 4.0, restored.CalculateReputation(), 1e-9)
}
