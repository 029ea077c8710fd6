package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lllllllleong/portfolioflow/internal/handoff"
	"github.com/Lllllllleong/portfolioflow/internal/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StartsOnFirstStep(t *testing.T) {
	c := New()
	assert.Equal(t, 1, c.Current().ID)
	assert.Equal(t, "Personal Details", c.Current().Label)
	assert.True(t, c.IsFirst())
	assert.False(t, c.IsLast())
	assert.Len(t, c.Steps(), 6)
}

func TestRetreat_AtFirstStepIsNoOp(t *testing.T) {
	c := New()
	c.Retreat()
	assert.Equal(t, 1, c.Current().ID)
}

func TestAdvance_AtLastStepIsNoOp(t *testing.T) {
	c := New()
	require.NoError(t, c.JumpTo(6))
	c.Advance()
	assert.Equal(t, 6, c.Current().ID)
	assert.True(t, c.IsLast())
}

func TestAdvanceThenRetreatRoundTrip(t *testing.T) {
	for start := 1; start <= 6; start++ {
		c := New()
		require.NoError(t, c.JumpTo(start))
		c.Advance()
		c.Retreat()
		if start == 6 {
			// advance was a no-op, retreat moved back
			assert.Equal(t, 5, c.Current().ID)
			continue
		}
		assert.Equal(t, start, c.Current().ID, "start=%d", start)
	}
}

func TestProgressFraction_Monotonic(t *testing.T) {
	c := New()
	prev := c.ProgressFraction()
	assert.InDelta(t, 1.0/6.0, prev, 1e-9)

	for i := 0; i < 10; i++ {
		c.Advance()
		got := c.ProgressFraction()
		assert.GreaterOrEqual(t, got, prev)
		assert.LessOrEqual(t, got, 1.0)
		prev = got
	}
	assert.Equal(t, 1.0, prev)

	for i := 0; i < 10; i++ {
		c.Retreat()
		got := c.ProgressFraction()
		assert.LessOrEqual(t, got, prev)
		assert.Greater(t, got, 0.0)
		prev = got
	}
}

func TestJumpTo(t *testing.T) {
	c := New()
	require.NoError(t, c.JumpTo(4))
	assert.Equal(t, "Location", c.Current().Label)

	for _, bad := range []int{0, -1, 7} {
		err := c.JumpTo(bad)
		var stepErr *InvalidStepError
		require.ErrorAs(t, err, &stepErr)
		assert.Equal(t, bad, stepErr.Step)
		assert.Equal(t, 6, stepErr.Max)
	}
	assert.Equal(t, 4, c.Current().ID, "failed jumps leave the step unchanged")
}

func TestUpdateField_OverwritesWithoutValidation(t *testing.T) {
	c := New()
	c.UpdateField(FieldEmail, "not-an-email")
	c.UpdateField(FieldEmail, "still not")
	c.UpdateField("favouriteColour", "green")

	assert.Equal(t, "still not", c.Field(FieldEmail))
	rec := c.Record()
	assert.Equal(t, "green", rec["favouriteColour"])

	rec[FieldEmail] = "mutated"
	assert.Equal(t, "still not", c.Field(FieldEmail), "Record returns a copy")
}

func TestWithSteps_RenumbersAndCopies(t *testing.T) {
	steps := []Step{{ID: 10, Label: "a"}, {ID: 20, Label: "b"}}
	c := New(WithSteps(steps))
	assert.Equal(t, 1, c.Current().ID)
	c.Advance()
	assert.Equal(t, 2, c.Current().ID)
	assert.Equal(t, 10, steps[0].ID, "caller slice untouched")
}

type stubStager struct {
	staged []PortfolioProfile
	err    error
}

func (s *stubStager) Stage(_ context.Context, p PortfolioProfile) (handoff.Ticket, error) {
	if s.err != nil {
		return handoff.Ticket{}, s.err
	}
	s.staged = append(s.staged, p)
	return handoff.Ticket{Key: "portfolioUserData/t1", ExpiresAt: time.Now().Add(time.Minute)}, nil
}

func filledRecord() PersonalRecord {
	return PersonalRecord{
		FieldFirstName:         "Ada",
		FieldLastName:          "Lovelace",
		FieldProfessionalTitle: "Analyst",
		FieldEmail:             "ada@example.com",
		FieldCity:              "London",
		FieldCountry:           "uk",
		FieldAboutMe:           "Engines.",
		FieldPassword:          "correct horse",
	}
}

func TestComplete_SavesStagesAndNavigates(t *testing.T) {
	var savedOwner string
	var savedRecord PersonalRecord
	saver := ProfileSaverFunc(func(_ context.Context, owner string, r PersonalRecord) error {
		savedOwner, savedRecord = owner, r
		return nil
	})
	stager := &stubStager{}
	nav := &navigation.Recorder{}

	c := New(
		WithRecord(filledRecord()),
		WithProfileSaver(saver),
		WithStager(stager),
		WithNavigator(nav, navigation.PortfolioForm),
		WithIDGenerator(func() string { return "owner-1" }),
	)
	require.NoError(t, c.JumpTo(6))

	done, err := c.Complete(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "owner-1", done.OwnerID)
	assert.Equal(t, "owner-1", savedOwner)
	assert.Equal(t, "correct horse", savedRecord[FieldPassword])
	require.Len(t, stager.staged, 1)
	assert.Equal(t, "Ada Lovelace", stager.staged[0].Name)
	assert.Equal(t, "London, uk", stager.staged[0].Location)
	require.NotNil(t, done.Ticket)
	assert.Equal(t, navigation.PortfolioForm, nav.Route())
	assert.Equal(t, navigation.PortfolioForm, done.Route)
	assert.Equal(t, "owner-1", c.OwnerID())
}

func TestComplete_PersistenceFailureStopsEverything(t *testing.T) {
	cause := errors.New("unavailable")
	stager := &stubStager{}
	nav := &navigation.Recorder{}
	c := New(
		WithProfileSaver(ProfileSaverFunc(func(context.Context, string, PersonalRecord) error { return cause })),
		WithStager(stager),
		WithNavigator(nav, navigation.PortfolioForm),
		WithOwnerID("owner-9"),
	)

	_, err := c.Complete(context.Background())
	var werr *ExternalWriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "owner-9", werr.OwnerID)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, stager.staged)
	assert.Empty(t, nav.Route())
}

func TestComplete_StagingIsBestEffort(t *testing.T) {
	nav := &navigation.Recorder{}
	c := New(
		WithStager(&stubStager{err: errors.New("bucket gone")}),
		WithNavigator(nav, navigation.PortfolioForm),
		WithOwnerID("owner-2"),
	)

	done, err := c.Complete(context.Background())
	require.NoError(t, err)
	assert.Nil(t, done.Ticket)
	assert.Equal(t, navigation.PortfolioForm, nav.Route())
}

func TestComplete_WithRealHandoffChannel(t *testing.T) {
	ctx := context.Background()
	ch := handoff.NewChannel[PortfolioProfile](handoff.NewMemory(), "", time.Minute)
	c := New(WithRecord(filledRecord()), WithStager(ch), WithOwnerID("owner-3"))

	done, err := c.Complete(ctx)
	require.NoError(t, err)
	require.NotNil(t, done.Ticket)

	got, err := ch.Claim(ctx, *done.Ticket)
	require.NoError(t, err)
	assert.Equal(t, done.Profile, got)
	assert.Equal(t, "owner-3", got.OwnerID)
}
