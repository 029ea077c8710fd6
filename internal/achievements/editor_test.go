package achievements

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Lllllllleong/portfolioflow/internal/docstore"
	"github.com/Lllllllleong/portfolioflow/internal/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	err   error
	calls int
}

func (s *failingStore) Merge(context.Context, string, string, map[string]interface{}) error {
	s.calls++
	return s.err
}

func (s *failingStore) Read(context.Context, string, string, interface{}) error {
	s.calls++
	return s.err
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestEditor(store docstore.Store, opts ...Option) *Editor {
	base := []Option{
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }),
	}
	return NewEditor(store, append(base, opts...)...)
}

func TestSubmit_CertificationScenario(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	ed := newTestEditor(store)

	_, err := ed.AddEntry(Certifications, Certification{})
	require.NoError(t, err)
	require.NoError(t, ed.UpdateEntryField(Certifications, 0, "title", "AWS SA"))

	doc, err := ed.Submit(ctx, "user-42")
	require.NoError(t, err)

	require.Len(t, doc.Certifications, 1)
	cert := doc.Certifications[0]
	assert.Equal(t, "AWS SA", cert.Title)
	assert.Equal(t, "", cert.Year)
	assert.Equal(t, "", cert.Issuer)
	assert.NotEmpty(t, cert.ID)

	stored, ok := store.Document(DefaultCollection, "user-42")
	require.True(t, ok)
	assert.Equal(t, doc.Certifications, stored["certifications"])
	assert.Equal(t, []AcademicAchievement{}, stored["academicAchievements"])
	assert.Equal(t, []Project{}, stored["projects"])
	assert.Equal(t, []ExtraCurricularActivity{}, stored["extraCurricular"])
	assert.Equal(t, "user-42", stored["userId"])
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), stored["updatedAt"])
	assert.Equal(t, 1, store.Writes())
}

func TestSubmit_MissingOwner(t *testing.T) {
	store := &failingStore{}
	ed := newTestEditor(store)

	for _, owner := range []string{"", "   "} {
		_, err := ed.Submit(context.Background(), owner)
		var missing *MissingOwnerError
		assert.ErrorAs(t, err, &missing)
	}
	assert.Equal(t, 0, store.calls, "no write may be attempted without an owner")
}

func TestSubmit_ExternalWriteError(t *testing.T) {
	cause := errors.New("permission denied")
	store := &failingStore{err: cause}
	nav := &navigation.Recorder{}
	ed := newTestEditor(store, WithNavigator(nav, navigation.Portfolio))

	_, err := ed.Submit(context.Background(), "user-1")
	var werr *ExternalWriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "user-1", werr.Key)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, store.calls)
	assert.Empty(t, nav.Route())
}

func TestSubmit_NavigatesOnSuccess(t *testing.T) {
	nav := &navigation.Recorder{}
	ed := newTestEditor(docstore.NewMemory(), WithNavigator(nav, navigation.Portfolio))

	_, err := ed.Submit(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, navigation.Portfolio, nav.Route())
}

func TestSubmit_MergeKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	require.NoError(t, store.Merge(ctx, DefaultCollection, "u", map[string]interface{}{"theme": "dark"}))

	_, err := newTestEditor(store).Submit(ctx, "u")
	require.NoError(t, err)

	stored, _ := store.Document(DefaultCollection, "u")
	assert.Equal(t, "dark", stored["theme"])
}

func TestAddThenRemoveRestoresSequence(t *testing.T) {
	for _, c := range Categories() {
		t.Run(string(c), func(t *testing.T) {
			ed := newTestEditor(docstore.NewMemory())
			_, err := ed.AddBlank(c)
			require.NoError(t, err)
			require.NoError(t, ed.UpdateEntryField(c, 0, Template(c).Fields()[0], "first"))

			before := ed.Entries(c)
			_, err = ed.AddEntry(c, Template(c))
			require.NoError(t, err)
			require.NoError(t, ed.RemoveEntry(c, len(before)))

			assert.Equal(t, before, ed.Entries(c))
		})
	}
}

func TestUpdateEntryField_TouchesOnlyTarget(t *testing.T) {
	ed := newTestEditor(docstore.NewMemory())
	for i := 0; i < 3; i++ {
		_, err := ed.AddEntry(Projects, Project{Name: fmt.Sprintf("p%d", i), Year: "2020"})
		require.NoError(t, err)
	}
	_, err := ed.AddEntry(Certifications, Certification{Title: "CKA"})
	require.NoError(t, err)

	before := ed.Form()
	require.NoError(t, ed.UpdateEntryField(Projects, 1, "technology", "Go"))
	after := ed.Form()

	assert.Equal(t, before.Len(Projects), after.Len(Projects))
	assert.Equal(t, before[Projects][0], after[Projects][0])
	assert.Equal(t, before[Projects][2], after[Projects][2])
	assert.Equal(t, before[Certifications], after[Certifications])

	want := before[Projects][1].(Project)
	want.Technology = "Go"
	assert.Equal(t, want, after[Projects][1])
	assert.Equal(t, "", before[Projects][1].(Project).Technology, "previous snapshot must not change")
}

func TestMutationsPublishNewSnapshots(t *testing.T) {
	var snapshots []Form
	ed := newTestEditor(docstore.NewMemory(), WithSink(func(f Form) { snapshots = append(snapshots, f) }))

	_, err := ed.AddBlank(AcademicAchievements)
	require.NoError(t, err)
	require.NoError(t, ed.UpdateEntryField(AcademicAchievements, 0, "title", "Dean's list"))
	require.NoError(t, ed.RemoveEntry(AcademicAchievements, 0))

	require.Len(t, snapshots, 3)
	assert.Equal(t, 1, snapshots[0].Len(AcademicAchievements))
	assert.Equal(t, "", snapshots[0][AcademicAchievements][0].(AcademicAchievement).Title)
	assert.Equal(t, "Dean's list", snapshots[1][AcademicAchievements][0].(AcademicAchievement).Title)
	assert.Equal(t, 0, snapshots[2].Len(AcademicAchievements))
}

func TestRemoveEntry_ShiftsLaterEntries(t *testing.T) {
	ed := newTestEditor(docstore.NewMemory())
	for _, title := range []string{"a", "b", "c"} {
		_, err := ed.AddEntry(ExtraCurricular, ExtraCurricularActivity{Title: title})
		require.NoError(t, err)
	}

	require.NoError(t, ed.RemoveEntry(ExtraCurricular, 0))
	entries := ed.Entries(ExtraCurricular)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].(ExtraCurricularActivity).Title)
	assert.Equal(t, "c", entries[1].(ExtraCurricularActivity).Title)
}

func TestIDAddressedOperationsSurviveRemoval(t *testing.T) {
	ed := newTestEditor(docstore.NewMemory())
	first, err := ed.AddEntry(Projects, Project{Name: "first"})
	require.NoError(t, err)
	second, err := ed.AddEntry(Projects, Project{Name: "second"})
	require.NoError(t, err)

	require.NoError(t, ed.Remove(Projects, first.EntryID()))
	require.NoError(t, ed.UpdateField(Projects, second.EntryID(), "year", "2024"))

	entries := ed.Entries(Projects)
	require.Len(t, entries, 1)
	assert.Equal(t, "second", entries[0].(Project).Name)
	assert.Equal(t, "2024", entries[0].(Project).Year)

	assert.ErrorIs(t, ed.Remove(Projects, first.EntryID()), ErrEntryNotFound)
}

func TestEditorErrors(t *testing.T) {
	ed := newTestEditor(docstore.NewMemory())
	_, err := ed.AddBlank(Certifications)
	require.NoError(t, err)

	_, err = ed.AddEntry("hobbies", nil)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = ed.AddEntry(Certifications, Project{})
	assert.ErrorIs(t, err, ErrCategoryMismatch)

	assert.ErrorIs(t, ed.UpdateEntryField(Certifications, 1, "title", "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, ed.UpdateEntryField(Certifications, -1, "title", "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, ed.RemoveEntry(Projects, 0), ErrIndexOutOfRange)
	assert.ErrorIs(t, ed.UpdateEntryField(Certifications, 0, "role", "x"), ErrUnknownField)
	assert.Equal(t, 1, ed.Form().Len(Certifications))
}

func TestLoad_RoundTripsAndAssignsMissingIDs(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	require.NoError(t, store.Merge(ctx, DefaultCollection, "u", map[string]interface{}{
		"projects": []map[string]string{{"name": "legacy", "year": "2019"}},
		"userId":   "u",
	}))

	ed := newTestEditor(store)
	doc, err := ed.Load(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "u", doc.UserID)

	entries := ed.Entries(Projects)
	require.Len(t, entries, 1)
	assert.Equal(t, "legacy", entries[0].(Project).Name)
	assert.Equal(t, "id-1", entries[0].EntryID())
}

func TestLoad_UpdatedAtForms(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 30, 0, 123000000, time.UTC)

	tests := []struct {
		name      string
		updatedAt interface{}
		want      time.Time
		wantErr   bool
	}{
		{name: "iso string", updatedAt: "2024-05-01T10:30:00.123Z", want: at},
		{name: "timestamp", updatedAt: at, want: at},
		{name: "absent", updatedAt: nil},
		{name: "garbage string", updatedAt: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := docstore.NewMemory()
			fields := map[string]interface{}{
				"certifications": []map[string]string{{"title": "AWS SA"}},
				"userId":         "u",
			}
			if tt.updatedAt != nil {
				fields["updatedAt"] = tt.updatedAt
			}
			require.NoError(t, store.Merge(ctx, DefaultCollection, "u", fields))

			doc, err := newTestEditor(store).Load(ctx, "u")
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid updatedAt")
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(doc.UpdatedAt), "got %s", doc.UpdatedAt)
			require.Len(t, doc.Certifications, 1)
			assert.Equal(t, "AWS SA", doc.Certifications[0].Title)
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := newTestEditor(docstore.NewMemory()).Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestDocumentFormRoundTrip(t *testing.T) {
	ed := newTestEditor(docstore.NewMemory())
	_, err := ed.AddEntry(Certifications, Certification{Title: "CKA", Year: "2023"})
	require.NoError(t, err)
	_, err = ed.AddEntry(ExtraCurricular, ExtraCurricularActivity{Title: "Chess club", Role: "Captain"})
	require.NoError(t, err)

	doc := NewDocument(ed.Form(), "u", time.Now())
	assert.Equal(t, map[Category]int{
		AcademicAchievements: 0,
		Certifications:       1,
		Projects:             0,
		ExtraCurricular:      1,
	}, doc.Count())

	back := doc.Form()
	assert.Equal(t, ed.Entries(Certifications), back[Certifications])
	assert.Equal(t, ed.Entries(ExtraCurricular), back[ExtraCurricular])
}
