// Package achievements edits and persists the categorized records of a
// portfolio: academic achievements, certifications, projects and
// extra-curricular activities.
package achievements

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lllllllleong/portfolioflow/internal/docstore"
	"github.com/Lllllllleong/portfolioflow/internal/navigation"
	"github.com/google/uuid"
)

// Editor owns one Form and publishes a new snapshot after every change.
// An Editor is not safe for concurrent use.
type Editor struct {
	form       Form
	store      docstore.Store
	collection string
	sink       func(Form)
	navigator  navigation.Navigator
	route      string
	now        func() time.Time
	newID      func() string
}

// Option configures an Editor.
type Option func(*Editor)

// WithCollection overrides DefaultCollection.
func WithCollection(name string) Option {
	return func(e *Editor) { e.collection = name }
}

// WithSink registers the receiver of every new Form snapshot.
func WithSink(sink func(Form)) Option {
	return func(e *Editor) { e.sink = sink }
}

// WithNavigator navigates to route after a successful Submit.
func WithNavigator(n navigation.Navigator, route string) Option {
	return func(e *Editor) {
		e.navigator = n
		e.route = route
	}
}

// WithForm seeds the editor. Entries without an ID are given one.
func WithForm(f Form) Option {
	return func(e *Editor) { e.form = f }
}

// WithClock replaces time.Now for the updatedAt stamp.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// WithIDGenerator replaces the UUID generator used for new entries.
func WithIDGenerator(gen func() string) Option {
	return func(e *Editor) { e.newID = gen }
}

// NewEditor returns an Editor that submits to store.
func NewEditor(store docstore.Store, opts ...Option) *Editor {
	e := &Editor{
		form:       Form{},
		store:      store,
		collection: DefaultCollection,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.form = e.withIDs(e.form)
	return e
}

// Form returns the current snapshot.
func (e *Editor) Form() Form {
	return e.form
}

// Entries returns a copy of the sequence for c.
func (e *Editor) Entries(c Category) []Entry {
	out := make([]Entry, len(e.form[c]))
	copy(out, e.form[c])
	return out
}

// AddEntry appends a copy of template to c under a fresh ID and returns it.
// A nil template appends the category's empty entry.
func (e *Editor) AddEntry(c Category, template Entry) (Entry, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	if template == nil {
		template = Template(c)
	}
	if template.Category() != c {
		return nil, fmt.Errorf("%w: %s entry added to %s", ErrCategoryMismatch, template.Category(), c)
	}

	entry := template.withID(e.newID())
	cur := e.form[c]
	next := make([]Entry, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, entry)
	e.commit(c, next)
	return entry, nil
}

// AddBlank appends the empty entry for c.
func (e *Editor) AddBlank(c Category) (Entry, error) {
	return e.AddEntry(c, nil)
}

// UpdateEntryField sets field on the entry at index. Positions shift on
// removal, so index must come from the current snapshot.
func (e *Editor) UpdateEntryField(c Category, index int, field, value string) error {
	if err := e.checkIndex(c, index); err != nil {
		return err
	}
	return e.replaceAt(c, index, field, value)
}

// UpdateField sets field on the entry identified by id.
func (e *Editor) UpdateField(c Category, id, field, value string) error {
	index, err := e.indexOf(c, id)
	if err != nil {
		return err
	}
	return e.replaceAt(c, index, field, value)
}

// RemoveEntry deletes the entry at index; later entries move down by one.
func (e *Editor) RemoveEntry(c Category, index int) error {
	if err := e.checkIndex(c, index); err != nil {
		return err
	}
	e.removeAt(c, index)
	return nil
}

// Remove deletes the entry identified by id.
func (e *Editor) Remove(c Category, id string) error {
	index, err := e.indexOf(c, id)
	if err != nil {
		return err
	}
	e.removeAt(c, index)
	return nil
}

// Load replaces the form with the document stored for ownerID.
func (e *Editor) Load(ctx context.Context, ownerID string) (*Document, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, &MissingOwnerError{}
	}
	var stored storedDocument
	if err := e.store.Read(ctx, e.collection, ownerID, &stored); err != nil {
		return nil, fmt.Errorf("failed to load %s/%s: %w", e.collection, ownerID, err)
	}
	doc, err := stored.document()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s/%s: %w", e.collection, ownerID, err)
	}
	e.form = e.withIDs(doc.Form())
	e.publish()
	return doc, nil
}

// Submit merge-writes every category for ownerID in a single call.
func (e *Editor) Submit(ctx context.Context, ownerID string) (*Document, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, &MissingOwnerError{}
	}

	doc := NewDocument(e.form, ownerID, e.now())
	logCtx := slog.With("ownerId", ownerID, "collection", e.collection)

	if err := e.store.Merge(ctx, e.collection, ownerID, doc.Fields()); err != nil {
		logCtx.Error("Failed to save achievements", "error", err)
		return nil, &ExternalWriteError{Collection: e.collection, Key: ownerID, Err: err}
	}
	logCtx.Info("Achievements saved.", "counts", doc.Count())

	if e.navigator != nil && e.route != "" {
		e.navigator.NavigateTo(e.route)
	}
	return doc, nil
}

func (e *Editor) checkIndex(c Category, index int) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	if n := len(e.form[c]); index < 0 || index >= n {
		return fmt.Errorf("%w: %s[%d] with %d entries", ErrIndexOutOfRange, c, index, n)
	}
	return nil
}

func (e *Editor) indexOf(c Category, id string) (int, error) {
	if !c.Valid() {
		return -1, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	for i, entry := range e.form[c] {
		if entry.EntryID() == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s/%s", ErrEntryNotFound, c, id)
}

func (e *Editor) replaceAt(c Category, index int, field, value string) error {
	cur := e.form[c]
	updated, err := cur[index].WithField(field, value)
	if err != nil {
		return err
	}
	next := make([]Entry, len(cur))
	copy(next, cur)
	next[index] = updated
	e.commit(c, next)
	return nil
}

func (e *Editor) removeAt(c Category, index int) {
	cur := e.form[c]
	next := make([]Entry, 0, len(cur)-1)
	next = append(next, cur[:index]...)
	next = append(next, cur[index+1:]...)
	e.commit(c, next)
}

func (e *Editor) commit(c Category, entries []Entry) {
	f := e.form.clone()
	f[c] = entries
	e.form = f
	e.publish()
}

func (e *Editor) publish() {
	if e.sink != nil {
		e.sink(e.form)
	}
}

// withIDs returns f with an ID on every entry, copying only the categories
// that needed one.
func (e *Editor) withIDs(f Form) Form {
	if f == nil {
		return Form{}
	}
	out, cloned := f, false
	for c, entries := range f {
		var fixed []Entry
		for i, entry := range entries {
			if entry.EntryID() != "" {
				continue
			}
			if fixed == nil {
				fixed = make([]Entry, len(entries))
				copy(fixed, entries)
			}
			fixed[i] = entry.withID(e.newID())
		}
		if fixed != nil {
			if !cloned {
				out, cloned = f.clone(), true
			}
			out[c] = fixed
		}
	}
	return out
}
