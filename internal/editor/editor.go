// Package editor implements the entry editing session: an in-memory entry
// list, a single draft, and the save/delete/analyze actions that reconcile
// them against the entry store and the AI analyzer.
package editor

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reflectai/reflect-backend/internal/apperrors"
	"github.com/reflectai/reflect-backend/internal/models"
	"github.com/reflectai/reflect-backend/internal/store"
)

// DefaultTitle is used when an entry is saved with a blank title.
const DefaultTitle = "Untitled Entry"

// Analyzer is the slice of the analysis client the editor needs.
type Analyzer interface {
	Configured() bool
	AnalyzeEntry(ctx context.Context, text string) (models.AIAnalysis, error)
}

// ConfirmFunc asks the user a blocking yes/no question before a destructive
// action. Returning false cancels the action.
type ConfirmFunc func(message string) bool

// Editor drives one user's editing session. The entry list it holds is a
// cache of the store; store responses are authoritative and the cache is
// always reconciled from the returned record, never from the request payload.
//
// All operations serialize on an internal mutex, so two rapid invocations of
// Save or Analyze cannot interleave their read-modify-write cycles.
type Editor struct {
	mu       sync.Mutex
	user     models.User
	store    store.EntryStore
	analyzer Analyzer
	confirm  ConfirmFunc

	now   func() time.Time
	newID func() string

	entries    []models.JournalEntry
	selectedID string // "" means no selection (a new, unsaved draft)
	title      string
	content    string
	lastSaved  time.Time
}

// Option adjusts an Editor, mainly for tests.
type Option func(*Editor)

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// WithIDGenerator replaces the entry ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(e *Editor) { e.newID = newID }
}

// New builds an editing session for user. confirm gates deletes; a nil
// confirm means deletes proceed unasked.
func New(user models.User, st store.EntryStore, analyzer Analyzer, confirm ConfirmFunc, opts ...Option) *Editor {
	e := &Editor{
		user:     user,
		store:    st,
		analyzer: analyzer,
		confirm:  confirm,
		now:      time.Now,
		newID:    uuid.NewString,
		entries:  make([]models.JournalEntry, 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load fetches all of the user's entries and replaces the in-memory list.
// On failure the list is left empty and the error is logged and returned;
// the caller decides whether to surface it.
func (e *Editor) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.store.GetEntries(ctx, e.user.ID)
	if err != nil {
		log.Printf("[editor] failed to load entries for user %s: %v", e.user.ID, err)
		e.entries = make([]models.JournalEntry, 0)
		e.clearDraftLocked()
		return err
	}
	e.entries = entries
	// A selection absent from the reloaded list is stale; keeping it would
	// let the next Save recreate the entry with a fresh CreatedAt.
	if e.selectedID != "" && e.find(e.selectedID) == nil {
		e.clearDraftLocked()
	}
	return nil
}

// Select switches editing to the entry with the given id. The draft takes the
// entry's persisted title and content, discarding any unsaved edits without
// warning. Selecting an id that is not in the loaded list is a no-op
// preserving the current selection; Select reports whether it took effect.
func (e *Editor) Select(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry := e.find(id)
	if entry == nil {
		return false
	}
	e.selectedID = entry.ID
	e.title = entry.Title
	e.content = entry.Content
	e.lastSaved = entry.UpdatedAt
	return true
}

// NewEntry clears the selection and the draft, ready for a fresh entry.
func (e *Editor) NewEntry() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearDraftLocked()
}

func (e *Editor) clearDraftLocked() {
	e.selectedID = ""
	e.title = ""
	e.content = ""
	e.lastSaved = time.Time{}
}

// SetTitle updates the draft title without persisting.
func (e *Editor) SetTitle(title string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.title = title
}

// SetContent updates the draft content without persisting.
func (e *Editor) SetContent(content string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.content = content
}

// Save persists the current draft. A draft whose title and content are both
// blank is a no-op returning (nil, nil): no store call is made. On success
// the saved record is merged into the list (replace or prepend), the list is
// re-sorted newest first, and the saved entry becomes the selection. On
// failure the list and the draft are left exactly as they were.
func (e *Editor) Save(ctx context.Context) (*models.JournalEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if strings.TrimSpace(e.title) == "" && strings.TrimSpace(e.content) == "" {
		return nil, nil
	}

	now := e.now()
	entry := models.JournalEntry{
		ID:        e.selectedID,
		UserID:    e.user.ID,
		Title:     e.title,
		Content:   e.content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if entry.ID == "" {
		entry.ID = e.newID()
	}
	if entry.Title == "" {
		entry.Title = DefaultTitle
	}
	if existing := e.find(e.selectedID); existing != nil {
		// Editing: the first save's creation time and any prior analysis
		// carry over.
		entry.CreatedAt = existing.CreatedAt
		entry.AIAnalysis = existing.AIAnalysis
	}

	saved, err := e.store.SaveEntry(ctx, entry)
	if err != nil {
		return nil, err
	}

	e.mergeLocked(saved)
	e.selectedID = saved.ID
	e.lastSaved = now
	return &saved, nil
}

// Delete removes the selected entry after confirmation. With no selection it
// is a no-op; a declined confirmation cancels silently. On store failure the
// list is unchanged and the entry stays selected.
func (e *Editor) Delete(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.selectedID == "" {
		return nil
	}
	if e.confirm != nil && !e.confirm("Are you sure you want to delete this entry?") {
		return nil
	}

	if err := e.store.DeleteEntry(ctx, e.selectedID); err != nil {
		return err
	}

	id := e.selectedID
	kept := e.entries[:0]
	for _, entry := range e.entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	e.entries = kept
	e.clearDraftLocked()
	return nil
}

// Analyze runs the AI reflection over the current draft content (unsaved
// edits included) and attaches the result to the selected entry, persisting
// it and replacing any prior analysis wholesale. Blank content or no
// selection is a no-op returning (nil, nil). A missing credential is reported
// before any backend call. On any failure the entry's existing analysis is
// left untouched.
func (e *Editor) Analyze(ctx context.Context) (*models.AIAnalysis, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if strings.TrimSpace(e.content) == "" || e.selectedID == "" {
		return nil, nil
	}
	if e.analyzer == nil || !e.analyzer.Configured() {
		return nil, apperrors.New(apperrors.CodeAnalysis, "AI API key is missing. Cannot analyze.")
	}

	analysis, err := e.analyzer.AnalyzeEntry(ctx, e.content)
	if err != nil {
		return nil, err
	}

	existing := e.find(e.selectedID)
	if existing == nil {
		// Selection vanished between the call and now; nothing to attach to.
		return nil, apperrors.New(apperrors.CodeAnalysis, "Selected entry no longer exists")
	}

	updated := *existing
	updated.AIAnalysis = &analysis
	saved, err := e.store.SaveEntry(ctx, updated)
	if err != nil {
		return nil, err
	}

	e.mergeLocked(saved)
	return saved.AIAnalysis, nil
}

// Entries returns a copy of the in-memory list, newest first.
func (e *Editor) Entries() []models.JournalEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.JournalEntry, len(e.entries))
	copy(out, e.entries)
	return out
}

// SelectedID returns the selected entry id, or "" when drafting a new entry.
func (e *Editor) SelectedID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectedID
}

// Draft returns the working title and content.
func (e *Editor) Draft() (title, content string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title, e.content
}

// LastSaved returns the time of the last successful save of the selection,
// and whether one exists.
func (e *Editor) LastSaved() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSaved, !e.lastSaved.IsZero()
}

func (e *Editor) find(id string) *models.JournalEntry {
	if id == "" {
		return nil
	}
	for i := range e.entries {
		if e.entries[i].ID == id {
			return &e.entries[i]
		}
	}
	return nil
}

// mergeLocked reconciles one saved record into the list: replace when the id
// is present, prepend otherwise, then restore newest-first order.
func (e *Editor) mergeLocked(saved models.JournalEntry) {
	replaced := false
	for i := range e.entries {
		if e.entries[i].ID == saved.ID {
			e.entries[i] = saved
			replaced = true
			break
		}
	}
	if !replaced {
		e.entries = append([]models.JournalEntry{saved}, e.entries...)
	}
	sort.SliceStable(e.entries, func(i, j int) bool {
		return e.entries[i].CreatedAt.After(e.entries[j].CreatedAt)
	})
}
