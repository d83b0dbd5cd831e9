package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reflectai/reflect-backend/internal/apperrors"
	"github.com/reflectai/reflect-backend/internal/editor"
	"github.com/reflectai/reflect-backend/internal/models"
	"github.com/reflectai/reflect-backend/internal/services"
	"github.com/reflectai/reflect-backend/internal/store"
)

var (
	entryStore    store.EntryStore
	entryAnalyzer services.Analyzer
)

// InitEntryStore wires the entry persistence backend used by the entry handlers.
func InitEntryStore(s store.EntryStore) {
	entryStore = s
	log.Println("✅ Entry store initialized")
}

// InitAnalyzer wires the AI analysis backend used by the entry handlers.
func InitAnalyzer(a services.Analyzer) {
	entryAnalyzer = a
	if a != nil && a.Configured() {
		log.Println("✅ AI analysis initialized")
	} else {
		log.Println("⚠️ AI analysis not configured; analyze requests will be rejected")
	}
}

type SaveEntryRequest struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type EntryResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Entry   *models.JournalEntry `json:"entry,omitempty"`
}

type EntriesResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Entries []models.JournalEntry `json:"entries"`
	Total   int                   `json:"total"`
}

type AnalyzeEntryRequest struct {
	ID string `json:"id"`
}

type AnalyzeEntryResponse struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message,omitempty"`
	Analysis *models.AIAnalysis `json:"analysis,omitempty"`
}

// requireEntryAuth validates the session and returns the authenticated user's ID.
// Returns ("", false) if not authenticated.
func requireEntryAuth(r *http.Request) (string, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return "", false
	}
	userID, ok, err := services.ValidateSession(r.Context(), token)
	if err != nil || !ok {
		return "", false
	}
	return userID, true
}

// GetEntries returns the authenticated user's entries, newest first.
func GetEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireEntryAuth(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, EntriesResponse{
			Success: false,
			Message: "Authentication required",
			Entries: []models.JournalEntry{},
		})
		return
	}

	entries, err := entryStore.GetEntries(r.Context(), userID)
	if err != nil {
		log.Printf("⚠️ Failed to fetch entries for user %s: %v", userID, err)
		writeJSON(w, statusForError(err), EntriesResponse{
			Success: false,
			Message: apperrors.MessageOf(err),
			Entries: []models.JournalEntry{},
		})
		return
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}

	writeJSON(w, http.StatusOK, EntriesResponse{
		Success: true,
		Entries: entries,
		Total:   len(entries),
	})
}

// SaveEntry upserts an entry for the authenticated user. The session owns the
// entry regardless of any id in the body; a blank title gets the editor's
// default, and edits to an existing entry keep its creation time and analysis.
func SaveEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireEntryAuth(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, EntryResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}

	var req SaveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, EntryResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, EntryResponse{
			Success: false,
			Message: "Title or content is required",
		})
		return
	}

	now := time.Now().UTC()
	entry := models.JournalEntry{
		ID:        req.ID,
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Title == "" {
		entry.Title = editor.DefaultTitle
	}

	if existing, ok := findOwnedEntry(r, userID, req.ID); ok {
		entry.CreatedAt = existing.CreatedAt
		entry.AIAnalysis = existing.AIAnalysis
	}

	saved, err := entryStore.SaveEntry(r.Context(), entry)
	if err != nil {
		log.Printf("⚠️ Failed to save entry %s: %v", entry.ID, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{
		Success: true,
		Message: "Entry saved",
		Entry:   &saved,
	})
}

// DeleteEntry removes one of the authenticated user's entries by id.
// Deleting an id the user does not own is rejected.
func DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireEntryAuth(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, EntryResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, EntryResponse{
			Success: false,
			Message: "Entry id is required",
		})
		return
	}

	if _, owned := findOwnedEntry(r, userID, id); !owned {
		writeJSON(w, http.StatusNotFound, EntryResponse{
			Success: false,
			Message: "Entry not found",
		})
		return
	}

	if err := entryStore.DeleteEntry(r.Context(), id); err != nil {
		log.Printf("⚠️ Failed to delete entry %s: %v", id, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{
		Success: true,
		Message: "Entry deleted",
	})
}

// AnalyzeEntry runs AI analysis over one of the user's entries and persists
// the result onto it, replacing any prior analysis.
func AnalyzeEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireEntryAuth(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, AnalyzeEntryResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}

	var req AnalyzeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, AnalyzeEntryResponse{
			Success: false,
			Message: "Entry id is required",
		})
		return
	}

	entry, owned := findOwnedEntry(r, userID, req.ID)
	if !owned {
		writeJSON(w, http.StatusNotFound, AnalyzeEntryResponse{
			Success: false,
			Message: "Entry not found",
		})
		return
	}
	if strings.TrimSpace(entry.Content) == "" {
		writeJSON(w, http.StatusBadRequest, AnalyzeEntryResponse{
			Success: false,
			Message: "Entry has no content to analyze",
		})
		return
	}

	if entryAnalyzer == nil || !entryAnalyzer.Configured() {
		writeJSON(w, http.StatusBadGateway, AnalyzeEntryResponse{
			Success: false,
			Message: "AI API key is missing. Cannot analyze.",
		})
		return
	}

	analysis, err := entryAnalyzer.AnalyzeEntry(r.Context(), entry.Content)
	if err != nil {
		log.Printf("⚠️ Analysis failed for entry %s: %v", entry.ID, err)
		writeJSON(w, statusForError(err), AnalyzeEntryResponse{
			Success: false,
			Message: apperrors.MessageOf(err),
		})
		return
	}

	entry.AIAnalysis = &analysis
	if _, err := entryStore.SaveEntry(r.Context(), entry); err != nil {
		log.Printf("⚠️ Failed to persist analysis for entry %s: %v", entry.ID, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeEntryResponse{
		Success:  true,
		Message:  "Entry analyzed",
		Analysis: &analysis,
	})
}

// findOwnedEntry looks the id up among the user's own entries, so a caller
// can never touch another user's records.
func findOwnedEntry(r *http.Request, userID, id string) (models.JournalEntry, bool) {
	if id == "" {
		return models.JournalEntry{}, false
	}
	entries, err := entryStore.GetEntries(r.Context(), userID)
	if err != nil {
		return models.JournalEntry{}, false
	}
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.JournalEntry{}, false
}
