package handlers

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/seven-a-side/internal/club"
	"github.com/mauv0809/seven-a-side/internal/storage"
)

// PlayerInput is the body accepted when adding or editing a player.
type PlayerInput struct {
	Name        string        `json:"name"`
	Score       *int          `json:"score"`
	Position    club.Position `json:"position"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
}

func (in PlayerInput) validate(requireScore bool) error {
	if strings.TrimSpace(in.Name) == "" {
		return badRequest("name is required")
	}
	if requireScore && in.Score == nil {
		return badRequest("score is required")
	}
	if !in.Position.Valid() {
		return badRequest("position must be one of Forward, Midfielder, Defender, Goalkeeper")
	}
	return nil
}

func ListPlayersHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.GetAllPlayers(r.Context())
		if err != nil {
			log.Error("Failed to get players from store", "error", err)
			respondWithError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func GetPlayerHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := store.GetPlayer(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondWithError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, player)
	}
}

// CreatePlayerHandler adds a player to the roster. Players without an image
// get defaultImage.
func CreatePlayerHandler(store club.ClubStore, defaultImage string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in PlayerInput
		if err := readJSON(w, r, &in); err != nil {
			respondWithError(w, err)
			return
		}
		if err := in.validate(true); err != nil {
			respondWithError(w, err)
			return
		}

		player := &club.Player{
			Name:        strings.TrimSpace(in.Name),
			Position:    in.Position,
			Description: in.Description,
			Image:       in.Image,
			Score:       *in.Score,
		}
		if player.Image == "" {
			player.Image = defaultImage
		}
		if err := store.AddPlayer(r.Context(), player); err != nil {
			respondWithError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": player.ID})
	}
}

// UpdatePlayerHandler edits a player's display metadata. Statistics are not editable.
func UpdatePlayerHandler(store club.ClubStore, defaultImage string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in PlayerInput
		if err := readJSON(w, r, &in); err != nil {
			respondWithError(w, err)
			return
		}
		if err := in.validate(false); err != nil {
			respondWithError(w, err)
			return
		}
		if in.Score != nil {
			respondWithError(w, badRequest("score is updated by recording matches"))
			return
		}

		player := &club.Player{
			ID:          chi.URLParam(r, "id"),
			Name:        strings.TrimSpace(in.Name),
			Position:    in.Position,
			Description: in.Description,
			Image:       in.Image,
		}
		if player.Image == "" {
			player.Image = defaultImage
		}
		if err := store.UpdatePlayer(r.Context(), player); err != nil {
			respondWithError(w, err)
			return
		}
		updated, err := store.GetPlayer(r.Context(), player.ID)
		if err != nil {
			respondWithError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeletePlayerHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeletePlayer(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondWithError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// UploadPlayerImageHandler stores a multipart "image" upload and points the
// player's image at its public URL. uploader is nil when no bucket is configured.
func UploadPlayerImageHandler(store club.ClubStore, uploader storage.FileUploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if uploader == nil {
			errorResponse(w, http.StatusNotImplemented, "image uploads are not configured")
			return
		}
		playerID := chi.URLParam(r, "id")
		if _, err := store.GetPlayer(r.Context(), playerID); err != nil {
			respondWithError(w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, 5*maxBodyBytes)
		file, header, err := r.FormFile("image")
		if err != nil {
			respondWithError(w, badRequest("multipart field %q is required: %v", "image", err))
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		key, err := storage.PlayerImageKey(playerID, contentType)
		if err != nil {
			respondWithError(w, err)
			return
		}
		result, err := uploader.Upload(r.Context(), key, contentType, file)
		if err != nil {
			log.Error("Failed to upload player image", "error", err, "playerID", playerID)
			errorResponse(w, http.StatusBadGateway, "failed to upload image")
			return
		}
		if err := store.UpdatePlayerImage(r.Context(), playerID, result.Location); err != nil {
			if delErr := uploader.Delete(r.Context(), key); delErr != nil {
				log.Error("Failed to delete orphaned image", "error", delErr, "key", key)
			}
			respondWithError(w, err)
			return
		}
		log.Info("Updated player image", "playerID", playerID, "url", result.Location)
		writeJSON(w, http.StatusOK, map[string]string{"image": result.Location})
	}
}
