package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fish11112222/naha2/internal/domain"
	"github.com/fish11112222/naha2/internal/service"
)

// @Summary      Get the chat theme
// @Description  Return the global active theme and the full catalogue
// @Tags         theme
// @Produce      json
// @Success      200  {object}  service.ThemeState
// @Router       /theme [get]
func handleGetTheme(themeSvc *service.ThemeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := themeSvc.Get(r.Context())
		if err != nil {
			log.Printf("get theme failed: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch theme")
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

// @Summary      Change the chat theme
// @Description  Switch the global theme for every participant
// @Tags         theme
// @Accept       json
// @Produce      json
// @Param        input body object{themeId=int} true "Theme id"
// @Success      200  {object}  service.ThemeState
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /theme [post]
func handleSetTheme(themeSvc *service.ThemeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Theme ids are numeric across the whole API; a string id is a
		// client bug and rejected here.
		var req struct {
			ThemeID any `json:"themeId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		themeID, ok := req.ThemeID.(float64)
		if !ok || themeID < 1 {
			writeMessage(w, http.StatusBadRequest, "Theme ID is required and must be a number")
			return
		}

		state, err := themeSvc.Set(r.Context(), int64(themeID))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeMessage(w, http.StatusNotFound, "Theme not found")
				return
			}
			log.Printf("set theme failed: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to change theme")
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}
