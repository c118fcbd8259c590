package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fish11112222/naha2/internal/domain"
	"github.com/fish11112222/naha2/internal/service"
)

func userIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
}

// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}  service.UserResponse
// @Router       /users [get]
func handleListUsers(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := userSvc.ListUsers(r.Context())
		if err != nil {
			log.Printf("list users failed: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch users")
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

// @Summary      Active user count
// @Description  Count of users seen within the activity window
// @Tags         users
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /users/count [get]
func handleUsersCount(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := userSvc.ActiveCount(r.Context())
		if err != nil {
			log.Printf("users count failed: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch users count")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"count": count})
	}
}

// @Summary      Total registered user count
// @Tags         users
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /users/total [get]
func handleTotalUsersCount(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := userSvc.TotalCount(r.Context())
		if err != nil {
			log.Printf("total users count failed: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch total users count")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"count": count})
	}
}

// @Summary      Online users
// @Tags         users
// @Produce      json
// @Success      200  {array}  service.UserResponse
// @Router       /users/online [get]
func handleOnlineUsers(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := userSvc.ListOnline(r.Context())
		if err != nil {
			log.Printf("online users failed: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch online users")
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Param        id path int true "User id"
// @Success      200  {object}  service.UserResponse
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/profile [get]
func handleGetProfile(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userIDParam(r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid user id")
			return
		}
		user, err := userSvc.GetProfile(r.Context(), id)
		if err != nil {
			log.Printf("get profile %d failed: %v", id, err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch profile")
			return
		}
		if user == nil {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// @Summary      Update a user profile
// @Description  Partial update; only supplied fields change
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path int                  true "User id"
// @Param        input body profileUpdateRequest true "Profile fields"
// @Success      200  {object}  service.UserResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/profile [put]
func handleUpdateProfile(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userIDParam(r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid user id")
			return
		}
		var req profileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updates, ve := req.validate()
		if ve != nil {
			writeValidation(w, ve)
			return
		}

		user, err := userSvc.UpdateProfile(r.Context(), id, updates)
		if err != nil {
			if errors.Is(err, domain.ErrAvatarTooLarge) {
				writeMessage(w, http.StatusBadRequest, "Avatar image is too large")
				return
			}
			log.Printf("update profile %d failed: %v", id, err)
			writeMessage(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		if user == nil {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// @Summary      Activity heartbeat
// @Description  Record activity for the user and mark them online
// @Tags         users
// @Produce      json
// @Param        id path int true "User id"
// @Success      200  {object}  map[string]bool
// @Router       /users/{id}/activity [post]
func handleActivity(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userIDParam(r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid user id")
			return
		}
		if err := userSvc.Heartbeat(r.Context(), id); err != nil {
			log.Printf("activity heartbeat %d failed: %v", id, err)
			writeMessage(w, http.StatusInternalServerError, "Failed to update user activity")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// @Summary      Message count for a user
// @Tags         users
// @Produce      json
// @Param        id path int true "User id"
// @Success      200  {object}  map[string]int
// @Router       /users/{id}/messages/count [get]
func handleUserMessageCount(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userIDParam(r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid user id")
			return
		}
		count, err := userSvc.MessageCount(r.Context(), id)
		if err != nil {
			log.Printf("user message count %d failed: %v", id, err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch message count")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"count": count})
	}
}
