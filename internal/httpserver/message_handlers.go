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

// @Summary      List messages
// @Description  Return one page of messages, oldest first; X-Total-Count carries the full count
// @Tags         messages
// @Produce      json
// @Param        page   query int false "Page number (1-based)"
// @Param        limit  query int false "Page size"
// @Success      200  {array}  domain.Message
// @Router       /messages [get]
func handleListMessages(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		msgs, total, err := msgSvc.List(r.Context(), page, limit)
		if err != nil {
			log.Printf("list messages failed: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to fetch messages")
			return
		}

		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Total-Count", strconv.Itoa(total))
		writeJSON(w, http.StatusOK, msgs)
	}
}

// @Summary      Post a message
// @Description  Create a message; requires text content or an attachment
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        input body messageCreateRequest true "Message input"
// @Success      201  {object}  domain.Message
// @Failure      400  {object}  map[string]string
// @Router       /messages [post]
func handleCreateMessage(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in, ve := req.validate()
		if ve != nil {
			writeValidation(w, ve)
			return
		}

		msg, err := msgSvc.Create(r.Context(), in)
		if err != nil {
			log.Printf("create message failed: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to create message")
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

// @Summary      Edit a message
// @Description  Replace a message's content; only the owner may edit
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id    path int                  true "Message id"
// @Param        input body messageUpdateRequest true "Update input"
// @Success      200  {object}  domain.Message
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages/{id} [put]
func handleUpdateMessage(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid message id")
			return
		}
		var req messageUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.UserID < 1 {
			writeMessage(w, http.StatusBadRequest, "User ID is required")
			return
		}
		if ve := req.validate(); ve != nil {
			writeValidation(w, ve)
			return
		}

		msg, err := msgSvc.Edit(r.Context(), id, req.UserID, req.Content)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				writeMessage(w, http.StatusNotFound, "Message not found")
			case errors.Is(err, domain.ErrForbidden):
				writeMessage(w, http.StatusForbidden, "You can only edit your own messages")
			default:
				log.Printf("update message %d failed: %v", id, err)
				writeMessage(w, http.StatusInternalServerError, "Failed to update message")
			}
			return
		}
		writeJSON(w, http.StatusOK, msg)
	}
}

// @Summary      Delete a message
// @Description  Remove a message; only the owner may delete
// @Tags         messages
// @Param        id     path  int true "Message id"
// @Param        userId query int true "Acting user id"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages/{id} [delete]
func handleDeleteMessage(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid message id")
			return
		}
		// userId travels as a query parameter on DELETE requests.
		userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
		if err != nil || userID < 1 {
			writeMessage(w, http.StatusBadRequest, "User ID is required")
			return
		}

		if err := msgSvc.Delete(r.Context(), id, userID); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				writeMessage(w, http.StatusNotFound, "Message not found")
			case errors.Is(err, domain.ErrForbidden):
				writeMessage(w, http.StatusForbidden, "You can only delete your own messages")
			default:
				log.Printf("delete message %d failed: %v", id, err)
				writeMessage(w, http.StatusInternalServerError, "Failed to delete message from storage")
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
