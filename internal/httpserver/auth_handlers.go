package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fish11112222/naha2/internal/domain"
	"github.com/fish11112222/naha2/internal/service"
)

// @Summary      Sign up
// @Description  Create a new account and return the user without the password field
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body signUpRequest true "Signup input"
// @Success      201  {object}  service.UserResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /auth/signup [post]
func handleSignUp(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in, ve := req.validate()
		if ve != nil {
			writeValidation(w, ve)
			return
		}

		user, err := authSvc.SignUp(r.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrDuplicateUsername):
				writeMessage(w, http.StatusConflict, err.Error())
			default:
				log.Printf("signup failed: %v", err)
				writeMessage(w, http.StatusInternalServerError, "Failed to create account")
			}
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}
}

// @Summary      Sign in
// @Description  Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body signInRequest true "Signin input"
// @Success      200  {object}  service.UserResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/signin [post]
func handleSignIn(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		in, ve := req.validate()
		if ve != nil {
			writeValidation(w, ve)
			return
		}

		user, err := authSvc.SignIn(r.Context(), in)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
				return
			}
			log.Printf("signin failed: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to sign in")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
