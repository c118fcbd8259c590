package httpserver

import (
	"net/url"
	"regexp"
	"time"

	"github.com/fish11112222/naha2/internal/domain"
)

// Request schemas and their validation rules. Validation happens here at
// the HTTP boundary, before anything reaches the store; ownership and
// existence checks live behind it.

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type signUpRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r *signUpRequest) validate() (domain.SignUpInput, *domain.ValidationError) {
	ve := &domain.ValidationError{}
	if n := len([]rune(r.Username)); n < 3 {
		ve.Add("username", "Username must be at least 3 characters")
	} else if n > 20 {
		ve.Add("username", "Username cannot exceed 20 characters")
	}
	if !emailPattern.MatchString(r.Email) {
		ve.Add("email", "Invalid email address")
	}
	if len(r.Password) < 6 {
		ve.Add("password", "Password must be at least 6 characters")
	}
	if n := len([]rune(r.FirstName)); n < 1 {
		ve.Add("firstName", "First name is required")
	} else if n > 50 {
		ve.Add("firstName", "First name cannot exceed 50 characters")
	}
	if n := len([]rune(r.LastName)); n < 1 {
		ve.Add("lastName", "Last name is required")
	} else if n > 50 {
		ve.Add("lastName", "Last name cannot exceed 50 characters")
	}
	if len(ve.Fields) > 0 {
		return domain.SignUpInput{}, ve
	}
	return domain.SignUpInput{
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}, nil
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *signInRequest) validate() (domain.SignInInput, *domain.ValidationError) {
	ve := &domain.ValidationError{}
	if !emailPattern.MatchString(r.Email) {
		ve.Add("email", "Invalid email address")
	}
	if r.Password == "" {
		ve.Add("password", "Password is required")
	}
	if len(ve.Fields) > 0 {
		return domain.SignInInput{}, ve
	}
	return domain.SignInInput{Email: r.Email, Password: r.Password}, nil
}

type messageCreateRequest struct {
	Content        string  `json:"content"`
	Username       string  `json:"username"`
	UserID         int64   `json:"userId"`
	AttachmentURL  *string `json:"attachmentUrl"`
	AttachmentType *string `json:"attachmentType"`
	AttachmentName *string `json:"attachmentName"`
}

func (r *messageCreateRequest) validate() (domain.MessageInput, *domain.ValidationError) {
	ve := &domain.ValidationError{}
	if len([]rune(r.Content)) > 500 {
		ve.Add("content", "Message cannot exceed 500 characters")
	}
	if r.Username == "" {
		ve.Add("username", "Username is required")
	}
	if r.UserID < 1 {
		ve.Add("userId", "User ID is required")
	}
	if r.AttachmentType != nil {
		switch *r.AttachmentType {
		case domain.AttachmentImage, domain.AttachmentFile, domain.AttachmentGif:
		default:
			ve.Add("attachmentType", "Attachment type must be one of image, file, gif")
		}
	}
	hasAttachment := r.AttachmentURL != nil && *r.AttachmentURL != ""
	if r.Content == "" && !hasAttachment {
		ve.Add("content", "Message must have either text content or an attachment")
	}
	if len(ve.Fields) > 0 {
		return domain.MessageInput{}, ve
	}
	return domain.MessageInput{
		Content:        r.Content,
		Username:       r.Username,
		UserID:         r.UserID,
		AttachmentURL:  r.AttachmentURL,
		AttachmentType: r.AttachmentType,
		AttachmentName: r.AttachmentName,
	}, nil
}

type messageUpdateRequest struct {
	UserID  int64  `json:"userId"`
	Content string `json:"content"`
}

func (r *messageUpdateRequest) validate() *domain.ValidationError {
	ve := &domain.ValidationError{}
	if n := len([]rune(r.Content)); n < 1 {
		ve.Add("content", "Message cannot be empty")
	} else if n > 500 {
		ve.Add("content", "Message cannot exceed 500 characters")
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

type profileUpdateRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	Website     *string `json:"website"`
	Avatar      *string `json:"avatar"`
	DateOfBirth *string `json:"dateOfBirth"`
}

func (r *profileUpdateRequest) validate() (domain.ProfileUpdate, *domain.ValidationError) {
	ve := &domain.ValidationError{}
	if r.FirstName != nil && len([]rune(*r.FirstName)) > 50 {
		ve.Add("firstName", "First name cannot exceed 50 characters")
	}
	if r.LastName != nil && len([]rune(*r.LastName)) > 50 {
		ve.Add("lastName", "Last name cannot exceed 50 characters")
	}
	if r.Bio != nil && len([]rune(*r.Bio)) > 500 {
		ve.Add("bio", "Bio cannot exceed 500 characters")
	}
	if r.Location != nil && len([]rune(*r.Location)) > 100 {
		ve.Add("location", "Location cannot exceed 100 characters")
	}
	if r.Website != nil && *r.Website != "" {
		if u, err := url.ParseRequestURI(*r.Website); err != nil || u.Host == "" {
			ve.Add("website", "Invalid website URL")
		}
	}

	upd := domain.ProfileUpdate{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
		Location:  r.Location,
		Website:   r.Website,
		Avatar:    r.Avatar,
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		dob, err := parseDate(*r.DateOfBirth)
		if err != nil {
			ve.Add("dateOfBirth", "Invalid date of birth")
		} else {
			upd.DateOfBirth = &dob
		}
	}
	if len(ve.Fields) > 0 {
		return domain.ProfileUpdate{}, ve
	}
	return upd, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
