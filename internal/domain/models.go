package domain

import "time"

// User represents a registered chat participant.
//
// Password holds the plaintext credential and is compared by exact string
// equality. This mirrors the deployed behaviour and is unsafe for anything
// beyond a demo; it is stripped from every API response by the service layer.
type User struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	Password     string     `db:"password" json:"password"`
	FirstName    string     `db:"first_name" json:"firstName"`
	LastName     string     `db:"last_name" json:"lastName"`
	Avatar       *string    `db:"avatar" json:"avatar"`
	Bio          *string    `db:"bio" json:"bio"`
	Location     *string    `db:"location" json:"location"`
	Website      *string    `db:"website" json:"website"`
	DateOfBirth  *time.Time `db:"date_of_birth" json:"dateOfBirth"`
	IsOnline     bool       `db:"is_online" json:"isOnline"`
	LastActivity *time.Time `db:"last_activity" json:"lastActivity"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// Attachment type values accepted on messages.
const (
	AttachmentImage = "image"
	AttachmentFile  = "file"
	AttachmentGif   = "gif"
)

// Message represents a single chat message in the global room.
// Username is a display-name snapshot taken at post time; UserID references
// the owner and gates edits and deletes.
type Message struct {
	ID             int64      `db:"id" json:"id"`
	Content        string     `db:"content" json:"content"`
	Username       string     `db:"username" json:"username"`
	UserID         int64      `db:"user_id" json:"userId"`
	AttachmentURL  *string    `db:"attachment_url" json:"attachmentUrl"`
	AttachmentType *string    `db:"attachment_type" json:"attachmentType"`
	AttachmentName *string    `db:"attachment_name" json:"attachmentName"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      *time.Time `db:"updated_at" json:"updatedAt"`
}

// HasAttachment reports whether the message carries an attachment payload.
func (m *Message) HasAttachment() bool {
	return m.AttachmentURL != nil && *m.AttachmentURL != ""
}

// ChatTheme is a named color palette. Exactly one theme is active
// process-wide; switching it affects every participant.
type ChatTheme struct {
	ID                     int64     `db:"id" json:"id"`
	Name                   string    `db:"name" json:"name"`
	PrimaryColor           string    `db:"primary_color" json:"primaryColor"`
	SecondaryColor         string    `db:"secondary_color" json:"secondaryColor"`
	BackgroundColor        string    `db:"background_color" json:"backgroundColor"`
	MessageBackgroundSelf  string    `db:"message_background_self" json:"messageBackgroundSelf"`
	MessageBackgroundOther string    `db:"message_background_other" json:"messageBackgroundOther"`
	TextColor              string    `db:"text_color" json:"textColor"`
	IsActive               bool      `db:"is_active" json:"isActive"`
	CreatedAt              time.Time `db:"created_at" json:"createdAt"`
}

// SignUpInput carries validated signup fields.
type SignUpInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// SignInInput carries signin credentials.
type SignInInput struct {
	Email    string
	Password string
}

// ProfileUpdate is a partial profile update. A nil pointer means the field
// was not supplied; a non-nil pointer replaces the stored value, including
// explicit clears with an empty string. FirstName and LastName only replace
// when non-empty.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Bio         *string
	Location    *string
	Website     *string
	Avatar      *string
	DateOfBirth *time.Time
}

// MessageInput carries fields for a new message. Content may be empty when
// an attachment is present; the HTTP boundary enforces that at least one of
// the two exists.
type MessageInput struct {
	Content        string
	Username       string
	UserID         int64
	AttachmentURL  *string
	AttachmentType *string
	AttachmentName *string
}
