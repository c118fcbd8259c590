package httpserver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fish11112222/naha2/internal/domain"
)

func fieldNames(ve *domain.ValidationError) []string {
	names := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestSignUpValidation(t *testing.T) {
	valid := signUpRequest{
		Username: "alice", Email: "alice@example.com",
		Password: "secret1", FirstName: "Alice", LastName: "Liddell",
	}

	t.Run("Valid", func(t *testing.T) {
		in, ve := valid.validate()
		require.Nil(t, ve)
		assert.Equal(t, "alice", in.Username)
	})

	t.Run("ShortUsername", func(t *testing.T) {
		r := valid
		r.Username = "ab"
		_, ve := r.validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldNames(ve), "username")
	})

	t.Run("LongUsername", func(t *testing.T) {
		r := valid
		r.Username = strings.Repeat("a", 21)
		_, ve := r.validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldNames(ve), "username")
	})

	t.Run("BadEmail", func(t *testing.T) {
		for _, email := range []string{"", "plain", "a@b", "a b@c.d", "@c.d"} {
			r := valid
			r.Email = email
			_, ve := r.validate()
			require.NotNil(t, ve, "email %q should fail", email)
			assert.Contains(t, fieldNames(ve), "email")
		}
	})

	t.Run("ShortPassword", func(t *testing.T) {
		r := valid
		r.Password = "12345"
		_, ve := r.validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldNames(ve), "password")
	})
}

func TestMessageCreateValidation(t *testing.T) {
	base := messageCreateRequest{Content: "hi", Username: "Alice L", UserID: 1}

	t.Run("Valid", func(t *testing.T) {
		_, ve := base.validate()
		assert.Nil(t, ve)
	})

	t.Run("EmptyWithoutAttachment", func(t *testing.T) {
		r := base
		r.Content = ""
		_, ve := r.validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldNames(ve), "content")
	})

	t.Run("EmptyWithAttachment", func(t *testing.T) {
		r := base
		r.Content = ""
		url := "https://example.com/cat.png"
		typ := domain.AttachmentImage
		r.AttachmentURL = &url
		r.AttachmentType = &typ
		_, ve := r.validate()
		assert.Nil(t, ve)
	})

	t.Run("TooLong", func(t *testing.T) {
		r := base
		r.Content = strings.Repeat("x", 501)
		_, ve := r.validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldNames(ve), "content")
	})

	t.Run("MultibyteLengthCountsRunes", func(t *testing.T) {
		r := base
		r.Content = strings.Repeat("ü", 500)
		_, ve := r.validate()
		assert.Nil(t, ve)
	})

	t.Run("BadAttachmentType", func(t *testing.T) {
		r := base
		typ := "video"
		r.AttachmentType = &typ
		_, ve := r.validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldNames(ve), "attachmentType")
	})

	t.Run("MissingUserID", func(t *testing.T) {
		r := base
		r.UserID = 0
		_, ve := r.validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldNames(ve), "userId")
	})
}

func TestProfileUpdateValidation(t *testing.T) {
	t.Run("DateOfBirthFormats", func(t *testing.T) {
		for _, s := range []string{"1990-05-04", "1990-05-04T00:00:00Z"} {
			r := profileUpdateRequest{DateOfBirth: &s}
			upd, ve := r.validate()
			require.Nil(t, ve, "date %q should parse", s)
			require.NotNil(t, upd.DateOfBirth)
			assert.Equal(t, 1990, upd.DateOfBirth.Year())
		}
	})

	t.Run("BadDateOfBirth", func(t *testing.T) {
		s := "04/05/1990"
		r := profileUpdateRequest{DateOfBirth: &s}
		_, ve := r.validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldNames(ve), "dateOfBirth")
	})

	t.Run("WebsiteRequiresHost", func(t *testing.T) {
		bad := "/just/a/path"
		r := profileUpdateRequest{Website: &bad}
		_, ve := r.validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldNames(ve), "website")
	})

	t.Run("EmptyWebsiteAllowed", func(t *testing.T) {
		empty := ""
		r := profileUpdateRequest{Website: &empty}
		_, ve := r.validate()
		assert.Nil(t, ve)
	})

	t.Run("LongBio", func(t *testing.T) {
		bio := strings.Repeat("b", 501)
		r := profileUpdateRequest{Bio: &bio}
		_, ve := r.validate()
		require.NotNil(t, ve)
		assert.Contains(t, fieldNames(ve), "bio")
	})
}
