package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fish11112222/naha2/internal/domain"
)

// attachmentPreviewChars is how much of an inline base64 image survives in
// list responses; the full payload stays in the store.
const attachmentPreviewChars = 1000

// MessageService provides message CRUD plus the response shaping (paging,
// attachment truncation) that keeps list payloads small.
type MessageService struct {
	storage  domain.Storage
	pageSize int
}

func NewMessageService(storage domain.Storage, defaultPageSize int) *MessageService {
	if defaultPageSize <= 0 {
		defaultPageSize = 50
	}
	return &MessageService{storage: storage, pageSize: defaultPageSize}
}

// List returns one page of messages, oldest first, along with the total
// count across all pages. Inline data: image attachments are truncated to a
// preview so a page of messages never carries megabytes of base64.
func (s *MessageService) List(ctx context.Context, page, limit int) ([]*domain.Message, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.pageSize
	}

	all, err := s.storage.GetMessages(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("get messages: %w", err)
	}
	total := len(all)

	start := (page - 1) * limit
	if start >= total {
		return []*domain.Message{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}

	pageMsgs := make([]*domain.Message, 0, end-start)
	for _, m := range all[start:end] {
		pageMsgs = append(pageMsgs, truncateAttachment(m))
	}
	return pageMsgs, total, nil
}

func truncateAttachment(m *domain.Message) *domain.Message {
	if m.AttachmentURL == nil || m.AttachmentType == nil {
		return m
	}
	url := *m.AttachmentURL
	if *m.AttachmentType != domain.AttachmentImage || !strings.HasPrefix(url, "data:") || len(url) <= attachmentPreviewChars {
		return m
	}
	c := *m
	preview := url[:attachmentPreviewChars] + "...[truncated]"
	c.AttachmentURL = &preview
	return &c
}

func (s *MessageService) Create(ctx context.Context, in domain.MessageInput) (*domain.Message, error) {
	return s.storage.CreateMessage(ctx, in)
}

// Edit changes a message's content. Existence and ownership are checked
// here for the 404/403 distinction; the store re-checks ownership on the
// actual update.
func (s *MessageService) Edit(ctx context.Context, id, userID int64, content string) (*domain.Message, error) {
	msg, err := s.storage.GetMessageByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	if msg == nil {
		return nil, domain.ErrNotFound
	}
	if msg.UserID != userID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.storage.UpdateMessage(ctx, id, userID, content)
	if err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("message %d: %w", id, domain.ErrInternal)
	}
	return updated, nil
}

// Delete removes a message. Same 404/403 precedence as Edit; the store
// additionally re-verifies the owner's identity before removing.
func (s *MessageService) Delete(ctx context.Context, id, userID int64) error {
	msg, err := s.storage.GetMessageByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get message: %w", err)
	}
	if msg == nil {
		return domain.ErrNotFound
	}
	if msg.UserID != userID {
		return domain.ErrForbidden
	}

	deleted, err := s.storage.DeleteMessage(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if !deleted {
		return fmt.Errorf("message %d not deleted: %w", id, domain.ErrInternal)
	}
	return nil
}
