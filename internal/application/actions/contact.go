package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// ContactHandler stores a contact in one atomic insert.
type ContactHandler struct {
	book   ports.ContactBook
	logger ports.Logger
}

func NewContactHandler(book ports.ContactBook, logger ports.Logger) *ContactHandler {
	return &ContactHandler{book: book, logger: logger}
}

func (h *ContactHandler) Execute(ctx context.Context, fields domain.Fields, _ domain.SourceRef) (domain.Outcome, error) {
	contact := ports.Contact{
		Name:         fields.Value("name", "Unknown"),
		Phone:        strings.TrimSpace(fields.Value("phone", "")),
		Email:        strings.TrimSpace(fields.Value("email", "")),
		Organization: strings.TrimSpace(fields.Value("company", "")),
	}
	id, err := h.book.SaveContact(ctx, contact)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("save contact: %w", err)
	}
	h.logger.Info("contact saved", map[string]interface{}{"id": id, "name": contact.Name})
	return domain.Outcome{Message: "Contact saved: " + contact.Name}, nil
}
