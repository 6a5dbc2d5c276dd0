package service

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"holdops/internal/domain"
	"holdops/internal/port"
)

// maxGroundingBytes bounds the snapshot pasted into the system prompt.
const maxGroundingBytes = 12000

const chatSystemPrompt = "You are the finance assistant of a holding company's operations dashboard. " +
	"Answer concisely. When report data is provided, base figures on it and say when it does not cover the question."

// ChatService proxies questions to the LLM.
type ChatService interface {
	Ask(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error)
}

type chatService struct {
	companies *companyDirectory
	completer port.ChatCompleter
	kv        port.KVStore
	log       *zap.Logger
}

// NewChatService creates a new ChatService implementation. A nil completer
// disables chat.
func NewChatService(companies []domain.Company, completer port.ChatCompleter, kv port.KVStore, log *zap.Logger) ChatService {
	return &chatService{
		companies: newCompanyDirectory(companies),
		completer: completer,
		kv:        kv,
		log:       log,
	}
}

func (s *chatService) Ask(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	if s.completer == nil {
		return nil, domain.ErrChatDisabled
	}
	if len(req.Messages) == 0 || strings.TrimSpace(req.Messages[len(req.Messages)-1].Content) == "" {
		return nil, domain.ErrEmptyMessage
	}

	system := chatSystemPrompt
	if req.System != "" {
		system = req.System
	}
	if req.Company != "" {
		company, err := s.companies.get(req.Company)
		if err != nil {
			return nil, err
		}
		if grounding, truncated := s.grounding(ctx, company); grounding != "" {
			label := " (JSON):\n"
			if truncated {
				label = " (JSON, truncated; the document is incomplete):\n"
			}
			system += "\n\nLatest report data for " + company.Name + label + grounding
		}
	}
	req.System = system

	return s.completer.Complete(ctx, req)
}

// grounding returns the most recently written report snapshot of a company,
// or "" when there is none. truncated reports whether it was cut to
// maxGroundingBytes.
func (s *chatService) grounding(ctx context.Context, company domain.Company) (data string, truncated bool) {
	entries, err := s.kv.List(ctx, SnapshotKey(company.Slug))
	if err != nil {
		s.log.Warn("chat: snapshot lookup failed", zap.String("company", company.Slug), zap.Error(err))
		return "", false
	}
	if len(entries) == 0 {
		return "", false
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	data = string(entries[0].Value)
	if len(data) <= maxGroundingBytes {
		return data, false
	}
	return truncateUTF8(data, maxGroundingBytes), true
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
