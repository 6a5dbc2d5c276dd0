package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"holdops/internal/domain"
	"holdops/internal/service"
	"holdops/mocks"
)

func question(text string) domain.ChatRequest {
	return domain.ChatRequest{Messages: []domain.ChatMessage{{Role: "user", Content: text}}}
}

func TestChatService_Ask_Disabled(t *testing.T) {
	svc := service.NewChatService(testCompanies(), nil, new(mocks.MockKVStore), zap.NewNop())

	_, err := svc.Ask(context.Background(), question("hi"))

	assert.ErrorIs(t, err, domain.ErrChatDisabled)
}

func TestChatService_Ask_EmptyMessage(t *testing.T) {
	svc := service.NewChatService(testCompanies(), new(mocks.MockChatCompleter), new(mocks.MockKVStore), zap.NewNop())

	_, err := svc.Ask(context.Background(), question("   "))
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)

	_, err = svc.Ask(context.Background(), domain.ChatRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
}

func TestChatService_Ask_DefaultSystemPrompt(t *testing.T) {
	completer := new(mocks.MockChatCompleter)
	kv := new(mocks.MockKVStore)
	svc := service.NewChatService(testCompanies(), completer, kv, zap.NewNop())

	completer.On("Complete", mock.Anything, mock.MatchedBy(func(req domain.ChatRequest) bool {
		return strings.Contains(req.System, "finance assistant")
	})).Return(&domain.ChatReply{Text: "hello"}, nil)

	reply, err := svc.Ask(context.Background(), question("hi"))

	require.NoError(t, err)
	assert.Equal(t, "hello", reply.Text)
	kv.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	completer.AssertExpectations(t)
}

func TestChatService_Ask_GroundsOnLatestSnapshot(t *testing.T) {
	completer := new(mocks.MockChatCompleter)
	kv := new(mocks.MockKVStore)
	svc := service.NewChatService(testCompanies(), completer, kv, zap.NewNop())

	now := time.Now()
	kv.On("List", mock.Anything, "report:acme:").Return([]domain.KVEntry{
		{Key: "report:acme:balance-sheet:flat", Value: []byte(`{"old":true}`), UpdatedAt: now.Add(-time.Hour)},
		{Key: "report:acme:monthly:2024", Value: []byte(`{"fresh":true}`), UpdatedAt: now},
	}, nil)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(req domain.ChatRequest) bool {
		return strings.Contains(req.System, `{"fresh":true}`) &&
			!strings.Contains(req.System, `{"old":true}`) &&
			strings.Contains(req.System, "Acme Ltd") &&
			!strings.Contains(req.System, "truncated")
	})).Return(&domain.ChatReply{Text: "grounded"}, nil)

	req := question("how was january?")
	req.Company = "acme"
	reply, err := svc.Ask(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "grounded", reply.Text)
	completer.AssertExpectations(t)
}

func TestChatService_Ask_TruncatesLargeSnapshotOnRuneBoundary(t *testing.T) {
	completer := new(mocks.MockChatCompleter)
	kv := new(mocks.MockKVStore)
	svc := service.NewChatService(testCompanies(), completer, kv, zap.NewNop())

	// "é" occupies bytes 11999-12000, straddling the 12000-byte limit.
	value := strings.Repeat("a", 11999) + "é" + strings.Repeat("b", 100)
	kv.On("List", mock.Anything, "report:acme:").Return([]domain.KVEntry{
		{Key: "report:acme:monthly:2024", Value: []byte(value), UpdatedAt: time.Now()},
	}, nil)
	var system string
	completer.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { system = args.Get(1).(domain.ChatRequest).System }).
		Return(&domain.ChatReply{Text: "ok"}, nil)

	req := question("summarize")
	req.Company = "acme"
	_, err := svc.Ask(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, utf8.ValidString(system))
	assert.Contains(t, system, "truncated")
	assert.True(t, strings.HasSuffix(system, "\n"+strings.Repeat("a", 11999)))
	assert.NotContains(t, system, "é")
}

func TestChatService_Ask_SnapshotLookupFailureStillAnswers(t *testing.T) {
	completer := new(mocks.MockChatCompleter)
	kv := new(mocks.MockKVStore)
	svc := service.NewChatService(testCompanies(), completer, kv, zap.NewNop())

	kv.On("List", mock.Anything, "report:acme:").Return(nil, errors.New("db down"))
	completer.On("Complete", mock.Anything, mock.Anything).Return(&domain.ChatReply{Text: "ok"}, nil)

	req := question("hi")
	req.Company = "acme"
	_, err := svc.Ask(context.Background(), req)

	require.NoError(t, err)
}

func TestChatService_Ask_UnknownCompany(t *testing.T) {
	svc := service.NewChatService(testCompanies(), new(mocks.MockChatCompleter), new(mocks.MockKVStore), zap.NewNop())

	req := question("hi")
	req.Company = "initech"
	_, err := svc.Ask(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrUnknownCompany)
}
