package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/probegapp/probeg/internal/domain/feedback"
	"github.com/probegapp/probeg/internal/platform/id"
	"github.com/probegapp/probeg/internal/platform/logging"
)

const maxFeedbackLength = 2000

// FeedbackService stores free-text messages left through the bot.
type FeedbackService struct {
	feedbackRepo feedback.Repository
	idGen        id.Generator
	logger       *logging.Logger
	now          func() time.Time
}

func NewFeedbackService(feedbackRepo feedback.Repository, idGen id.Generator, logger *logging.Logger) *FeedbackService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *FeedbackService) Submit(ctx context.Context, chatID int64, message string) (feedback.Feedback, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedbackService.Submit")
	defer span.End()

	message = strings.TrimSpace(message)
	if message == "" {
		return feedback.Feedback{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(message) > maxFeedbackLength {
		return feedback.Feedback{}, fmt.Errorf("%w: message longer than %d characters", ErrInvalidInput, maxFeedbackLength)
	}

	feedbackID, err := s.idGen.NewID()
	if err != nil {
		return feedback.Feedback{}, fmt.Errorf("generate feedback id: %w", err)
	}

	stored, err := s.feedbackRepo.Create(ctx, feedback.Feedback{
		ID:        feedbackID,
		ChatID:    chatID,
		Message:   message,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return feedback.Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	return stored, nil
}

func (s *FeedbackService) List(ctx context.Context, limit int) ([]feedback.Feedback, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedbackService.List")
	defer span.End()

	items, err := s.feedbackRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}
