package service

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/armanvanr/perpustakaan/internal/model"
	"github.com/armanvanr/perpustakaan/internal/repository"
	"github.com/armanvanr/perpustakaan/pkg/kafka"
)

// Enqueuer publishes audit events. A nil Enqueuer disables publishing.
type Enqueuer interface {
	Enqueue(topic string, v any) error
}

type Service struct {
	log   *zap.Logger
	repo  repository.Repository
	cmp   CredentialComparator
	audit Enqueuer
}

func NewService(repo repository.Repository, cmp CredentialComparator, audit Enqueuer, log *zap.Logger) *Service {
	return &Service{
		log:   log,
		repo:  repo,
		cmp:   cmp,
		audit: audit,
	}
}

func (s *Service) publishBorrowEvent(borrowID, action, actor string) {
	if s.audit == nil {
		return
	}
	ev := model.BorrowEvent{
		EventID:    uuid.NewString(),
		BorrowID:   borrowID,
		Action:     action,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.audit.Enqueue(kafka.BorrowTopic, ev); err != nil {
		s.log.Error("publish borrow event", zap.String("borrow_id", borrowID), zap.Error(err))
	}
}
