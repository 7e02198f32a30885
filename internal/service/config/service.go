package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/storekit/STF-ReservationService/internal/domain"
	policyRepo "github.com/storekit/STF-ReservationService/internal/infra/storage/policy"
	storeClient "github.com/storekit/STF-ReservationService/internal/integrations/storeservice"
	"github.com/storekit/STF-ReservationService/internal/schedule"
	"github.com/storekit/STF-ReservationService/internal/service/config/models"
)

// Service сервис для работы с политикой бронирования магазина
type Service struct {
	policyRepo  PolicyRepository
	storeClient StoreServiceClient
	logger      Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	policyRepo PolicyRepository,
	storeClient StoreServiceClient,
	logger Logger,
) *Service {
	return &Service{
		policyRepo:  policyRepo,
		storeClient: storeClient,
		logger:      logger,
	}
}

// Get получает политику бронирования магазина
// Публичный метод - если политика не сохранена, возвращает дефолтную
func (s *Service) Get(ctx context.Context, req *models.GetPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Get: fetching policy for store=%d", req.StoreID)

	if req.StoreID <= 0 {
		return nil, fmt.Errorf("%w: storeID must be positive", ErrInvalidInput)
	}

	policy, err := s.policyRepo.GetByStoreID(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Info("Get: no stored policy for store=%d, returning default", req.StoreID)
			return models.FromDomainPolicy(domain.DefaultPolicyConfig(req.StoreID), true), nil
		}
		s.logger.Error("Get: repository error for store=%d: %v", req.StoreID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Get: successfully fetched policy for store=%d", req.StoreID)
	return models.FromDomainPolicy(policy, false), nil
}

// Update обновляет политику бронирования магазина
// Доступно только менеджерам магазина
// Поддерживает частичное обновление - обновляются только указанные поля
func (s *Service) Update(ctx context.Context, storeID int64, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Update: updating policy for store=%d by user=%d", storeID, req.UserID)

	if storeID <= 0 {
		return nil, fmt.Errorf("%w: storeID must be positive", ErrInvalidInput)
	}

	// 1. Проверяем права доступа (только менеджер магазина)
	if err := s.checkManagerAccess(ctx, storeID, req.UserID); err != nil {
		return nil, err
	}

	// 2. Получаем текущую политику (или дефолтную как базу)
	policy, err := s.policyRepo.GetByStoreID(ctx, storeID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Error("Update: repository error for store=%d: %v", storeID, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		policy = domain.DefaultPolicyConfig(storeID)
	}

	// 3. Применяем обновления
	req.ApplyToPolicy(policy)

	// 4. Валидируем обновленную политику
	if err := s.validatePolicy(policy); err != nil {
		s.logger.Warn("Update: validation failed for store=%d: %v", storeID, err)
		return nil, err
	}

	// 5. Сохраняем через upsert
	updated, err := s.policyRepo.Upsert(ctx, policy)
	if err != nil {
		s.logger.Error("Update: failed to upsert policy for store=%d: %v", storeID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated policy for store=%d", storeID)
	return models.FromDomainPolicy(updated, false), nil
}

// Вспомогательные методы

// validatePolicy проверяет границы значений и синтаксис RSVP-расписания
func (s *Service) validatePolicy(p *domain.PolicyConfig) error {
	if p.DefaultDurationMinutes < domain.MinDurationMinutes || p.DefaultDurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: defaultDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if p.CancelHours < 0 || p.CancelHours > domain.MaxCancelHours {
		return fmt.Errorf("%w: cancelHours must be between 0 and %d", ErrInvalidInput, domain.MaxCancelHours)
	}

	if p.CanReserveBefore < 0 || p.CanReserveBefore > domain.MaxReserveWindowHours {
		return fmt.Errorf("%w: canReserveBefore must be between 0 and %d", ErrInvalidInput, domain.MaxReserveWindowHours)
	}

	if p.CanReserveAfter < 0 || p.CanReserveAfter > domain.MaxReserveWindowHours {
		return fmt.Errorf("%w: canReserveAfter must be between 0 and %d", ErrInvalidInput, domain.MaxReserveWindowHours)
	}

	if p.HasReservationHorizon() && p.CanReserveAfter < p.CanReserveBefore {
		return fmt.Errorf("%w: canReserveAfter must not be less than canReserveBefore", ErrInvalidInput)
	}

	// RSVP-расписание обязано быть валидным JSON-документом расписания:
	// сохранение заведомо битого документа означало бы постоянный откат
	// на дефолтные часы
	if !p.UseBusinessHours && p.RsvpHoursJSON != nil {
		if _, err := schedule.Parse([]byte(*p.RsvpHoursJSON)); err != nil {
			return fmt.Errorf("%w: invalid rsvpHours document: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// checkManagerAccess проверяет, что пользователь является менеджером магазина
func (s *Service) checkManagerAccess(ctx context.Context, storeID int64, userID int64) error {
	store, err := s.storeClient.GetStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, storeClient.ErrStoreNotFound) {
			s.logger.Warn("checkManagerAccess: store id=%d not found", storeID)
			return ErrStoreNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get store id=%d: %v", storeID, err)
		return fmt.Errorf("%w: checkManagerAccess - store service error: %v", ErrInternal, err)
	}

	if !store.IsManager(userID) {
		s.logger.Warn("checkManagerAccess: user=%d is not a manager of store=%d", userID, storeID)
		return ErrAccessDenied
	}

	return nil
}
