package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/appointment"
	shopRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/shop"
	"github.com/m04kA/SMC-BarberBooking/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	shopRepo        ShopRepository
	schedule        ScheduleInvalidator
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	shopRepo ShopRepository,
	schedule ScheduleInvalidator,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		shopRepo:        shopRepo,
		schedule:        schedule,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Видеть запись может клиент, который её сделал, или владелец салона.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, caller domain.Identity) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for user=%s", id, caller.UserID)

	if caller.IsAnonymous() {
		return nil, ErrUnauthorized
	}

	appt, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(ctx, appt, caller); err != nil {
		s.logger.Warn("GetByID: access denied for user=%s to appointment id=%s", caller.UserID, id)
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// GetCustomerAppointments получает историю записей вызывающего клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: fetching appointments for user=%s, status=%v", req.Caller.UserID, req.Status)

	if req.Caller.IsAnonymous() {
		return nil, ErrUnauthorized
	}

	filter := domain.AppointmentsFilter{CustomerID: req.Caller.UserIDPtr()}
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s for user=%s", *req.Status, req.Caller.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for user=%s: %v", req.Caller.UserID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: fetched %d appointments for user=%s", len(list), req.Caller.UserID)
	return models.FromDomainAppointmentList(list), nil
}

// GetShopAppointments получает записи салона с фильтрацией по креслу, периоду и статусу.
// Доступно только владельцу салона.
func (s *Service) GetShopAppointments(ctx context.Context, req *models.GetShopAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetShopAppointments: fetching appointments for shop=%s, user=%s", req.ShopID, req.Caller.UserID)

	if req.Caller.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	if err := s.checkOwnerAccess(ctx, req.ShopID, req.Caller.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetShopAppointments: invalid filter for shop=%s: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetShopAppointments: repository error for shop=%s: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: GetShopAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetShopAppointments: fetched %d appointments for shop=%s", len(list), req.ShopID)
	return models.FromDomainAppointmentList(list), nil
}

// Cancel переводит запись из booked в cancelled.
// Отменить может клиент, сделавший запись, или владелец салона.
// Повторная отмена уже отменённой записи не является ошибкой.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, caller domain.Identity) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s by user=%s", id, caller.UserID)

	if caller.IsAnonymous() {
		return nil, ErrUnauthorized
	}

	var (
		shopID    uuid.UUID
		cancelled bool
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Запись блокируется до конца транзакции (FOR UPDATE)
		appt, err := s.getAppointment(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		if err := s.checkAccess(txCtx, appt, caller); err != nil {
			s.logger.Warn("Cancel: access denied for user=%s to appointment id=%s", caller.UserID, id)
			return err
		}

		shopID = appt.ShopID

		if appt.IsCancelled() {
			s.logger.Info("Cancel: appointment id=%s is already cancelled", id)
			return nil
		}

		if err := s.appointmentRepo.Cancel(txCtx, id); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("Cancel: repository error for appointment id=%s: %v", id, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		cancelled = true
		return nil
	})
	if err != nil {
		if isServiceError(err) {
			return nil, err
		}
		s.logger.Error("Cancel: transaction failed for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - transaction: %v", ErrInternal, err)
	}

	if cancelled {
		s.schedule.Invalidate(ctx, shopID)
		s.logger.Info("Cancel: successfully cancelled appointment id=%s", id)
	}

	appt, err := s.getAppointment(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainAppointment(appt), nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, id uuid.UUID) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

// checkAccess разрешает доступ клиенту записи и владельцу салона
func (s *Service) checkAccess(ctx context.Context, appt *domain.Appointment, caller domain.Identity) error {
	if appt.IsBookedBy(caller.UserID) {
		return nil
	}

	if err := s.checkOwnerAccess(ctx, appt.ShopID, caller.UserID); err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		return ErrAccessDenied
	}

	return nil
}

// checkOwnerAccess проверяет, что пользователь владеет салоном
func (s *Service) checkOwnerAccess(ctx context.Context, shopID, userID uuid.UUID) error {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, shopRepo.ErrShopNotFound) {
			s.logger.Warn("checkOwnerAccess: shop id=%s not found", shopID)
			return ErrShopNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get shop id=%s: %v", shopID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get shop: %v", ErrInternal, err)
	}

	if !shop.IsOwnedBy(userID) {
		s.logger.Warn("checkOwnerAccess: user=%s is not the owner of shop=%s", userID, shopID)
		return ErrAccessDenied
	}

	return nil
}

func isServiceError(err error) bool {
	for _, target := range []error{
		ErrAppointmentNotFound, ErrShopNotFound, ErrAccessDenied, ErrUnauthorized, ErrInvalidInput, ErrInternal,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
