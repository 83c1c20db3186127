package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Request модели

// ListResourcesRequest запрос списка ресурсов
type ListResourcesRequest struct {
	Sport     *string
	Available *bool
}

// BlockedSlotDTO заблокированный слот: день недели (0=воскресенье) и время начала
type BlockedSlotDTO struct {
	Day  int    `json:"day"`
	Time string `json:"time"` // "14:00"
}

// UpdateScheduleRequest запрос на изменение расписания
// Все поля опциональны - обновляются только переданные значения
// BlockedSlots, если передан, заменяет список целиком
type UpdateScheduleRequest struct {
	OpenTime            *string           `json:"openTime,omitempty"`
	CloseTime           *string           `json:"closeTime,omitempty"`
	SlotDurationMinutes *int              `json:"slotDurationMinutes,omitempty"`
	AvailableDays       *[]int            `json:"availableDays,omitempty"`
	BlockedSlots        *[]BlockedSlotDTO `json:"blockedSlots,omitempty"`
}

// IsEmpty в запросе нет ни одного поля
func (r *UpdateScheduleRequest) IsEmpty() bool {
	return r.OpenTime == nil && r.CloseTime == nil && r.SlotDurationMinutes == nil &&
		r.AvailableDays == nil && r.BlockedSlots == nil
}

// ApplyTo накладывает изменения на текущее расписание
func (r *UpdateScheduleRequest) ApplyTo(current domain.Schedule) (domain.Schedule, error) {
	next := current

	if r.OpenTime != nil {
		t, err := types.NewTimeStringFromString(*r.OpenTime)
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("openTime: %w", err)
		}
		next.OpenTime = t
	}
	if r.CloseTime != nil {
		t, err := types.NewTimeStringFromString(*r.CloseTime)
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("closeTime: %w", err)
		}
		next.CloseTime = t
	}
	if r.SlotDurationMinutes != nil {
		next.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.AvailableDays != nil {
		days := make([]time.Weekday, 0, len(*r.AvailableDays))
		for _, d := range *r.AvailableDays {
			days = append(days, time.Weekday(d))
		}
		next.AvailableDays = domain.NormalizeDays(days)
	}
	if r.BlockedSlots != nil {
		// блоки проверяются по уже обновлённым часам работы
		blocked := domain.BlockedSlots{}
		for _, b := range *r.BlockedSlots {
			slot, err := next.ParseBlockedSlot(b.Day, b.Time)
			if err != nil {
				return domain.Schedule{}, err
			}
			blocked.Add(slot.Weekday, slot.Time)
		}
		next.Blocked = blocked
	}

	return next, nil
}

// Response модели

// ScheduleResponse ответ с расписанием ресурса
type ScheduleResponse struct {
	OpenTime            string           `json:"openTime"`
	CloseTime           string           `json:"closeTime"`
	SlotDurationMinutes int              `json:"slotDurationMinutes"`
	AvailableDays       []int            `json:"availableDays"`
	BlockedSlots        []BlockedSlotDTO `json:"blockedSlots"`
}

// ResourceResponse ответ с данными ресурса
type ResourceResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Sport       string           `json:"sport"`
	Capacity    int              `json:"capacity"`
	HourlyRate  int64            `json:"hourlyRate"`
	Currency    string           `json:"currency"`
	Amenities   []string         `json:"amenities"`
	Description string           `json:"description,omitempty"`
	Available   bool             `json:"available"`
	Schedule    ScheduleResponse `json:"schedule"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ResourceListResponse ответ со списком ресурсов
type ResourceListResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

// Методы конвертации

// FromDomainSchedule конвертирует расписание в DTO
func FromDomainSchedule(s domain.Schedule) ScheduleResponse {
	days := make([]int, 0, len(s.AvailableDays))
	for _, d := range s.AvailableDays {
		days = append(days, int(d))
	}

	list := s.Blocked.List()
	blocked := make([]BlockedSlotDTO, 0, len(list))
	for _, b := range list {
		blocked = append(blocked, BlockedSlotDTO{Day: int(b.Weekday), Time: b.Time.String()})
	}

	return ScheduleResponse{
		OpenTime:            s.OpenTime.String(),
		CloseTime:           s.CloseTime.String(),
		SlotDurationMinutes: s.SlotDurationMinutes,
		AvailableDays:       days,
		BlockedSlots:        blocked,
	}
}

// FromDomainResource конвертирует domain модель в DTO
func FromDomainResource(r *domain.Resource) *ResourceResponse {
	if r == nil {
		return nil
	}

	amenities := r.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return &ResourceResponse{
		ID:          r.ID,
		Name:        r.Name,
		Sport:       string(r.Sport),
		Capacity:    r.Capacity,
		HourlyRate:  r.HourlyRate,
		Currency:    domain.Currency,
		Amenities:   amenities,
		Description: r.Description,
		Available:   r.Available,
		Schedule:    FromDomainSchedule(r.Schedule),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// FromDomainResourceList конвертирует список domain моделей в DTO
func FromDomainResourceList(resources []*domain.Resource) *ResourceListResponse {
	resp := &ResourceListResponse{
		Resources: make([]ResourceResponse, 0, len(resources)),
	}

	for _, r := range resources {
		if item := FromDomainResource(r); item != nil {
			resp.Resources = append(resp.Resources, *item)
		}
	}

	return resp
}
