// Package catalog загружает описание площадок из YAML и синхронизирует его с базой при старте.
package catalog

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// BlockedSlotConfig заблокированный слот: день недели (0=воскресенье) и время
type BlockedSlotConfig struct {
	Day  int    `yaml:"day"`
	Time string `yaml:"time"` // "14:00"
}

// ScheduleConfig расписание площадки; незаданные поля берутся из defaults
type ScheduleConfig struct {
	OpenTime            string              `yaml:"open_time"`             // "08:00"
	CloseTime           string              `yaml:"close_time"`            // "23:00"
	SlotDurationMinutes int                 `yaml:"slot_duration_minutes"` // 60
	AvailableDays       []int               `yaml:"available_days"`        // 0=Sun ... 6=Sat
	BlockedSlots        []BlockedSlotConfig `yaml:"blocked_slots"`
}

// ResourceConfig одна площадка
type ResourceConfig struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Sport       string          `yaml:"sport"`
	Capacity    int             `yaml:"capacity"`
	HourlyRate  int64           `yaml:"hourly_rate"`
	Amenities   []string        `yaml:"amenities"`
	Description string          `yaml:"description"`
	Available   *bool           `yaml:"available,omitempty"` // по умолчанию true
	Schedule    *ScheduleConfig `yaml:"schedule,omitempty"`
}

// DefaultsConfig общие настройки
type DefaultsConfig struct {
	Schedule *ScheduleConfig `yaml:"schedule"`
}

// Catalog корень файла catalog.yaml
type Catalog struct {
	Items    []ResourceConfig `yaml:"resources"`
	Defaults DefaultsConfig   `yaml:"defaults"`
}

// Load читает и разбирает файл каталога
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLoad, path, err)
	}
	return Parse(data)
}

// Parse разбирает YAML каталога
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrLoad, err)
	}
	return &c, nil
}

// Resources собирает domain модели и проверяет каждую
func (c *Catalog) Resources() ([]*domain.Resource, error) {
	if len(c.Items) == 0 {
		return nil, fmt.Errorf("%w: no resources defined", ErrInvalid)
	}

	base := domain.DefaultSchedule()
	if c.Defaults.Schedule != nil {
		merged, err := c.Defaults.Schedule.apply(base)
		if err != nil {
			return nil, fmt.Errorf("%w: defaults.schedule: %v", ErrInvalid, err)
		}
		base = merged
	}

	seen := make(map[string]bool, len(c.Items))
	result := make([]*domain.Resource, 0, len(c.Items))
	for i, rc := range c.Items {
		if seen[rc.ID] {
			return nil, fmt.Errorf("%w: resources[%d]: duplicate id %q", ErrInvalid, i, rc.ID)
		}
		seen[rc.ID] = true

		r, err := rc.toDomain(base)
		if err != nil {
			return nil, fmt.Errorf("%w: resources[%d]: %v", ErrInvalid, i, err)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: resources[%d]: %v", ErrInvalid, i, err)
		}
		result = append(result, r)
	}

	return result, nil
}

func (rc ResourceConfig) toDomain(base domain.Schedule) (*domain.Resource, error) {
	schedule := base
	if rc.Schedule != nil {
		merged, err := rc.Schedule.apply(base)
		if err != nil {
			return nil, err
		}
		schedule = merged
	}

	return &domain.Resource{
		ID:          rc.ID,
		Name:        rc.Name,
		Sport:       domain.Sport(rc.Sport),
		Capacity:    rc.Capacity,
		HourlyRate:  rc.HourlyRate,
		Amenities:   rc.Amenities,
		Description: rc.Description,
		Available:   ptr.Deref(rc.Available, true),
		Schedule:    schedule,
	}, nil
}

func (s *ScheduleConfig) apply(base domain.Schedule) (domain.Schedule, error) {
	next := base

	if s.OpenTime != "" {
		t, err := types.NewTimeStringFromString(s.OpenTime)
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("open_time: %w", err)
		}
		next.OpenTime = t
	}
	if s.CloseTime != "" {
		t, err := types.NewTimeStringFromString(s.CloseTime)
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("close_time: %w", err)
		}
		next.CloseTime = t
	}
	if s.SlotDurationMinutes != 0 {
		next.SlotDurationMinutes = s.SlotDurationMinutes
	}
	if len(s.AvailableDays) > 0 {
		days := make([]time.Weekday, 0, len(s.AvailableDays))
		for _, d := range s.AvailableDays {
			days = append(days, time.Weekday(d))
		}
		next.AvailableDays = domain.NormalizeDays(days)
	}

	blocked := domain.BlockedSlots{}
	for _, b := range base.Blocked.List() {
		blocked.Add(b.Weekday, b.Time)
	}
	for _, b := range s.BlockedSlots {
		slot, err := next.ParseBlockedSlot(b.Day, b.Time)
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("blocked_slots: %w", err)
		}
		blocked.Add(slot.Weekday, slot.Time)
	}
	next.Blocked = blocked

	return next, nil
}
