package config

import (
	"fmt"
	"strings"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"
	"github.com/anthonykurieh/voice-facilitator/internal/pkg/validator"

	"github.com/spf13/viper"
)

// BusinessConfig is the external configuration source for the scheduling
// engine: business identity, service catalog, staff roster and weekly
// hours. It is mirrored into the store at startup; the engine itself only
// reads the mirrored rows.
type BusinessConfig struct {
	Business struct {
		Name     string `mapstructure:"name"`
		Type     string `mapstructure:"type"`
		Phone    string `mapstructure:"phone"`
		Timezone string `mapstructure:"timezone"`
	} `mapstructure:"business"`

	Services []ServiceConfig `mapstructure:"services"`
	Staff    []StaffConfig   `mapstructure:"staff"`

	// Hours maps lowercase day names ("monday".."sunday") to open/close
	// windows. A missing day or a day without both times is closed.
	Hours map[string]DayHours `mapstructure:"hours"`
}

type ServiceConfig struct {
	Name            string  `mapstructure:"name"`
	DurationMinutes int     `mapstructure:"duration_minutes"`
	Price           float64 `mapstructure:"price"`
}

type StaffConfig struct {
	Name      string `mapstructure:"name"`
	Email     string `mapstructure:"email"`
	Available *bool  `mapstructure:"available"`
}

type DayHours struct {
	Open  string `mapstructure:"open"`
	Close string `mapstructure:"close"`
}

var dayIndex = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

// Load reads the business YAML from the given path.
func Load(path string) (*BusinessConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read business config: %w", err)
	}

	var cfg BusinessConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse business config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *BusinessConfig) validate() error {
	if c.Business.Name == "" {
		return fmt.Errorf("missing required config section: business")
	}
	if len(c.Services) == 0 {
		return fmt.Errorf("missing required config section: services")
	}
	if len(c.Staff) == 0 {
		return fmt.Errorf("missing required config section: staff")
	}
	if len(c.Hours) == 0 {
		return fmt.Errorf("missing required config section: hours")
	}
	for day := range c.Hours {
		if _, ok := dayIndex[strings.ToLower(day)]; !ok {
			return fmt.Errorf("unknown day in hours config: %s", day)
		}
	}
	for _, s := range c.ServiceRows(0) {
		if errs := validator.Validate(s); errs != nil {
			return fmt.Errorf("service %q rejected: %v", s.Name, errs)
		}
	}
	for _, s := range c.StaffRows(0) {
		if errs := validator.Validate(s); errs != nil {
			return fmt.Errorf("staff %q rejected: %v", s.Name, errs)
		}
	}
	return nil
}

// HoursRows converts the configured weekly hours into the store's
// per-day-of-week rows, one for each of the seven days.
func (c *BusinessConfig) HoursRows(businessID int64) []domain.BusinessHours {
	rows := make([]domain.BusinessHours, 0, 7)
	for day, idx := range dayIndex {
		h, ok := c.Hours[day]
		closed := !ok || h.Open == "" || h.Close == ""
		row := domain.BusinessHours{
			BusinessID: businessID,
			DayOfWeek:  idx,
			IsClosed:   closed,
		}
		if !closed {
			row.OpenTime = h.Open
			row.CloseTime = h.Close
		}
		rows = append(rows, row)
	}
	return rows
}

// ServiceRows converts the configured catalog into store rows.
func (c *BusinessConfig) ServiceRows(businessID int64) []domain.Service {
	rows := make([]domain.Service, 0, len(c.Services))
	for _, s := range c.Services {
		rows = append(rows, domain.Service{
			BusinessID:      businessID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
			Active:          true,
		})
	}
	return rows
}

// StaffRows converts the configured roster into store rows.
func (c *BusinessConfig) StaffRows(businessID int64) []domain.Staff {
	rows := make([]domain.Staff, 0, len(c.Staff))
	for _, s := range c.Staff {
		available := true
		if s.Available != nil {
			available = *s.Available
		}
		rows = append(rows, domain.Staff{
			BusinessID: businessID,
			Name:       s.Name,
			Email:      s.Email,
			Available:  available,
		})
	}
	return rows
}
