package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rebeliceyang/ctower/internal/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// rateBook is the on-disk YAML layout of a rate file
type rateBook struct {
	Precarriage []precarriageDTO `yaml:"precarriage"`
	Mainline    []mainlineDTO    `yaml:"mainline"`
	Oncarriage  []oncarriageDTO  `yaml:"oncarriage"`
}

type precarriageDTO struct {
	ID              string                     `yaml:"id"`
	Type            string                     `yaml:"type"`
	Origin          string                     `yaml:"origin"`
	DestinationPort string                     `yaml:"destination_port"`
	Terminal        string                     `yaml:"terminal"`
	Vendor          string                     `yaml:"vendor"`
	Prices          map[string]decimal.Decimal `yaml:"prices"`
	ValidFrom       string                     `yaml:"valid_from"`
	ValidTo         string                     `yaml:"valid_to"`
	Status          string                     `yaml:"status"`
}

type mainlineDTO struct {
	ID            string                     `yaml:"id"`
	DeparturePort string                     `yaml:"departure_port"`
	DischargePort string                     `yaml:"discharge_port"`
	Carrier       string                     `yaml:"carrier"`
	TransitType   string                     `yaml:"transit_type"`
	TransitPort   string                     `yaml:"transit_port"`
	Prices        map[string]decimal.Decimal `yaml:"prices"`
	ETD           string                     `yaml:"etd"`
	ETA           string                     `yaml:"eta"`
	TransitDays   int                        `yaml:"transit_days"`
	ValidFrom     string                     `yaml:"valid_from"`
	ValidTo       string                     `yaml:"valid_to"`
}

type oncarriageDTO struct {
	ID              string                     `yaml:"id"`
	DestinationPort string                     `yaml:"destination_port"`
	AddressType     string                     `yaml:"address_type"`
	ZipCode         string                     `yaml:"zip_code"`
	Address         string                     `yaml:"address"`
	WarehouseCode   string                     `yaml:"warehouse_code"`
	AgentName       string                     `yaml:"agent_name"`
	Prices          map[string]decimal.Decimal `yaml:"prices"`
	ValidFrom       string                     `yaml:"valid_from"`
	ValidTo         string                     `yaml:"valid_to"`
	Status          string                     `yaml:"status"`
}

// File serves rates read once from a YAML rate book
type File struct {
	path        string
	precarriage []models.PrecarriageRate
	mainline    []models.MainlineRate
	oncarriage  []models.OncarriageRate
}

// NewFile reads and validates the rate book at path
func NewFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate file: %w", err)
	}
	return ParseRateBook(path, data)
}

// ParseRateBook decodes a YAML rate book. name is only used in error messages.
func ParseRateBook(name string, data []byte) (*File, error) {
	var book rateBook
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("failed to parse rate file %s: %w", name, err)
	}

	f := &File{path: name}
	for i, d := range book.Precarriage {
		r, err := d.toModel()
		if err != nil {
			return nil, fmt.Errorf("%s: precarriage[%d]: %w", name, i, err)
		}
		f.precarriage = append(f.precarriage, r)
	}
	for i, d := range book.Mainline {
		r, err := d.toModel()
		if err != nil {
			return nil, fmt.Errorf("%s: mainline[%d]: %w", name, i, err)
		}
		f.mainline = append(f.mainline, r)
	}
	for i, d := range book.Oncarriage {
		r, err := d.toModel()
		if err != nil {
			return nil, fmt.Errorf("%s: oncarriage[%d]: %w", name, i, err)
		}
		f.oncarriage = append(f.oncarriage, r)
	}

	return f, nil
}

func (f *File) Precarriage(context.Context) ([]models.PrecarriageRate, error) {
	return f.precarriage, nil
}

func (f *File) Mainline(context.Context) ([]models.MainlineRate, error) {
	return f.mainline, nil
}

func (f *File) Oncarriage(context.Context) ([]models.OncarriageRate, error) {
	return f.oncarriage, nil
}

func (d precarriageDTO) toModel() (models.PrecarriageRate, error) {
	if d.ID == "" {
		return models.PrecarriageRate{}, fmt.Errorf("rate id cannot be empty")
	}
	from, to, err := parseValidity(d.ValidFrom, d.ValidTo)
	if err != nil {
		return models.PrecarriageRate{}, fmt.Errorf("rate '%s': %w", d.ID, err)
	}
	prices, err := toPrices(d.Prices)
	if err != nil {
		return models.PrecarriageRate{}, fmt.Errorf("rate '%s': %w", d.ID, err)
	}
	return models.PrecarriageRate{
		ID:              d.ID,
		Type:            models.PrecarriageType(d.Type),
		Origin:          d.Origin,
		DestinationPort: d.DestinationPort,
		Terminal:        d.Terminal,
		Vendor:          d.Vendor,
		ContainerPrices: prices,
		ValidFrom:       from,
		ValidTo:         to,
		Status:          statusOrActive(d.Status),
	}, nil
}

func (d mainlineDTO) toModel() (models.MainlineRate, error) {
	if d.ID == "" {
		return models.MainlineRate{}, fmt.Errorf("rate id cannot be empty")
	}
	from, to, err := parseValidity(d.ValidFrom, d.ValidTo)
	if err != nil {
		return models.MainlineRate{}, fmt.Errorf("rate '%s': %w", d.ID, err)
	}
	etd, err := parseDate(d.ETD)
	if err != nil {
		return models.MainlineRate{}, fmt.Errorf("rate '%s': etd: %w", d.ID, err)
	}
	eta, err := parseDate(d.ETA)
	if err != nil {
		return models.MainlineRate{}, fmt.Errorf("rate '%s': eta: %w", d.ID, err)
	}
	prices, err := toPrices(d.Prices)
	if err != nil {
		return models.MainlineRate{}, fmt.Errorf("rate '%s': %w", d.ID, err)
	}
	transitType := models.TransitType(d.TransitType)
	if transitType == "" {
		transitType = models.TransitDirect
	}
	return models.MainlineRate{
		ID:              d.ID,
		DeparturePort:   d.DeparturePort,
		DischargePort:   d.DischargePort,
		Carrier:         d.Carrier,
		TransitType:     transitType,
		TransitPort:     d.TransitPort,
		ContainerPrices: prices,
		ETD:             etd,
		ETA:             eta,
		TransitDays:     d.TransitDays,
		ValidFrom:       from,
		ValidTo:         to,
	}, nil
}

func (d oncarriageDTO) toModel() (models.OncarriageRate, error) {
	if d.ID == "" {
		return models.OncarriageRate{}, fmt.Errorf("rate id cannot be empty")
	}
	from, to, err := parseValidity(d.ValidFrom, d.ValidTo)
	if err != nil {
		return models.OncarriageRate{}, fmt.Errorf("rate '%s': %w", d.ID, err)
	}
	prices, err := toPrices(d.Prices)
	if err != nil {
		return models.OncarriageRate{}, fmt.Errorf("rate '%s': %w", d.ID, err)
	}
	return models.OncarriageRate{
		ID:              d.ID,
		DestinationPort: d.DestinationPort,
		AddressType:     models.AddressType(d.AddressType),
		ZipCode:         d.ZipCode,
		Address:         d.Address,
		WarehouseCode:   d.WarehouseCode,
		AgentName:       d.AgentName,
		ContainerPrices: prices,
		ValidFrom:       from,
		ValidTo:         to,
		Status:          statusOrActive(d.Status),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(models.DateLayout, s)
}

func parseValidity(from, to string) (time.Time, time.Time, error) {
	f, err := parseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("valid_from: %w", err)
	}
	t, err := parseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("valid_to: %w", err)
	}
	if !f.IsZero() && !t.IsZero() && t.Before(f) {
		return time.Time{}, time.Time{}, fmt.Errorf("valid_to %s is before valid_from %s", to, from)
	}
	return f, t, nil
}

func toPrices(in map[string]decimal.Decimal) (models.ContainerPrices, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(models.ContainerPrices, len(in))
	for k, v := range in {
		if !models.IsContainerType(k) {
			return nil, fmt.Errorf("unknown container type '%s'", k)
		}
		if v.IsNegative() {
			return nil, fmt.Errorf("negative price for %s", k)
		}
		out[models.ContainerType(k)] = v
	}
	return out, nil
}

func statusOrActive(s string) models.RateStatus {
	if strings.TrimSpace(s) == "" {
		return models.StatusActive
	}
	return models.RateStatus(s)
}
