package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/vsinha/repair-configurator/pkg/domain/entities"
)

// ErrQuoteNotBookable is returned for quotes without a price
var ErrQuoteNotBookable = errors.New("quote has no price, booking unavailable")

// Appointment portal query parameters
const (
	ParamBrand            = "question_marque_appareil"
	ParamRepairType       = "question_type_reparation"
	ParamDeviceModel      = "question_modele_appareil"
	ParamQuality          = "question_qualite_piece"
	ParamEstimatedPrice   = "estimated_price"
	ParamEstimatedTime    = "estimated_duration"
	ParamSource           = "source"
	ParamConfiguratorData = "configurator_data"
)

// BookingConfig describes the external appointment portal
type BookingConfig struct {
	AppointmentURL string
	Source         string
	Currency       string
	// BrandMappings maps dataset brands to portal answers; unmapped brands are upper-cased
	BrandMappings map[string]string
	// RepairMappings maps repair types to portal answers; unmapped ones use DefaultRepairLabel
	RepairMappings     map[string]string
	DefaultRepairLabel string
}

// BookingHandoff builds the URL that hands a priced quote to the appointment portal
type BookingHandoff struct {
	config BookingConfig
}

// NewBookingHandoff creates a handoff builder
func NewBookingHandoff(config BookingConfig) *BookingHandoff {
	if config.Source == "" {
		config.Source = "configurateur"
	}
	if config.Currency == "" {
		config.Currency = "€"
	}
	if config.DefaultRepairLabel == "" {
		config.DefaultRepairLabel = "Réparation Smartphone"
	}
	return &BookingHandoff{config: config}
}

type configuratorData struct {
	Repair   string `json:"repair"`
	Brand    string `json:"brand"`
	Series   string `json:"series"`
	Model    string `json:"model"`
	Quality  string `json:"quality"`
	Price    string `json:"price"`
	Duration string `json:"duration"`
}

// BuildURL returns the appointment URL for a priced quote
func (b *BookingHandoff) BuildURL(q entities.Quote) (string, error) {
	if !q.Outcome.IsPriced() {
		return "", ErrQuoteNotBookable
	}
	if b.config.AppointmentURL == "" {
		return "", fmt.Errorf("appointment URL not configured")
	}

	base, err := url.Parse(b.config.AppointmentURL)
	if err != nil {
		return "", fmt.Errorf("invalid appointment URL: %w", err)
	}

	s := q.Selections
	price := b.FormatPrice(q.Outcome)

	data, err := json.Marshal(configuratorData{
		Repair:   s.Get(entities.Repair),
		Brand:    s.Get(entities.Brand),
		Series:   s.Get(entities.Series),
		Model:    s.Get(entities.Model),
		Quality:  s.Get(entities.Quality),
		Price:    price,
		Duration: q.TimeEstimate,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode configurator data: %w", err)
	}

	params := base.Query()
	set := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}
	set(ParamBrand, b.MapBrand(s.Get(entities.Brand)))
	set(ParamRepairType, b.MapRepair(s.Get(entities.Repair)))
	set(ParamDeviceModel, strings.TrimSpace(s.Get(entities.Series)+" "+s.Get(entities.Model)))
	set(ParamQuality, s.Get(entities.Quality))
	set(ParamEstimatedPrice, price)
	set(ParamEstimatedTime, q.TimeEstimate)
	set(ParamSource, b.config.Source)
	set(ParamConfiguratorData, string(data))

	base.RawQuery = params.Encode()
	return base.String(), nil
}

// FormatPrice renders a priced outcome as "89 €", or its label
func (b *BookingHandoff) FormatPrice(o entities.PriceOutcome) string {
	return o.Display(b.config.Currency)
}

// MapBrand returns the portal's answer for a brand
func (b *BookingHandoff) MapBrand(brand string) string {
	if mapped, ok := b.config.BrandMappings[brand]; ok {
		return mapped
	}
	return strings.ToUpper(brand)
}

// MapRepair returns the portal's answer for a repair type
func (b *BookingHandoff) MapRepair(repair string) string {
	if mapped, ok := b.config.RepairMappings[repair]; ok {
		return mapped
	}
	return b.config.DefaultRepairLabel
}
