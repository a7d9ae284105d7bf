package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for rate dates and date filters
const DateLayout = "2006-01-02"

// Leg identifies one stage of a multi-stage shipment
type Leg int

const (
	LegPrecarriage Leg = iota // origin door -> origin port
	LegMainline               // port -> port
	LegOncarriage             // destination port -> destination door
)

// Legs lists the legs in shipment order
var Legs = []Leg{LegPrecarriage, LegMainline, LegOncarriage}

func (l Leg) String() string {
	switch l {
	case LegPrecarriage:
		return "precarriage"
	case LegMainline:
		return "mainline"
	case LegOncarriage:
		return "oncarriage"
	default:
		return "unknown"
	}
}

// ContainerType is an ISO-ish container size/type code
type ContainerType string

const (
	Container20GP ContainerType = "20GP"
	Container40GP ContainerType = "40GP"
	Container40HQ ContainerType = "40HQ"
	Container45HQ ContainerType = "45HQ"
)

// ContainerTypes lists the supported container types
var ContainerTypes = []ContainerType{Container20GP, Container40GP, Container40HQ, Container45HQ}

// IsContainerType reports whether s names a supported container type
func IsContainerType(s string) bool {
	for _, c := range ContainerTypes {
		if string(c) == s {
			return true
		}
	}
	return false
}

// ContainerPrices maps a container type to its price
type ContainerPrices map[ContainerType]decimal.Decimal

// Price returns the price for c and whether one is defined
func (p ContainerPrices) Price(c ContainerType) (decimal.Decimal, bool) {
	if p == nil {
		return decimal.Zero, false
	}
	v, ok := p[c]
	return v, ok
}

// RateStatus is the publication status of a door-side rate
type RateStatus string

const (
	StatusActive    RateStatus = "active"
	StatusPending   RateStatus = "pending"
	StatusExpired   RateStatus = "expired"
	StatusWithdrawn RateStatus = "withdrawn"
)

// Usable reports whether a rate with this status may be combined
func (s RateStatus) Usable() bool {
	return s != StatusExpired && s != StatusWithdrawn
}

// DateOf strips the clock from t, keeping its calendar date
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WithinValidity reports whether ref falls in the closed [from, to] date interval.
// A zero bound leaves that side open.
func WithinValidity(ref, from, to time.Time) bool {
	day := DateOf(ref)
	if !from.IsZero() && day.Before(DateOf(from)) {
		return false
	}
	if !to.IsZero() && day.After(DateOf(to)) {
		return false
	}
	return true
}

// PrecarriageType tells how cargo reaches the origin port
type PrecarriageType string

const (
	PrecarriageDirect PrecarriageType = "direct"
	PrecarriageFeeder PrecarriageType = "feeder"
)

// PrecarriageRate is a door-to-port rate
type PrecarriageRate struct {
	ID              string
	Type            PrecarriageType
	Origin          string
	DestinationPort string
	Terminal        string
	Vendor          string
	ContainerPrices ContainerPrices
	ValidFrom       time.Time
	ValidTo         time.Time
	Status          RateStatus
}

// EligibleAt reports whether the rate can be combined on ref
func (r PrecarriageRate) EligibleAt(ref time.Time) bool {
	return r.Status.Usable() && WithinValidity(ref, r.ValidFrom, r.ValidTo)
}

// Field returns the value of a filterable field, nil when absent
func (r PrecarriageRate) Field(key string) any {
	switch key {
	case "id":
		return r.ID
	case "type":
		return string(r.Type)
	case "origin":
		return r.Origin
	case "destinationPort":
		return r.DestinationPort
	case "terminal":
		return r.Terminal
	case "vendor":
		return r.Vendor
	case "validFrom":
		return r.ValidFrom
	case "validTo":
		return r.ValidTo
	case "status":
		return string(r.Status)
	}
	return priceField(r.ContainerPrices, key)
}

// TransitType tells whether a mainline sailing is direct
type TransitType string

const (
	TransitDirect        TransitType = "direct"
	TransitTransshipment TransitType = "transshipment"
)

// MainlineRate is a port-to-port rate with its sailing schedule
type MainlineRate struct {
	ID              string
	DeparturePort   string
	DischargePort   string
	Carrier         string
	TransitType     TransitType
	TransitPort     string
	ContainerPrices ContainerPrices
	ETD             time.Time
	ETA             time.Time
	TransitDays     int
	ValidFrom       time.Time
	ValidTo         time.Time
}

// EligibleAt reports whether the rate can be combined on ref
func (r MainlineRate) EligibleAt(ref time.Time) bool {
	return WithinValidity(ref, r.ValidFrom, r.ValidTo)
}

// Field returns the value of a filterable field, nil when absent
func (r MainlineRate) Field(key string) any {
	switch key {
	case "id":
		return r.ID
	case "departurePort":
		return r.DeparturePort
	case "dischargePort":
		return r.DischargePort
	case "carrier":
		return r.Carrier
	case "transitType":
		return string(r.TransitType)
	case "transitPort":
		return r.TransitPort
	case "etd":
		return r.ETD
	case "eta":
		return r.ETA
	case "transitDays":
		return r.TransitDays
	case "validFrom":
		return r.ValidFrom
	case "validTo":
		return r.ValidTo
	}
	return priceField(r.ContainerPrices, key)
}

// AddressType classifies the delivery address of an oncarriage rate
type AddressType string

const (
	AddressThirdParty      AddressType = "thirdParty"
	AddressAmazonWarehouse AddressType = "amazonWarehouse"
	AddressOtherWarehouse  AddressType = "otherWarehouse"
)

// OncarriageRate is a port-to-door rate. Prices are optional; many agents
// quote delivery separately.
type OncarriageRate struct {
	ID              string
	DestinationPort string
	AddressType     AddressType
	ZipCode         string
	Address         string
	WarehouseCode   string
	AgentName       string
	ContainerPrices ContainerPrices
	ValidFrom       time.Time
	ValidTo         time.Time
	Status          RateStatus
}

// EligibleAt reports whether the rate can be combined on ref
func (r OncarriageRate) EligibleAt(ref time.Time) bool {
	return r.Status.Usable() && WithinValidity(ref, r.ValidFrom, r.ValidTo)
}

// Field returns the value of a filterable field, nil when absent
func (r OncarriageRate) Field(key string) any {
	switch key {
	case "id":
		return r.ID
	case "destinationPort":
		return r.DestinationPort
	case "addressType":
		return string(r.AddressType)
	case "zipCode":
		return r.ZipCode
	case "address":
		return r.Address
	case "warehouseCode":
		return r.WarehouseCode
	case "agentName":
		return r.AgentName
	case "validFrom":
		return r.ValidFrom
	case "validTo":
		return r.ValidTo
	case "status":
		return string(r.Status)
	}
	return priceField(r.ContainerPrices, key)
}

func priceField(prices ContainerPrices, key string) any {
	if !IsContainerType(key) {
		return nil
	}
	if p, ok := prices.Price(ContainerType(key)); ok {
		return p
	}
	return nil
}
