package schema

import (
	"fmt"

	"github.com/rebeliceyang/ctower/internal/models"
)

// Rate tabs of the console
const (
	TabFCL         = "fcl" // full-container mainline rates
	TabPrecarriage = "precarriage"
	TabOncarriage  = "oncarriage"
)

// TabForLeg returns the tab that holds the rates of leg l
func TabForLeg(l models.Leg) string {
	switch l {
	case models.LegPrecarriage:
		return TabPrecarriage
	case models.LegMainline:
		return TabFCL
	case models.LegOncarriage:
		return TabOncarriage
	default:
		return ""
	}
}

var statusOptions = []models.Option{
	{Label: "Active", Value: string(models.StatusActive)},
	{Label: "Pending", Value: string(models.StatusPending)},
	{Label: "Expired", Value: string(models.StatusExpired)},
	{Label: "Withdrawn", Value: string(models.StatusWithdrawn)},
}

func priceFields() []models.FieldSchema {
	fields := make([]models.FieldSchema, 0, len(models.ContainerTypes))
	for _, c := range models.ContainerTypes {
		fields = append(fields, models.FieldSchema{Key: string(c), Label: string(c), Kind: models.KindNumeric})
	}
	return fields
}

func fclFields() []models.FieldSchema {
	fields := []models.FieldSchema{
		{Key: "departurePort", Label: "Port of Loading", Kind: models.KindText},
		{Key: "dischargePort", Label: "Port of Discharge", Kind: models.KindText},
		{Key: "carrier", Label: "Carrier", Kind: models.KindEnumeration, Options: []models.Option{
			{Label: "MAERSK", Value: "MAERSK"},
			{Label: "MSC", Value: "MSC"},
			{Label: "CMA CGM", Value: "CMA CGM"},
			{Label: "COSCO", Value: "COSCO"},
			{Label: "EVERGREEN", Value: "EVERGREEN"},
			{Label: "ONE", Value: "ONE"},
			{Label: "HAPAG-LLOYD", Value: "HAPAG-LLOYD"},
		}},
		{Key: "transitType", Label: "Transit Type", Kind: models.KindEnumeration, Options: []models.Option{
			{Label: "Direct", Value: string(models.TransitDirect)},
			{Label: "Transshipment", Value: string(models.TransitTransshipment)},
		}},
		{Key: "transitPort", Label: "Transit Port", Kind: models.KindText},
		{Key: "transitDays", Label: "Transit Days", Kind: models.KindNumeric},
		{Key: "etd", Label: "ETD", Kind: models.KindDateRange},
		{Key: "eta", Label: "ETA", Kind: models.KindDateRange},
	}
	fields = append(fields, priceFields()...)
	return append(fields,
		models.FieldSchema{Key: "validFrom", Label: "Valid From", Kind: models.KindDateRange},
		models.FieldSchema{Key: "validTo", Label: "Valid To", Kind: models.KindDateRange},
	)
}

func precarriageFields() []models.FieldSchema {
	fields := []models.FieldSchema{
		{Key: "type", Label: "Type", Kind: models.KindEnumeration, Options: []models.Option{
			{Label: "Direct", Value: string(models.PrecarriageDirect)},
			{Label: "Feeder", Value: string(models.PrecarriageFeeder)},
		}},
		{Key: "origin", Label: "Origin", Kind: models.KindText},
		{Key: "destinationPort", Label: "Destination Port", Kind: models.KindText},
		{Key: "terminal", Label: "Terminal", Kind: models.KindText},
		{Key: "vendor", Label: "Vendor", Kind: models.KindText},
	}
	fields = append(fields, priceFields()...)
	return append(fields,
		models.FieldSchema{Key: "validFrom", Label: "Valid From", Kind: models.KindDateRange},
		models.FieldSchema{Key: "validTo", Label: "Valid To", Kind: models.KindDateRange},
		models.FieldSchema{Key: "status", Label: "Status", Kind: models.KindEnumeration, Options: statusOptions},
	)
}

func oncarriageFields() []models.FieldSchema {
	return []models.FieldSchema{
		{Key: "destinationPort", Label: "Destination Port", Kind: models.KindText},
		{Key: "addressType", Label: "Address Type", Kind: models.KindEnumeration, Options: []models.Option{
			{Label: "Third-party Address", Value: string(models.AddressThirdParty)},
			{Label: "Amazon Warehouse", Value: string(models.AddressAmazonWarehouse)},
			{Label: "Other Warehouse", Value: string(models.AddressOtherWarehouse)},
		}},
		{Key: "zipCode", Label: "Zip Code", Kind: models.KindText},
		{Key: "address", Label: "Address", Kind: models.KindText},
		{Key: "warehouseCode", Label: "Warehouse Code", Kind: models.KindText},
		{Key: "agentName", Label: "Agent", Kind: models.KindText},
		{Key: "validFrom", Label: "Valid From", Kind: models.KindDateRange},
		{Key: "validTo", Label: "Valid To", Kind: models.KindDateRange},
		{Key: "status", Label: "Status", Kind: models.KindEnumeration, Options: statusOptions},
	}
}

// DefaultRegistry declares the three rate tabs
func DefaultRegistry() *Registry {
	r := NewRegistry()
	mustRegister(r, TabFCL, fclFields())
	mustRegister(r, TabPrecarriage, precarriageFields())
	mustRegister(r, TabOncarriage, oncarriageFields())
	return r
}

// mustRegister panics on a broken built-in tab declaration
func mustRegister(r *Registry, tabKey string, fields []models.FieldSchema) {
	if err := r.Register(tabKey, fields...); err != nil {
		panic(fmt.Sprintf("schema: invalid built-in tab: %v", err))
	}
}
