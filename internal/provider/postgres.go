package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rebeliceyang/ctower/internal/models"
	"github.com/shopspring/decimal"
)

const (
	precarriageQuery = `
		SELECT id, type, origin, destination_port, terminal, vendor,
		       container_prices, valid_from, valid_to, status
		FROM precarriage_rates
		ORDER BY id`
	mainlineQuery = `
		SELECT id, departure_port, discharge_port, carrier, transit_type,
		       COALESCE(transit_port, ''), container_prices, etd, eta, transit_days,
		       valid_from, valid_to
		FROM mainline_rates
		ORDER BY id`
	oncarriageQuery = `
		SELECT id, destination_port, address_type, COALESCE(zip_code, ''),
		       COALESCE(address, ''), COALESCE(warehouse_code, ''), agent_name,
		       container_prices, valid_from, valid_to, status
		FROM oncarriage_rates
		ORDER BY id`
)

// Postgres reads the rate book from PostgreSQL. Container prices are stored as
// a JSONB object keyed by container type.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres opens a connection pool for dsn and checks it with a ping
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *Postgres) Precarriage(ctx context.Context) ([]models.PrecarriageRate, error) {
	rows, err := p.pool.Query(ctx, precarriageQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query precarriage rates: %w", err)
	}
	defer rows.Close()

	var rates []models.PrecarriageRate
	for rows.Next() {
		var r models.PrecarriageRate
		var kind, status string
		var prices []byte
		if err := rows.Scan(&r.ID, &kind, &r.Origin, &r.DestinationPort, &r.Terminal, &r.Vendor,
			&prices, &r.ValidFrom, &r.ValidTo, &status); err != nil {
			return nil, fmt.Errorf("failed to scan precarriage rate: %w", err)
		}
		r.Type = models.PrecarriageType(kind)
		r.Status = models.RateStatus(status)
		if r.ContainerPrices, err = decodePrices(prices); err != nil {
			return nil, fmt.Errorf("precarriage rate '%s': %w", r.ID, err)
		}
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

func (p *Postgres) Mainline(ctx context.Context) ([]models.MainlineRate, error) {
	rows, err := p.pool.Query(ctx, mainlineQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query mainline rates: %w", err)
	}
	defer rows.Close()

	var rates []models.MainlineRate
	for rows.Next() {
		var r models.MainlineRate
		var transitType string
		var prices []byte
		if err := rows.Scan(&r.ID, &r.DeparturePort, &r.DischargePort, &r.Carrier, &transitType,
			&r.TransitPort, &prices, &r.ETD, &r.ETA, &r.TransitDays, &r.ValidFrom, &r.ValidTo); err != nil {
			return nil, fmt.Errorf("failed to scan mainline rate: %w", err)
		}
		r.TransitType = models.TransitType(transitType)
		if r.ContainerPrices, err = decodePrices(prices); err != nil {
			return nil, fmt.Errorf("mainline rate '%s': %w", r.ID, err)
		}
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

func (p *Postgres) Oncarriage(ctx context.Context) ([]models.OncarriageRate, error) {
	rows, err := p.pool.Query(ctx, oncarriageQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query oncarriage rates: %w", err)
	}
	defer rows.Close()

	var rates []models.OncarriageRate
	for rows.Next() {
		var r models.OncarriageRate
		var addressType, status string
		var prices []byte
		if err := rows.Scan(&r.ID, &r.DestinationPort, &addressType, &r.ZipCode, &r.Address,
			&r.WarehouseCode, &r.AgentName, &prices, &r.ValidFrom, &r.ValidTo, &status); err != nil {
			return nil, fmt.Errorf("failed to scan oncarriage rate: %w", err)
		}
		r.AddressType = models.AddressType(addressType)
		r.Status = models.RateStatus(status)
		if r.ContainerPrices, err = decodePrices(prices); err != nil {
			return nil, fmt.Errorf("oncarriage rate '%s': %w", r.ID, err)
		}
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

// decodePrices parses a JSONB price object; NULL yields no prices
func decodePrices(raw []byte) (models.ContainerPrices, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var in map[string]decimal.Decimal
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("failed to decode container prices: %w", err)
	}
	return toPrices(in)
}
