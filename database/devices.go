package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"xrgi-portal/backend/models"
)

const deviceColumns = `xrgi_id, name, model, status, site_city, site_country, registration_id, installed_at,
    operating_hours::float8, starts, electricity_kwh::float8, heat_kwh::float8, configuration::text, updated_at`

func scanDevice(row pgx.Row) (models.Device, error) {
	var d models.Device
	var cfgText string
	err := row.Scan(&d.XRGIID, &d.Name, &d.Model, &d.Status, &d.SiteCity, &d.SiteCountry, &d.RegistrationID, &d.InstalledAt,
		&d.OperatingHours, &d.Starts, &d.ElectricityKWh, &d.HeatKWh, &cfgText, &d.UpdatedAt)
	if err != nil {
		return models.Device{}, err
	}
	d.Configuration = map[string]any{}
	if cfgText != "" {
		if err := json.Unmarshal([]byte(cfgText), &d.Configuration); err != nil {
			return models.Device{}, fmt.Errorf("decode configuration: %w", err)
		}
	}
	return d, nil
}

// UpsertDevices inserts or refreshes devices in one transaction. Empty
// descriptive fields keep the stored value, and a new device without a status
// starts as pending. Counters and configuration are left alone.
func (s *Store) UpsertDevices(ctx context.Context, devices []models.Device) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range devices {
		_, err := tx.Exec(ctx, `
        INSERT INTO devices(xrgi_id, name, model, status, site_city, site_country, installed_at, updated_at)
        VALUES($1,$2::text,$3::text,COALESCE(NULLIF($4::text,''),$8::text),$5::text,$6::text,$7,now())
        ON CONFLICT (xrgi_id) DO UPDATE SET
            name=COALESCE(NULLIF(EXCLUDED.name,''), devices.name),
            model=COALESCE(NULLIF(EXCLUDED.model,''), devices.model),
            status=COALESCE(NULLIF($4::text,''), devices.status),
            site_city=COALESCE(NULLIF(EXCLUDED.site_city,''), devices.site_city),
            site_country=COALESCE(NULLIF(EXCLUDED.site_country,''), devices.site_country),
            installed_at=COALESCE(EXCLUDED.installed_at, devices.installed_at), updated_at=now()`,
			d.XRGIID, d.Name, d.Model, d.Status, d.SiteCity, d.SiteCountry, d.InstalledAt, models.StatusPending)
		if err != nil {
			return fmt.Errorf("upsert device %s: %w", d.XRGIID, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) ListDevices(ctx context.Context, status string, limit, offset int) ([]models.Device, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+deviceColumns+`
        FROM devices WHERE ($1 = '' OR status = $1)
        ORDER BY name ASC, xrgi_id ASC
        LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()
	out := []models.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeviceSummary counts devices per status. Every known status is present.
func (s *Store) DeviceSummary(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, st := range models.DeviceStatuses {
		out[st] = 0
	}
	rows, err := s.pool.Query(ctx, `SELECT status, COUNT(*)::int FROM devices GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("device summary: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out[st] = n
	}
	return out, rows.Err()
}

func (s *Store) Device(ctx context.Context, xrgiID string) (models.Device, error) {
	d, err := scanDevice(s.pool.QueryRow(ctx, `SELECT `+deviceColumns+` FROM devices WHERE xrgi_id=$1`, xrgiID))
	if err != nil {
		return models.Device{}, notFound(err)
	}
	return d, nil
}

// UpdateConfiguration merges values into the stored configuration.
func (s *Store) UpdateConfiguration(ctx context.Context, xrgiID string, values map[string]any) error {
	vb, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE devices SET configuration = configuration || $1::jsonb, updated_at=now() WHERE xrgi_id=$2`, string(vb), xrgiID)
	if err != nil {
		return fmt.Errorf("update configuration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ActivityCounts returns the number of open service calls and of reports for a device.
func (s *Store) ActivityCounts(ctx context.Context, xrgiID string) (openCalls, reports int, err error) {
	err = s.pool.QueryRow(ctx, `SELECT
            (SELECT COUNT(*)::int FROM service_calls WHERE xrgi_id=$1 AND status='open'),
            (SELECT COUNT(*)::int FROM service_reports WHERE xrgi_id=$1)`, xrgiID).Scan(&openCalls, &reports)
	if err != nil {
		return 0, 0, fmt.Errorf("activity counts: %w", err)
	}
	return openCalls, reports, nil
}

const callColumns = `id, xrgi_id, status, priority, category, description, technician, opened_at, closed_at`

func scanCall(row pgx.Row) (models.ServiceCall, error) {
	var c models.ServiceCall
	err := row.Scan(&c.ID, &c.XRGIID, &c.Status, &c.Priority, &c.Category, &c.Description, &c.Technician, &c.OpenedAt, &c.ClosedAt)
	return c, err
}

func (s *Store) ListCalls(ctx context.Context, xrgiID string) ([]models.ServiceCall, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+callColumns+` FROM service_calls WHERE xrgi_id=$1 ORDER BY opened_at DESC`, xrgiID)
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	defer rows.Close()
	out := []models.ServiceCall{}
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Call(ctx context.Context, id int64) (models.ServiceCall, error) {
	c, err := scanCall(s.pool.QueryRow(ctx, `SELECT `+callColumns+` FROM service_calls WHERE id=$1`, id))
	if err != nil {
		return models.ServiceCall{}, notFound(err)
	}
	return c, nil
}

const reportColumns = `id, xrgi_id, call_id, technician, visit_date, work_performed, findings, summary, created_at`

func scanReport(row pgx.Row) (models.ServiceReport, error) {
	var r models.ServiceReport
	err := row.Scan(&r.ID, &r.XRGIID, &r.CallID, &r.Technician, &r.VisitDate, &r.WorkPerformed, &r.Findings, &r.Summary, &r.CreatedAt)
	return r, err
}

func (s *Store) ListReports(ctx context.Context, xrgiID string) ([]models.ServiceReport, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+reportColumns+` FROM service_reports WHERE xrgi_id=$1 ORDER BY visit_date DESC, id DESC`, xrgiID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()
	out := []models.ServiceReport{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Report(ctx context.Context, id int64) (models.ServiceReport, error) {
	r, err := scanReport(s.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM service_reports WHERE id=$1`, id))
	if err != nil {
		return models.ServiceReport{}, notFound(err)
	}
	return r, nil
}

func (s *Store) CreateReport(ctx context.Context, r models.ServiceReport) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
        INSERT INTO service_reports(xrgi_id, call_id, technician, visit_date, work_performed, findings, summary)
        VALUES($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		r.XRGIID, r.CallID, r.Technician, r.VisitDate.Format(time.DateOnly), r.WorkPerformed, r.Findings, r.Summary).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}
	return id, nil
}
