package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"lightbnb/internal/adapters/observability"
	"lightbnb/internal/domain"
)

// DBTX is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX              = (*sql.DB)(nil)
	_ domain.Repository = (*Repo)(nil)
)

type rowScanner interface {
	Scan(dest ...any) error
}

type Repo struct {
	db      DBTX
	dialect Dialect
	log     zerolog.Logger
}

func New(db DBTX, d Dialect, l zerolog.Logger) *Repo {
	return &Repo{db: db, dialect: d, log: l.With().Str("component", "sqlstore").Str("dialect", d.Name).Logger()}
}

func (r *Repo) Dialect() Dialect { return r.dialect }

// observe records one statement: a debug "executed query" line plus metrics.
// Failures other than a missing row are logged at warn.
func (r *Repo) observe(op string, start time.Time, rows int, err error) {
	dur := time.Since(start)
	observability.ObserveQuery(op, rows, dur, err)
	ev := r.log.Debug()
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		ev = r.log.Warn().Err(err)
	}
	ev.Str("op", op).Dur("duration", dur).Int("rows", rows).Msg("executed query")
}

// ---- users ----

func (r *Repo) GetUserWithEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getUser(ctx, "get_user_with_email", getUserWithEmailSQL, email)
}

func (r *Repo) GetUserWithID(ctx context.Context, id int64) (domain.User, error) {
	return r.getUser(ctx, "get_user_with_id", getUserWithIDSQL, id)
}

func (r *Repo) getUser(ctx context.Context, op, query string, arg any) (u domain.User, err error) {
	start := time.Now()
	defer func() { r.observe(op, start, rowCount(err), err) }()

	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), arg)
	if err := scanUser(row, &u); err != nil {
		return domain.User{}, mapError(op, err)
	}
	return u, nil
}

func (r *Repo) AddUser(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	const op = "add_user"
	start := time.Now()
	args := []any{nu.Name, nu.Email, nu.Password}

	if r.dialect.Returning {
		var u domain.User
		row := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertUserSQL+returningUserSQL), args...)
		err := mapError(op, scanUser(row, &u))
		r.observe(op, start, rowCount(err), err)
		if err != nil {
			return domain.User{}, err
		}
		return u, nil
	}

	id, err := r.insert(ctx, op, start, insertUserSQL, args)
	if err != nil {
		return domain.User{}, err
	}
	return r.GetUserWithID(ctx, id)
}

// ---- reservations ----

func (r *Repo) GetAllReservations(ctx context.Context, guestID int64, limit int) (_ []domain.GuestReservation, err error) {
	const op = "get_all_reservations"
	start := time.Now()
	var out []domain.GuestReservation
	defer func() { r.observe(op, start, len(out), err) }()

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(getAllReservationsSQL), guestID, clampLimit(limit))
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var gr domain.GuestReservation
		var rating sql.NullFloat64
		dest := []any{
			&gr.ID, &gr.GuestID, &gr.PropertyID, &gr.StartDate, &gr.EndDate,
		}
		var desc sql.NullString
		dest = append(dest, propertyDest(&gr.Property, &desc)...)
		dest = append(dest, &rating)
		if err := rows.Scan(dest...); err != nil {
			return nil, mapError(op, err)
		}
		gr.Property.Description = desc.String
		gr.Property.AverageRating = nullFloat(rating)
		out = append(out, gr)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return out, nil
}

// ---- properties ----

func (r *Repo) GetAllProperties(ctx context.Context, f domain.PropertyFilter) (_ []domain.Property, err error) {
	const op = "get_all_properties"
	start := time.Now()
	var out []domain.Property
	defer func() { r.observe(op, start, len(out), err) }()

	query, args := buildPropertiesQuery(r.dialect, f)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Property
		var desc sql.NullString
		var rating sql.NullFloat64
		if err := rows.Scan(append(propertyDest(&p, &desc), &rating)...); err != nil {
			return nil, mapError(op, err)
		}
		p.Description = desc.String
		p.AverageRating = nullFloat(rating)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return out, nil
}

func (r *Repo) AddProperty(ctx context.Context, np domain.NewProperty) (domain.Property, error) {
	const op = "add_property"
	start := time.Now()
	args := []any{
		np.OwnerID,
		np.Title,
		valStr(np.Description),
		np.ThumbnailPhotoURL,
		np.CoverPhotoURL,
		np.CostPerNight,
		np.ParkingSpaces,
		np.NumberOfBathrooms,
		np.NumberOfBedrooms,
		np.Country,
		np.Street,
		np.City,
		np.Province,
		np.PostCode,
	}

	if r.dialect.Returning {
		row := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertPropertySQL+returningPropertySQL), args...)
		p, err := scanProperty(row)
		err = mapError(op, err)
		r.observe(op, start, rowCount(err), err)
		if err != nil {
			return domain.Property{}, err
		}
		return p, nil
	}

	id, err := r.insert(ctx, op, start, insertPropertySQL, args)
	if err != nil {
		return domain.Property{}, err
	}
	return r.getProperty(ctx, id)
}

func (r *Repo) getProperty(ctx context.Context, id int64) (p domain.Property, err error) {
	const op = "get_property_by_id"
	start := time.Now()
	defer func() { r.observe(op, start, rowCount(err), err) }()

	p, err = scanProperty(r.db.QueryRowContext(ctx, r.dialect.Rebind(getPropertyByIDSQL), id))
	if err != nil {
		return domain.Property{}, mapError(op, err)
	}
	return p, nil
}

// insert runs an INSERT without RETURNING and reports the generated id.
func (r *Repo) insert(ctx context.Context, op string, start time.Time, query string, args []any) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		err = mapError(op, err)
		r.observe(op, start, 0, err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		err = mapError(op, err)
		r.observe(op, start, 0, err)
		return 0, err
	}
	r.observe(op, start, 1, nil)
	return id, nil
}

// ---- scanning ----

func scanUser(row rowScanner, u *domain.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.Password)
}

// propertyDest returns scan targets in propertyFields order. Description is
// nullable in the schema and lands in desc.
func propertyDest(p *domain.Property, desc *sql.NullString) []any {
	return []any{
		&p.ID, &p.OwnerID, &p.Title, desc, &p.ThumbnailPhotoURL, &p.CoverPhotoURL,
		&p.CostPerNight, &p.ParkingSpaces, &p.NumberOfBathrooms, &p.NumberOfBedrooms,
		&p.Country, &p.Street, &p.City, &p.Province, &p.PostCode, &p.Active,
	}
}

func scanProperty(row rowScanner) (domain.Property, error) {
	var p domain.Property
	var desc sql.NullString
	if err := row.Scan(propertyDest(&p, &desc)...); err != nil {
		return domain.Property{}, err
	}
	p.Description = desc.String
	return p, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func rowCount(err error) int {
	if err != nil {
		return 0
	}
	return 1
}
