package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/capture-moments/backend/internal/models"
)

// PostgresStore is the relational adapter. Keys are BIGSERIAL and leave this
// file rendered in decimal.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgres connects, pings and migrates within timeout.
func OpenPostgres(ctx context.Context, dsn string, timeout time.Duration) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w: %v", models.ErrBackendUnavailable, err)
	}
	if err := Migrate(dsn); err != nil {
		pool.Close()
		return nil, err
	}
	return NewPostgresStore(pool), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

// CreateAccount inserts the user and, for photographers, the profile in one
// transaction.
func (s *PostgresStore) CreateAccount(ctx context.Context, u *models.User, profile *models.Photographer) (*models.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, pgError("create account", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var (
		id      int64
		created models.User
	)
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password, is_photographer)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, username, email, password, is_photographer, created_at`,
		u.Username, u.Email, u.Password, u.IsPhotographer,
	).Scan(&id, &created.Username, &created.Email, &created.Password, &created.IsPhotographer, &created.CreatedAt)
	if err != nil {
		return nil, pgError("create user", err)
	}
	created.ID = formatID(id)

	if profile != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO photographers (user_id, name, bio, specialty, price_per_hour, location, profile_image)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, profile.Name, profile.Bio, profile.Specialty, profile.PricePerHour, profile.Location, profile.ProfileImage,
		)
		if err != nil {
			return nil, pgError("create photographer", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, pgError("create account", err)
	}
	return &created, nil
}

const userColumns = `id, username, email, password, is_photographer, created_at`

func (s *PostgresStore) UserByName(ctx context.Context, username string) (*models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		id int64
		u  models.User
	)
	if err := row.Scan(&id, &u.Username, &u.Email, &u.Password, &u.IsPhotographer, &u.CreatedAt); err != nil {
		return nil, pgError("get user", err)
	}
	u.ID = formatID(id)
	return &u, nil
}

const photographerColumns = `id, user_id, name, bio, specialty, price_per_hour, location, profile_image`

func (s *PostgresStore) ListPhotographers(ctx context.Context) ([]models.Photographer, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+photographerColumns+` FROM photographers`)
	if err != nil {
		return nil, pgError("list photographers", err)
	}
	defer rows.Close()

	out := []models.Photographer{}
	for rows.Next() {
		p, err := scanPhotographer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, pgError("list photographers", err)
	}
	return out, nil
}

func (s *PostgresStore) PhotographerByID(ctx context.Context, id models.ID) (*models.Photographer, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := s.pool.QueryRow(ctx, `SELECT `+photographerColumns+` FROM photographers WHERE id = $1`, n)
	return scanPhotographer(row)
}

func (s *PostgresStore) PhotographerByUser(ctx context.Context, userID models.ID) (*models.Photographer, error) {
	n, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	row := s.pool.QueryRow(ctx, `SELECT `+photographerColumns+` FROM photographers WHERE user_id = $1`, n)
	return scanPhotographer(row)
}

func (s *PostgresStore) UpdatePhotographer(ctx context.Context, p *models.Photographer) error {
	n, err := parseID(p.ID)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE photographers
		 SET name = $2, bio = $3, specialty = $4, price_per_hour = $5, location = $6, profile_image = $7
		 WHERE id = $1`,
		n, p.Name, p.Bio, p.Specialty, p.PricePerHour, p.Location, p.ProfileImage,
	)
	if err != nil {
		return pgError("update photographer", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update photographer: %w", models.ErrNotFound)
	}
	return nil
}

func scanPhotographer(row pgx.Row) (*models.Photographer, error) {
	var (
		id, userID int64
		p          models.Photographer
	)
	if err := row.Scan(&id, &userID, &p.Name, &p.Bio, &p.Specialty, &p.PricePerHour, &p.Location, &p.ProfileImage); err != nil {
		return nil, pgError("get photographer", err)
	}
	p.ID = formatID(id)
	p.UserID = formatID(userID)
	return &p, nil
}

const bookingColumns = `id, user_id, photographer_id,
	to_char(booking_date, 'YYYY-MM-DD'), to_char(start_time, 'HH24:MI'),
	duration, status, created_at`

func (s *PostgresStore) CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	userID, err := parseID(b.UserID)
	if err != nil {
		return nil, err
	}
	photographerID, err := parseID(b.PhotographerID)
	if err != nil {
		return nil, err
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO bookings (user_id, photographer_id, booking_date, start_time, duration, status, created_at)
		 VALUES ($1, $2, $3::date, $4::time, $5, $6, $7)
		 RETURNING `+bookingColumns,
		userID, photographerID, b.Date, b.Time, b.Duration, string(b.Status), b.CreatedAt,
	)
	return scanBooking(row)
}

func (s *PostgresStore) BookingByID(ctx context.Context, id models.ID) (*models.Booking, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := s.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, n)
	return scanBooking(row)
}

func (s *PostgresStore) UpdateBookingStatus(ctx context.Context, id models.ID, status models.BookingStatus) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `UPDATE bookings SET status = $2 WHERE id = $1`, n, string(status))
	if err != nil {
		return pgError("update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update booking: %w", models.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) BookingsByUser(ctx context.Context, userID models.ID) ([]models.Booking, error) {
	n, err := parseID(userID)
	if err != nil {
		return []models.Booking{}, nil
	}
	return s.queryBookings(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1`, n)
}

func (s *PostgresStore) BookingsByPhotographer(ctx context.Context, photographerID models.ID) ([]models.Booking, error) {
	n, err := parseID(photographerID)
	if err != nil {
		return []models.Booking{}, nil
	}
	return s.queryBookings(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE photographer_id = $1`, n)
}

func (s *PostgresStore) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, pgError("list bookings", err)
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, pgError("list bookings", err)
	}
	return out, nil
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var (
		id, userID, photographerID int64
		status                     string
		b                          models.Booking
	)
	if err := row.Scan(&id, &userID, &photographerID, &b.Date, &b.Time, &b.Duration, &status, &b.CreatedAt); err != nil {
		return nil, pgError("get booking", err)
	}
	b.ID = formatID(id)
	b.UserID = formatID(userID)
	b.PhotographerID = formatID(photographerID)
	b.Status = models.BookingStatus(status)
	return &b, nil
}

func (s *PostgresStore) CreateReview(ctx context.Context, r *models.Review) (*models.Review, error) {
	userID, err := parseID(r.UserID)
	if err != nil {
		return nil, err
	}
	photographerID, err := parseID(r.PhotographerID)
	if err != nil {
		return nil, err
	}

	var id int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO reviews (user_id, photographer_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		userID, photographerID, r.Rating, r.Comment, r.CreatedAt,
	).Scan(&id)
	if err != nil {
		return nil, pgError("create review", err)
	}
	out := *r
	out.ID = formatID(id)
	return &out, nil
}

func (s *PostgresStore) ReviewsByPhotographer(ctx context.Context, photographerID models.ID) ([]models.Review, error) {
	n, err := parseID(photographerID)
	if err != nil {
		return []models.Review{}, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, photographer_id, rating, comment, created_at
		 FROM reviews WHERE photographer_id = $1 ORDER BY created_at DESC`, n)
	if err != nil {
		return nil, pgError("list reviews", err)
	}
	defer rows.Close()

	out := []models.Review{}
	for rows.Next() {
		var (
			id, userID, pid int64
			r               models.Review
		)
		if err := rows.Scan(&id, &userID, &pid, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, pgError("list reviews", err)
		}
		r.ID = formatID(id)
		r.UserID = formatID(userID)
		r.PhotographerID = formatID(pid)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, pgError("list reviews", err)
	}
	return out, nil
}

func formatID(n int64) models.ID {
	return strconv.FormatInt(n, 10)
}

// parseID maps an identifier that cannot be a relational key to ErrNotFound.
func parseID(id models.ID) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("id %q: %w", id, models.ErrNotFound)
	}
	return n, nil
}

// pgError folds driver errors into the models error set.
func pgError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w", op, models.ErrDuplicateIdentity)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, models.ErrNotFound)
		case pgerrcode.InvalidDatetimeFormat, pgerrcode.DatetimeFieldOverflow, pgerrcode.CheckViolation:
			return fmt.Errorf("%s: %w: %s", op, models.ErrInvalidInput, pgErr.Message)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%s: %w: %v", op, models.ErrBackendUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
