package catalog

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/constants"
	"github.com/shadysedhom/mair-assignment/pkg/errors"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Table    string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresReader loads rows from a table with the catalog column names.
type PostgresReader struct {
	db     *sqlx.DB
	table  string
	logger *zap.Logger
}

func NewPostgresReader(ctx context.Context, cfg PostgresConfig, logger *zap.Logger) (*PostgresReader, error) {
	if !tableName.MatchString(cfg.Table) {
		return nil, errors.NewValidationError("invalid catalog table name", "CATALOG_TABLE", cfg.Table)
	}

	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, errors.NewCatalogError("failed to open postgres", "postgres", err)
	}

	db.SetMaxOpenConns(constants.PostgresConfig.MaxOpenConns)
	db.SetMaxIdleConns(constants.PostgresConfig.MaxIdleConns)
	db.SetConnMaxLifetime(constants.PostgresConfig.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, constants.PostgresConfig.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.NewCatalogError("failed to ping postgres", "postgres", err)
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("table", cfg.Table),
	)

	return NewPostgresReaderFromDB(db, cfg.Table, logger), nil
}

// NewPostgresReaderFromDB wraps an existing handle. The table name is
// trusted.
func NewPostgresReaderFromDB(db *sqlx.DB, table string, logger *zap.Logger) *PostgresReader {
	return &PostgresReader{db: db, table: table, logger: logger}
}

func (r *PostgresReader) Read(ctx context.Context) ([]Row, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(restaurantname, '') AS restaurantname,
		       COALESCE(pricerange, '')     AS pricerange,
		       COALESCE(area, '')           AS area,
		       COALESCE(food, '')           AS food,
		       COALESCE(phone, '')          AS phone,
		       COALESCE(addr, '')           AS addr,
		       COALESCE(postcode, '')       AS postcode
		FROM %s
		ORDER BY ctid`, r.table)

	rows := make([]Row, 0)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.NewCatalogError("failed to query catalog", r.table, err)
	}

	r.logger.Debug("Catalog rows loaded", zap.String("table", r.table), zap.Int("count", len(rows)))
	return rows, nil
}

func (r *PostgresReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
