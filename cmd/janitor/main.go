package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
)

// handler poda el audit log viejo y los registros en cero (ausente == 0 xp).
func handler(ctx context.Context) (string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "no DATABASE_URL", nil
	}
	days := 90
	if v, err := strconv.Atoi(os.Getenv("AUDIT_RETENTION_DAYS")); err == nil && v > 0 {
		days = v
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Sprintf("parse: %v", err), nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Sprintf("pool: %v", err), nil
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	audit, err := pool.Exec(cctx, `DELETE FROM xp_audit_log WHERE created_at < now() - make_interval(days => $1)`, days)
	if err != nil {
		return "", fmt.Errorf("prune audit: %w", err)
	}
	zero, err := pool.Exec(cctx, `DELETE FROM levels WHERE xp = 0`)
	if err != nil {
		return "", fmt.Errorf("prune zero levels: %w", err)
	}

	return fmt.Sprintf("ok audit=%d zero=%d", audit.RowsAffected(), zero.RowsAffected()), nil
}

func main() { lambda.Start(handler) }
