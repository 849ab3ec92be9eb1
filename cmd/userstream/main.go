package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/bjaus/userstream"
)

type config struct {
	Mode   string `usage:"one of: rows, batches, pages, average, seed"`
	CSV    string `usage:"path to a CSV file; when set, reads it instead of MySQL (seed mode reads it as input)"`
	Limit  int    `usage:"max rows to print in rows mode"`
	Batch  int    `usage:"batch size for batches mode"`
	Page   int    `usage:"page size for pages mode"`
	MinAge int    `usage:"age threshold for the batches-mode filter"`
	DB     userstream.DBConfig
}

func main() {
	c := config{
		Mode:   "rows",
		Limit:  6,
		Batch:  3,
		Page:   10,
		MinAge: 25,
		DB: userstream.DBConfig{
			Host: "localhost",
			User: "root",
			Name: "userstream",
		},
	}
	goconfig.Read(&c)

	if err := run(context.Background(), c); err != nil {
		slog.Error("userstream failed", "mode", c.Mode, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c config) error {
	if c.Mode == "seed" {
		return seed(ctx, c)
	}

	src, cleanup, err := openSource(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup()

	if sz, ok := src.(userstream.Sizer); ok {
		slog.Info("source ready", "total", sz.Total())
	}

	reader := userstream.NewReader(src)

	switch c.Mode {
	case "rows":
		return printRows(ctx, reader, c.Limit)
	case "batches":
		return printBatches(ctx, reader, c.Batch, c.MinAge)
	case "pages":
		return printPages(ctx, reader, c.Page)
	case "average":
		avg, err := userstream.AverageAge(ctx, reader)
		if err != nil {
			return err
		}
		fmt.Printf("Average age of users: %v\n", avg)
		return nil
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
}

func openSource(ctx context.Context, c config) (userstream.Source, func(), error) {
	if c.CSV != "" {
		src, err := userstream.LoadCSV(c.CSV)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {}, nil
	}

	db, err := userstream.OpenMySQL(ctx, c.DB)
	if err != nil {
		return nil, nil, err
	}
	return userstream.NewSQLSource(db), func() { db.Close() }, nil
}

func seed(ctx context.Context, c config) error {
	csvPath := c.CSV
	if csvPath == "" {
		csvPath = "user_data.csv"
	}

	db, err := userstream.OpenMySQL(ctx, c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := userstream.EnsureSchema(ctx, db); err != nil {
		return err
	}
	inserted, err := userstream.ImportCSV(ctx, db, csvPath)
	if err != nil {
		return err
	}
	fmt.Printf("Inserted %d users from %s\n", inserted, csvPath)
	return reportTotal(ctx, db)
}

func reportTotal(ctx context.Context, db *sql.DB) error {
	var total int
	row := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+userstream.DefaultTable)
	if err := row.Scan(&total); err != nil {
		return err
	}
	fmt.Printf("Table %s now holds %d users\n", userstream.DefaultTable, total)
	return nil
}

func printRows(ctx context.Context, reader *userstream.Reader, limit int) error {
	printed := 0
	for rec, err := range reader.Rows(ctx) {
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s  %s  %d\n", rec.UserID, rec.Name, rec.Email, rec.Age)
		printed++
		if limit > 0 && printed >= limit {
			break
		}
	}
	return nil
}

func printBatches(ctx context.Context, reader *userstream.Reader, size, minAge int) error {
	reader.WithFilter(func(r userstream.Record) bool { return r.Age > minAge })

	fmt.Printf("Processing users in batches (filtering age > %d):\n", minAge)
	n := 0
	for batch, err := range reader.Batches(ctx, size) {
		if err != nil {
			return err
		}
		n++
		fmt.Printf("\nBatch %d: Found %d users over %d:\n", n, len(batch), minAge)
		for _, rec := range batch {
			fmt.Printf("  %s, Age: %d\n", rec.Name, rec.Age)
		}
	}
	return nil
}

func printPages(ctx context.Context, reader *userstream.Reader, size int) error {
	for page, err := range reader.Pages(ctx, size) {
		if err != nil {
			return err
		}
		fmt.Printf("Fetched %d users:\n", len(page))
		for _, rec := range page {
			fmt.Printf("  %s  %s  %s  %d\n", rec.UserID, rec.Name, rec.Email, rec.Age)
		}
	}
	return nil
}
