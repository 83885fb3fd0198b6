package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub/database"
	"reviewhub/internal/api/models"
	"reviewhub/internal/config"
)

// Loads the seed dataset from CSV_DATA_PATH into the database. Files are
// loaded in dependency order so foreign keys resolve. User rows carry
// numeric ids in the files; they are remapped to fresh UUIDs and the
// mapping is reused for review and comment authors.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	imp := &importer{db: db, dir: cfg.CSVDataPath, userIDs: make(map[string]string)}

	steps := []struct {
		file string
		run  func(string) (int, error)
	}{
		{"users.csv", imp.users},
		{"category.csv", imp.categories},
		{"genre.csv", imp.genres},
		{"titles.csv", imp.titles},
		{"genre_title.csv", imp.titleGenres},
		{"review.csv", imp.reviews},
		{"comments.csv", imp.comments},
	}
	for _, step := range steps {
		n, err := step.run(filepath.Join(imp.dir, step.file))
		if err != nil {
			logger.Error("import failed", "file", step.file, "error", err)
			os.Exit(1)
		}
		logger.Info("imported", "file", step.file, "rows", n)
	}
}

type importer struct {
	db  *gorm.DB
	dir string

	// csv user id -> generated uuid
	userIDs map[string]string
}

// readAll returns the file's rows as maps keyed by the header row.
func readAll(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func atoi64(row map[string]string, col string) (int64, error) {
	v, err := strconv.ParseInt(row[col], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return v, nil
}

func (imp *importer) users(path string) (int, error) {
	rows, err := readAll(path)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		id := uuid.New().String()
		imp.userIDs[row["id"]] = id
		u := models.User{
			ID:        id,
			Username:  row["username"],
			Email:     row["email"],
			Role:      models.Role(row["role"]),
			Bio:       row["bio"],
			FirstName: row["first_name"],
			LastName:  row["last_name"],
		}
		if err := imp.db.Create(&u).Error; err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func (imp *importer) categories(path string) (int, error) {
	rows, err := readAll(path)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		id, err := atoi64(row, "id")
		if err != nil {
			return 0, err
		}
		c := models.Category{ID: id, Name: row["name"], Slug: row["slug"]}
		if err := imp.db.Create(&c).Error; err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func (imp *importer) genres(path string) (int, error) {
	rows, err := readAll(path)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		id, err := atoi64(row, "id")
		if err != nil {
			return 0, err
		}
		g := models.Genre{ID: id, Name: row["name"], Slug: row["slug"]}
		if err := imp.db.Create(&g).Error; err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func (imp *importer) titles(path string) (int, error) {
	rows, err := readAll(path)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		id, err := atoi64(row, "id")
		if err != nil {
			return 0, err
		}
		year, err := strconv.Atoi(row["year"])
		if err != nil {
			return 0, fmt.Errorf("column year: %w", err)
		}
		categoryID, err := atoi64(row, "category")
		if err != nil {
			return 0, err
		}
		t := models.Title{ID: id, Name: row["name"], Year: year, CategoryID: &categoryID}
		if err := imp.db.Create(&t).Error; err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func (imp *importer) titleGenres(path string) (int, error) {
	rows, err := readAll(path)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		titleID, err := atoi64(row, "title_id")
		if err != nil {
			return 0, err
		}
		genreID, err := atoi64(row, "genre_id")
		if err != nil {
			return 0, err
		}
		err = imp.db.Exec(
			"INSERT INTO title_genres (title_id, genre_id) VALUES (?, ?)",
			titleID, genreID,
		).Error
		if err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func (imp *importer) reviews(path string) (int, error) {
	rows, err := readAll(path)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		id, err := atoi64(row, "id")
		if err != nil {
			return 0, err
		}
		titleID, err := atoi64(row, "title_id")
		if err != nil {
			return 0, err
		}
		score, err := strconv.Atoi(row["score"])
		if err != nil {
			return 0, fmt.Errorf("column score: %w", err)
		}
		authorID, ok := imp.userIDs[row["author"]]
		if !ok {
			return 0, fmt.Errorf("unknown author id %s", row["author"])
		}
		pubDate, err := time.Parse(time.RFC3339, row["pub_date"])
		if err != nil {
			return 0, fmt.Errorf("column pub_date: %w", err)
		}
		rv := models.Review{
			ID:       id,
			TitleID:  titleID,
			AuthorID: authorID,
			Text:     row["text"],
			Score:    score,
			PubDate:  pubDate,
		}
		if err := imp.db.Create(&rv).Error; err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func (imp *importer) comments(path string) (int, error) {
	rows, err := readAll(path)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		id, err := atoi64(row, "id")
		if err != nil {
			return 0, err
		}
		reviewID, err := atoi64(row, "review_id")
		if err != nil {
			return 0, err
		}
		authorID, ok := imp.userIDs[row["author"]]
		if !ok {
			return 0, fmt.Errorf("unknown author id %s", row["author"])
		}
		pubDate, err := time.Parse(time.RFC3339, row["pub_date"])
		if err != nil {
			return 0, fmt.Errorf("column pub_date: %w", err)
		}
		cm := models.Comment{
			ID:       id,
			ReviewID: reviewID,
			AuthorID: authorID,
			Text:     row["text"],
			PubDate:  pubDate,
		}
		if err := imp.db.Create(&cm).Error; err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}
