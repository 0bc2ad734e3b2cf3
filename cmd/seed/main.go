package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ikkim/tubemark-backend/config"
	"github.com/ikkim/tubemark-backend/internal/app/repository"
	"github.com/ikkim/tubemark-backend/internal/app/service"
	"github.com/ikkim/tubemark-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// requiredColumns are the header names the first sheet must carry
var requiredColumns = []string{"name", "email", "user", "password"}

type importResult struct {
	created int
	skipped int
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	users, err := readUsersFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total users to import: %d\n", len(users))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// Importing without revocation; seeded accounts log in normally
	authService := service.NewAuthService(repository.NewUserRepository(db.GetDB()), nil, cfg.JWT.Secret, cfg.JWT.Expiry)

	result := importUsers(authService, users)

	fmt.Println("Import completed successfully!")
	fmt.Printf("Users created: %d, skipped: %d\n", result.created, result.skipped)
}

func readUsersFromXLSX(filePath string) ([]service.RegisterInput, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	columns := make(map[string]int)
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	cell := func(row []string, name string) string {
		i := columns[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var users []service.RegisterInput
	for _, row := range rows[1:] {
		input := service.RegisterInput{
			Name:     cell(row, "name"),
			Email:    cell(row, "email"),
			Username: cell(row, "user"),
			Password: cell(row, "password"),
		}
		if input.Name == "" && input.Email == "" && input.Username == "" && input.Password == "" {
			continue
		}
		users = append(users, input)
	}

	return users, nil
}

// importUsers registers each row, skipping rows that are incomplete or already taken
func importUsers(authService service.AuthService, users []service.RegisterInput) importResult {
	var result importResult
	for i, input := range users {
		if _, err := authService.Register(input); err != nil {
			result.skipped++
			switch {
			case errors.Is(err, service.ErrMissingFields),
				errors.Is(err, service.ErrUsernameAlreadyExists),
				errors.Is(err, service.ErrEmailAlreadyExists):
				fmt.Printf("Row %d skipped: %v\n", i+2, err)
			default:
				fmt.Printf("Row %d failed: %v\n", i+2, err)
			}
			continue
		}
		result.created++
	}
	return result
}
