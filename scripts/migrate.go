package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Applies the indexes gorm's AutoMigrate does not create and seeds the
// initial admin account when ADMIN_EMAIL is set.
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Build connection string
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	// Connect to database
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_referred_by ON users (referred_by)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_referrals_referred_id ON referrals (referred_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_investments_user_id ON investments (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawal_requests_status ON withdrawal_requests (status)`,
	}

	for _, stmt := range statements {
		log.Printf("Applying: %s", stmt)
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Failed to apply statement: %v", err)
		}
	}

	if adminEmail := os.Getenv("ADMIN_EMAIL"); adminEmail != "" {
		result, err := db.Exec(`UPDATE users SET is_admin = true WHERE email = $1`, adminEmail)
		if err != nil {
			log.Fatalf("Failed to set admin flag: %v", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			log.Printf("No user found with email %s; admin flag not set", adminEmail)
		} else {
			log.Printf("Admin flag set for %s", adminEmail)
		}
	}

	log.Println("Migration completed successfully")
}
