// config/database.go
package config

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB opens the PostgreSQL connection. The handle is returned to the
// caller and passed down explicitly; there is no package-level connection.
func ConnectDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("variável de ambiente DB_URL não definida")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("conectar ao banco de dados: %w", err)
	}
	return db, nil
}
