package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSONMap is an open key-value metadata map stored as JSON text.
// It works unchanged on PostgreSQL (jsonb) and SQLite (text).
type JSONMap map[string]any

func (JSONMap) GormDataType() string {
	return "json"
}

// GormDBDataType picks the column type per dialect: jsonb on
// PostgreSQL, plain text elsewhere.
func (JSONMap) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "jsonb"
	}
	return "text"
}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for JSONMap", value)
	}

	if len(data) == 0 {
		*m = nil
		return nil
	}

	result := JSONMap{}
	if err := json.Unmarshal(data, &result); err != nil {
		return errors.New("failed to unmarshal JSONMap: " + err.Error())
	}
	*m = result
	return nil
}
