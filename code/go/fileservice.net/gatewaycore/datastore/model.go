package datastore

import "time"

type ModelWithTS struct {
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// models registered for schema auto-migration on the dev/test stores. The
// production schema is managed by the SQL migrations instead.
var models []interface{}

func RegisterModel(m interface{}) {
	models = append(models, m)
}
