package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// FavoritesColumn adapts an ID list to a jsonb column for single-column updates,
// where GORM's struct-tag serializer does not apply.
type FavoritesColumn []int64

// Value implements driver.Valuer, encoding the list as a JSON array.
func (f FavoritesColumn) Value() (driver.Value, error) {
	if f == nil {
		f = FavoritesColumn{}
	}

	data, err := json.Marshal([]int64(f))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal favorites column")
	}

	return string(data), nil
}

// Scan implements sql.Scanner, decoding a JSON array back into the list.
func (f *FavoritesColumn) Scan(src any) error {
	if src == nil {
		*f = FavoritesColumn{}

		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported favorites column type %T", src)
	}

	return errors.Wrap(json.Unmarshal(data, (*[]int64)(f)), "failed to unmarshal favorites column")
}
