package repositories

import (
	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"gorm.io/gorm"
)

// applyPatch issues one UPDATE with a clause per present patch field.
func applyPatch(q *gorm.DB, patch any) (int64, error) {
	cols := helpers.PatchColumns(patch)
	if len(cols) == 0 {
		return 0, ErrEmptyPatch
	}
	res := q.Updates(cols)
	return res.RowsAffected, res.Error
}
