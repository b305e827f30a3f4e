package services

import "gorm.io/gorm"

type groupedCount struct {
	Target uint
	Count  int64
}

// CountGroupedBy counts the rows of model per value of column, restricted to the given values.
// Values without any row are absent from the result and read as zero.
func CountGroupedBy(tx *gorm.DB, model any, column string, idx []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(idx))
	if len(idx) == 0 {
		return out, nil
	}

	var rows []groupedCount
	if err := tx.Model(model).
		Select(column+" AS target, COUNT(*) AS count").
		Where(column+" IN ?", idx).
		Group(column).
		Scan(&rows).Error; err != nil {
		return out, err
	}

	for _, row := range rows {
		out[row.Target] = row.Count
	}
	return out, nil
}
