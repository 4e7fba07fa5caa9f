package persistence

import (
	"context"
	"strconv"
	"strings"

	"github.com/vellap/portal/internal/domain/shared"
	"gorm.io/gorm"
)

// nextSeriesName returns the name following the highest existing name with
// prefix in the model's table. Series numbers are zero padded, so the
// lexically greatest name carries the highest number.
func nextSeriesName(ctx context.Context, db *gorm.DB, model any, prefix string) (string, error) {
	var names []string
	err := db.WithContext(ctx).Model(model).
		Where("name LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Order("name DESC").
		Limit(1).
		Pluck("name", &names).Error
	if err != nil {
		return "", err
	}

	var last int64
	if len(names) > 0 {
		if n, err := strconv.ParseInt(strings.TrimPrefix(names[0], prefix), 10, 64); err == nil {
			last = n
		}
	}
	return shared.SeriesName(prefix, last+1), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
